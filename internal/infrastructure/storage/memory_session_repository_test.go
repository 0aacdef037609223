package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"durian-grader/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	first, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, first.State)
	require.Equal(t, int64(10), first.ChatID)

	second, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestMemorySessionRepository_SaveAndUpdateState(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := entity.NewGradingSession(2, 20)
	session.AddView(&entity.ViewGradeResult{Grade: entity.GradeAB})
	require.NoError(t, repo.Save(ctx, session))

	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateCollectingView))
	got, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateCollectingView, got.State)
	require.Len(t, got.Views, 1)

	// Неизвестный пользователь не создаётся.
	require.NoError(t, repo.UpdateState(ctx, 3, entity.StateProcessing))
	fresh, err := repo.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, fresh.State)
}

func TestMemorySessionRepository_ConcurrentGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	const n = 16
	got := make([]*entity.GradingSession, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = repo.Get(ctx, 7, 70)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		require.Same(t, got[0], s)
	}
}
