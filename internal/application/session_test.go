package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/infrastructure/storage"
)

// stateRecorder запоминает переходы, прошедшие через UpdateState
type stateRecorder struct {
	*storage.MemorySessionRepository
	states []entity.SessionState
}

func (r *stateRecorder) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	r.states = append(r.states, state)
	return r.MemorySessionRepository.UpdateState(ctx, userID, state)
}

func TestSessionService_SetStateKeepsViews(t *testing.T) {
	seg := &fakeSegmenter{detections: []entity.ObjectDetection{balancedDetection(0.9)}}
	repo := &stateRecorder{MemorySessionRepository: storage.NewMemorySessionRepository()}
	svc := NewSessionService(repo, newGradingService(t, seg, nil, nil))
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)
	_, _, err = svc.AddView(ctx, 1, 10, []byte("photo"))
	require.NoError(t, err)

	session, err := svc.SetState(ctx, 1, 10, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)
	require.Equal(t, []entity.SessionState{entity.StateProcessing}, repo.states)

	stored, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
	require.Len(t, stored.Views, 1)
}

func TestSessionService_BeginSingle(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository(), nil)
	ctx := context.Background()

	session, err := svc.BeginSingle(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)
}

func TestSessionService_CollectAndFinish(t *testing.T) {
	seg := &fakeSegmenter{detections: []entity.ObjectDetection{balancedDetection(0.9)}}
	svc := NewSessionService(storage.NewMemorySessionRepository(), newGradingService(t, seg, nil, nil))
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)

	first, session, err := svc.AddView(ctx, 1, 10, []byte("front"))
	require.NoError(t, err)
	require.Equal(t, "ракурс 1", first.View.Label)
	require.Len(t, session.Views, 1)

	seg.detections = []entity.ObjectDetection{lowerLeftDetection(0.9)}
	_, session, err = svc.AddView(ctx, 1, 10, []byte("back"))
	require.NoError(t, err)
	require.Len(t, session.Views, 2)

	result, err := svc.Finish(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, result.Views)
	require.Equal(t, []entity.Grade{entity.GradeAB, entity.GradeC}, result.IndividualGrades)
	require.Equal(t, entity.GradeC, result.WorstGrade)

	// Левая половина: (0 + 100) / 2 = 50% > 5%.
	require.Equal(t, entity.GradeC, result.FinalGrade)

	session, err = svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
	require.Empty(t, session.Views)
}

func TestSessionService_FinishWithoutViews(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository(), newGradingService(t, &fakeSegmenter{}, nil, nil))
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.Finish(ctx, 1, 10)
	require.ErrorIs(t, err, entity.ErrEmptyInput)

	session, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateCollectingView, session.State)
}

func TestSessionService_AddViewOutsideSession(t *testing.T) {
	seg := &fakeSegmenter{detections: []entity.ObjectDetection{balancedDetection(0.9)}}
	svc := NewSessionService(storage.NewMemorySessionRepository(), newGradingService(t, seg, nil, nil))
	ctx := context.Background()

	_, _, err := svc.AddView(ctx, 1, 10, []byte("photo"))
	require.ErrorIs(t, err, ErrNotCollecting)
	require.Zero(t, seg.calls)

	_, err = svc.Finish(ctx, 1, 10)
	require.ErrorIs(t, err, ErrNotCollecting)
}

func TestSessionService_NoDetectionKeepsSession(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository(), newGradingService(t, &fakeSegmenter{}, nil, nil))
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)

	_, session, err := svc.AddView(ctx, 1, 10, []byte("empty"))
	require.ErrorIs(t, err, entity.ErrNoDetection)
	require.Equal(t, entity.StateCollectingView, session.State)
	require.Empty(t, session.Views)
}

func TestSessionService_SegmentLabels(t *testing.T) {
	seg := &fakeSegmenter{detections: []entity.ObjectDetection{filledDetection(20)}}
	grader := newGradingService(t, seg, nil, func(c *entity.GradeConfiguration) {
		c.Policy = entity.PolicyFullness
		c.Table = entity.TableSixBucket
	})
	svc := NewSessionService(storage.NewMemorySessionRepository(), grader)
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		out, _, err := svc.AddView(ctx, 1, 10, []byte("segment"))
		require.NoError(t, err)
		require.Equal(t, string(entity.SegmentSide(i)), out.View.Label)
	}

	result, err := svc.Finish(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Sides, 5)
	require.Equal(t, entity.GradeAPlus, result.FinalGrade)
}

func TestSessionService_Cancel(t *testing.T) {
	seg := &fakeSegmenter{detections: []entity.ObjectDetection{balancedDetection(0.9)}}
	svc := NewSessionService(storage.NewMemorySessionRepository(), newGradingService(t, seg, nil, nil))
	ctx := context.Background()

	_, err := svc.BeginViews(ctx, 1, 10)
	require.NoError(t, err)
	_, _, err = svc.AddView(ctx, 1, 10, []byte("photo"))
	require.NoError(t, err)

	session, err := svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
	require.Empty(t, session.Views)
}
