package port

import (
	"context"

	"durian-grader/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий оценки
type SessionRepository interface {
	// Get возвращает сессию пользователя, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.GradingSession, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.GradingSession) error

	// UpdateState обновляет состояние сессии
	UpdateState(ctx context.Context, userID int64, state entity.SessionState) error
}
