package app

import (
	"context"
	"errors"
	"fmt"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// ErrNotCollecting фото ракурса пришло вне сессии сбора ракурсов
var ErrNotCollecting = errors.New("multi-view session is not started")

// SessionService ведёт диалог пользователя: одиночная оценка или сбор ракурсов
type SessionService struct {
	repo    port.SessionRepository
	grading *GradingService
}

// NewSessionService создаёт сервис сессий
func NewSessionService(repo port.SessionRepository, grading *GradingService) *SessionService {
	return &SessionService{repo: repo, grading: grading}
}

// Get возвращает сессию пользователя
func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.GradingSession, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState переводит сессию в новое состояние, не трогая собранные ракурсы
func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.GradingSession, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}
	session.SetState(state)

	return session, nil
}

// BeginSingle ждёт одно фото для оценки
func (s *SessionService) BeginSingle(ctx context.Context, userID, chatID int64) (*entity.GradingSession, error) {
	return s.restart(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

// BeginViews начинает сбор ракурсов одного плода
func (s *SessionService) BeginViews(ctx context.Context, userID, chatID int64) (*entity.GradingSession, error) {
	return s.restart(ctx, userID, chatID, entity.StateCollectingView)
}

// Cancel сбрасывает собранные ракурсы и возвращает в главное меню
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.GradingSession, error) {
	return s.restart(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *SessionService) restart(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.GradingSession, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.Reset()
	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddView оценивает очередной ракурс и добавляет его в сессию.
// При шестиступенчатой таблице n-й ракурс становится сегментом A+n.
func (s *SessionService) AddView(ctx context.Context, userID, chatID int64, photo []byte) (*ViewOutput, *entity.GradingSession, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, nil, err
	}
	if session.State != entity.StateCollectingView {
		return nil, session, ErrNotCollecting
	}

	label := fmt.Sprintf("ракурс %d", len(session.Views)+1)
	if s.grading.segmented() {
		label = string(session.NextSegment())
	}

	out, err := s.grading.GradePrimary(ctx, photo, label)
	if err != nil {
		return nil, session, err
	}

	session.AddView(out.View)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return out, session, nil
}

// Finish сводит собранные ракурсы. Без ракурсов возвращает ErrEmptyInput
// и оставляет сессию открытой.
func (s *SessionService) Finish(ctx context.Context, userID, chatID int64) (*entity.AggregateGradeResult, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if session.State != entity.StateCollectingView {
		return nil, ErrNotCollecting
	}

	result, err := s.grading.Aggregate(session.Views)
	if err != nil {
		return nil, err
	}

	if _, err := s.Cancel(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return result, nil
}
