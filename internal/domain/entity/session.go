package entity

// SessionState состояние пользователя в диалоге
type SessionState string

const (
	StateMainMenu       SessionState = "main_menu"       // В главном меню
	StateAwaitingPhoto  SessionState = "awaiting_photo"  // Ожидание одного фото для оценки
	StateCollectingView SessionState = "collecting_view" // Сбор ракурсов одного дуриана
	StateProcessing     SessionState = "processing"      // Обработка изображения
)

// GradingSession сессия оценки пользователя бота
type GradingSession struct {
	UserID int64              // Telegram User ID
	ChatID int64              // Telegram Chat ID
	State  SessionState       // Текущее состояние
	Views  []*ViewGradeResult // Собранные ракурсы
}

// NewGradingSession создаёт сессию с начальным состоянием
func NewGradingSession(userID, chatID int64) *GradingSession {
	return &GradingSession{
		UserID: userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *GradingSession) SetState(state SessionState) {
	s.State = state
}

// AddView добавляет ракурс
func (s *GradingSession) AddView(view *ViewGradeResult) {
	s.Views = append(s.Views, view)
}

// Reset очищает собранные ракурсы
func (s *GradingSession) Reset() {
	s.Views = nil
}

// NextSegment идентификатор сегмента для следующего ракурса
func (s *GradingSession) NextSegment() Side {
	return SegmentSide(len(s.Views))
}
