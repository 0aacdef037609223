package container

import (
	app "durian-grader/internal/application"
	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
	"durian-grader/internal/grading"
)

type Container struct {
	Engine         *grading.Engine
	GradingService *app.GradingService
	SessionService *app.SessionService
}

// New собирает сервисы приложения. renderer может быть nil: тогда бот шлёт только текст.
func New(
	cfg entity.GradeConfiguration,
	workers int,
	sessions port.SessionRepository,
	segmenter port.Segmenter,
	contours port.ContourFinder,
	renderer port.OverlayRenderer,
) (*Container, error) {
	engine, err := grading.NewEngine(cfg, contours)
	if err != nil {
		return nil, err
	}

	gradingService := app.NewGradingService(segmenter, engine, renderer, workers)
	sessionService := app.NewSessionService(sessions, gradingService)

	return &Container{
		Engine:         engine,
		GradingService: gradingService,
		SessionService: sessionService,
	}, nil
}
