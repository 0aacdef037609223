package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"durian-grader/config"
	telegram "durian-grader/internal/api"
	"durian-grader/internal/container"
	"durian-grader/internal/domain/port"
	"durian-grader/internal/infrastructure/segmentation"
	"durian-grader/internal/infrastructure/storage"
	"durian-grader/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	gradeCfg, err := cfg.GradeConfiguration()
	if err != nil {
		log.Fatalf("Invalid grading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Сервис сегментации может подняться позже бота, поэтому только предупреждаем
	segmenter := segmentation.NewClient(
		cfg.Segmenter.URL,
		time.Duration(cfg.Segmenter.TimeoutSeconds)*time.Second,
		cfg.Segmenter.MinConfidence,
	)
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := segmenter.CheckHealth(healthCtx); err != nil {
		log.Printf("Segmentation service is not available yet: %v", err)
	}
	cancel()

	var renderer port.OverlayRenderer
	if vision.RenderingEnabled {
		renderer = vision.NewRenderer(vision.RenderOptions{
			LineThickness: cfg.Rendering.LineThickness,
			PointSize:     cfg.Rendering.PointSize,
			Alpha:         cfg.Rendering.Alpha,
		})
	} else {
		log.Println("Overlay rendering is disabled, reports will be text only")
	}

	// Собираем сервисы приложения
	appContainer, err := container.New(
		gradeCfg,
		cfg.Grading.Workers,
		storage.NewMemorySessionRepository(),
		segmenter,
		vision.NewContourFinder(),
		renderer,
	)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	log.Printf("Grading policy: %s", gradeCfg.Policy)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped")
}
