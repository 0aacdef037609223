package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "durian-grader/internal/application"
	"durian-grader/internal/container"
	"durian-grader/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я оцениваю дуриан по симметрии и заполненности.

📸 Отправьте фото, и я оценю каждый найденный плод.

📋 Команды:
/grade - оценить одно фото
/views - собрать несколько ракурсов одного плода
/done - подвести итог по ракурсам
/help - справка
/cancel - отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /grade и фото: оценка каждого плода на снимке, итог по худшему
2️⃣ /views, затем несколько фото одного плода, затем /done: сводная оценка

Оценки: AB симметричен, C несимметричен; для заполненности A+ … C.

💡 Рекомендации:
• Снимайте при хорошем освещении
• Плод должен целиком помещаться в кадр
• Используйте однотонный фон`

	msgAwaitingPhoto   = "📸 Отправьте фото дуриана для оценки."
	msgViewsStarted    = "📸 Отправляйте фото одного плода с разных сторон. Когда закончите, нажмите /done."
	msgViewAdded       = "✅ Ракурс %d добавлен. Отправьте ещё фото или /done."
	msgCancelled       = "❌ Операция отменена. Отправьте /grade для новой оценки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото дуриана."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoDurian        = "🔍 Дуриан на фото не найден. Попробуйте другой снимок."
	msgNoViews         = "📭 Нет ни одного ракурса. Отправьте хотя бы одно фото перед /done."
	msgNotCollecting   = "ℹ️ Сбор ракурсов не начат. Используйте /views."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *app.SessionService
	grading  *app.GradingService
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		sessions: c.SessionService,
		grading:  c.GradingService,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, session)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.reset(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "grade":
		if _, err := b.sessions.BeginSingle(ctx, userID, chatID); err != nil {
			log.Printf("Error starting grading: %v", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "views":
		if _, err := b.sessions.BeginViews(ctx, userID, chatID); err != nil {
			log.Printf("Error starting views: %v", err)
		}
		b.sendMessage(chatID, msgViewsStarted)

	case "done":
		b.handleDone(ctx, userID, chatID)

	case "cancel":
		b.reset(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleDone сводит собранные ракурсы
func (b *Bot) handleDone(ctx context.Context, userID, chatID int64) {
	result, err := b.sessions.Finish(ctx, userID, chatID)
	switch {
	case errors.Is(err, entity.ErrEmptyInput):
		b.sendMessage(chatID, msgNoViews)
	case errors.Is(err, app.ErrNotCollecting):
		b.sendMessage(chatID, msgNotCollecting)
	case err != nil:
		log.Printf("Error aggregating views for user %d: %v", userID, err)
		b.sendMessage(chatID, msgProcessingError)
	default:
		b.sendMessage(chatID, formatAggregate(result, time.Now()))
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, session *entity.GradingSession) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	log.Printf("Received image from user %d: %d bytes", msg.From.ID, len(imageData))

	if session.State == entity.StateCollectingView {
		b.handleView(ctx, msg, imageData)
		return
	}
	b.handleSingle(ctx, msg, imageData)
}

// handleSingle оценивает все плоды на одном снимке
func (b *Bot) handleSingle(ctx context.Context, msg *tgbotapi.Message, imageData []byte) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	if _, err := b.sessions.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		log.Printf("Error updating session: %v", err)
	}
	defer b.reset(ctx, userID, chatID)

	out, err := b.grading.GradeImage(ctx, imageData)
	if err != nil {
		b.reportError(chatID, userID, err)
		return
	}

	for _, v := range out.Views {
		if v.Overlay != nil {
			b.sendPhoto(chatID, v.Overlay, fmt.Sprintf("%s: %s", v.View.Label, v.View.Grade))
		}
	}
	b.sendMessage(chatID, formatImage(out))
}

// handleView добавляет ракурс в текущую сессию
func (b *Bot) handleView(ctx context.Context, msg *tgbotapi.Message, imageData []byte) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	out, session, err := b.sessions.AddView(ctx, userID, chatID, imageData)
	if err != nil {
		b.reportError(chatID, userID, err)
		return
	}

	if out.Overlay != nil {
		b.sendPhoto(chatID, out.Overlay, formatView(out.View))
	} else {
		b.sendMessage(chatID, formatView(out.View))
	}
	b.sendMessage(chatID, fmt.Sprintf(msgViewAdded, len(session.Views)))
}

// reportError отличает «плод не найден» от сбоя обработки
func (b *Bot) reportError(chatID, userID int64, err error) {
	if errors.Is(err, entity.ErrNoDetection) {
		b.sendMessage(chatID, msgNoDurian)
		return
	}
	log.Printf("Error grading photo for user %d: %v", userID, err)
	b.sendMessage(chatID, msgProcessingError)
}

func (b *Bot) reset(ctx context.Context, userID, chatID int64) {
	if _, err := b.sessions.Cancel(ctx, userID, chatID); err != nil {
		log.Printf("Error resetting session: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendPhoto отправляет картинку с разметкой
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "grading.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}
