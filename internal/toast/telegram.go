package toast

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Telegram держит chat action около 5 секунд
const chatActionRefresh = 4 * time.Second

// Sender часть *bot.Bot, нужная презентеру
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// TelegramPresenter показывает тосты сообщениями в чат
type TelegramPresenter struct {
	sender Sender
	chatID int64
	action models.ChatAction
	logger *zap.Logger
}

func NewTelegramPresenter(sender Sender, chatID int64, logger *zap.Logger) *TelegramPresenter {
	return &TelegramPresenter{
		sender: sender,
		chatID: chatID,
		action: models.ChatActionTyping,
		logger: logger,
	}
}

// WithAction возвращает копию с другим chat action для Loading (например upload_photo)
func (p *TelegramPresenter) WithAction(action models.ChatAction) *TelegramPresenter {
	cp := *p
	cp.action = action
	return &cp
}

func (p *TelegramPresenter) Show(ctx context.Context, t Toast) {
	_, err := p.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:              p.chatID,
		Text:                Format(t),
		ParseMode:           models.ParseModeHTML,
		DisableNotification: true,
	})
	if err != nil {
		p.logger.Warn("Failed to send toast",
			zap.Int64("chat_id", p.chatID),
			zap.String("level", string(t.Level)),
			zap.Error(err))
	}
}

func (p *TelegramPresenter) Loading(ctx context.Context) func() {
	loadingCtx, cancel := context.WithCancel(ctx)
	p.sendAction(loadingCtx)

	go func() {
		ticker := time.NewTicker(chatActionRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-loadingCtx.Done():
				return
			case <-ticker.C:
				p.sendAction(loadingCtx)
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}

func (p *TelegramPresenter) sendAction(ctx context.Context) {
	if _, err := p.sender.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: p.chatID,
		Action: p.action,
	}); err != nil && ctx.Err() == nil {
		p.logger.Debug("Failed to send chat action", zap.Int64("chat_id", p.chatID), zap.Error(err))
	}
}

// Desktop отправляет карточку уведомления. Кнопка "прочитано" только
// у уведомлений с идентификатором.
func (p *TelegramPresenter) Desktop(ctx context.Context, n model.Notification, audible bool) {
	text := fmt.Sprintf("🔔 <b>%s</b>", html.EscapeString(n.Title))
	if n.Message != "" {
		text += "\n" + html.EscapeString(n.Message)
	}
	params := &bot.SendMessageParams{
		ChatID:              p.chatID,
		Text:                text,
		ParseMode:           models.ParseModeHTML,
		DisableNotification: !audible,
	}
	if n.ID > 0 {
		params.ReplyMarkup = &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{
				{Text: "✔️ Прочитано", CallbackData: fmt.Sprintf("ntf:read:%d", n.ID)},
			}},
		}
	}
	_, err := p.sender.SendMessage(ctx, params)
	if err != nil {
		p.logger.Warn("Failed to send desktop notification",
			zap.Int64("chat_id", p.chatID),
			zap.Int64("notification_id", n.ID),
			zap.Error(err))
	}
}

// Chime короткое сообщение со звуком
func (p *TelegramPresenter) Chime(ctx context.Context) {
	if _, err := p.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: p.chatID,
		Text:   "🔔",
	}); err != nil {
		p.logger.Debug("Failed to send chime", zap.Int64("chat_id", p.chatID), zap.Error(err))
	}
}

// Format HTML текст тоста
func Format(t Toast) string {
	var sb strings.Builder
	sb.WriteString(t.Level.Emoji())
	sb.WriteString(" ")
	if t.Title != "" {
		sb.WriteString("<b>")
		sb.WriteString(html.EscapeString(t.Title))
		sb.WriteString("</b>\n")
	}
	sb.WriteString(html.EscapeString(t.Text))
	return sb.String()
}
