package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Messenger часть *bot.Bot, нужная для вывода уведомлений
type Messenger interface {
	toast.Sender
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// NewChatPresenter тосты и индикатор загрузки в чат
func NewChatPresenter(m Messenger, logger *zap.Logger) func(chatID int64) toast.Presenter {
	return func(chatID int64) toast.Presenter {
		return toast.NewTelegramPresenter(m, chatID, logger)
	}
}

// NewChatOutput вывод центра уведомлений: тосты и сигналы сообщениями,
// список редактируется в последнем отправленном сообщении /notifications
func NewChatOutput(m Messenger, screens callbacktypes.Screens, now func() time.Time, logger *zap.Logger) service.ChatOutput {
	return func(chatID int64) (toast.Presenter, toast.Cues, notify.View) {
		presenter := toast.NewTelegramPresenter(m, chatID, logger)
		view := notify.ViewFunc(func(ctx context.Context, snap notify.Snapshot) {
			renderNotifications(ctx, m, screens, chatID, snap, now(), logger)
		})
		return presenter, presenter, view
	}
}

func renderNotifications(ctx context.Context, m Messenger, screens callbacktypes.Screens, chatID int64,
	snap notify.Snapshot, now time.Time, logger *zap.Logger) {
	screen, ok := screens.NotificationsMessage(chatID)
	if !ok || screen.MessageID == 0 {
		return
	}

	text, kb := common.BuildNotificationsScreen(snap, screen, now)
	_, err := m.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   screen.MessageID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	switch {
	case err == nil, common.IsMessageNotModifiedError(err):
	case common.IsMessageGoneError(err):
		screens.ForgetNotifications(chatID)
	default:
		logger.Warn("Failed to render notifications",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", screen.MessageID),
			zap.Error(err))
	}
}
