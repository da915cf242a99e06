package common

import (
	"context"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithSession создаёт HandlerContext и загружает сессию чата.
// При ошибке отвечает пользователю и не вызывает handler.
func WithSession(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadSession(); err != nil {
		h.Logger.Warn("Failed to load session",
			zap.Int64("chat_id", hc.ChatID),
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// WithAdmin как WithSession, но пропускает только администратора
func WithAdmin(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		if err := hc.RequireAdmin(); err != nil {
			h.Logger.Warn("Admin check failed",
				zap.Int64("chat_id", hc.ChatID),
				zap.String("role", string(hc.Session.Role)))
			hc.AnswerAlert(ErrorMessage(err))
			return
		}
		handler(hc)
	})
}

// HandleError логирует ошибку и показывает её пользователю
func HandleError(hc *HandlerContext, err error, operation string) {
	hc.Handler.Logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("chat_id", hc.ChatID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}
