package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleNotifications обрабатывает /notifications [on|off].
// Без аргумента отправляет список, который дальше обновляется на месте.
func (h *Handlers) HandleNotifications(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, _, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := session.ChatID

	if args := commandArgs(update.Message.Text); len(args) > 0 {
		var enabled bool
		switch strings.ToLower(args[0]) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			h.sendError(ctx, b, chatID, "Использование: /notifications [on|off]")
			return
		}

		if err := h.deps.Sessions.SetNotifications(ctx, chatID, enabled); err != nil {
			h.logger.Error("Failed to toggle notifications", zap.Int64("chat_id", chatID), zap.Error(err))
			h.sendError(ctx, b, chatID, common.ErrorMessage(err))
			return
		}
		if enabled {
			h.sendMessage(ctx, b, chatID, "🔔 Уведомления включены.", nil)
		} else {
			h.sendMessage(ctx, b, chatID, "🔕 Уведомления выключены. Список по-прежнему доступен: /notifications", nil)
		}
		return
	}

	center, err := h.deps.Sessions.Notifications(ctx, chatID)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	if !center.Snapshot().Loaded {
		if err := center.Refresh(ctx); err != nil {
			return
		}
	}

	screen := callbacktypes.NotificationsScreen{Filter: string(notify.FilterAll)}
	text, kb := common.BuildNotificationsScreen(center.Snapshot(), screen, h.deps.Now())
	msg := h.sendMessage(ctx, b, chatID, text, kb)
	if msg == nil {
		return
	}
	screen.MessageID = msg.ID
	h.deps.Screens.SetNotificationsMessage(chatID, screen)
}
