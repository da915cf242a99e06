package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLogin обрабатывает /login <логин> <пароль> [роль]
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)

	// сообщение с паролем не должно оставаться в истории чата
	if len(args) >= 2 {
		if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
			h.logger.Warn("Failed to delete login message", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	if len(args) < 2 || len(args) > 3 {
		h.sendError(ctx, b, chatID, "Использование: /login <логин> <пароль> [student|instructor|admin]")
		return
	}

	role := model.RoleStudent
	if len(args) == 3 {
		parsed, ok := model.ParseRole(args[2])
		if !ok {
			h.sendError(ctx, b, chatID, "❌ Неизвестная роль. Допустимо: student, instructor, admin.")
			return
		}
		role = parsed
	}

	h.stateManager.ClearState(update.Message.From.ID)
	h.deps.Boards.Drop(chatID)
	h.deps.Screens.ForgetNotifications(chatID)

	stop := h.deps.Presenter(chatID).Loading(ctx)
	session, err := h.deps.Sessions.Login(ctx, service.LoginRequest{
		ChatID:     chatID,
		TelegramID: update.Message.From.ID,
		Username:   args[0],
		Login:      args[0],
		Password:   args[1],
		Role:       role,
	})
	stop()
	if err != nil {
		h.logger.Warn("Login failed", zap.Int64("chat_id", chatID), zap.String("login", args[0]), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text := fmt.Sprintf("✅ Вы вошли как <b>%s</b> (%s).\n\n"+
		"/schedule - Расписание\n/notifications - Уведомления",
		html.EscapeString(session.Username), roleNames[session.Role])
	if session.Role.IsAdmin() {
		text += "\n/reports - Отчёты"
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}

// HandleLogout обрабатывает /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(update.Message.From.ID)
	h.deps.Boards.Drop(chatID)
	h.deps.Screens.ForgetNotifications(chatID)

	if err := h.deps.Sessions.Logout(ctx, chatID); err != nil {
		h.logger.Error("Logout failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	h.sendMessage(ctx, b, chatID, "👋 Вы вышли. Войти снова: /login", nil)
}
