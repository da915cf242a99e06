package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession проверяет что чат вошёл на сервер лабораторий
// Возвращает сессию, клиента и true если OK
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*model.ChatSession, *labapi.Client, bool) {
	if update.Message == nil {
		return nil, nil, false
	}

	chatID := update.Message.Chat.ID
	session, client, err := h.deps.Sessions.Session(ctx, chatID)
	if err != nil {
		h.logger.Warn("Command without session", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return nil, nil, false
	}
	return session, client, true
}

// requireAdmin проверяет что чат вошёл с ролью администратора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (*model.ChatSession, *labapi.Client, bool) {
	session, client, ok := h.requireSession(ctx, b, update)
	if !ok {
		return nil, nil, false
	}

	if !session.Role.IsAdmin() {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotAdmin))
		return nil, nil, false
	}
	return session, client, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет HTML-сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) *models.Message {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return nil
	}
	return msg
}

// commandArgs аргументы команды: "/lab@bot 2" -> ["2"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}
