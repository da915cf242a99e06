package handlers

import (
	"context"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleReports обрабатывает /reports - отчёты об использовании, только администратор
func (h *Handlers) HandleReports(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, client, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}

	stop := h.deps.Presenter(session.ChatID).Loading(ctx)
	defer stop()

	for _, kind := range labapi.ReportKinds {
		rows, err := client.Report(ctx, kind)
		if err != nil {
			h.logger.Error("Failed to load report",
				zap.Int64("chat_id", session.ChatID),
				zap.String("report", string(kind)),
				zap.Error(err))
			h.sendError(ctx, b, session.ChatID, common.ErrorMessage(err))
			return
		}
		h.sendMessage(ctx, b, session.ChatID, formatting.FormatReport(kind, rows), nil)
	}
}
