package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/export"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Форматы /export
const (
	exportPDF           = "pdf"
	exportXLSX          = "xlsx"
	exportLocalPDF      = "local-pdf"
	exportLocalXLSX     = "local-xlsx"
	exportNotifications = "notifications"
)

// HandleSchedule обрабатывает /schedule - неделя с текущей датой
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, client, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	board := h.deps.Board(session, client)
	grid, err := board.Today(ctx)
	if err != nil {
		h.reportLoadError(ctx, b, session.ChatID, err)
		return
	}
	h.sendWeek(ctx, b, session.ChatID, grid, board.State().LabID)
}

// HandleLab обрабатывает /lab <id|all>
func (h *Handlers) HandleLab(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, client, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, session.ChatID, h.labsText(session.LabFilter), nil)
		return
	}

	labID := strings.ToLower(args[0])
	if !h.knownLab(labID) {
		h.sendMessage(ctx, b, session.ChatID, "❌ Неизвестная лаборатория.\n\n"+h.labsText(session.LabFilter), nil)
		return
	}

	if err := h.deps.Sessions.SetLabFilter(ctx, session.ChatID, labID); err != nil {
		h.logger.Warn("Failed to save lab filter", zap.Int64("chat_id", session.ChatID), zap.Error(err))
	}

	board := h.deps.Board(session, client)
	grid, err := board.SetLab(ctx, labID)
	if err != nil {
		h.reportLoadError(ctx, b, session.ChatID, err)
		return
	}
	h.sendWeek(ctx, b, session.ChatID, grid, labID)
}

// HandleExport обрабатывает /export [pdf|xlsx|local-pdf|local-xlsx|notifications].
// pdf и xlsx строит сервер, local-* строятся из загруженной недели.
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, client, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	format := exportPDF
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		format = strings.ToLower(args[0])
	}

	board := h.deps.Board(session, client)
	presenter := h.deps.Presenter(session.ChatID)

	var (
		filename string
		data     []byte
		caption  = "📤 Расписание: " + h.deps.LabName(board.State().LabID)
		err      error
	)

	stop := presenter.Loading(ctx)
	switch format {
	case exportPDF, exportXLSX:
		var blob *labapi.Blob
		bs := board.State()
		blob, err = client.ExportSchedule(ctx, bs.LabID, bs.Ref, format)
		if err == nil {
			filename, data = blob.Filename, blob.Data
		}
	case exportLocalPDF, exportLocalXLSX:
		filename, data, err = h.localExport(ctx, board, strings.TrimPrefix(format, "local-"))
	case exportNotifications:
		var blob *labapi.Blob
		blob, err = client.ExportNotifications(ctx, "json", h.deps.Now())
		if err == nil {
			filename, data = blob.Filename, blob.Data
		}
		caption = "📤 Уведомления"
	default:
		stop()
		h.sendError(ctx, b, session.ChatID, "Использование: /export [pdf|xlsx|local-pdf|local-xlsx|notifications]")
		return
	}
	stop()

	if err != nil {
		h.logger.Error("Export failed", zap.Int64("chat_id", session.ChatID), zap.String("format", format), zap.Error(err))
		h.sendError(ctx, b, session.ChatID, "❌ Не удалось выгрузить файл: "+common.ErrorReason(err))
		return
	}

	if err := common.SendDocument(ctx, b, session.ChatID, filename, data, caption); err != nil {
		h.logger.Error("Failed to send export", zap.Int64("chat_id", session.ChatID), zap.Error(err))
		h.sendError(ctx, b, session.ChatID, "❌ Не удалось отправить файл.")
	}
}

// localExport строит файл из недели доски; если неделя не загружена, загружает её
func (h *Handlers) localExport(ctx context.Context, board *service.Board, format string) (string, []byte, error) {
	grid, labID := board.State().Grid, board.State().LabID
	if grid == nil {
		var err error
		if grid, err = board.Load(ctx); err != nil {
			return "", nil, err
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case export.FormatPDF:
		err = export.WeekPDF(&buf, grid, h.deps.LabName(labID), h.deps.Now())
	case export.FormatXLSX:
		err = export.WeekXLSX(&buf, grid, h.deps.LabName(labID))
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", nil, err
	}
	return export.Filename(grid.Window, format), buf.Bytes(), nil
}

func (h *Handlers) sendWeek(ctx context.Context, b *bot.Bot, chatID int64, grid *schedule.WeekGrid, labID string) {
	if _, err := common.SendWeek(ctx, b, h.deps, chatID, grid, labID, false); err != nil {
		h.logger.Error("Failed to send week", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось отправить расписание.")
	}
}

// reportLoadError доска уже показала тост; истёкшая сессия дополнительно объясняется
func (h *Handlers) reportLoadError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if errors.Is(err, labapi.ErrUnauthorized) {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
	}
}

func (h *Handlers) labsText(current string) string {
	var sb strings.Builder
	sb.WriteString("🏫 <b>Лаборатории</b>\n\n")

	mark := func(id string) string {
		if id == current {
			return " ✓"
		}
		return ""
	}
	sb.WriteString(fmt.Sprintf("all - Все лаборатории%s\n", mark(model.LabFilterAll)))
	for _, lab := range h.deps.Labs {
		id := labapi.FormatLabID(lab.ID)
		sb.WriteString(fmt.Sprintf("%s - %s%s\n", id, html.EscapeString(lab.Name), mark(id)))
	}
	sb.WriteString("\nВыбрать: /lab &lt;id|all&gt;")
	return sb.String()
}

func (h *Handlers) knownLab(labID string) bool {
	if labID == model.LabFilterAll {
		return true
	}
	for _, lab := range h.deps.Labs {
		if labapi.FormatLabID(lab.ID) == labID {
			return true
		}
	}
	return false
}
