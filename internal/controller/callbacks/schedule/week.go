package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/reservation"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek навигация по неделям и переключение вида
func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		action, list, err := keyboard.ParseWeekData(hc.Callback.Data)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse week callback")
			return
		}

		board := hc.Board()
		var grid *schedule.WeekGrid
		switch action {
		case keyboard.WeekPrev:
			grid, err = board.Navigate(hc.Ctx, -1)
		case keyboard.WeekNext:
			grid, err = board.Navigate(hc.Ctx, 1)
		case keyboard.WeekToday:
			grid, err = board.Today(hc.Ctx)
		case keyboard.WeekRefresh:
			grid, err = board.Load(hc.Ctx)
		default:
			grid, err = currentGrid(hc.Ctx, board)
		}
		if err != nil {
			answerLoadError(hc, err)
			return
		}

		showWeek(hc, grid, board.State().LabID, list)
	})
}

// HandleLab фильтр лаборатории
func HandleLab(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		labID := strings.TrimPrefix(hc.Callback.Data, keyboard.LabPrefix)
		if !knownLab(h.Labs, labID) {
			common.HandleError(hc, common.ErrInvalidFormat, "parse lab callback")
			return
		}

		if err := h.Sessions.SetLabFilter(hc.Ctx, hc.ChatID, labID); err != nil {
			h.Logger.Warn("Failed to save lab filter", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}

		board := hc.Board()
		grid, err := board.SetLab(hc.Ctx, labID)
		if err != nil {
			answerLoadError(hc, err)
			return
		}

		list := hc.Message != nil && len(hc.Message.Photo) == 0
		showWeek(hc, grid, labID, list)
	})
}

// HandleDay слоты выбранного дня
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, err := keyboard.ParseDayData(hc.Callback.Data, h.Location)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse day callback")
			return
		}

		board := hc.Board()
		grid, err := gridFor(hc.Ctx, board, day)
		if err != nil {
			answerLoadError(hc, err)
			return
		}

		text, kb := common.BuildDayScreen(h, grid, day, board.State().LabID)
		if _, err := hc.ReplaceWithText(text, kb); err != nil {
			common.HandleError(hc, err, "show day")
			return
		}
		hc.Answer("")
	})
}

// HandleSlot нажатие на слот: преподаватель на свободном слоте начинает заявку,
// остальные видят подробности
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, slot, err := keyboard.ParseSlotData(hc.Callback.Data, h.Location)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse slot callback")
			return
		}

		board := hc.Board()
		grid, err := gridFor(hc.Ctx, board, day)
		if err != nil {
			answerLoadError(hc, err)
			return
		}

		cell, ok := grid.Cell(day, slot)
		if !ok {
			common.HandleError(hc, common.ErrSlotNotFound, "find slot")
			return
		}

		action := schedule.Click(cell, hc.Session.Role)
		if action.Kind == schedule.ActionReserve {
			reservation.Start(hc, action.Start, action.End, board.State().LabID)
			return
		}

		text := formatting.FormatSlotDetail(action.Detail)
		if cell.Status == schedule.SlotStatusAvailable && !hc.Session.Role.CanReserve() {
			text += "\n\nБронировать могут только преподаватели."
		}
		kb := keyboard.SlotDetail(day, action.Detail, hc.Session.Role)
		if _, err := hc.ReplaceWithText(text, kb); err != nil {
			common.HandleError(hc, err, "show slot")
			return
		}
		hc.Answer("")
	})
}

// showWeek показывает неделю. Список редактируется на месте, картинка отправляется заново.
func showWeek(hc *common.HandlerContext, grid *schedule.WeekGrid, labID string, list bool) {
	if list && hc.Message != nil && len(hc.Message.Photo) == 0 {
		text, kb := common.BuildWeekListScreen(hc.Handler, grid, labID)
		if err := hc.EditMessage(text, kb); err == nil {
			hc.Answer("")
			return
		}
	}

	if _, err := common.SendWeek(hc.Ctx, hc.Bot, hc.Handler, hc.ChatID, grid, labID, list); err != nil {
		common.HandleError(hc, err, "send week")
		return
	}
	hc.DeleteMessage()
	hc.Answer("")
}

// currentGrid последняя загруженная сетка, при её отсутствии загрузка
func currentGrid(ctx context.Context, board *service.Board) (*schedule.WeekGrid, error) {
	if grid := board.State().Grid; grid != nil {
		return grid, nil
	}
	return board.Load(ctx)
}

// gridFor сетка недели, содержащей day
func gridFor(ctx context.Context, board *service.Board, day time.Time) (*schedule.WeekGrid, error) {
	if grid := board.State().Grid; grid != nil && grid.Window.Contains(day) {
		return grid, nil
	}
	board.SetDate(day)
	return board.Load(ctx)
}

// answerLoadError доска уже показала тост; истёкшая сессия дополнительно объясняется
func answerLoadError(hc *common.HandlerContext, err error) {
	if errors.Is(err, labapi.ErrUnauthorized) {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	hc.Answer("")
}

func knownLab(labs []model.Laboratory, labID string) bool {
	if labID == model.LabFilterAll {
		return true
	}
	for _, lab := range labs {
		if labapi.FormatLabID(lab.ID) == labID {
			return true
		}
	}
	return false
}
