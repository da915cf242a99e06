package reservation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Start начинает заявку на свободный слот с предзаполненными датой и временем
func Start(hc *common.HandlerContext, start, end time.Time, labID string) {
	h := hc.Handler

	draft := model.ReservationDraft{Start: start, End: end}
	if id, err := strconv.ParseInt(labID, 10, 64); err == nil && id > 0 {
		draft.LabID = id
	}

	h.StateManager.ClearState(hc.TelegramID)
	h.StateManager.SetDraft(hc.TelegramID, draft)
	step := FirstStep(draft)
	h.StateManager.SetState(hc.TelegramID, step)

	h.Logger.Info("Reservation started",
		zap.Int64("chat_id", hc.ChatID),
		zap.Time("start", start),
		zap.Int64("lab_id", draft.LabID))

	text, kb := Prompt(step, draft, h.Labs, labName(h, draft))
	if _, err := hc.SendMessage(text, kb); err != nil {
		common.HandleError(hc, err, "start reservation")
		return
	}
	hc.Answer("")
}

// HandleLab выбор лаборатории
func HandleLab(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	labID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil || !knownLab(h.Labs, labID) {
		common.HandleError(hc, common.ErrInvalidFormat, "parse reservation lab")
		return
	}

	draft, ok := h.StateManager.Draft(hc.TelegramID)
	if !ok || !h.StateManager.Transition(hc.TelegramID, state.StateReserveLab, NextStep(state.StateReserveLab)) {
		staleStep(hc)
		return
	}

	draft.LabID = labID
	h.StateManager.SetDraft(hc.TelegramID, draft)
	showStep(hc, NextStep(state.StateReserveLab), draft, "")
}

// HandleDuration выбор длительности, конец считается от начала слота
func HandleDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	d, err := keyboard.ParseReserveDuration(callback.Data)
	if err != nil {
		common.HandleError(hc, common.ErrInvalidFormat, "parse reservation duration")
		return
	}

	draft, ok := h.StateManager.Draft(hc.TelegramID)
	if !ok || !h.StateManager.Transition(hc.TelegramID, state.StateReserveDuration, NextStep(state.StateReserveDuration)) {
		staleStep(hc)
		return
	}

	draft.End = draft.Start.Add(d)
	h.StateManager.SetDraft(hc.TelegramID, draft)
	showStep(hc, NextStep(state.StateReserveDuration), draft, "")
}

// HandleSkipNotes заявка без примечаний
func HandleSkipNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	draft, ok := h.StateManager.Draft(hc.TelegramID)
	if !ok || !h.StateManager.Transition(hc.TelegramID, state.StateReserveNotes, state.StateReserveConfirm) {
		staleStep(hc)
		return
	}

	draft.Notes = ""
	h.StateManager.SetDraft(hc.TelegramID, draft)
	showStep(hc, state.StateReserveConfirm, draft, "")
}

// HandleSubmit отправляет заявку на сервер
func HandleSubmit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if !h.StateManager.Transition(hc.TelegramID, state.StateReserveConfirm, state.StateReserveSubmit) {
			if h.StateManager.GetState(hc.TelegramID) == state.StateReserveSubmit {
				hc.Answer("⏳ Заявка уже отправляется")
				return
			}
			staleStep(hc)
			return
		}

		draft, ok := h.StateManager.Draft(hc.TelegramID)
		if !ok {
			hc.ClearState()
			common.HandleError(hc, common.ErrNoDraft, "submit reservation")
			return
		}

		presenter := h.Presenter(hc.ChatID)
		stop := presenter.Loading(hc.Ctx)
		err := hc.Client.SubmitReservation(hc.Ctx, draft)
		stop()

		if fields, ok := labapi.AsFieldErrors(err); ok {
			step := FirstInvalidStep(fields.Fields())
			h.Logger.Info("Reservation rejected by form validation",
				zap.Int64("chat_id", hc.ChatID),
				zap.Strings("fields", fields.Fields()))
			h.StateManager.SetState(hc.TelegramID, step)
			showStep(hc, step, draft, "⚠️ <b>Исправьте заявку</b>\n"+FieldProblems(fields)+"\n")
			return
		}
		if err != nil {
			h.Logger.Warn("Reservation not accepted", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
			h.StateManager.SetState(hc.TelegramID, state.StateReserveConfirm)
			presenter.Show(hc.Ctx, toast.Danger("Заявка не принята: "+common.ErrorReason(err)))
			hc.Answer("")
			return
		}

		hc.ClearState()
		h.Logger.Info("Reservation submitted",
			zap.Int64("chat_id", hc.ChatID),
			zap.Int64("lab_id", draft.LabID),
			zap.Time("start", draft.Start),
			zap.Time("end", draft.End))

		if err := hc.EditMessage(formatting.FormatDraft(draft, labName(h, draft))+"\n✅ Заявка отправлена и ожидает одобрения.", nil); err != nil {
			h.Logger.Warn("Failed to update reservation message", zap.Error(err))
		}
		presenter.Show(hc.Ctx, toast.Success("Заявка на бронирование отправлена"))
		hc.Answer("")

		if err := h.Sessions.Persist(hc.Ctx, hc.ChatID); err != nil {
			h.Logger.Warn("Failed to persist session", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		if _, err := hc.Board().Load(hc.Ctx); err != nil {
			h.Logger.Warn("Failed to reload schedule after reservation", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
	})
}

// HandleCancel отмена заявки на любом шаге
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if hc.State() == state.StateReserveSubmit {
		hc.Answer("⏳ Заявка уже отправляется")
		return
	}
	hc.ClearState()
	if err := hc.EditMessage("❌ Заявка отменена.", nil); err != nil {
		h.Logger.Debug("Failed to edit cancelled reservation", zap.Error(err))
	}
	hc.Answer("")
}

// HandleText ответ на текстовый шаг заявки. false, если чат не заполняет заявку.
func HandleText(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID, telegramID int64, text string) bool {
	step := h.StateManager.GetState(telegramID)
	if !step.IsReservation() {
		return false
	}

	send := func(text string, kb *models.InlineKeyboardMarkup) {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		}
		if kb != nil {
			params.ReplyMarkup = kb
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			h.Logger.Error("Failed to send reservation step", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	draft, ok := h.StateManager.Draft(telegramID)
	if !ok {
		h.StateManager.ClearState(telegramID)
		send("❌ Черновик заявки потерян. Выберите слот в /schedule заново.", nil)
		return true
	}

	updated, err := ApplyText(step, draft, text)
	if err != nil {
		var kb *models.InlineKeyboardMarkup
		if !errors.Is(err, ErrNotTextStep) {
			kb = keyboard.ReserveStep()
		}
		send(InputError(step, err), kb)
		return true
	}

	next := NextStep(step)
	h.StateManager.SetDraft(telegramID, updated)
	h.StateManager.SetState(telegramID, next)

	prompt, kb := Prompt(next, updated, h.Labs, labName(h, updated))
	send(prompt, kb)
	return true
}

// showStep переводит сообщение заявки на шаг step
func showStep(hc *common.HandlerContext, step state.UserState, draft model.ReservationDraft, prefix string) {
	text, kb := Prompt(step, draft, hc.Handler.Labs, labName(hc.Handler, draft))
	if err := hc.EditMessage(prefix+text, kb); err != nil {
		if _, err := hc.SendMessage(prefix+text, kb); err != nil {
			common.HandleError(hc, err, "show reservation step")
			return
		}
	}
	hc.Answer("")
}

// staleStep кнопка от устаревшего шага или уже завершённой заявки
func staleStep(hc *common.HandlerContext) {
	hc.AnswerAlert("Эта заявка уже неактуальна. Выберите слот в расписании заново.")
}

func labName(h *callbacktypes.Handler, draft model.ReservationDraft) string {
	if draft.LabID == 0 {
		return "Лаборатория не выбрана"
	}
	return h.LabName(labapi.FormatLabID(draft.LabID))
}

func knownLab(labs []model.Laboratory, id int64) bool {
	for _, lab := range labs {
		if lab.ID == id {
			return true
		}
	}
	return false
}
