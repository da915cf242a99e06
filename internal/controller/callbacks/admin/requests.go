package admin

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleRequest одобрение или отклонение заявки. Первое нажатие спрашивает
// подтверждение отдельным сообщением, второе выполняет действие.
func HandleRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		action, err := keyboard.ParseAdminData(hc.Callback.Data)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse admin callback")
			return
		}

		if !action.Confirmed {
			askConfirmation(hc, action)
			return
		}

		presenter := h.Presenter(hc.ChatID)
		stop := presenter.Loading(hc.Ctx)
		if action.Action == keyboard.AdminApprove {
			err = hc.Client.ApproveRequest(hc.Ctx, action.ReservationID)
		} else {
			err = hc.Client.RejectRequest(hc.Ctx, action.ReservationID)
		}
		stop()

		if err != nil {
			h.Logger.Error("Admin action failed",
				zap.String("action", action.Action),
				zap.Int64("reservation_id", action.ReservationID),
				zap.Error(err))
			presenter.Show(hc.Ctx, toast.Danger(common.ErrorReason(err)))
			hc.Answer("")
			return
		}

		h.Logger.Info("Admin action completed",
			zap.String("action", action.Action),
			zap.Int64("reservation_id", action.ReservationID),
			zap.Int64("chat_id", hc.ChatID))

		if action.Action == keyboard.AdminApprove {
			presenter.Show(hc.Ctx, toast.Success(fmt.Sprintf("Заявка #%d одобрена", action.ReservationID)))
		} else {
			presenter.Show(hc.Ctx, toast.Success(fmt.Sprintf("Заявка #%d отклонена", action.ReservationID)))
		}
		hc.DeleteMessage()
		hc.Answer("")

		if _, err := hc.Board().Load(hc.Ctx); err != nil {
			h.Logger.Warn("Failed to reload schedule after admin action", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
	})
}

// HandleDismiss отказ от подтверждения
func HandleDismiss(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	if err := hc.DeleteMessage(); err != nil {
		h.Logger.Debug("Failed to delete confirmation", zap.Error(err))
	}
	hc.Answer("Отменено")
}

func askConfirmation(hc *common.HandlerContext, action keyboard.AdminAction) {
	text := fmt.Sprintf("✅ Одобрить заявку #%d?", action.ReservationID)
	if action.Action == keyboard.AdminReject {
		text = fmt.Sprintf("⛔️ Отклонить заявку #%d?", action.ReservationID)
	}

	kb := keyboard.Confirm(
		keyboard.AdminData(action.Action, action.ReservationID, true),
		keyboard.AdminDismiss,
	)
	if _, err := hc.SendMessage(text, kb); err != nil {
		common.HandleError(hc, err, "ask admin confirmation")
		return
	}
	hc.Answer("")
}
