package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/notifications"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/reservation"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == keyboard.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Расписание =====
	case strings.HasPrefix(data, keyboard.WeekPrefix):
		schedule.HandleWeek(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.LabPrefix):
		schedule.HandleLab(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.DayPrefix):
		schedule.HandleDay(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.SlotPrefix):
		schedule.HandleSlot(ctx, b, callback, h)

	// ===== Заявка на бронирование =====
	case strings.HasPrefix(data, keyboard.ReserveLab):
		reservation.HandleLab(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.ReserveDuration):
		reservation.HandleDuration(ctx, b, callback, h)
	case data == keyboard.ReserveSkip:
		reservation.HandleSkipNotes(ctx, b, callback, h)
	case data == keyboard.ReserveSubmit:
		reservation.HandleSubmit(ctx, b, callback, h)
	case data == keyboard.ReserveCancel:
		reservation.HandleCancel(ctx, b, callback, h)

	// ===== Уведомления =====
	case strings.HasPrefix(data, keyboard.NotifyRead):
		notifications.HandleRead(ctx, b, callback, h)
	case data == keyboard.NotifyAll:
		notifications.HandleAll(ctx, b, callback, h)
	case data == keyboard.NotifyAllOK:
		notifications.HandleAllConfirmed(ctx, b, callback, h)
	case data == keyboard.NotifyClear:
		notifications.HandleClear(ctx, b, callback, h)
	case data == keyboard.NotifyClearOK:
		notifications.HandleClearConfirmed(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.NotifyFilter):
		notifications.HandleFilter(ctx, b, callback, h)
	case data == keyboard.NotifyRefresh:
		notifications.HandleRefresh(ctx, b, callback, h)
	case data == keyboard.NotifyShow:
		notifications.HandleShow(ctx, b, callback, h)
	case data == keyboard.NotifySearch:
		notifications.HandleSearch(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.NotifyExport):
		notifications.HandleExport(ctx, b, callback, h)

	// ===== Администратор =====
	case data == keyboard.AdminDismiss:
		admin.HandleDismiss(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.AdminPrefix):
		admin.HandleRequest(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
