package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MaxQueryLength ограничение строки поиска
const MaxQueryLength = 64

// HandleRead отмечает одно уведомление прочитанным
func HandleRead(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		id, err := common.ParseIDFromCallback(hc.Callback.Data)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse notification id")
			return
		}
		if err := center.MarkRead(hc.Ctx, id); err != nil {
			show(hc, center, screen)
		}
		hc.Answer("")
	})
}

// HandleAll прочитать все: при ненулевом счётчике сначала подтверждение
func HandleAll(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		unread := center.Snapshot().Unread
		if unread == 0 {
			center.MarkAllRead(hc.Ctx)
			hc.Answer("")
			return
		}

		text := fmt.Sprintf("Отметить %d %s как прочитанные?", unread,
			formatting.Pluralize(unread, "непрочитанное уведомление", "непрочитанных уведомления", "непрочитанных уведомлений"))
		if err := hc.EditMessage(text, keyboard.Confirm(keyboard.NotifyAllOK, keyboard.NotifyShow)); err != nil {
			common.HandleError(hc, err, "confirm mark all read")
			return
		}
		hc.Answer("")
	})
}

func HandleAllConfirmed(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		center.MarkAllRead(hc.Ctx)
		show(hc, center, screen)
		hc.Answer("")
	})
}

// HandleClear удаление всех уведомлений, только после подтверждения
func HandleClear(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		text := "🗑 Удалить все уведомления? Это действие нельзя отменить."
		if err := hc.EditMessage(text, keyboard.Confirm(keyboard.NotifyClearOK, keyboard.NotifyShow)); err != nil {
			common.HandleError(hc, err, "confirm clear notifications")
			return
		}
		hc.Answer("")
	})
}

func HandleClearConfirmed(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		center.ClearAll(hc.Ctx)
		show(hc, center, screen)
		hc.Answer("")
	})
}

// HandleFilter фильтр все/новые/прочитанные, сбрасывает поиск
func HandleFilter(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		screen.Filter = string(notify.ParseFilter(strings.TrimPrefix(hc.Callback.Data, keyboard.NotifyFilter)))
		screen.Query = ""
		h.Screens.SetNotificationsMessage(hc.ChatID, screen)
		show(hc, center, screen)
		hc.Answer("")
	})
}

// HandleRefresh перезагрузка по кнопке, ошибка показывается тостом
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		if err := center.Refresh(hc.Ctx); err != nil {
			show(hc, center, screen)
		}
		hc.Answer("")
	})
}

// HandleShow возврат к списку из подтверждения
func HandleShow(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		show(hc, center, screen)
		hc.Answer("")
	})
}

// HandleSearch ждёт строку поиска следующим сообщением
func HandleSearch(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withCenter(ctx, b, callback, h, func(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
		hc.SetState(state.StateNotificationSearch)
		if _, err := hc.SendMessage("🔍 Введите текст для поиска по уведомлениям:", nil); err != nil {
			hc.ClearState()
			common.HandleError(hc, err, "ask notification search")
			return
		}
		hc.Answer("")
	})
}

// HandleExport выгрузка уведомлений файлом
func HandleExport(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		format := strings.TrimPrefix(hc.Callback.Data, keyboard.NotifyExport)
		if format != keyboard.NotifyExportJSON && format != keyboard.NotifyExportCSV {
			common.HandleError(hc, common.ErrInvalidFormat, "parse export format")
			return
		}
		hc.Answer("⏳ Готовлю файл...")

		presenter := h.Presenter(hc.ChatID)
		stop := presenter.Loading(hc.Ctx)
		blob, err := hc.Client.ExportNotifications(hc.Ctx, format, h.Now())
		stop()
		if err != nil {
			h.Logger.Error("Failed to export notifications", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
			hc.SendMessage(html.EscapeString(common.ErrorMessage(err)), nil)
			return
		}

		if err := common.SendDocument(hc.Ctx, b, hc.ChatID, blob.Filename, blob.Data, "📤 Уведомления"); err != nil {
			h.Logger.Error("Failed to send notifications export", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
	})
}

// ApplySearch применяет строку поиска к зарегистрированному списку уведомлений
func ApplySearch(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID, telegramID int64, query string) error {
	h.StateManager.ClearState(telegramID)

	query = strings.TrimSpace(query)
	if runes := []rune(query); len(runes) > MaxQueryLength {
		query = string(runes[:MaxQueryLength])
	}

	center, err := h.Sessions.Notifications(ctx, chatID)
	if err != nil {
		return err
	}
	if !center.Snapshot().Loaded {
		if err := center.Reload(ctx); err != nil {
			return err
		}
	}

	screen, ok := h.Screens.NotificationsMessage(chatID)
	if !ok {
		screen = callbacktypes.NotificationsScreen{Filter: string(notify.FilterAll)}
	}
	screen.Query = query

	text, kb := common.BuildNotificationsScreen(center.Snapshot(), screen, h.Now())
	sent, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil {
		return err
	}

	// результат поиска становится текущим списком, старый удаляется
	if ok && screen.MessageID != 0 {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: screen.MessageID})
	}
	screen.MessageID = sent.ID
	h.Screens.SetNotificationsMessage(chatID, screen)
	return nil
}

// withCenter загружает сессию и центр уведомлений; сообщение с кнопкой становится
// зарегистрированным списком чата
func withCenter(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *notify.Center, callbacktypes.NotificationsScreen)) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		center, err := h.Sessions.Notifications(hc.Ctx, hc.ChatID)
		if err != nil {
			common.HandleError(hc, err, "get notification center")
			return
		}
		if !center.Snapshot().Loaded {
			if err := center.Reload(hc.Ctx); err != nil {
				common.HandleError(hc, err, "load notifications")
				return
			}
		}

		screen, ok := h.Screens.NotificationsMessage(hc.ChatID)
		if !ok || screen.MessageID != hc.Message.ID {
			screen = callbacktypes.NotificationsScreen{MessageID: hc.Message.ID, Filter: string(notify.FilterAll)}
			h.Screens.SetNotificationsMessage(hc.ChatID, screen)
		}

		handler(hc, center, screen)
	})
}

func show(hc *common.HandlerContext, center *notify.Center, screen callbacktypes.NotificationsScreen) {
	text, kb := common.BuildNotificationsScreen(center.Snapshot(), screen, hc.Handler.Now())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Warn("Failed to render notifications", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
	}
}
