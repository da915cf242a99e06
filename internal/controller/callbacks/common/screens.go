package common

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BuildWeekListScreen компактный вид недели
func BuildWeekListScreen(h *callbacktypes.Handler, grid *schedule.WeekGrid, labID string) (string, *models.InlineKeyboardMarkup) {
	text := formatting.FormatAgenda(grid.Window, schedule.DayList(grid.Events, grid.Window), h.LabName(labID))
	return text, keyboard.Week(grid.Window, h.Labs, labID, h.Now(), true)
}

// BuildDayScreen слоты одного дня
func BuildDayScreen(h *callbacktypes.Handler, grid *schedule.WeekGrid, day time.Time, labID string) (string, *models.InlineKeyboardMarkup) {
	cells := grid.Day(day)
	return formatting.FormatDay(cells, h.LabName(labID)), keyboard.Day(cells)
}

// BuildNotificationsScreen список уведомлений с кнопками
func BuildNotificationsScreen(snap notify.Snapshot, screen callbacktypes.NotificationsScreen, now time.Time) (string, *models.InlineKeyboardMarkup) {
	kind := notify.ParseFilter(screen.Filter)
	return formatting.FormatNotifications(snap, kind, screen.Query, now), keyboard.Notifications(snap, kind, screen.Query)
}

// SendWeek отправляет неделю картинкой с подписью или списком.
// Если картинку построить не удалось, отправляется список.
func SendWeek(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, grid *schedule.WeekGrid, labID string, list bool) (*models.Message, error) {
	if !list {
		image, err := GenerateWeekImage(grid, h.LabName(labID), h.Now())
		if err == nil {
			return b.SendPhoto(ctx, &bot.SendPhotoParams{
				ChatID:      chatID,
				Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
				Caption:     formatting.FormatWeekCaption(grid, h.LabName(labID)),
				ParseMode:   models.ParseModeHTML,
				ReplyMarkup: keyboard.Week(grid.Window, h.Labs, labID, h.Now(), false),
			})
		}
		h.Logger.Warn("Failed to render week image, sending list", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	text, kb := BuildWeekListScreen(h, grid, labID)
	return b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// ScreenRegistry помнит сообщения, которые обновляются на месте
type ScreenRegistry struct {
	mu            sync.Mutex
	notifications map[int64]callbacktypes.NotificationsScreen
}

func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{notifications: make(map[int64]callbacktypes.NotificationsScreen)}
}

func (r *ScreenRegistry) NotificationsMessage(chatID int64) (callbacktypes.NotificationsScreen, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	screen, ok := r.notifications[chatID]
	return screen, ok
}

func (r *ScreenRegistry) SetNotificationsMessage(chatID int64, screen callbacktypes.NotificationsScreen) {
	r.mu.Lock()
	r.notifications[chatID] = screen
	r.mu.Unlock()
}

func (r *ScreenRegistry) ForgetNotifications(chatID int64) {
	r.mu.Lock()
	delete(r.notifications, chatID)
	r.mu.Unlock()
}
