package keyboard

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/go-telegram/bot/models"
)

// ReservationDurations варианты длительности заявки
var ReservationDurations = []time.Duration{
	30 * time.Minute,
	time.Hour,
	90 * time.Minute,
	2 * time.Hour,
	3 * time.Hour,
}

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

// YesNoButtons ряд с кнопками Да/Нет
func YesNoButtons(yesCallback, noCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("✅ Да", yesCallback),
		Button("❌ Нет", noCallback),
	}
}

// Confirm клавиатура подтверждения
func Confirm(yesCallback, noCallback string) *models.InlineKeyboardMarkup {
	return NewBuilder().Row(YesNoButtons(yesCallback, noCallback)...).Build()
}

// Week клавиатура недели: навигация, дни, фильтр лабораторий, вид
func Week(window schedule.WeekWindow, labs []model.Laboratory, labID string, today time.Time, list bool) *models.InlineKeyboardMarkup {
	kb := NewBuilder().Row(
		Button("◀️", WeekData(WeekPrev, list)),
		Button("📅 Сегодня", WeekData(WeekToday, list)),
		Button("▶️", WeekData(WeekNext, list)),
	)

	days := make([]models.InlineKeyboardButton, 0, schedule.DaysInWeek)
	for _, day := range window.Days() {
		label := fmt.Sprintf("%s %d", weekdayShort[day.Weekday()], day.Day())
		if sameDay(day, today) {
			label = "• " + label
		}
		days = append(days, Button(label, DayData(day)))
	}
	kb.Grid(4, days...)

	if len(labs) > 0 {
		filters := []models.InlineKeyboardButton{labButton("Все", model.LabFilterAll, labID)}
		for _, lab := range labs {
			filters = append(filters, labButton(lab.Name, labapi.FormatLabID(lab.ID), labID))
		}
		kb.Grid(3, filters...)
	}

	view := Button("📋 Списком", WeekData(WeekList, false))
	if list {
		view = Button("🖼 Сеткой", WeekData(WeekShow, false))
	}
	kb.Row(view, Button("🔄 Обновить", WeekData(WeekRefresh, list)))

	return kb.Build()
}

func labButton(name, key, current string) models.InlineKeyboardButton {
	if key == current {
		name = "✓ " + name
	}
	return Button(name, LabData(key))
}

// Day кнопки слотов дня
func Day(cells []schedule.Cell) *models.InlineKeyboardMarkup {
	emoji := map[schedule.SlotStatus]string{
		schedule.SlotStatusAvailable: "🟢",
		schedule.SlotStatusReserved:  "🔵",
		schedule.SlotStatusPending:   "🟡",
		schedule.SlotStatusConflict:  "🔴",
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(cells))
	for _, c := range cells {
		buttons = append(buttons, Button(emoji[c.Status]+" "+c.Slot.Label(), SlotData(c.Day, c.Slot)))
	}

	return NewBuilder().
		Grid(4, buttons...).
		Row(Button("⬅️ К неделе", WeekData(WeekShow, false))).
		Build()
}

// SlotDetail кнопки панели слота; администратор видит одобрение заявок, ожидающих решения
func SlotDetail(day time.Time, detail schedule.SlotDetail, role model.Role) *models.InlineKeyboardMarkup {
	kb := NewBuilder()
	if role.IsAdmin() {
		for _, e := range detail.Events {
			if e.Status != model.EventStatusPending || e.ID == 0 {
				continue
			}
			kb.Row(
				Button(fmt.Sprintf("✅ Одобрить #%d", e.ID), AdminData(AdminApprove, e.ID, false)),
				Button(fmt.Sprintf("🚫 Отклонить #%d", e.ID), AdminData(AdminReject, e.ID, false)),
			)
		}
	}
	return kb.Row(Button("⬅️ К дню", DayData(day))).Build()
}

// Notifications клавиатура списка уведомлений
func Notifications(snap notify.Snapshot, kind notify.FilterKind, query string) *models.InlineKeyboardMarkup {
	kb := NewBuilder()

	unread := notify.Filter(notify.Search(notify.Filter(snap.Items, kind), query), notify.FilterUnread)
	for _, n := range notify.Dropdown(unread) {
		kb.Row(Button("✅ "+shorten(n.Title, 32), NotifyReadData(n.ID)))
	}

	filters := make([]models.InlineKeyboardButton, 0, 3)
	for _, f := range []struct {
		kind  notify.FilterKind
		title string
	}{
		{notify.FilterAll, "Все"},
		{notify.FilterUnread, "Новые"},
		{notify.FilterRead, "Прочитанные"},
	} {
		title := f.title
		if f.kind == kind {
			title = "✓ " + title
		}
		filters = append(filters, Button(title, NotifyFilterData(string(f.kind))))
	}
	kb.Row(filters...)

	search := Button("🔍 Поиск", NotifySearch)
	if query != "" {
		search = Button("✖️ Сбросить поиск", NotifyFilterData(string(kind)))
	}

	return kb.
		Row(Button("✅ Прочитать все", NotifyAll), Button("🗑 Очистить", NotifyClear)).
		Row(Button("🔄 Обновить", NotifyRefresh), search).
		Row(
			Button("📤 JSON", NotifyExport+NotifyExportJSON),
			Button("📤 CSV", NotifyExport+NotifyExportCSV),
		).
		Build()
}

// ReserveLabs выбор лаборатории для заявки
func ReserveLabs(labs []model.Laboratory) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(labs))
	for _, lab := range labs {
		buttons = append(buttons, Button(lab.Name, ReserveLabData(lab.ID)))
	}
	return NewBuilder().Grid(2, buttons...).Row(CancelButton(ReserveCancel)).Build()
}

// ReserveDurations варианты длительности, не выходящие за конец дневного окна
func ReserveDurations(start time.Time) *models.InlineKeyboardMarkup {
	dayEnd := time.Date(start.Year(), start.Month(), start.Day(), schedule.DayStartHour, 0, 0, 0, start.Location()).
		Add(schedule.SlotsPerDay * schedule.SlotDuration)

	buttons := make([]models.InlineKeyboardButton, 0, len(ReservationDurations))
	for _, d := range ReservationDurations {
		if start.Add(d).After(dayEnd) {
			break
		}
		buttons = append(buttons, Button(
			fmt.Sprintf("%s (до %s)", durationLabel(d), start.Add(d).Format("15:04")),
			ReserveDurationData(d)))
	}
	return NewBuilder().Grid(2, buttons...).Row(CancelButton(ReserveCancel)).Build()
}

// ReserveNotes пропуск примечаний
func ReserveNotes() *models.InlineKeyboardMarkup {
	return NewBuilder().Row(Button("⏭ Без примечаний", ReserveSkip), CancelButton(ReserveCancel)).Build()
}

func ReserveConfirm() *models.InlineKeyboardMarkup {
	return NewBuilder().Row(Button("📨 Отправить", ReserveSubmit), CancelButton(ReserveCancel)).Build()
}

// ReserveStep кнопка отмены для текстовых шагов
func ReserveStep() *models.InlineKeyboardMarkup {
	return NewBuilder().Row(CancelButton(ReserveCancel)).Build()
}

func durationLabel(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%d мин", int(d.Minutes()))
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d ч", int(d.Hours()))
	}
	return fmt.Sprintf("%.1f ч", d.Hours())
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
