package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/export"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
)

// legendOrder порядок статусов в подписях и легенде
var legendOrder = []schedule.SlotStatus{
	schedule.SlotStatusAvailable,
	schedule.SlotStatusReserved,
	schedule.SlotStatusPending,
	schedule.SlotStatusConflict,
}

// CellLabel текст ячейки для кнопок и списков
func CellLabel(c schedule.Cell) string {
	if c.Status == schedule.SlotStatusAvailable {
		return GetSlotStatusDisplay(c.Status).Text
	}
	return export.CellText(c)
}

// FormatWeekCaption подпись к картинке недели
func FormatWeekCaption(grid *schedule.WeekGrid, labName string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", FormatWeekTitle(grid.Window)))
	sb.WriteString(fmt.Sprintf("%s · %s\n\n", FormatWeekRange(grid.Window), html.EscapeString(labName)))

	counts := grid.Counts()
	parts := make([]string, 0, len(legendOrder))
	for _, status := range legendOrder {
		display := GetSlotStatusDisplay(status)
		parts = append(parts, fmt.Sprintf("%s %d", display.Emoji, counts[status]))
	}
	sb.WriteString(strings.Join(parts, "  "))

	n := len(grid.Events)
	sb.WriteString(fmt.Sprintf("\n%d %s на неделе", n, PluralizeReservations(n)))
	return sb.String()
}

// FormatAgenda компактный список недели по дням
func FormatAgenda(window schedule.WeekWindow, agenda []schedule.DayAgenda, labName string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📋 <b>%s</b>\n", FormatWeekTitle(window)))
	sb.WriteString(fmt.Sprintf("%s · %s\n", FormatWeekRange(window), html.EscapeString(labName)))

	for _, day := range agenda {
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", FormatDayHeader(day.Day)))
		if len(day.Events) == 0 {
			sb.WriteString("   нет заявок\n")
			continue
		}
		for _, e := range day.Events {
			sb.WriteString(fmt.Sprintf("   %s %s %s",
				FormatTimeRange(e.Start, e.End),
				GetEventStatusDisplay(e.Status).Emoji,
				html.EscapeString(e.Title)))
			if e.Instructor != "" {
				sb.WriteString(" · " + html.EscapeString(e.Instructor))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatDay слоты одного дня
func FormatDay(cells []schedule.Cell, labName string) string {
	if len(cells) == 0 {
		return "❌ День вне отображаемой недели"
	}

	var sb strings.Builder
	day := cells[0].Day
	sb.WriteString(fmt.Sprintf("🗓 <b>%s, %s</b>\n%s\n\n",
		GetWeekdayName(day.Weekday()), FormatDate(day), html.EscapeString(labName)))

	for _, c := range cells {
		sb.WriteString(fmt.Sprintf("<code>%s</code> %s %s\n",
			c.Slot.Label(), GetSlotStatusDisplay(c.Status).Emoji, html.EscapeString(CellLabel(c))))
	}
	return sb.String()
}

// FormatSlotDetail панель подробностей слота
func FormatSlotDetail(detail schedule.SlotDetail) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🕘 <b>%s %s, %s</b>\n",
		GetWeekdayShort(detail.Start.Weekday()),
		detail.Start.Format("02.01"),
		FormatTimeRange(detail.Start, detail.End)))

	display := GetSlotStatusDisplay(detail.Status)
	if detail.Available() {
		sb.WriteString(display.Emoji + " Слот свободен")
		return sb.String()
	}
	sb.WriteString(display.Emoji + " " + display.Text)
	if detail.Status == schedule.SlotStatusConflict {
		sb.WriteString(fmt.Sprintf(": %d %s пересекаются", len(detail.Events), PluralizeReservations(len(detail.Events))))
	}
	sb.WriteString("\n")

	for i, e := range detail.Events {
		sb.WriteString(fmt.Sprintf("\n%d. <b>%s</b>\n", i+1, html.EscapeString(e.Title)))
		if e.Instructor != "" {
			sb.WriteString("👤 " + html.EscapeString(e.Instructor) + "\n")
		}
		if e.Lab != "" {
			sb.WriteString("🏫 " + html.EscapeString(e.Lab) + "\n")
		}
		sb.WriteString(fmt.Sprintf("🕐 %s (%s)\n", FormatTimeRange(e.Start, e.End), FormatDuration(e.Duration)))
		status := GetEventStatusDisplay(e.Status)
		sb.WriteString(status.Emoji + " " + status.Text + "\n")
	}
	return sb.String()
}

// FormatDraft сводка заявки перед отправкой
func FormatDraft(draft model.ReservationDraft, labName string) string {
	var sb strings.Builder

	sb.WriteString("📝 <b>Заявка на бронирование</b>\n\n")
	sb.WriteString("🏫 " + html.EscapeString(labName) + "\n")
	if !draft.Start.IsZero() {
		sb.WriteString(fmt.Sprintf("📅 %s, %s\n", FormatDate(draft.Start), FormatTimeRange(draft.Start, draft.End)))
	}
	if draft.CourseName != "" {
		sb.WriteString("📚 " + html.EscapeString(draft.CourseName) + "\n")
	}
	if draft.Section != "" {
		sb.WriteString("👥 " + html.EscapeString(draft.Section) + "\n")
	}
	if draft.Notes != "" {
		sb.WriteString("💬 " + html.EscapeString(draft.Notes) + "\n")
	}
	return sb.String()
}
