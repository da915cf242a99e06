package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
)

func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration длительность в часах и минутах
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

var weekdayShortNames = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	return weekdayNames[weekday]
}

func GetWeekdayShort(weekday time.Weekday) string {
	return weekdayShortNames[weekday]
}

// GetMonthName возвращает название месяца на русском
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}

// FormatWeekTitle "Июнь 2024" или "Июль - Август 2024" для недели на стыке месяцев
func FormatWeekTitle(w schedule.WeekWindow) string {
	start, end := w.Start, w.End()
	switch {
	case start.Month() == end.Month():
		return fmt.Sprintf("%s %d", GetMonthName(start.Month()), start.Year())
	case start.Year() == end.Year():
		return fmt.Sprintf("%s - %s %d", GetMonthName(start.Month()), GetMonthName(end.Month()), end.Year())
	default:
		return fmt.Sprintf("%s %d - %s %d", GetMonthName(start.Month()), start.Year(), GetMonthName(end.Month()), end.Year())
	}
}

// FormatWeekRange "10.06 - 16.06.2024"
func FormatWeekRange(w schedule.WeekWindow) string {
	return fmt.Sprintf("%s - %s", w.Start.Format("02.01"), w.End().Format("02.01.2006"))
}

// FormatDayHeader "Пн 10.06"
func FormatDayHeader(day time.Time) string {
	return GetWeekdayShort(day.Weekday()) + " " + day.Format("02.01")
}

// TimeAgo относительное время создания уведомления
func TimeAgo(created, now time.Time) string {
	if created.IsZero() {
		return "неизвестно когда"
	}
	d := now.Sub(created)
	switch {
	case d < time.Minute:
		return "только что"
	case d < time.Hour:
		n := int(d / time.Minute)
		return fmt.Sprintf("%d %s назад", n, PluralizeMinutes(n))
	case d < 24*time.Hour:
		n := int(d / time.Hour)
		return fmt.Sprintf("%d %s назад", n, PluralizeHours(n))
	case d < 7*24*time.Hour:
		n := int(d / (24 * time.Hour))
		return fmt.Sprintf("%d %s назад", n, PluralizeDays(n))
	default:
		return FormatDate(created)
	}
}
