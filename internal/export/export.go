// Package export сохраняет недельную сетку в PDF и XLSX без обращения к серверу
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
)

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Цвета статусов слота, общие для PDF и XLSX
var statusColors = map[schedule.SlotStatus]string{
	schedule.SlotStatusAvailable: "#E8F5E9",
	schedule.SlotStatusReserved:  "#C8E6C9",
	schedule.SlotStatusPending:   "#FFF3CD",
	schedule.SlotStatusConflict:  "#F8D7DA",
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

// CellText текст ячейки: название занятия или число пересекающихся заявок
func CellText(c schedule.Cell) string {
	switch c.Status {
	case schedule.SlotStatusAvailable:
		return ""
	case schedule.SlotStatusConflict:
		return fmt.Sprintf("Конфликт (%d)", c.Count)
	default:
		return c.ShortTitle()
	}
}

func dayHeader(day time.Time) string {
	return weekdayShort[day.Weekday()] + " " + day.Format("02.01")
}

// Filename имя файла экспорта недели
func Filename(window schedule.WeekWindow, format string) string {
	return fmt.Sprintf("schedule-%s.%s", window.Start.Format("2006-01-02"), format)
}

func title(grid *schedule.WeekGrid, lab string) string {
	return fmt.Sprintf("%s: %s - %s",
		lab,
		grid.Window.Start.Format("02.01.2006"),
		grid.Window.End().Format("02.01.2006"))
}

// hexRGB разбирает цвет вида #RRGGBB
func hexRGB(hex string) (int, int, int) {
	channel := func(s string) int {
		v, _ := strconv.ParseUint(s, 16, 8)
		return int(v)
	}
	return channel(hex[1:3]), channel(hex[3:5]), channel(hex[5:7])
}
