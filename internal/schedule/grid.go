package schedule

import (
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusReserved  SlotStatus = "reserved"
	SlotStatusPending   SlotStatus = "pending"
	SlotStatusConflict  SlotStatus = "conflict"
)

// EventsInSlot отбирает события, пересекающие полуоткрытый интервал [start, end):
// событие занимает слот тогда и только тогда, когда event.start < end и event.end > start
func EventsInSlot(events []model.Event, start, end time.Time) []model.Event {
	var out []model.Event
	for _, e := range events {
		if e.Overlaps(start, end) {
			out = append(out, e)
		}
	}
	return out
}

// StatusFor статус слота как чистая функция от пересекающих его событий
func StatusFor(events []model.Event) SlotStatus {
	switch len(events) {
	case 0:
		return SlotStatusAvailable
	case 1:
		if events[0].IsApproved() {
			return SlotStatusReserved
		}
		return SlotStatusPending
	default:
		return SlotStatusConflict
	}
}

// Cell ячейка сетки: один слот одного дня
type Cell struct {
	Day    time.Time
	Slot   TimeSlot
	Start  time.Time
	End    time.Time
	Status SlotStatus
	Count  int
	Events []model.Event
}

// ShortTitle короткое название для ячейки с одним событием
// ("Networking - A1" -> "Networking"), пусто в остальных случаях
func (c Cell) ShortTitle() string {
	if c.Count != 1 {
		return ""
	}
	title := c.Events[0].Title
	if i := strings.Index(title, " - "); i >= 0 {
		return title[:i]
	}
	return title
}

// Row строка сетки: один слот по всем дням недели
type Row struct {
	Slot  TimeSlot
	Cells []Cell
}

// WeekGrid view-model недельной сетки. Не хранит состояния кроме
// производного от списка событий, переданного в Build.
type WeekGrid struct {
	Window WeekWindow
	Slots  []TimeSlot
	Rows   []Row
	Events []model.Event
}

// Build раскладывает события по получасовым слотам недели, содержащей ref
func Build(events []model.Event, ref time.Time) *WeekGrid {
	window := NewWeekWindow(ref)
	slots := DaySlots()
	days := window.Days()

	grid := &WeekGrid{
		Window: window,
		Slots:  slots,
		Rows:   make([]Row, 0, len(slots)),
		Events: events,
	}

	for _, slot := range slots {
		row := Row{Slot: slot, Cells: make([]Cell, 0, len(days))}
		for _, day := range days {
			start, end := slot.On(day)
			inSlot := EventsInSlot(events, start, end)
			row.Cells = append(row.Cells, Cell{
				Day:    day,
				Slot:   slot,
				Start:  start,
				End:    end,
				Status: StatusFor(inSlot),
				Count:  len(inSlot),
				Events: inSlot,
			})
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

// Cell ищет ячейку по дню и слоту
func (g *WeekGrid) Cell(day time.Time, slot TimeSlot) (Cell, bool) {
	dayIdx := -1
	for i, d := range g.Window.Days() {
		if sameDay(d, day) {
			dayIdx = i
			break
		}
	}
	if dayIdx < 0 {
		return Cell{}, false
	}
	for _, row := range g.Rows {
		if row.Slot == slot {
			return row.Cells[dayIdx], true
		}
	}
	return Cell{}, false
}

// Day возвращает все ячейки одного дня в порядке слотов
func (g *WeekGrid) Day(day time.Time) []Cell {
	var cells []Cell
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			if sameDay(c.Day, day) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// Counts количество ячеек по статусам
func (g *WeekGrid) Counts() map[SlotStatus]int {
	counts := make(map[SlotStatus]int, 4)
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			counts[c.Status]++
		}
	}
	return counts
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
