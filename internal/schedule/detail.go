package schedule

import (
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

// EventDetail строка панели подробностей слота
type EventDetail struct {
	ID         int64
	Title      string
	Instructor string
	Lab        string
	Start      time.Time
	End        time.Time
	Duration   time.Duration
	Status     model.EventStatus
}

// SlotDetail панель подробностей: все события, пересекающие слот
type SlotDetail struct {
	Start  time.Time
	End    time.Time
	Status SlotStatus
	Events []EventDetail
}

// Available пустая панель означает свободный слот
func (d SlotDetail) Available() bool {
	return len(d.Events) == 0
}

// Detail строит панель подробностей для ячейки
func Detail(c Cell) SlotDetail {
	detail := SlotDetail{
		Start:  c.Start,
		End:    c.End,
		Status: c.Status,
		Events: make([]EventDetail, 0, len(c.Events)),
	}
	for _, e := range c.Events {
		detail.Events = append(detail.Events, EventDetail{
			ID:         e.ID,
			Title:      e.Title,
			Instructor: e.Instructor,
			Lab:        e.Lab,
			Start:      e.Start,
			End:        e.End,
			Duration:   e.Duration(),
			Status:     e.Status,
		})
	}
	return detail
}

type ActionKind string

const (
	ActionReserve ActionKind = "reserve"
	ActionDetail  ActionKind = "detail"
)

// SlotAction результат нажатия на ячейку
type SlotAction struct {
	Kind   ActionKind
	Start  time.Time // заполнено для ActionReserve
	End    time.Time
	Detail SlotDetail // заполнено для ActionDetail
}

// Click решает что делать при нажатии на ячейку: преподаватель на свободном слоте
// переходит к заявке с предзаполненными датой и временем, остальные видят подробности
func Click(c Cell, role model.Role) SlotAction {
	if c.Status == SlotStatusAvailable && role.CanReserve() {
		return SlotAction{Kind: ActionReserve, Start: c.Start, End: c.End}
	}
	return SlotAction{Kind: ActionDetail, Detail: Detail(c)}
}
