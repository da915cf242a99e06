package model

import "time"

type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusApproved  EventStatus = "approved"
	EventStatusRejected  EventStatus = "rejected"  // сервер может прислать, отображается как pending
	EventStatusCompleted EventStatus = "completed" // аналогично
)

// Event бронирование лаборатории в том виде, в каком его отдаёт /api/schedule.
// После получения не изменяется: каждый запрос заменяет список целиком.
type Event struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Instructor string      `json:"instructor"`
	Lab        string      `json:"lab"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Status     EventStatus `json:"status"`
	Color      string      `json:"color,omitempty"`
}

// IsApproved сообщает, подтверждено ли бронирование администратором
func (e Event) IsApproved() bool {
	return e.Status == EventStatusApproved
}

// Duration длительность бронирования
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps проверяет пересечение с полуоткрытым интервалом [start, end)
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}
