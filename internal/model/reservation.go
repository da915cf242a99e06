package model

import "time"

// ReservationDraft черновик заявки на бронирование, собираемый диалогом
type ReservationDraft struct {
	LabID      int64     `json:"lab_id" validate:"required,gt=0"`
	CourseName string    `json:"course_name" validate:"required,max=100"`
	Section    string    `json:"section" validate:"required,max=50"`
	Start      time.Time `json:"start_time" validate:"required"`
	End        time.Time `json:"end_time" validate:"required,gtfield=Start"`
	Notes      string    `json:"notes,omitempty"`
}

// Laboratory лаборатория из конфигурации (сервер не отдаёт список в JSON)
type Laboratory struct {
	ID   int64
	Name string
}

// UsageRow строка отчёта об использовании
type UsageRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
