package model

import "time"

// StreamEventNewNotification единственный тип события потока, на который реагирует клиент
const StreamEventNewNotification = "new_notification"

type Notification struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
	IsRead        bool      `json:"is_read"`
	ReservationID *int64    `json:"reservation_id"` // указатель - может быть nil
}

// NotificationList ответ GET /api/notifications
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// StreamEvent кадр потока /api/notifications/stream
type StreamEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}

// ActionResult ответ action-эндпоинтов (mark_read, approve_request и т.д.)
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
