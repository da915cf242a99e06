package model

import "time"

// LabFilterAll значение фильтра, при котором показываются все лаборатории
const LabFilterAll = "all"

// ChatSession связывает чат Telegram с сессией на сервере лабораторий
type ChatSession struct {
	ChatID               int64     `json:"chat_id"`
	TelegramID           int64     `json:"telegram_id"`
	Username             string    `json:"username"`
	Role                 Role      `json:"role"`
	SessionCookie        string    `json:"-"`
	CSRFToken            string    `json:"-"`
	LabFilter            string    `json:"lab_filter"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
