package labapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

type notificationDTO struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	CreatedAt     string `json:"created_at"`
	IsRead        bool   `json:"is_read"`
	ReservationID *int64 `json:"reservation_id"`
}

func (d notificationDTO) toModel(loc *time.Location) model.Notification {
	n := model.Notification{
		ID:            d.ID,
		Title:         d.Title,
		Message:       d.Message,
		IsRead:        d.IsRead,
		ReservationID: d.ReservationID,
	}
	// битая дата не повод терять уведомление
	if created, err := ParseTimestamp(d.CreatedAt, loc); err == nil {
		n.CreatedAt = created
	}
	return n
}

type notificationListDTO struct {
	Notifications []notificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unread_count"`
}

// Notifications GET /api/notifications
func (c *Client) Notifications(ctx context.Context) (*model.NotificationList, error) {
	var dto notificationListDTO
	if err := c.getJSON(ctx, "/api/notifications", nil, &dto); err != nil {
		return nil, err
	}

	list := &model.NotificationList{
		Notifications: make([]model.Notification, 0, len(dto.Notifications)),
		UnreadCount:   dto.UnreadCount,
	}
	for _, n := range dto.Notifications {
		list.Notifications = append(list.Notifications, n.toModel(c.loc))
	}
	return list, nil
}

// MarkRead POST /notifications/mark_read/{id}
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.action(ctx, http.MethodPost, fmt.Sprintf("/notifications/mark_read/%d", id))
}

// MarkAllRead POST /notifications/mark_all_read
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.action(ctx, http.MethodPost, "/notifications/mark_all_read")
}

// ClearAll POST /notifications/clear_all
func (c *Client) ClearAll(ctx context.Context) error {
	return c.action(ctx, http.MethodPost, "/notifications/clear_all")
}

// ExportNotifications GET /api/notifications/export?format=
func (c *Client) ExportNotifications(ctx context.Context, format string, now time.Time) (*Blob, error) {
	query := url.Values{}
	query.Set("format", format)
	fallback := fmt.Sprintf("notifications-%s.%s", now.Format("2006-01-02"), format)
	return c.download(ctx, "/api/notifications/export", query, fallback)
}
