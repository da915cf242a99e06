package notify

import (
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

// DropdownSize сколько уведомлений показывается в кратком списке
const DropdownSize = 5

type FilterKind string

const (
	FilterAll    FilterKind = "all"
	FilterUnread FilterKind = "unread"
	FilterRead   FilterKind = "read"
)

// ParseFilter неизвестное значение трактуется как all
func ParseFilter(s string) FilterKind {
	switch FilterKind(s) {
	case FilterUnread, FilterRead:
		return FilterKind(s)
	default:
		return FilterAll
	}
}

func Filter(items []model.Notification, kind FilterKind) []model.Notification {
	if kind == FilterAll {
		return items
	}
	out := make([]model.Notification, 0, len(items))
	for _, n := range items {
		if (kind == FilterUnread) == !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// Search без учёта регистра по заголовку и тексту
func Search(items []model.Notification, query string) []model.Notification {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]model.Notification, 0, len(items))
	for _, n := range items {
		if strings.Contains(strings.ToLower(n.Title+" "+n.Message), query) {
			out = append(out, n)
		}
	}
	return out
}

func Dropdown(items []model.Notification) []model.Notification {
	if len(items) > DropdownSize {
		return items[:DropdownSize]
	}
	return items
}
