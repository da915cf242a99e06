package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
)

// NotificationsPageSize сколько уведомлений помещается в одно сообщение
const NotificationsPageSize = 10

var filterTitles = map[notify.FilterKind]string{
	notify.FilterAll:    "все",
	notify.FilterUnread: "непрочитанные",
	notify.FilterRead:   "прочитанные",
}

func FilterTitle(kind notify.FilterKind) string {
	return filterTitles[kind]
}

// FormatNotifications список уведомлений с учётом фильтра и поиска
func FormatNotifications(snap notify.Snapshot, kind notify.FilterKind, query string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("🔔 <b>Уведомления</b>")
	if snap.Unread > 0 {
		sb.WriteString(fmt.Sprintf(" · %d %s", snap.Unread, Pluralize(snap.Unread, "новое", "новых", "новых")))
	}
	sb.WriteString("\n")
	sb.WriteString("Фильтр: " + FilterTitle(kind))
	if query != "" {
		sb.WriteString(fmt.Sprintf(" · поиск «%s»", html.EscapeString(query)))
	}
	sb.WriteString("\n")

	if !snap.Loaded {
		sb.WriteString("\n⏳ Загрузка...")
		return sb.String()
	}

	items := notify.Search(notify.Filter(snap.Items, kind), query)
	if len(items) == 0 {
		sb.WriteString("\n📭 Нет уведомлений")
		return sb.String()
	}

	shown := items
	if len(shown) > NotificationsPageSize {
		shown = shown[:NotificationsPageSize]
	}
	for _, n := range shown {
		sb.WriteString("\n")
		sb.WriteString(FormatNotification(n, now))
	}
	if rest := len(items) - len(shown); rest > 0 {
		sb.WriteString(fmt.Sprintf("\n… и ещё %d %s", rest, PluralizeNotifications(rest)))
	}
	return sb.String()
}

// FormatNotification одно уведомление: метка непрочитанного, заголовок, время, текст
func FormatNotification(n model.Notification, now time.Time) string {
	mark := "▫️"
	if !n.IsRead {
		mark = "🔵"
	}
	text := fmt.Sprintf("%s <b>%s</b> · <i>%s</i>\n", mark, html.EscapeString(n.Title), TimeAgo(n.CreatedAt, now))
	if n.Message != "" {
		text += html.EscapeString(n.Message) + "\n"
	}
	return text
}
