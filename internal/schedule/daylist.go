package schedule

import (
	"sort"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

// DayAgenda компактное представление одного дня для узких экранов
type DayAgenda struct {
	Day    time.Time
	Events []model.Event
}

// DayList группирует события по календарному дню начала (а не по слотам)
func DayList(events []model.Event, window WeekWindow) []DayAgenda {
	days := window.Days()
	agenda := make([]DayAgenda, len(days))

	for i, day := range days {
		agenda[i].Day = day
		for _, e := range events {
			if sameDay(e.Start.In(day.Location()), day) {
				agenda[i].Events = append(agenda[i].Events, e)
			}
		}
		sort.SliceStable(agenda[i].Events, func(a, b int) bool {
			return agenda[i].Events[a].Start.Before(agenda[i].Events[b].Start)
		})
	}

	return agenda
}
