package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// Дневное окно сетки: 24 получасовых слота с 08:00 до 19:30 включительно
const (
	DayStartHour = 8
	SlotMinutes  = 30
	SlotsPerDay  = 24
	DaysInWeek   = 7
)

// SlotDuration длительность одного слота
const SlotDuration = SlotMinutes * time.Minute

// StartOfWeek возвращает полночь понедельника, на который (или после которого) приходится t.
// Воскресенье считается концом недели: сдвиг -6, а не +1.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	return day.AddDate(0, 0, -daysSinceMonday)
}

// WeekWindow 7 последовательных дней Пн-Вс, отображаемых в сетке
type WeekWindow struct {
	Start time.Time
}

// NewWeekWindow строит окно недели для опорной даты
func NewWeekWindow(ref time.Time) WeekWindow {
	return WeekWindow{Start: StartOfWeek(ref)}
}

// Days возвращает даты недели начиная с понедельника
func (w WeekWindow) Days() []time.Time {
	days := make([]time.Time, DaysInWeek)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// End полночь воскресенья
func (w WeekWindow) End() time.Time {
	return w.Start.AddDate(0, 0, DaysInWeek-1)
}

// Contains попадает ли момент t в неделю
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.Start.AddDate(0, 0, DaysInWeek))
}

func (w WeekWindow) Next() WeekWindow {
	return WeekWindow{Start: w.Start.AddDate(0, 0, DaysInWeek)}
}

func (w WeekWindow) Prev() WeekWindow {
	return WeekWindow{Start: w.Start.AddDate(0, 0, -DaysInWeek)}
}

// Shift сдвигает опорную дату на n недель
func Shift(ref time.Time, weeks int) time.Time {
	return ref.AddDate(0, 0, weeks*DaysInWeek)
}

// TimeSlot получасовой слот дневного окна
type TimeSlot struct {
	Hour   int
	Minute int
}

// DaySlots генерирует 24 слота 08:00, 08:30 ... 19:30
func DaySlots() []TimeSlot {
	slots := make([]TimeSlot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		minutes := DayStartHour*60 + i*SlotMinutes
		slots = append(slots, TimeSlot{Hour: minutes / 60, Minute: minutes % 60})
	}
	return slots
}

// Label время слота в формате HH:MM
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Key компактная форма HHMM для callback data
func (s TimeSlot) Key() string {
	return fmt.Sprintf("%02d%02d", s.Hour, s.Minute)
}

// On возвращает полуоткрытый интервал [start, end) слота в указанный день
func (s TimeSlot) On(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), s.Hour, s.Minute, 0, 0, day.Location())
	return start, start.Add(SlotDuration)
}

// ParseSlotKey разбирает HHMM и проверяет что это слот дневного окна
func ParseSlotKey(key string) (TimeSlot, error) {
	if len(key) != 4 {
		return TimeSlot{}, fmt.Errorf("invalid slot key %q", key)
	}
	h, errH := strconv.Atoi(key[:2])
	m, errM := strconv.Atoi(key[2:])
	if errH != nil || errM != nil {
		return TimeSlot{}, fmt.Errorf("invalid slot key %q", key)
	}
	for _, s := range DaySlots() {
		if s.Hour == h && s.Minute == m {
			return s, nil
		}
	}
	return TimeSlot{}, fmt.Errorf("slot %q is outside the day window", key)
}
