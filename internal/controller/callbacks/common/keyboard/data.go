package keyboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
)

// Форматы callback data
const (
	Noop = "noop"

	// Неделя: wk:prev, wk:next, wk:today, wk:show, wk:list, wk:refresh.
	// Суффикс :list сохраняет компактный вид при навигации.
	WeekPrefix  = "wk:"
	WeekPrev    = "prev"
	WeekNext    = "next"
	WeekToday   = "today"
	WeekShow    = "show"
	WeekList    = "list"
	WeekRefresh = "refresh"

	LabPrefix  = "lab:"  // lab:1, lab:all
	DayPrefix  = "day:"  // day:2024-06-10
	SlotPrefix = "slot:" // slot:2024-06-10:0830

	// Заявка на бронирование
	ReservePrefix   = "rsv:"
	ReserveLab      = "rsv:lab:" // rsv:lab:1
	ReserveDuration = "rsv:dur:" // rsv:dur:90
	ReserveSkip     = "rsv:skip"
	ReserveSubmit   = "rsv:submit"
	ReserveCancel   = "rsv:cancel"

	// Уведомления
	NotifyPrefix     = "ntf:"
	NotifyRead       = "ntf:read:" // ntf:read:42
	NotifyAll        = "ntf:all"
	NotifyAllOK      = "ntf:all:ok"
	NotifyClear      = "ntf:clear"
	NotifyClearOK    = "ntf:clear:ok"
	NotifyFilter     = "ntf:filter:" // ntf:filter:unread
	NotifyRefresh    = "ntf:refresh"
	NotifyShow       = "ntf:show"
	NotifySearch     = "ntf:search"
	NotifyExport     = "ntf:export:" // ntf:export:json
	NotifyExportJSON = "json"
	NotifyExportCSV  = "csv"

	// Администратор: adm:approve:42 -> подтверждение adm:approve:42:ok
	AdminPrefix  = "adm:"
	AdminApprove = "approve"
	AdminReject  = "reject"
	AdminDismiss = "adm:no"
	adminConfirm = "ok"
)

var ErrBadData = errors.New("malformed callback data")

// WeekData кнопка навигации по неделе
func WeekData(action string, list bool) string {
	if list && action != WeekList && action != WeekShow {
		return WeekPrefix + action + ":" + WeekList
	}
	return WeekPrefix + action
}

// ParseWeekData wk:next:list -> ("next", true)
func ParseWeekData(data string) (string, bool, error) {
	rest := strings.TrimPrefix(data, WeekPrefix)
	parts := strings.Split(rest, ":")
	switch {
	case len(parts) == 1 && parts[0] == WeekList:
		return WeekList, true, nil
	case len(parts) == 1:
		return parts[0], false, validWeekAction(parts[0])
	case len(parts) == 2 && parts[1] == WeekList:
		return parts[0], true, validWeekAction(parts[0])
	default:
		return "", false, fmt.Errorf("%w: %q", ErrBadData, data)
	}
}

func validWeekAction(action string) error {
	switch action {
	case WeekPrev, WeekNext, WeekToday, WeekShow, WeekList, WeekRefresh:
		return nil
	}
	return fmt.Errorf("%w: week action %q", ErrBadData, action)
}

func LabData(labID string) string {
	return LabPrefix + labID
}

func DayData(day time.Time) string {
	return DayPrefix + day.Format("2006-01-02")
}

// ParseDayData day:2024-06-10 -> дата в loc
func ParseDayData(data string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(data, DayPrefix), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return day, nil
}

func SlotData(day time.Time, slot schedule.TimeSlot) string {
	return SlotPrefix + day.Format("2006-01-02") + ":" + slot.Key()
}

// ParseSlotData slot:2024-06-10:0830 -> день и слот
func ParseSlotData(data string, loc *time.Location) (time.Time, schedule.TimeSlot, error) {
	parts := strings.Split(strings.TrimPrefix(data, SlotPrefix), ":")
	if len(parts) != 2 {
		return time.Time{}, schedule.TimeSlot{}, fmt.Errorf("%w: %q", ErrBadData, data)
	}
	day, err := time.ParseInLocation("2006-01-02", parts[0], loc)
	if err != nil {
		return time.Time{}, schedule.TimeSlot{}, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	slot, err := schedule.ParseSlotKey(parts[1])
	if err != nil {
		return time.Time{}, schedule.TimeSlot{}, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return day, slot, nil
}

func ReserveLabData(labID int64) string {
	return ReserveLab + strconv.FormatInt(labID, 10)
}

func ReserveDurationData(d time.Duration) string {
	return ReserveDuration + strconv.Itoa(int(d.Minutes()))
}

// ParseReserveDuration rsv:dur:90 -> 90 минут
func ParseReserveDuration(data string) (time.Duration, error) {
	minutes, err := strconv.Atoi(strings.TrimPrefix(data, ReserveDuration))
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadData, data)
	}
	return time.Duration(minutes) * time.Minute, nil
}

func NotifyReadData(id int64) string {
	return NotifyRead + strconv.FormatInt(id, 10)
}

func NotifyFilterData(kind string) string {
	return NotifyFilter + kind
}

// AdminData adm:approve:42, с подтверждением adm:approve:42:ok
func AdminData(action string, reservationID int64, confirmed bool) string {
	data := AdminPrefix + action + ":" + strconv.FormatInt(reservationID, 10)
	if confirmed {
		data += ":" + adminConfirm
	}
	return data
}

// AdminAction разобранная кнопка администратора
type AdminAction struct {
	Action        string
	ReservationID int64
	Confirmed     bool
}

func ParseAdminData(data string) (AdminAction, error) {
	parts := strings.Split(strings.TrimPrefix(data, AdminPrefix), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return AdminAction{}, fmt.Errorf("%w: %q", ErrBadData, data)
	}
	if parts[0] != AdminApprove && parts[0] != AdminReject {
		return AdminAction{}, fmt.Errorf("%w: admin action %q", ErrBadData, parts[0])
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return AdminAction{}, fmt.Errorf("%w: %q", ErrBadData, data)
	}
	action := AdminAction{Action: parts[0], ReservationID: id}
	if len(parts) == 3 {
		if parts[2] != adminConfirm {
			return AdminAction{}, fmt.Errorf("%w: %q", ErrBadData, data)
		}
		action.Confirmed = true
	}
	return action, nil
}
