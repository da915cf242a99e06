package keyboard

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

func TestWeekData_RoundTrip(t *testing.T) {
	tests := []struct {
		data   string
		action string
		list   bool
	}{
		{WeekData(WeekNext, false), WeekNext, false},
		{WeekData(WeekPrev, true), WeekPrev, true},
		{WeekData(WeekList, true), WeekList, true},
		{WeekData(WeekShow, true), WeekShow, false},
	}
	for _, tt := range tests {
		action, list, err := ParseWeekData(tt.data)
		require.NoError(t, err, tt.data)
		assert.Equal(t, tt.action, action, tt.data)
		assert.Equal(t, tt.list, list, tt.data)
	}

	for _, bad := range []string{"wk:", "wk:jump", "wk:next:grid", "wk:a:b:c"} {
		_, _, err := ParseWeekData(bad)
		assert.ErrorIs(t, err, ErrBadData, bad)
	}
}

func TestSlotData_RoundTrip(t *testing.T) {
	slot := schedule.TimeSlot{Hour: 8, Minute: 30}
	data := SlotData(monday, slot)
	assert.Equal(t, "slot:2024-06-10:0830", data)

	day, parsed, err := ParseSlotData(data, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, monday, day)
	assert.Equal(t, slot, parsed)

	for _, bad := range []string{"slot:2024-06-10", "slot:2024-13-10:0830", "slot:2024-06-10:0745", "slot:2024-06-10:2000"} {
		_, _, err := ParseSlotData(bad, time.UTC)
		assert.ErrorIs(t, err, ErrBadData, bad)
	}
}

func TestAdminData(t *testing.T) {
	assert.Equal(t, "adm:approve:42", AdminData(AdminApprove, 42, false))
	assert.Equal(t, "adm:reject:7:ok", AdminData(AdminReject, 7, true))

	a, err := ParseAdminData("adm:reject:7:ok")
	require.NoError(t, err)
	assert.Equal(t, AdminAction{Action: AdminReject, ReservationID: 7, Confirmed: true}, a)

	for _, bad := range []string{"adm:approve", "adm:delete:1", "adm:approve:0", "adm:approve:1:yes"} {
		_, err := ParseAdminData(bad)
		assert.ErrorIs(t, err, ErrBadData, bad)
	}
}

func TestParseReserveDuration(t *testing.T) {
	d, err := ParseReserveDuration(ReserveDurationData(90 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = ParseReserveDuration("rsv:dur:-5")
	assert.ErrorIs(t, err, ErrBadData)
}

func TestWeek_Keyboard(t *testing.T) {
	labs := []model.Laboratory{{ID: 1, Name: "Computer Lab"}, {ID: 2, Name: "Network Lab"}}
	kb := Week(schedule.NewWeekWindow(monday), labs, "2", monday.AddDate(0, 0, 2), false)

	data := callbacks(kb)
	assert.Contains(t, data, "wk:prev")
	assert.Contains(t, data, "day:2024-06-16")
	assert.Contains(t, data, "lab:all")
	assert.Contains(t, data, "wk:list")

	var labels []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	assert.Contains(t, labels, "✓ Network Lab")
	assert.Contains(t, labels, "• Ср 12")

	listKb := Week(schedule.NewWeekWindow(monday), nil, "all", monday, true)
	assert.Contains(t, callbacks(listKb), "wk:next:list")
	assert.Contains(t, callbacks(listKb), "wk:show")
}

func TestReserveDurations_StayInsideDay(t *testing.T) {
	late := time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC)
	data := callbacks(ReserveDurations(late))

	assert.Contains(t, data, "rsv:dur:30")
	assert.Contains(t, data, "rsv:dur:90")
	assert.NotContains(t, data, "rsv:dur:120")
	assert.Contains(t, data, ReserveCancel)
}

func TestSlotDetail_AdminButtons(t *testing.T) {
	detail := schedule.SlotDetail{Events: []schedule.EventDetail{
		{ID: 5, Status: model.EventStatusPending},
		{ID: 6, Status: model.EventStatusApproved},
	}}

	admin := callbacks(SlotDetail(monday, detail, model.RoleAdmin))
	assert.Contains(t, admin, "adm:approve:5")
	assert.Contains(t, admin, "adm:reject:5")
	assert.NotContains(t, admin, "adm:approve:6")

	student := callbacks(SlotDetail(monday, detail, model.RoleStudent))
	assert.Equal(t, []string{"day:2024-06-10"}, student)
}

func TestNotifications_Keyboard(t *testing.T) {
	snap := notify.Snapshot{Loaded: true, Items: []model.Notification{
		{ID: 1, Title: "a"}, {ID: 2, Title: "b", IsRead: true},
		{ID: 3, Title: "c"}, {ID: 4, Title: "d"}, {ID: 5, Title: "e"}, {ID: 6, Title: "f"}, {ID: 7, Title: "g"},
	}}

	data := callbacks(Notifications(snap, notify.FilterAll, ""))
	assert.Contains(t, data, "ntf:read:1")
	assert.NotContains(t, data, "ntf:read:2")
	assert.NotContains(t, data, "ntf:read:7", "only the dropdown size gets buttons")
	assert.Contains(t, data, NotifySearch)

	searching := callbacks(Notifications(snap, notify.FilterUnread, "x"))
	assert.NotContains(t, searching, NotifySearch)
	assert.Contains(t, searching, "ntf:filter:unread")
}

func TestBuilder_Grid(t *testing.T) {
	kb := NewBuilder().Grid(3, Button("1", "1"), Button("2", "2"), Button("3", "3"), Button("4", "4")).Build()
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Len(t, kb.InlineKeyboard[1], 1)
}
