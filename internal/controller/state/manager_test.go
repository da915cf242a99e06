package state

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StateLifecycle(t *testing.T) {
	sm := NewManager()

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateReserveCourse)
	sm.SetData(1, "k", 42)
	assert.Equal(t, StateReserveCourse, sm.GetState(1))

	v, ok := sm.GetData(1, "k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	sm.SetState(1, StateNone)
	_, ok = sm.GetData(1, "k")
	assert.False(t, ok, "StateNone drops data")
}

func TestManager_Transition(t *testing.T) {
	sm := NewManager()
	sm.SetState(7, StateReserveConfirm)

	assert.True(t, sm.Transition(7, StateReserveConfirm, StateReserveSubmit))
	assert.False(t, sm.Transition(7, StateReserveConfirm, StateReserveSubmit), "second press is ignored")
	assert.False(t, sm.Transition(8, StateNone, StateReserveLab), "unknown user")
}

func TestManager_DraftIsCopied(t *testing.T) {
	sm := NewManager()
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	sm.SetDraft(3, model.ReservationDraft{LabID: 1, Start: start})
	draft, ok := sm.Draft(3)
	require.True(t, ok)
	draft.CourseName = "changed"

	again, _ := sm.Draft(3)
	assert.Empty(t, again.CourseName)
	assert.Equal(t, start, again.Start)
}

func TestManager_GetAllDataCopy(t *testing.T) {
	sm := NewManager()
	sm.SetData(5, "a", 1)

	data := sm.GetAllData(5)
	data["a"] = 2

	v, _ := sm.GetData(5, "a")
	assert.Equal(t, 1, v)
	assert.Nil(t, sm.GetAllData(6))
}

func TestUserState_IsReservation(t *testing.T) {
	assert.True(t, StateReserveNotes.IsReservation())
	assert.False(t, StateNotificationSearch.IsReservation())
	assert.False(t, StateNone.IsReservation())
}
