package schedule

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClick(t *testing.T) {
	events := []model.Event{event(1, at(12, 9, 0), at(12, 10, 0), model.EventStatusApproved)}
	grid := Build(events, at(12, 0, 0))

	free, _ := grid.Cell(at(12, 0, 0), TimeSlot{14, 0})
	busy, _ := grid.Cell(at(12, 0, 0), TimeSlot{9, 30})

	t.Run("instructor on available slot reserves", func(t *testing.T) {
		action := Click(free, model.RoleInstructor)
		assert.Equal(t, ActionReserve, action.Kind)
		assert.Equal(t, at(12, 14, 0), action.Start)
		assert.Equal(t, at(12, 14, 30), action.End)
	})

	t.Run("student on available slot sees detail", func(t *testing.T) {
		action := Click(free, model.RoleStudent)
		assert.Equal(t, ActionDetail, action.Kind)
		assert.True(t, action.Detail.Available())
	})

	t.Run("instructor on reserved slot sees detail", func(t *testing.T) {
		action := Click(busy, model.RoleInstructor)
		require.Equal(t, ActionDetail, action.Kind)
		require.Len(t, action.Detail.Events, 1)

		d := action.Detail.Events[0]
		assert.Equal(t, "J. Cruz", d.Instructor)
		assert.Equal(t, "Computer Lab 1", d.Lab)
		assert.Equal(t, time.Hour, d.Duration)
		assert.Equal(t, model.EventStatusApproved, d.Status)
	})

	t.Run("admin never reserves", func(t *testing.T) {
		assert.Equal(t, ActionDetail, Click(free, model.RoleAdmin).Kind)
	})
}

func TestDayList(t *testing.T) {
	events := []model.Event{
		event(1, at(12, 14, 0), at(12, 15, 0), model.EventStatusApproved),
		event(2, at(12, 9, 0), at(12, 10, 0), model.EventStatusPending),
		event(3, at(16, 7, 0), at(16, 8, 0), model.EventStatusApproved), // вне дневного окна, но в тот же день
		event(4, at(20, 9, 0), at(20, 10, 0), model.EventStatusApproved), // следующая неделя
	}

	agenda := DayList(events, NewWeekWindow(at(12, 0, 0)))

	require.Len(t, agenda, 7)
	require.Len(t, agenda[2].Events, 2)
	assert.Equal(t, int64(2), agenda[2].Events[0].ID)
	assert.Equal(t, int64(1), agenda[2].Events[1].ID)
	require.Len(t, agenda[6].Events, 1)
	assert.Equal(t, int64(3), agenda[6].Events[0].ID)
	assert.Empty(t, agenda[0].Events)
}
