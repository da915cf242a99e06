package schedule

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC)
}

func event(id int64, start, end time.Time, status model.EventStatus) model.Event {
	return model.Event{
		ID:         id,
		Title:      "Networking - BSIT 2A",
		Instructor: "J. Cruz",
		Lab:        "Computer Lab 1",
		Start:      start,
		End:        end,
		Status:     status,
	}
}

func TestStatusFor(t *testing.T) {
	approved := event(1, at(12, 9, 0), at(12, 10, 0), model.EventStatusApproved)
	pending := event(2, at(12, 9, 0), at(12, 10, 0), model.EventStatusPending)
	rejected := event(3, at(12, 9, 0), at(12, 10, 0), model.EventStatusRejected)

	tests := []struct {
		name   string
		events []model.Event
		want   SlotStatus
	}{
		{"no events", nil, SlotStatusAvailable},
		{"one approved", []model.Event{approved}, SlotStatusReserved},
		{"one pending", []model.Event{pending}, SlotStatusPending},
		{"one not approved", []model.Event{rejected}, SlotStatusPending},
		{"two events", []model.Event{approved, pending}, SlotStatusConflict},
		{"three events", []model.Event{approved, approved, approved}, SlotStatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.events))
		})
	}
}

func TestEventsInSlot_HalfOpen(t *testing.T) {
	e := event(1, at(12, 9, 15), at(12, 9, 45), model.EventStatusApproved)

	assert.Len(t, EventsInSlot([]model.Event{e}, at(12, 9, 0), at(12, 9, 30)), 1)
	assert.Len(t, EventsInSlot([]model.Event{e}, at(12, 9, 30), at(12, 10, 0)), 1)

	// касание границ не считается пересечением
	touching := event(2, at(12, 9, 30), at(12, 10, 0), model.EventStatusApproved)
	assert.Empty(t, EventsInSlot([]model.Event{touching}, at(12, 9, 0), at(12, 9, 30)))
	assert.Empty(t, EventsInSlot([]model.Event{touching}, at(12, 10, 0), at(12, 10, 30)))
}

func TestBuild_EventSpanningTwoSlots(t *testing.T) {
	e := event(1, at(12, 9, 15), at(12, 9, 45), model.EventStatusApproved)
	grid := Build([]model.Event{e}, at(12, 0, 0))

	for _, slot := range []TimeSlot{{9, 0}, {9, 30}} {
		cell, ok := grid.Cell(at(12, 0, 0), slot)
		require.True(t, ok)
		assert.Equal(t, SlotStatusReserved, cell.Status, slot.Label())
		assert.Equal(t, 1, cell.Count)
		assert.Equal(t, "Networking", cell.ShortTitle())
	}

	cell, ok := grid.Cell(at(12, 0, 0), TimeSlot{10, 0})
	require.True(t, ok)
	assert.Equal(t, SlotStatusAvailable, cell.Status)
}

func TestBuild_SlotCountsMatchSpan(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"exactly one slot", at(11, 8, 0), at(11, 8, 30), 1},
		{"inside one slot", at(11, 10, 10), at(11, 10, 20), 1},
		{"aligned hour and half", at(11, 13, 0), at(11, 14, 30), 3},
		{"unaligned", at(11, 13, 15), at(11, 14, 45), 4},
		{"clipped by window end", at(11, 19, 0), at(11, 21, 0), 2},
		{"before the window", at(11, 6, 0), at(11, 7, 30), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Build([]model.Event{event(1, tt.start, tt.end, model.EventStatusApproved)}, tt.start)

			total := 0
			for _, row := range grid.Rows {
				for _, c := range row.Cells {
					total += c.Count
				}
			}
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestBuild_Conflict(t *testing.T) {
	events := []model.Event{
		event(1, at(13, 9, 0), at(13, 11, 0), model.EventStatusApproved),
		event(2, at(13, 10, 0), at(13, 12, 0), model.EventStatusPending),
	}
	grid := Build(events, at(13, 0, 0))

	cell, ok := grid.Cell(at(13, 0, 0), TimeSlot{10, 30})
	require.True(t, ok)
	assert.Equal(t, SlotStatusConflict, cell.Status)
	assert.Equal(t, 2, cell.Count)
	assert.Empty(t, cell.ShortTitle())

	cell, _ = grid.Cell(at(13, 0, 0), TimeSlot{11, 30})
	assert.Equal(t, SlotStatusPending, cell.Status)

	counts := grid.Counts()
	assert.Equal(t, 2, counts[SlotStatusConflict])
	assert.Equal(t, 2, counts[SlotStatusReserved])
	assert.Equal(t, 2, counts[SlotStatusPending])
	assert.Equal(t, SlotsPerDay*DaysInWeek-6, counts[SlotStatusAvailable])
}

func TestBuild_IsPureFunctionOfEvents(t *testing.T) {
	events := []model.Event{event(1, at(14, 8, 0), at(14, 9, 0), model.EventStatusApproved)}

	first := Build(events, at(14, 0, 0))
	second := Build(events, at(10, 0, 0)) // та же неделя, другая опорная дата
	assert.Equal(t, first.Rows, second.Rows)

	empty := Build(nil, at(14, 0, 0))
	assert.Equal(t, SlotsPerDay*DaysInWeek, empty.Counts()[SlotStatusAvailable])
}

func TestGridCell_OutsideWeek(t *testing.T) {
	grid := Build(nil, at(12, 0, 0))

	_, ok := grid.Cell(at(17, 0, 0), TimeSlot{9, 0})
	assert.False(t, ok)

	_, ok = grid.Cell(at(12, 0, 0), TimeSlot{7, 0})
	assert.False(t, ok)

	assert.Len(t, grid.Day(at(12, 0, 0)), SlotsPerDay)
}
