package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleGrid() *schedule.WeekGrid {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
	}
	events := []model.Event{
		{ID: 1, Title: "Networking - BSIT 2A", Start: at(10, 9, 0), End: at(10, 10, 0), Status: model.EventStatusApproved},
		{ID: 2, Title: "Databases - BSIT 3B", Start: at(11, 13, 0), End: at(11, 14, 0), Status: model.EventStatusPending},
		{ID: 3, Title: "Overlap - X", Start: at(11, 13, 30), End: at(11, 14, 30), Status: model.EventStatusApproved},
	}
	return schedule.Build(events, at(12, 12, 0))
}

func TestCellText(t *testing.T) {
	grid := sampleGrid()
	day := func(d int) time.Time { return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		day  time.Time
		slot schedule.TimeSlot
		want string
	}{
		{"reserved", day(10), schedule.TimeSlot{Hour: 9, Minute: 0}, "Networking"},
		{"pending", day(11), schedule.TimeSlot{Hour: 13, Minute: 0}, "Databases"},
		{"conflict", day(11), schedule.TimeSlot{Hour: 13, Minute: 30}, "Конфликт (2)"},
		{"available", day(12), schedule.TimeSlot{Hour: 8, Minute: 0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := grid.Cell(tt.day, tt.slot)
			require.True(t, ok)
			assert.Equal(t, tt.want, CellText(cell))
		})
	}
}

func TestFilename(t *testing.T) {
	grid := sampleGrid()
	assert.Equal(t, "schedule-2024-06-10.xlsx", Filename(grid.Window, FormatXLSX))
}

func TestHexRGB(t *testing.T) {
	r, g, b := hexRGB("#F8D7DA")
	assert.Equal(t, []int{248, 215, 218}, []int{r, g, b})
}

func TestWeekXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WeekXLSX(&buf, sampleGrid(), "Computer Lab 1"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Computer Lab 1: 10.06.2024 - 16.06.2024", title)

	monday, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Пн 10.06", monday)

	// 09:00 - третий слот, строка 5
	slot, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "09:00", slot)

	cell, err := f.GetCellValue(sheetName, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Networking", cell)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2+schedule.SlotsPerDay)
}

func TestWeekPDF(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, time.June, 12, 15, 0, 0, 0, time.UTC)

	require.NoError(t, WeekPDF(&buf, sampleGrid(), "Computer Lab 1", generated))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}
