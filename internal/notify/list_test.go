package notify

import (
	"testing"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	items := []model.Notification{notification(1, false), notification(2, true), notification(3, false)}

	tests := []struct {
		kind FilterKind
		want []int64
	}{
		{FilterAll, []int64{1, 2, 3}},
		{FilterUnread, []int64{1, 3}},
		{FilterRead, []int64{2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(items, tt.kind)))
		})
	}
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterRead, ParseFilter("read"))
	assert.Equal(t, FilterAll, ParseFilter("starred"))
}

func TestSearch(t *testing.T) {
	items := []model.Notification{
		{ID: 1, Title: "Reservation Approved", Message: "Computer Lab 1"},
		{ID: 2, Title: "Reservation Rejected", Message: "Network Lab"},
	}
	assert.Equal(t, []int64{2}, ids(Search(items, "REJECT")))
	assert.Equal(t, []int64{1}, ids(Search(items, "computer")))
	assert.Equal(t, []int64{1, 2}, ids(Search(items, "  ")))
	assert.Empty(t, Search(items, "printer"))
}

func TestDropdown(t *testing.T) {
	var items []model.Notification
	for i := 1; i <= 7; i++ {
		items = append(items, notification(int64(i), false))
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(Dropdown(items)))
	assert.Len(t, Dropdown(items[:2]), 2)
}

func ids(items []model.Notification) []int64 {
	out := make([]int64, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}
