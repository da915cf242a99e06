package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
)

var errServer = errors.New("server unavailable")

type fakeAPI struct {
	mu        sync.Mutex
	list      model.NotificationList
	loadErr   error
	actionErr error
	calls     []string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Notifications(context.Context) (*model.NotificationList, error) {
	f.record("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	items := make([]model.Notification, len(f.list.Notifications))
	copy(items, f.list.Notifications)
	return &model.NotificationList{Notifications: items, UnreadCount: f.list.UnreadCount}, nil
}

func (f *fakeAPI) MarkRead(context.Context, int64) error {
	f.record("mark_read")
	return f.actionErr
}

func (f *fakeAPI) MarkAllRead(context.Context) error {
	f.record("mark_all_read")
	return f.actionErr
}

func (f *fakeAPI) ClearAll(context.Context) error {
	f.record("clear_all")
	return f.actionErr
}

type fakePresenter struct {
	mu      sync.Mutex
	toasts  []toast.Toast
	loading int
}

func (p *fakePresenter) Show(_ context.Context, t toast.Toast) {
	p.mu.Lock()
	p.toasts = append(p.toasts, t)
	p.mu.Unlock()
}

func (p *fakePresenter) Loading(context.Context) func() {
	p.mu.Lock()
	p.loading++
	p.mu.Unlock()
	return func() {}
}

func (p *fakePresenter) Levels() []toast.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	levels := make([]toast.Level, 0, len(p.toasts))
	for _, t := range p.toasts {
		levels = append(levels, t.Level)
	}
	return levels
}

type fakeCues struct {
	desktop []int64
	audible []bool
	chimes  int
}

func (c *fakeCues) Desktop(_ context.Context, n model.Notification, audible bool) {
	c.desktop = append(c.desktop, n.ID)
	c.audible = append(c.audible, audible)
}

func (c *fakeCues) Chime(context.Context) { c.chimes++ }

type recordingView struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (v *recordingView) Render(_ context.Context, s Snapshot) {
	v.mu.Lock()
	v.snapshots = append(v.snapshots, s)
	v.mu.Unlock()
}

func (v *recordingView) Last() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshots[len(v.snapshots)-1]
}

func notification(id int64, read bool) model.Notification {
	return model.Notification{ID: id, Title: "Reservation Approved", Message: "Computer Lab 1", IsRead: read}
}

func listOf(unreadCount int, items ...model.Notification) model.NotificationList {
	return model.NotificationList{Notifications: items, UnreadCount: unreadCount}
}
