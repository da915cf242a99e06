package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/repository"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type hubFakeClient struct {
	loads   atomic.Int32
	streams atomic.Int32
}

func (c *hubFakeClient) Notifications(context.Context) (*model.NotificationList, error) {
	c.loads.Add(1)
	return &model.NotificationList{UnreadCount: 1, Notifications: []model.Notification{{ID: 1}}}, nil
}
func (c *hubFakeClient) MarkRead(context.Context, int64) error { return nil }
func (c *hubFakeClient) MarkAllRead(context.Context) error     { return nil }
func (c *hubFakeClient) ClearAll(context.Context) error        { return nil }

func (c *hubFakeClient) Stream(ctx context.Context, _ func(model.StreamEvent)) error {
	c.streams.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func silentOutput(int64) (toast.Presenter, toast.Cues, notify.View) {
	return toast.NewLogPresenter(zap.NewNop()), nil, nil
}

func TestNotificationHub_StartStop(t *testing.T) {
	hub := NewNotificationHub(HubOptions{PollInterval: time.Hour, StreamEnabled: true}, silentOutput, zap.NewNop())
	client := &hubFakeClient{}
	session := &model.ChatSession{ChatID: 7}

	center := hub.Start(context.Background(), session, client)
	require.Eventually(t, func() bool { return client.loads.Load() == 1 && client.streams.Load() == 1 }, time.Second, time.Millisecond)

	got, ok := hub.Center(7)
	require.True(t, ok)
	assert.Same(t, center, got)
	assert.Equal(t, 1, hub.Running())
	require.Eventually(t, func() bool { return center.Snapshot().Loaded }, time.Second, time.Millisecond)

	hub.Stop(7)
	_, ok = hub.Center(7)
	assert.False(t, ok)
	assert.Zero(t, hub.Running())
}

func TestNotificationHub_RestartReplacesCenter(t *testing.T) {
	hub := NewNotificationHub(HubOptions{PollInterval: time.Hour}, silentOutput, zap.NewNop())
	session := &model.ChatSession{ChatID: 7}

	first := hub.Start(context.Background(), session, &hubFakeClient{})
	second := hub.Start(context.Background(), session, &hubFakeClient{})
	attached := hub.Attach(session, &hubFakeClient{})

	assert.NotSame(t, first, second)
	got, ok := hub.Center(7)
	require.True(t, ok)
	assert.Same(t, attached, got)
	assert.Equal(t, 1, hub.Running())

	hub.StopAll()
	assert.Zero(t, hub.Running())
}

func TestNotificationHub_StartOutlivesRequestContext(t *testing.T) {
	hub := NewNotificationHub(HubOptions{PollInterval: 5 * time.Millisecond}, silentOutput, zap.NewNop())
	client := &hubFakeClient{}

	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx, &model.ChatSession{ChatID: 1}, client)
	cancel()

	require.Eventually(t, func() bool { return client.loads.Load() >= 3 }, time.Second, time.Millisecond)
	hub.StopAll()
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*model.ChatSession
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[int64]*model.ChatSession)}
}

func (m *memoryStore) Upsert(_ context.Context, s *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ChatID] = &cp
	return nil
}

func (m *memoryStore) GetByChatID(_ context.Context, chatID int64) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryStore) ListWithNotifications(context.Context) ([]*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatSession
	for _, s := range m.sessions {
		if s.NotificationsEnabled {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryStore) update(chatID int64, fn func(*model.ChatSession)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	fn(s)
	return nil
}

func (m *memoryStore) UpdateLabFilter(_ context.Context, chatID int64, lab string) error {
	return m.update(chatID, func(s *model.ChatSession) { s.LabFilter = lab })
}

func (m *memoryStore) SetNotifications(_ context.Context, chatID int64, enabled bool) error {
	return m.update(chatID, func(s *model.ChatSession) { s.NotificationsEnabled = enabled })
}

func (m *memoryStore) UpdateCredentials(_ context.Context, chatID int64, cookie, csrf string) error {
	return m.update(chatID, func(s *model.ChatSession) { s.SessionCookie, s.CSRFToken = cookie, csrf })
}

func (m *memoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.sessions, chatID)
	m.mu.Unlock()
	return nil
}

func labServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<input name="csrf_token" value="csrf-1">`)
			return
		}
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "secret" {
			fmt.Fprint(w, `<input name="csrf_token" value="csrf-1">`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err != nil || ck.Value != "abc" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		fmt.Fprint(w, `{"notifications":[],"unread_count":0}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSessionService(t *testing.T, store SessionStore) (*SessionService, *NotificationHub) {
	srv := labServer(t)
	hub := NewNotificationHub(HubOptions{PollInterval: time.Hour}, silentOutput, zap.NewNop())
	t.Cleanup(hub.StopAll)
	svc := NewSessionService(store, hub, ClientOptions{BaseURL: srv.URL, Timeout: time.Second, Location: time.UTC}, zap.NewNop())
	return svc, hub
}

func TestSessionService_LoginLogout(t *testing.T) {
	store := newMemoryStore()
	svc, hub := newSessionService(t, store)
	ctx := context.Background()

	session, err := svc.Login(ctx, LoginRequest{ChatID: 5, TelegramID: 50, Username: "jcruz", Login: "jcruz", Password: "secret", Role: model.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, "session=abc", session.SessionCookie)
	assert.Equal(t, "csrf-1", session.CSRFToken)
	assert.Equal(t, model.LabFilterAll, session.LabFilter)

	_, ok := hub.Center(5)
	assert.True(t, ok)

	stored, client, err := svc.Session(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstructor, stored.Role)
	_, err = client.Notifications(ctx)
	assert.NoError(t, err)

	require.NoError(t, svc.SetLabFilter(ctx, 5, "2"))
	stored, _, err = svc.Session(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "2", stored.LabFilter)

	require.NoError(t, svc.Logout(ctx, 5))
	_, _, err = svc.Session(ctx, 5)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, ok = hub.Center(5)
	assert.False(t, ok)
}

func TestSessionService_LoginFailed(t *testing.T) {
	store := newMemoryStore()
	svc, hub := newSessionService(t, store)

	_, err := svc.Login(context.Background(), LoginRequest{ChatID: 5, Login: "jcruz", Password: "wrong"})
	require.Error(t, err)
	assert.Empty(t, store.sessions)
	assert.Zero(t, hub.Running())
}

func TestSessionService_RestoreAllUsesStoredCookie(t *testing.T) {
	store := newMemoryStore()
	store.sessions[1] = &model.ChatSession{ChatID: 1, SessionCookie: "session=abc", NotificationsEnabled: true}
	store.sessions[2] = &model.ChatSession{ChatID: 2, SessionCookie: "session=abc", NotificationsEnabled: false}
	svc, hub := newSessionService(t, store)
	ctx := context.Background()

	started, err := svc.RestoreAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, started)

	center, ok := hub.Center(1)
	require.True(t, ok)
	require.Eventually(t, func() bool { return center.Snapshot().Loaded }, time.Second, time.Millisecond)

	// выключенные уведомления: центр без источников по запросу
	idle, err := svc.Notifications(ctx, 2)
	require.NoError(t, err)
	assert.False(t, idle.Snapshot().Loaded)
	require.NoError(t, idle.Refresh(ctx))
	assert.True(t, idle.Snapshot().Loaded)
}

func TestSessionService_SetNotifications(t *testing.T) {
	store := newMemoryStore()
	store.sessions[1] = &model.ChatSession{ChatID: 1, SessionCookie: "session=abc", NotificationsEnabled: true}
	svc, hub := newSessionService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.SetNotifications(ctx, 1, false))
	assert.False(t, store.sessions[1].NotificationsEnabled)
	_, ok := hub.Center(1)
	assert.True(t, ok, "idle center stays available")

	require.NoError(t, svc.SetNotifications(ctx, 1, true))
	assert.True(t, store.sessions[1].NotificationsEnabled)

	assert.ErrorIs(t, svc.SetNotifications(ctx, 99, true), ErrNotLoggedIn)
}
