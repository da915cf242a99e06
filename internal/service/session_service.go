package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/repository"
	"go.uber.org/zap"
)

// ErrNotLoggedIn в чате нет активной сессии сервера лабораторий
var ErrNotLoggedIn = errors.New("chat is not logged in")

// SessionStore хранилище сессий чатов
type SessionStore interface {
	Upsert(ctx context.Context, s *model.ChatSession) error
	GetByChatID(ctx context.Context, chatID int64) (*model.ChatSession, error)
	ListWithNotifications(ctx context.Context) ([]*model.ChatSession, error)
	UpdateLabFilter(ctx context.Context, chatID int64, labFilter string) error
	SetNotifications(ctx context.Context, chatID int64, enabled bool) error
	UpdateCredentials(ctx context.Context, chatID int64, cookie, csrf string) error
	Delete(ctx context.Context, chatID int64) error
}

type ClientOptions struct {
	BaseURL  string
	Timeout  time.Duration
	Location *time.Location
}

// LoginRequest вход из команды /login
type LoginRequest struct {
	ChatID     int64
	TelegramID int64
	Username   string
	Login      string
	Password   string
	Role       model.Role
}

// SessionService связывает чаты с клиентами сервера лабораторий
type SessionService struct {
	store  SessionStore
	hub    *NotificationHub
	opts   ClientOptions
	logger *zap.Logger

	mu      sync.Mutex
	clients map[int64]*labapi.Client
}

func NewSessionService(store SessionStore, hub *NotificationHub, opts ClientOptions, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:   store,
		hub:     hub,
		opts:    opts,
		logger:  logger,
		clients: make(map[int64]*labapi.Client),
	}
}

func (s *SessionService) newClient(cookie, csrf string) (*labapi.Client, error) {
	return labapi.NewClient(labapi.Options{
		BaseURL:       s.opts.BaseURL,
		HTTPClient:    &http.Client{Timeout: s.opts.Timeout},
		Location:      s.opts.Location,
		SessionCookie: cookie,
		CSRFToken:     csrf,
		Logger:        s.logger,
	})
}

// Login входит на сервер и сохраняет сессию; уведомления запускаются сразу
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*model.ChatSession, error) {
	client, err := s.newClient("", "")
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, req.Login, req.Password); err != nil {
		return nil, err
	}

	session := &model.ChatSession{
		ChatID:               req.ChatID,
		TelegramID:           req.TelegramID,
		Username:             req.Username,
		Role:                 req.Role,
		SessionCookie:        client.Session(),
		CSRFToken:            client.CSRFToken(),
		LabFilter:            model.LabFilterAll,
		NotificationsEnabled: true,
	}
	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.clients[req.ChatID] = client
	s.mu.Unlock()

	if session.NotificationsEnabled {
		s.hub.Start(ctx, session, client)
	}

	s.logger.Info("Chat logged in",
		zap.Int64("chat_id", req.ChatID),
		zap.String("login", req.Login),
		zap.String("role", string(req.Role)))
	return session, nil
}

// Logout завершает сессию на сервере (ошибка сервера не мешает выходу) и удаляет её
func (s *SessionService) Logout(ctx context.Context, chatID int64) error {
	s.hub.Stop(chatID)

	s.mu.Lock()
	client, ok := s.clients[chatID]
	delete(s.clients, chatID)
	s.mu.Unlock()

	if ok {
		if err := client.Logout(ctx); err != nil {
			s.logger.Warn("Lab server logout failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	if err := s.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("Chat logged out", zap.Int64("chat_id", chatID))
	return nil
}

// Session возвращает сохранённую сессию чата и её клиента
func (s *SessionService) Session(ctx context.Context, chatID int64) (*model.ChatSession, *labapi.Client, error) {
	session, err := s.store.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil, ErrNotLoggedIn
		}
		return nil, nil, err
	}

	client, err := s.client(session)
	if err != nil {
		return nil, nil, err
	}
	return session, client, nil
}

func (s *SessionService) client(session *model.ChatSession) (*labapi.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[session.ChatID]; ok {
		return client, nil
	}
	client, err := s.newClient(session.SessionCookie, session.CSRFToken)
	if err != nil {
		return nil, err
	}
	s.clients[session.ChatID] = client
	return client, nil
}

// Persist сохраняет cookie и CSRF токен клиента после обращения к форме
func (s *SessionService) Persist(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	client, ok := s.clients[chatID]
	s.mu.Unlock()
	if !ok {
		return ErrNotLoggedIn
	}
	return s.store.UpdateCredentials(ctx, chatID, client.Session(), client.CSRFToken())
}

// PersistAll сохраняет учётные данные всех открытых клиентов; сервер может обновлять cookie
func (s *SessionService) PersistAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	saved := 0
	var errs []error
	for _, id := range ids {
		if err := s.Persist(ctx, id); err != nil {
			if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, repository.ErrSessionNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

func (s *SessionService) SetLabFilter(ctx context.Context, chatID int64, labFilter string) error {
	if labFilter == "" {
		labFilter = model.LabFilterAll
	}
	return s.store.UpdateLabFilter(ctx, chatID, labFilter)
}

// SetNotifications включает или выключает фоновые уведомления чата
func (s *SessionService) SetNotifications(ctx context.Context, chatID int64, enabled bool) error {
	session, client, err := s.Session(ctx, chatID)
	if err != nil {
		return err
	}
	if err := s.store.SetNotifications(ctx, chatID, enabled); err != nil {
		return err
	}
	if enabled {
		s.hub.Start(ctx, session, client)
	} else {
		s.hub.Attach(session, client)
	}
	return nil
}

// Notifications центр уведомлений чата; если фоновые уведомления выключены,
// регистрируется центр без источников
func (s *SessionService) Notifications(ctx context.Context, chatID int64) (*notify.Center, error) {
	if center, ok := s.hub.Center(chatID); ok {
		return center, nil
	}
	session, client, err := s.Session(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.hub.Attach(session, client), nil
}

// RestoreAll запускает уведомления всех сохранённых сессий, возвращает число запущенных
func (s *SessionService) RestoreAll(ctx context.Context) (int, error) {
	sessions, err := s.store.ListWithNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	started := 0
	for _, session := range sessions {
		client, err := s.client(session)
		if err != nil {
			s.logger.Warn("Skipping session restore", zap.Int64("chat_id", session.ChatID), zap.Error(err))
			continue
		}
		s.hub.Start(ctx, session, client)
		started++
	}
	return started, nil
}
