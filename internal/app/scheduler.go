package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"go.uber.org/zap"
)

const credentialsSyncInterval = 10 * time.Minute

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions *service.SessionService
	hub      *service.NotificationHub
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sessions *service.SessionService, hub *service.NotificationHub, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sessions: sessions,
		hub:      hub,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start восстанавливает уведомления сохранённых сессий и запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	started, err := s.sessions.RestoreAll(ctx)
	if err != nil {
		s.logger.Error("Failed to restore notification centers", zap.Error(err))
	} else {
		s.logger.Info("Notification centers restored", zap.Int("sessions", started))
	}

	go s.runCredentialsSync(ctx)
}

// Stop останавливает фоновые задачи и все центры уведомлений
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done

	s.hub.StopAll()
	s.syncCredentials(ctx)
}

// runCredentialsSync периодически сохраняет обновлённые cookie сессий
func (s *Scheduler) runCredentialsSync(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(credentialsSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncCredentials(ctx)
		case <-s.stopChan:
			s.logger.Info("Credentials sync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Credentials sync task cancelled")
			return
		}
	}
}

func (s *Scheduler) syncCredentials(ctx context.Context) {
	saved, err := s.sessions.PersistAll(ctx)
	if err != nil {
		s.logger.Error("Failed to save session credentials", zap.Error(err))
	}
	s.logger.Debug("Session credentials saved", zap.Int("sessions", saved))
}
