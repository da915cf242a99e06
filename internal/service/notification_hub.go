package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"go.uber.org/zap"
)

// HubClient клиент сервера, нужный центру уведомлений
type HubClient interface {
	notify.API
	notify.Subscriber
}

// ChatOutput куда центр уведомлений чата выводит тосты, сигналы и список
type ChatOutput func(chatID int64) (toast.Presenter, toast.Cues, notify.View)

type HubOptions struct {
	PollInterval     time.Duration
	StreamEnabled    bool
	StreamMaxRetries uint64
	Center           notify.Options
}

type hubEntry struct {
	center *notify.Center
	cancel context.CancelFunc
	done   chan struct{}
}

// NotificationHub держит запущенный центр уведомлений для каждого чата с включёнными уведомлениями
type NotificationHub struct {
	opts   HubOptions
	output ChatOutput
	logger *zap.Logger

	mu      sync.Mutex
	running map[int64]*hubEntry
}

func NewNotificationHub(opts HubOptions, output ChatOutput, logger *zap.Logger) *NotificationHub {
	return &NotificationHub{
		opts:    opts,
		output:  output,
		logger:  logger,
		running: make(map[int64]*hubEntry),
	}
}

// Start запускает опрос (и поток, если включён) для сессии; уже запущенный центр перезапускается
func (h *NotificationHub) Start(ctx context.Context, session *model.ChatSession, client HubClient) *notify.Center {
	presenter, cues, view := h.output(session.ChatID)
	logger := h.logger.With(zap.Int64("chat_id", session.ChatID))
	center := notify.NewCenter(client, presenter, cues, view, h.opts.Center, logger)

	// источники живут дольше запроса, который их запустил
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	entry := &hubEntry{center: center, cancel: cancel, done: make(chan struct{})}

	sources := []notify.Source{notify.PollSource{Interval: h.opts.PollInterval, Logger: logger}}
	if h.opts.StreamEnabled {
		sources = append(sources, notify.StreamSource{
			Subscriber: client,
			MaxRetries: h.opts.StreamMaxRetries,
			Logger:     logger,
		})
	}

	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src notify.Source) {
			defer wg.Done()
			src.Run(runCtx, center)
		}(src)
	}
	go func() {
		wg.Wait()
		close(entry.done)
	}()

	h.replace(session.ChatID, entry)

	logger.Info("Notification center started", zap.Bool("stream", h.opts.StreamEnabled))
	return center
}

// Attach регистрирует центр без фоновых источников: список обновляется только по запросу
func (h *NotificationHub) Attach(session *model.ChatSession, client HubClient) *notify.Center {
	presenter, cues, view := h.output(session.ChatID)
	center := notify.NewCenter(client, presenter, cues, view, h.opts.Center,
		h.logger.With(zap.Int64("chat_id", session.ChatID)))

	done := make(chan struct{})
	close(done)

	h.replace(session.ChatID, &hubEntry{center: center, cancel: func() {}, done: done})
	return center
}

// replace ставит новый центр чата и останавливает предыдущий
func (h *NotificationHub) replace(chatID int64, entry *hubEntry) {
	h.mu.Lock()
	prev, ok := h.running[chatID]
	h.running[chatID] = entry
	h.mu.Unlock()

	if ok {
		prev.cancel()
		<-prev.done
	}
}

// Stop останавливает центр чата и ждёт завершения источников
func (h *NotificationHub) Stop(chatID int64) {
	h.mu.Lock()
	entry, ok := h.running[chatID]
	delete(h.running, chatID)
	h.mu.Unlock()

	if !ok {
		return
	}
	entry.cancel()
	<-entry.done
	h.logger.Info("Notification center stopped", zap.Int64("chat_id", chatID))
}

// Center центр уведомлений чата, если он запущен
func (h *NotificationHub) Center(chatID int64) (*notify.Center, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.running[chatID]
	if !ok {
		return nil, false
	}
	return entry.center, true
}

func (h *NotificationHub) Running() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.running)
}

func (h *NotificationHub) StopAll() {
	h.mu.Lock()
	ids := make([]int64, 0, len(h.running))
	for id := range h.running {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.Stop(id)
	}
}
