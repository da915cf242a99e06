package notify

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const DefaultPollInterval = 30 * time.Second

// Sink получатель событий источника; реализуется Center
type Sink interface {
	Reload(ctx context.Context) error
	Push(ctx context.Context, ev model.StreamEvent) error
}

// Source доставляет обновления уведомлений до отмены ctx
type Source interface {
	Run(ctx context.Context, sink Sink) error
}

// PollSource перезагружает список сразу и затем с интервалом
type PollSource struct {
	Interval time.Duration
	Logger   *zap.Logger
}

func (s PollSource) Run(ctx context.Context, sink Sink) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// ошибки загрузки уже залогированы центром, опрос продолжается
	_ = sink.Reload(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification polling stopped")
			return ctx.Err()
		case <-ticker.C:
			_ = sink.Reload(ctx)
		}
	}
}

// Subscriber подписка на поток событий сервера (labapi.Client.Stream)
type Subscriber interface {
	Stream(ctx context.Context, handle func(model.StreamEvent)) error
}

// StreamSource читает поток событий. Без MaxRetries первая ошибка или закрытие
// потока завершает подписку; иначе переподключается с экспоненциальной задержкой.
// MaxRetries ограничивает подряд идущие неудачные подключения.
type StreamSource struct {
	Subscriber Subscriber
	MaxRetries uint64
	// InitialInterval первая задержка переподключения, по умолчанию 1s
	InitialInterval time.Duration
	Logger          *zap.Logger
}

func (s StreamSource) Run(ctx context.Context, sink Sink) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// retries сбрасывается после сессии, доставившей хотя бы одно событие
	var retries backoff.BackOff

	subscribe := func() error {
		delivered := false
		err := s.Subscriber.Stream(ctx, func(ev model.StreamEvent) {
			delivered = true
			if err := sink.Push(ctx, ev); err != nil {
				logger.Debug("Reload after push failed", zap.Error(err))
			}
		})
		if delivered && retries != nil {
			retries.Reset()
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errStreamClosed
		}
		return err
	}

	if s.MaxRetries == 0 {
		err := subscribe()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Notification stream stopped", zap.Error(err))
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	if s.InitialInterval > 0 {
		policy.InitialInterval = s.InitialInterval
	}
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		logger.Warn("Notification stream failed, reconnecting",
			zap.Error(err),
			zap.Duration("retry_in", wait))
	}

	retries = backoff.WithMaxRetries(policy, s.MaxRetries)
	err := backoff.RetryNotify(subscribe, backoff.WithContext(retries, ctx), notify)
	if err != nil && ctx.Err() == nil {
		logger.Warn("Notification stream stopped", zap.Error(err))
	}
	return err
}

var errStreamClosed = errors.New("notification stream closed by server")
