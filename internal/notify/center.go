package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"go.uber.org/zap"
)

// API эндпоинты уведомлений сервера лабораторий
type API interface {
	Notifications(ctx context.Context) (*model.NotificationList, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// View отображает состояние центра. Вызывается после каждого изменения.
type View interface {
	Render(ctx context.Context, s Snapshot)
}

// ViewFunc адаптер функции к View
type ViewFunc func(ctx context.Context, s Snapshot)

func (f ViewFunc) Render(ctx context.Context, s Snapshot) { f(ctx, s) }

// Snapshot копия состояния центра
type Snapshot struct {
	Items []model.Notification
	// Unread локальный счётчик: меняется оптимистично и сверяется при каждой загрузке
	Unread int
	// ServerUnread unread_count последней успешной загрузки
	ServerUnread int
	// ListUnread число непрочитанных среди отображаемых элементов
	ListUnread int
	Loaded     bool
}

// Drift расхождение локального счётчика с последним значением сервера
func (s Snapshot) Drift() int {
	return s.Unread - s.ServerUnread
}

type Options struct {
	Desktop bool
	Sound   bool
}

// Center состояние списка уведомлений одного пользователя.
// Безопасен для одновременных вызовов из опроса, потока и обработчиков кнопок.
type Center struct {
	api       API
	presenter toast.Presenter
	cues      toast.Cues
	view      View
	opts      Options
	logger    *zap.Logger

	mu           sync.Mutex
	items        []model.Notification
	unread       int
	serverUnread int
	loaded       bool
}

func NewCenter(api API, presenter toast.Presenter, cues toast.Cues, view View, opts Options, logger *zap.Logger) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		api:       api,
		presenter: presenter,
		cues:      cues,
		view:      view,
		opts:      opts,
		logger:    logger,
	}
}

// Reload загружает список заново и выставляет счётчик равным unread_count сервера.
// Ошибка только логируется, прежнее состояние сохраняется.
func (c *Center) Reload(ctx context.Context) error {
	list, err := c.api.Notifications(ctx)
	if err != nil {
		c.logger.Warn("Failed to load notifications", zap.Error(err))
		return fmt.Errorf("load notifications: %w", err)
	}

	c.mu.Lock()
	c.items = list.Notifications
	c.unread = max(0, list.UnreadCount)
	c.serverUnread = list.UnreadCount
	c.loaded = true
	c.mu.Unlock()

	c.render(ctx)
	return nil
}

// Refresh перезагрузка по запросу пользователя: ошибка показывается тостом
func (c *Center) Refresh(ctx context.Context) error {
	done := c.presenter.Loading(ctx)
	err := c.Reload(ctx)
	done()
	if err != nil {
		c.presenter.Show(ctx, toast.Danger("Не удалось загрузить уведомления"))
	}
	return err
}

// MarkRead отмечает уведомление прочитанным. Счётчик уменьшается ровно на один,
// даже если уведомление уже было прочитано.
func (c *Center) MarkRead(ctx context.Context, id int64) error {
	if err := c.api.MarkRead(ctx, id); err != nil {
		c.logger.Warn("Failed to mark notification as read", zap.Int64("notification_id", id), zap.Error(err))
		c.presenter.Show(ctx, toast.Danger("Не удалось отметить уведомление"))
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsRead = true
		}
	}
	c.unread = max(0, c.unread-1)
	c.mu.Unlock()

	c.presenter.Show(ctx, toast.Success("Уведомление отмечено как прочитанное"))
	c.render(ctx)
	return nil
}

// MarkAllRead при нулевом счётчике только сообщает, что непрочитанных нет
func (c *Center) MarkAllRead(ctx context.Context) error {
	if c.Snapshot().Unread == 0 {
		c.presenter.Show(ctx, toast.Info("Нет непрочитанных уведомлений"))
		return nil
	}

	if err := c.api.MarkAllRead(ctx); err != nil {
		c.logger.Warn("Failed to mark all notifications as read", zap.Error(err))
		c.presenter.Show(ctx, toast.Danger("Не удалось отметить уведомления"))
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	c.mu.Lock()
	for i := range c.items {
		c.items[i].IsRead = true
	}
	c.unread = 0
	c.mu.Unlock()

	c.presenter.Show(ctx, toast.Success("Все уведомления отмечены как прочитанные"))
	c.render(ctx)
	return nil
}

// ClearAll удаляет все уведомления на сервере и очищает список
func (c *Center) ClearAll(ctx context.Context) error {
	if err := c.api.ClearAll(ctx); err != nil {
		c.logger.Warn("Failed to clear notifications", zap.Error(err))
		c.presenter.Show(ctx, toast.Danger("Не удалось очистить уведомления"))
		return fmt.Errorf("clear notifications: %w", err)
	}

	c.mu.Lock()
	c.items = nil
	c.unread = 0
	c.mu.Unlock()

	c.presenter.Show(ctx, toast.Success("Все уведомления удалены"))
	c.render(ctx)
	return nil
}

// Push обрабатывает событие потока. Содержимое события в список не добавляется:
// порядок определяет последующая загрузка.
func (c *Center) Push(ctx context.Context, ev model.StreamEvent) error {
	if ev.Type != model.StreamEventNewNotification {
		return nil
	}

	n := model.Notification{Title: "Новое уведомление"}
	if ev.Notification != nil {
		n = *ev.Notification
	}

	if c.cues != nil && c.opts.Desktop {
		// карточка заменяет тост, звук в ней же
		c.cues.Desktop(ctx, n, c.opts.Sound)
	} else {
		c.presenter.Show(ctx, toast.Toast{Level: toast.LevelInfo, Title: n.Title, Text: n.Message})
		if c.cues != nil && c.opts.Sound {
			c.cues.Chime(ctx)
		}
	}

	c.mu.Lock()
	c.unread++
	c.mu.Unlock()
	c.render(ctx)

	return c.Reload(ctx)
}

func (c *Center) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Notification, len(c.items))
	copy(items, c.items)

	listUnread := 0
	for _, n := range items {
		if !n.IsRead {
			listUnread++
		}
	}

	return Snapshot{
		Items:        items,
		Unread:       c.unread,
		ServerUnread: c.serverUnread,
		ListUnread:   listUnread,
		Loaded:       c.loaded,
	}
}

func (c *Center) render(ctx context.Context) {
	if c.view == nil {
		return
	}
	c.view.Render(ctx, c.Snapshot())
}
