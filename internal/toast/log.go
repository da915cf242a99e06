package toast

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogPresenter пишет тосты в лог; для консольных команд
type LogPresenter struct {
	logger *zap.Logger
}

func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) Show(_ context.Context, t Toast) {
	p.logger.Check(levelFor(t.Level), t.Text).Write(zap.String("toast", string(t.Level)), zap.String("title", t.Title))
}

func (p *LogPresenter) Loading(context.Context) func() {
	started := time.Now()
	p.logger.Debug("Loading started")

	var once sync.Once
	return func() {
		once.Do(func() {
			p.logger.Debug("Loading finished", zap.Duration("took", time.Since(started)))
		})
	}
}

func (p *LogPresenter) Desktop(_ context.Context, n model.Notification, audible bool) {
	p.logger.Info("New notification",
		zap.Int64("notification_id", n.ID),
		zap.String("title", n.Title),
		zap.Bool("audible", audible))
}

func (p *LogPresenter) Chime(context.Context) {
	p.logger.Debug("Chime")
}

func levelFor(l Level) zapcore.Level {
	switch l {
	case LevelDanger:
		return zapcore.ErrorLevel
	case LevelWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
