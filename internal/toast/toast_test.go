package toast

import (
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*bot.SendMessageParams
	actions  []models.ChatAction
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, params)
	return &models.Message{ID: len(f.messages)}, nil
}

func (f *fakeSender) SendChatAction(_ context.Context, params *bot.SendChatActionParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, params.Action)
	return true, nil
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		toast Toast
		want  string
	}{
		{"success", Success("Готово"), "✅ Готово"},
		{"danger escapes", Danger("a <b> & c"), "❌ a &lt;b&gt; &amp; c"},
		{"with title", Toast{Level: LevelInfo, Title: "Уведомления", Text: "Нет новых"}, "ℹ️ <b>Уведомления</b>\nНет новых"},
		{"unknown level", Toast{Level: "other", Text: "x"}, "ℹ️ x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.toast))
		})
	}
}

func TestTelegramPresenter_ShowIsSilent(t *testing.T) {
	sender := &fakeSender{}
	p := NewTelegramPresenter(sender, 42, zap.NewNop())

	p.Show(context.Background(), Warning("Сервер недоступен"))

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.True(t, msg.DisableNotification)
	assert.Equal(t, models.ParseModeHTML, msg.ParseMode)
}

func TestTelegramPresenter_Loading(t *testing.T) {
	sender := &fakeSender{}
	p := NewTelegramPresenter(sender, 42, zap.NewNop()).WithAction(models.ChatActionUploadPhoto)

	done := p.Loading(context.Background())
	done()
	done()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.NotEmpty(t, sender.actions)
	assert.Equal(t, models.ChatActionUploadPhoto, sender.actions[0])
}

func TestTelegramPresenter_DesktopHasMarkReadButton(t *testing.T) {
	sender := &fakeSender{}
	p := NewTelegramPresenter(sender, 42, zap.NewNop())

	p.Desktop(context.Background(), model.Notification{ID: 17, Title: "Reservation Approved", Message: "Lab 1"}, true)

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.False(t, msg.DisableNotification)
	kb, ok := msg.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "ntf:read:17", kb.InlineKeyboard[0][0].CallbackData)
}

func TestTelegramPresenter_DesktopWithoutIDHasNoButton(t *testing.T) {
	sender := &fakeSender{}
	p := NewTelegramPresenter(sender, 42, zap.NewNop())

	p.Desktop(context.Background(), model.Notification{Title: "Новое уведомление"}, false)

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.True(t, msg.DisableNotification)
	assert.Nil(t, msg.ReplyMarkup)
	assert.Equal(t, "🔔 <b>Новое уведомление</b>", msg.Text)
}

func TestLogPresenter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewLogPresenter(zap.New(core))
	ctx := context.Background()

	p.Show(ctx, Danger("fetch failed"))
	p.Show(ctx, Success("ok"))
	done := p.Loading(ctx)
	done()
	done()

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "fetch failed", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "Loading finished", entries[3].Message)
}
