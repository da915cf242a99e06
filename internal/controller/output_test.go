package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessenger struct {
	edits   []*bot.EditMessageTextParams
	editErr error
}

func (f *fakeMessenger) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	return &models.Message{ID: 1}, nil
}

func (f *fakeMessenger) SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error) {
	return true, nil
}

func (f *fakeMessenger) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	f.edits = append(f.edits, params)
	return &models.Message{ID: params.MessageID}, f.editErr
}

func snapshot() notify.Snapshot {
	return notify.Snapshot{
		Items: []model.Notification{{
			ID:        7,
			Title:     "Reservation approved",
			Message:   "Networking, Monday 09:00",
			CreatedAt: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
		}},
		Unread:     1,
		ListUnread: 1,
		Loaded:     true,
	}
}

func renderWith(m *fakeMessenger, screens *common.ScreenRegistry) {
	now := func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	_, _, view := NewChatOutput(m, screens, now, zap.NewNop())(42)
	view.Render(context.Background(), snapshot())
}

func TestChatOutput_NoScreenNoEdit(t *testing.T) {
	m := &fakeMessenger{}
	renderWith(m, common.NewScreenRegistry())

	assert.Empty(t, m.edits)
}

func TestChatOutput_EditsRegisteredMessage(t *testing.T) {
	m := &fakeMessenger{}
	screens := common.NewScreenRegistry()
	screens.SetNotificationsMessage(42, callbacktypes.NotificationsScreen{MessageID: 100})

	renderWith(m, screens)

	require.Len(t, m.edits, 1)
	assert.Equal(t, 100, m.edits[0].MessageID)
	assert.Equal(t, models.ParseModeHTML, m.edits[0].ParseMode)
	assert.Contains(t, m.edits[0].Text, "Reservation approved")
}

func TestChatOutput_ForgetsDeletedMessage(t *testing.T) {
	m := &fakeMessenger{editErr: errors.New("bad request, Bad Request: message to edit not found")}
	screens := common.NewScreenRegistry()
	screens.SetNotificationsMessage(42, callbacktypes.NotificationsScreen{MessageID: 100})

	renderWith(m, screens)

	_, ok := screens.NotificationsMessage(42)
	assert.False(t, ok)
}

func TestChatOutput_KeepsScreenWhenNotModified(t *testing.T) {
	m := &fakeMessenger{editErr: errors.New("bad request, Bad Request: message is not modified")}
	screens := common.NewScreenRegistry()
	screens.SetNotificationsMessage(42, callbacktypes.NotificationsScreen{MessageID: 100, Filter: "unread"})

	renderWith(m, screens)

	screen, ok := screens.NotificationsMessage(42)
	require.True(t, ok)
	assert.Equal(t, "unread", screen.Filter)
}
