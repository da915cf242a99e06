package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) state.UserState
	SetState(telegramID int64, s state.UserState)
	Transition(telegramID int64, from, to state.UserState) bool
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	Draft(telegramID int64) (model.ReservationDraft, bool)
	SetDraft(telegramID int64, draft model.ReservationDraft)
}

// Screens последние отправленные экраны по чатам, нужны для обновления на месте
type Screens interface {
	NotificationsMessage(chatID int64) (NotificationsScreen, bool)
	SetNotificationsMessage(chatID int64, screen NotificationsScreen)
	ForgetNotifications(chatID int64)
}

// NotificationsScreen сообщение со списком уведомлений и его фильтры
type NotificationsScreen struct {
	MessageID int
	Filter    string
	Query     string
}

// Handler содержит общие зависимости для callback handlers и команд
type Handler struct {
	Sessions     *service.SessionService
	Boards       *service.Boards
	Labs         []model.Laboratory
	Location     *time.Location
	StateManager StateManager
	Screens      Screens
	// Presenter тосты и индикатор загрузки для чата
	Presenter func(chatID int64) toast.Presenter
	Now       func() time.Time
	Logger    *zap.Logger
}

// LabName название лаборатории по идентификатору фильтра
func (h *Handler) LabName(labID string) string {
	if labID == "" || labID == model.LabFilterAll {
		return "Все лаборатории"
	}
	for _, lab := range h.Labs {
		if labapi.FormatLabID(lab.ID) == labID {
			return lab.Name
		}
	}
	return "Лаборатория " + labID
}

// Board доска расписания чата; создаётся при первом обращении с фильтром из сессии
func (h *Handler) Board(session *model.ChatSession, api service.ScheduleAPI) *service.Board {
	return h.Boards.Get(session.ChatID, func() *service.Board {
		return service.NewBoard(api, h.Presenter(session.ChatID), session.LabFilter, h.Now,
			h.Logger.With(zap.Int64("chat_id", session.ChatID)))
	})
}
