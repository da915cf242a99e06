package common

import (
	"context"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Session    *model.ChatSession
	Client     *labapi.Client
	TelegramID int64
	ChatID     int64
}

func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession загружает сессию чата и клиента сервера лабораторий
func (hc *HandlerContext) LoadSession() error {
	if hc.Message == nil {
		return ErrNoMessage
	}
	session, client, err := hc.Handler.Sessions.Session(hc.Ctx, hc.ChatID)
	if err != nil {
		return err
	}
	hc.Session = session
	hc.Client = client
	return nil
}

// RequireAdmin проверяет что чат вошёл с ролью администратора
func (hc *HandlerContext) RequireAdmin() error {
	if hc.Session == nil {
		if err := hc.LoadSession(); err != nil {
			return err
		}
	}
	if !hc.Session.Role.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// Board доска расписания чата
func (hc *HandlerContext) Board() *service.Board {
	return hc.Handler.Board(hc.Session, hc.Client)
}

func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует текст сообщения с кнопкой
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// "message is not modified" не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}
	return err
}

// ReplaceWithText показывает текстовый экран вместо текущего сообщения.
// Фото нельзя превратить в текст, поэтому отправляется новое сообщение, а старое удаляется.
func (hc *HandlerContext) ReplaceWithText(text string, keyboard *models.InlineKeyboardMarkup) (*models.Message, error) {
	if hc.Message != nil && len(hc.Message.Photo) == 0 {
		if err := hc.EditMessage(text, keyboard); err == nil {
			return hc.Message, nil
		}
	}
	sent, err := hc.SendMessage(text, keyboard)
	if err != nil {
		return nil, err
	}
	hc.DeleteMessage()
	return sent, nil
}

// DeleteMessage удаляет сообщение
func (hc *HandlerContext) DeleteMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})
	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) (*models.Message, error) {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	return hc.Bot.SendMessage(hc.Ctx, params)
}

func (hc *HandlerContext) State() state.UserState {
	return hc.Handler.StateManager.GetState(hc.TelegramID)
}

func (hc *HandlerContext) SetState(s state.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, s)
}

func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}
