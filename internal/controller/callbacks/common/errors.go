package common

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNotAdmin      = errors.New("chat role is not admin")
	ErrNotInstructor = errors.New("chat role is not instructor")
	ErrSlotNotFound  = errors.New("slot not found")
	ErrNoDraft       = errors.New("reservation draft expired")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var statusErr *labapi.StatusError
	var actionErr *labapi.ActionError

	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return "🔑 Сначала войдите: /login <логин> <пароль>"
	case errors.Is(err, labapi.ErrUnauthorized):
		return "🔑 Сессия на сервере истекла. Войдите заново: /login"
	case errors.Is(err, labapi.ErrLoginFailed):
		return "❌ Неверный логин или пароль"
	case errors.Is(err, ErrNotAdmin):
		return "⛔ Доступно только администратору"
	case errors.Is(err, ErrNotInstructor):
		return "⛔ Бронировать может только преподаватель"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrSlotNotFound):
		return "❌ Слот не найден, обновите расписание"
	case errors.Is(err, ErrNoDraft):
		return "⌛ Заявка устарела, выберите слот заново"
	case errors.Is(err, context.DeadlineExceeded):
		return "⌛ Сервер лабораторий не ответил вовремя"
	case errors.As(err, &actionErr):
		if actionErr.Message != "" {
			return "❌ " + actionErr.Message
		}
		return "❌ Сервер отклонил действие"
	case errors.As(err, &statusErr):
		switch statusErr.Status {
		case http.StatusForbidden:
			return "⛔ Недостаточно прав на сервере лабораторий"
		case http.StatusNotFound:
			return "❌ Запись не найдена на сервере"
		default:
			return "❌ Сервер лабораторий вернул ошибку"
		}
	default:
		return "❌ Произошла ошибка"
	}
}

// ErrorReason сообщение без значка, для тостов со своим значком
func ErrorReason(err error) string {
	msg := ErrorMessage(err)
	if i := strings.IndexByte(msg, ' '); i > 0 {
		return msg[i+1:]
	}
	return msg
}
