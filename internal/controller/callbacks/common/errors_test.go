package common

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not logged in", fmt.Errorf("wrap: %w", service.ErrNotLoggedIn), "🔑 Сначала войдите: /login <логин> <пароль>"},
		{"expired", labapi.ErrUnauthorized, "🔑 Сессия на сервере истекла. Войдите заново: /login"},
		{"action message", &labapi.ActionError{Message: "Already approved"}, "❌ Already approved"},
		{"action empty", &labapi.ActionError{}, "❌ Сервер отклонил действие"},
		{"forbidden", &labapi.StatusError{Status: http.StatusForbidden}, "⛔ Недостаточно прав на сервере лабораторий"},
		{"server error", fmt.Errorf("load: %w", &labapi.StatusError{Status: 500}), "❌ Сервер лабораторий вернул ошибку"},
		{"timeout", context.DeadlineExceeded, "⌛ Сервер лабораторий не ответил вовремя"},
		{"unknown", fmt.Errorf("boom"), "❌ Произошла ошибка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestParseIDFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback("ntf:read:42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, data := range []string{"ntf:read:", "ntf", "adm:approve:x", "adm:approve:-1"} {
		_, err := ParseIDFromCallback(data)
		assert.ErrorIs(t, err, ErrInvalidFormat, data)
	}
}

func TestErrorReason(t *testing.T) {
	assert.Equal(t, "Already approved", ErrorReason(&labapi.ActionError{Message: "Already approved"}))
	assert.Equal(t, "Сервер лабораторий не ответил вовремя", ErrorReason(context.DeadlineExceeded))
}
