package labapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized сервер перенаправил на /login или ответил 401
	ErrUnauthorized = errors.New("lab server session expired")
	// ErrLoginFailed сервер вернул форму входа повторно
	ErrLoginFailed = errors.New("invalid username or password")
)

// StatusError ответ сервера с неуспешным HTTP статусом
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: lab server returned status %d", e.Method, e.Path, e.Status)
}

// ActionError сервер ответил {success: false, message}
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string {
	if e.Message == "" {
		return "lab server rejected the action"
	}
	return "lab server rejected the action: " + e.Message
}

// FieldErrors ошибки формы по полям: имя поля -> сообщения
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

// Fields возвращает имена полей с ошибками в стабильном порядке
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// AsFieldErrors извлекает FieldErrors из цепочки ошибок
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
