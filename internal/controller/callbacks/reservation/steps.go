package reservation

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

const (
	maxCourseName = 100
	maxSection    = 50
	maxNotes      = 500
)

var (
	ErrEmptyValue  = errors.New("empty value")
	ErrTooLong     = errors.New("value too long")
	ErrNotTextStep = errors.New("step does not accept text")
)

// FirstStep первый шаг заявки: лаборатория уже известна, если выбран фильтр
func FirstStep(draft model.ReservationDraft) state.UserState {
	if draft.LabID == 0 {
		return state.StateReserveLab
	}
	return state.StateReserveCourse
}

// NextStep шаг после step
func NextStep(step state.UserState) state.UserState {
	switch step {
	case state.StateReserveLab:
		return state.StateReserveCourse
	case state.StateReserveCourse:
		return state.StateReserveSection
	case state.StateReserveSection:
		return state.StateReserveDuration
	case state.StateReserveDuration:
		return state.StateReserveNotes
	default:
		return state.StateReserveConfirm
	}
}

// StepForField шаг, на котором вводится поле формы
func StepForField(field string) state.UserState {
	switch field {
	case "lab_id":
		return state.StateReserveLab
	case "course_name":
		return state.StateReserveCourse
	case "section":
		return state.StateReserveSection
	case "start_time", "end_time":
		return state.StateReserveDuration
	case "notes":
		return state.StateReserveNotes
	default:
		return state.StateReserveConfirm
	}
}

// ApplyText записывает ответ текстового шага в черновик
func ApplyText(step state.UserState, draft model.ReservationDraft, text string) (model.ReservationDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return draft, ErrEmptyValue
	}

	switch step {
	case state.StateReserveCourse:
		if utf8.RuneCountInString(text) > maxCourseName {
			return draft, fmt.Errorf("%w: course name over %d characters", ErrTooLong, maxCourseName)
		}
		draft.CourseName = text
	case state.StateReserveSection:
		if utf8.RuneCountInString(text) > maxSection {
			return draft, fmt.Errorf("%w: section over %d characters", ErrTooLong, maxSection)
		}
		draft.Section = text
	case state.StateReserveNotes:
		if utf8.RuneCountInString(text) > maxNotes {
			return draft, fmt.Errorf("%w: notes over %d characters", ErrTooLong, maxNotes)
		}
		draft.Notes = text
	default:
		return draft, ErrNotTextStep
	}
	return draft, nil
}

// InputError текст ошибки ввода для пользователя
func InputError(step state.UserState, err error) string {
	switch {
	case errors.Is(err, ErrEmptyValue):
		return "❌ Значение не может быть пустым. Попробуйте ещё раз:"
	case errors.Is(err, ErrTooLong) && step == state.StateReserveCourse:
		return fmt.Sprintf("❌ Название курса не длиннее %d символов. Попробуйте ещё раз:", maxCourseName)
	case errors.Is(err, ErrTooLong) && step == state.StateReserveSection:
		return fmt.Sprintf("❌ Группа не длиннее %d символов. Попробуйте ещё раз:", maxSection)
	case errors.Is(err, ErrTooLong):
		return fmt.Sprintf("❌ Примечание не длиннее %d символов. Попробуйте ещё раз:", maxNotes)
	default:
		return "❌ Используйте кнопки под сообщением."
	}
}

// Prompt текст и клавиатура шага
func Prompt(step state.UserState, draft model.ReservationDraft, labs []model.Laboratory, labName string) (string, *models.InlineKeyboardMarkup) {
	summary := formatting.FormatDraft(draft, labName)

	switch step {
	case state.StateReserveLab:
		return summary + "\nВыберите лабораторию:", keyboard.ReserveLabs(labs)
	case state.StateReserveCourse:
		return summary + "\nВведите название курса:", keyboard.ReserveStep()
	case state.StateReserveSection:
		return summary + "\nВведите группу (секцию):", keyboard.ReserveStep()
	case state.StateReserveDuration:
		return summary + "\nВыберите длительность занятия:", keyboard.ReserveDurations(draft.Start)
	case state.StateReserveNotes:
		return summary + "\nДобавьте примечание или пропустите шаг:", keyboard.ReserveNotes()
	default:
		return summary + "\nВсё верно? Заявка уйдёт на одобрение администратору.", keyboard.ReserveConfirm()
	}
}

// FieldProblems описание ошибок формы для пользователя
func FieldProblems(fields map[string][]string) string {
	names := map[string]string{
		"lab_id":      "Лаборатория",
		"course_name": "Курс",
		"section":     "Группа",
		"start_time":  "Начало",
		"end_time":    "Окончание",
		"notes":       "Примечание",
	}

	var sb strings.Builder
	for _, field := range []string{"lab_id", "course_name", "section", "start_time", "end_time", "notes"} {
		msgs, ok := fields[field]
		if !ok {
			continue
		}
		sb.WriteString("• " + names[field] + ": " + html.EscapeString(strings.Join(msgs, " ")) + "\n")
	}
	var other []string
	for field := range fields {
		if _, known := names[field]; !known {
			other = append(other, field)
		}
	}
	sort.Strings(other)
	for _, field := range other {
		sb.WriteString("• " + html.EscapeString(field) + ": " + html.EscapeString(strings.Join(fields[field], " ")) + "\n")
	}
	return sb.String()
}

// FirstInvalidStep самый ранний шаг среди полей с ошибками
func FirstInvalidStep(fields []string) state.UserState {
	order := []state.UserState{
		state.StateReserveLab,
		state.StateReserveCourse,
		state.StateReserveSection,
		state.StateReserveDuration,
		state.StateReserveNotes,
	}
	for _, step := range order {
		for _, f := range fields {
			if StepForField(f) == step {
				return step
			}
		}
	}
	return state.StateReserveConfirm
}
