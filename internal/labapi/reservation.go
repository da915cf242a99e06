package labapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-playground/validator/v10"
)

// formTimeLayout формат DateTimeField формы бронирования
const formTimeLayout = "2006-01-02 15:04"

var validate = validator.New()

// ValidateDraft проверяет черновик до отправки. Ошибки в том же виде, что и ошибки сервера.
func ValidateDraft(draft model.ReservationDraft) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate reservation: %w", err)
	}

	fe := FieldErrors{}
	for _, fieldErr := range ve {
		name := draftFieldNames[fieldErr.Field()]
		if name == "" {
			name = strings.ToLower(fieldErr.Field())
		}
		fe[name] = append(fe[name], validationMessage(fieldErr))
	}
	return fe
}

var draftFieldNames = map[string]string{
	"LabID":      "lab_id",
	"CourseName": "course_name",
	"Section":    "section",
	"Start":      "start_time",
	"End":        "end_time",
	"Notes":      "notes",
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "gt":
		return "Select a laboratory."
	case "gtfield":
		return "End time must be after start time."
	default:
		return "Invalid value."
	}
}

type formErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// SubmitReservation POST /reservation/request. Успех - редирект на дашборд.
func (c *Client) SubmitReservation(ctx context.Context, draft model.ReservationDraft) error {
	if err := ValidateDraft(draft); err != nil {
		return err
	}

	token, err := c.fetchCSRF(ctx, "/reservation/request")
	if err != nil {
		return err
	}
	if token != "" {
		c.setCSRF(token)
	}

	form := url.Values{}
	form.Set("lab_id", strconv.FormatInt(draft.LabID, 10))
	form.Set("course_name", draft.CourseName)
	form.Set("section", draft.Section)
	form.Set("start_time", draft.Start.In(c.loc).Format(formTimeLayout))
	form.Set("end_time", draft.End.In(c.loc).Format(formTimeLayout))
	form.Set("notes", draft.Notes)
	form.Set("csrf_token", c.CSRFToken())

	req, err := c.newRequest(ctx, http.MethodPost, "/reservation/request", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*8))
	if err != nil {
		return fmt.Errorf("read reservation response: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		var result formErrorResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("decode reservation response: %w", err)
		}
		if len(result.Errors) > 0 {
			return FieldErrors(result.Errors)
		}
		if result.Success {
			return nil
		}
		return &ActionError{Message: result.Message}
	}

	// форма перерисована с flash-сообщением (например, конфликт по времени)
	if flash := extractFlash(body); flash != "" {
		return &ActionError{Message: flash}
	}
	return &ActionError{Message: "reservation was not accepted"}
}
