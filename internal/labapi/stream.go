package labapi

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"go.uber.org/zap"
)

const maxStreamFrame = 1024 * 1024

// Stream подписывается на /api/notifications/stream и вызывает handle для каждого кадра.
// Возвращает nil когда сервер закрыл поток, ctx.Err() при отмене.
func (c *Client) Stream(ctx context.Context, handle func(model.StreamEvent)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/notifications/stream", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Поток живёт дольше таймаута обычных запросов
	streamClient := *c.http
	streamClient.Timeout = 0

	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("open notification stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || isLoginRedirect(resp) {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: req.Method, Path: req.URL.Path, Status: resp.StatusCode}
	}

	err = readEvents(resp.Body, func(data string) {
		var dto streamEventDTO
		if err := json.Unmarshal([]byte(data), &dto); err != nil {
			c.logger.Warn("Skipping malformed stream frame", zap.Error(err))
			return
		}
		handle(dto.toModel(c.loc))
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type streamEventDTO struct {
	Type         string           `json:"type"`
	Notification *notificationDTO `json:"notification"`
}

func (d streamEventDTO) toModel(loc *time.Location) model.StreamEvent {
	ev := model.StreamEvent{Type: d.Type}
	if d.Notification != nil {
		n := d.Notification.toModel(loc)
		ev.Notification = &n
	}
	return ev
}

// readEvents разбирает text/event-stream: строки data: накапливаются до пустой строки
func readEvents(r io.Reader, dispatch func(data string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxStreamFrame)

	var data []string
	flush := func() {
		if len(data) > 0 {
			dispatch(strings.Join(data, "\n"))
			data = data[:0]
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			// комментарий / keep-alive
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read notification stream: %w", err)
	}
	return nil
}
