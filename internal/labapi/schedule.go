package labapi

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

const maxExportSize = 20 * 1024 * 1024

// eventDTO событие как его кодирует сервер: время в ISO-8601 без зоны
type eventDTO struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
	Lab        string `json:"lab"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	Color      string `json:"color"`
}

func (d eventDTO) toModel(loc *time.Location) (model.Event, error) {
	start, err := ParseTimestamp(d.Start, loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("event %d start: %w", d.ID, err)
	}
	end, err := ParseTimestamp(d.End, loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("event %d end: %w", d.ID, err)
	}
	return model.Event{
		ID:         d.ID,
		Title:      d.Title,
		Instructor: d.Instructor,
		Lab:        d.Lab,
		Start:      start,
		End:        end,
		Status:     model.EventStatus(d.Status),
		Color:      d.Color,
	}, nil
}

// Schedule GET /api/schedule?lab_id=&date= - события недели, содержащей date
func (c *Client) Schedule(ctx context.Context, labID string, date time.Time) ([]model.Event, error) {
	var dtos []eventDTO
	if err := c.getJSON(ctx, "/api/schedule", scheduleQuery(labID, date), &dtos); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(dtos))
	for _, d := range dtos {
		e, err := d.toModel(c.loc)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Blob бинарный ответ экспорта
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportSchedule GET /api/schedule/export?lab_id=&date=&format=
func (c *Client) ExportSchedule(ctx context.Context, labID string, date time.Time, format string) (*Blob, error) {
	query := scheduleQuery(labID, date)
	query.Set("format", format)
	fallback := fmt.Sprintf("schedule-%s.%s", date.Format("2006-01-02"), format)
	return c.download(ctx, "/api/schedule/export", query, fallback)
}

func (c *Client) download(ctx context.Context, path string, query url.Values, fallbackName string) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Method: req.Method, Path: req.URL.Path, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Blob{
		Filename:    attachmentName(resp.Header.Get("Content-Disposition"), fallbackName),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func scheduleQuery(labID string, date time.Time) url.Values {
	if labID == "" {
		labID = model.LabFilterAll
	}
	query := url.Values{}
	query.Set("lab_id", labID)
	query.Set("date", date.Format("2006-01-02"))
	return query
}

func attachmentName(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

// FormatLabID форматирует id лаборатории для фильтра
func FormatLabID(id int64) string {
	return strconv.FormatInt(id, 10)
}
