package labapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

// ApproveRequest GET /admin/approve_request/{id}
func (c *Client) ApproveRequest(ctx context.Context, reservationID int64) error {
	return c.action(ctx, http.MethodGet, fmt.Sprintf("/admin/approve_request/%d", reservationID))
}

// RejectRequest GET /admin/reject_request/{id}
func (c *Client) RejectRequest(ctx context.Context, reservationID int64) error {
	return c.action(ctx, http.MethodGet, fmt.Sprintf("/admin/reject_request/%d", reservationID))
}

type ReportKind string

const (
	ReportMonthlyUsage    ReportKind = "monthly-usage"
	ReportInstructorUsage ReportKind = "instructor-usage"
	ReportPeakHours       ReportKind = "peak-hours"
)

// ReportKinds в порядке вывода в /reports
var ReportKinds = []ReportKind{ReportMonthlyUsage, ReportInstructorUsage, ReportPeakHours}

type reportRowDTO struct {
	Month      string `json:"month"`
	Instructor string `json:"instructor"`
	Hour       *int   `json:"hour"`
	Count      int    `json:"count"`
}

func (d reportRowDTO) label(kind ReportKind) string {
	switch kind {
	case ReportMonthlyUsage:
		return d.Month
	case ReportInstructorUsage:
		return d.Instructor
	case ReportPeakHours:
		if d.Hour == nil {
			return ""
		}
		return fmt.Sprintf("%02d:00", *d.Hour)
	}
	return ""
}

// Report GET /api/reports/{kind}, доступен только администратору
func (c *Client) Report(ctx context.Context, kind ReportKind) ([]model.UsageRow, error) {
	switch kind {
	case ReportMonthlyUsage, ReportInstructorUsage, ReportPeakHours:
	default:
		return nil, fmt.Errorf("unknown report %q", kind)
	}

	var dtos []reportRowDTO
	if err := c.getJSON(ctx, "/api/reports/"+string(kind), nil, &dtos); err != nil {
		return nil, err
	}

	rows := make([]model.UsageRow, 0, len(dtos))
	for i, d := range dtos {
		label := d.label(kind)
		if label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		rows = append(rows, model.UsageRow{Label: label, Count: d.Count})
	}
	return rows, nil
}
