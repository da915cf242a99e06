package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/labapi"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

const reportBarWidth = 12

var reportTitles = map[labapi.ReportKind]string{
	labapi.ReportMonthlyUsage:    "📈 Использование по месяцам",
	labapi.ReportInstructorUsage: "👤 Заявки по преподавателям",
	labapi.ReportPeakHours:       "⏰ Загрузка по часам",
}

// FormatReport таблица отчёта с текстовой гистограммой
func FormatReport(kind labapi.ReportKind, rows []model.UsageRow) string {
	var sb strings.Builder
	sb.WriteString("<b>" + reportTitles[kind] + "</b>\n")

	if len(rows) == 0 {
		sb.WriteString("нет данных\n")
		return sb.String()
	}

	peak := 0
	for _, r := range rows {
		if r.Count > peak {
			peak = r.Count
		}
	}

	sb.WriteString("<pre>")
	for _, r := range rows {
		bar := 0
		if peak > 0 {
			bar = r.Count * reportBarWidth / peak
		}
		if bar == 0 && r.Count > 0 {
			bar = 1
		}
		sb.WriteString(fmt.Sprintf("%-14s %s %d\n",
			html.EscapeString(truncate(r.Label, 14)), strings.Repeat("█", bar), r.Count))
	}
	sb.WriteString("</pre>")
	return sb.String()
}

// truncate обрезает по рунам
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
