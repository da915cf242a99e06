package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pdfFont        = "go"
	pdfMargin      = 8.0
	pdfTimeColumn  = 16.0
	pdfHeaderRow   = 7.0
	pdfSlotRow     = 6.8
	pdfCellPadding = 1.0
)

// WeekPDF рисует сетку недели таблицей на альбомном A4
func WeekPDF(w io.Writer, grid *schedule.WeekGrid, lab string, generated time.Time) error {
	fontDir, err := fontDirectory()
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", fontDir)
	pdf.AddUTF8Font(pdfFont, "", "goregular.ttf")
	pdf.AddUTF8Font(pdfFont, "B", "gobold.ttf")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	dayWidth := (width - 2*pdfMargin - pdfTimeColumn) / schedule.DaysInWeek

	pdf.SetFont(pdfFont, "B", 13)
	pdf.Text(pdfMargin, pdfMargin+4, title(grid, lab))
	pdf.SetFont(pdfFont, "", 8)
	footer := fmt.Sprintf("Сформировано %s", generated.Format("02.01.2006 15:04"))
	pdf.Text(pdfMargin, height-pdfMargin/2, footer)

	y := pdfMargin + 8
	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetXY(pdfMargin, y)
	pdf.CellFormat(pdfTimeColumn, pdfHeaderRow, "", "1", 0, "", false, 0, "")
	for _, day := range grid.Window.Days() {
		pdf.CellFormat(dayWidth, pdfHeaderRow, dayHeader(day), "1", 0, "C", false, 0, "")
	}
	y += pdfHeaderRow

	for _, row := range grid.Rows {
		pdf.SetXY(pdfMargin, y)
		pdf.SetFont(pdfFont, "", 8)
		pdf.CellFormat(pdfTimeColumn, pdfSlotRow, row.Slot.Label(), "1", 0, "C", false, 0, "")

		for _, cell := range row.Cells {
			r, g, b := hexRGB(statusColors[cell.Status])
			pdf.SetFillColor(r, g, b)
			text := fitText(pdf, CellText(cell), dayWidth-2*pdfCellPadding)
			pdf.CellFormat(dayWidth, pdfSlotRow, text, "1", 0, "L", true, 0, "")
		}
		y += pdfSlotRow
	}

	drawPDFLegend(pdf, y+4)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDFLegend(pdf *gofpdf.Fpdf, y float64) {
	items := []struct {
		status schedule.SlotStatus
		label  string
	}{
		{schedule.SlotStatusAvailable, "Свободно"},
		{schedule.SlotStatusReserved, "Забронировано"},
		{schedule.SlotStatusPending, "Ожидает подтверждения"},
		{schedule.SlotStatusConflict, "Конфликт"},
	}

	pdf.SetFont(pdfFont, "", 8)
	x := pdfMargin
	for _, item := range items {
		r, g, b := hexRGB(statusColors[item.status])
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y, 4, 4, "FD")
		pdf.Text(x+5, y+3.2, item.label)
		x += 10 + pdf.GetStringWidth(item.label)
	}
}

var (
	fontsOnce sync.Once
	fontsDir  string
	fontsErr  error
)

// fontDirectory раскладывает шрифты Go во временный каталог один раз за процесс:
// встроенные шрифты PDF не содержат кириллицы
func fontDirectory() (string, error) {
	fontsOnce.Do(func() {
		dir, err := os.MkdirTemp("", "lab-scheduler-fonts")
		if err != nil {
			fontsErr = fmt.Errorf("create font dir: %w", err)
			return
		}
		files := map[string][]byte{
			"goregular.ttf": goregular.TTF,
			"gobold.ttf":    gobold.TTF,
		}
		for name, data := range files {
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				fontsErr = fmt.Errorf("write font %s: %w", name, err)
				return
			}
		}
		fontsDir = dir
	})
	return fontsDir, fontsErr
}

// fitText обрезает текст по ширине ячейки
func fitText(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
