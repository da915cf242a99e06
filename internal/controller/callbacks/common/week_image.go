package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/export"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 1000
	headerHeight     = 110
	footerHeight     = 20
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 6
	slotBorderRadius = 5.0
	shadowOffset     = 2.0
	badgeRadius      = 11.0
)

// Константы шрифтов
const (
	titleFontSize      = 26.0
	subtitleFontSize   = 16.0
	dayFontSize        = 22.0
	slotLabelFontSize  = 15.0
	cellTextFontSize   = 13.0
	badgeFontSize      = 12.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	slotLabelColor   = color.RGBA{110, 115, 120, 200}
	slotLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 60}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	cellShadowColor = color.RGBA{0, 0, 0, 20}
	cellTextColor   = color.RGBA{20, 24, 28, 230}
	badgeColor      = color.RGBA{176, 42, 55, 255}
	badgeTextColor  = color.RGBA{255, 255, 255, 255}

	legendTextColor = color.RGBA{90, 95, 100, 220}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

var statusColors = map[schedule.SlotStatus]color.RGBA{
	schedule.SlotStatusAvailable: {133, 193, 85, 90},
	schedule.SlotStatusReserved:  {94, 160, 230, 230},
	schedule.SlotStatusPending:   {255, 205, 86, 240},
	schedule.SlotStatusConflict:  {235, 110, 120, 240},
}

var legendOrder = []schedule.SlotStatus{
	schedule.SlotStatusAvailable,
	schedule.SlotStatusReserved,
	schedule.SlotStatusPending,
	schedule.SlotStatusConflict,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont ставит Go-шрифт нужного стиля (в нём есть кириллица), basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		data := goregular.TTF
		if fontStyle == FontStyleBold {
			data = gobold.TTF
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			parsed = nil
		}
		cachedFonts[fontStyle] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует недельную сетку: 24 получасовые строки, цвет по статусу слота,
// счётчик на конфликтах, подсветка сегодняшнего дня и легенда
func GenerateWeekImage(grid *schedule.WeekGrid, labName string, now time.Time) ([]byte, error) {
	today := normalizeToDay(now.In(grid.Window.Start.Location()))
	highlightToday := grid.Window.Contains(today)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / schedule.DaysInWeek
	bodyHeight := imageHeight - headerHeight - footerHeight
	cellHeight := float64(bodyHeight) / float64(len(grid.Rows))

	drawHeader(dc, grid.Window, labName)
	drawSlotLabels(dc, grid.Slots, cellHeight)
	drawDays(dc, grid, today, highlightToday, dayWidth, bodyHeight, cellHeight)
	if highlightToday {
		drawCurrentTimeLine(dc, now.In(grid.Window.Start.Location()), cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader заголовок: месяц, диапазон дат и лаборатория
func drawHeader(dc *gg.Context, window schedule.WeekWindow, labName string) {
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatWeekTitle(window), 20, 28, 0, 0.5)

	loadFont(dc, subtitleFontSize)
	dc.DrawStringAnchored(formatting.FormatWeekRange(window)+" · "+labName, 20, 56, 0, 0.5)
}

// drawSlotLabels колонка времени слева, подпись на каждый час
func drawSlotLabels(dc *gg.Context, slots []schedule.TimeSlot, cellHeight float64) {
	loadFont(dc, slotLabelFontSize)
	dc.SetColor(slotLabelColor)

	for i, slot := range slots {
		if slot.Minute != 0 {
			continue
		}
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(slot.Label(), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
	end := float64(headerHeight) + float64(len(slots))*cellHeight
	dc.DrawStringAnchored(fmt.Sprintf("%02d:00", schedule.DayStartHour+len(slots)*schedule.SlotMinutes/60), float64(leftLabelsWidth)-10, end, 1, 0.5)
}

func drawDays(dc *gg.Context, grid *schedule.WeekGrid, today time.Time, highlightToday bool, dayWidth, bodyHeight int, cellHeight float64) {
	for dayIndex, day := range grid.Window.Days() {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := highlightToday && isSameDay(day, today)

		drawDayBackground(dc, x, y, dayWidth, bodyHeight, dayIndex, isToday)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawSlotLines(dc, x, y, dayWidth, len(grid.Rows), cellHeight)

		for rowIndex, row := range grid.Rows {
			var prev *schedule.Cell
			if rowIndex > 0 {
				prev = &grid.Rows[rowIndex-1].Cells[dayIndex]
			}
			drawCell(dc, row.Cells[dayIndex], prev, x, y+float64(rowIndex)*cellHeight, dayWidth, cellHeight)
		}
	}
}

func isSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if isToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y-40, float64(dayWidth), float64(dayHeight)+40)
		dc.Fill()
	}
}

// drawDayHeader день недели и дата над колонкой
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatDayHeader(date), x+float64(dayWidth)/2, y-18, 0.5, 0.5)
}

func drawSlotLines(dc *gg.Context, x, y float64, dayWidth, rows int, cellHeight float64) {
	for i := 0; i <= rows; i++ {
		// часовые линии толще получасовых
		if i%2 == 0 {
			dc.SetLineWidth(0.6)
		} else {
			dc.SetLineWidth(0.2)
		}
		dc.SetColor(slotLineColor)
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawCell рисует занятую ячейку. Продолжение того же события из предыдущей
// строки рисуется без подписи, чтобы длинная заявка читалась одним блоком.
func drawCell(dc *gg.Context, cell schedule.Cell, prev *schedule.Cell, x, y float64, dayWidth int, cellHeight float64) {
	if cell.Status == schedule.SlotStatusAvailable {
		return
	}

	fill := statusColors[cell.Status]
	w := float64(dayWidth) - dayPaddingX*2
	h := cellHeight - 2

	dc.SetColor(cellShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, y+1+shadowOffset, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, w, h, slotBorderRadius)
	dc.Stroke()

	if !continuesPrevious(cell, prev) {
		loadFont(dc, cellTextFontSize)
		dc.SetColor(cellTextColor)
		dc.DrawStringAnchored(fitString(dc, export.CellText(cell), w-badgeRadius*2-8), x+dayPaddingX+6, y+1+h/2, 0, 0.35)
	}

	if cell.Status == schedule.SlotStatusConflict {
		cx := x + float64(dayWidth) - dayPaddingX - badgeRadius - 2
		cy := y + 1 + h/2
		dc.SetColor(badgeColor)
		dc.DrawCircle(cx, cy, badgeRadius)
		dc.Fill()

		loadFont(dc, badgeFontSize, FontStyleBold)
		dc.SetColor(badgeTextColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d", cell.Count), cx, cy, 0.5, 0.35)
	}
}

// continuesPrevious та же единственная заявка, что и в слоте выше
func continuesPrevious(cell schedule.Cell, prev *schedule.Cell) bool {
	if prev == nil || cell.Count != 1 || prev.Count != 1 {
		return false
	}
	return cell.Events[0].ID == prev.Events[0].ID && cell.Events[0].Start.Equal(prev.Events[0].Start)
}

// fitString обрезает текст до ширины ячейки
func fitString(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return string(runes)
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine красная линия текущего времени внутри дневного окна
func drawCurrentTimeLine(dc *gg.Context, now time.Time, cellHeight float64, dayWidth int) {
	minutes := float64(now.Hour()*60+now.Minute()) - schedule.DayStartHour*60
	if minutes < 0 || minutes > schedule.SlotsPerDay*schedule.SlotMinutes {
		return
	}

	y := float64(headerHeight) + minutes/schedule.SlotMinutes*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+schedule.DaysInWeek*dayWidth), y)
	dc.Stroke()
}

// drawLegend легенда статусов справа
func drawLegend(dc *gg.Context, dayWidth int) {
	liX := float64(leftLabelsWidth + schedule.DaysInWeek*dayWidth + 14)
	liY := float64(headerHeight) + 10

	loadFont(dc, legendItemFontSize, FontStyleBold)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored("Статус слота", liX, liY, 0, 0.5)
	liY += 20

	boxW := 20.0
	boxH := 14.0
	for _, status := range legendOrder {
		dc.SetColor(statusColors[status])
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(formatting.GetSlotStatusDisplay(status).Text, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
