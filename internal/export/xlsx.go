package export

import (
	"fmt"
	"io"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Расписание"

// WeekXLSX пишет сетку недели на один лист: строки - слоты, столбцы - дни
func WeekXLSX(w io.Writer, grid *schedule.WeekGrid, lab string) error {
	file := excelize.NewFile()
	defer file.Close()
	file.SetSheetName("Sheet1", sheetName)

	if err := file.SetCellValue(sheetName, "A1", title(grid, lab)); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	styles, err := statusStyles(file)
	if err != nil {
		return err
	}

	for i, day := range grid.Window.Days() {
		axis, _ := excelize.CoordinatesToCellName(i+2, 2)
		file.SetCellValue(sheetName, axis, dayHeader(day))
	}

	for r, row := range grid.Rows {
		rowNum := r + 3
		axis, _ := excelize.CoordinatesToCellName(1, rowNum)
		file.SetCellValue(sheetName, axis, row.Slot.Label())

		for c, cell := range row.Cells {
			axis, _ := excelize.CoordinatesToCellName(c+2, rowNum)
			if text := CellText(cell); text != "" {
				file.SetCellValue(sheetName, axis, text)
			}
			if err := file.SetCellStyle(sheetName, axis, axis, styles[cell.Status]); err != nil {
				return fmt.Errorf("style %s: %w", axis, err)
			}
		}
	}

	file.SetColWidth(sheetName, "A", "A", 8)
	file.SetColWidth(sheetName, "B", "H", 22)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func statusStyles(file *excelize.File) (map[schedule.SlotStatus]int, error) {
	styles := make(map[schedule.SlotStatus]int, len(statusColors))
	for status, clr := range statusColors {
		id, err := file.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{clr}},
			Border: []excelize.Border{
				{Type: "left", Color: "#BDBDBD", Style: 1},
				{Type: "right", Color: "#BDBDBD", Style: 1},
				{Type: "top", Color: "#BDBDBD", Style: 1},
				{Type: "bottom", Color: "#BDBDBD", Style: 1},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create style for %s: %w", status, err)
		}
		styles[status] = id
	}
	return styles, nil
}
