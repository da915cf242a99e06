package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/app"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/export"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"go.uber.org/zap"
)

// Рисует неделю с тестовыми бронированиями в PNG, PDF и XLSX без сервера и Telegram
func main() {
	outDir := flag.String("out", ".", "каталог для файлов")
	lab := flag.String("lab", "Computer Lab", "название лаборатории в заголовке")
	flag.Parse()

	logger := app.NewLogger("development")
	defer logger.Sync()

	now := time.Now()
	grid := schedule.Build(sampleEvents(schedule.StartOfWeek(now)), now)

	image, err := common.GenerateWeekImage(grid, *lab, now)
	if err != nil {
		logger.Fatal("Failed to render week image", zap.Error(err))
	}
	write(logger, filepath.Join(*outDir, "week.png"), image)

	for _, format := range []string{export.FormatPDF, export.FormatXLSX} {
		path := filepath.Join(*outDir, export.Filename(grid.Window, format))
		f, err := os.Create(path)
		if err != nil {
			logger.Fatal("Failed to create file", zap.String("path", path), zap.Error(err))
		}

		if format == export.FormatPDF {
			err = export.WeekPDF(f, grid, *lab, now)
		} else {
			err = export.WeekXLSX(f, grid, *lab)
		}
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			logger.Fatal("Failed to export week", zap.String("format", format), zap.Error(err))
		}
		logger.Info("File saved", zap.String("path", path))
	}

	counts := grid.Counts()
	fmt.Printf("📅 Неделя: %s - %s\n", grid.Window.Start.Format("02.01.2006"), grid.Window.End().Format("02.01.2006"))
	fmt.Printf("📊 Событий: %d, конфликтов: %d, ожидают: %d\n",
		len(grid.Events), counts[schedule.SlotStatusConflict], counts[schedule.SlotStatusPending])
}

func write(logger *zap.Logger, path string, data []byte) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Fatal("Failed to save file", zap.String("path", path), zap.Error(err))
	}
	logger.Info("File saved", zap.String("path", path))
}

// sampleEvents бронирования всех видов: подтверждённые, ожидающие и пересекающиеся
func sampleEvents(monday time.Time) []model.Event {
	at := func(day, hour, minute int) time.Time {
		return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	return []model.Event{
		{ID: 1, Title: "Networking - A1", Instructor: "Dr. Santos", Lab: "Computer Lab",
			Start: at(0, 9, 0), End: at(0, 10, 30), Status: model.EventStatusApproved},
		{ID: 2, Title: "Databases - B2", Instructor: "Prof. Reyes", Lab: "Computer Lab",
			Start: at(0, 14, 0), End: at(0, 15, 0), Status: model.EventStatusPending},
		{ID: 3, Title: "Operating Systems - C1", Instructor: "Dr. Cruz", Lab: "Network Lab",
			Start: at(1, 10, 0), End: at(1, 12, 0), Status: model.EventStatusApproved},
		{ID: 4, Title: "Web Development - A2", Instructor: "Prof. Lim", Lab: "Network Lab",
			Start: at(1, 11, 0), End: at(1, 12, 30), Status: model.EventStatusPending},
		{ID: 5, Title: "Programming 1 - D1", Instructor: "Dr. Santos", Lab: "Computer Lab",
			Start: at(2, 15, 0), End: at(2, 16, 0), Status: model.EventStatusApproved},
		{ID: 6, Title: "Capstone Defense", Instructor: "Prof. Reyes", Lab: "Computer Lab",
			Start: at(4, 13, 0), End: at(4, 14, 0), Status: model.EventStatusRejected},
	}
}
