package formatting

import (
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
)

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetSlotStatusDisplay возвращает emoji и текст для статуса слота
func GetSlotStatusDisplay(status schedule.SlotStatus) StatusDisplay {
	displays := map[schedule.SlotStatus]StatusDisplay{
		schedule.SlotStatusAvailable: {"🟢", "Свободно"},
		schedule.SlotStatusReserved:  {"🔵", "Забронировано"},
		schedule.SlotStatusPending:   {"🟡", "Ожидает одобрения"},
		schedule.SlotStatusConflict:  {"🔴", "Конфликт"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetEventStatusDisplay возвращает emoji и текст для статуса заявки
func GetEventStatusDisplay(status model.EventStatus) StatusDisplay {
	displays := map[model.EventStatus]StatusDisplay{
		model.EventStatusPending:   {"⏳", "Ожидает одобрения"},
		model.EventStatusApproved:  {"✅", "Одобрена"},
		model.EventStatusRejected:  {"🚫", "Отклонена"},
		model.EventStatusCompleted: {"✔️", "Завершена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", string(status)}
}
