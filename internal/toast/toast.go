package toast

import (
	"context"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Emoji префикс сообщения для уровня
func (l Level) Emoji() string {
	switch l {
	case LevelSuccess:
		return "✅"
	case LevelWarning:
		return "⚠️"
	case LevelDanger:
		return "❌"
	default:
		return "ℹ️"
	}
}

// Toast короткое временное сообщение пользователю
type Toast struct {
	Level Level
	Title string
	Text  string
}

func Success(text string) Toast { return Toast{Level: LevelSuccess, Text: text} }
func Info(text string) Toast    { return Toast{Level: LevelInfo, Text: text} }
func Warning(text string) Toast { return Toast{Level: LevelWarning, Text: text} }
func Danger(text string) Toast  { return Toast{Level: LevelDanger, Text: text} }

// Presenter показывает тосты и индикатор загрузки.
// Loading возвращает функцию, которую нужно вызвать по завершении; повторный вызов безопасен.
type Presenter interface {
	Show(ctx context.Context, t Toast)
	Loading(ctx context.Context) (done func())
}

// Cues дополнительные сигналы о новом уведомлении.
// Desktop со звуком, если audible, иначе беззвучно.
type Cues interface {
	Desktop(ctx context.Context, n model.Notification, audible bool)
	Chime(ctx context.Context)
}
