package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/notifications"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/reservation"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var roleNames = map[model.Role]string{
	model.RoleStudent:    "студент",
	model.RoleInstructor: "преподаватель",
	model.RoleAdmin:      "администратор",
}

const helpText = "📚 <b>Справка по командам</b>\n\n" +
	"/login &lt;логин&gt; &lt;пароль&gt; [student|instructor|admin] - Войти на сервер лабораторий\n" +
	"/logout - Выйти\n" +
	"/schedule - Расписание недели\n" +
	"/lab &lt;id|all&gt; - Фильтр по лаборатории\n" +
	"/notifications [on|off] - Уведомления\n" +
	"/export [pdf|xlsx|local-pdf|local-xlsx] - Выгрузить неделю\n" +
	"/reports - Отчёты (администратор)\n" +
	"/cancel - Отменить текущую операцию\n\n" +
	"Чтобы забронировать лабораторию, преподаватель нажимает на свободный слот в расписании."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	name := update.Message.From.FirstName

	var status string
	if session, _, err := h.deps.Sessions.Session(ctx, chatID); err == nil {
		status = fmt.Sprintf("Вы вошли как <b>%s</b> (%s).\n\nОткройте расписание: /schedule",
			html.EscapeString(session.Username), roleNames[session.Role])
	} else {
		status = "Чтобы начать, войдите под учётной записью сервера лабораторий:\n" +
			"/login &lt;логин&gt; &lt;пароль&gt; [роль]"
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот бронирования лабораторий: расписание по неделям, заявки на свободные слоты "+
			"и уведомления об их одобрении.\n\n%s\n\n/help - Справка",
		html.EscapeString(name), status,
	)
	h.sendMessage(ctx, b, chatID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateNone:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	case state.StateReserveSubmit:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "⏳ Заявка уже отправляется, дождитесь ответа сервера.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch {
	case currentState == state.StateNone:
		return
	case currentState.IsReservation():
		reservation.HandleText(ctx, b, h.deps, chatID, telegramID, update.Message.Text)
	case currentState == state.StateNotificationSearch:
		if err := notifications.ApplySearch(ctx, b, h.deps, chatID, telegramID, update.Message.Text); err != nil {
			h.logger.Warn("Notification search failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.sendError(ctx, b, chatID, "❌ Не удалось выполнить поиск по уведомлениям.")
		}
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
