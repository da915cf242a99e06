package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/handlers"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/state"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Dependencies сервисы, общие для команд и callback handlers
type Dependencies struct {
	Sessions *service.SessionService
	Boards   *service.Boards
	Screens  callbacktypes.Screens
	Labs     []model.Laboratory
	Location *time.Location
	Now      func() time.Time
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps Dependencies, logger *zap.Logger) *BotController {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	// Создаём менеджер состояний
	stateManager := state.NewManager()

	shared := &callbacktypes.Handler{
		Sessions:     deps.Sessions,
		Boards:       deps.Boards,
		Labs:         deps.Labs,
		Location:     deps.Location,
		StateManager: stateManager,
		Screens:      deps.Screens,
		Presenter:    NewChatPresenter(botInstance, logger),
		Now:          func() time.Time { return deps.Now().In(deps.Location) },
		Logger:       logger,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(shared, stateManager, logger),
		callbackHandler: callbacks.NewHandler(shared),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedule", bot.MatchTypeExact, c.handlers.HandleSchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lab", bot.MatchTypePrefix, c.handlers.HandleLab)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/notifications", bot.MatchTypePrefix, c.handlers.HandleNotifications)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, c.handlers.HandleExport)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reports", bot.MatchTypeExact, c.handlers.HandleReports)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "login", Description: "🔑 Войти на сервер лабораторий"},
		{Command: "schedule", Description: "📅 Расписание недели"},
		{Command: "lab", Description: "🏫 Фильтр по лаборатории"},
		{Command: "notifications", Description: "🔔 Уведомления"},
		{Command: "export", Description: "📤 Выгрузить расписание"},
		{Command: "reports", Description: "📊 Отчёты (администратор)"},
		{Command: "cancel", Description: "❌ Отменить операцию"},
		{Command: "logout", Description: "🚪 Выйти"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
