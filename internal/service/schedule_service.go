package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/schedule"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/toast"
	"go.uber.org/zap"
)

// ScheduleAPI источник событий недели
type ScheduleAPI interface {
	Schedule(ctx context.Context, labID string, date time.Time) ([]model.Event, error)
}

// BoardState состояние доски расписания на момент чтения
type BoardState struct {
	LabID string
	Ref   time.Time
	Grid  *schedule.WeekGrid
}

// Board недельное расписание одного чата.
// Загрузки не упорядочиваются: сохраняется результат ответа, пришедшего последним.
type Board struct {
	api       ScheduleAPI
	presenter toast.Presenter
	now       func() time.Time
	logger    *zap.Logger

	mu    sync.Mutex
	labID string
	ref   time.Time
	grid  *schedule.WeekGrid
}

func NewBoard(api ScheduleAPI, presenter toast.Presenter, labID string, now func() time.Time, logger *zap.Logger) *Board {
	if labID == "" {
		labID = model.LabFilterAll
	}
	return &Board{
		api:       api,
		presenter: presenter,
		now:       now,
		logger:    logger,
		labID:     labID,
		ref:       now(),
	}
}

// Load загружает неделю опорной даты. При ошибке показывает тост и возвращает
// прежнюю сетку вместе с ошибкой.
func (b *Board) Load(ctx context.Context) (*schedule.WeekGrid, error) {
	b.mu.Lock()
	labID, ref := b.labID, b.ref
	b.mu.Unlock()

	done := b.presenter.Loading(ctx)
	events, err := b.api.Schedule(ctx, labID, ref)
	done()

	if err != nil {
		b.logger.Warn("Failed to load schedule",
			zap.String("lab_id", labID),
			zap.Time("date", ref),
			zap.Error(err))
		b.presenter.Show(ctx, toast.Danger("Не удалось загрузить расписание"))

		b.mu.Lock()
		prev := b.grid
		b.mu.Unlock()
		return prev, fmt.Errorf("load schedule: %w", err)
	}

	grid := schedule.Build(events, ref)

	b.mu.Lock()
	b.grid = grid
	b.mu.Unlock()

	return grid, nil
}

// Navigate сдвигает опорную дату на delta недель и загружает неделю
func (b *Board) Navigate(ctx context.Context, delta int) (*schedule.WeekGrid, error) {
	b.mu.Lock()
	b.ref = schedule.Shift(b.ref, delta)
	b.mu.Unlock()
	return b.Load(ctx)
}

// Today возвращает к текущей неделе
func (b *Board) Today(ctx context.Context) (*schedule.WeekGrid, error) {
	b.mu.Lock()
	b.ref = b.now()
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetLab меняет фильтр лаборатории и загружает неделю
func (b *Board) SetLab(ctx context.Context, labID string) (*schedule.WeekGrid, error) {
	if labID == "" {
		labID = model.LabFilterAll
	}
	b.mu.Lock()
	b.labID = labID
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetDate переходит к неделе, содержащей date, без загрузки
func (b *Board) SetDate(date time.Time) {
	b.mu.Lock()
	b.ref = date
	b.mu.Unlock()
}

func (b *Board) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BoardState{LabID: b.labID, Ref: b.ref, Grid: b.grid}
}

// Boards доски расписания по чатам
type Boards struct {
	mu     sync.Mutex
	boards map[int64]*Board
}

func NewBoards() *Boards {
	return &Boards{boards: make(map[int64]*Board)}
}

// Get возвращает доску чата, создавая её через create при первом обращении
func (r *Boards) Get(chatID int64, create func() *Board) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.boards[chatID]; ok {
		return b
	}
	b := create()
	r.boards[chatID] = b
	return b
}

func (r *Boards) Drop(chatID int64) {
	r.mu.Lock()
	delete(r.boards, chatID)
	r.mu.Unlock()
}
