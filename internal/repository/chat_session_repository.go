package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSessionNotFound в чате нет сохранённой сессии
var ErrSessionNotFound = errors.New("chat session not found")

const chatSessionColumns = `chat_id, telegram_id, username, role, session_cookie, csrf_token,
	lab_filter, notifications_enabled, created_at, updated_at`

type ChatSessionRepository struct {
	*base.Repository
}

func NewChatSessionRepository(pool *pgxpool.Pool) *ChatSessionRepository {
	return &ChatSessionRepository{Repository: base.NewRepository(pool)}
}

// Upsert сохраняет сессию чата; фильтр лаборатории и настройка уведомлений при повторном входе не сбрасываются
func (r *ChatSessionRepository) Upsert(ctx context.Context, s *model.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (chat_id, telegram_id, username, role, session_cookie, csrf_token, lab_filter, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chat_id) DO UPDATE
		SET telegram_id = EXCLUDED.telegram_id,
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			session_cookie = EXCLUDED.session_cookie,
			csrf_token = EXCLUDED.csrf_token,
			updated_at = NOW()
		RETURNING lab_filter, notifications_enabled, created_at, updated_at
	`

	labFilter := s.LabFilter
	if labFilter == "" {
		labFilter = model.LabFilterAll
	}

	err := r.QueryRow(
		ctx, query,
		s.ChatID,
		s.TelegramID,
		s.Username,
		string(s.Role),
		s.SessionCookie,
		s.CSRFToken,
		labFilter,
		s.NotificationsEnabled,
	).Scan(&s.LabFilter, &s.NotificationsEnabled, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert chat session: %w", err)
	}
	return nil
}

// GetByChatID возвращает ErrSessionNotFound, если пользователь не входил
func (r *ChatSessionRepository) GetByChatID(ctx context.Context, chatID int64) (*model.ChatSession, error) {
	query := `SELECT ` + chatSessionColumns + ` FROM chat_sessions WHERE chat_id = $1`

	s, err := scanChatSession(r.QueryRow(ctx, query, chatID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	return s, nil
}

// ListWithNotifications сессии, для которых при старте запускаются уведомления
func (r *ChatSessionRepository) ListWithNotifications(ctx context.Context) ([]*model.ChatSession, error) {
	query := `
		SELECT ` + chatSessionColumns + `
		FROM chat_sessions
		WHERE notifications_enabled AND session_cookie <> ''
		ORDER BY chat_id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.ChatSession
	for rows.Next() {
		s, err := scanChatSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return sessions, nil
}

func (r *ChatSessionRepository) UpdateLabFilter(ctx context.Context, chatID int64, labFilter string) error {
	query := `UPDATE chat_sessions SET lab_filter = $1, updated_at = NOW() WHERE chat_id = $2`
	return r.execOne(ctx, "update lab filter", query, labFilter, chatID)
}

func (r *ChatSessionRepository) SetNotifications(ctx context.Context, chatID int64, enabled bool) error {
	query := `UPDATE chat_sessions SET notifications_enabled = $1, updated_at = NOW() WHERE chat_id = $2`
	return r.execOne(ctx, "set notifications", query, enabled, chatID)
}

// UpdateCredentials сохраняет обновлённые cookie после запросов к серверу
func (r *ChatSessionRepository) UpdateCredentials(ctx context.Context, chatID int64, cookie, csrf string) error {
	query := `UPDATE chat_sessions SET session_cookie = $1, csrf_token = $2, updated_at = NOW() WHERE chat_id = $3`
	return r.execOne(ctx, "update credentials", query, cookie, csrf, chatID)
}

// Delete удаляет сессию; отсутствие строки не ошибка
func (r *ChatSessionRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM chat_sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	if err := r.ExecOne(ctx, op, query, args...); err != nil {
		if base.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func scanChatSession(row pgx.Row) (*model.ChatSession, error) {
	var s model.ChatSession
	var role string
	err := row.Scan(
		&s.ChatID,
		&s.TelegramID,
		&s.Username,
		&role,
		&s.SessionCookie,
		&s.CSRFToken,
		&s.LabFilter,
		&s.NotificationsEnabled,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Role = model.Role(role)
	return &s, nil
}
