package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

var _ repository.ChatRepository = (*ChatRepo)(nil)

// ChatRepo persistencia del historial de chat sobre PostgreSQL.
type ChatRepo struct {
	pool *pgxpool.Pool
}

// NewChatRepository construye el adaptador de persistencia para mensajes de chat.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// Save persiste un intercambio pregunta/respuesta.
func (r *ChatRepo) Save(msg *entity.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, session_id, user_message, ai_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(context.Background(), query,
		msg.ID, msg.UserID, msg.SessionID, msg.UserMessage, msg.AIResponse, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListByUser últimos mensajes de un usuario autenticado, más reciente primero.
func (r *ChatRepo) ListByUser(userID string, limit int) ([]*entity.ChatMessage, error) {
	return r.list(`WHERE user_id = $1`, userID, limit)
}

// ListBySession últimos mensajes de una sesión anónima, más reciente primero.
func (r *ChatRepo) ListBySession(sessionID string, limit int) ([]*entity.ChatMessage, error) {
	return r.list(`WHERE session_id = $1 AND user_id IS NULL`, sessionID, limit)
}

func (r *ChatRepo) list(where string, arg any, limit int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, session_id, user_message, ai_response, created_at
		FROM chat_messages ` + where + `
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(context.Background(), query, arg, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.UserMessage, &m.AIResponse, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
