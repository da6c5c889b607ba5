package repository

import "github.com/tu-usuario/marketplace-pro/internal/domain/entity"

// ChatRepository define el puerto de persistencia del historial de chat.
type ChatRepository interface {
	Save(msg *entity.ChatMessage) error
	// ListByUser últimos mensajes de un usuario autenticado, más reciente primero.
	ListByUser(userID string, limit int) ([]*entity.ChatMessage, error)
	// ListBySession últimos mensajes de una sesión anónima, más reciente primero.
	ListBySession(sessionID string, limit int) ([]*entity.ChatMessage, error)
}
