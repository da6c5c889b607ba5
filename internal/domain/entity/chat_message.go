package entity

import "time"

// ChatMessage un intercambio pregunta/respuesta con el asistente de productos.
// UserID es nil para visitantes anónimos; en ese caso SessionID identifica la
// conversación mediante una cookie de sesión.
type ChatMessage struct {
	ID          string
	UserID      *string
	SessionID   string
	UserMessage string
	AIResponse  string
	CreatedAt   time.Time
}
