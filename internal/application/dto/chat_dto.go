package dto

import "time"

// ChatRequest pregunta del usuario para el asistente de productos.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatMessageResponse un intercambio pregunta/respuesta persistido.
type ChatMessageResponse struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}
