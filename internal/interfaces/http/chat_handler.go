package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
)

// sessionCookieName cookie que identifica una sesión de chat anónima.
const sessionCookieName = "chat_session"

// ChatHandler expone el asistente de productos con IA. Las rutas son públicas:
// si hay un access token válido el historial se ata al usuario, si no, a la
// cookie de sesión anónima.
type ChatHandler struct {
	uc *usecase.ChatUseCase
}

// NewChatHandler construye el handler de chat.
func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Ask godoc
// @Summary      Preguntar al asistente sobre el catálogo aprobado
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "message"
// @Success      200   {object}  dto.ChatMessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var in dto.ChatRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	userID := optionalUserID(c)
	sessionID := h.ensureSession(c, userID)

	out, err := h.uc.Ask(c.UserContext(), userID, sessionID, in.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "message es requerido"})
		case errors.Is(err, domain.ErrAIUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "el asistente no está disponible en este momento"})
		case errors.Is(err, context.DeadlineExceeded):
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "AI_TIMEOUT", Message: "el asistente tardó demasiado en responder"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de chat del usuario o de la sesión anónima
// @Tags         chat
// @Produce      json
// @Success      200  {array}  dto.ChatMessageResponse
// @Router       /api/chat/history [get]
func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID := optionalUserID(c)
	sessionID := c.Cookies(sessionCookieName)
	out, err := h.uc.History(userID, sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ensureSession devuelve el ID de sesión anónima, emitiendo la cookie si el
// visitante no tiene una. Los usuarios autenticados no la necesitan.
func (h *ChatHandler) ensureSession(c *fiber.Ctx, userID *string) string {
	if userID != nil {
		return ""
	}
	if sid := c.Cookies(sessionCookieName); sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return sid
}

// optionalUserID devuelve el UserID si OptionalAuthMiddleware identificó al visitante.
func optionalUserID(c *fiber.Ctx) *string {
	if id := GetUserID(c); id != "" {
		return &id
	}
	return nil
}
