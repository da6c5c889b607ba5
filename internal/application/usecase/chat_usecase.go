package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/application/ports"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

const (
	// chatContextProducts tope de productos aprobados en el contexto del
	// modelo, para no desbordar la ventana de tokens.
	chatContextProducts = 20
	chatHistoryLimit    = 20
)

// ChatUseCase orquesta el asistente de productos: arma el contexto con los
// productos aprobados, llama al LLM y persiste el intercambio. Aplica un
// timeout de 10 segundos en cada llamada al LLM para evitar que las latencias
// externas bloqueen los goroutines del servidor.
type ChatUseCase struct {
	llm         ports.LLMService
	chatRepo    repository.ChatRepository
	productRepo repository.ProductRepository
}

// NewChatUseCase construye el caso de uso inyectando el puerto LLMService.
func NewChatUseCase(llm ports.LLMService, chatRepo repository.ChatRepository, productRepo repository.ProductRepository) *ChatUseCase {
	return &ChatUseCase{llm: llm, chatRepo: chatRepo, productRepo: productRepo}
}

// Ask responde una pregunta sobre el catálogo. userID es nil para visitantes
// anónimos; sessionID identifica entonces la conversación.
func (uc *ChatUseCase) Ask(ctx context.Context, userID *string, sessionID, message string) (*dto.ChatMessageResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message es requerido", domain.ErrInvalidInput)
	}

	products, err := uc.productRepo.ListApproved(repository.PublicProductFilter{}, chatContextProducts)
	if err != nil {
		return nil, err
	}
	productContext := buildProductContext(products)

	// Timeout de 10 s: las llamadas a LLMs pueden demorar varios segundos.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	answer, err := uc.llm.Answer(ctx, message, productContext)
	if err != nil {
		return nil, fmt.Errorf("asistente IA: %w", err)
	}

	msg := &entity.ChatMessage{
		ID:          uuid.New().String(),
		UserID:      userID,
		SessionID:   sessionID,
		UserMessage: message,
		AIResponse:  answer,
		CreatedAt:   time.Now(),
	}
	if err := uc.chatRepo.Save(msg); err != nil {
		return nil, err
	}

	return toChatResponse(msg), nil
}

// History últimos intercambios del usuario autenticado o de la sesión anónima.
func (uc *ChatUseCase) History(userID *string, sessionID string) ([]dto.ChatMessageResponse, error) {
	var (
		messages []*entity.ChatMessage
		err      error
	)
	switch {
	case userID != nil:
		messages, err = uc.chatRepo.ListByUser(*userID, chatHistoryLimit)
	case sessionID != "":
		messages, err = uc.chatRepo.ListBySession(sessionID, chatHistoryLimit)
	default:
		return []dto.ChatMessageResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, *toChatResponse(m))
	}
	return out, nil
}

// buildProductContext formatea los productos aprobados como líneas simples
// que el modelo puede citar (nombre, descripción, precio y tienda).
func buildProductContext(products []*entity.Product) string {
	if len(products) == 0 {
		return "(no hay productos aprobados en este momento)"
	}
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "- %s: %s | Precio: $%s | Tienda: %s\n",
			p.Name, p.Description, p.Price.StringFixed(2), p.BusinessName)
	}
	return b.String()
}

func toChatResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		ID:          m.ID,
		UserMessage: m.UserMessage,
		AIResponse:  m.AIResponse,
		CreatedAt:   m.CreatedAt,
	}
}
