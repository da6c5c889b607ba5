package ports

import "context"

// LLMService define el puerto de salida hacia el servicio de texto de IA.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// Siguiendo el principio de inversión de dependencias (DIP), la aplicación
// solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// Answer responde la pregunta del usuario sobre el catálogo usando
	// productContext (productos aprobados ya formateados) como contexto.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Answer(ctx context.Context, question, productContext string) (string, error)
}
