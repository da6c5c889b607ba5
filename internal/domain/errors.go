package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrProductApproved    = errors.New("un producto aprobado no puede editarse")
	ErrInvalidPrice       = errors.New("el precio debe ser mayor que cero")
	ErrTokenRevoked       = errors.New("refresh token revocado")
	ErrTokenExpired       = errors.New("refresh token expirado")
	ErrAIUnavailable      = errors.New("servicio de IA no disponible")
)
