package repository

import "github.com/tu-usuario/marketplace-pro/internal/domain/entity"

// RefreshTokenRepository almacén compartido de refresh tokens, keyed por jti.
// Debe ser durable y común a todas las instancias del servidor: una lista de
// revocación solo en memoria no sobrevive reinicios ni escala horizontal.
type RefreshTokenRepository interface {
	// Save registra un refresh token recién emitido.
	Save(token *entity.RefreshToken) error
	// Consume marca el token como revocado de forma atómica. Falla con
	// domain.ErrTokenRevoked si ya estaba revocado (o no existe) y con
	// domain.ErrTokenExpired si venció. Ante dos Consume concurrentes del
	// mismo jti, a lo sumo uno retorna nil.
	Consume(jti string) error
	// Revoke marca el token como revocado; idempotente, un jti desconocido o
	// ya revocado no es error (logout siempre debe poder completarse).
	Revoke(jti string) error
}
