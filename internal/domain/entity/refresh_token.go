package entity

import "time"

// RefreshToken registro de revocación de un refresh token, identificado por su
// jti. Un token rotado o revocado queda marcado con RevokedAt y nunca vuelve a
// canjearse. El estado vive en el almacén compartido, no en memoria del proceso.
type RefreshToken struct {
	ID        string // jti del JWT
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time // nil = todavía canjeable
	CreatedAt time.Time
}

// IsExpired indica si el token ya venció.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsRevoked indica si el token fue rotado o revocado explícitamente.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
