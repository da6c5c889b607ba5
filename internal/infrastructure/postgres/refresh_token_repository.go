package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo almacén durable de refresh tokens sobre PostgreSQL,
// keyed por jti. Es el default cuando no hay Redis configurado.
type RefreshTokenRepo struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository construye el adaptador de persistencia para refresh tokens.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{pool: pool}
}

// Save registra un refresh token recién emitido.
func (r *RefreshTokenRepo) Save(token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(context.Background(), query,
		token.ID, token.UserID, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// Consume revoca el token de forma atómica: un solo UPDATE condicionado, de
// modo que de dos Consume concurrentes del mismo jti a lo sumo uno gana.
func (r *RefreshTokenRepo) Consume(jti string) error {
	cmd, err := r.pool.Exec(context.Background(), `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE id = $1 AND revoked_at IS NULL AND expires_at > now()`, jti)
	if err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	// No ganó: distinguir expirado de revocado/desconocido releyendo la fila.
	var token entity.RefreshToken
	err = r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, expires_at, revoked_at, created_at FROM refresh_tokens WHERE id = $1`, jti,
	).Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Un jti desconocido se trata igual que uno revocado: no se
			// revela si alguna vez existió.
			return domain.ErrTokenRevoked
		}
		return fmt.Errorf("get refresh token: %w", err)
	}
	if !token.IsRevoked() && token.IsExpired() {
		return domain.ErrTokenExpired
	}
	return domain.ErrTokenRevoked
}

// Revoke marca el token como revocado. Idempotente: un jti desconocido o ya
// revocado no es error.
func (r *RefreshTokenRepo) Revoke(jti string) error {
	_, err := r.pool.Exec(context.Background(), `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE id = $1 AND revoked_at IS NULL`, jti)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// DeleteExpired purga tokens vencidos hace más de un día (mantenimiento).
func (r *RefreshTokenRepo) DeleteExpired() (int64, error) {
	cmd, err := r.pool.Exec(context.Background(),
		`DELETE FROM refresh_tokens WHERE expires_at < now() - interval '1 day'`)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return cmd.RowsAffected(), nil
}
