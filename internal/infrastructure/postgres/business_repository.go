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

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository construye el adaptador de persistencia para businesses.
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepo {
	return &BusinessRepo{pool: pool}
}

// Create persiste un nuevo business.
func (r *BusinessRepo) Create(business *entity.Business) error {
	query := `
		INSERT INTO businesses (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(context.Background(), query,
		business.ID, business.Name, business.Email, business.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un business por ID. Devuelve nil sin error si no existe.
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByEmail obtiene un business por email de contacto.
func (r *BusinessRepo) GetByEmail(email string) (*entity.Business, error) {
	return r.getBy(`WHERE email = $1`, email)
}

func (r *BusinessRepo) getBy(where string, arg any) (*entity.Business, error) {
	query := `SELECT id, name, email, created_at FROM businesses ` + where
	var b entity.Business
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&b.ID, &b.Name, &b.Email, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}
