package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (nace en draft; el
// estado nunca se escribe por aquí, solo vía submit/approve/reject).
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductRequest entrada para editar un producto en draft o pending.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// ActorResponse referencia mínima al usuario que creó o aprobó un producto.
type ActorResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProductResponse salida completa de un producto (usuarios internos).
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	BusinessName string          `json:"business_name"`
	CreatedBy    *ActorResponse  `json:"created_by"`
	ApprovedBy   *ActorResponse  `json:"approved_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PublicProductResponse salida reducida para el listado público: sin estado
// ni identidades internas (created_by / approved_by nunca se exponen).
type PublicProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	BusinessName string          `json:"business_name"`
	CreatedAt    time.Time       `json:"created_at"`
}
