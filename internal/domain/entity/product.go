package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un producto. No hay estado terminal de
// "rechazado": rechazar devuelve el producto a draft.
const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
)

// IsValidStatus indica si el string corresponde a un estado conocido.
func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPendingApproval, StatusApproved:
		return true
	}
	return false
}

// ProductActor es la referencia mínima al usuario que creó o aprobó un
// producto (se carga por JOIN, solo lectura).
type ProductActor struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// Product representa un producto del catálogo. Pertenece a exactamente un
// Business (inmutable tras la creación). ApprovedBy es no-nil si y solo si
// Status es approved; reject debe limpiarlo.
type Product struct {
	ID           string
	BusinessID   string
	BusinessName string // derivado por JOIN, solo lectura
	Name         string
	Description  string
	Price        decimal.Decimal
	Status       string // ver constantes Status*
	CreatedBy    *ProductActor
	ApprovedBy   *ProductActor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSubmit solo un draft puede enviarse a aprobación.
func (p *Product) CanSubmit() bool {
	return p.Status == StatusDraft
}

// CanApprove solo un producto pendiente puede aprobarse.
func (p *Product) CanApprove() bool {
	return p.Status == StatusPendingApproval
}

// CanReject solo un producto pendiente puede rechazarse (vuelve a draft).
func (p *Product) CanReject() bool {
	return p.Status == StatusPendingApproval
}

// IsEditable un producto aprobado es inmutable; el único camino de vuelta es
// eliminarlo y recrearlo (admin).
func (p *Product) IsEditable() bool {
	return p.Status == StatusDraft || p.Status == StatusPendingApproval
}
