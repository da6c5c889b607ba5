package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
)

// ProductFilter filtros opcionales para el listado interno (siempre dentro del tenant).
type ProductFilter struct {
	Status string // vacío = todos
	Search string // coincidencia parcial por nombre, case-insensitive
}

// PublicProductFilter filtros del listado público (solo productos aprobados).
type PublicProductFilter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// StatusChange describe una transición condicionada de estado. La
// implementación debe aplicarla como una sola actualización atómica
// (UPDATE ... WHERE status = From) para que dos transiciones concurrentes
// sobre el mismo producto no puedan ganar ambas sobre una lectura vieja.
type StatusChange struct {
	From          string
	To            string
	ApprovedBy    *string // ID del aprobador al aprobar
	ClearApprover bool    // reject limpia approved_by
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos internos exigen businessID; los Public* cruzan tenants pero
// filtran estrictamente a productos aprobados.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(businessID, id string) (*entity.Product, error)
	List(businessID string, filter ProductFilter) ([]*entity.Product, error)
	// UpdateFields actualiza solo campos editables (name, description, price),
	// condicionado al tenant y a que el estado siga siendo editable. Devuelve
	// false si ninguna fila coincidió: el producto no existe en el business o
	// ya fue aprobado por una transición concurrente.
	UpdateFields(product *entity.Product) (bool, error)
	// ApplyStatusChange ejecuta la transición condicionada; devuelve false si
	// el producto no estaba en el estado From (o no existe en el tenant).
	ApplyStatusChange(businessID, id string, change StatusChange) (bool, error)
	Delete(businessID, id string) (bool, error)

	ListApproved(filter PublicProductFilter, limit int) ([]*entity.Product, error)
	GetApprovedByID(id string) (*entity.Product, error)
}
