package repository

import "github.com/tu-usuario/marketplace-pro/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Todos los métodos de acceso interno exigen businessID: el aislamiento de
// tenant es estructural, no opcional. FindByEmail es global solo porque el
// login ocurre antes de conocer el tenant.
type UserRepository interface {
	Create(user *entity.User) error
	// FindByEmail busca en todos los tenants (solo para login). Devuelve nil sin error si no existe.
	FindByEmail(email string) (*entity.User, error)
	// FindByID busca por ID sin acotar tenant (solo para resolver la identidad del token).
	FindByID(id string) (*entity.User, error)
	// GetByID busca dentro del tenant; un ID de otro Business se comporta como inexistente.
	GetByID(businessID, id string) (*entity.User, error)
	ListByBusiness(businessID string) ([]*entity.User, error)
	Update(user *entity.User) error
	Delete(businessID, id string) (bool, error)
}
