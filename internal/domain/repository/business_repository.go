package repository

import "github.com/tu-usuario/marketplace-pro/internal/domain/entity"

// BusinessRepository define el puerto de persistencia para Business (DIP).
// La implementación vive en infrastructure.
type BusinessRepository interface {
	Create(business *entity.Business) error
	GetByID(id string) (*entity.Business, error)
	GetByEmail(email string) (*entity.Business, error)
}
