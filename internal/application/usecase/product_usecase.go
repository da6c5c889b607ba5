package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

// publicListLimit tope del listado público y del contexto del chat.
const publicListLimit = 100

// ProductUseCase ciclo de vida y CRUD de productos. Toda operación interna
// recibe el businessID del actor: un producto de otro tenant se comporta como
// inexistente, nunca como prohibido.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto en draft, con el actor como created_by. El precio
// debe ser estrictamente positivo; se valida antes de tocar el almacén.
func (uc *ProductUseCase) Create(businessID, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Status:      entity.StatusDraft,
		CreatedBy:   &entity.ProductActor{ID: actorID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	// Releer para cargar created_by y business_name por JOIN.
	return uc.getScoped(businessID, product.ID)
}

// List productos del tenant del actor, con filtros opcionales de estado y nombre.
func (uc *ProductUseCase) List(businessID string, filter repository.ProductFilter) ([]dto.ProductResponse, error) {
	if filter.Status != "" && !entity.IsValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, filter.Status)
	}
	products, err := uc.repo.List(businessID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// GetByID producto del tenant del actor; fuera del tenant es ErrNotFound.
func (uc *ProductUseCase) GetByID(businessID, id string) (*dto.ProductResponse, error) {
	return uc.getScoped(businessID, id)
}

// Update edita name/description/price de un producto en draft o pending.
// Un producto aprobado es inmutable sin importar el rol del actor.
func (uc *ProductUseCase) Update(businessID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsEditable() {
		return nil, domain.ErrProductApproved
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, domain.ErrInvalidPrice
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	ok, err := uc.repo.UpdateFields(product)
	if err != nil {
		return nil, err
	}
	if !ok {
		// La lectura de arriba pasó pero el UPDATE condicionado no encontró la
		// fila editable: una transición concurrente la aprobó (o la eliminó)
		// en el medio.
		current, err := uc.repo.GetByID(businessID, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrProductApproved
	}
	return uc.getScoped(businessID, id)
}

// Submit draft → pending_approval.
func (uc *ProductUseCase) Submit(businessID, id string) (*dto.ProductResponse, error) {
	return uc.transition(businessID, id, repository.StatusChange{
		From: entity.StatusDraft,
		To:   entity.StatusPendingApproval,
	})
}

// Approve pending_approval → approved; registra al actor como approved_by.
func (uc *ProductUseCase) Approve(businessID, id, approverID string) (*dto.ProductResponse, error) {
	return uc.transition(businessID, id, repository.StatusChange{
		From:       entity.StatusPendingApproval,
		To:         entity.StatusApproved,
		ApprovedBy: &approverID,
	})
}

// Reject pending_approval → draft; limpia approved_by.
func (uc *ProductUseCase) Reject(businessID, id string) (*dto.ProductResponse, error) {
	return uc.transition(businessID, id, repository.StatusChange{
		From:          entity.StatusPendingApproval,
		To:            entity.StatusDraft,
		ClearApprover: true,
	})
}

// Delete borrado físico, en cualquier estado (solo admin; lo exige el router).
func (uc *ProductUseCase) Delete(businessID, id string) error {
	ok, err := uc.repo.Delete(businessID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ListPublic productos aprobados de todos los tenants, campos reducidos.
func (uc *ProductUseCase) ListPublic(filter repository.PublicProductFilter) ([]dto.PublicProductResponse, error) {
	products, err := uc.repo.ListApproved(filter, publicListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toPublicProductResponse(p))
	}
	return out, nil
}

// GetPublicByID un producto aprobado; un producto no aprobado no existe para el público.
func (uc *ProductUseCase) GetPublicByID(id string) (*dto.PublicProductResponse, error) {
	product, err := uc.repo.GetApprovedByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toPublicProductResponse(product), nil
}

// transition aplica el cambio de estado condicionado. Si la actualización no
// afectó filas, distingue entre producto inexistente (o de otro tenant) y
// transición ilegal, y en el segundo caso nombra el estado actual.
func (uc *ProductUseCase) transition(businessID, id string, change repository.StatusChange) (*dto.ProductResponse, error) {
	ok, err := uc.repo.ApplyStatusChange(businessID, id, change)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := uc.repo.GetByID(businessID, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: se requiere estado %s y el producto está en %s",
			domain.ErrInvalidTransition, change.From, current.Status)
	}
	return uc.getScoped(businessID, id)
}

func (uc *ProductUseCase) getScoped(businessID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Status:       p.Status,
		BusinessName: p.BusinessName,
		CreatedBy:    toActorResponse(p.CreatedBy),
		ApprovedBy:   toActorResponse(p.ApprovedBy),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPublicProductResponse(p *entity.Product) *dto.PublicProductResponse {
	return &dto.PublicProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		BusinessName: p.BusinessName,
		CreatedAt:    p.CreatedAt,
	}
}

func toActorResponse(a *entity.ProductActor) *dto.ActorResponse {
	if a == nil {
		return nil
	}
	return &dto.ActorResponse{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// ParsePriceFilter convierte un query param de precio a decimal; un valor no
// numérico se ignora en lugar de fallar, para no romper el listado público
// por un filtro mal escrito.
func ParsePriceFilter(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
