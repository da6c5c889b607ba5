package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

// UserUseCase administración de usuarios dentro de un Business (solo admin,
// salvo el cambio de password propio). El tenant del actor acota todo.
type UserUseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, businessRepo repository.BusinessRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, businessRepo: businessRepo}
}

// List usuarios del Business del admin, del más antiguo al más reciente.
func (uc *UserUseCase) List(businessID string) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.ListByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *userToResponse(u, business))
	}
	return out, nil
}

// Create crea un usuario bajo el Business del admin. El rol por defecto es
// viewer; el email es único globalmente.
func (uc *UserUseCase) Create(businessID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleViewer
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	return userToResponse(user, business), nil
}

// GetByID usuario del tenant del admin; fuera del tenant es ErrNotFound.
func (uc *UserUseCase) GetByID(businessID, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	return userToResponse(user, business), nil
}

// Update actualiza nombre, rol o estado activo. Un admin no puede editarse a
// sí mismo por este camino (para eso está /auth/me).
func (uc *UserUseCase) Update(businessID, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if id == actorID {
		return nil, fmt.Errorf("%w: usa /api/auth/me para tu propio perfil", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	return userToResponse(user, business), nil
}

// Delete elimina un usuario del tenant. Un admin no puede borrarse a sí mismo.
func (uc *UserUseCase) Delete(businessID, actorID, id string) error {
	if id == actorID {
		return fmt.Errorf("%w: no puedes eliminar tu propia cuenta", domain.ErrInvalidInput)
	}
	ok, err := uc.userRepo.Delete(businessID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ChangePassword cualquier usuario autenticado cambia su propio password
// verificando primero el anterior.
func (uc *UserUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("%w: el nuevo password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return fmt.Errorf("%w: el password actual es incorrecto", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(user)
}

func userToResponse(u *entity.User, b *entity.Business) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if b != nil {
		resp.Business = &dto.BusinessResponse{
			ID:        b.ID,
			Name:      b.Name,
			Email:     b.Email,
			CreatedAt: b.CreatedAt,
		}
	}
	return resp
}
