package dto

import "time"

// BusinessResponse salida de un Business.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse salida de un usuario (sin password). Se usa en /auth/me y en
// la administración de usuarios.
type UserResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Role      string            `json:"role"`
	Business  *BusinessResponse `json:"business"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateUserRequest entrada para que un admin cree un usuario en su Business
// (password en texto, se hashea en el use case).
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=admin approver editor viewer"`
}

// UpdateUserRequest entrada para que un admin actualice rol, nombre o estado
// activo de un usuario de su Business.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin approver editor viewer"`
	IsActive  *bool   `json:"is_active"`
}

// ChangePasswordRequest cualquier usuario autenticado cambia su propio password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
