package entity

import "time"

// User representa un usuario del sistema (pertenece a un Business).
type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // ver constantes Role*
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin solo el rol admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove admin y approver pueden aprobar o rechazar productos.
func (u *User) CanApprove() bool {
	return RoleAtLeast(u.Role, RoleApprover)
}

// CanEdit admin, approver y editor pueden crear y editar productos.
func (u *User) CanEdit() bool {
	return RoleAtLeast(u.Role, RoleEditor)
}

// CanManageUsers solo admin administra usuarios.
func (u *User) CanManageUsers() bool {
	return u.IsAdmin()
}
