package dto

// LoginRequest entrada para login (email + password).
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse salida de login y refresh: usuario + par de tokens. Los mismos
// tokens viajan además como cookies HttpOnly; el cuerpo existe para clientes
// sin cookies (móvil, curl).
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// MessageResponse respuesta simple con detalle humano (logout, change-password).
type MessageResponse struct {
	Detail string `json:"detail"`
}
