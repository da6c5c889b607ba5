package auth

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
	"github.com/tu-usuario/marketplace-pro/pkg/jwt"
)

// JWTConfig configuración para la emisión del par de tokens.
type JWTConfig struct {
	Secret        string
	AccessMinutes int
	RefreshDays   int
	Issuer        string
}

// AuthUseCase casos de uso de sesión: login, rotación de refresh, logout y
// resolución del usuario actual. Cada refresh token emitido se registra por
// jti en el almacén compartido para poder revocarlo una sola vez.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	tokenRepo    repository.RefreshTokenRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	tokenRepo repository.RefreshTokenRepository,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, businessRepo: businessRepo, tokenRepo: tokenRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password y cuenta activa, y emite un par de tokens.
// Email desconocido y password incorrecto devuelven el mismo error para no
// filtrar qué cuentas existen.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.issuePair(user)
}

// Rotate canjea un refresh token por un par nuevo. El token presentado queda
// revocado de forma atómica antes de emitir el reemplazo: el replay de un
// refresh ya rotado siempre falla, y de dos Rotate concurrentes con el mismo
// token a lo sumo uno gana.
func (uc *AuthUseCase) Rotate(rawRefresh string) (*dto.AuthResponse, error) {
	userID, jti, err := jwt.ParseRefresh(uc.jwtCfg.Secret, rawRefresh)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthorized
	}
	if err := uc.tokenRepo.Consume(jti); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.issuePair(user)
}

// Logout revoca el refresh token presentado (mejor esfuerzo). Nunca devuelve
// error al caller: un token ya inválido o ausente no impide cerrar sesión.
func (uc *AuthUseCase) Logout(rawRefresh string) {
	if rawRefresh == "" {
		return
	}
	_, jti, err := jwt.ParseRefresh(uc.jwtCfg.Secret, rawRefresh)
	if err != nil {
		return // token malformado o expirado: nada que revocar
	}
	_ = uc.tokenRepo.Revoke(jti)
}

// CurrentUser resuelve el usuario del access token contra el almacén, de modo
// que una cuenta desactivada queda fuera en la siguiente petición aunque su
// access token siga vigente.
func (uc *AuthUseCase) CurrentUser(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.toUserResponse(user)
}

// issuePair emite access + refresh y registra el jti del refresh en el
// almacén de revocación antes de entregar los tokens.
func (uc *AuthUseCase) issuePair(user *entity.User) (*dto.AuthResponse, error) {
	access, err := jwt.GenerateAccess(
		uc.jwtCfg.Secret, user.ID, user.BusinessID, user.Role,
		uc.jwtCfg.Issuer, uc.jwtCfg.AccessMinutes,
	)
	if err != nil {
		return nil, err
	}

	jti := uuid.New().String()
	refresh, err := jwt.GenerateRefresh(uc.jwtCfg.Secret, user.ID, jti, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshDays)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &entity.RefreshToken{
		ID:        jti,
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Duration(uc.jwtCfg.RefreshDays) * 24 * time.Hour),
		CreatedAt: now,
	}
	if err := uc.tokenRepo.Save(record); err != nil {
		return nil, err
	}

	userResp, err := uc.toUserResponse(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:         *userResp,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (uc *AuthUseCase) toUserResponse(u *entity.User) (*dto.UserResponse, error) {
	resp := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	business, err := uc.businessRepo.GetByID(u.BusinessID)
	if err != nil {
		return nil, err
	}
	if business != nil {
		resp.Business = &dto.BusinessResponse{
			ID:        business.ID,
			Name:      business.Name,
			Email:     business.Email,
			CreatedAt: business.CreatedAt,
		}
	}
	return resp, nil
}
