package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/pkg/config"
	"github.com/tu-usuario/marketplace-pro/pkg/jwt"
)

// Locals keys para identidad del request en Fiber.
const (
	LocalUserID     = "user_id"
	LocalBusinessID = "business_id"
	LocalRole       = "role"
)

// AuthMiddleware valida el access token y extrae UserID, BusinessID y Role a c.Locals.
// Busca primero la cookie HttpOnly y luego el header Authorization (Bearer),
// para que clientes de API sin cookies también puedan autenticarse.
func AuthMiddleware(jwtSecret string, cookieCfg config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := accessTokenFrom(c, cookieCfg)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "autenticación requerida"})
		}
		userID, businessID, role, err := jwt.ParseAccess(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalBusinessID, businessID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// OptionalAuthMiddleware extrae la identidad si hay un token válido, pero deja
// pasar el request sin autenticar si no lo hay (rutas públicas con historial
// por usuario, como el chat).
func OptionalAuthMiddleware(jwtSecret string, cookieCfg config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := accessTokenFrom(c, cookieCfg)
		if tokenString != "" {
			if userID, businessID, role, err := jwt.ParseAccess(jwtSecret, tokenString); err == nil {
				c.Locals(LocalUserID, userID)
				c.Locals(LocalBusinessID, businessID)
				c.Locals(LocalRole, role)
			}
		}
		return c.Next()
	}
}

// RequireMinRole exige un rol mínimo en la jerarquía (admin > approver > editor > viewer).
// Debe ir después de AuthMiddleware. Un rol desconocido en el token se rechaza con 401.
func RequireMinRole(min string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" || !entity.IsValidRole(role) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "rol desconocido"})
		}
		if !entity.RoleAtLeast(role, min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes para esta operación"})
		}
		return c.Next()
	}
}

func accessTokenFrom(c *fiber.Ctx, cookieCfg config.CookieConfig) string {
	if v := c.Cookies(cookieCfg.AccessName); v != "" {
		return v
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetBusinessID devuelve el BusinessID del contexto (después del middleware de auth).
func GetBusinessID(c *fiber.Ctx) string {
	return localString(c, LocalBusinessID)
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
