package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/marketplace-pro/pkg/config"
)

// setAuthCookies escribe los dos tokens como cookies HttpOnly. El max-age de
// cada cookie coincide con la vida del token que transporta.
func setAuthCookies(c *fiber.Ctx, cookieCfg config.CookieConfig, jwtCfg config.JWTConfig, access, refresh string) {
	accessTTL := time.Duration(jwtCfg.AccessMinutes) * time.Minute
	refreshTTL := time.Duration(jwtCfg.RefreshDays) * 24 * time.Hour
	c.Cookie(authCookie(cookieCfg, cookieCfg.AccessName, access, accessTTL))
	c.Cookie(authCookie(cookieCfg, cookieCfg.RefreshName, refresh, refreshTTL))
}

// clearAuthCookies expira ambas cookies (logout).
func clearAuthCookies(c *fiber.Ctx, cookieCfg config.CookieConfig) {
	c.Cookie(authCookie(cookieCfg, cookieCfg.AccessName, "", -time.Hour))
	c.Cookie(authCookie(cookieCfg, cookieCfg.RefreshName, "", -time.Hour))
}

func authCookie(cfg config.CookieConfig, name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: cfg.SameSite,
	}
}
