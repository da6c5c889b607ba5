package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/marketplace-pro/internal/application/auth"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
	apphttp "github.com/tu-usuario/marketplace-pro/internal/interfaces/http"
	"github.com/tu-usuario/marketplace-pro/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el flujo completo de sesión
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // por ID
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.users[id]; u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(businessID, id string) (*entity.User, error) {
	u, _ := r.FindByID(id)
	if u == nil || u.BusinessID != businessID {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) ListByBusiness(businessID string) ([]*entity.User, error) {
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error { return nil }

func (r *memUserRepo) Delete(businessID, id string) (bool, error) { return false, nil }

type memBusinessRepo struct {
	business *entity.Business
}

func (r *memBusinessRepo) Create(b *entity.Business) error { return nil }

func (r *memBusinessRepo) GetByID(id string) (*entity.Business, error) {
	if r.business != nil && r.business.ID == id {
		return r.business, nil
	}
	return nil, nil
}

func (r *memBusinessRepo) GetByEmail(email string) (*entity.Business, error) { return nil, nil }

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.RefreshToken
}

func (r *memTokenRepo) Save(t *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.ID] = t
	return nil
}

func (r *memTokenRepo) Consume(jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tokens[jti]
	if t == nil || t.IsRevoked() {
		return domain.ErrTokenRevoked
	}
	if t.IsExpired() {
		return domain.ErrTokenExpired
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *memTokenRepo) Revoke(jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.tokens[jti]; t != nil && !t.IsRevoked() {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

// Stubs mínimos para construir el router completo.

type stubProductRepo struct{}

func (stubProductRepo) Create(*entity.Product) error { return nil }
func (stubProductRepo) GetByID(string, string) (*entity.Product, error) {
	return nil, nil
}
func (stubProductRepo) List(string, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (stubProductRepo) UpdateFields(*entity.Product) (bool, error) { return false, nil }
func (stubProductRepo) ApplyStatusChange(string, string, repository.StatusChange) (bool, error) {
	return false, nil
}
func (stubProductRepo) Delete(string, string) (bool, error) { return false, nil }
func (stubProductRepo) ListApproved(repository.PublicProductFilter, int) ([]*entity.Product, error) {
	return nil, nil
}
func (stubProductRepo) GetApprovedByID(string) (*entity.Product, error) { return nil, nil }

type stubChatRepo struct{}

func (stubChatRepo) Save(*entity.ChatMessage) error { return nil }
func (stubChatRepo) ListByUser(string, int) ([]*entity.ChatMessage, error) {
	return nil, nil
}
func (stubChatRepo) ListBySession(string, int) ([]*entity.ChatMessage, error) {
	return nil, nil
}

type stubLLM struct{}

func (stubLLM) Answer(ctx context.Context, question, productContext string) (string, error) {
	return "respuesta", nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Montaje
// ──────────────────────────────────────────────────────────────────────────────

const loginEmail = "admin@acme.com"

func buildSessionApp(t *testing.T) (*fiber.App, *memUserRepo) {
	t.Helper()

	business := &entity.Business{ID: "b1", Name: "Acme Corp", Email: "acme@example.com"}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUserRepo{users: map[string]*entity.User{
		"u1": {
			ID: "u1", BusinessID: business.ID, Email: loginEmail,
			PasswordHash: string(hash), FirstName: "Alice", LastName: "Admin",
			Role: entity.RoleAdmin, IsActive: true,
		},
	}}

	jwtCfg := config.JWTConfig{
		Secret:        testJWTSecret,
		AccessMinutes: testExpMin,
		RefreshDays:   7,
		Issuer:        testIssuer,
	}
	authUC := auth.NewAuthUseCase(users, &memBusinessRepo{business: business},
		&memTokenRepo{tokens: map[string]*entity.RefreshToken{}},
		auth.JWTConfig{
			Secret:        jwtCfg.Secret,
			AccessMinutes: jwtCfg.AccessMinutes,
			RefreshDays:   jwtCfg.RefreshDays,
			Issuer:        jwtCfg.Issuer,
		})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		UserUC:    usecase.NewUserUseCase(users, &memBusinessRepo{business: business}),
		ProductUC: usecase.NewProductUseCase(stubProductRepo{}),
		ChatUC:    usecase.NewChatUseCase(stubLLM{}, stubChatRepo{}, stubProductRepo{}),
		JWT:       jwtCfg,
		Cookie:    testCookieCfg,
	})
	return app, users
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: login → me → refresh → replay → logout
// ──────────────────────────────────────────────────────────────────────────────

func TestSesion_FlujoCompleto(t *testing.T) {
	app, _ := buildSessionApp(t)

	// Login: 200 con cookies HttpOnly para ambos tokens.
	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": loginEmail, "password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	accessCk := cookieByName(t, resp, testCookieCfg.AccessName)
	refreshCk := cookieByName(t, resp, testCookieCfg.RefreshName)
	require.NotNil(t, accessCk, "login debe dejar cookie de access")
	require.NotNil(t, refreshCk, "login debe dejar cookie de refresh")
	assert.True(t, accessCk.HttpOnly)
	assert.True(t, refreshCk.HttpOnly)

	// Me: la cookie de access identifica al usuario.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(accessCk)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, loginEmail, me["email"])

	// Refresh: rota el par, la cookie nueva es distinta de la vieja.
	rotResp := postJSON(t, app, "/api/auth/refresh", nil, refreshCk)
	defer rotResp.Body.Close()
	require.Equal(t, http.StatusOK, rotResp.StatusCode)

	newRefreshCk := cookieByName(t, rotResp, testCookieCfg.RefreshName)
	require.NotNil(t, newRefreshCk)
	assert.NotEqual(t, refreshCk.Value, newRefreshCk.Value, "el refresh debe rotar")

	// Replay del refresh viejo: ya fue consumido, 401.
	replayResp := postJSON(t, app, "/api/auth/refresh", nil, refreshCk)
	defer replayResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, replayResp.StatusCode,
		"un refresh token ya rotado no puede reutilizarse")

	// Logout con el refresh vigente: 200 y cookies expiradas.
	outResp := postJSON(t, app, "/api/auth/logout", nil, newRefreshCk)
	defer outResp.Body.Close()
	require.Equal(t, http.StatusOK, outResp.StatusCode)

	cleared := cookieByName(t, outResp, testCookieCfg.RefreshName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value, "logout debe limpiar las cookies")

	// El refresh revocado en el logout ya no sirve.
	deadResp := postJSON(t, app, "/api/auth/refresh", nil, newRefreshCk)
	defer deadResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, deadResp.StatusCode)
}

func TestSesion_LoginCredencialesInvalidas(t *testing.T) {
	app, _ := buildSessionApp(t)

	// Password incorrecto y email desconocido responden idéntico (400).
	badPass := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": loginEmail, "password": "incorrecta",
	})
	defer badPass.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badPass.StatusCode)

	badEmail := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "nadie@acme.com", "password": "password123",
	})
	defer badEmail.Body.Close()
	assert.Equal(t, badPass.StatusCode, badEmail.StatusCode,
		"no debe poder distinguirse email desconocido de password incorrecto")
}

func TestSesion_RefreshNoSirveComoAccessToken(t *testing.T) {
	app, _ := buildSessionApp(t)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": loginEmail, "password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refreshCk := cookieByName(t, resp, testCookieCfg.RefreshName)
	require.NotNil(t, refreshCk)

	// Presentar el refresh de larga vida donde se espera el access: las rutas
	// autenticadas deben rechazarlo aunque la firma sea válida.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieCfg.AccessName, Value: refreshCk.Value})
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode,
		"un refresh token no debe autenticar peticiones")

	chResp := postJSON(t, app, "/api/auth/change-password", map[string]string{
		"old_password": "password123", "new_password": "otra-password-larga",
	}, &http.Cookie{Name: testCookieCfg.AccessName, Value: refreshCk.Value})
	defer chResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, chResp.StatusCode)
}

func TestSesion_RefreshSinCookieRetorna401(t *testing.T) {
	app, _ := buildSessionApp(t)

	resp := postJSON(t, app, "/api/auth/refresh", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSesion_LogoutSiempre200(t *testing.T) {
	app, _ := buildSessionApp(t)

	// Sin cookie alguna el logout igual responde 200.
	resp := postJSON(t, app, "/api/auth/logout", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSesion_UsuarioDesactivadoPierdeAcceso(t *testing.T) {
	app, users := buildSessionApp(t)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": loginEmail, "password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accessCk := cookieByName(t, resp, testCookieCfg.AccessName)
	refreshCk := cookieByName(t, resp, testCookieCfg.RefreshName)

	// Desactivar la cuenta después del login.
	users.mu.Lock()
	users.users["u1"].IsActive = false
	users.mu.Unlock()

	// /me re-lee el usuario: el access token vigente ya no alcanza.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(accessCk)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)

	// Y el refresh tampoco emite un par nuevo.
	rotResp := postJSON(t, app, "/api/auth/refresh", nil, refreshCk)
	defer rotResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, rotResp.StatusCode)
}
