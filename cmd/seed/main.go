// seed crea datos de demostración para desarrollo local. Es idempotente:
// puede ejecutarse varias veces sin duplicar filas.
//
// Uso: go run ./cmd/seed
//
// Crea:
//
//	Business: Acme Corp
//	Usuarios (password para todos: password123):
//	    admin@acme.com    (admin)
//	    approver@acme.com (approver)
//	    editor@acme.com   (editor)
//	    viewer@acme.com   (viewer)
//	Productos: 3 en distintos estados del ciclo de aprobación.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
	"github.com/tu-usuario/marketplace-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/marketplace-pro/pkg/config"
	"github.com/tu-usuario/marketplace-pro/pkg/logger"
)

const seedPassword = "password123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// ── Business ──────────────────────────────────────────────────────────────
	business, err := businessRepo.GetByEmail("acme@example.com")
	if err != nil {
		log.Fatal().Err(err).Msg("buscar business")
	}
	if business == nil {
		business = &entity.Business{
			ID:        uuid.NewString(),
			Name:      "Acme Corp",
			Email:     "acme@example.com",
			CreatedAt: time.Now().UTC(),
		}
		if err := businessRepo.Create(business); err != nil {
			log.Fatal().Err(err).Msg("crear business")
		}
	}
	log.Info().Str("business", business.Name).Msg("business listo")

	// ── Usuarios ──────────────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password")
	}

	seedUsers := []struct {
		email, firstName, lastName, role string
	}{
		{"admin@acme.com", "Alice", "Admin", entity.RoleAdmin},
		{"approver@acme.com", "Bob", "Approver", entity.RoleApprover},
		{"editor@acme.com", "Carol", "Editor", entity.RoleEditor},
		{"viewer@acme.com", "Dave", "Viewer", entity.RoleViewer},
	}

	usersByRole := make(map[string]*entity.User)
	for _, su := range seedUsers {
		user, err := userRepo.FindByEmail(su.email)
		if err != nil {
			log.Fatal().Err(err).Str("email", su.email).Msg("buscar usuario")
		}
		if user == nil {
			now := time.Now().UTC()
			user = &entity.User{
				ID:           uuid.NewString(),
				BusinessID:   business.ID,
				Email:        su.email,
				PasswordHash: string(hash),
				FirstName:    su.firstName,
				LastName:     su.lastName,
				Role:         su.role,
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := userRepo.Create(user); err != nil {
				log.Fatal().Err(err).Str("email", su.email).Msg("crear usuario")
			}
		}
		usersByRole[su.role] = user
		log.Info().Str("email", user.Email).Str("role", user.Role).Msg("usuario listo")
	}

	// ── Productos ─────────────────────────────────────────────────────────────
	seedProducts := []struct {
		name, description, price, status string
		createdBy                        *entity.User
		approvedBy                       *entity.User
	}{
		{
			name:        "Widget Pro",
			description: "A professional-grade widget for all your widgeting needs.",
			price:       "29.99",
			status:      entity.StatusApproved,
			createdBy:   usersByRole[entity.RoleEditor],
			approvedBy:  usersByRole[entity.RoleApprover],
		},
		{
			name:        "Gadget Lite",
			description: "Lightweight gadget, perfect for everyday use.",
			price:       "9.99",
			status:      entity.StatusPendingApproval,
			createdBy:   usersByRole[entity.RoleEditor],
		},
		{
			name:        "Super Doohickey",
			description: "A mysterious device of unknown purpose.",
			price:       "149.00",
			status:      entity.StatusDraft,
			createdBy:   usersByRole[entity.RoleAdmin],
		},
	}

	for _, sp := range seedProducts {
		exists, err := productExists(productRepo, business.ID, sp.name)
		if err != nil {
			log.Fatal().Err(err).Str("product", sp.name).Msg("buscar producto")
		}
		if exists {
			log.Info().Str("product", sp.name).Msg("producto ya existe, se omite")
			continue
		}

		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			log.Fatal().Err(err).Str("product", sp.name).Msg("precio inválido")
		}
		now := time.Now().UTC()
		product := &entity.Product{
			ID:          uuid.NewString(),
			BusinessID:  business.ID,
			Name:        sp.name,
			Description: sp.description,
			Price:       price,
			Status:      entity.StatusDraft,
			CreatedBy:   &entity.ProductActor{ID: sp.createdBy.ID},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := productRepo.Create(product); err != nil {
			log.Fatal().Err(err).Str("product", sp.name).Msg("crear producto")
		}

		// Los estados no-draft se alcanzan recorriendo el ciclo real de
		// aprobación, no escribiendo el estado a mano.
		if sp.status != entity.StatusDraft {
			if err := advance(productRepo, business.ID, product.ID, sp.status, sp.approvedBy); err != nil {
				log.Fatal().Err(err).Str("product", sp.name).Msg("avanzar estado")
			}
		}
		log.Info().Str("product", sp.name).Str("status", sp.status).Msg("producto listo")
	}

	log.Info().Str("password", seedPassword).Msg("seed completado; todos los usuarios comparten el mismo password")
}

func productExists(repo *postgres.ProductRepo, businessID, name string) (bool, error) {
	list, err := repo.List(businessID, repository.ProductFilter{Search: name})
	if err != nil {
		return false, err
	}
	for _, p := range list {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func advance(repo *postgres.ProductRepo, businessID, id, target string, approver *entity.User) error {
	_, err := repo.ApplyStatusChange(businessID, id, repository.StatusChange{
		From: entity.StatusDraft,
		To:   entity.StatusPendingApproval,
	})
	if err != nil || target == entity.StatusPendingApproval {
		return err
	}
	change := repository.StatusChange{
		From: entity.StatusPendingApproval,
		To:   entity.StatusApproved,
	}
	if approver != nil {
		change.ApprovedBy = &approver.ID
	}
	_, err = repo.ApplyStatusChange(businessID, id, change)
	return err
}
