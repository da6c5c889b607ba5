package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/marketplace-pro/internal/application/auth"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ProductUC *usecase.ProductUseCase
	ChatUC    *usecase.ChatUseCase
	JWT       config.JWTConfig
	Cookie    config.CookieConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	requireAuth := AuthMiddleware(deps.JWT.Secret, deps.Cookie)
	optionalAuth := OptionalAuthMiddleware(deps.JWT.Secret, deps.Cookie)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWT, deps.Cookie)
	userHandler := NewUserHandler(deps.UserUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Post("/change-password", requireAuth, userHandler.ChangePassword)

	// Catálogo público (se registra antes que /products/:id para que
	// "public" no se interprete como un ID de producto)
	publicHandler := NewPublicHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/public", publicHandler.List)
	products.Get("/public/:id", publicHandler.GetByID)

	// Products (protegido; las transiciones exigen rol según la jerarquía)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Use(requireAuth)
	products.Get("/", RequireMinRole(entity.RoleViewer), productHandler.List)
	products.Post("/", RequireMinRole(entity.RoleEditor), productHandler.Create)
	products.Get("/:id", RequireMinRole(entity.RoleViewer), productHandler.GetByID)
	products.Patch("/:id", RequireMinRole(entity.RoleEditor), productHandler.Update)
	products.Delete("/:id", RequireMinRole(entity.RoleAdmin), productHandler.Delete)
	products.Post("/:id/submit", RequireMinRole(entity.RoleEditor), productHandler.Submit)
	products.Post("/:id/approve", RequireMinRole(entity.RoleApprover), productHandler.Approve)
	products.Post("/:id/reject", RequireMinRole(entity.RoleApprover), productHandler.Reject)

	// Users (solo admin)
	users := api.Group("/users", requireAuth, RequireMinRole(entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Chat (público; identifica al usuario si hay sesión)
	chat := api.Group("/chat", optionalAuth)
	chatHandler := NewChatHandler(deps.ChatUC)
	chat.Post("/", chatHandler.Ask)
	chat.Get("/history", chatHandler.History)
}
