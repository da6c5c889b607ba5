package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/marketplace-pro/internal/application/auth"
	"github.com/tu-usuario/marketplace-pro/internal/application/ports"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
	infraai "github.com/tu-usuario/marketplace-pro/internal/infrastructure/ai"
	"github.com/tu-usuario/marketplace-pro/internal/infrastructure/postgres"
	infraredis "github.com/tu-usuario/marketplace-pro/internal/infrastructure/redis"
	httpRouter "github.com/tu-usuario/marketplace-pro/internal/interfaces/http"
	"github.com/tu-usuario/marketplace-pro/pkg/config"
	"github.com/tu-usuario/marketplace-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)

	// Refresh tokens: Redis si hay REDIS_URL (TTL automático), si no PostgreSQL.
	var tokenRepo repository.RefreshTokenRepository
	if cfg.Redis.URL != "" {
		store, err := infraredis.NewTokenStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		tokenRepo = store
		log.Info().Msg("refresh tokens en Redis")
	} else {
		pgTokens := postgres.NewRefreshTokenRepository(pool)
		tokenRepo = pgTokens
		// Sin TTL automático de Redis, la tabla necesita purga periódica.
		go func() {
			ticker := time.NewTicker(12 * time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				n, err := pgTokens.DeleteExpired()
				if err != nil {
					log.Error().Err(err).Msg("purga de refresh tokens")
					continue
				}
				if n > 0 {
					log.Info().Int64("eliminados", n).Msg("refresh tokens vencidos purgados")
				}
			}
		}()
	}

	var llm ports.LLMService
	switch cfg.AI.Provider {
	case "gemini":
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}

	authUC := auth.NewAuthUseCase(userRepo, businessRepo, tokenRepo, auth.JWTConfig{
		Secret:        cfg.JWT.Secret,
		AccessMinutes: cfg.JWT.AccessMinutes,
		RefreshDays:   cfg.JWT.RefreshDays,
		Issuer:        cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, businessRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	chatUC := usecase.NewChatUseCase(llm, chatRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Marketplace API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ProductUC: productUC,
		ChatUC:    chatUC,
		JWT:       cfg.JWT,
		Cookie:    cfg.Cookie,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
