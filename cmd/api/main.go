package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fitcompany/fitstock-api/internal/application/purchases"
	"github.com/fitcompany/fitstock-api/internal/application/sales"
	"github.com/fitcompany/fitstock-api/internal/infrastructure/postgres"
	"github.com/fitcompany/fitstock-api/internal/infrastructure/rediscache"
	httpRouter "github.com/fitcompany/fitstock-api/internal/interfaces/http"
	"github.com/fitcompany/fitstock-api/pkg/config"
	"github.com/fitcompany/fitstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Name:  cfg.App.Name,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métodos de pago: dato de referencia, cacheado en Redis si está configurado.
	var methodCache rediscache.MethodCache = rediscache.NoopMethodCache{}
	if cfg.Redis.Addr != "" {
		redisCache := rediscache.NewRedisMethodCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, cache desactivado")
		} else {
			methodCache = redisCache
			defer redisCache.Close()
		}
	}
	methodRepo := rediscache.NewCachedMethodRepository(
		postgres.NewPaymentMethodRepository(pool), methodCache, cfg.Redis.TTL,
	)

	salesUC := sales.NewUseCase(txRunner, userRepo, methodRepo, saleRepo, paymentRepo)
	purchasesUC := purchases.NewUseCase(txRunner, userRepo, purchaseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SalesUC:     salesUC,
		PurchasesUC: purchasesUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
