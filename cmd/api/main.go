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

	appcash "github.com/jhoicas/restobar-api/internal/application/cash"
	appprinting "github.com/jhoicas/restobar-api/internal/application/printing"
	domainprinting "github.com/jhoicas/restobar-api/internal/domain/printing"
	"github.com/jhoicas/restobar-api/internal/infrastructure/cache"
	"github.com/jhoicas/restobar-api/internal/infrastructure/escpos"
	infrapdf "github.com/jhoicas/restobar-api/internal/infrastructure/pdf"
	"github.com/jhoicas/restobar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restobar-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/restobar-api/internal/interfaces/http"
	"github.com/jhoicas/restobar-api/pkg/config"
	"github.com/jhoicas/restobar-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("renderer", cfg.Print.Renderer).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.MigrateOnStart {
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("migrador")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()

	// Repositorios
	orderRepo := postgres.NewOrderRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	printerRepo := postgres.NewPrinterRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	shiftRepo := postgres.NewCashShiftRepository(pool)
	movementRepo := postgres.NewCashMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Impresión: ESC/POS para térmicas, PDF para impresoras de oficina o vista previa
	var renderer domainprinting.Renderer
	switch cfg.Print.Renderer {
	case "pdf":
		renderer = infrapdf.NewTicketRenderer(cfg.Print.DefaultPaperWidth)
	default:
		renderer = escpos.New(cfg.Print.DefaultPaperWidth)
	}
	dispatcher := queue.NewRedisDispatcher(rdb, cfg.Print.QueuePrefix, log.Component("print.queue"))
	printUC := appprinting.NewPrintOrderUseCase(
		orderRepo, branchRepo, printerRepo, categoryRepo,
		renderer, dispatcher, cfg.Print.PollTimeout, log.Zerolog(),
	)

	// Caja
	shiftUC := appcash.NewShiftUseCase(txRunner, registerRepo, shiftRepo, movementRepo, log.Zerolog())
	idempotency := cache.NewRedisIdempotencyStore(rdb, "")
	transferUC := appcash.NewTransferUseCase(txRunner, registerRepo, idempotency, cfg.Cash.IdempotencyTTL, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// el long-poll del agente puede esperar hasta PollTimeout
		WriteTimeout: cfg.Print.PollTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Restobar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Shifts:    shiftUC,
		Transfers: transferUC,
		Printing:  printUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("http"),
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
