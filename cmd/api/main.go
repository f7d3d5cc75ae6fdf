package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/maestranza-stock/docs"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/alerts"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/memory"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/maestranza-stock/internal/interfaces/http"
	"github.com/jhoicas/maestranza-stock/pkg/config"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

// @title						Maestranza Stock API
// @version					1.0
// @description				Motor de stock: movimientos de inventario, cantidades y alertas de stock bajo y vencimiento.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Bearer <JWT>
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "maestranza-stock:", err)
		os.Exit(1)
	}
}

// run arma y sirve la aplicación. Los errores de arranque se devuelven: los defer de
// cierre (pool, canal AMQP) corren antes de salir.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Stock.Store).
		Int("expiring_soon_days", cfg.Stock.ExpiringSoonDays).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		itemRepo repository.ItemRepository
		movRepo  repository.MovementRepository
	)
	switch cfg.Stock.Store {
	case config.StoreMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		st := memory.NewStore()
		txRunner, itemRepo, movRepo = st, st.Items(), st.Movements()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("esquema de inventario: %w", err)
		}
		txRunner = postgres.NewTxRunner(pool)
		itemRepo = postgres.NewItemRepository(pool)
		movRepo = postgres.NewMovementRepository(pool)
	}

	sinks := alerts.MultiSink{alerts.NewLogSink(log)}
	if cfg.AMQP.Enabled() {
		publisher, err := alerts.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			return fmt.Errorf("conexión a RabbitMQ: %w", err)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("publicación de alertas habilitada")
	}

	policy := stock.AlertPolicy{ExpiringSoonDays: cfg.Stock.ExpiringSoonDays}
	engine := inventory.NewEngine(txRunner, movRepo, policy, sinks)
	itemUC := inventory.NewItemUseCase(itemRepo, policy)
	reconcileUC := inventory.NewReconcileUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Stock.Store})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:     itemUC,
		Reconcile: reconcileUC,
		Engine:    engine,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
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
	return nil
}
