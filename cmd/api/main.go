package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	appsale "github.com/jhoicas/Ventas-api/internal/application/sale"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/messaging/kafka"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/messaging/rabbitmq"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	infraresilience "github.com/jhoicas/Ventas-api/internal/infrastructure/resilience"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
	"github.com/jhoicas/Ventas-api/pkg/resilience"
	"github.com/jhoicas/Ventas-api/pkg/tracing"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.Auth.SalesAPIKey == "" {
		log.Warn().Msg("SALES_API_KEY vacío: el endpoint de ventas queda sin autenticación")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	m := metrics.New("ventas")

	// ── Almacenamiento ────────────────────────────────────────────────────────
	var (
		baseTx ports.TxRunner
		sales  repository.SaleRepository
		closer func()
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		baseTx, sales, closer = store, store.Sales(), func() {}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{}, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		baseTx = postgres.NewTxRunner(pool, cfg.Storage.TxMaxAttempts, log.Component("tx"), m)
		sales, closer = postgres.NewSaleRepository(pool), pool.Close
	}
	defer closer()

	breakerCfg := resilience.DefaultConfig("ledger")
	breakerCfg.FailureThreshold = uint32(cfg.Breaker.FailureThreshold)
	breakerCfg.Timeout = cfg.Breaker.Timeout
	txRunner := infraresilience.NewBreakerTxRunner(baseTx, breakerCfg, log.Component("breaker"), m)

	// ── Ventas ────────────────────────────────────────────────────────────────
	saleOpts := []appsale.Option{appsale.WithMetrics(m)}
	if cfg.Redis.Addr != "" {
		saleCache, err := cache.NewRedisSaleCache(ctx, cfg.Redis)
		if err != nil {
			// La caché es opcional: sin ella cada reintento abre transacción.
			log.Warn().Err(err).Msg("redis no disponible; se continúa sin caché")
		} else {
			defer saleCache.Close()
			saleOpts = append(saleOpts, appsale.WithCache(saleCache))
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewSalePublisher(cfg.Kafka.Brokers, cfg.Kafka.SalesTopic, m)
		defer publisher.Close()
		saleOpts = append(saleOpts, appsale.WithPublisher(publisher))
	}
	registerSaleUC := appsale.NewRegisterSaleUseCase(txRunner, log.Component("ventas"), saleOpts...)
	saleQueryUC := appsale.NewQueryUseCase(sales, infrapdf.NewReceiptGenerator(cfg.App.Name))

	// ── Traslados ─────────────────────────────────────────────────────────────
	executeTransferUC := transfer.NewExecuteTransferUseCase(txRunner, log.Component("traslados"))
	trigger := transfer.NewAcceptedTrigger(executeTransferUC, txRunner, log.Component("traslados"), m)
	resubmitUC := transfer.NewResubmitUseCase(txRunner, trigger)

	var wg sync.WaitGroup
	if cfg.RabbitMQ.URL != "" {
		consumer, err := rabbitmq.NewTransferChangeConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.TransferQueue, trigger, log.Component("rabbitmq"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer consumer.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("consumidor de traslados detenido")
			}
		}()
	}

	// ── HTTP ──────────────────────────────────────────────────────────────────
	app := httpRouter.NewApp(httpRouter.RouterDeps{
		ServiceName:  cfg.App.Name,
		RegisterSale: registerSaleUC,
		SaleQuery:    saleQueryUC,
		Resubmit:     resubmitUC,
		SalesAPIKey:  cfg.Auth.SalesAPIKey,
		JWTSecret:    cfg.JWT.Secret,
		Metrics:      m,
		Logger:       log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ventas API",
		}))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	wg.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
