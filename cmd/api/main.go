package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-agenda/internal/db"
	payDomain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/archive"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/mercadopago"
	infraRepo "github.com/BruksfildServices01/salon-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/salon-agenda/internal/logging"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/obs"
	"github.com/BruksfildServices01/salon-agenda/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := obs.Setup(ctx, obs.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampling,
	})
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("database setup failed", "err", err)
		os.Exit(1)
	}

	gateway, err := mercadopago.New(cfg.MPAccessToken)
	if err != nil {
		logger.Error("mercado pago client setup failed", "err", err)
		os.Exit(1)
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	dispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			logger.Warn("audit queue not drained", "err", err)
		}
	}()

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitURL != "" {
		rp, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Error("rabbitmq unavailable, events disabled", "err", err)
		} else {
			defer func() { _ = rp.Close() }()
			publisher = rp
			logger.Info("domain events enabled (rabbitmq)", "exchange", cfg.RabbitExchange)
		}
	}

	var counter middleware.Counter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL, rate limiting disabled", "err", err)
		} else {
			rdb := redis.NewClient(opts)
			defer func() { _ = rdb.Close() }()
			counter = middleware.NewRedisCounter(rdb)
			logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMin)
		}
	}

	deps := routes.Deps{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Appointments: infraRepo.NewAppointmentGormRepository(db),
		Sales:        infraRepo.NewSaleGormRepository(db),
		Audit:        dispatcher,
		Publisher:    publisher,
		Resolver:     payDomain.NewResolver(gateway, logger),
		RateLimiter:  counter,
	}

	if cfg.ArchiveBucket != "" {
		deps.Archiver = archive.NewS3Archive(archive.Config{
			Bucket:    cfg.ArchiveBucket,
			Region:    cfg.ArchiveRegion,
			Endpoint:  cfg.ArchiveEndpoint,
			AccessKey: cfg.ArchiveAccessKey,
			SecretKey: cfg.ArchiveSecretKey,
		})
		logger.Info("webhook archive enabled (s3)", "bucket", cfg.ArchiveBucket)
	}

	if cfg.MPWebhookSecret == "" {
		logger.Warn("MP_WEBHOOK_SECRET not set, webhook signatures cannot be verified")
	}

	// ======================================================
	// 🌍 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "err", err)
	}
	logger.Info("http server stopped")
}
