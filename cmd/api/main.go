package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/medregistry/registry-api/internal/config"
	patientHandler "github.com/medregistry/registry-api/internal/handler/patient"
	tenantHandler "github.com/medregistry/registry-api/internal/handler/tenant"
	visitHandler "github.com/medregistry/registry-api/internal/handler/visit"
	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/internal/repository"
	"github.com/medregistry/registry-api/internal/repository/memory"
	"github.com/medregistry/registry-api/internal/repository/postgres"
	"github.com/medregistry/registry-api/internal/router"
	eventService "github.com/medregistry/registry-api/internal/service/event"
	patientService "github.com/medregistry/registry-api/internal/service/patient"
	tenantService "github.com/medregistry/registry-api/internal/service/tenant"
	visitService "github.com/medregistry/registry-api/internal/service/visit"
	"github.com/medregistry/registry-api/pkg/logger"
	"github.com/medregistry/registry-api/pkg/messaging/redis"
	"github.com/medregistry/registry-api/pkg/metrics"
	"github.com/medregistry/registry-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	reg := registry.New()
	m := metrics.New(cfg.Metrics.Namespace)

	// The outbox backs notification delivery. Postgres makes it durable
	// and lets a separate worker drain it; without a DSN events stay in
	// memory and are drained in-process.
	var outboxRepo repository.OutboxRepository
	if cfg.Database.DSN != "" {
		db, err := postgres.NewDB(cfg.Database.DSN)
		if err != nil {
			log.Fatal(err, "failed to connect to database")
		}
		defer db.Close()
		outboxRepo = postgres.NewOutboxRepository(db)
	} else {
		log.Info("no database configured, using in-memory outbox")
		outboxRepo = memory.NewOutboxRepository()
	}

	eventSvc := eventService.NewService(outboxRepo)
	tenantSvc := tenantService.NewService(reg, eventSvc, m, log)
	patientSvc := patientService.NewService(reg, eventSvc, m, log)
	visitSvc := visitService.NewService(reg, eventSvc, m, log)

	if cfg.JWT.Secret == "" {
		log.Warn("no JWT secret configured, identities come from the X-Principal header")
	}
	identity := middleware.NewIdentityMiddleware(middleware.IdentityConfig{
		JWTSecret: cfg.JWT.Secret,
		CacheTTL:  time.Duration(cfg.JWT.CacheTTLSeconds) * time.Second,
	})

	r := router.New(router.Config{
		Mode:           cfg.Server.Mode,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}, log.Zerolog(), identity,
		tenantHandler.NewHandler(tenantSvc),
		patientHandler.NewHandler(patientSvc),
		visitHandler.NewHandler(visitSvc),
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With an in-memory outbox no external worker can see the events,
	// so the processor runs inside this process when a broker is set.
	if cfg.Redis.URL != "" && cfg.Database.DSN == "" {
		broker, err := redis.NewBroker(cfg.Redis.ToBrokerConfig(), log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()

		zapLog, err := zap.NewProduction()
		if err != nil {
			log.Fatal(err, "failed to initialize worker logger")
		}
		processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), zapLog, m)
		go processor.Start(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited")
}
