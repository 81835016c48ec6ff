package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/medregistry/registry-api/internal/repository/postgres"
	"github.com/medregistry/registry-api/pkg/messaging/redis"
	"github.com/medregistry/registry-api/pkg/metrics"
	"github.com/medregistry/registry-api/pkg/worker"
)

// The worker drains the postgres outbox and publishes notification events
// to Redis. It deploys separately from the API so delivery keeps up even
// while the API restarts.
type workerConfig struct {
	DatabaseDSN      string        `envconfig:"DATABASE_DSN" required:"true"`
	RedisURL         string        `envconfig:"REDIS_URL" required:"true"`
	RedisMaxRetries  int           `envconfig:"REDIS_MAX_RETRIES" default:"3"`
	RedisPoolSize    int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	BatchSize        int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	ChannelPrefix    string        `envconfig:"OUTBOX_CHANNEL_PREFIX" default:"registry"`
	HealthAddr       string        `envconfig:"HEALTH_ADDR" default:":8081"`
	MetricsNamespace string        `envconfig:"METRICS_NAMESPACE" default:"registry_worker"`
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	var cfg workerConfig
	if err := envconfig.Process("registry", &cfg); err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	outboxRepo := postgres.NewOutboxRepository(db)

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redis.NewBroker(redis.Config{
		URL:        cfg.RedisURL,
		MaxRetries: cfg.RedisMaxRetries,
		PoolSize:   cfg.RedisPoolSize,
	}, &zl)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.BatchSize,
		PollInterval:  cfg.PollInterval,
		ChannelPrefix: cfg.ChannelPrefix,
	}, log, metrics.New(cfg.MetricsNamespace))

	startHealthServer(cfg.HealthAddr, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("health server failed", zap.Error(err))
			os.Exit(1)
		}
	}()
}
