package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	cardclient "escrow/internal/clientcard/client"
	cardmetrics "escrow/internal/clientcard/metrics"
	cardservice "escrow/internal/clientcard/service"
	cardstore "escrow/internal/clientcard/store"
	jwttoken "escrow/internal/jwt_token"
	"escrow/internal/platform/config"
	"escrow/internal/platform/httpserver"
	"escrow/internal/platform/kafka"
	"escrow/internal/platform/logger"
	"escrow/internal/platform/metrics"
	"escrow/internal/platform/middleware"
	"escrow/internal/platform/postgres"
	"escrow/internal/platform/redis"
	refundhandler "escrow/internal/refund/handler"
	refundmetrics "escrow/internal/refund/metrics"
	refundservice "escrow/internal/refund/service"
	"escrow/pkg/platform/audit"
	auditpublisher "escrow/pkg/platform/audit/publisher"
	kafkastore "escrow/pkg/platform/audit/store/kafka"
	auditmemory "escrow/pkg/platform/audit/store/memory"
	auditpostgres "escrow/pkg/platform/audit/store/postgres"
	"escrow/pkg/platform/circuit"
)

const (
	auditBufferSize      = 1024
	cacheJanitorInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

// main wires dependencies and runs the HTTP server until SIGINT/SIGTERM.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("escrow stopped with error", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	redis *redis.Client
	db    *sql.DB
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	auditor, err := buildAuditPublisher(ctx, cfg, deps, log)
	if err != nil {
		return err
	}
	defer auditor.Close()

	cardMetrics := cardmetrics.New()
	cache, janitor, err := buildCache(ctx, cfg, deps, cardMetrics)
	if err != nil {
		return err
	}

	cspc := cardclient.New(cfg.ClientCard.BaseURL, cfg.ClientCard.APIKey, cfg.ClientCard.Timeout,
		cardclient.WithBreaker(circuit.New("cspc")),
		cardclient.WithLogger(log),
		cardclient.WithStateChangeHook(cardservice.CircuitAuditHook(auditor, log)),
	)
	cards := cardservice.New(cspc,
		cardservice.WithCache(cache),
		cardservice.WithLogger(log),
		cardservice.WithMetrics(cardMetrics),
		cardservice.WithAuditPublisher(auditor),
	)
	enricher := refundservice.New(cards,
		refundservice.WithLogger(log),
		refundservice.WithMetrics(refundmetrics.New()),
		refundservice.WithAuditPublisher(auditor),
	)

	var jwtValidator middleware.JWTValidator
	if cfg.Server.AuthDisabled {
		log.Warn("bearer token checks disabled on refund routes")
	} else {
		jwtValidator = jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	}

	router := chi.NewRouter()
	router.Get("/health", healthHandler(deps))
	router.Handle("/metrics", promhttp.Handler())
	refundhandler.New(enricher, log, metrics.New(), jwtValidator).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting escrow", "addr", cfg.Server.Addr, "cache", cfg.ClientCard.Cache)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	if janitor != nil {
		g.Go(func() error {
			runCacheJanitor(gctx, janitor, log)
			return nil
		})
	}
	return g.Wait()
}

func connect(ctx context.Context, cfg config.Config) (*infra, error) {
	deps := &infra{}
	var err error
	if deps.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if deps.db, err = postgres.Open(ctx, cfg.Database); err != nil {
		deps.close()
		return nil, err
	}
	if deps.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		deps.close()
		return nil, err
	}
	return deps, nil
}

// buildAuditPublisher prefers Kafka, then PostgreSQL, then memory.
func buildAuditPublisher(ctx context.Context, cfg config.Config, deps *infra, log *slog.Logger) (*auditpublisher.Publisher, error) {
	var store audit.Store
	switch {
	case deps.kafka != nil:
		if err := kafkastore.EnsureTopic(ctx, deps.kafka, cfg.Kafka.AuditTopic, 3, 1); err != nil {
			return nil, err
		}
		store = kafkastore.NewStore(deps.kafka, cfg.Kafka.AuditTopic)
	case deps.db != nil:
		pg := auditpostgres.New(deps.db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = pg
	default:
		store = auditmemory.NewInMemoryStore()
	}
	return auditpublisher.NewPublisher(store,
		auditpublisher.WithAsyncBuffer(auditBufferSize),
		auditpublisher.WithLogger(log),
	), nil
}

// expiringCache is a cache that needs periodic cleanup of stale entries.
type expiringCache interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

func buildCache(ctx context.Context, cfg config.Config, deps *infra, m *cardmetrics.Metrics) (cardservice.Cache, expiringCache, error) {
	ttl := cfg.ClientCard.CacheTTL
	switch cfg.ClientCard.Cache {
	case "redis":
		if deps.redis == nil {
			return nil, nil, errors.New("CSPC_CACHE=redis requires REDIS_URL")
		}
		return cardstore.NewRedisCache(deps.redis.Client, ttl, m), nil, nil
	case "postgres":
		if deps.db == nil {
			return nil, nil, errors.New("CSPC_CACHE=postgres requires DATABASE_URL")
		}
		pg := cardstore.NewPostgresCache(deps.db, ttl, m)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return pg, pg, nil
	case "memory", "":
		mem := cardstore.NewInMemoryCache(ttl, cardstore.WithMemoryMetrics(m))
		return mem, mem, nil
	default:
		return nil, nil, fmt.Errorf("unknown CSPC_CACHE backend %q", cfg.ClientCard.Cache)
	}
}

func runCacheJanitor(ctx context.Context, cache expiringCache, log *slog.Logger) {
	ticker := time.NewTicker(cacheJanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.DeleteExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "client card cache cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "client card cache cleaned", "deleted", n)
			}
		}
	}
}

func healthHandler(deps *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := `{"status":"ok"}`
		if deps.redis != nil {
			if err := deps.redis.Health(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, `{"status":"redis unavailable"}`
			}
		}
		if deps.db != nil {
			if err := deps.db.PingContext(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, `{"status":"database unavailable"}`
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
