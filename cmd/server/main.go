package main

import (
	"context"
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
	"golang.org/x/sync/errgroup"

	"onboarding/internal/onboarding/handler"
	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/renderer"
	"onboarding/internal/onboarding/service"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/templates"
	"onboarding/internal/onboarding/validation"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/httpserver"
	"onboarding/internal/platform/httputil"
	"onboarding/internal/platform/logger"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/middleware"
	"onboarding/internal/platform/ratelimit"
	"onboarding/internal/platform/redis"
	"onboarding/pkg/platform/audit"
	"onboarding/pkg/platform/audit/publishers/compliance"
	"onboarding/pkg/platform/audit/publishers/ops"
	kafkastore "onboarding/pkg/platform/audit/store/kafka"
	auditmemory "onboarding/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/onboarding.
func main() {
	cfg, warnings := config.FromEnv()
	log := logger.New(cfg.Log)
	for _, w := range warnings {
		log.Warn("configuration fallback", "detail", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("onboarding server stopped", "error", err)
		os.Exit(1)
	}
}

type healthCheck func(ctx context.Context) error

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	checks := map[string]healthCheck{}

	sessions, closeSessions, err := buildSessionStore(ctx, cfg.Redis, log, checks)
	if err != nil {
		return err
	}
	defer closeSessions()

	auditStore, closeAudit, err := buildAuditStore(ctx, cfg.Kafka, log, checks)
	if err != nil {
		return err
	}
	defer closeAudit()

	schemas, err := templates.Schemas()
	if err != nil {
		return err
	}
	mapper := mapping.New(schemas)
	files := store.NewInMemoryFileStore(cfg.Wizard.MaxUploadBytes, cfg.Redis.SessionTTL)

	auditor := compliance.New(auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	tracker := ops.New(auditStore,
		ops.WithLogger(log),
		ops.WithMetrics(ops.NewMetrics()),
		ops.WithCircuitBreaker(ops.NewCircuitBreaker(5, 30*time.Second)),
	)

	render := renderer.New(cfg.Renderer.BaseURL,
		renderer.WithSubmitPath(cfg.Renderer.SubmitPath),
		renderer.WithTimeout(cfg.Renderer.Timeout),
		renderer.WithFileSource(files),
		renderer.WithLogger(log),
	)
	orchestrator := submission.NewOrchestrator(mapper, render,
		submission.WithLogger(log),
		submission.WithMetrics(submission.NewMetrics()),
		submission.WithAuditor(auditor),
		submission.WithTracker(submission.NewTracker(cfg.Submission.Retention)),
	)

	svc := service.New(sessions, files, orchestrator, mapper,
		service.WithLogger(log),
		service.WithMetrics(service.NewMetrics()),
		service.WithValidator(validation.New(validation.Config{
			MaxFileSize: cfg.Wizard.MaxUploadBytes,
			UIDPolicy:   cfg.Wizard.UIDPolicy,
		})),
		service.WithSelector(templates.Selector{FormK: cfg.Wizard.FormKPolicy}),
		service.WithAuditor(auditor),
		service.WithOpsTracker(tracker),
	)

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata(proxies))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log, metrics.New()))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(checks))
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	r.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter, log))
		handler.New(svc, log, cfg.Wizard.MaxUploadBytes).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting onboarding server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Sweep()
				if n := files.Sweep(); n > 0 {
					log.Info("dropped uploads of expired sessions", "count", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := tracker.Close(shutdownCtx); cerr != nil {
			log.Warn("ops audit tracker did not drain", "error", cerr)
		}
		log.Info("onboarding server stopped")
		return err
	})
	return g.Wait()
}

func buildSessionStore(ctx context.Context, cfg config.RedisConfig, log *slog.Logger, checks map[string]healthCheck) (service.SessionStore, func(), error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set, keeping sessions in memory")
		return store.NewInMemorySessionStore(cfg.SessionTTL), func() {}, nil
	}
	checks["redis"] = client.Health
	return store.NewRedisSessionStore(client.Client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

func buildAuditStore(ctx context.Context, cfg config.Kafka, log *slog.Logger, checks map[string]healthCheck) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, keeping audit events in memory")
		return auditmemory.NewInMemoryStore(), func() {}, nil
	}
	s, err := kafkastore.New(ctx, cfg.Brokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := s.EnsureTopic(ctx, 3, 1); err != nil {
		log.Warn("could not ensure audit topic", "topic", cfg.AuditTopic, "error", err)
	}
	checks["kafka"] = s.Health
	return s, s.Close, nil
}

func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		results := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, results)
	}
}
