package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/adapters"
	"advisormatch_backend/internal/advisors"
	"advisormatch_backend/internal/auth"
	"advisormatch_backend/internal/campaigns"
	"advisormatch_backend/internal/email"
	"advisormatch_backend/internal/events"
	apphttp "advisormatch_backend/internal/http"
	"advisormatch_backend/internal/http/router"
	"advisormatch_backend/internal/leads"
	leadrepo "advisormatch_backend/internal/leads/repository"
	"advisormatch_backend/internal/matching"
	"advisormatch_backend/internal/notification"
	"advisormatch_backend/internal/storage"
	"advisormatch_backend/internal/verification"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/db"
	"advisormatch_backend/platform/logger"
	"advisormatch_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	buckets, err := matching.LoadBucketTable(cfg.GetBucketTablePath())
	if err != nil {
		log.Warn("failed to load bucket table, using defaults", "path", cfg.GetBucketTablePath(), "error", err)
		buckets = matching.DefaultBucketTable()
	}
	engine := matching.NewEngine(buckets)

	sender := email.NewSender(cfg)
	verifier := verification.NewClient(cfg, log)
	if !verifier.Enabled() {
		log.Warn("verification registry not configured; intake enrichment disabled")
	}

	// Storage is optional: without MinIO the registry runs, branding
	// uploads are rejected by the service.
	var store storage.Service
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure branding bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketAdvisorBranding())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketAdvisorBranding())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		store = minioSvc
		log.Info("storage service initialized", "brandingBucket", cfg.GetMinioBucketAdvisorBranding())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; branding uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log)
	if err := authModule.Service().EnsureAdminBootstrap(ctx); err != nil {
		log.Error("failed to bootstrap admin account", "error", err)
		panic("failed to bootstrap admin account: " + err.Error())
	}

	advisorsModule := advisors.NewModule(pool, store, cfg, val, eventBus, log)
	campaignsModule := campaigns.NewModule(pool, leadrepo.New(pool))
	leadsModule := leads.NewModule(pool, advisorsModule.Service(), engine, verifier, campaignsModule.Service(), eventBus, log)

	// Notification module subscribes to domain events (not HTTP-facing).
	notificationModule := notification.NewModule(
		pool,
		sender,
		adapters.NewAdvisorDirectory(advisorsModule.Service()),
		adapters.NewLeadReader(leadsModule.Repository()),
		cfg,
		log,
	)
	notificationModule.Subscribe(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			advisorsModule,
			campaignsModule,
			leadsModule,
		},
	}

	engineHTTP := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engineHTTP.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
