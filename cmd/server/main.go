// Debate Coach - argument evaluation server
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

	"github.com/ashureev/debate-coach/internal/api"
	"github.com/ashureev/debate-coach/internal/config"
	"github.com/ashureev/debate-coach/internal/evaluation"
	"github.com/ashureev/debate-coach/internal/events"
	"github.com/ashureev/debate-coach/internal/history"
	"github.com/ashureev/debate-coach/internal/identity"
	"github.com/ashureev/debate-coach/internal/journal"
	"github.com/ashureev/debate-coach/internal/leaderboard"
	"github.com/ashureev/debate-coach/internal/llm"
	"github.com/ashureev/debate-coach/internal/metrics"
	"github.com/ashureev/debate-coach/internal/middleware"
	"github.com/ashureev/debate-coach/internal/motion"
	"github.com/ashureev/debate-coach/internal/speech"
	"github.com/ashureev/debate-coach/internal/store"
	"github.com/ashureev/debate-coach/internal/telemetry"
	"github.com/ashureev/debate-coach/internal/usage"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const serviceName = "debate-coach"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "generator", cfg.Generator)

	shutdownTracing, _, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		Stdout:       cfg.TraceStdout,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	checks := map[string]api.HealthCheck{"database": repo.Ping}

	var usageRepo store.UsageRepository = repo
	if cfg.UsageBackend == config.UsageBackendRedis {
		redisUsage, err := store.NewRedisUsage(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("initialize redis usage store: %w", err)
		}
		defer func() { _ = redisUsage.Close() }()
		usageRepo = redisUsage
		checks["redis"] = redisUsage.Ping
		slog.Info("Usage counters backed by Redis", "addr", cfg.RedisAddr)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			slog.Warn("Failed to connect to NATS, lifecycle events disabled", "error", err)
		} else {
			defer nc.Close()
			publisher = nc
			checks["nats"] = func(context.Context) error {
				if !nc.Healthy() {
					return errors.New("nats disconnected")
				}
				return nil
			}
		}
	}

	mm := metrics.NewManager()

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	jl, err := journal.New(cfg.Journal(), logger, journal.WithDropHook(mm.RecordJournalDrop))
	if err != nil {
		return fmt.Errorf("initialize evaluation journal: %w", err)
	}
	defer func() {
		if err := jl.Close(); err != nil {
			slog.Warn("Failed to close evaluation journal", "error", err)
		}
	}()

	var transcriber speech.Transcriber
	if cfg.SpeechEnabled {
		gt, err := speech.NewGoogleTranscriber(ctx, cfg.SpeechLanguage)
		if err != nil {
			slog.Warn("Speech-to-text disabled", "error", err)
		} else {
			defer func() { _ = gt.Close() }()
			transcriber = gt
			slog.Info("Speech-to-text enabled", "language", cfg.SpeechLanguage)
		}
	}

	// Initialize services.
	evaluator := evaluation.New(gen,
		evaluation.WithTimeout(cfg.GenerationTimeout),
		evaluation.WithLogger(logger),
		evaluation.WithObserver(mm),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer limiter.Stop()

	// Initialize handlers.
	handler := api.NewHandler(api.Deps{
		Evaluator:   evaluator,
		Arguments:   history.NewService(repo, publisher, logger),
		Leaderboard: leaderboard.NewAggregator(repo),
		Usage:       usage.NewAccountant(usageRepo, publisher, logger),
		Profiles:    repo,
		Motions:     motion.NewSuggester(gen, cfg.GenerationTimeout, logger),
		Transcriber: transcriber,
		Journal:     jl,
		Recorder:    mm,
		Logger:      logger,
	})
	healthHandler := api.NewHealthHandler(checks, 5*time.Second)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(identity.Middleware)
	r.Use(mm.Middleware)

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", mm.Handler())

	handler.RegisterRoutes(r, middleware.RateLimit(limiter, identity.RequestKey))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal.
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.Generator == config.GeneratorMock {
		slog.Warn("Using mock generator, evaluations are canned")
		return llm.NewMockGenerator(), nil
	}
	gen, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("initialize gemini generator: %w", err)
	}
	slog.Info("Gemini generator ready", "model", gen.Model())
	return gen, nil
}
