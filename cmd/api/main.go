// Command api runs the news personalization service: the interaction
// tracking and preference learning API, the cached recommendation API and
// the in-process maintenance worker.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"newsagent/internal/config"
	hhttp "newsagent/internal/handler/http"
	"newsagent/internal/handler/http/feed"
	"newsagent/internal/handler/http/requestid"
	pgRepo "newsagent/internal/infra/adapter/persistence/postgres"
	"newsagent/internal/infra/classifier"
	"newsagent/internal/infra/db"
	"newsagent/internal/infra/source"
	"newsagent/internal/infra/worker"
	"newsagent/internal/repository"
	"newsagent/internal/usecase/preference"
	"newsagent/internal/usecase/recommend"
	pkgconfig "newsagent/pkg/config"
	"newsagent/pkg/ratelimit"
)

func main() {
	logger := initLogger()

	learnCfg, err := config.LoadLearningConfig()
	if err != nil {
		logger.Error("invalid learning configuration", slog.Any("error", err))
		os.Exit(1)
	}
	rankCfg, err := config.LoadRankingConfig()
	if err != nil {
		logger.Error("invalid ranking configuration", slog.Any("error", err))
		os.Exit(1)
	}
	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}
	classifierCfg, err := config.LoadClassifierConfig()
	if err != nil {
		logger.Error("invalid classifier configuration", slog.Any("error", err))
		os.Exit(1)
	}
	workerCfg := config.LoadWorkerConfig()
	for _, warning := range workerCfg.Warnings {
		logger.Warn("worker configuration fallback", slog.String("detail", warning))
	}
	vocab, err := config.LoadVocabulary()
	if err != nil {
		logger.Error("invalid vocabulary configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	var prefRepo repository.PreferenceRepository
	var eventRepo repository.EventRepository
	if database != nil {
		prefRepo = pgRepo.NewPreferenceRepo(database)
		eventRepo = pgRepo.NewEventRepo(database)
	}

	clf := classifier.New(classifierCfg, vocab, logger)
	contentSource := initContentSource(logger, clf)

	learnOpts := []preference.Option{preference.WithLogger(logger)}
	if prefRepo != nil {
		learnOpts = append(learnOpts, preference.WithRepositories(prefRepo, eventRepo))
	}
	learner := preference.NewService(learnCfg, learnOpts...)

	ranker := recommend.NewService(rankCfg, contentSource,
		recommend.WithLogger(logger),
		recommend.WithPreferenceReader(learner),
		recommend.WithFallback(source.FixtureItems()),
		recommend.WithVocabulary(vocab),
	)

	if prefRepo != nil {
		bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := learner.Bootstrap(bootCtx); err != nil {
			logger.Error("preference bootstrap failed, starting empty", slog.Any("error", err))
		}
		bootCancel()
	}

	maintenance, err := worker.NewMaintenance(
		workerCfg, ranker, learner, eventRepo, learnCfg.HistoryMaxAge, logger, worker.NewMetrics())
	if err != nil {
		logger.Error("invalid maintenance configuration", slog.Any("error", err))
		os.Exit(1)
	}

	handler := buildHandler(logger, database, learner, ranker)
	runServer(logger, serverCfg, handler, maintenance)
}

// initLogger initializes a structured JSON logger from LOG_LEVEL.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the optional database and runs migrations. A missing
// DATABASE_URL yields nil and the service runs in-memory only.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if database == nil {
		return nil
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// initContentSource selects the candidate source from CONTENT_SOURCE:
// "events-api", "rss" or "fixture" (default).
func initContentSource(logger *slog.Logger, clf classifier.Classifier) recommend.ContentSource {
	mode := pkgconfig.GetEnvString("CONTENT_SOURCE", "fixture")

	switch mode {
	case "events-api":
		baseURL := os.Getenv("EVENTS_API_URL")
		if baseURL == "" {
			logger.Error("CONTENT_SOURCE=events-api requires EVENTS_API_URL")
			os.Exit(1)
		}
		logger.Info("content source: events api", slog.String("base_url", baseURL))
		return source.NewEventsAPIClient(baseURL, nil, clf)

	case "rss":
		raw := os.Getenv("RSS_FEEDS")
		if raw == "" {
			logger.Error("CONTENT_SOURCE=rss requires RSS_FEEDS (comma-separated URLs)")
			os.Exit(1)
		}
		feeds := strings.Split(raw, ",")
		for i := range feeds {
			feeds[i] = strings.TrimSpace(feeds[i])
		}
		logger.Info("content source: rss", slog.Int("feeds", len(feeds)))
		return source.NewRSSSource(feeds, nil, clf)

	case "fixture":
		logger.Info("content source: static fixture")
		return source.NewStatic(nil)

	default:
		logger.Error("unknown CONTENT_SOURCE", slog.String("value", mode))
		os.Exit(1)
		return nil
	}
}

// buildHandler wires routes and the middleware chain.
// Order: request ID, IP rate limit, recovery, logging, body limit, metrics.
func buildHandler(logger *slog.Logger, database *sql.DB, learner *preference.Service, ranker *recommend.Service) http.Handler {
	mux := http.NewServeMux()
	feed.Register(mux, learner, ranker)
	mux.Handle("GET /healthz", hhttp.HealthHandler{DB: database, Version: version()})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	ipLimit := pkgconfig.GetEnvInt("HTTP_RATE_LIMIT", 300)
	ipWindow := pkgconfig.GetEnvDuration("HTTP_RATE_WINDOW", time.Minute)
	limiter := ratelimit.NewSlidingWindow(ipLimit, ipWindow, ratelimit.SystemClock{})

	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.RateLimit(limiter, logger),
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(1<<20),
		hhttp.Metrics(),
	)
}

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// runServer starts the maintenance worker and the HTTP server, then
// handles graceful shutdown on SIGINT/SIGTERM.
func runServer(logger *slog.Logger, cfg config.ServerConfig, handler http.Handler, maintenance *worker.Maintenance) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	maintenance.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Stop the scheduler and flush pending state before exit.
	maintenance.Stop()
	maintenance.RunAll()

	cancel()
	logger.Info("server stopped")
}
