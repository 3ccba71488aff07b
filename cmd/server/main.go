package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashcards/internal/api"
	"flashcards/internal/config"
	"flashcards/internal/handler"
	"flashcards/internal/metrics"
	"flashcards/internal/repository"
	"flashcards/internal/repository/filestore"
	"flashcards/internal/repository/memory"
	"flashcards/internal/repository/postgres"
	"flashcards/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting flashcards server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("dictionary_dir", cfg.DictionaryDir),
		zap.String("preferences", cfg.Preferences),
	)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	// Initialize repositories
	store, err := filestore.New(cfg.DictionaryDir)
	if err != nil {
		logger.Fatal("Failed to open dictionary", zap.Error(err))
	}

	prefs, closePrefs, err := newPreferenceRepo(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize preferences", zap.Error(err))
	}
	defer closePrefs()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Initialize services
	dictService := service.NewDictionaryService(store, m, logger, cfg.UploadDir, cfg.UnitSize)
	quizService := service.NewQuizService(store, m, logger, cfg.RevealDelay, cfg.SessionTTL)

	if err := quizService.StartReaper(reaperInterval(cfg.SessionTTL)); err != nil {
		logger.Fatal("Failed to start session reaper", zap.Error(err))
	}

	// HTTP server
	apiHandler := api.NewHandler(dictService, quizService, m, logger, api.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigin:     cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Optional Telegram front end
	var bot *tele.Bot
	if cfg.BotToken != "" {
		bot, err = tele.NewBot(tele.Settings{
			Token:  cfg.BotToken,
			Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}

		h := handler.NewHandler(bot, dictService, quizService, prefs, logger)
		h.RegisterHandlers()

		go func() {
			logger.Info("Bot started successfully")
			bot.Start()
		}()
	} else {
		logger.Info("BOT_TOKEN not set, Telegram bot disabled")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	if bot != nil {
		bot.Stop()
	}
	quizService.Close()

	logger.Info("Stopped gracefully")
}

// newPreferenceRepo builds the configured preference store and its cleanup
func newPreferenceRepo(cfg *config.Config, logger *zap.Logger) (repository.PreferenceRepository, func(), error) {
	if cfg.Preferences != config.BackendPostgres {
		return memory.NewPreferenceRepo(), func() {}, nil
	}

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("Database migrations completed")

	return postgres.NewPreferenceRepo(db), func() { db.Close() }, nil
}

// reaperInterval checks for idle sessions a few times per TTL, at most every minute
func reaperInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
