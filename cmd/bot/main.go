package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"reportbot/internal/config"
	"reportbot/internal/handler"
	"reportbot/internal/middleware"
	"reportbot/internal/reminder"
	"reportbot/internal/repository"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/repository/sheets"
	"reportbot/internal/retry"
	"reportbot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"google.golang.org/api/option"
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

	logger.Info("Starting Report Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	loc := cfg.Location()

	logger.Info("Configuration loaded successfully", zap.String("timezone", loc.String()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the spreadsheet
	sheet, err := sheets.Open(ctx, cfg.Spreadsheet.ID, cfg.Spreadsheet.Name, cfg.Spreadsheet.Sheet,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.Scopes...),
	)
	if err != nil {
		logger.Fatal("Failed to open spreadsheet", zap.Error(err))
	}

	logger.Info("Spreadsheet opened", zap.String("spreadsheet_id", sheet.SpreadsheetID()))

	// The archive is optional
	var archive repository.ReportArchive
	if cfg.DatabaseEnabled() {
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connection established")

		if err := runMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		archive = postgres.NewReportRepo(db)
	} else {
		logger.Info("DB_PASSWORD not set, failed reports will not be redelivered")
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	bot.Use(middleware.LoggingMiddleware(logger))

	logger.Info("Telegram bot initialized")

	// Initialize services
	notifier := handler.NewBotNotifier(bot)
	policy := retry.Policy{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.Retry.BaseDelay}
	delivery := service.NewDelivery(sheet, archive, notifier, policy, loc, logger)
	reports := service.NewReportService(
		service.NewSessionStore(),
		service.NewSubmissionLedger(loc),
		service.NewAuthService(cfg.Passwords),
		delivery,
		logger,
	)

	reminders, err := reminder.New(cfg.ReminderSpec, loc, notifier, logger)
	if err != nil {
		logger.Fatal("Failed to create reminder scheduler", zap.Error(err))
	}
	reminders.Start()

	// Initialize handler
	h := handler.NewHandler(ctx, bot, reports, reminders, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	if archive != nil {
		maintenance := service.NewMaintenanceService(archive, delivery, cfg.MaintenanceInterval, logger)
		go runMaintenanceJob(ctx, maintenance, cfg.MaintenanceInterval, logger)
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown: no new updates, then let pending writes finish
	bot.Stop()
	reminders.Stop()
	delivery.Wait()
	cancel()

	logger.Info("Bot stopped gracefully")
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

// runMaintenanceJob periodically redelivers failed reports and prunes the
// archive
func runMaintenanceJob(ctx context.Context, maintenance *service.MaintenanceService, interval time.Duration, logger *zap.Logger) {
	if err := maintenance.Run(ctx); err != nil {
		logger.Error("Failed to run initial maintenance", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Maintenance job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled maintenance")
			if err := maintenance.Run(ctx); err != nil {
				logger.Error("Failed to run scheduled maintenance", zap.Error(err))
			}
		}
	}
}
