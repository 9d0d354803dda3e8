package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/invoicelab/invoicing_backend/internal/adapters/events"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/core/services"
	"github.com/invoicelab/invoicing_backend/internal/handlers"
	"github.com/invoicelab/invoicing_backend/internal/middleware"
	"github.com/invoicelab/invoicing_backend/internal/platform/config"
	"github.com/invoicelab/invoicing_backend/internal/repositories/database/pgsql"
	"github.com/invoicelab/invoicing_backend/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Invoicing Backend API
// @version 1.0
// @description Invoice and payment reconciliation backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, services and event publishing
	repos := pgsql.NewRepositoryProvider(dbPool)
	publisher := buildEventPublisher(cfg, logger)
	issuer := services.NewJWTTokenIssuer(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	serviceContainer := &portssvc.ServiceContainer{
		Client:  services.NewClientService(repos.ClientRepo),
		Invoice: services.NewInvoiceService(repos.InvoiceRepo, repos.ClientRepo, repos.UserRepo, repos.SequenceRepo, publisher),
		Payment: services.NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, publisher),
		User:    services.NewUserService(repos.UserRepo, issuer),
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations directory.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		if sourceErr != nil {
			return sourceErr
		}
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildEventPublisher assembles the event sinks. Events always go to the log;
// PostHog is added when an API key is configured.
func buildEventPublisher(cfg *config.Config, logger *slog.Logger) portssvc.EventPublisher {
	sinks := []portssvc.EventPublisher{events.NewSlogPublisher(logger)}
	if cfg.PosthogAPIKey != "" {
		sinks = append(sinks, events.NewPosthogPublisher(cfg.PosthogAPIKey, logger))
	}
	return events.NewFanoutPublisher(sinks...)
}
