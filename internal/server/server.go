// Package server provides the HTTP server for the storefront API.
// It wires repositories, services and handlers together, configures routing
// and manages the server lifecycle including graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/handlers"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/service"
	"github.com/yasinhessnawi1/storefront/migrations"
	"github.com/yasinhessnawi1/storefront/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler serves token obtain and refresh
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler serves the forgotten-password flow
	PasswordResetHandler *handlers.PasswordResetHandler

	// CatalogHandler serves categories and products
	CatalogHandler *handlers.CatalogHandler

	// AdminHandler serves the API root, the admin overview and the health checks
	AdminHandler *handlers.AdminHandler

	// SPAHandler serves the client application for every unmatched path
	SPAHandler *handlers.SPAHandler
}

// Server represents the storefront API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router     chi.Router
	jwtService *auth.JWTService
	users      repository.UserRepository
	security   *service.SecurityService
	httpServer *http.Server
}

// NewServer connects to the database, brings the schema up to date, runs the
// seeds and returns a server ready to start.
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	// Connect to the database
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	// Bring the schema up to date before serving
	if err := PrepareDatabase(ctx, cfg, db); err != nil {
		db.Close()
		return nil, err
	}

	s, err := New(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// PrepareDatabase runs pending migrations and seeds.
func PrepareDatabase(ctx context.Context, cfg *config.AppConfig, db *database.Pool) error {
	if _, err := migrations.NewMigrator(db).RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	hasher := auth.NewPasswordHasher(auth.ConfigFromAppConfig(cfg))
	if err := scripts.NewSeeder(db, &cfg.Admin, hasher).SeedDatabase(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}

// New builds the server on an open database pool. The order is
// auth → repositories → services → handlers → routes.
func New(cfg *config.AppConfig, db *database.Pool) (*Server, error) {
	s := &Server{
		Config: cfg,
		Db:     db,
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.SetupRoutes()

	// Create the HTTP server with the configured timeouts
	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

func (s *Server) setupHandlers() error {
	cfg := s.Config

	// Credentials and tokens
	s.jwtService = auth.NewJWTService(&cfg.JWT)
	hasher := auth.NewPasswordHasher(auth.ConfigFromAppConfig(cfg))
	resetTokens := auth.NewResetTokenGenerator(cfg.PasswordReset.Secret, cfg.PasswordReset.Timeout)
	passwordValidator := auth.NewPasswordValidator()

	// Repositories share the pool
	userRepo := repository.NewUserRepository(s.Db)
	s.users = userRepo
	categoryRepo := repository.NewCategoryRepository(s.Db)
	productRepo := repository.NewProductRepository(s.Db)

	// Reset mail goes out through the configured provider
	sender, err := service.NewEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to configure email: %w", err)
	}

	// Services
	authService := service.NewAuthService(userRepo, s.jwtService, hasher)
	resetService := service.NewPasswordResetService(userRepo, resetTokens, passwordValidator, hasher, sender, &cfg.PasswordReset)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	adminService := service.NewAdminService(s.Db, cfg.Database.Driver, cfg.App.Version, userRepo, categoryRepo, productRepo)
	s.security = service.NewSecurityService(&cfg.RateLimit)

	// Handlers only see service interfaces
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(authService),
		PasswordResetHandler: handlers.NewPasswordResetHandler(resetService),
		CatalogHandler:       handlers.NewCatalogHandler(catalogService),
		AdminHandler:         handlers.NewAdminHandler(adminService),
		SPAHandler:           handlers.NewSPAHandler(cfg.Frontend.BuildDir, cfg.Frontend.IndexFile),
	}

	return nil
}

// Start serves HTTP until the process receives SIGINT or SIGTERM, then shuts
// down gracefully within the configured timeout.
func (s *Server) Start() error {
	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests, then releases the rate limiter and
// the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	s.security.Close()

	if s.Db != nil {
		s.Db.Close()
		log.Info().Msg("Database connection closed")
	}

	return nil
}
