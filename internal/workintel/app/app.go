package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	httpapi "github.com/aussiebroadwan/workintel/internal/workintel/http"
	"github.com/aussiebroadwan/workintel/internal/workintel/llm"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/internal/workintel/store/drivers/sqlite"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/jwtx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

const stateIssuer = "workintel"

// Application encapsulates the Work Intel server with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        *sqlite.Store
	providers *provider.Factory
	signer    *jwtx.StateSigner

	// Services
	authService         *service.AuthService
	teamService         *service.TeamService
	inviteService       *service.InviteService
	integrationService  *service.IntegrationService
	connectService      *service.ConnectService
	briefService        *service.BriefService
	taskService         *service.TaskService
	reportService       *service.ReportService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "workintel",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("workintel starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"base_url", app.cfg.BaseURL,
		"providers", app.configuredProviders(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down workintel...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("workintel stopped")
	return nil
}

// Housekeep runs one cleanup pass and closes the database. Used by the
// housekeeping sub-command.
func (app *Application) Housekeep(ctx context.Context) (service.CleanupResult, error) {
	res := app.housekeepingService.RunOnce(ctx)
	return res, app.db.Close()
}

// Migrate opens the database, applies pending migrations and closes it.
func Migrate(cfg Config, logger *slog.Logger) (uint, error) {
	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		return 0, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	version, dirty, err := db.MigrationVersion()
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrations applied", "version", version, "dirty", dirty)
	return version, nil
}

// initDatabase opens the store with credential encryption and applies migrations
func (app *Application) initDatabase() error {
	box, ephemeral, err := cryptox.LoadSecretBox(app.cfg.MasterKeyPath, app.cfg.MasterKey)
	if err != nil {
		return fmt.Errorf("failed to load credential key: %w", err)
	}
	if ephemeral {
		app.logger.Warn("no WORKINTEL_MASTER_KEY set, using an ephemeral key; stored integrations will not survive a restart")
	}

	db, err := sqlite.NewStore(app.cfg.DatabaseFile, sqlite.WithCredentialSealer(box))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	secret := []byte(app.cfg.StateSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate state secret: %w", err)
		}
		app.logger.Info("no WORKINTEL_STATE_SECRET set, connects in progress will fail across restarts")
	}
	app.signer, err = jwtx.NewStateSigner(secret, stateIssuer)
	if err != nil {
		return fmt.Errorf("failed to create state signer: %w", err)
	}

	registry := provider.NewOAuthRegistry(provider.OAuthSettings{
		BaseURL:               app.cfg.BaseURL,
		GitHubClientID:        app.cfg.GitHubClientID,
		GitHubClientSecret:    app.cfg.GitHubClientSecret,
		AtlassianClientID:     app.cfg.AtlassianClientID,
		AtlassianClientSecret: app.cfg.AtlassianClientSecret,
		GoogleClientID:        app.cfg.GoogleClientID,
		GoogleClientSecret:    app.cfg.GoogleClientSecret,
		NylasClientID:         app.cfg.NylasClientID,
		NylasAPIKey:           app.cfg.NylasAPIKey,
		NylasAPIURI:           app.cfg.NylasAPIURI,
	})
	app.providers = provider.NewFactory(registry, provider.DefaultURLs(app.cfg.NylasAPIURI), app.cfg.NylasAPIKey)

	summarizer := llm.New(llm.Config{
		APIKey:  app.cfg.OpenAIAPIKey,
		Model:   app.cfg.OpenAIModel,
		BaseURL: app.cfg.OpenAIBaseURL,
	})
	briefCache := service.NewBriefCache(app.cfg.BriefCacheTTL)

	app.authService = &service.AuthService{
		Store:      app.db,
		Hasher:     cryptox.Hasher{Pepper: pepper},
		SessionTTL: app.cfg.SessionTTL,
	}
	app.teamService = &service.TeamService{Store: app.db}
	app.inviteService = &service.InviteService{
		Store:   app.db,
		BaseURL: app.cfg.BaseURL,
		TTL:     app.cfg.InviteTTL,
	}
	app.integrationService = &service.IntegrationService{
		Store:     app.db,
		Providers: app.providers,
		JiraSites: provider.NewJiraSites(app.cfg.JiraAllowedSites),
		Briefs:    briefCache,
	}
	app.connectService = &service.ConnectService{Integrations: app.integrationService, Signer: app.signer}
	app.briefService = &service.BriefService{
		Integrations: app.integrationService,
		Summarizer:   summarizer,
		Cache:        briefCache,
	}
	app.taskService = service.NewTaskService(app.briefService, nil)
	app.reportService = &service.ReportService{
		Store:        app.db,
		Integrations: app.integrationService,
		Summarizer:   summarizer,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		briefCache,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.BaseURL,
		BuildVersion,
		app.db,
		httpx.CookieOptions{Secure: app.cfg.SecureCookies()},
		app.cfg.SessionTTL,
		app.logger,
	)

	router.AuthService = app.authService
	router.TeamService = app.teamService
	router.InviteService = app.inviteService
	router.IntegrationService = app.integrationService
	router.ConnectService = app.connectService
	router.BriefService = app.briefService
	router.TaskService = app.taskService
	router.ReportService = app.reportService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) configuredProviders() []string {
	var out []string
	for _, p := range domain.Providers {
		if app.providers.OAuth.Configured(p) {
			out = append(out, provider.SlugFor(p))
		}
	}
	return out
}
