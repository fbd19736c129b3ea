package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corethink/backend/internal/hosting"
	httpapi "github.com/corethink/backend/internal/http"
	"github.com/corethink/backend/internal/llm"
	"github.com/corethink/backend/internal/oauth"
	"github.com/corethink/backend/internal/oauth/github"
	"github.com/corethink/backend/internal/oauth/google"
	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/internal/store/drivers/sqlite"
	"github.com/corethink/backend/pkg/jwtx"
	"github.com/corethink/backend/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the backend service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	tokenService      *service.TokenService
	authService       *service.AuthService
	userService       *service.UserService
	projectService    *service.ProjectService
	chatService       *service.ChatService
	deploymentService *service.DeploymentService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The
// config is validated up front; a missing secret or API key never
// survives to the first request.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "corethink-backend",
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

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("backend starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
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

// Shutdown drains in-flight requests and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down backend...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("backend stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

func (app *Application) initServices() error {
	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier := jwtx.NewVerifierHS256(
		[]byte(app.cfg.JWTSecret),
		app.cfg.Issuer,
		[]string{app.cfg.Audience},
	)

	app.tokenService = &service.TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Issuer:     app.cfg.Issuer,
		Audience:   []string{app.cfg.Audience},
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}

	providers, err := app.initProviders()
	if err != nil {
		return err
	}

	app.authService = &service.AuthService{
		Store:     app.db,
		Tokens:    app.tokenService,
		Providers: providers,
	}
	app.userService = &service.UserService{Store: app.db}

	var llmOpts []llm.AnthropicOption
	if app.cfg.AnthropicModel != "" {
		llmOpts = append(llmOpts, llm.WithModel(app.cfg.AnthropicModel))
	}
	model := llm.NewAnthropicClient(app.cfg.AnthropicAPIKey, llmOpts...)

	app.projectService = &service.ProjectService{
		Store: app.db,
		LLM:   model,
	}
	app.chatService = &service.ChatService{LLM: model}

	deployer, err := hosting.NewVercelClient(hosting.VercelConfig{
		Token:  app.cfg.VercelToken,
		TeamID: app.cfg.VercelTeamID,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize hosting client: %w", err)
	}
	app.deploymentService = &service.DeploymentService{
		Store:    app.db,
		Deployer: deployer,
	}

	return nil
}

func (app *Application) initProviders() (*oauth.Registry, error) {
	var list []oauth.Provider

	if app.cfg.GoogleClientID != "" {
		p, err := google.New(
			context.Background(),
			app.cfg.GoogleClientID,
			app.cfg.GoogleClientSecret,
			app.cfg.RedirectURL("google"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize google provider: %w", err)
		}
		list = append(list, p)
	}

	if app.cfg.GithubClientID != "" {
		p, err := github.New(
			app.cfg.GithubClientID,
			app.cfg.GithubClientSecret,
			app.cfg.RedirectURL("github"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize github provider: %w", err)
		}
		list = append(list, p)
	}

	registry := oauth.NewRegistry(list...)
	app.logger.Info("oauth providers configured", "providers", registry.Names())
	return registry, nil
}

func (app *Application) initHTTP() {
	cookies := httpapi.NewCookieManager(app.cfg.Env == "dev")

	router := httpapi.NewRouter(
		app.tokenService.Verifier,
		cookies,
		app.cfg.FrontendURL,
		BuildVersion,
		app.cfg.CORSOrigins,
		app.db,
		app.tokenService,
		app.logger,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.ProjectService = app.projectService
	router.ChatService = app.chatService
	router.DeploymentService = app.deploymentService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
