package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/audit"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/cache"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/config"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/database"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/handlers"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/llm"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/mcp"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/mcp/tools"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/middleware"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/repositories"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("redis_cache", cfg.Redis.Enabled()),
		zap.Bool("mcp_enabled", cfg.MCP.Enabled))

	// Without credentials no request could ever succeed, so refuse to start.
	generator, err := llm.NewGenerator(llm.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     config.ResolveURLForDocker(cfg.LLM.BaseURL),
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to create blueprint generator: %w", err)
	}

	if err := migrateDatabase(cfg, logger); err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	var projectCache cache.ProjectCache
	if redisClient != nil {
		defer redisClient.Close()
		projectCache = cache.NewProjectCache(redisClient, cfg.Redis.TTL(), logger)
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
		Audience:           cfg.Auth.Audience,
	})
	if err != nil {
		return fmt.Errorf("failed to create JWKS client: %w", err)
	}
	defer jwksClient.Close()

	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwksClient, logger.Named("auth")), logger.Named("auth"))
	ownerMiddleware := handlers.OwnerMiddleware(database.WithOwnerContext(db, logger))

	projectRepo := repositories.NewProjectRepository()
	kanbanRepo := repositories.NewKanbanRepository()
	userFlowRepo := repositories.NewUserFlowRepository()
	memoryBankRepo := repositories.NewMemoryBankRepository()

	blueprintGenerator := services.NewBlueprintGenerator(generator, cfg.LLM.Timeout(), logger.Named("generator"))
	projectService := services.NewProjectService(
		projectRepo,
		memoryBankRepo,
		blueprintGenerator,
		projectCache,
		audit.NewSecurityAuditor(logger),
		logger.Named("projects"),
	)
	kanbanService := services.NewKanbanService(projectRepo, kanbanRepo, logger.Named("kanban"))
	userFlowService := services.NewUserFlowService(projectRepo, userFlowRepo, logger.Named("userflow"))
	exportService := services.NewExportService(projectService, kanbanService, userFlowService)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, exportService, logger).RegisterRoutes(mux, authMiddleware, ownerMiddleware)
	handlers.NewKanbanHandler(kanbanService, logger).RegisterRoutes(mux, authMiddleware, ownerMiddleware)
	handlers.NewUserFlowHandler(userFlowService, logger).RegisterRoutes(mux, authMiddleware, ownerMiddleware)

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewProjectServer(cfg.Version, &tools.ProjectToolDeps{
			ProjectService:  projectService,
			KanbanService:   kanbanService,
			UserFlowService: userFlowService,
			Logger:          logger.Named("mcp"),
		}, logger)
		handlers.NewMCPHandler(mcpServer, logger.Named("mcp")).RegisterRoutes(mux, authMiddleware, ownerMiddleware)
	}

	// The write timeout must outlast one generation call.
	writeTimeout := cfg.LLM.Timeout() + 30*time.Second
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-blueprint",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version),
			zap.Bool("tls", cfg.TLSEnabled()))
		serveErr <- listen(server, cfg)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func listen(server *http.Server, cfg *config.Config) error {
	if cfg.TLSEnabled() {
		return server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	}
	return server.ListenAndServe()
}
