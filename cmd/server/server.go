package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinsuchenak/assetboard/internal/api"
	"github.com/martinsuchenak/assetboard/internal/config"
	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/mcp"
	"github.com/martinsuchenak/assetboard/internal/overview"
	"github.com/martinsuchenak/assetboard/internal/source"
	"github.com/martinsuchenak/assetboard/internal/storage"
	"github.com/martinsuchenak/assetboard/internal/worker"
	"github.com/martinsuchenak/assetboard/pkg/registry"
	"github.com/paularlott/cli"
)

// initializeSourceFromRegistry builds the configured asset source through
// the provider registry and wraps it with the fallback
func initializeSourceFromRegistry(cfg *config.Config, store storage.AssetStorage) (*source.Fallback, error) {
	opts := map[string]interface{}{
		source.OptManagerURL:   cfg.ManagerURL,
		source.OptClientID:     cfg.ClientID,
		source.OptClientSecret: cfg.ClientSecret,
		source.OptStorage:      store,
	}

	primary, err := source.FromRegistry(registry.GetRegistry(), cfg.Source, opts)
	if err != nil {
		return nil, err
	}

	log.Info("Asset source initialized",
		"source", primary.Name(),
		"manager_url", cfg.ManagerURL,
		"client_credentials", cfg.UsesClientCredentials(),
		"fallback", cfg.Fallback,
		"timeout", cfg.FetchTimeout)

	return source.NewFallback(primary, cfg.Fallback, cfg.FetchTimeout), nil
}

// RoutesFeature is the registry feature name under which extensions provide a
// func(*http.ServeMux) adding their own routes
const RoutesFeature = "http-routes"

// initializeExtensionRoutes registers extension routes from the registry
func initializeExtensionRoutes(mux *http.ServeMux, reg *registry.Registry) {
	feature, exists := reg.GetFeature(RoutesFeature)
	if !exists {
		return
	}

	register, ok := feature.(func(*http.ServeMux))
	if !ok {
		log.Warn("Extension routes found but has wrong type", "type", fmt.Sprintf("%T", feature))
		return
	}

	register(mux)
	log.Info("Extension routes registered")
}

// ServerConfig holds configuration for running the server
type ServerConfig struct {
	Registry   *registry.Registry // defaults to the global registry
	Config     *config.Config
	Overview   *overview.Service
	Scheduler  *worker.Scheduler // optional
	MCPServer  *mcp.Server
	APIHandler *api.Handler
}

// NewHTTPHandler builds the routed and middleware-wrapped HTTP handler
func NewHTTPHandler(cfg *ServerConfig) http.Handler {
	mux := http.NewServeMux()

	// API routes
	cfg.APIHandler.RegisterRoutes(mux)

	// MCP endpoint
	mux.HandleFunc("/mcp", cfg.MCPServer.GetHTTPHandler())

	reg := cfg.Registry
	if reg == nil {
		reg = registry.GetRegistry()
	}
	initializeExtensionRoutes(mux, reg)

	// Apply middleware
	var handler http.Handler = mux
	if cfg.Config.IsAPIAuthEnabled() {
		handler = api.AuthMiddleware(cfg.Config.APIAuthToken, handler)
	}
	handler = api.SecurityHeadersMiddleware(handler)
	handler = api.LoggingMiddleware(handler)
	return handler
}

// RunServer starts the assetboard server and blocks until ctx is done or a
// shutdown signal arrives
func RunServer(ctx context.Context, cfg *ServerConfig) error {
	server := &http.Server{
		Addr:              cfg.Config.ListenAddr,
		Handler:           NewHTTPHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle shutdown gracefully
	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if cfg.Scheduler != nil {
		cfg.Scheduler.Start()
		defer cfg.Scheduler.Stop()
	}

	// Log startup info
	log.Info("Starting assetboard server", "addr", cfg.Config.ListenAddr, "realm", cfg.Overview.Realm())
	log.Info("API available", "url", "http://localhost"+cfg.Config.ListenAddr+"/api/")
	log.Info("MCP available", "url", "http://localhost"+cfg.Config.ListenAddr+"/mcp")
	if cfg.Config.IsAPIAuthEnabled() {
		log.Info("API authentication enabled")
	}
	cfg.MCPServer.LogStartup()

	// Start serving
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "server",
		Usage:       "Start the assetboard server",
		Description: "Start the HTTP server with the overview API, MCP endpoint and periodic refresh",
		Flags:       config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log.Info("Configuration loaded", "data_dir", cfg.DataDir, "listen_addr", cfg.ListenAddr, "source", cfg.Source, "realm", cfg.Realm)

			// Initialize storage (SQLite only)
			store, err := storage.NewStorage(cfg.DataDir)
			if err != nil {
				log.Error("Failed to initialize storage", "error", err)
				return err
			}
			defer store.Close()
			log.Info("Storage initialized", "backend", "SQLite", "path", cfg.DataDir)

			fetcher, err := initializeSourceFromRegistry(cfg, store)
			if err != nil {
				log.Error("Failed to initialize asset source", "error", err)
				return err
			}

			svc := overview.NewService(fetcher, overview.Options{
				Realm:   cfg.Realm,
				Filters: store,
			})

			var scheduler *worker.Scheduler
			if cfg.RefreshSchedule != "" {
				scheduler, err = worker.NewScheduler(svc, cfg.RefreshSchedule)
				if err != nil {
					return err
				}
				// Compute the first overview before serving
				scheduler.RunNow(ctx)
			} else {
				log.Info("Periodic overview refresh disabled")
			}

			return RunServer(ctx, &ServerConfig{
				Config:     cfg,
				Overview:   svc,
				Scheduler:  scheduler,
				MCPServer:  mcp.NewServer(svc, store, cfg.MCPAuthToken),
				APIHandler: api.NewHandler(svc, store),
			})
		},
	}
}
