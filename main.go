// Command skirmish starts the skirmish game server.
//
// It supports two modes:
//  1. "server" (default) - runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" - runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, and optional
// ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/skirmish/api"
	"github.com/wricardo/skirmish/game/config"
	"github.com/wricardo/skirmish/game/service"
	"github.com/wricardo/skirmish/game/session"
	"github.com/wricardo/skirmish/transport/mcp"
	"github.com/wricardo/skirmish/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Skirmish Game Server"
)

const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
)

// main loads .env and runs the command tree until a signal arrives.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. The root command runs the HTTP server.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "skirmish",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:  "host",
				Value: "localhost",
				Usage: "HTTP server host",
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runHTTPServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCPWithInternalServer,
			},
		},
		Action: runHTTPServer,
	}
}

// settings are the flag values shared by both modes
type settings struct {
	host         string
	port         int
	configDir    string
	ngrokEnabled bool
	ngrokAuth    string
	ngrokDomain  string
}

func loadSettings(cmd *cli.Command) settings {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
	return settings{
		host:         cmd.String("host"),
		port:         int(cmd.Int("port")),
		configDir:    cmd.String("config-dir"),
		ngrokEnabled: cmd.Bool("ngrok"),
		ngrokAuth:    cmd.String("ngrok-auth"),
		ngrokDomain:  cmd.String("ngrok-domain"),
	}
}

// services bundles what both modes tear down on exit
type services struct {
	game     service.GameService
	sessions *session.Manager
	hub      *websocket.Hub
}

func (s *services) Close() {
	s.sessions.Close()
	s.hub.Stop()
}

// initializeServices wires the hub, session and config managers and the game service.
// It also starts a background cleanup routine to prune stale sessions.
func initializeServices(ctx context.Context, configDir string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	// Engine events of every session are pushed to WebSocket subscribers
	sessionManager := session.NewManager(hub)

	go sessionCleanupRoutine(ctx, sessionManager, cleanupInterval, sessionMaxAge)

	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		hub:      hub,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Infof("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// newMainRouter mounts the API at the root and the MCP proxy at /mcp
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	cfg := loadSettings(cmd)
	log.Infof("Starting %s v%s (mode: server)", AppName, Version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc, err := initializeServices(ctx, cfg.configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	addr := fmt.Sprintf("%s:%d", cfg.host, cfg.port)
	apiServer := api.NewServer(svc.game, svc.hub)
	mainRouter := newMainRouter(apiServer, mcp.NewClient(fmt.Sprintf("http://%s", addr)))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cfg.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err = <-serveErr:
		log.Errorf("HTTP server failed: %v", err)
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Info("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg settings, handler http.Handler) {
	if cfg.ngrokAuth == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.ngrokDomain))
		log.Infof("Using custom ngrok domain: %s", cfg.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.ngrokAuth))
	if err != nil {
		log.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Errorf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.WithField("url", ngrokURL).Info("Ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Errorf("Ngrok server error: %v", err)
	}
	log.Info("Ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API on the configured port; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cmd *cli.Command) error {
	cfg := loadSettings(cmd)

	externalURL := fmt.Sprintf("http://localhost:%d", cfg.port)
	log.Infof("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Infof("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(ctx, cfg.configDir)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()
		log.Infof("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{
			Handler: api.NewServer(svc.game, svc.hub),
		}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Infof("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
