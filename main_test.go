package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/skirmish/api"
	"github.com/wricardo/skirmish/game/engine"
	"github.com/wricardo/skirmish/transport/mcp"
)

func writeClassicConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	data, err := engine.EncodeGameConfig(engine.DefaultConfig(), ".json")
	if err != nil {
		t.Fatalf("Failed to encode config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Skirmish Game Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()

	if app.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, app.Version)
	}

	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
		for _, alias := range cmd.Aliases {
			names[alias] = true
		}
	}
	for _, want := range []string{"server", "http", "stdio-mcp", "mcp-stdio", "mcp"} {
		if !names[want] {
			t.Errorf("Expected command or alias %q", want)
		}
	}
}

func TestApp_InvalidConfigDir(t *testing.T) {
	err := newApp().Run(context.Background(), []string{"skirmish", "--config-dir", "/non/existent/path", "server"})
	if err == nil {
		t.Fatal("Expected error for non-existent config directory")
	}
	if !strings.Contains(err.Error(), "config directory does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := initializeServices(ctx, writeClassicConfig(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	info, err := svc.game.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ConfigName != "classic" {
		t.Errorf("Expected classic config, got %s", info.ConfigName)
	}
	if svc.sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", svc.sessions.Count())
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := initializeServices(ctx, writeClassicConfig(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	if _, err := svc.game.CreateSession(ctx, ""); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, svc.sessions, time.Millisecond, 0)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for svc.sessions.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if svc.sessions.Count() != 0 {
		t.Error("Expected expired session to be cleaned up")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop")
	}
}

func TestMainRouter_MCPEndpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := initializeServices(ctx, writeClassicConfig(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	apiServer := httptest.NewServer(api.NewServer(svc.game, svc.hub))
	defer apiServer.Close()

	router := newMainRouter(api.NewServer(svc.game, svc.hub), mcp.NewClient(apiServer.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", w.Code)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for POST /mcp, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "combat_tick") {
		t.Errorf("Expected tool list to include combat_tick, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected API routes under the main router, got %d", w.Code)
	}
}
