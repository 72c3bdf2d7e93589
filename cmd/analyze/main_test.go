package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/skirmish/game/engine"
)

func writeConfig(t *testing.T, dir, filename string, cfg *engine.GameConfig) {
	t.Helper()
	data, err := engine.EncodeGameConfig(cfg, filepath.Ext(filename))
	if err != nil {
		t.Fatalf("Failed to encode config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestAnalyzeConfig(t *testing.T) {
	cfg := engine.DefaultConfig()
	report := analyzeConfig("classic", cfg, 20, 1)

	if report.Trials != 20 {
		t.Errorf("Expected 20 trials, got %d", report.Trials)
	}
	if report.Failures != 0 {
		t.Errorf("Expected no failures on the default config, got %d", report.Failures)
	}
	if report.Capacity != cfg.Capacity() || report.Cells != 144 {
		t.Errorf("Unexpected capacity %d / cells %d", report.Capacity, report.Cells)
	}
	if report.AvgSamples() < float64(report.Capacity) {
		t.Errorf("Expected at least one sample per entity, got %.1f", report.AvgSamples())
	}
	if report.AvgDistance() <= 0 {
		t.Errorf("Expected players to start apart, got %.1f", report.AvgDistance())
	}
}

func TestAnalyzeConfig_Deterministic(t *testing.T) {
	cfg := engine.DefaultConfig()
	first := analyzeConfig("classic", cfg, 10, 5)
	second := analyzeConfig("classic", cfg, 10, 5)

	if first != second {
		t.Errorf("Expected identical reports for identical seeds:\n%+v\n%+v", first, second)
	}
}

func TestReportMeans(t *testing.T) {
	r := Report{Trials: 4, Failures: 2, Samples: 30, Distance: 10, OpeningRange: 24}
	if r.AvgSamples() != 15 || r.AvgDistance() != 5 || r.AvgOpeningRange() != 12 {
		t.Errorf("Unexpected means %.1f %.1f %.1f", r.AvgSamples(), r.AvgDistance(), r.AvgOpeningRange())
	}

	failed := Report{Trials: 3, Failures: 3, Samples: 10}
	if failed.AvgSamples() != 0 {
		t.Errorf("Expected zero mean without successful trials, got %.1f", failed.AvgSamples())
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "classic.json", engine.DefaultConfig())

	blitz := engine.DefaultConfig()
	blitz.Name = "blitz"
	blitz.BoardSize = 8
	blitz.Obstacles = 6
	blitz.ItemCopies = 2
	writeConfig(t, dir, "blitz.yaml", blitz)

	var out bytes.Buffer
	if err := run(&out, dir, 5, 1); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"=== Analyzing blitz.yaml ===",
		"=== Analyzing classic.json ===",
		"Board: 8 x 8 (64 cells)",
		"Trials: 5",
		"Avg opening range (player 1)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, "/non/existent/path", 1, 1); err == nil {
		t.Error("Expected error for missing directory")
	}
	if err := run(&out, t.TempDir(), 1, 1); err == nil {
		t.Error("Expected error for empty directory")
	}
}
