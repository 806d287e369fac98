package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Expected default address :8080, got %q", cfg.Server.Address)
	}
	if cfg.Cards.Source != "yaml" || cfg.Cards.Dir != "data/sets" {
		t.Errorf("Unexpected default cards config: %+v", cfg.Cards)
	}
	if cfg.Game.BenchSize != 3 || cfg.Game.PointsToWin != 3 {
		t.Errorf("Unexpected default game config: %+v", cfg.Game)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9999"
  shutdown_timeout: 30s
game:
  points_to_win: 5
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("Expected address :9999, got %q", cfg.Server.Address)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected shutdown timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Game.PointsToWin != 5 {
		t.Errorf("Expected points_to_win 5, got %d", cfg.Game.PointsToWin)
	}
	// Unset keys keep their defaults.
	if cfg.Game.BenchSize != 3 {
		t.Errorf("Expected default bench_size 3, got %d", cfg.Game.BenchSize)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected log format json, got %q", cfg.Logging.Format)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Expected defaults, got %+v", cfg.Server)
	}
}

func TestLoad_Validation(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"unknown-source", "cards:\n  source: csv\n"},
		{"postgres-without-url", "cards:\n  source: postgres\n"},
		{"yaml-without-dir", "cards:\n  source: yaml\n  dir: \"\"\n"},
		{"bad-bench", "game:\n  bench_size: 0\n"},
	}
	for _, tc := range cases {
		path := filepath.Join(dir, tc.name+".yaml")
		if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}
