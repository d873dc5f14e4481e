package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Platforms != 2 {
		t.Errorf("expected 2 platforms, got %d", cfg.Platforms)
	}
	if cfg.Speed != 60 {
		t.Errorf("expected speed 60, got %d", cfg.Speed)
	}
	if !cfg.Network.Enabled || cfg.Network.Port != 8787 {
		t.Errorf("unexpected network defaults: %+v", cfg.Network)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.yaml")
	content := `schedule: trains.csv
platforms: 6
speed: 180
start_time: "09:30"
network:
  enabled: false
  host: 0.0.0.0
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Schedule != "trains.csv" || cfg.Platforms != 6 || cfg.Speed != 180 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.StartTime != "09:30" {
		t.Errorf("expected start 09:30, got %s", cfg.StartTime)
	}
	if cfg.Network.Enabled || cfg.Network.Port != 9000 {
		t.Errorf("unexpected network config: %+v", cfg.Network)
	}
	// Omitted fields keep their defaults.
	if cfg.DwellTicks != 2 || cfg.ReportFormat != "json" {
		t.Errorf("expected defaults preserved, got dwell=%d format=%s", cfg.DwellTicks, cfg.ReportFormat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("platforms: [not an int"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
