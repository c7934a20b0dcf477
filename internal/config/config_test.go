package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PATRON_PORT", "PATRON_METRICS_PORT", "PATRON_ADMIN_TOKEN",
		"PATRON_DATABASE_DRIVER", "PATRON_DATABASE_URL", "PATRON_EVENTS_URL",
		"PATRON_CATALOG_URL", "PATRON_CURVE_POINTS", "PATRON_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver by default, got %s", cfg.Database.Driver)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Events.URL)
	}
	if cfg.Scoring.SimilarityThreshold != 0.80 {
		t.Errorf("expected similarity threshold 0.80, got %v", cfg.Scoring.SimilarityThreshold)
	}
	if cfg.Scoring.LossAversion != 2.0 {
		t.Errorf("expected loss aversion 2.0, got %v", cfg.Scoring.LossAversion)
	}
	if cfg.Scoring.CurvePoints != 100 {
		t.Errorf("expected 100 curve points, got %d", cfg.Scoring.CurvePoints)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
database:
  driver: postgres
  url: postgres://localhost:5432/patron
scoring:
  similarity_threshold: 0.9
  curve_points: 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Scoring.SimilarityThreshold != 0.9 {
		t.Errorf("expected threshold 0.9, got %v", cfg.Scoring.SimilarityThreshold)
	}
	if cfg.Scoring.CurvePoints != 25 {
		t.Errorf("expected 25 curve points, got %d", cfg.Scoring.CurvePoints)
	}
	// File leaves metrics port untouched → default survives.
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port, got %d", cfg.Server.MetricsPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PATRON_PORT", "9100")
	t.Setenv("PATRON_DATABASE_DRIVER", "postgres")
	t.Setenv("PATRON_CURVE_POINTS", "10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected env driver postgres, got %s", cfg.Database.Driver)
	}
	if cfg.Scoring.CurvePoints != 10 {
		t.Errorf("expected env curve points 10, got %d", cfg.Scoring.CurvePoints)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
