package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type CatalogConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	PremiumBudget       float64 `yaml:"premium_budget"`
	LossAversion        float64 `yaml:"loss_aversion"`
	Curvature           float64 `yaml:"curvature"`
	SigmoidGain         float64 `yaml:"sigmoid_gain"`
	CurvePoints         int     `yaml:"curve_points"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "file:patron.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)",
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			SimilarityThreshold: 0.80,
			PremiumBudget:       0.6,
			LossAversion:        2.0,
			Curvature:           0.65,
			SigmoidGain:         6.0,
			CurvePoints:         100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PATRON_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PATRON_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PATRON_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PATRON_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("PATRON_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PATRON_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("PATRON_CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("PATRON_CURVE_POINTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.CurvePoints = n
		}
	}
	if v := os.Getenv("PATRON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
