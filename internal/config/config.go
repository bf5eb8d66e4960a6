package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/biblegames.db"`
	RedisURL string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// BaseURL appears in verification email links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	// MailFrom enables the SES mailer when set; empty falls back to a
	// log-only mailer.
	MailFrom string `env:"MAIL_FROM"`

	// LeaderboardTTL bounds staleness of the cached leaderboard.
	LeaderboardTTL time.Duration `env:"LEADERBOARD_TTL" envDefault:"30s"`
	// MaintenanceWorkers caps parallel per-user resolution in the daily job.
	MaintenanceWorkers int `env:"MAINTENANCE_WORKERS" envDefault:"8"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
