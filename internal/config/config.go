package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DataDir  string     `env:"DATA_DIR" envDefault:"data"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:""`

	// ShiftDuration shortens the 8 h in-game shift for manual testing.
	ShiftDuration time.Duration `env:"SHIFT_DURATION" envDefault:"8h"`

	// AdminPasswordHash is a bcrypt hash guarding the leaderboard admin
	// endpoint. Empty disables it.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:""`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
