package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort               string `env:"HTTP_PORT" envDefault:"8080"`
	Version                string `env:"VERSION" envDefault:"0.1.0"`
	DatabaseURL            string `env:"DATABASE_URL"`
	RepositoryType         string `env:"REPOSITORY_TYPE" envDefault:"postgres"`
	CORSOrigins            string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitMax           int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindowSeconds int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.RepositoryType = strings.ToLower(strings.TrimSpace(cfg.RepositoryType))
	switch cfg.RepositoryType {
	case RepositoryPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when REPOSITORY_TYPE=%s", RepositoryPostgres)
		}
	case RepositoryMemory:
	default:
		return nil, fmt.Errorf("unknown REPOSITORY_TYPE %q", cfg.RepositoryType)
	}
	return &cfg, nil
}
