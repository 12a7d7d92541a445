package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// minOptionPool is the smallest catalog prefix wrong answers are drawn from.
const minOptionPool = 10

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath         string        `env:"DB_PATH" envDefault:"data/globetrotter.db"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	RedisURL       string        `env:"REDIS_URL"`
	CatalogTTL     time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	OptionPoolSize int           `env:"OPTION_POOL_SIZE" envDefault:"10"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL"`
	SPADir         string        `env:"SPA_DIR"`
	SeedDemo       bool          `env:"SEED_DEMO" envDefault:"true"`
}

// Load reads an optional .env file, then parses the environment.
// Variables already set in the environment win over the file.
func Load(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OptionPoolSize < minOptionPool {
		return fmt.Errorf("OPTION_POOL_SIZE must be at least %d, got %d", minOptionPool, c.OptionPoolSize)
	}
	if c.CatalogTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be positive, got %s", c.CatalogTTL)
	}
	return nil
}
