package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	Version           string        `envconfig:"VERSION" default:"dev"`
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	MigrateOnStart    bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	TeamSizeLimit     int           `envconfig:"TEAM_SIZE_LIMIT" default:"6"`
	MetricsEnabled    bool          `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
