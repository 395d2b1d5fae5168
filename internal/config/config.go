package config

import (
	"time"

	"github.com/maxviazov/poster-api/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Server   ServerConfig        `mapstructure:"server"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
}

// AppConfig is the service metadata published in the OpenAPI document.
type AppConfig struct {
	Title       string `mapstructure:"title" validate:"required"`
	Description string `mapstructure:"description"`
	Version     string `mapstructure:"version" validate:"required"`
	Env         string `mapstructure:"env" validate:"oneof=dev test staging prod"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	BasePath        string        `mapstructure:"base_path" validate:"omitempty,startswith=/"`
	PublicURL       string        `mapstructure:"public_url" validate:"omitempty,url"`
	Debug           bool          `mapstructure:"debug"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// PostgresConfig is optional: with an empty host no pool is opened.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// Enabled reports whether a database was configured.
func (p PostgresConfig) Enabled() bool { return p.Host != "" }
