package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "APP"

var defaults = map[string]any{
	"app.title":       "Poster",
	"app.description": "API server of poster",
	"app.version":     "0.1.0",
	"app.env":         "prod",

	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.base_path":        "/api",
	"server.public_url":       "http://localhost:8080",
	"server.debug":            false,
	"server.read_timeout":     "15s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "10s",

	"logger.level":           "",
	"logger.format":          "",
	"logger.output":          "",
	"logger.time_field":      "",
	"logger.time_format":     "",
	"logger.env":             "",
	"logger.with_caller":     false,
	"logger.stacktrace":      false,
	"logger.service_name":    "poster-api",
	"logger.service_version": "",

	"postgres.host":                "",
	"postgres.port":                5432,
	"postgres.user":                "",
	"postgres.password":            "",
	"postgres.db":                  "",
	"postgres.sslmode":             "disable",
	"postgres.max_conns":           4,
	"postgres.min_conns":           0,
	"postgres.max_conn_lifetime":   3600,
	"postgres.max_conn_idle_time":  300,
	"postgres.health_check_period": 30,
}

// Load reads configuration from .env (if present), the YAML file at path (skipped
// when path is empty) and APP_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Server.BasePath = normalizeBasePath(config.Server.BasePath)
	if config.Logger.ServiceVersion == "" {
		config.Logger.ServiceVersion = config.App.Version
	}
	if config.Logger.Env == "" {
		config.Logger.Env = config.App.Env
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
