// Package config loads application settings from an optional YAML file
// plus ATLAS_-prefixed environment variables, env taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"required"`
}

type Database struct {
	// DSN is a lib/pq connection string. Empty selects the in-memory
	// report store.
	DSN string `mapstructure:"dsn"`
}

type Sync struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	OrgID      string        `mapstructure:"org_id"`
	PageSize   int           `mapstructure:"page_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Sources points record kinds at JSON snapshot files for environments
// without live integrations.
type Sources struct {
	AuditFile     string `mapstructure:"audit_file"`
	ViolationFile string `mapstructure:"violation_file"`
}

type Settings struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Sync     Sync     `mapstructure:"sync"`
	Sources  Sources  `mapstructure:"sources"`
}

func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("sync.page_size", 100)
	v.SetDefault("sync.timeout", 30*time.Second)
	v.SetDefault("sync.max_retries", 3)

	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := validator.New().Struct(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &settings, nil
}
