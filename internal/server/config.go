package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/previsio/previsio/pkg/constants"
)

// Config defines runtime parameters for the HTTP server, taken from the
// environment.
type Config struct {
	Address        string `envconfig:"ADDR"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig reads the server configuration from PREVISIO_* environment
// variables, filling unset values with defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("previsio", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process server environment: %w", err)
	}
	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = constants.DefaultMaxUploadSizeBytes
	}
	return &cfg, nil
}
