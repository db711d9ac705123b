package config

import (
	"fmt"
	"time"

	"newsagent/pkg/config"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	// ReadTimeout bounds request reading. Default: 10s
	ReadTimeout time.Duration

	// WriteTimeout bounds response writing. Default: 30s
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive connections. Default: 120s
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 15s
	ShutdownTimeout time.Duration
}

// LoadServerConfig loads the HTTP server configuration from environment
// variables.
func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		Addr:            config.GetEnvString("HTTP_ADDR", ":8080"),
		ReadTimeout:     config.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    config.GetEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     config.GetEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: config.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	for name, d := range map[string]time.Duration{
		"read timeout":     cfg.ReadTimeout,
		"write timeout":    cfg.WriteTimeout,
		"idle timeout":     cfg.IdleTimeout,
		"shutdown timeout": cfg.ShutdownTimeout,
	} {
		if err := config.ValidatePositiveDuration(d); err != nil {
			return ServerConfig{}, fmt.Errorf("invalid server configuration: %s: %w", name, err)
		}
	}
	return cfg, nil
}
