package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Helpers provides convenient access to derived configuration values.
type Helpers struct {
	config *GlobalConfig
}

// NewHelpers creates a new config helpers instance.
func NewHelpers(config *GlobalConfig) *Helpers {
	return &Helpers{config: config}
}

// CacheDir returns the absolute path to the cache directory.
func (h *Helpers) CacheDir() (string, error) {
	abs, err := filepath.Abs(h.config.CacheDir)
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return abs, nil
}

// Timeout returns the HTTP connection timeout as a duration.
func (h *Helpers) Timeout() time.Duration {
	return time.Duration(h.config.ConnectionTimeout) * time.Millisecond
}

// IsDebugMode returns true if debug logging is enabled.
func (h *Helpers) IsDebugMode() bool {
	return h.config.Logging.Level == "debug"
}

// GetConfig returns the underlying global config (for advanced usage).
func (h *Helpers) GetConfig() *GlobalConfig {
	return h.config
}
