package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/config"
)

// loadConfig resolves the config path (--config flag or default
// location) and loads it. A missing or corrupt file falls back to
// defaults with a warning, so the returned config is always usable.
func loadConfig() (*config.Config, string) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		logrus.WithError(err).Warn("Using default configuration")
	}
	return cfg, path
}

// getDBPath returns the path to the telemetry database file
func getDBPath(cfg *config.Config) string {
	// Check environment variable first
	if dbPath := os.Getenv("VDASH_DB_PATH"); dbPath != "" {
		return dbPath
	}

	if cfg != nil && cfg.DatabasePath != "" {
		return cfg.DatabasePath
	}

	// Default to user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory
		return "vdash.db"
	}

	// Create .vdash directory if it doesn't exist
	vdashDir := filepath.Join(homeDir, ".vdash")
	if err := os.MkdirAll(vdashDir, 0o755); err == nil {
		return filepath.Join(vdashDir, "vdash.db")
	}

	// Fallback to current directory
	return "vdash.db"
}
