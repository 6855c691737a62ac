// ABOUTME: Centralized configuration for the biodb CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// Config holds all configuration for the health-data store
type Config struct {
	// Database settings
	DBPath string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Query settings
	HistoryLimit        int
	HighImpactMagnitude float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:              getEnv("BIODB_DB_PATH", sqlite.DefaultDBPath()),
		CharmHost:           getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:         getEnv("CHARM_DB", "biodb"),
		AutoSync:            getEnvBool("CHARM_AUTO_SYNC", false),
		HistoryLimit:        getEnvInt("BIODB_HISTORY_LIMIT", 4),
		HighImpactMagnitude: getEnvFloat("BIODB_HIGH_IMPACT_MAGNITUDE", sqlite.HighImpactMagnitude),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("BIODB_DB_PATH must not be empty")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("BIODB_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.HighImpactMagnitude < 0 || c.HighImpactMagnitude > 10 {
		return fmt.Errorf("BIODB_HIGH_IMPACT_MAGNITUDE must be 0-10, got %f", c.HighImpactMagnitude)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
