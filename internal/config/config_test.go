// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies env overrides, defaults, and rejection of bad values
package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath is empty")
	}
	if !strings.HasSuffix(cfg.DBPath, "bio.db") {
		t.Errorf("DBPath = %v, want default bio.db path", cfg.DBPath)
	}
	if cfg.HistoryLimit != 4 {
		t.Errorf("HistoryLimit = %d, want 4", cfg.HistoryLimit)
	}
	if cfg.HighImpactMagnitude != 3.0 {
		t.Errorf("HighImpactMagnitude = %v, want 3.0", cfg.HighImpactMagnitude)
	}
	if cfg.CharmDBName != "biodb" {
		t.Errorf("CharmDBName = %v, want biodb", cfg.CharmDBName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BIODB_DB_PATH", "/tmp/custom.db")
	t.Setenv("BIODB_HISTORY_LIMIT", "10")
	t.Setenv("BIODB_HIGH_IMPACT_MAGNITUDE", "4.5")
	t.Setenv("CHARM_AUTO_SYNC", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %v, want /tmp/custom.db", cfg.DBPath)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.HighImpactMagnitude != 4.5 {
		t.Errorf("HighImpactMagnitude = %v, want 4.5", cfg.HighImpactMagnitude)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero history limit", "BIODB_HISTORY_LIMIT", "0"},
		{"negative magnitude", "BIODB_HIGH_IMPACT_MAGNITUDE", "-1"},
		{"magnitude above scale", "BIODB_HIGH_IMPACT_MAGNITUDE", "11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("BIODB_HISTORY_LIMIT", "lots")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HistoryLimit != 4 {
		t.Errorf("HistoryLimit = %d, want default 4", cfg.HistoryLimit)
	}
}
