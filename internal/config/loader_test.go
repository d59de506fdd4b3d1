package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sync.StableThreshold != 3 {
		t.Errorf("stable_threshold = %d, want 3", cfg.Sync.StableThreshold)
	}
	if cfg.Sync.MaxAttempts != 30 {
		t.Errorf("max_attempts = %d, want 30", cfg.Sync.MaxAttempts)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output_dir = %q, want .", cfg.OutputDir)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosterhound.yaml")
	yaml := []byte("log_level: debug\nsync:\n  max_attempts: 5\nbrowser:\n  headless: true\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Sync.MaxAttempts != 5 {
		t.Errorf("max_attempts = %d, want 5", cfg.Sync.MaxAttempts)
	}
	if !cfg.Browser.Headless {
		t.Error("browser.headless should be true")
	}
	// Untouched keys keep their defaults.
	if cfg.Sync.StableThreshold != 3 {
		t.Errorf("stable_threshold = %d, want default 3", cfg.Sync.StableThreshold)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ROSTERHOUND_LOG_LEVEL", "warn")
	t.Setenv("ROSTERHOUND_SYNC__MAX_ATTEMPTS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log_level = %q, want warn", cfg.LogLevel)
	}
	if cfg.Sync.MaxAttempts != 7 {
		t.Errorf("max_attempts = %d, want 7", cfg.Sync.MaxAttempts)
	}
}

func TestLoadRejectsNonPositiveThreshold(t *testing.T) {
	t.Setenv("ROSTERHOUND_SYNC__STABLE_THRESHOLD", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for zero stable_threshold")
	}
}
