package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, warnings, err := loadAppConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	want := defaultAppConfig()
	if cfg != want {
		t.Fatalf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadAppConfigOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronoforge.toml")
	body := "strategy = \"highres\"\nmuted = true\naggressive_jitter = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, warnings, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.Strategy != "highres" {
		t.Errorf("Strategy = %q, want highres", cfg.Strategy)
	}
	if !cfg.Muted {
		t.Error("Muted = false, want true")
	}
	if !cfg.Aggressive {
		t.Error("Aggressive = false, want true")
	}
	if cfg.Primed {
		t.Error("Primed = true, want false (unset in file)")
	}
}

func TestLoadAppConfigWarnsOnUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronoforge.toml")
	body := "strategy = \"lowres\"\nunknown_field = 1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, warnings, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", warnings)
	}
}
