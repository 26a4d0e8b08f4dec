package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "MODELS_DIR", "ONNXRUNTIME_LIB", "HISTORY_DB_PATH", "LOG_LEVEL",
		"MAX_UPLOAD_MB", "LOG_DEVELOPMENT", "HISTORY_ENABLED"} {
		t.Setenv(k, "")
	}
	if v, ok := os.LookupEnv("PRELOAD_SPECIES"); ok {
		os.Unsetenv("PRELOAD_SPECIES")
		t.Cleanup(func() { os.Setenv("PRELOAD_SPECIES", v) })
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port default: %q", cfg.Server.Port)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("unexpected upload cap: %d", cfg.MaxUploadBytes())
	}
	if cfg.Models.Dir != "./models" {
		t.Fatalf("unexpected models dir: %q", cfg.Models.Dir)
	}
	if len(cfg.Models.Preload) != 1 || cfg.Models.Preload[0] != "tomato" {
		t.Fatalf("unexpected preload default: %v", cfg.Models.Preload)
	}
	if !cfg.History.Enabled || cfg.History.Path != "./data/predictions.db" {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
  max_upload_mb: 4
models:
  dir: /srv/models
  preload: [potato, cotton]
history:
  enabled: false
log:
  level: debug
  development: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("PRELOAD_SPECIES", " cotton , ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Fatalf("env should override port, got %q", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadMB != 4 {
		t.Fatalf("unexpected max upload: %d", cfg.Server.MaxUploadMB)
	}
	if cfg.Models.Dir != "/srv/models" {
		t.Fatalf("unexpected models dir: %q", cfg.Models.Dir)
	}
	if len(cfg.Models.Preload) != 1 || cfg.Models.Preload[0] != "cotton" {
		t.Fatalf("unexpected preload: %v", cfg.Models.Preload)
	}
	if cfg.History.Enabled {
		t.Fatal("history should be disabled by yaml")
	}
	if !cfg.Log.Development || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if _, err := cfg.NewLogger(); err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"unknown preload": "models:\n  preload: [wheat]\n",
		"bad port":        "server:\n  port: http\n",
		"bad log level":   "log:\n  level: loud\n",
		"negative upload": "server:\n  max_upload_mb: -1\n",
		"malformed yaml":  "server: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for non-numeric MAX_UPLOAD_MB")
	}
}
