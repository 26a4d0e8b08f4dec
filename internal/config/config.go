package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		MaxUploadMB int    `yaml:"max_upload_mb"`
	} `yaml:"server"`

	Models struct {
		Dir           string   `yaml:"dir"`
		SharedLibrary string   `yaml:"shared_library"`
		Preload       []string `yaml:"preload"`
	} `yaml:"models"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Path returns the config file location, honouring CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// Load reads path (a missing file is fine), applies environment overrides and
// defaults, then validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.History.Enabled = true

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	envOverride(&cfg.Server.Port, "PORT")
	envOverride(&cfg.Models.Dir, "MODELS_DIR")
	envOverride(&cfg.Models.SharedLibrary, "ONNXRUNTIME_LIB")
	envOverride(&cfg.History.Path, "HISTORY_DB_PATH")
	envOverride(&cfg.Log.Level, "LOG_LEVEL")
	if err := envOverrideInt(&cfg.Server.MaxUploadMB, "MAX_UPLOAD_MB"); err != nil {
		return nil, err
	}
	if err := envOverrideBool(&cfg.Log.Development, "LOG_DEVELOPMENT"); err != nil {
		return nil, err
	}
	if err := envOverrideBool(&cfg.History.Enabled, "HISTORY_ENABLED"); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("PRELOAD_SPECIES"); ok {
		cfg.Models.Preload = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Models.Preload = append(cfg.Models.Preload, s)
			}
		}
	} else if cfg.Models.Preload == nil {
		cfg.Models.Preload = []string{string(registry.Tomato)}
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Models.Dir == "" {
		cfg.Models.Dir = "./models"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "./data/predictions.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max_upload_mb '%d': must be >= 1", c.Server.MaxUploadMB)
	}
	reg := registry.Builtin(c.Models.Dir)
	for _, s := range c.Models.Preload {
		if _, err := reg.Resolve(s); err != nil {
			return fmt.Errorf("invalid preload species: %w", err)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// MaxUploadBytes is the request body cap for image uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = n
	return nil
}

func envOverrideBool(field *bool, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = b
	return nil
}
