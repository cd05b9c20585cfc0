package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything deckhand needs to reach the API and persist
// session state.
type Config struct {
	APIURL       string
	StateBackend string
	StatePath    string
	PollInterval time.Duration
	LogLevel     string
	LogFormat    string
	LogFile      string
}

const (
	defaultConfigPath   = "~/.config/deckhand/config.toml"
	defaultAPIURL       = "http://127.0.0.1:8000"
	defaultStateBackend = "file"
	defaultStateDir     = "~/.local/state/deckhand"
	defaultPollInterval = 60 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	minPollInterval     = 5 * time.Second
)

// envOverrides are applied after the file; non-empty values win.
type envOverrides struct {
	APIURL       string `env:"DECKHAND_API_URL"`
	StateBackend string `env:"DECKHAND_STATE_BACKEND"`
	StatePath    string `env:"DECKHAND_STATE_PATH"`
	LogLevel     string `env:"DECKHAND_LOG_LEVEL"`
	LogFormat    string `env:"DECKHAND_LOG_FORMAT"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the deckhand config, falling back to defaults when
// missing, then applies DECKHAND_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:       defaultAPIURL,
		StateBackend: defaultStateBackend,
		PollInterval: defaultPollInterval,
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := parseFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	applyOverrides(&cfg, overrides)

	cfg.StateBackend = strings.ToLower(cfg.StateBackend)
	switch cfg.StateBackend {
	case "file", "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("unknown state_backend %q", cfg.StateBackend)
	}
	if strings.TrimSpace(cfg.StatePath) == "" {
		cfg.StatePath = defaultStatePath(cfg.StateBackend)
	}
	if cfg.StateBackend != "memory" {
		cfg.StatePath = mustExpand(cfg.StatePath)
	}
	if cfg.LogFile != "" {
		cfg.LogFile = mustExpand(cfg.LogFile)
	}
	return cfg, nil
}

func parseFile(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL       string `toml:"api_url"`
		StateBackend string `toml:"state_backend"`
		StatePath    string `toml:"state_path"`
		PollInterval string `toml:"poll_interval"`
		LogLevel     string `toml:"log_level"`
		LogFormat    string `toml:"log_format"`
		LogFile      string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setIfPresent(&cfg.APIURL, raw.APIURL)
	setIfPresent(&cfg.StateBackend, raw.StateBackend)
	setIfPresent(&cfg.StatePath, raw.StatePath)
	setIfPresent(&cfg.LogLevel, raw.LogLevel)
	setIfPresent(&cfg.LogFormat, raw.LogFormat)
	setIfPresent(&cfg.LogFile, raw.LogFile)

	if interval := strings.TrimSpace(raw.PollInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("parse config: poll_interval: %w", err)
		}
		if d < minPollInterval {
			d = minPollInterval
		}
		cfg.PollInterval = d
	}
	return nil
}

func applyOverrides(cfg *Config, o envOverrides) {
	setIfPresent(&cfg.APIURL, o.APIURL)
	setIfPresent(&cfg.StateBackend, o.StateBackend)
	setIfPresent(&cfg.StatePath, o.StatePath)
	setIfPresent(&cfg.LogLevel, o.LogLevel)
	setIfPresent(&cfg.LogFormat, o.LogFormat)
}

func setIfPresent(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func defaultStatePath(backend string) string {
	switch backend {
	case "sqlite":
		return defaultStateDir + "/state.db"
	case "memory":
		return ""
	default:
		return defaultStateDir + "/state.toml"
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
