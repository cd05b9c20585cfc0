package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.StateBackend != "file" {
		t.Fatalf("StateBackend = %q, want file", cfg.StateBackend)
	}
	wantState := filepath.Join(home, ".local/state/deckhand/state.toml")
	if cfg.StatePath != wantState {
		t.Fatalf("StatePath = %q, want %q", cfg.StatePath, wantState)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("log = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://app.example.com  "
state_backend = "SQLite"
state_path = "  ~/.deckhand/state.db  "
poll_interval = "90s"
log_level = "debug"
log_format = "json"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://app.example.com" {
		t.Fatalf("APIURL = %q, want https://app.example.com", cfg.APIURL)
	}
	if cfg.StateBackend != "sqlite" {
		t.Fatalf("StateBackend = %q, want sqlite", cfg.StateBackend)
	}
	if cfg.StatePath != filepath.Join(home, ".deckhand/state.db") {
		t.Fatalf("StatePath = %q, want it under HOME", cfg.StatePath)
	}
	if cfg.PollInterval != 90*time.Second {
		t.Fatalf("PollInterval = %v, want 90s", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("log = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_PollIntervalHasFloor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`poll_interval = "1s"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != minPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, minPollInterval)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DECKHAND_API_URL", "http://override:9000")
	t.Setenv("DECKHAND_STATE_BACKEND", "memory")
	t.Setenv("DECKHAND_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://file:8000"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://override:9000" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.StateBackend != "memory" || cfg.StatePath != "" {
		t.Fatalf("state = %q/%q, want memory with no path", cfg.StateBackend, cfg.StatePath)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `api_url = [`, "parse config"},
		{"bad duration", `poll_interval = "soon"`, "poll_interval"},
		{"bad backend", `state_backend = "etcd"`, "state_backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
