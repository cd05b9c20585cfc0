package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("Load = %+v, want %+v", p, Defaults())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "deckhand")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := "theme = \"Slate\"\nper_page = 50\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.PerPage != 50 {
		t.Fatalf("Load = %+v, want Slate/50", p)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", PerPage: 10}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" || loaded.PerPage != 10 {
		t.Fatalf("Load = %+v, want Kanagawa/10", loaded)
	}
}

func TestLoad_NormalizesValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Prefs
	}{
		{"empty theme", "theme = \"\"\nper_page = 5\n", Prefs{Theme: defaultTheme, PerPage: 5}},
		{"zero page size", "theme = \"Slate\"\n", Prefs{Theme: "Slate", PerPage: defaultPerPage}},
		{"page size capped", "per_page = 500\n", Prefs{Theme: defaultTheme, PerPage: maxPerPage}},
		{"invalid toml", "not valid toml {{{\n", Defaults()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := Load(prefsFile)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Load = %+v, want %+v", got, tt.want)
			}
		})
	}
}
