package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Parameters.SplitCharacters) == 0 {
		t.Error("expected default split characters")
	}

	if cfg.Parameters.MinSplitLength < 1 {
		t.Errorf("expected positive min split length, got %d", cfg.Parameters.MinSplitLength)
	}

	if !cfg.Parameters.SuffixThe {
		t.Error("expected suffix_the enabled by default")
	}

	if cfg.Parameters.Replace {
		t.Error("expected replace disabled by default")
	}

	if len(cfg.Parameters.MetainfoMap) == 0 {
		t.Error("expected default metainfo map")
	}

	if cfg.Daemon.Action != "move" {
		t.Errorf("expected default daemon action 'move', got %q", cfg.Daemon.Action)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.toml")

	content := `[parameters]
valid_extensions = [".mkv"]
suffix_the = false
tag_metainfo = true
translate_language = "fra"

[api.tvdb]
url = "https://tvdb.example"
key = "abc123"

[overrides.search]
"s w a t" = "swat"

[overrides.name_tv]
"Shameless" = "Shameless (US)"

[daemon]
inbox_paths = ["/inbox"]
movies_dest = "/library/movies"
action = "hardlink"
`

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Parameters.SuffixThe {
		t.Error("suffix_the should be false")
	}
	if !cfg.Parameters.TagMetainfo {
		t.Error("tag_metainfo should be true")
	}
	if cfg.Parameters.TranslateLanguage != "fra" {
		t.Errorf("translate_language = %q, want fra", cfg.Parameters.TranslateLanguage)
	}
	if cfg.API.TVDB.Key != "abc123" {
		t.Errorf("tvdb key = %q, want abc123", cfg.API.TVDB.Key)
	}
	if cfg.Overrides.Search["s w a t"] != "swat" {
		t.Error("search override not loaded")
	}
	if cfg.Overrides.NameTV["Shameless"] != "Shameless (US)" {
		t.Error("tv name override not loaded")
	}
	if cfg.Daemon.Action != "hardlink" {
		t.Errorf("daemon action = %q, want hardlink", cfg.Daemon.Action)
	}

	// Fields absent from the file keep their defaults
	if len(cfg.Parameters.SplitCharacters) == 0 {
		t.Error("split characters default was lost")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for missing non-standard config path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"no split characters", func(c *Config) { c.Parameters.SplitCharacters = nil }, true},
		{"multi-char split", func(c *Config) { c.Parameters.SplitCharacters = []string{".."} }, true},
		{"zero min split", func(c *Config) { c.Parameters.MinSplitLength = 0 }, true},
		{"no extensions", func(c *Config) { c.Parameters.ValidExtensions = nil }, true},
		{"extension without dot", func(c *Config) { c.Parameters.ValidExtensions = []string{"mkv"} }, true},
		{"bad metainfo pattern", func(c *Config) {
			c.Parameters.MetainfoMap = []MetainfoEntry{{Pattern: "[bad", Tag: "X"}}
		}, true},
		{"metainfo entry without tag", func(c *Config) {
			c.Parameters.MetainfoMap = []MetainfoEntry{{Pattern: "ok"}}
		}, true},
		{"bad language code", func(c *Config) { c.Parameters.TranslateLanguage = "en" }, true},
		{"good language code", func(c *Config) { c.Parameters.TranslateLanguage = "eng" }, false},
		{"bad daemon action", func(c *Config) { c.Daemon.Action = "teleport" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateDaemon(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Daemon.InboxPaths = []string{tmpDir}
	cfg.Daemon.MoviesDest = "/library/movies"

	if err := cfg.ValidateDaemon(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Daemon.InboxPaths = nil
	if err := cfg.ValidateDaemon(); err == nil {
		t.Error("expected error with no inbox paths")
	}

	cfg.Daemon.InboxPaths = []string{"/nonexistent/inbox"}
	if err := cfg.ValidateDaemon(); err == nil {
		t.Error("expected error for missing inbox path")
	}

	cfg.Daemon.InboxPaths = []string{tmpDir}
	cfg.Daemon.MoviesDest = ""
	cfg.Daemon.TVDest = ""
	if err := cfg.ValidateDaemon(); err == nil {
		t.Error("expected error with no destinations")
	}
}

func TestHasValidExtension(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/inbox/movie.mkv", true},
		{"/inbox/movie.MKV", true},
		{"/inbox/movie.mp4", true},
		{"/inbox/notes.txt", false},
		{"/inbox/noextension", false},
	}

	for _, tt := range tests {
		if got := cfg.HasValidExtension(tt.path); got != tt.expected {
			t.Errorf("HasValidExtension(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
