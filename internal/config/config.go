package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all mediasort configuration
type Config struct {
	Parameters ParametersConfig `toml:"parameters"`
	API        APIConfig        `toml:"api"`
	Overrides  OverridesConfig  `toml:"overrides"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// ParametersConfig controls filename interpretation and destination synthesis
type ParametersConfig struct {
	SplitCharacters    []string        `toml:"split_characters"`     // tried in order, first split with enough tokens wins
	MinSplitLength     int             `toml:"min_split_length"`     // minimum token count for a split to be accepted
	ValidExtensions    []string        `toml:"valid_extensions"`     // dot-prefixed, e.g. ".mkv"
	SuffixThe          bool            `toml:"suffix_the"`           // "The X" -> "X, The"
	TagMetainfo        bool            `toml:"tag_metainfo"`         // append " - [tags]" to movie filenames
	Replace            bool            `toml:"replace"`              // overwrite existing destination files
	FallbackLocalTitle bool            `toml:"fallback_local_title"` // title-case the parsed tokens when lookup fails
	TranslateLanguage  string          `toml:"translate_language"`   // 3-letter code, empty to disable
	MetainfoMap        []MetainfoEntry `toml:"metainfo_map"`
}

// MetainfoEntry is one ordered (pattern -> tag) rule.
// Declaration order in the config file defines both match precedence and
// output ordering, so the map is an array of tables rather than a table.
type MetainfoEntry struct {
	Pattern string `toml:"pattern"` // regular expression matched against the source filename
	Group   string `toml:"group"`   // cut, resolution, source, hdr, audio
	Tag     string `toml:"tag"`     // emitted tag value
}

// OverridesConfig holds the search and name override tables
type OverridesConfig struct {
	Search map[string]string `toml:"search"` // joined query -> replacement query
	NameTV map[string]string `toml:"name_tv"`
	NameMV map[string]string `toml:"name_movie"`
}

// APIConfig holds metadata provider endpoints and keys
type APIConfig struct {
	TVDB ProviderConfig `toml:"tvdb"`
	TMDB ProviderConfig `toml:"tmdb"`
}

// ProviderConfig is one provider's endpoint and credentials
type ProviderConfig struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

// DaemonConfig holds inbox watching and sorting defaults for mediasortd
type DaemonConfig struct {
	InboxPaths     []string `toml:"inbox_paths"`
	MoviesDest     string   `toml:"movies_dest"`
	TVDest         string   `toml:"tv_dest"`
	Action         string   `toml:"action"`          // symlink, hardlink, copy, move
	RescanInterval string   `toml:"rescan_interval"` // e.g. "1h"
	SettleSeconds  int      `toml:"settle_seconds"`  // quiet time before a new file is sorted
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Parameters: ParametersConfig{
			SplitCharacters: []string{" ", "."},
			MinSplitLength:  3,
			ValidExtensions: []string{
				".mkv", ".mp4", ".avi", ".mov", ".wmv",
				".webm", ".m4v", ".mpg", ".mpeg", ".m2ts", ".ts",
			},
			SuffixThe:   true,
			TagMetainfo: false,
			Replace:     false,
			MetainfoMap: DefaultMetainfoMap(),
		},
		API: APIConfig{
			TVDB: ProviderConfig{URL: "https://api4.thetvdb.com/v4"},
			TMDB: ProviderConfig{URL: "https://api.themoviedb.org/3"},
		},
		Overrides: OverridesConfig{
			Search: map[string]string{},
			NameTV: map[string]string{},
			NameMV: map[string]string{},
		},
		Daemon: DaemonConfig{
			Action:         "move",
			RescanInterval: "1h",
			SettleSeconds:  30,
		},
	}
}

// DefaultMetainfoMap returns the stock tag rules, grouped cuts first, then
// resolution, source, HDR, audio. Multiple patterns may map to the same tag;
// the builder dedups by value.
func DefaultMetainfoMap() []MetainfoEntry {
	return []MetainfoEntry{
		// Cuts
		{Pattern: `(?i)Extended`, Group: "cut", Tag: "Extended Edition"},
		{Pattern: `(?i)Director'?s\.?Cut`, Group: "cut", Tag: "Directors Cut"},
		{Pattern: `(?i)Unrated`, Group: "cut", Tag: "Unrated"},
		{Pattern: `(?i)Remastered`, Group: "cut", Tag: "Remastered"},
		{Pattern: `IMAX`, Group: "cut", Tag: "IMAX"},
		// Resolution
		{Pattern: `2160[pP]`, Group: "resolution", Tag: "2160p"},
		{Pattern: `1080[pP]`, Group: "resolution", Tag: "1080p"},
		{Pattern: `720[pP]`, Group: "resolution", Tag: "720p"},
		{Pattern: `480[pP]`, Group: "resolution", Tag: "480p"},
		// Source
		{Pattern: `Blu-?[Rr]ay`, Group: "source", Tag: "BD"},
		{Pattern: `(?i)BDRip`, Group: "source", Tag: "BD"},
		// Word boundary keeps title words like "Blue" from tagging BD
		{Pattern: `Blu\b`, Group: "source", Tag: "BD"},
		{Pattern: `(?i)WEB-?DL`, Group: "source", Tag: "WEB"},
		{Pattern: `(?i)WEBRip`, Group: "source", Tag: "WEB"},
		{Pattern: `(?i)HDTV`, Group: "source", Tag: "HDTV"},
		{Pattern: `(?i)DVDRip`, Group: "source", Tag: "DVD"},
		// HDR
		{Pattern: `HDR10\+`, Group: "hdr", Tag: "HDR10+"},
		{Pattern: `HDR`, Group: "hdr", Tag: "HDR"},
		{Pattern: `(?i)Dolby\.?Vision|DoVi`, Group: "hdr", Tag: "DV"},
		// Audio
		{Pattern: `(?i)Atmos`, Group: "audio", Tag: "Atmos"},
		{Pattern: `DTS[-.]?HD`, Group: "audio", Tag: "DTS-HD"},
		// Plain DTS must not also fire on DTS-HD releases, separated or not
		{Pattern: `DTS(?:$|[^-.H]|[-.](?:$|[^H]|H[^D]))`, Group: "audio", Tag: "DTS"},
		{Pattern: `(?i)TrueHD`, Group: "audio", Tag: "TrueHD"},
		{Pattern: `DD[P+]|EAC3`, Group: "audio", Tag: "DD+"},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(configDir, "mediasort", "config.toml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// Load reads the config file, creating it with defaults if it doesn't exist
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configFile)
}

// LoadFile reads a config from an explicit path, creating it with defaults
// when it is the standard location and absent
func LoadFile(configFile string) (*Config, error) {
	std, _ := ConfigPath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if configFile != std {
			return nil, fmt.Errorf("config file not found: %s", configFile)
		}
		if err := EnsureConfigDir(); err != nil {
			return nil, err
		}
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if len(c.Parameters.SplitCharacters) == 0 {
		return fmt.Errorf("no split characters configured")
	}
	for _, sc := range c.Parameters.SplitCharacters {
		if len(sc) != 1 {
			return fmt.Errorf("split character %q must be a single character", sc)
		}
	}

	if c.Parameters.MinSplitLength < 1 {
		return fmt.Errorf("min_split_length must be positive, got %d", c.Parameters.MinSplitLength)
	}

	if len(c.Parameters.ValidExtensions) == 0 {
		return fmt.Errorf("no valid extensions configured")
	}
	for _, ext := range c.Parameters.ValidExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must be dot-prefixed", ext)
		}
	}

	for i, entry := range c.Parameters.MetainfoMap {
		if entry.Tag == "" {
			return fmt.Errorf("metainfo_map entry %d has no tag", i)
		}
		if _, err := regexp.Compile(entry.Pattern); err != nil {
			return fmt.Errorf("metainfo_map entry %d: invalid pattern %q: %w", i, entry.Pattern, err)
		}
	}

	if lang := c.Parameters.TranslateLanguage; lang != "" && len(lang) != 3 {
		return fmt.Errorf("translate_language must be a 3-letter code, got %q", lang)
	}

	if c.Daemon.Action != "" {
		switch c.Daemon.Action {
		case "symlink", "hardlink", "copy", "move":
		default:
			return fmt.Errorf("invalid daemon action: %s (must be symlink, hardlink, copy, or move)", c.Daemon.Action)
		}
	}

	return nil
}

// ValidateDaemon checks the additional settings mediasortd needs
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if len(c.Daemon.InboxPaths) == 0 {
		return fmt.Errorf("no inbox paths configured")
	}
	for _, path := range c.Daemon.InboxPaths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("inbox path %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("inbox path %s is not a directory", path)
		}
	}

	if c.Daemon.MoviesDest == "" && c.Daemon.TVDest == "" {
		return fmt.Errorf("no destination paths configured")
	}

	return nil
}

// HasValidExtension reports whether path carries one of the configured
// media extensions (case-insensitive)
func (c *Config) HasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range c.Parameters.ValidExtensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
