// Package config provides configuration loading and structs for the DocScope server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Scanner ScannerConfig `yaml:"scanner"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the document database and the builder lock.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	// LockPath is the cross-process index-builder lock file. Defaults to a
	// sibling of the database.
	LockPath string `yaml:"lock_path"`
}

// ScannerConfig holds file-tree scanning settings.
type ScannerConfig struct {
	Roots []string `yaml:"roots"`
	// Ignore is a list of glob patterns (doublestar syntax); matching files
	// and directories are pruned before they are opened.
	Ignore           []string `yaml:"ignore"`
	Workers          int      `yaml:"workers"`
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes"`
}

// IndexConfig holds tokenization settings.
type IndexConfig struct {
	// Stemming enables Porter2 stemming. Off by default so queries match
	// the exact word (e.g. "bayes" does not become "bay").
	Stemming      bool     `yaml:"stemming"`
	Stopwords     []string `yaml:"stopwords"`
	MaxTermLength int      `yaml:"max_term_length"`
}

// SearchConfig holds query execution and ranking settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	// TitleBoost multiplies score contributions from the title field.
	TitleBoost float64 `yaml:"title_boost"`
	// BM25K1 controls term-frequency saturation; BM25B controls length normalization.
	BM25K1 float64 `yaml:"bm25_k1"`
	BM25B  float64 `yaml:"bm25_b"`
	// MaxExpansions caps how many dictionary terms one wildcard or fuzzy
	// atom may expand to.
	MaxExpansions   int `yaml:"max_expansions"`
	SuggestionLimit int `yaml:"suggestion_limit"`
	CacheSize       int `yaml:"cache_size"`
	SnippetLength   int `yaml:"snippet_length"`
}

// WatchConfig holds filesystem watch settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or if a value is
// invalid after defaulting (these are fatal at startup by design).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.LockPath = expandPath(cfg.Storage.LockPath, configDir)
	for i := range cfg.Scanner.Roots {
		cfg.Scanner.Roots[i] = expandPath(cfg.Scanner.Roots[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting scan root add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects configurations that cannot produce a working service.
func Validate(cfg *Config) error {
	if cfg.Scanner.Workers <= 0 {
		return fmt.Errorf("scanner.workers must be positive, got %d", cfg.Scanner.Workers)
	}
	if cfg.Scanner.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("scanner.max_file_size_bytes must be positive, got %d", cfg.Scanner.MaxFileSizeBytes)
	}
	if cfg.Search.BM25K1 < 0 || cfg.Search.BM25B < 0 || cfg.Search.BM25B > 1 {
		return fmt.Errorf("invalid BM25 parameters: k1=%v b=%v", cfg.Search.BM25K1, cfg.Search.BM25B)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
