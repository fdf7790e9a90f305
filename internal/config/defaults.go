package config

import "runtime"

// DefaultIgnorePatterns are pruned from every scan in addition to the
// configured patterns. Dotfiles, VCS metadata, and editor droppings.
var DefaultIgnorePatterns = []string{
	".*",
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"*.pyc",
	"*.swp",
	"*.tmp",
	".DS_Store",
	"Thumbs.db",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/docscope/data/documents.db"
	}
	if cfg.Storage.LockPath == "" {
		cfg.Storage.LockPath = cfg.Storage.DatabasePath + ".lock"
	}
	if cfg.Scanner.Workers == 0 {
		cfg.Scanner.Workers = runtime.NumCPU()
	}
	if cfg.Scanner.MaxFileSizeBytes == 0 {
		cfg.Scanner.MaxFileSizeBytes = 10 << 20 // 10 MiB
	}
	seen := make(map[string]bool, len(cfg.Scanner.Ignore))
	for _, p := range cfg.Scanner.Ignore {
		seen[p] = true
	}
	for _, p := range DefaultIgnorePatterns {
		if !seen[p] {
			cfg.Scanner.Ignore = append(cfg.Scanner.Ignore, p)
		}
	}
	if cfg.Index.MaxTermLength == 0 {
		cfg.Index.MaxTermLength = 64
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TitleBoost == 0 {
		cfg.Search.TitleBoost = 2.0
	}
	if cfg.Search.BM25K1 == 0 {
		cfg.Search.BM25K1 = 1.2
	}
	if cfg.Search.BM25B == 0 {
		cfg.Search.BM25B = 0.75
	}
	if cfg.Search.MaxExpansions == 0 {
		cfg.Search.MaxExpansions = 128
	}
	if cfg.Search.SuggestionLimit == 0 {
		cfg.Search.SuggestionLimit = 10
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Search.SnippetLength == 0 {
		cfg.Search.SnippetLength = 200
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
}
