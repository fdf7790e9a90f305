package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "./test.db"
scanner:
  roots:
    - "./docs"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "test.db") {
		t.Errorf("database_path not expanded relative to config dir: %s", cfg.Storage.DatabasePath)
	}
	if len(cfg.Scanner.Roots) != 1 || cfg.Scanner.Roots[0] != filepath.Join(dir, "docs") {
		t.Errorf("roots not expanded: %v", cfg.Scanner.Roots)
	}
	if cfg.Scanner.Workers <= 0 {
		t.Error("workers should default to a positive value")
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Search.BM25K1 != 1.2 || cfg.Search.BM25B != 0.75 {
		t.Errorf("unexpected BM25 defaults: k1=%v b=%v", cfg.Search.BM25K1, cfg.Search.BM25B)
	}
	if cfg.Search.TitleBoost != 2.0 {
		t.Errorf("title boost default = %v, want 2.0", cfg.Search.TitleBoost)
	}
	if cfg.Scanner.MaxFileSizeBytes != 10<<20 {
		t.Errorf("max file size default = %d", cfg.Scanner.MaxFileSizeBytes)
	}
	found := false
	for _, p := range cfg.Scanner.Ignore {
		if p == "**/.git/**" {
			found = true
		}
	}
	if !found {
		t.Error("default ignore patterns should include **/.git/**")
	}
}

func TestApplyDefaults_keepsUserIgnore(t *testing.T) {
	cfg := Config{Scanner: ScannerConfig{Ignore: []string{"*.bak", ".*"}}}
	ApplyDefaults(&cfg)

	if cfg.Scanner.Ignore[0] != "*.bak" {
		t.Errorf("user patterns should come first: %v", cfg.Scanner.Ignore)
	}
	count := 0
	for _, p := range cfg.Scanner.Ignore {
		if p == ".*" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate default pattern appended: %v", cfg.Scanner.Ignore)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero workers", func(c *Config) { c.Scanner.Workers = -1 }, true},
		{"zero size cap", func(c *Config) { c.Scanner.MaxFileSizeBytes = -1 }, true},
		{"b out of range", func(c *Config) { c.Search.BM25B = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			ApplyDefaults(&cfg)
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
