// Package cmd provides the CLI commands for DocScope.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/service"
	"github.com/hyperjump/docscope/internal/storage"
	"github.com/hyperjump/docscope/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/docscope/config.yaml"

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the docscope CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscope",
		Short: "Document scanner and search engine for local file trees",
		Long: `DocScope scans directory trees of documents (markdown, text, HTML,
PDF, source code, JSON/YAML), extracts text and metadata, and serves
ranked full-text search with facets over its own inverted index.

Run 'docscope serve' to start the HTTP API, then 'docscope scan' to
index your configured roots.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("docscope version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "docscope serve" from the project dir uses the
// project's config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// environment bundles the components a direct-mode command needs.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *service.Service
}

func (e *environment) Close() {
	if e.svc != nil {
		_ = e.svc.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// openEnvironment loads config, builds the logger, opens storage, and wires
// the service. Used by serve and by commands running without a server.
func openEnvironment() (*environment, error) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", cfg.Debug || debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	svc, err := service.New(cfg, store, service.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger, svc: svc}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docscope version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docscope version %s\n", version)
		},
	}
}
