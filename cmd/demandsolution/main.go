// Package main is the demandsolution CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/config"
	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
	"github.com/DolphinWorld/demandsolution-codex/internal/search"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/demandsolution/config.yaml"

var (
	configPath string
	debugFlag  bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "demandsolution",
	Short:         "Collect product ideas, fold duplicates together and rank them",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "demandsolution version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "write results as JSON")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, and a missing default file yields the built-in
// defaults. Returns the config and the path actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// joinArgs joins positional args with spaces so multi-word input works the same
// with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func outputFormat() cli.OutputFormat {
	return cli.Format(jsonOutput)
}

// Components holds initialized services.
type Components struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Storage    *storage.SQLiteStorage
	Engine     *search.Engine
	Intake     *intake.Service
}

// Close releases the database and flushes the logger.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

// initializeComponents loads the config and opens every service the commands share.
func initializeComponents() (*Components, error) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	debug := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debug))

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &Components{
		Config:     cfg,
		ConfigPath: resolved,
		Logger:     logger,
		Storage:    store,
		Engine:     search.NewEngine(store, &cfg.Search, ranking.NewRanker(&cfg.Ranking), logger),
		Intake:     intake.NewService(store, &cfg.Intake, &cfg.Dedup, intake.WithLogger(logger)),
	}, nil
}
