package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/config"
	"github.com/DolphinWorld/demandsolution-codex/internal/inbox"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
	"github.com/DolphinWorld/demandsolution-codex/internal/server"
	"github.com/DolphinWorld/demandsolution-codex/internal/watcher"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP API",
	Long: `Serve the idea API. Files dropped into the configured watch directories are
imported as ideas, and with watch.reload_config set the dedup, search and ranking
sections are re-read whenever the config file changes.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	components, err := initializeComponents()
	if err != nil {
		return err
	}
	defer components.Close()
	cfg := components.Config
	logger := components.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	box := inbox.New(components.Intake, logger)
	inboxWatcher := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.RecursiveOrDefault(),
		watcher.Extensions(cfg.Watch.Extensions),
		box.Handle(ctx),
		watcher.WithLogger(logger),
	)
	if err := inboxWatcher.Start(ctx); err != nil {
		return err
	}
	defer inboxWatcher.Stop()
	inboxWatcher.SyncExistingFiles()

	if cfg.Watch.ReloadConfig && components.ConfigPath != "" {
		configWatcher := watcher.NewWatcher(
			[]string{filepath.Dir(components.ConfigPath)},
			false,
			watcher.File(components.ConfigPath),
			reloadTunables(components),
			watcher.WithLogger(logger),
		)
		if err := configWatcher.Start(ctx); err != nil {
			return err
		}
		defer configWatcher.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Intake,
		components.Storage,
		&cfg.Server,
		logger,
		server.WithDatabasePath(cfg.Storage.DatabasePath),
		server.WithInbox(inboxWatcher),
	)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// reloadTunables returns a watcher callback that re-reads the config file and swaps in
// its dedup, search and ranking sections. A file that fails to load leaves the
// running settings alone.
func reloadTunables(c *Components) func(path string) {
	return func(path string) {
		cfg, err := config.Load(path)
		if err != nil {
			c.Logger.Warn("config reload failed, keeping current settings", zap.String("path", path), zap.Error(err))
			return
		}
		applyTunables(c, cfg)
		c.Logger.Info("config reloaded", zap.String("path", path))
	}
}

func applyTunables(c *Components, cfg *config.Config) {
	c.Intake.SetDedupConfig(&cfg.Dedup)
	c.Engine.SetConfig(&cfg.Search)
	c.Engine.SetRanker(ranking.NewRanker(&cfg.Ranking))
}
