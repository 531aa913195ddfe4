package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

// statusResponse mirrors the counts reported by GET /api/v1/status.
type statusResponse struct {
	Ideas          int64    `json:"ideas"`
	Merges         int64    `json:"merges"`
	DatabasePath   string   `json:"database_path"`
	DiskUsageBytes int64    `json:"disk_usage_bytes"`
	Inbox          []string `json:"inbox_directories"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show idea and merge counts for the local database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		components, err := initializeComponents()
		if err != nil {
			return err
		}
		defer components.Close()

		ctx := cmd.Context()
		status := statusResponse{
			DatabasePath: components.Config.Storage.DatabasePath,
			Inbox:        components.Config.Watch.Directories,
		}
		if status.Ideas, err = components.Storage.CountIdeas(ctx); err != nil {
			return err
		}
		if status.Merges, err = components.Storage.CountMerges(ctx); err != nil {
			return err
		}
		if status.DiskUsageBytes, err = storage.DatabaseSizeBytes(status.DatabasePath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.WriteJSON(out, status)
		}
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %d\n", bold("Ideas:"), status.Ideas)
		fmt.Fprintf(out, "%s %d\n", bold("Merges:"), status.Merges)
		fmt.Fprintf(out, "%s %s (%d bytes)\n", bold("Database:"), status.DatabasePath, status.DiskUsageBytes)
		for _, dir := range status.Inbox {
			fmt.Fprintf(out, "%s %s\n", bold("Inbox:"), dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
