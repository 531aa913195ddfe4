package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
)

var (
	listSort   string
	listLimit  int
	listCursor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas a page at a time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := listQuery(listSort, listLimit, listCursor)
		components, err := initializeComponents()
		if err != nil {
			return err
		}
		defer components.Close()

		resp, err := components.Engine.List(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}
		return cli.WriteIdeaList(cmd.OutOrStdout(), resp, outputFormat())
	},
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", string(ranking.SortHot), "hot or new")
	listCmd.Flags().IntVar(&listLimit, "limit", models.DefaultListLimit, "ideas per page")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "next cursor printed by the previous page")
	rootCmd.AddCommand(listCmd)
}

// listQuery builds a page request. An unparseable cursor starts from the top, as it
// does over HTTP.
func listQuery(sort string, limit int, cursor string) *models.ListQuery {
	return &models.ListQuery{
		Sort:   ranking.SortOrder(sort),
		Limit:  limit,
		Cursor: models.ParseCursor(cursor),
	}
}
