package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
)

var (
	searchLimit  int
	searchSort   string
	searchFuzzy  bool
	searchServer string
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>",
	Short: "Search ideas, tolerating typos",
	Long: `Search ideas by title, problem statement, tags and text. Literal matches come
first; when they don't fill the page, typo-tolerant matches are added after them.`,
	Example: `  demandsolution search flight deals
  demandsolution search --fuzzy "flihgt deal"
  demandsolution search --server http://localhost:8080 budget travel`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := &models.SearchQuery{
			Query: joinArgs(args),
			Limit: searchLimit,
			Sort:  ranking.SortOrder(searchSort),
			Fuzzy: searchFuzzy,
		}
		if query.Query == "" {
			return errors.New("query is required")
		}

		var (
			response *models.SearchResponse
			err      error
		)
		if searchServer != "" {
			response, err = searchViaHTTP(searchServer, query)
		} else {
			response, err = searchLocal(cmd, query)
		}
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return cli.WriteSearchResults(cmd.OutOrStdout(), response, outputFormat())
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", models.DefaultSearchLimit, "number of results")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(ranking.SortHot), "tie-break among equal scores: hot or new")
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "skip the literal pass and rank by typo-tolerant similarity")
	searchCmd.Flags().StringVar(&searchServer, "server", "", "query a running server at this URL instead of the local database")
	rootCmd.AddCommand(searchCmd)
}

func searchLocal(cmd *cobra.Command, query *models.SearchQuery) (*models.SearchResponse, error) {
	components, err := initializeComponents()
	if err != nil {
		return nil, err
	}
	defer components.Close()
	return components.Engine.Search(cmd.Context(), query)
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(serverURL, "/") + "/api/v1/search"
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}
