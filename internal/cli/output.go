// Package cli renders command results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// Format returns OutputJSON when asJSON is set.
func Format(asJSON bool) OutputFormat {
	if asJSON {
		return OutputJSON
	}
	return OutputText
}

const separator = "─────────────────────────────────────────────────────────"

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, response)
	}
	fmt.Fprintf(w, "\nFound %d results for %q in %dms\n", response.Total, response.Query, response.QueryTime)
	if response.AutoFuzzy {
		fmt.Fprintln(w, yellow("(includes typo-tolerant matches)"))
	}
	fmt.Fprintln(w)
	for _, result := range response.Results {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | Upvotes: %d\n", result.Rank, result.Score, result.Idea.UpvotesCount)
		writeIdea(w, result.Idea)
	}
	return nil
}

// WriteIdeaList writes one page of ideas followed by the cursor for the next page.
func WriteIdeaList(w io.Writer, resp *models.ListResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, resp)
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, gray("No ideas."))
	}
	for _, idea := range resp.Items {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Upvotes: %d | Created: %s\n", idea.UpvotesCount, idea.CreatedAt.Format("2006-01-02 15:04"))
		writeIdea(w, idea)
	}
	if resp.NextCursor != nil {
		fmt.Fprintf(w, "Next page: --cursor %s\n", *resp.NextCursor)
	}
	return nil
}

// WriteSubmitResult writes the outcome of a submission.
func WriteSubmitResult(w io.Writer, resp *models.SubmitResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, resp)
	}
	if resp.Merged {
		fmt.Fprintf(w, "%s into %s (%s, similarity %.4f)\n",
			yellow("Merged"), resp.Idea.ID, resp.Merge.Reason, resp.Merge.SimilarityScore)
	} else {
		fmt.Fprintf(w, "%s %s\n", green("Created"), resp.Idea.ID)
	}
	writeIdea(w, resp.Idea)
	return nil
}

// WriteDedupCheck writes a merge dry-run.
func WriteDedupCheck(w io.Writer, resp *models.DedupCheckResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, resp)
	}
	fmt.Fprintf(w, "Input tokens: %s\n", gray(strings.Join(resp.InputTokens, " ")))
	if resp.Decision == nil {
		fmt.Fprintln(w, green("No merge target: this would be a new idea."))
	} else {
		fmt.Fprintf(w, "%s %s into %s (similarity %.4f)\n", yellow("Would merge as"),
			resp.Decision.Reason, resp.Decision.TargetIdeaID, resp.Decision.SimilarityScore)
	}
	for _, ev := range resp.Evaluations {
		if ev.Skipped != "" {
			continue
		}
		fmt.Fprintf(w, "  %s jaccard=%.4f coverage=%.4f overlap=%d score=%.4f %s\n",
			ev.CandidateID, ev.Jaccard, ev.Coverage, ev.Overlap.All, ev.Score, ev.Reason)
	}
	return nil
}

// WriteImportResult writes a bulk import summary.
func WriteImportResult(w io.Writer, res *intake.ImportResult, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, res)
	}
	fmt.Fprintf(w, "%s %d, %s %d, %s %d\n",
		green("created"), len(res.Created), yellow("merged"), len(res.Merged), red("skipped"), len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  record %d: %s\n", s.Index, s.Reason)
	}
	return nil
}

func writeIdea(w io.Writer, idea *models.Idea) {
	fmt.Fprintf(w, "ID: %s\n", idea.ID)
	fmt.Fprintf(w, "Title: %s\n", cyan(idea.Title))
	if len(idea.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(idea.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n\n", TruncateWords(utils.CollapseWhitespace(idea.RawInputText), 40))
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
