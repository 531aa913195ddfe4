package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_Ideas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	idea := &models.Idea{
		ID:               "idea1",
		RawInputText:     "An app that sends alerts for travel deals",
		Platform:         "Mobile",
		Title:            "Travel Deal Alerts",
		ProblemStatement: "Travelers miss cheap fares.",
		Tags:             []string{"travel", "deals"},
		Features:         []string{"Price alerts"},
		CreatedByAnonID:  "anon-1",
	}
	if err := store.CreateIdea(ctx, idea); err != nil {
		t.Fatal(err)
	}
	if idea.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetIdea(ctx, "idea1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Travel Deal Alerts" || got.Platform != "Mobile" || got.CreatedByAnonID != "anon-1" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "deals" {
		t.Errorf("tags not round-tripped: %v", got.Tags)
	}
	if got.OpenQuestions == nil || len(got.OpenQuestions) != 0 {
		t.Errorf("expected empty open questions, got %v", got.OpenQuestions)
	}
	if !got.CreatedAt.Equal(idea.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, idea.CreatedAt)
	}

	_, err = store.GetIdea(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.CreateIdea(ctx, &models.Idea{ID: "idea1", RawInputText: "dup", Title: "dup"}); err == nil {
		t.Error("expected error on duplicate id")
	}
}

func TestSQLiteStorage_ListIdeas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ideas []*models.Idea
	for i := 0; i < 5; i++ {
		ideas = append(ideas, &models.Idea{
			ID:           fmt.Sprintf("idea%d", i),
			RawInputText: "text",
			Title:        fmt.Sprintf("Idea %d", i),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	if err := store.BatchCreateIdeas(ctx, ideas); err != nil {
		t.Fatal(err)
	}

	page, err := store.ListIdeas(ctx, time.Time{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != "idea4" || page[1].ID != "idea3" {
		t.Fatalf("first page = %v", ids(page))
	}

	page, err = store.ListIdeas(ctx, page[1].CreatedAt, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 || page[0].ID != "idea2" || page[2].ID != "idea0" {
		t.Fatalf("second page = %v", ids(page))
	}

	n, err := store.CountIdeas(ctx)
	if err != nil || n != 5 {
		t.Errorf("CountIdeas: %v, %d", err, n)
	}
}

func TestSQLiteStorage_SearchIdeas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, idea := range []*models.Idea{
		{ID: "a", RawInputText: "Flight deal alerts", Title: "Travel Deals"},
		{ID: "b", RawInputText: "Recipe sharing", Title: "Home Cooks", Tags: []string{"cooking"}},
		{ID: "c", RawInputText: "Track 100% of expenses", Title: "Budget_Tool"},
	} {
		if err := store.CreateIdea(ctx, idea); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"travel", []string{"a"}},
		{"FLIGHT DEAL", []string{"a"}},
		{"cooking", []string{"b"}},
		{"100%", []string{"c"}},
		{"a_i", nil}, // unescaped, "_" would match "ari" in "sharing"
		{"get_tool", []string{"c"}},
		{"", nil},
		{"nothing here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := store.SearchIdeas(ctx, tt.query, 10)
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(ids(got)) != fmt.Sprint(tt.want) {
				t.Errorf("SearchIdeas(%q) = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}

func TestSQLiteStorage_Merges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateIdea(ctx, &models.Idea{ID: "target", RawInputText: "text", Title: "Target"}); err != nil {
		t.Fatal(err)
	}
	merge := &models.MergeRecord{
		ID: "m1", TargetIdeaID: "target", SourceText: "travel deal alerts",
		Reason: "SUBSET", SimilarityScore: 0.86, AnonID: "anon-2",
	}
	if err := store.CreateMerge(ctx, merge); err != nil {
		t.Fatal(err)
	}

	err := store.CreateMerge(ctx, &models.MergeRecord{ID: "m2", TargetIdeaID: "ghost", SourceText: "x", Reason: "DUPLICATE"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing target, got %v", err)
	}

	merges, err := store.ListMerges(ctx, "target")
	if err != nil {
		t.Fatal(err)
	}
	if len(merges) != 1 || merges[0].Reason != "SUBSET" || merges[0].SimilarityScore != 0.86 {
		t.Errorf("merges = %+v", merges)
	}

	n, _ := store.CountMerges(ctx)
	if n != 1 {
		t.Errorf("expected 1 merge, got %d", n)
	}
}

func TestSQLiteStorage_Votes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateIdea(ctx, &models.Idea{ID: "idea1", RawInputText: "text", Title: "Idea"}); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name   string
		op     func(context.Context, string, string) (bool, error)
		anon   string
		change bool
		count  int
	}{
		{"first vote", store.AddVote, "anon-1", true, 1},
		{"repeat vote", store.AddVote, "anon-1", false, 1},
		{"second voter", store.AddVote, "anon-2", true, 2},
		{"withdraw", store.RemoveVote, "anon-1", true, 1},
		{"withdraw again", store.RemoveVote, "anon-1", false, 1},
	}
	for _, step := range steps {
		changed, err := step.op(ctx, "idea1", step.anon)
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if changed != step.change {
			t.Errorf("%s: changed = %v, want %v", step.name, changed, step.change)
		}
		idea, err := store.GetIdea(ctx, "idea1")
		if err != nil {
			t.Fatal(err)
		}
		if idea.UpvotesCount != step.count {
			t.Errorf("%s: upvotes = %d, want %d", step.name, idea.UpvotesCount, step.count)
		}
	}

	if _, err := store.AddVote(ctx, "ghost", "anon-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func ids(ideas []*models.Idea) []string {
	var out []string
	for _, i := range ideas {
		out = append(out, i.ID)
	}
	return out
}
