package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

func newTestEngine(t *testing.T) (*Engine, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	ideas := []*models.Idea{
		{
			ID:               "travel",
			Title:            "Travel Deal Alerts",
			RawInputText:     "An app that sends alerts for travel deals and discounts",
			ProblemStatement: "Travelers miss cheap fares.",
			Tags:             []string{"travel"},
			UpvotesCount:     3,
			CreatedAt:        base,
		},
		{
			ID:               "recipes",
			Title:            "Recipe Sharing Community",
			RawInputText:     "A place for home cooks to share recipes",
			ProblemStatement: "Home cooks lose their favourite recipes.",
			Tags:             []string{"cooking"},
			CreatedAt:        base.Add(time.Hour),
		},
		{
			ID:               "travel2",
			Title:            "Group Travel Planner",
			RawInputText:     "Plan trips with friends and split travel costs",
			ProblemStatement: "Coordinating group travel is painful.",
			UpvotesCount:     40,
			CreatedAt:        base.Add(2 * time.Hour),
		},
	}
	require.NoError(t, store.BatchCreateIdeas(context.Background(), ideas))

	engine := NewEngine(store, nil, nil, nil)
	engine.now = func() time.Time { return base.Add(3 * time.Hour) }
	return engine, store
}

func TestEngine_LiteralFirst(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "travel", Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.False(t, resp.AutoFuzzy, "literal hits filled the page")
	// Both literal hits score 1; hot order puts the popular one first.
	assert.Equal(t, "travel2", resp.Results[0].Idea.ID)
	assert.Equal(t, "travel", resp.Results[1].Idea.ID)
	assert.Equal(t, 1.0, resp.Results[0].Score)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, 2, resp.Results[1].Rank)
}

func TestEngine_SortNew(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "travel", Limit: 2, Sort: "new"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "travel2", resp.Results[0].Idea.ID)
}

func TestEngine_AutoFuzzy(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "recipie"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.True(t, resp.AutoFuzzy)
	assert.Equal(t, "recipes", resp.Results[0].Idea.ID)
	assert.Less(t, resp.Results[0].Score, 1.0)
}

func TestEngine_ExplicitFuzzy(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "recipie", Fuzzy: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.False(t, resp.AutoFuzzy)
}

func TestEngine_NoDuplicateHits(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "travel", Limit: 10})
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, r := range resp.Results {
		assert.False(t, seen[r.Idea.ID], "duplicate %s", r.Idea.ID)
		seen[r.Idea.ID] = true
	}
	assert.Equal(t, len(resp.Results), resp.Total)
}

func TestEngine_InvalidQuery(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Search(context.Background(), &models.SearchQuery{Query: "  "})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestEngine_LimitCappedByConfig(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetConfig(&Config{MaxLimit: 1})

	q := &models.SearchQuery{Query: "travel", Limit: 40}
	resp, err := engine.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Limit)
	assert.Len(t, resp.Results, 1)
}

func TestEngine_SetConfig(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetConfig(&Config{MinScore: 0.99, LongQueryMinScore: 0.99, FallbackMinScore: 0.99})
	assert.Equal(t, 0.99, engine.Config().FallbackMinScore)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "recipie"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.False(t, resp.AutoFuzzy)
}

func TestEngine_List(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.List(ctx, &models.ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "travel2", first.Items[0].ID)
	assert.Equal(t, "recipes", first.Items[1].ID)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, "2026-01-10T01:00:00Z", *first.NextCursor)

	second, err := engine.List(ctx, &models.ListQuery{Limit: 2, Cursor: models.ParseCursor(*first.NextCursor)})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "travel", second.Items[0].ID)
	assert.Nil(t, second.NextCursor)
}

func TestEngine_ListHotOrderWithinPage(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.List(context.Background(), &models.ListQuery{Sort: "hot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"travel2", "travel", "recipes"}, ideaIDs(resp.Items))

	resp, err = engine.List(context.Background(), &models.ListQuery{Sort: "new"})
	require.NoError(t, err)
	assert.Equal(t, []string{"travel2", "recipes", "travel"}, ideaIDs(resp.Items))
}

func TestEngine_ListRejectsUnknownSort(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.List(context.Background(), &models.ListQuery{Sort: "top"})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func ideaIDs(ideas []*models.Idea) []string {
	out := make([]string, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, idea.ID)
	}
	return out
}

func TestEngine_PunctuationQueryMatchesNothing(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, q := range []string{`"`, `["`, `"]`, `","`, "%"} {
		t.Run(q, func(t *testing.T) {
			resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: q})
			require.NoError(t, err)
			assert.Empty(t, resp.Results)
			assert.False(t, resp.AutoFuzzy)
		})
	}
}

func TestContainsLiteral(t *testing.T) {
	idea := &models.Idea{
		Title:            "Travel Deal Alerts",
		ProblemStatement: "Travelers miss cheap fares.",
		RawInputText:     "An app that sends alerts",
		Tags:             []string{"budget", "road trip"},
	}
	tests := []struct {
		q    string
		want bool
	}{
		{"deal alerts", true},
		{"CHEAP", true},
		{"road trip", true},
		{"budget road", true},
		{`"budget"`, false},
		{`["`, false},
		{"flights", false},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, containsLiteral(idea, tt.q))
		})
	}
}
