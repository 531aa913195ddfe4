package search

import (
	"context"
	"fmt"
	"time"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
)

// List returns one page of ideas. Pages are cut by creation time so the cursor stays
// stable while votes move ideas around; hot order applies within the page.
func (e *Engine) List(ctx context.Context, query *models.ListQuery) (*models.ListResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	ideas, err := e.storage.ListIdeas(ctx, query.Cursor, query.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}

	resp := &models.ListResponse{Items: []*models.Idea{}}
	if len(ideas) > query.Limit {
		ideas = ideas[:query.Limit]
		cursor := ideas[len(ideas)-1].CreatedAt.UTC().Format(time.RFC3339Nano)
		resp.NextCursor = &cursor
	}
	if query.Sort == ranking.SortHot {
		ranking.Sort(e.ranker.Load(), ideas, ranking.SortHot, e.now(), (*models.Idea).RankItem)
	}
	resp.Items = append(resp.Items, ideas...)
	return resp, nil
}
