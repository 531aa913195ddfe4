// Package storage defines the persistence interface for ideas and merge records.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines idea and merge persistence operations.
type Storage interface {
	// Idea operations
	CreateIdea(ctx context.Context, idea *models.Idea) error
	GetIdea(ctx context.Context, id string) (*models.Idea, error)
	// ListIdeas returns up to limit ideas created strictly before the cursor, newest
	// first. A zero cursor starts at the newest idea.
	ListIdeas(ctx context.Context, before time.Time, limit int) ([]*models.Idea, error)
	// SearchIdeas returns ideas whose title, problem statement, raw input or tags
	// contain query (case-insensitive), newest first.
	SearchIdeas(ctx context.Context, query string, limit int) ([]*models.Idea, error)

	// Merge operations
	CreateMerge(ctx context.Context, merge *models.MergeRecord) error
	ListMerges(ctx context.Context, ideaID string) ([]*models.MergeRecord, error)

	// Vote operations. Each anonymous id counts once per idea; the bool reports
	// whether the call changed the count.
	AddVote(ctx context.Context, ideaID, anonID string) (bool, error)
	RemoveVote(ctx context.Context, ideaID, anonID string) (bool, error)

	// Batch operations
	BatchCreateIdeas(ctx context.Context, ideas []*models.Idea) error

	// Stats
	CountIdeas(ctx context.Context) (int64, error)
	CountMerges(ctx context.Context) (int64, error)

	Close() error
}
