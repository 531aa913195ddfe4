// Package inbox imports idea documents dropped into watched directories.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/extract"
	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
)

// ImportedSuffix is appended to a file once its ideas are stored.
const ImportedSuffix = ".imported"

// AnonID is recorded as the creator of inbox imports.
const AnonID = "inbox"

// Importer stores a batch of records.
type Importer interface {
	Import(ctx context.Context, records []intake.Record, anonID string) (*intake.ImportResult, error)
}

// Inbox turns files into import batches.
type Inbox struct {
	extractor *extract.Extractor
	importer  Importer
	logger    *zap.Logger
	mu        sync.Mutex
}

// New creates an inbox over importer.
func New(importer Importer, logger *zap.Logger) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inbox{extractor: extract.NewExtractor(), importer: importer, logger: logger}
}

// Process imports the ideas in path and renames it with ImportedSuffix. A file with
// nothing importable is renamed as well so it is not retried.
func (i *Inbox) Process(ctx context.Context, path string) (*intake.ImportResult, error) {
	records, err := i.extractor.Records(path)
	switch {
	case errors.Is(err, extract.ErrNoRecords):
		i.logger.Info("inbox file has no ideas", zap.String("path", path))
		return &intake.ImportResult{}, markImported(path)
	case err != nil:
		return nil, err
	}

	result, err := i.importer.Import(ctx, records, AnonID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if err := markImported(path); err != nil {
		return nil, err
	}
	i.logger.Info("inbox file imported",
		zap.String("path", path),
		zap.Int("created", len(result.Created)),
		zap.Int("merged", len(result.Merged)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// Handle is a watcher callback. Calls are serialized; a file that is gone by the
// time its turn comes was already imported and is ignored, as is any file already
// carrying ImportedSuffix.
func (i *Inbox) Handle(ctx context.Context) func(path string) {
	return func(path string) {
		if strings.HasSuffix(path, ImportedSuffix) {
			return
		}
		i.mu.Lock()
		defer i.mu.Unlock()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return
		}
		if _, err := i.Process(ctx, path); err != nil {
			i.logger.Warn("inbox import failed", zap.String("path", path), zap.Error(err))
		}
	}
}

func markImported(path string) error {
	if err := os.Rename(path, path+ImportedSuffix); err != nil {
		return fmt.Errorf("mark %s imported: %w", path, err)
	}
	return nil
}
