package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
	"github.com/DolphinWorld/demandsolution-codex/internal/watcher"
)

type fakeImporter struct {
	mu      sync.Mutex
	calls   [][]intake.Record
	anonIDs []string
	err     error
}

func (f *fakeImporter) Import(_ context.Context, records []intake.Record, anonID string) (*intake.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, records)
	f.anonIDs = append(f.anonIDs, anonID)
	if f.err != nil {
		return nil, f.err
	}
	return &intake.ImportResult{Created: make([]*models.Idea, len(records))}, nil
}

func writeInboxFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestProcess_ImportsAndMarksFile(t *testing.T) {
	path := writeInboxFile(t, "ideas.md", "A shared pantry tracker for roommates\n\nAn app that splits rent between flatmates\n")
	imp := &fakeImporter{}

	result, err := New(imp, nil).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, imp.calls, 1)
	assert.Equal(t, "A shared pantry tracker for roommates", imp.calls[0][0].Input.RawInputText)
	assert.Equal(t, []string{AnonID}, imp.anonIDs)

	assert.NoFileExists(t, path)
	assert.FileExists(t, path+ImportedSuffix)
}

func TestProcess_EmptyFileIsMarked(t *testing.T) {
	path := writeInboxFile(t, "empty.txt", "\n\n")
	imp := &fakeImporter{}

	result, err := New(imp, nil).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, imp.calls)
	assert.FileExists(t, path+ImportedSuffix)
}

func TestProcess_ImportErrorKeepsFile(t *testing.T) {
	path := writeInboxFile(t, "ideas.txt", "A shared pantry tracker for roommates")
	imp := &fakeImporter{err: errors.New("database is locked")}

	_, err := New(imp, nil).Process(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.FileExists(t, path)
}

func TestHandle_IgnoresMissingFile(t *testing.T) {
	imp := &fakeImporter{}
	New(imp, nil).Handle(context.Background())(filepath.Join(t.TempDir(), "gone.txt"))
	assert.Empty(t, imp.calls)
}

func TestHandle_ImportsThroughIntake(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "inbox.db"))
	require.NoError(t, err)
	defer store.Close()
	svc := intake.NewService(store, nil, nil)

	path := writeInboxFile(t, "ideas.txt",
		"Build an app that notifies travelers about flight deals and discounts\n\n"+
			"too short\n")
	handle := New(svc, nil).Handle(context.Background())
	handle(path)
	handle(path)

	ctx := context.Background()
	n, err := store.CountIdeas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ideas, err := store.ListIdeas(ctx, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, AnonID, ideas[0].CreatedByAnonID)
}

func (f *fakeImporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestHandle_SkipsImportedFiles(t *testing.T) {
	path := writeInboxFile(t, "ideas.txt"+ImportedSuffix, "A shared pantry tracker for roommates\n")
	imp := &fakeImporter{}

	New(imp, nil).Handle(context.Background())(path)
	assert.Zero(t, imp.callCount())
	assert.FileExists(t, path)
}

func TestHandle_WatcherWithoutExtensionFilterImportsOnce(t *testing.T) {
	dir := t.TempDir()
	imp := &fakeImporter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher([]string{dir}, false, watcher.Extensions([]string{}), New(imp, nil).Handle(ctx),
		watcher.WithDebounce(50*time.Millisecond))
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	path := filepath.Join(dir, "ideas.txt")
	require.NoError(t, os.WriteFile(path, []byte("A shared pantry tracker for roommates\n"), 0600))

	require.Eventually(t, func() bool { return imp.callCount() >= 1 }, 3*time.Second, 20*time.Millisecond)
	// Give a re-import of the renamed file time to happen if it were going to.
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 1, imp.callCount())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ideas.txt"+ImportedSuffix, entries[0].Name())
	assert.Equal(t, 1, strings.Count(entries[0].Name(), ImportedSuffix))
}
