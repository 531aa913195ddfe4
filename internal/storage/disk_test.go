package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDatabaseSizeBytes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ideas.db")

	got, err := DatabaseSizeBytes(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("missing database: got %d bytes, want 0", got)
	}

	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.db"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DatabaseSizeBytes(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Errorf("database with wal: got %d bytes, want 7", got)
	}

	if got, _ := DatabaseSizeBytes(":memory:"); got != 0 {
		t.Errorf("in-memory database: got %d bytes, want 0", got)
	}
}

func TestDatabaseSizeBytes_liveStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "live.db")
	store, err := NewSQLiteStorage(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, err := DatabaseSizeBytes(db)
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0 {
		t.Errorf("expected a non-empty database file, got %d bytes", got)
	}
}
