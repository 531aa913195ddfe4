// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ideas (
		id TEXT PRIMARY KEY,
		raw_input_text TEXT NOT NULL,
		target_users TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL DEFAULT '',
		constraints TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		problem_statement TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		features TEXT NOT NULL DEFAULT '[]',
		open_questions TEXT NOT NULL DEFAULT '[]',
		upvotes_count INTEGER NOT NULL DEFAULT 0,
		created_by_anon_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ideas_created_at ON ideas(created_at);

	CREATE TABLE IF NOT EXISTS idea_merges (
		id TEXT PRIMARY KEY,
		target_idea_id TEXT NOT NULL,
		source_text TEXT NOT NULL,
		reason TEXT NOT NULL,
		similarity_score REAL NOT NULL,
		anon_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (target_idea_id) REFERENCES ideas(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_merges_target ON idea_merges(target_idea_id, created_at);

	CREATE TABLE IF NOT EXISTS idea_votes (
		idea_id TEXT NOT NULL,
		anon_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (idea_id, anon_id),
		FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

const ideaColumns = `id, raw_input_text, target_users, platform, constraints, title,
	problem_statement, tags, features, open_questions, upvotes_count, created_by_anon_id,
	created_at, updated_at`

const insertIdea = `INSERT INTO ideas (` + ideaColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execInsertIdea(ctx context.Context, ex execer, idea *models.Idea, now time.Time) error {
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.CreatedAt = idea.CreatedAt.UTC()
	idea.UpdatedAt = now

	tags, err := marshalList(idea.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	features, err := marshalList(idea.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	questions, err := marshalList(idea.OpenQuestions)
	if err != nil {
		return fmt.Errorf("failed to marshal open questions: %w", err)
	}

	_, err = ex.ExecContext(ctx, insertIdea,
		idea.ID, idea.RawInputText, idea.TargetUsers, idea.Platform, idea.Constraints, idea.Title,
		idea.ProblemStatement, tags, features, questions, idea.UpvotesCount, idea.CreatedByAnonID,
		idea.CreatedAt, idea.UpdatedAt,
	)
	return err
}

// CreateIdea inserts an idea. A zero CreatedAt is set to now.
func (s *SQLiteStorage) CreateIdea(ctx context.Context, idea *models.Idea) error {
	return execInsertIdea(ctx, s.db, idea, time.Now().UTC())
}

// BatchCreateIdeas inserts multiple ideas in a transaction.
func (s *SQLiteStorage) BatchCreateIdeas(ctx context.Context, ideas []*models.Idea) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, idea := range ideas {
		if err := execInsertIdea(ctx, tx, idea, now); err != nil {
			return fmt.Errorf("failed to insert idea %s: %w", idea.ID, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(row scanner) (*models.Idea, error) {
	var idea models.Idea
	var tags, features, questions string
	if err := row.Scan(
		&idea.ID, &idea.RawInputText, &idea.TargetUsers, &idea.Platform, &idea.Constraints, &idea.Title,
		&idea.ProblemStatement, &tags, &features, &questions, &idea.UpvotesCount, &idea.CreatedByAnonID,
		&idea.CreatedAt, &idea.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalList(tags, &idea.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := unmarshalList(features, &idea.Features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}
	if err := unmarshalList(questions, &idea.OpenQuestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal open questions: %w", err)
	}
	return &idea, nil
}

// GetIdea returns an idea by ID.
func (s *SQLiteStorage) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)
	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("idea %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// ListIdeas returns ideas created before the cursor, newest first.
func (s *SQLiteStorage) ListIdeas(ctx context.Context, before time.Time, limit int) ([]*models.Idea, error) {
	if before.IsZero() {
		return s.queryIdeas(ctx,
			`SELECT `+ideaColumns+` FROM ideas ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	}
	return s.queryIdeas(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE created_at < ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		before.UTC(), limit)
}

// SearchIdeas returns ideas containing query as a literal substring.
func (s *SQLiteStorage) SearchIdeas(ctx context.Context, query string, limit int) ([]*models.Idea, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.queryIdeas(ctx,
		`SELECT `+ideaColumns+` FROM ideas
		 WHERE title LIKE ? ESCAPE '\' OR problem_statement LIKE ? ESCAPE '\'
		    OR raw_input_text LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		pattern, pattern, pattern, pattern, limit)
}

func (s *SQLiteStorage) queryIdeas(ctx context.Context, query string, args ...any) ([]*models.Idea, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// CreateMerge inserts a merge record. The target idea must exist.
func (s *SQLiteStorage) CreateMerge(ctx context.Context, merge *models.MergeRecord) error {
	if merge.CreatedAt.IsZero() {
		merge.CreatedAt = time.Now()
	}
	merge.CreatedAt = merge.CreatedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM ideas WHERE id = ?`, merge.TargetIdeaID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("idea %s: %w", merge.TargetIdeaID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO idea_merges (id, target_idea_id, source_text, reason, similarity_score, anon_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		merge.ID, merge.TargetIdeaID, merge.SourceText, merge.Reason, merge.SimilarityScore,
		merge.AnonID, merge.CreatedAt,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE ideas SET updated_at = ? WHERE id = ?`, merge.CreatedAt, merge.TargetIdeaID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ListMerges returns the merges folded into an idea, oldest first.
func (s *SQLiteStorage) ListMerges(ctx context.Context, ideaID string) ([]*models.MergeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target_idea_id, source_text, reason, similarity_score, anon_id, created_at
		 FROM idea_merges WHERE target_idea_id = ? ORDER BY created_at, id`,
		ideaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var merges []*models.MergeRecord
	for rows.Next() {
		var m models.MergeRecord
		if err := rows.Scan(&m.ID, &m.TargetIdeaID, &m.SourceText, &m.Reason, &m.SimilarityScore,
			&m.AnonID, &m.CreatedAt); err != nil {
			return nil, err
		}
		merges = append(merges, &m)
	}
	return merges, rows.Err()
}

// AddVote records an upvote by anonID and bumps the idea's count.
func (s *SQLiteStorage) AddVote(ctx context.Context, ideaID, anonID string) (bool, error) {
	return s.changeVote(ctx, ideaID,
		`INSERT OR IGNORE INTO idea_votes (idea_id, anon_id, created_at) VALUES (?, ?, ?)`,
		`UPDATE ideas SET upvotes_count = upvotes_count + 1 WHERE id = ?`,
		ideaID, anonID, time.Now().UTC(),
	)
}

// RemoveVote withdraws anonID's upvote.
func (s *SQLiteStorage) RemoveVote(ctx context.Context, ideaID, anonID string) (bool, error) {
	return s.changeVote(ctx, ideaID,
		`DELETE FROM idea_votes WHERE idea_id = ? AND anon_id = ?`,
		`UPDATE ideas SET upvotes_count = MAX(upvotes_count - 1, 0) WHERE id = ?`,
		ideaID, anonID,
	)
}

func (s *SQLiteStorage) changeVote(ctx context.Context, ideaID, voteStmt, countStmt string, args ...any) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM ideas WHERE id = ?`, ideaID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("idea %s: %w", ideaID, ErrNotFound)
	}
	if err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, voteStmt, args...)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, countStmt, ideaID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// CountIdeas returns the total number of ideas.
func (s *SQLiteStorage) CountIdeas(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ideas`).Scan(&count)
	return count, err
}

// CountMerges returns the total number of merge records.
func (s *SQLiteStorage) CountMerges(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM idea_merges`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

func unmarshalList(s string, out *[]string) error {
	*out = []string{}
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), out)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
