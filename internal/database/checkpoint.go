package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/citemap/internal/model"
)

// Checkpoint stage names. A stage is written once per run, after the
// corresponding expensive crawl phase completes with a non-empty result.
const (
	// StageEdges is the citation-edge set, written after citation pages
	// have been walked.
	StageEdges = "citing_edges"

	// StageAffiliations is the raw affiliation record set, written after
	// citing-author profiles have been resolved.
	StageAffiliations = "affiliations"
)

// ErrNoCheckpoint is returned by Load methods when no checkpoint exists for
// the given author and stage.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// CheckpointStore persists intermediate crawl state in a SQLite file.
type CheckpointStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CheckpointStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CheckpointStore in the given directory.
func Open(dir string, opts Options) (*CheckpointStore, error) {
	dbPath := filepath.Join(dir, "citemap.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("checkpoint database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style modes: rwc allows creation,
	// rw requires the file to exist.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &CheckpointStore{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *CheckpointStore) Path() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *CheckpointStore) createTables() error {
	schema := `
	-- Checkpoints hold one JSON payload per (author, stage)
	CREATE TABLE IF NOT EXISTS checkpoints (
		author_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (author_id, stage)
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// save stores one payload, replacing any previous checkpoint for the same
// author and stage.
func (s *CheckpointStore) save(ctx context.Context, authorID, stage string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint: %w", err)
	}

	query := `
	INSERT INTO checkpoints (author_id, stage, payload)
	VALUES (?, ?, ?)
	ON CONFLICT(author_id, stage) DO UPDATE SET
		payload = excluded.payload,
		created_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, authorID, stage, string(payload)); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// load reads one payload into v. Returns ErrNoCheckpoint when absent.
func (s *CheckpointStore) load(ctx context.Context, authorID, stage string, v any) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM checkpoints WHERE author_id = ? AND stage = ?`,
		authorID, stage,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoCheckpoint
	}
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("failed to deserialize checkpoint: %w", err)
	}
	return nil
}

// SaveEdges checkpoints the citation-edge set for an author.
func (s *CheckpointStore) SaveEdges(ctx context.Context, authorID string, edges []model.CitationEdge) error {
	return s.save(ctx, authorID, StageEdges, edges)
}

// LoadEdges restores a previously checkpointed edge set.
func (s *CheckpointStore) LoadEdges(ctx context.Context, authorID string) ([]model.CitationEdge, error) {
	var edges []model.CitationEdge
	if err := s.load(ctx, authorID, StageEdges, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// SaveAffiliations checkpoints the raw affiliation record set for an author.
func (s *CheckpointStore) SaveAffiliations(ctx context.Context, authorID string, records []model.AffiliationRecord) error {
	return s.save(ctx, authorID, StageAffiliations, records)
}

// LoadAffiliations restores a previously checkpointed affiliation set.
func (s *CheckpointStore) LoadAffiliations(ctx context.Context, authorID string) ([]model.AffiliationRecord, error) {
	var records []model.AffiliationRecord
	if err := s.load(ctx, authorID, StageAffiliations, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes all checkpoints for an author, forcing the next run to
// crawl from scratch.
func (s *CheckpointStore) Delete(ctx context.Context, authorID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE author_id = ?`, authorID); err != nil {
		return fmt.Errorf("failed to delete checkpoints: %w", err)
	}
	return nil
}
