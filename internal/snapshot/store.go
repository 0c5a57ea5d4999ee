// Package snapshot stores fetched issue batches in a local SQLite database so
// release notes can be regenerated without reaching JIRA.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/pkg/models"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored batch of raw issues. Issues is only populated by
// Get and Latest.
type Snapshot struct {
	ID         string         `db:"id"`
	FilterID   string         `db:"filter_id"`
	JQL        string         `db:"jql"`
	IssueCount int            `db:"issue_count"`
	CreatedAt  time.Time      `db:"created_at"`
	Issues     []models.Issue `db:"-"`
}

type snapshotRow struct {
	Snapshot
	Payload string `db:"payload"`
}

// Store is a SQLite backed snapshot store.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens (or creates) the database at path, enables WAL mode and runs
// pending migrations. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logging.Debug("snapshot store opened", "path", path)
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// Save stores issues fetched for filterID and returns the new snapshot.
func (s *Store) Save(ctx context.Context, filterID, jql string, issues []models.Issue) (Snapshot, error) {
	if issues == nil {
		issues = []models.Issue{}
	}
	payload, err := json.Marshal(issues)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshaling issues: %w", err)
	}

	snap := Snapshot{
		ID:         uuid.New().String(),
		FilterID:   filterID,
		JQL:        jql,
		IssueCount: len(issues),
		CreatedAt:  s.now().UTC(),
		Issues:     issues,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, filter_id, jql, issue_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.FilterID, snap.JQL, snap.IssueCount, string(payload), snap.CreatedAt,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}

	logging.Info("snapshot saved", "snapshot_id", snap.ID, "filter_id", filterID, "issue_count", snap.IssueCount)
	return snap, nil
}

// Get returns the snapshot with the given id, including its issues.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM snapshots WHERE id = ?", id)
	return decodeRow(row, err, id)
}

// Latest returns the newest snapshot for filterID, including its issues.
func (s *Store) Latest(ctx context.Context, filterID string) (Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM snapshots WHERE filter_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		filterID,
	)
	return decodeRow(row, err, "latest for filter "+filterID)
}

// List returns snapshots newest first without their issues. An empty
// filterID lists every filter; a limit of zero or less lists everything.
func (s *Store) List(ctx context.Context, filterID string, limit int) ([]Snapshot, error) {
	query := "SELECT id, filter_id, jql, issue_count, created_at FROM snapshots"
	var args []interface{}
	if filterID != "" {
		query += " WHERE filter_id = ?"
		args = append(args, filterID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var list []Snapshot
	if err := s.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return list, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting snapshot %s: %w", id, ErrNotFound)
	}

	logging.Info("snapshot deleted", "snapshot_id", id)
	return nil
}

func decodeRow(row snapshotRow, err error, what string) (Snapshot, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("getting snapshot %s: %w", what, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting snapshot %s: %w", what, err)
	}

	snap := row.Snapshot
	if err := json.Unmarshal([]byte(row.Payload), &snap.Issues); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshaling snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}
