// Package store provides the SQLite-backed lifecycle journal for fade.
//
// The journal is an append-only audit trail. It is never replayed into the
// in-memory todo list.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/fentz26/fade/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the journal database.
type Store struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// EventFilter narrows ListEvents and CountEvents. Zero values match everything.
type EventFilter struct {
	TodoID string
	Kinds  []models.EventKind
	Since  time.Time
	Limit  int
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		todo_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_todo_id ON events(todo_id);
	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AppendEvent inserts e. A missing ID is filled with a fresh uuid.
func (s *Store) AppendEvent(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.At = e.At.UTC()

	query, args, err := s.sq.Insert("events").
		Columns("id", "todo_id", "kind", "text", "at").
		Values(e.ID, e.TodoID, string(e.Kind), e.Text, e.At.UnixNano()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &e, nil
}

// ListEvents returns matching events, newest first.
func (s *Store) ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error) {
	q := s.where(s.sq.Select("id", "todo_id", "kind", "text", "at").From("events"), f).
		OrderBy("at DESC", "rowid DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var kind string
		var at int64
		if err := rows.Scan(&e.ID, &e.TodoID, &kind, &e.Text, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = models.EventKind(kind)
		e.At = time.Unix(0, at).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents returns the number of matching events. Limit is ignored.
func (s *Store) CountEvents(ctx context.Context, f EventFilter) (int, error) {
	query, args, err := s.where(s.sq.Select("COUNT(*)").From("events"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// PruneEvents deletes events recorded before cutoff and returns how many were removed.
func (s *Store) PruneEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := s.sq.Delete("events").
		Where(squirrel.Lt{"at": cutoff.UTC().UnixNano()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) where(q squirrel.SelectBuilder, f EventFilter) squirrel.SelectBuilder {
	if f.TodoID != "" {
		q = q.Where(squirrel.Eq{"todo_id": f.TodoID})
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = string(k)
		}
		q = q.Where(squirrel.Eq{"kind": kinds})
	}
	if !f.Since.IsZero() {
		q = q.Where(squirrel.GtOrEq{"at": f.Since.UTC().UnixNano()})
	}
	return q
}
