package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	show           TEXT NOT NULL,
	episode        TEXT NOT NULL DEFAULT '',
	editor         TEXT NOT NULL,
	start_date     TEXT NOT NULL,
	end_date       TEXT NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	last_edited_at TEXT NOT NULL,
	version        INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_tasks_dates ON tasks(start_date, end_date);
`

// SQLite implements Store on a local database file, for machines without
// access to the shared Firestore collection. Change notification is
// in-process: every write reloads the collection and republishes it, so
// subscribers see the same redeliver-everything stream the cloud backend
// produces.
type SQLite struct {
	db *sql.DB
	bc *broadcaster
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLite{db: db, bc: newBroadcaster()}, nil
}

// Subscribe delivers the current collection immediately, then again on
// every local mutation.
func (s *SQLite) Subscribe(ctx context.Context) (*Subscription, error) {
	initial, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, remove := s.bc.add()
	errs := make(chan error, 1)
	sub := &Subscription{Snapshots: snapshots, Errs: errs, cancel: remove}

	snapshots <- initial

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return sub, nil
}

// ListTasks loads the whole collection ordered by start date.
func (s *SQLite) ListTasks(ctx context.Context) ([]*schedule.Task, error) {
	query := `
		SELECT id, show, episode, editor, start_date, end_date, notes, last_edited_at, version
		FROM tasks
		ORDER BY start_date, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*schedule.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// SaveTask upserts one task, enforcing the optimistic version check
// inside a transaction.
func (s *SQLite) SaveTask(ctx context.Context, t *schedule.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int
	err = tx.QueryRowContext(ctx, `SELECT version FROM tasks WHERE id = ?`, t.ID).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		if t.Version != 1 {
			return ErrVersionConflict
		}
	case err != nil:
		return fmt.Errorf("reading stored version: %w", err)
	default:
		if t.Version != stored+1 {
			return ErrVersionConflict
		}
	}

	if err := upsertTx(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return s.republish(ctx)
}

// DeleteTask removes a task by id; missing ids are a no-op.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return s.republish(ctx)
}

// BatchWrite applies all writes in one transaction, no version checks.
func (s *SQLite) BatchWrite(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, w := range writes {
		switch {
		case w.Task != nil:
			if err := upsertTx(ctx, tx, w.Task); err != nil {
				return err
			}
		case w.DeleteID != "":
			if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, w.DeleteID); err != nil {
				return fmt.Errorf("deleting task %s: %w", w.DeleteID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	return s.republish(ctx)
}

// Close closes the database and all subscriptions.
func (s *SQLite) Close() error {
	s.bc.closeAll()
	return s.db.Close()
}

func (s *SQLite) republish(ctx context.Context) error {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("reloading after write: %w", err)
	}
	s.bc.publish(tasks)
	return nil
}

func upsertTx(ctx context.Context, tx *sql.Tx, t *schedule.Task) error {
	query := `
		INSERT INTO tasks (id, show, episode, editor, start_date, end_date, notes, last_edited_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			show = excluded.show,
			episode = excluded.episode,
			editor = excluded.editor,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			notes = excluded.notes,
			last_edited_at = excluded.last_edited_at,
			version = excluded.version
	`
	_, err := tx.ExecContext(ctx, query,
		t.ID,
		t.Show,
		t.Episode,
		t.Editor,
		dateutil.Format(t.StartDate),
		dateutil.Format(t.EndDate),
		t.Notes,
		t.LastEditedAt.Format(time.RFC3339),
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("upserting task %s: %w", t.ID, err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (*schedule.Task, error) {
	var (
		t            schedule.Task
		startDate    string
		endDate      string
		lastEditedAt string
	)

	err := rows.Scan(
		&t.ID,
		&t.Show,
		&t.Episode,
		&t.Editor,
		&startDate,
		&endDate,
		&t.Notes,
		&lastEditedAt,
		&t.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if t.StartDate, err = dateutil.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start date for %s: %w", t.ID, err)
	}
	if t.EndDate, err = dateutil.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date for %s: %w", t.ID, err)
	}
	if t.LastEditedAt, err = time.Parse(time.RFC3339, lastEditedAt); err != nil {
		return nil, fmt.Errorf("parsing edit time for %s: %w", t.ID, err)
	}

	return &t, nil
}
