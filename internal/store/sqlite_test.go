package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/editflowhq/editflow/internal/schedule"
)

// openSQLite creates a fresh database for each test with automatic cleanup.
func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sqliteTask(t *testing.T, show, episode, editor, start, end string) *schedule.Task {
	t.Helper()
	task, err := schedule.New(show, episode, editor, start, end)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestSQLiteSaveAndList(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	task := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	task.Notes = "rough cut first"
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatalf("saving task: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}

	got := tasks[0]
	if got.Show != "DC Insiders" || got.Episode != "EP12" || got.Editor != "James" {
		t.Errorf("got %q %q %q, want the saved identity", got.Show, got.Episode, got.Editor)
	}
	if got.StartDate.Format("2006-01-02") != "2024-02-05" {
		t.Errorf("StartDate: got %s", got.StartDate.Format("2006-01-02"))
	}
	if got.EndDate.Format("2006-01-02") != "2024-02-08" {
		t.Errorf("EndDate: got %s", got.EndDate.Format("2006-01-02"))
	}
	if got.Notes != "rough cut first" {
		t.Errorf("Notes: got %q", got.Notes)
	}
	if got.Version != 1 {
		t.Errorf("Version: got %d, want 1", got.Version)
	}
}

func TestSQLiteListOrdersByStartDate(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	later := sqliteTask(t, "Correspondents", "EP5", "Eason", "2024-02-20", "2024-02-22")
	earlier := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	for _, task := range []*schedule.Task{later, earlier} {
		if err := s.SaveTask(ctx, task); err != nil {
			t.Fatalf("saving task: %v", err)
		}
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if !tasks[0].StartDate.Before(tasks[1].StartDate) {
		t.Error("tasks should come back ordered by start date")
	}
}

func TestSQLiteVersionConflict(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	task := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatalf("saving task: %v", err)
	}

	t.Run("stale update is rejected", func(t *testing.T) {
		stale := *task // still version 1, stored is 1, needs 2
		if err := s.SaveTask(ctx, &stale); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("got %v, want ErrVersionConflict", err)
		}
	})

	t.Run("bumped update is accepted", func(t *testing.T) {
		next := *task
		next.Touch(time.Now())
		if err := s.SaveTask(ctx, &next); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("new task must start at version 1", func(t *testing.T) {
		fresh := sqliteTask(t, "Correspondents", "EP5", "Eason", "2024-02-20", "2024-02-22")
		fresh.Version = 3
		if err := s.SaveTask(ctx, fresh); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("got %v, want ErrVersionConflict", err)
		}
	})
}

func TestSQLiteDelete(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	task := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatalf("saving task: %v", err)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("deleting task: %v", err)
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks after delete, want 0", len(tasks))
	}

	// Missing ids are a no-op, not an error.
	if err := s.DeleteTask(ctx, "no-such-id"); err != nil {
		t.Errorf("deleting a missing id: %v", err)
	}
}

func TestSQLiteBatchWriteBypassesVersionCheck(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	existing := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err := s.SaveTask(ctx, existing); err != nil {
		t.Fatalf("saving task: %v", err)
	}

	// Same version as stored: SaveTask would reject this, BatchWrite
	// replaces wholesale.
	replacement := *existing
	replacement.Editor = "Eason"

	fresh := sqliteTask(t, "Correspondents", "EP5", "Dolphine", "2024-02-20", "2024-02-22")
	fresh.Version = 7

	err := s.BatchWrite(ctx, []Write{
		Upsert(&replacement),
		Upsert(fresh),
	})
	if err != nil {
		t.Fatalf("batch write: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	for _, got := range tasks {
		if got.ID == existing.ID && got.Editor != "Eason" {
			t.Errorf("replacement not applied, editor = %q", got.Editor)
		}
	}
}

func TestSQLiteBatchWriteDeletes(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	a := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	b := sqliteTask(t, "Correspondents", "EP5", "Eason", "2024-02-20", "2024-02-22")
	if err := s.BatchWrite(ctx, []Write{Upsert(a), Upsert(b)}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	if err := s.BatchWrite(ctx, []Write{Delete(a.ID)}); err != nil {
		t.Fatalf("batch delete: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("got %d tasks, want only the survivor", len(tasks))
	}
}

func TestSQLiteSubscribeRedelivers(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	sub, err := s.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Cancel()

	// Initial snapshot arrives without any write.
	select {
	case tasks := <-sub.Snapshots:
		if len(tasks) != 0 {
			t.Errorf("initial snapshot has %d tasks, want 0", len(tasks))
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	task := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatalf("saving task: %v", err)
	}

	select {
	case tasks := <-sub.Snapshots:
		if len(tasks) != 1 || tasks[0].ID != task.ID {
			t.Errorf("snapshot after save has %d tasks", len(tasks))
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot after save")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	task := sqliteTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatalf("saving task: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	tasks, err := reopened.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("got %d tasks after reopen, want the saved task", len(tasks))
	}
}
