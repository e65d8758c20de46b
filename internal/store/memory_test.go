package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/editflowhq/editflow/internal/schedule"
)

func newTask(t *testing.T, show, editor, start, end string) *schedule.Task {
	t.Helper()
	task, err := schedule.New(show, "EP1", editor, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return task
}

func receive(t *testing.T, sub *Subscription) []*schedule.Task {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots:
		if !ok {
			t.Fatal("snapshot channel closed")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestMemory_SubscribeDeliversOnEveryWrite(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	ctx := context.Background()
	sub, err := m.Subscribe(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Cancel()

	if snap := receive(t, sub); len(snap) != 0 {
		t.Fatalf("got %d tasks in initial snapshot, want 0", len(snap))
	}

	task := newTask(t, "DC Insiders", "James", "2024-02-05", "2024-02-08")
	if err := m.SaveTask(ctx, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap := receive(t, sub); len(snap) != 1 || snap[0].ID != task.ID {
		t.Fatalf("snapshot after save does not contain the task")
	}

	if err := m.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap := receive(t, sub); len(snap) != 0 {
		t.Fatalf("got %d tasks after delete, want 0", len(snap))
	}
}

func TestMemory_VersionConflict(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	ctx := context.Background()
	task := newTask(t, "DC Insiders", "James", "2024-02-05", "2024-02-08")

	if err := m.SaveTask(ctx, task); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	t.Run("stale version rejected", func(t *testing.T) {
		stale := *task // still version 1
		stale.Notes = "late edit"
		if err := m.SaveTask(ctx, &stale); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("got %v, want ErrVersionConflict", err)
		}
	})

	t.Run("incremented version accepted", func(t *testing.T) {
		update := *task
		update.Touch(time.Now())
		if err := m.SaveTask(ctx, &update); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("new task must start at version 1", func(t *testing.T) {
		wrong := newTask(t, "Correspondents", "Eason", "2024-02-10", "2024-02-11")
		wrong.Version = 5
		if err := m.SaveTask(ctx, wrong); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("got %v, want ErrVersionConflict", err)
		}
	})
}

func TestMemory_BatchWrite(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	ctx := context.Background()
	a := newTask(t, "DC Insiders", "James", "2024-02-05", "2024-02-08")
	b := newTask(t, "Correspondents", "Eason", "2024-02-01", "2024-02-02")

	if err := m.BatchWrite(ctx, []Write{Upsert(a), Upsert(b)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks, err := m.ListTasks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	// Snapshot ordering: start date ascending.
	if tasks[0].ID != b.ID {
		t.Errorf("expected earlier task first in snapshot")
	}

	if err := m.BatchWrite(ctx, []Write{Delete(a.ID), Delete(b.ID)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tasks, _ = m.ListTasks(ctx)
	if len(tasks) != 0 {
		t.Fatalf("got %d tasks after batch delete, want 0", len(tasks))
	}
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	sub, err := m.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub.Cancel()
	sub.Cancel() // must not panic or deadlock
	sub.Cancel()
}

func TestMemory_ContextCancellationTearsDown(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := m.Subscribe(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	receive(t, sub) // initial snapshot
	cancel()

	// The channel closes once the cancellation goroutine runs.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.Snapshots:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription not torn down after context cancel")
		}
	}
}
