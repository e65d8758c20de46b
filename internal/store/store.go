// Package store abstracts the shared task collection: a document store
// that pushes the full current task list to subscribers on every change.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/editflowhq/editflow/internal/schedule"
)

// Store errors.
var (
	ErrVersionConflict = errors.New("task was modified elsewhere: reload and retry")
	ErrClosed          = errors.New("store is closed")
)

// Write is one entry of a batch: an upsert when Task is set, a delete
// when DeleteID is set.
type Write struct {
	Task     *schedule.Task
	DeleteID string
}

// Upsert builds an upsert batch entry.
func Upsert(t *schedule.Task) Write { return Write{Task: t} }

// Delete builds a delete batch entry.
func Delete(id string) Write { return Write{DeleteID: id} }

// Subscription is a live feed of the task collection. Snapshots delivers
// the full current list after every add, update, or delete, anywhere.
// Errs carries connection problems; the feed self-heals, so an error is
// a status signal, not a termination. Cancel is idempotent.
type Subscription struct {
	Snapshots <-chan []*schedule.Task
	Errs      <-chan error

	cancelOnce sync.Once
	cancel     func()
}

// Cancel tears the subscription down. Safe to call multiple times.
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Store is the document-store collaborator holding the task collection.
//
// Writes are fire-and-forget from the UI's perspective: callers do not
// update their working copy on success, they wait for the subscription
// to redeliver the collection. SaveTask enforces optimistic concurrency:
// the incoming Version must be exactly one above the stored document's
// (or 1 for a new document), otherwise ErrVersionConflict. BatchWrite is
// atomic as a unit and skips the version check; it serves bulk import,
// bulk delete, and rename cascades.
type Store interface {
	Subscribe(ctx context.Context) (*Subscription, error)
	ListTasks(ctx context.Context) ([]*schedule.Task, error)
	SaveTask(ctx context.Context, t *schedule.Task) error
	DeleteTask(ctx context.Context, id string) error
	BatchWrite(ctx context.Context, writes []Write) error
	Close() error
}

// sortTasks orders a snapshot by start date then id so every delivery
// of the same collection is byte-for-byte identical.
func sortTasks(tasks []*schedule.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].StartDate.Equal(tasks[j].StartDate) {
			return tasks[i].StartDate.Before(tasks[j].StartDate)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// broadcaster fans snapshots out to subscribers. The SQLite and memory
// backends use it to give local writes the same push-notification
// contract the Firestore listener provides remotely.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan []*schedule.Task
	next int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan []*schedule.Task)}
}

// add registers a subscriber and returns its channel and removal func.
func (b *broadcaster) add() (chan []*schedule.Task, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan []*schedule.Task, 1)
	b.subs[id] = ch
	remove := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, remove
}

// publish delivers the snapshot to every subscriber, replacing any
// undelivered previous snapshot so slow consumers only ever see the
// latest state.
func (b *broadcaster) publish(tasks []*schedule.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- tasks:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- tasks
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
