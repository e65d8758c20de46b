package store

import (
	"context"
	"sync"

	"github.com/editflowhq/editflow/internal/schedule"
)

// Memory is an in-process Store used by tests and ephemeral runs.
// It honors the same contract as the real backends: writes surface only
// through snapshot redelivery.
type Memory struct {
	mu     sync.Mutex
	tasks  map[string]*schedule.Task
	bc     *broadcaster
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks: make(map[string]*schedule.Task),
		bc:    newBroadcaster(),
	}
}

// Subscribe delivers the current collection immediately, then again on
// every mutation.
func (m *Memory) Subscribe(ctx context.Context) (*Subscription, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	snapshots, remove := m.bc.add()
	initial := m.snapshotLocked()
	m.mu.Unlock()

	errs := make(chan error, 1)
	sub := &Subscription{Snapshots: snapshots, Errs: errs, cancel: remove}

	// Initial delivery; the channel is buffered so this never blocks.
	snapshots <- initial

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return sub, nil
}

// ListTasks returns a copy of the current collection.
func (m *Memory) ListTasks(_ context.Context) ([]*schedule.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.snapshotLocked(), nil
}

// SaveTask upserts with the optimistic version check.
func (m *Memory) SaveTask(_ context.Context, t *schedule.Task) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if err := checkVersion(m.tasks[t.ID], t); err != nil {
		m.mu.Unlock()
		return err
	}
	c := *t
	m.tasks[t.ID] = &c
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.bc.publish(snap)
	return nil
}

// DeleteTask removes a task by id. Deleting a missing id is a no-op,
// matching document-store delete semantics.
func (m *Memory) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	delete(m.tasks, id)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.bc.publish(snap)
	return nil
}

// BatchWrite applies every write as one unit, without version checks.
func (m *Memory) BatchWrite(_ context.Context, writes []Write) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	for _, w := range writes {
		if w.Task != nil {
			c := *w.Task
			m.tasks[c.ID] = &c
		} else if w.DeleteID != "" {
			delete(m.tasks, w.DeleteID)
		}
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.bc.publish(snap)
	return nil
}

// Close tears down all subscriptions.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.bc.closeAll()
	return nil
}

func (m *Memory) snapshotLocked() []*schedule.Task {
	out := make([]*schedule.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		c := *t
		out = append(out, &c)
	}
	sortTasks(out)
	return out
}

// checkVersion enforces the optimistic-concurrency rule shared by all
// backends: a new document must carry Version 1, an update must carry
// exactly the stored version plus one.
func checkVersion(stored, incoming *schedule.Task) error {
	if stored == nil {
		if incoming.Version != 1 {
			return ErrVersionConflict
		}
		return nil
	}
	if incoming.Version != stored.Version+1 {
		return ErrVersionConflict
	}
	return nil
}
