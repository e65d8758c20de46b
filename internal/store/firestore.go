package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

// retryDelay is how long the snapshot listener waits before reopening
// after a terminal iterator error.
const retryDelay = 3 * time.Second

// Firestore implements Store on a Cloud Firestore collection, the shared
// backend all team devices sync through.
type Firestore struct {
	client     *firestore.Client
	collection string

	closeOnce sync.Once
}

// taskDoc is the wire shape of a task document, matching the documents
// the web client writes.
type taskDoc struct {
	ID           string `firestore:"id"`
	Show         string `firestore:"show"`
	Episode      string `firestore:"episode"`
	Editor       string `firestore:"editor"`
	StartDate    string `firestore:"startDate"`
	EndDate      string `firestore:"endDate"`
	Notes        string `firestore:"notes,omitempty"`
	LastEditedAt string `firestore:"lastEditedAt"`
	Version      int    `firestore:"version"`
}

// NewFirestore connects to the project's Firestore database. Credentials
// come from credentialsFile when set, otherwise application default
// credentials; a .env file is honored for local development.
func NewFirestore(ctx context.Context, projectID, credentialsFile, collection string) (*Firestore, error) {
	// Not an error if absent; it only exists in dev checkouts.
	_ = godotenv.Load()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}

	if collection == "" {
		collection = "tasks"
	}

	return &Firestore{client: client, collection: collection}, nil
}

// Subscribe opens a snapshot listener on the collection. Every remote
// add, update, or delete redelivers the full document list. Listener
// errors are pushed to Errs and the listener reopens after a short
// delay; a successful redelivery after an error is the reconnect signal.
func (f *Firestore) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	snapshots := make(chan []*schedule.Task, 1)
	errs := make(chan error, 1)
	sub := &Subscription{Snapshots: snapshots, Errs: errs, cancel: cancel}

	go func() {
		defer close(snapshots)
		for {
			if err := f.listen(ctx, snapshots, errs); err != nil {
				pushErr(errs, err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
		}
	}()

	return sub, nil
}

// listen runs one snapshot iterator until it fails or ctx is cancelled.
func (f *Firestore) listen(ctx context.Context, snapshots chan []*schedule.Task, errs chan<- error) error {
	iter := f.client.Collection(f.collection).Snapshots(ctx)
	defer iter.Stop()

	for {
		qsnap, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("snapshot listener: %w", err)
		}

		docs, err := qsnap.Documents.GetAll()
		if err != nil {
			pushErr(errs, fmt.Errorf("reading snapshot documents: %w", err))
			continue
		}

		tasks := make([]*schedule.Task, 0, len(docs))
		for _, doc := range docs {
			t, err := decodeTask(doc)
			if err != nil {
				// A malformed document must not poison the stream.
				pushErr(errs, err)
				continue
			}
			tasks = append(tasks, t)
		}
		sortTasks(tasks)

		select {
		case snapshots <- tasks:
		case <-ctx.Done():
			return nil
		default:
			// Replace an undelivered snapshot with the newer one.
			select {
			case <-snapshots:
			default:
			}
			snapshots <- tasks
		}
	}
}

// ListTasks reads the collection once, outside the listener.
func (f *Firestore) ListTasks(ctx context.Context) ([]*schedule.Task, error) {
	docs, err := f.client.Collection(f.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*schedule.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := decodeTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	sortTasks(tasks)
	return tasks, nil
}

// SaveTask upserts one document, checking the version inside a
// transaction so concurrent edits fail fast instead of silently losing
// the other writer's data.
func (f *Firestore) SaveTask(ctx context.Context, t *schedule.Task) error {
	ref := f.client.Collection(f.collection).Doc(t.ID)

	err := f.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			if t.Version != 1 {
				return ErrVersionConflict
			}
		case err != nil:
			return fmt.Errorf("reading stored task: %w", err)
		default:
			var stored taskDoc
			if err := snap.DataTo(&stored); err != nil {
				return fmt.Errorf("decoding stored task: %w", err)
			}
			if t.Version != stored.Version+1 {
				return ErrVersionConflict
			}
		}
		return tx.Set(ref, encodeTask(t))
	})
	if err != nil {
		return err
	}
	return nil
}

// DeleteTask removes a document; deleting a missing id is a no-op.
func (f *Firestore) DeleteTask(ctx context.Context, id string) error {
	if _, err := f.client.Collection(f.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// BatchWrite commits all writes as one atomic batch.
func (f *Firestore) BatchWrite(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}

	batch := f.client.Batch()
	col := f.client.Collection(f.collection)
	for _, w := range writes {
		switch {
		case w.Task != nil:
			batch.Set(col.Doc(w.Task.ID), encodeTask(w.Task))
		case w.DeleteID != "":
			batch.Delete(col.Doc(w.DeleteID))
		}
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Close releases the client. Idempotent.
func (f *Firestore) Close() error {
	var err error
	f.closeOnce.Do(func() {
		err = f.client.Close()
	})
	return err
}

func encodeTask(t *schedule.Task) taskDoc {
	return taskDoc{
		ID:           t.ID,
		Show:         t.Show,
		Episode:      t.Episode,
		Editor:       t.Editor,
		StartDate:    dateutil.Format(t.StartDate),
		EndDate:      dateutil.Format(t.EndDate),
		Notes:        t.Notes,
		LastEditedAt: t.LastEditedAt.Format(time.RFC3339),
		Version:      t.Version,
	}
}

func decodeTask(doc *firestore.DocumentSnapshot) (*schedule.Task, error) {
	var d taskDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding task %s: %w", doc.Ref.ID, err)
	}

	t := &schedule.Task{
		ID:      doc.Ref.ID,
		Show:    d.Show,
		Episode: d.Episode,
		Editor:  d.Editor,
		Notes:   d.Notes,
		Version: d.Version,
	}

	// Unparseable dates stay zero: the layout engine excludes the task
	// and reports it instead of failing the whole snapshot.
	if start, err := dateutil.ParseDate(d.StartDate); err == nil {
		t.StartDate = start
	}
	if end, err := dateutil.ParseDate(d.EndDate); err == nil {
		t.EndDate = end
	}
	if edited, err := time.Parse(time.RFC3339, d.LastEditedAt); err == nil {
		t.LastEditedAt = edited
	}

	return t, nil
}

// pushErr delivers an error without blocking; a stalled reader must
// never wedge the listener.
func pushErr(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}
