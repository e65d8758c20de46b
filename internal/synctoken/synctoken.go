// Package synctoken packs the whole workspace — tasks, programs and
// editors — into a portable base64 token for manual cross-device sync.
// Importing a token overwrites local state wholesale.
package synctoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

// ErrEmptyToken is returned when there is nothing to decode.
var ErrEmptyToken = errors.New("sync token is empty")

// Snapshot is the portable workspace state.
type Snapshot struct {
	Tasks      []*schedule.Task
	Programs   []*schedule.Program
	Editors    []*schedule.Editor
	ExportedAt time.Time
}

// snapshotDoc is the wire form of a snapshot: camelCase keys matching
// the documents the web client exports, so tokens are interchangeable
// in both directions.
type snapshotDoc struct {
	Tasks      []taskDoc           `json:"tasks"`
	Programs   []*schedule.Program `json:"programs"`
	Editors    []*schedule.Editor  `json:"editors"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// taskDoc carries a task on the wire. Dates travel as plain YYYY-MM-DD
// strings, not timestamps.
type taskDoc struct {
	ID           string    `json:"id"`
	Show         string    `json:"show"`
	Episode      string    `json:"episode"`
	Editor       string    `json:"editor"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Notes        string    `json:"notes,omitempty"`
	LastEditedAt time.Time `json:"lastEditedAt"`
	Version      int       `json:"version"`
}

func wireTask(t *schedule.Task) taskDoc {
	return taskDoc{
		ID:           t.ID,
		Show:         t.Show,
		Episode:      t.Episode,
		Editor:       t.Editor,
		StartDate:    dateutil.Format(t.StartDate),
		EndDate:      dateutil.Format(t.EndDate),
		Notes:        t.Notes,
		LastEditedAt: t.LastEditedAt,
		Version:      t.Version,
	}
}

func (d taskDoc) task() (*schedule.Task, error) {
	start, err := dateutil.ParseDate(d.StartDate)
	if err != nil {
		return nil, fmt.Errorf("task %s: start date %q: %w", d.ID, d.StartDate, err)
	}
	end, err := dateutil.ParseDate(d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("task %s: end date %q: %w", d.ID, d.EndDate, err)
	}
	return &schedule.Task{
		ID:           d.ID,
		Show:         d.Show,
		Episode:      d.Episode,
		Editor:       d.Editor,
		StartDate:    start,
		EndDate:      end,
		Notes:        d.Notes,
		LastEditedAt: d.LastEditedAt,
		Version:      d.Version,
	}, nil
}

// Encode serializes a snapshot into a token.
func Encode(s *Snapshot) (string, error) {
	doc := snapshotDoc{
		Programs:   s.Programs,
		Editors:    s.Editors,
		ExportedAt: s.ExportedAt,
	}
	if s.Tasks != nil {
		doc.Tasks = make([]taskDoc, len(s.Tasks))
		for i, t := range s.Tasks {
			doc.Tasks[i] = wireTask(t)
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding sync token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses a token back into a snapshot. Whitespace around the
// token is tolerated so pasted tokens survive terminal wrapping.
func Decode(token string) (*Snapshot, error) {
	token = strings.Join(strings.Fields(token), "")
	if token == "" {
		return nil, ErrEmptyToken
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decoding sync token: %w", err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing sync token: %w", err)
	}
	if doc.Tasks == nil && doc.Programs == nil && doc.Editors == nil {
		return nil, errors.New("sync token carries no data")
	}

	s := &Snapshot{
		Programs:   doc.Programs,
		Editors:    doc.Editors,
		ExportedAt: doc.ExportedAt,
	}
	if doc.Tasks != nil {
		s.Tasks = make([]*schedule.Task, len(doc.Tasks))
		for i, d := range doc.Tasks {
			t, err := d.task()
			if err != nil {
				return nil, fmt.Errorf("parsing sync token: %w", err)
			}
			s.Tasks[i] = t
		}
	}
	return s, nil
}
