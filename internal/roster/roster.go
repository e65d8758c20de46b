// Package roster manages the local configuration blob: the program
// catalog, the editor roster, and workspace settings. The blob is read
// once at startup and rewritten wholesale on every mutation; it never
// syncs through the shared store.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/editflowhq/editflow/internal/schedule"
)

// LegacyKey is the storage key the web client used for the same blob.
const LegacyKey = "EDITFLOW_LOCAL_CONFIG"

// Settings holds workspace-level preferences.
type Settings struct {
	CompanyName  string    `json:"companyName"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty"`
}

// Local is the full local configuration state.
type Local struct {
	Programs []*schedule.Program `json:"programs"`
	Editors  []*schedule.Editor  `json:"editors"`
	Settings Settings            `json:"settings"`
}

// Store loads and persists the Local blob at a fixed path.
type Store struct {
	path string
}

// DefaultPath returns the default blob location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "local_config.json"
	}
	return filepath.Join(home, ".local", "share", "editflow", "local_config.json")
}

// NewStore creates a store for the given path; empty means DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Load reads the blob, seeding built-in defaults when the file is
// missing. A corrupt file is an error, not silently replaced.
func (s *Store) Load() (*Local, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("reading local config: %w", err)
	}

	var l Local
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing local config: %w", err)
	}
	return &l, nil
}

// Save rewrites the whole blob.
func (s *Store) Save(l *Local) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling local config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing local config: %w", err)
	}
	return nil
}

// Defaults seeds the roster the team starts with.
func Defaults() *Local {
	shows := []string{
		"Correspondents",
		"DC Insiders",
		"Finding Formosa",
		"In Case You Missed It",
		"Zoom In, Zoom Out",
		"Special Program",
	}
	editorColors := map[string]string{
		"Dolphine": "#F7C3D6",
		"Eason":    "#edd97e",
		"James":    "#80b3ff",
	}

	l := &Local{
		Settings: Settings{CompanyName: "TaiwanPlus"},
	}
	for _, name := range shows {
		l.Programs = append(l.Programs, &schedule.Program{
			ID:       name,
			Name:     name,
			Priority: schedule.PriorityMedium,
			Duration: "24:00",
		})
	}
	for _, name := range []string{"Dolphine", "Eason", "James"} {
		l.Editors = append(l.Editors, &schedule.Editor{
			ID:    name,
			Name:  name,
			Role:  "Editor",
			Color: editorColors[name],
		})
	}
	return l
}

// EditorByName finds an editor by display name, nil if absent.
func (l *Local) EditorByName(name string) *schedule.Editor {
	for _, e := range l.Editors {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ProgramByName finds a program by display name, nil if absent.
func (l *Local) ProgramByName(name string) *schedule.Program {
	for _, p := range l.Programs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// EditorColor returns the roster color for an editor name, falling back
// for unknown or soft-orphaned names.
func (l *Local) EditorColor(name string) string {
	if e := l.EditorByName(name); e != nil && e.Color != "" {
		return e.Color
	}
	return schedule.FallbackColor
}

// AddEditor appends a new editor, rejecting duplicate names.
func (l *Local) AddEditor(e *schedule.Editor) error {
	if l.EditorByName(e.Name) != nil {
		return schedule.ErrDuplicateName
	}
	l.Editors = append(l.Editors, e)
	return nil
}

// AddProgram appends a new program, rejecting duplicate names.
func (l *Local) AddProgram(p *schedule.Program) error {
	if l.ProgramByName(p.Name) != nil {
		return schedule.ErrDuplicateName
	}
	l.Programs = append(l.Programs, p)
	return nil
}

// RenameEditor changes an editor's display name. The caller must follow
// up with a schedule.RenameCascade batch so tasks referencing the old
// name are rewritten; the old name is returned for that purpose.
func (l *Local) RenameEditor(id, newName string) (oldName string, err error) {
	if newName == "" {
		return "", schedule.ErrEmptyName
	}
	var target *schedule.Editor
	for _, e := range l.Editors {
		if e.ID == id {
			target = e
		} else if e.Name == newName {
			return "", schedule.ErrDuplicateName
		}
	}
	if target == nil {
		return "", schedule.ErrEditorNotFound
	}
	oldName = target.Name
	target.Name = newName
	target.UpdatedAt = time.Now()
	return oldName, nil
}

// RenameProgram changes a program's display name; same cascade contract
// as RenameEditor.
func (l *Local) RenameProgram(id, newName string) (oldName string, err error) {
	if newName == "" {
		return "", schedule.ErrEmptyName
	}
	var target *schedule.Program
	for _, p := range l.Programs {
		if p.ID == id {
			target = p
		} else if p.Name == newName {
			return "", schedule.ErrDuplicateName
		}
	}
	if target == nil {
		return "", schedule.ErrProgramNotFound
	}
	oldName = target.Name
	target.Name = newName
	target.UpdatedAt = time.Now()
	return oldName, nil
}

// RemoveEditor deletes an editor from the roster. Tasks referencing the
// name are left intact as soft orphans; they keep the dangling name and
// render with the fallback color.
func (l *Local) RemoveEditor(id string) error {
	for i, e := range l.Editors {
		if e.ID == id {
			l.Editors = append(l.Editors[:i], l.Editors[i+1:]...)
			return nil
		}
	}
	return schedule.ErrEditorNotFound
}

// RemoveProgram deletes a program; same soft-orphan policy.
func (l *Local) RemoveProgram(id string) error {
	for i, p := range l.Programs {
		if p.ID == id {
			l.Programs = append(l.Programs[:i], l.Programs[i+1:]...)
			return nil
		}
	}
	return schedule.ErrProgramNotFound
}

// FindEditorID resolves a name or id to an editor id.
func (l *Local) FindEditorID(nameOrID string) (string, error) {
	for _, e := range l.Editors {
		if e.ID == nameOrID || e.Name == nameOrID {
			return e.ID, nil
		}
	}
	return "", schedule.ErrEditorNotFound
}

// FindProgramID resolves a name or id to a program id.
func (l *Local) FindProgramID(nameOrID string) (string, error) {
	for _, p := range l.Programs {
		if p.ID == nameOrID || p.Name == nameOrID {
			return p.ID, nil
		}
	}
	return "", schedule.ErrProgramNotFound
}

// Validate sanity-checks a decoded blob, used by the sync-token import
// before overwriting local state.
func (l *Local) Validate() error {
	if l.Programs == nil && l.Editors == nil {
		return errors.New("local config has neither programs nor editors")
	}
	return nil
}
