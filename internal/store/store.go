// Package store implements the whole-snapshot document store that is the
// single source of truth for tasks and events. The full state is serialized
// in one pass on every mutation; there is no write-ahead log and no secondary
// index. A single active process is assumed.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/models"
	"go.uber.org/zap"
)

// Snapshot is the full persisted state: two ordered sequences with insertion
// order preserved. New records are appended.
type Snapshot struct {
	Tasks  []models.Task  `json:"tasks"`
	Events []models.Event `json:"events"`
}

// rawSnapshot defers array decoding so a malformed field can be repaired
// without discarding the other collection.
type rawSnapshot struct {
	Tasks  json.RawMessage `json:"tasks"`
	Events json.RawMessage `json:"events"`
}

// Store owns the snapshot. All access goes through View and Update, which
// serialize readers and writers so each logical request sees the state
// start-to-finish with no overlapping mutations.
type Store struct {
	path string // empty selects ephemeral mode
	log  *zap.Logger

	mu    sync.RWMutex
	state Snapshot
}

// New creates a store persisting to path. An empty path selects ephemeral
// mode: state exists only for the process lifetime and Save is a no-op.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Ephemeral reports whether persistence is disabled.
func (s *Store) Ephemeral() bool {
	return s.path == ""
}

// Path returns the configured snapshot location, empty in ephemeral mode.
func (s *Store) Path() string {
	return s.path
}

// Initialize loads the persisted snapshot. It is idempotent. In ephemeral
// mode it resets to an empty state. In durable mode a missing file is
// tolerated by creating and persisting an empty snapshot; any other read
// failure is an IO error. Malformed content is repaired on load: a field
// that is not a JSON array falls back to an empty sequence, and the repair
// is logged.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptySnapshot()
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.saveLocked(&s.state)
		}
		return apperr.IO(fmt.Sprintf("read snapshot %s", s.path), err)
	}

	s.state = s.decodeSnapshot(data)
	return nil
}

// decodeSnapshot parses persisted bytes, repairing malformed fields to empty
// sequences. This policy is deliberately data-loss-tolerant: a corrupt
// snapshot yields an empty store rather than a failed startup.
func (s *Store) decodeSnapshot(data []byte) Snapshot {
	snap := emptySnapshot()

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("snapshot_malformed_using_empty_state",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return snap
	}

	if len(raw.Tasks) > 0 {
		if err := json.Unmarshal(raw.Tasks, &snap.Tasks); err != nil {
			snap.Tasks = []models.Task{}
			s.log.Warn("snapshot_tasks_malformed_using_empty_sequence",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
	}
	if len(raw.Events) > 0 {
		if err := json.Unmarshal(raw.Events, &snap.Events); err != nil {
			snap.Events = []models.Event{}
			s.log.Warn("snapshot_events_malformed_using_empty_sequence",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
	}
	if snap.Tasks == nil {
		snap.Tasks = []models.Task{}
	}
	if snap.Events == nil {
		snap.Events = []models.Event{}
	}
	return snap
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate the snapshot; results exposed to callers must be clones.
func (s *Store) View(fn func(*Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// Update runs fn against a copy of the state and commits it atomically: the
// mutated copy is persisted first and only then swapped in. If fn fails or
// the flush fails, no mutation is observable to subsequent reads.
func (s *Store) Update(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Snapshot{
		Tasks:  models.CloneTasks(s.state.Tasks),
		Events: models.CloneEvents(s.state.Events),
	}
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.saveLocked(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Save persists the current state. No-op in ephemeral mode.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(&s.state)
}

// Reset clears both sequences and persists the empty snapshot.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := emptySnapshot()
	if err := s.saveLocked(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// saveLocked serializes snap and writes it to the configured location,
// creating the parent directory if missing. The write goes to a temp file in
// the same directory followed by an atomic rename, so a crash mid-write
// never leaves a truncated snapshot behind. Callers must hold s.mu.
func (s *Store) saveLocked(snap *Snapshot) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return apperr.Internal("encode snapshot", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO(fmt.Sprintf("create snapshot directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".agenda-*.json")
	if err != nil {
		return apperr.IO("create temp snapshot", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.IO("write temp snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperr.IO("close temp snapshot", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return apperr.IO(fmt.Sprintf("rename snapshot to %s", s.path), err)
	}
	return nil
}

func emptySnapshot() Snapshot {
	return Snapshot{Tasks: []models.Task{}, Events: []models.Event{}}
}
