package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/notegraph/notegraph/pkg/model"
)

// notesKey is the key holding the JSON array of notes
const notesKey = "notes"

// ErrNoteNotFound is returned when an ID names no stored note
var ErrNoteNotFound = errors.New("note not found")

// GetAll returns every note in insertion order. An empty store yields an
// empty list.
func (s *Store) GetAll() ([]model.Note, error) {
	return loadNotes(s.db)
}

// Get returns a single note by ID
func (s *Store) Get(id string) (model.Note, error) {
	notes, err := s.GetAll()
	if err != nil {
		return model.Note{}, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("get note %s: %w", id, ErrNoteNotFound)
	}
	return notes[i], nil
}

// Update merges patch into the note with the given ID and refreshes its
// UpdatedAt
func (s *Store) Update(id string, patch model.NotePatch) error {
	return s.mutate(func(notes []model.Note) ([]model.Note, error) {
		i := indexOf(notes, id)
		if i < 0 {
			return nil, fmt.Errorf("update note %s: %w", id, ErrNoteNotFound)
		}
		patch.Apply(&notes[i], time.Now())
		return notes, nil
	})
}

// Add stores a new note. A missing ID is generated and both timestamps are
// set to now.
func (s *Store) Add(note model.Note) (model.Note, error) {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now()
	note.CreatedAt, note.UpdatedAt = now, now

	err := s.mutate(func(notes []model.Note) ([]model.Note, error) {
		if indexOf(notes, note.ID) >= 0 {
			return nil, fmt.Errorf("add note %s: duplicate id", note.ID)
		}
		return append(notes, note), nil
	})
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Import upserts notes by ID, keeping the order of existing notes and
// appending new ones. It returns how many notes were added.
func (s *Store) Import(incoming []model.Note) (int, error) {
	added := 0
	err := s.mutate(func(notes []model.Note) ([]model.Note, error) {
		now := time.Now()
		for _, n := range incoming {
			if n.ID == "" {
				n.ID = uuid.New().String()
			}
			if n.CreatedAt.IsZero() {
				n.CreatedAt = now
			}
			if n.UpdatedAt.IsZero() {
				n.UpdatedAt = n.CreatedAt
			}
			if i := indexOf(notes, n.ID); i >= 0 {
				notes[i] = n
				continue
			}
			notes = append(notes, n)
			added++
		}
		return notes, nil
	})
	return added, err
}

// Delete removes a note. Connections pointing at it are left dangling; the
// graph builder ignores them.
func (s *Store) Delete(id string) error {
	return s.mutate(func(notes []model.Note) ([]model.Note, error) {
		i := indexOf(notes, id)
		if i < 0 {
			return nil, fmt.Errorf("delete note %s: %w", id, ErrNoteNotFound)
		}
		return slices.Delete(notes, i, i+1), nil
	})
}

func (s *Store) mutate(fn func([]model.Note) ([]model.Note, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	notes, err := loadNotes(tx)
	if err != nil {
		return err
	}
	notes, err = fn(notes)
	if err != nil {
		return err
	}

	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := set(tx, notesKey, data); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func loadNotes(q querier) ([]model.Note, error) {
	data, ok, err := get(q, notesKey)
	if err != nil {
		return nil, err
	}
	notes := []model.Note{}
	if !ok {
		return notes, nil
	}
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

func indexOf(notes []model.Note, id string) int {
	return slices.IndexFunc(notes, func(n model.Note) bool { return n.ID == id })
}
