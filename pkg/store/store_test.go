package store_test

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/notegraph/notegraph/pkg/interact"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/store"
)

var _ interact.Repository = (*store.Store)(nil)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "nested", "notes.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptyStore(t *testing.T) {
	s := openStore(t)

	notes, err := s.GetAll()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", notes)
	}
}

func TestAddAndGet(t *testing.T) {
	s := openStore(t)

	added, err := s.Add(model.Note{Title: "First", Category: "idées", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Expected generated ID")
	}
	if added.CreatedAt.IsZero() || !added.CreatedAt.Equal(added.UpdatedAt) {
		t.Errorf("Expected matching timestamps, got %v / %v", added.CreatedAt, added.UpdatedAt)
	}

	got, err := s.Get(added.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Title != "First" || got.Category != "idées" || !slices.Equal(got.Tags, []string{"go"}) {
		t.Errorf("Expected stored note, got %+v", got)
	}

	if _, err := s.Add(model.Note{ID: added.ID}); err == nil {
		t.Error("Expected duplicate ID to fail")
	}
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)

	if _, err := s.Get("nope"); !errors.Is(err, store.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got %v", err)
	}
	if err := s.Update("nope", model.NotePatch{}); !errors.Is(err, store.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got %v", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, store.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got %v", err)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s := openStore(t)
	n, err := s.Add(model.Note{ID: "a", Title: "A", Content: "body", Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	if err := s.Update("a", model.ConnectionsPatch([]string{"b", "c"})); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, _ := s.Get("a")
	if !slices.Equal(got.Connections, []string{"b", "c"}) {
		t.Errorf("Expected connections [b c], got %v", got.Connections)
	}
	if got.Title != "A" || got.Content != "body" || !slices.Equal(got.Tags, []string{"x"}) {
		t.Errorf("Expected other fields unchanged, got %+v", got)
	}
	if !got.UpdatedAt.After(n.UpdatedAt) {
		t.Errorf("Expected UpdatedAt to advance, got %v then %v", n.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("Expected CreatedAt unchanged, got %v", got.CreatedAt)
	}
}

func TestImportUpserts(t *testing.T) {
	s := openStore(t)
	if _, err := s.Add(model.Note{ID: "a", Title: "old"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	added, err := s.Import([]model.Note{
		{ID: "b", Title: "B"},
		{ID: "a", Title: "new"},
		{Title: "no id"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if added != 2 {
		t.Errorf("Expected 2 added, got %d", added)
	}

	notes, _ := s.GetAll()
	if len(notes) != 3 {
		t.Fatalf("Expected 3 notes, got %d", len(notes))
	}
	if notes[0].ID != "a" || notes[0].Title != "new" {
		t.Errorf("Expected a replaced in place, got %+v", notes[0])
	}
	if notes[1].ID != "b" || notes[2].ID == "" {
		t.Errorf("Expected b then a generated ID, got %q %q", notes[1].ID, notes[2].ID)
	}
	if notes[2].CreatedAt.IsZero() {
		t.Error("Expected imported note to get a timestamp")
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	s.Import([]model.Note{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	if err := s.Delete("b"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	notes, _ := s.GetAll()
	if len(notes) != 2 || notes[0].ID != "a" || notes[1].ID != "c" {
		t.Errorf("Expected [a c], got %v", notes)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if _, err := s.Add(model.Note{ID: "keep", Title: "Kept"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.Close()

	s, err = store.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()
	got, err := s.Get("keep")
	if err != nil || got.Title != "Kept" {
		t.Errorf("Expected note to survive reopen, got %+v %v", got, err)
	}
}
