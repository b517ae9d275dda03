package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "todos.json"))
}

func TestLoadMissingFileIsEmptyList(t *testing.T) {
	s := tempStore(t)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	s := tempStore(t)

	todo, err := s.Add("water the cactus")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if todo.ID == "" {
		t.Error("Add() returned empty id")
	}
	if todo.Completed {
		t.Error("new todo is already completed")
	}
	if todo.CreatedAt.IsZero() {
		t.Error("new todo has zero CreatedAt")
	}

	// A fresh store reading the same file sees the todo.
	s2 := New(s.Path())
	if err := s2.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	got, err := s2.Get(todo.ID)
	if err != nil {
		t.Fatalf("Get() after reload: %v", err)
	}
	if got.Text != "water the cactus" {
		t.Errorf("Text = %q, want %q", got.Text, "water the cactus")
	}
}

func TestListPreservesCreationOrder(t *testing.T) {
	s := tempStore(t)
	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Add(text); err != nil {
			t.Fatalf("Add(%q) failed: %v", text, err)
		}
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(list))
	}
	for i, want := range []string{"first", "second", "third"} {
		if list[i].Text != want {
			t.Errorf("List()[%d].Text = %q, want %q", i, list[i].Text, want)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Add("original"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	list := s.List()
	list[0].Text = "mutated"

	fresh := s.List()
	if fresh[0].Text != "original" {
		t.Error("mutating the returned slice leaked into the store")
	}
}

func TestSetCompleted(t *testing.T) {
	s := tempStore(t)
	todo, err := s.Add("finish the report")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	if err := s.SetCompleted(todo.ID, true); err != nil {
		t.Fatalf("SetCompleted() failed: %v", err)
	}
	got, _ := s.Get(todo.ID)
	if !got.Completed {
		t.Error("todo not completed after SetCompleted(true)")
	}

	open, done := s.Counts()
	if open != 0 || done != 1 {
		t.Errorf("Counts() = (%d, %d), want (0, 1)", open, done)
	}
}

func TestUpdateText(t *testing.T) {
	s := tempStore(t)
	todo, err := s.Add("tpyo")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := s.UpdateText(todo.ID, "typo"); err != nil {
		t.Fatalf("UpdateText() failed: %v", err)
	}
	got, _ := s.Get(todo.ID)
	if got.Text != "typo" {
		t.Errorf("Text = %q, want %q", got.Text, "typo")
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	keep, _ := s.Add("keep")
	drop, _ := s.Add("drop")

	if err := s.Delete(drop.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after delete, want 1", s.Len())
	}
	if _, err := s.Get(drop.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(keep.ID); err != nil {
		t.Errorf("surviving todo missing: %v", err)
	}
}

func TestMutationsOnUnknownIDReturnNotFound(t *testing.T) {
	s := tempStore(t)
	if err := s.SetCompleted("nope", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCompleted error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateText("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateText error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	s := New(path)
	if err := s.Load(); err == nil {
		t.Error("Load() accepted corrupt JSON")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Add("anything"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestLoadReplacesInMemoryState(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Add("mine"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	// Simulate an external edit replacing the file.
	if err := os.WriteFile(s.Path(), []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to overwrite file: %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after external truncation, want 0", s.Len())
	}
}
