// Package store persists the todo list as an ordered JSON array on disk.
// Writes are atomic (temp file + rename) so an external watcher never sees
// a half-written list.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wilbur182/grudge/internal/config"
)

// Todo is one todo item. The interaction core never owns these; it only
// reads Completed and flips it through the completion callback.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when an id does not exist in the list.
var ErrNotFound = errors.New("todo not found")

// Store owns the on-disk todo list. Methods are safe for concurrent use,
// though grudge only calls them from the update loop.
type Store struct {
	mu    sync.Mutex
	path  string
	todos []Todo
}

// New creates a store backed by path. The file is not touched until the
// first Load or mutation.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard todo list location.
func DefaultPath() string {
	return filepath.Join(config.DataDir(), "todos.json")
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the list from disk, replacing any in-memory state. A missing
// file is an empty list, not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.todos = nil
			return nil
		}
		return fmt.Errorf("failed to read todos: %w", err)
	}

	var todos []Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return fmt.Errorf("failed to parse todos: %w", err)
	}
	s.todos = todos
	return nil
}

// saveLocked writes the list to disk. Caller holds s.mu.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create todo dir: %w", err)
	}

	todos := s.todos
	if todos == nil {
		todos = []Todo{}
	}
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode todos: %w", err)
	}

	// Atomic write: temp file + rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write todos: %w", err)
	}
	return os.Rename(tmpPath, s.path)
}

// List returns the todos in creation order. The slice is a copy.
func (s *Store) List() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Len returns the number of todos.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Get returns the todo with the given id.
func (s *Store) Get(id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, ErrNotFound
}

// Add appends a new todo and saves.
func (s *Store) Add(text string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Todo{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.todos = append(s.todos, t)
	if err := s.saveLocked(); err != nil {
		return Todo{}, err
	}
	return t, nil
}

// UpdateText replaces a todo's text and saves.
func (s *Store) UpdateText(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Text = text
			return s.saveLocked()
		}
	}
	return ErrNotFound
}

// SetCompleted sets a todo's completion flag and saves.
func (s *Store) SetCompleted(id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Completed = completed
			return s.saveLocked()
		}
	}
	return ErrNotFound
}

// Delete removes a todo and saves.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return s.saveLocked()
		}
	}
	return ErrNotFound
}

// Counts returns how many todos are open and how many are completed.
func (s *Store) Counts() (open, done int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
