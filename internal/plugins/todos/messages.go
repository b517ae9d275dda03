package todos

import "github.com/wilbur182/grudge/internal/store"

// TodosLoadedMsg delivers the result of a disk load. Sent once at startup
// and again after every external change to the backing file.
type TodosLoadedMsg struct {
	Todos []store.Todo
	Err   error
}

// StoreChangedMsg fires when the watcher sees the backing file change.
type StoreChangedMsg struct{}
