// Package models defines the core domain types for fade.
package models

import "time"

// TodoStatus represents the lifecycle state of a todo item.
type TodoStatus string

const (
	TodoStatusActive     TodoStatus = "active"
	TodoStatusCompleting TodoStatus = "completing"
	// TodoStatusRemoved is terminal. Removed items are deleted, never stored.
	TodoStatusRemoved TodoStatus = "removed"
)

// Todo is a time-limited todo item.
type Todo struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	Status    TodoStatus `json:"status"`
}

// Fading reports whether the item has been completed and is waiting to be removed.
func (t Todo) Fading() bool {
	return t.Status == TodoStatusCompleting
}

// TodoView is a todo joined with its remaining lifetime, as consumed by renderers.
type TodoView struct {
	Todo
	Remaining float64 `json:"remaining"`
}

// EventKind names a lifecycle transition recorded in the journal.
type EventKind string

const (
	EventAdded     EventKind = "added"
	EventCompleted EventKind = "completed"
	EventFaded     EventKind = "faded"
	EventExpired   EventKind = "expired"
)

// Event is a journal entry for a lifecycle transition.
type Event struct {
	ID     string    `json:"id"`
	TodoID string    `json:"todo_id"`
	Kind   EventKind `json:"kind"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}
