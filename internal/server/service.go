// Package server exposes the todo store over HTTP.
package server

import (
	"context"
	"time"

	"github.com/fentz26/fade/internal/geometry"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/store"
	"github.com/fentz26/fade/internal/todo"
)

// TodoResponse is the API representation of a todo.
type TodoResponse struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Status    models.TodoStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Remaining float64           `json:"remaining"`
	Path      string            `json:"path"`
}

// Service implements the API operations on top of the todo store.
type Service struct {
	todos   *todo.Store
	journal *store.Store
	circle  geometry.Circle
}

// NewService creates a new service. journal may be nil.
func NewService(todos *todo.Store, journal *store.Store, circle geometry.Circle) *Service {
	return &Service{todos: todos, journal: journal, circle: circle}
}

func (s *Service) now() time.Time {
	return s.todos.Clock().Now()
}

func (s *Service) response(t models.Todo, now time.Time) TodoResponse {
	remaining := s.todos.RemainingProportion(t, now)
	return TodoResponse{
		ID:        t.ID,
		Text:      t.Text,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.CreatedAt.Add(s.todos.Expiry()),
		Remaining: remaining,
		Path:      s.circle.Path(remaining),
	}
}

// CreateTodo adds a todo created now.
func (s *Service) CreateTodo(text string) (*TodoResponse, error) {
	now := s.now()
	t, ok := s.todos.Add(text, now)
	if !ok {
		return nil, ErrEmptyText
	}
	resp := s.response(t, now)
	return &resp, nil
}

// ListTodos returns every live todo, newest first.
func (s *Service) ListTodos() []TodoResponse {
	now := s.now()
	items := s.todos.List()
	out := make([]TodoResponse, len(items))
	for i, t := range items {
		out[i] = s.response(t, now)
	}
	return out
}

// GetTodo returns a single todo.
func (s *Service) GetTodo(id string) (*TodoResponse, error) {
	t, ok := s.todos.Get(id)
	if !ok {
		return nil, ErrTodoNotFound
	}
	resp := s.response(t, s.now())
	return &resp, nil
}

// CompleteTodo starts the fade-out of a todo. Completing a fading todo is
// accepted and changes nothing.
func (s *Service) CompleteTodo(id string) (*TodoResponse, error) {
	if _, ok := s.todos.Get(id); !ok {
		return nil, ErrTodoNotFound
	}
	s.todos.Complete(id)
	t, ok := s.todos.Get(id)
	if !ok {
		// faded between the two lookups (zero fade delay)
		return nil, ErrTodoNotFound
	}
	resp := s.response(t, s.now())
	return &resp, nil
}

// Indicator returns the SVG countdown for a todo.
func (s *Service) Indicator(id string) (string, error) {
	t, ok := s.todos.Get(id)
	if !ok {
		return "", ErrTodoNotFound
	}
	return s.circle.SVG(s.todos.RemainingProportion(t, s.now())), nil
}

// ArcPath returns the wedge path for an arbitrary proportion.
func (s *Service) ArcPath(p float64) string {
	return s.circle.Path(p)
}

// Events queries the journal.
func (s *Service) Events(ctx context.Context, f store.EventFilter) ([]models.Event, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.ListEvents(ctx, f)
}

// PingJournal reports journal health. A disabled journal is healthy.
func (s *Service) PingJournal(ctx context.Context) (string, error) {
	if s.journal == nil {
		return "disabled", nil
	}
	if err := s.journal.Ping(ctx); err != nil {
		return "error: " + err.Error(), err
	}
	return "ok", nil
}

// Count returns the number of live todos.
func (s *Service) Count() int {
	return s.todos.Len()
}
