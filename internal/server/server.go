package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/store"
)

// Version is reported by /health.
const Version = "0.1.0"

// Server provides the HTTP API for fade.
type Server struct {
	service *Service
	addr    string
	logger  *log.Logger
	server  *http.Server
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Journal string `json:"journal"`
	Version string `json:"version"`
	Time    string `json:"time"`
	Todos   int    `json:"todos"`
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		service: service,
		addr:    addr,
		logger:  logger,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Todo endpoints
	mux.HandleFunc("/todos", s.handleTodos)
	mux.HandleFunc("/todos/", s.handleTodoByID)

	// Journal
	mux.HandleFunc("/events", s.handleEvents)

	// Geometry
	mux.HandleFunc("/arc", s.handleArc)

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("starting fade API", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	journal, err := s.service.PingJournal(ctx)
	resp := HealthResponse{
		OK:      err == nil,
		Journal: journal,
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Todos:   s.service.Count(),
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleTodos handles POST /todos and GET /todos
func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTodo(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.service.ListTodos())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTodoByID handles /todos/{id}/*
func (s *Server) handleTodoByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/todos/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "todo id required", http.StatusBadRequest)
		return
	}
	if len(parts) > 2 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	id := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getTodo(w, id)
	case action == "complete" && r.Method == http.MethodPost:
		s.completeTodo(w, id)
	case action == "indicator.svg" && r.Method == http.MethodGet:
		s.getIndicator(w, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type createTodoRequest struct {
	Text string `json:"text"`
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	todo, err := s.service.CreateTodo(req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("todo added", "id", todo.ID, "text", todo.Text)
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) getTodo(w http.ResponseWriter, id string) {
	todo, err := s.service.GetTodo(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) completeTodo(w http.ResponseWriter, id string) {
	todo, err := s.service.CompleteTodo(id)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("todo completed", "id", id)
	writeJSON(w, http.StatusAccepted, todo)
}

func (s *Server) getIndicator(w http.ResponseWriter, id string) {
	svg, err := s.service.Indicator(id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(svg))
}

// handleEvents handles GET /events?todo=&kind=&limit=
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := store.EventFilter{TodoID: q.Get("todo")}
	for _, k := range q["kind"] {
		for _, part := range strings.Split(k, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Kinds = append(filter.Kinds, models.EventKind(part))
			}
		}
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	events, err := s.service.Events(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

type arcResponse struct {
	Proportion float64 `json:"proportion"`
	Path       string  `json:"path"`
}

// handleArc handles GET /arc?p=0.25
func (s *Server) handleArc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p, err := strconv.ParseFloat(r.URL.Query().Get("p"), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		writeError(w, ErrBadProportion)
		return
	}
	writeJSON(w, http.StatusOK, arcResponse{Proportion: p, Path: s.service.ArcPath(p)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrTodoNotFound), errors.Is(err, ErrJournalDisabled):
		status = http.StatusNotFound
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrBadProportion):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
