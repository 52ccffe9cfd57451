package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/audit"
	"github.com/fentz26/fade/internal/config"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/scheduler"
	"github.com/fentz26/fade/internal/store"
	"github.com/fentz26/fade/internal/todo"
)

// components are the long-lived pieces shared by tui and serve.
type components struct {
	todos   *todo.Store
	journal *store.Store // nil when the journal is disabled
	sweeper *scheduler.Sweeper
}

// build wires the todo store, journal and sweeper from c.
func build(c *config.Config, logger *log.Logger) (*components, error) {
	opts := []todo.Option{
		todo.WithExpiry(c.Todo.Expiry.Duration),
		todo.WithFadeDelay(c.Todo.FadeDelay.Duration),
		todo.WithLogger(logger),
	}

	var journal *store.Store
	if c.Journal.Enabled {
		s, err := store.New(c.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		journal = s
		opts = append(opts, todo.WithRecorder(audit.NewJournal(s, logger)))
	}

	todos := todo.New(opts...)
	sweeper := scheduler.New(todos, &scheduler.Config{Interval: c.Todo.TickInterval.Duration}, logger)

	return &components{todos: todos, journal: journal, sweeper: sweeper}, nil
}

// Close stops the sweeper, cancels pending fades and closes the journal.
func (c *components) Close() error {
	c.sweeper.Stop()
	c.todos.Close()
	if c.journal != nil {
		return c.journal.Close()
	}
	return nil
}

// consoleLogger logs to stderr at the configured level.
func consoleLogger(c *config.Config) *log.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.New(os.Stderr, level)
}
