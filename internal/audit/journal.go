// Package audit records todo lifecycle events in the journal.
package audit

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/store"
)

// writeTimeout bounds a single journal write.
const writeTimeout = 2 * time.Second

// Journal writes lifecycle events to the store. It implements todo.Recorder.
type Journal struct {
	store  *store.Store
	logger *log.Logger
}

// NewJournal creates a new journal writer.
func NewJournal(s *store.Store, logger *log.Logger) *Journal {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Journal{store: s, logger: logger}
}

// Record appends e. Failures are logged and dropped; the todo list never
// depends on the journal.
func (j *Journal) Record(e models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := j.store.AppendEvent(ctx, e); err != nil {
		j.logger.Warn("journal write failed", "kind", e.Kind, "todo", e.TodoID, "err", err)
	}
}
