package audit

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/clock"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/store"
	"github.com/fentz26/fade/internal/todo"
	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestJournalRecordsLifecycle(t *testing.T) {
	db := newTestStore(t)
	defer db.Close()

	epoch := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(epoch)
	todos := todo.New(todo.WithClock(fake), todo.WithRecorder(NewJournal(db, nil)))
	defer todos.Close()

	task, _ := todos.Add("Task", epoch)
	todos.Complete(task.ID)
	fake.Advance(todo.DefaultFadeDelay)

	old, _ := todos.Add("Old", epoch)
	todos.Sweep(epoch.Add(todo.DefaultExpiry))

	ctx := context.Background()
	events, err := db.ListEvents(ctx, store.EventFilter{TodoID: task.ID})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	var kinds []models.EventKind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
		if e.Text != "Task" {
			t.Errorf("Unexpected event text %q", e.Text)
		}
	}
	want := []models.EventKind{models.EventFaded, models.EventCompleted, models.EventAdded}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("Kinds mismatch (-want +got):\n%s", diff)
	}

	expired, err := db.CountEvents(ctx, store.EventFilter{TodoID: old.ID, Kinds: []models.EventKind{models.EventExpired}})
	if err != nil {
		t.Fatalf("CountEvents failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("Expected one expired event, got %d", expired)
	}
}

func TestJournalLogsFailures(t *testing.T) {
	db := newTestStore(t)
	db.Close()

	var buf bytes.Buffer
	j := NewJournal(db, logging.New(&buf, log.DebugLevel))
	j.Record(models.Event{TodoID: "a", Kind: models.EventAdded, Text: "A"})

	if !strings.Contains(buf.String(), "journal write failed") {
		t.Errorf("Expected a logged failure, got %q", buf.String())
	}
}
