// Package todo owns the list of time-limited todo items and their lifecycle:
// added items are active, completed items fade out after a short delay, and
// active items expire once they outlive the expiry duration.
package todo

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/clock"
	"github.com/fentz26/fade/internal/models"
	"github.com/google/uuid"
)

const (
	// DefaultExpiry is the lifetime of an active item.
	DefaultExpiry = 30 * time.Minute
	// DefaultFadeDelay is how long a completed item lingers before removal.
	DefaultFadeDelay = 500 * time.Millisecond

	maxIDAttempts = 8
)

// Recorder receives lifecycle events after the store has applied them.
// It is called outside the store's lock and must not block for long. No
// call is made once Close has returned.
type Recorder interface {
	Record(models.Event)
}

// Store is the in-memory todo list. All operations are total: empty text,
// unknown ids and repeated completions are absorbed as no-ops.
type Store struct {
	mu        sync.Mutex
	clock     clock.Clock
	expiry    time.Duration
	fadeDelay time.Duration
	newID     func() string
	recorder  Recorder
	logger    *log.Logger

	items   []models.Todo // newest first
	fading  map[string]clock.Timer
	subs    map[int]chan struct{}
	nextSub int
	closed  bool

	// inflight counts mutations whose event has not been recorded yet.
	inflight sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for fade timers and event timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithExpiry overrides DefaultExpiry. Non-positive values are ignored.
func WithExpiry(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithFadeDelay overrides DefaultFadeDelay. Negative values are ignored.
func WithFadeDelay(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.fadeDelay = d
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithRecorder attaches a lifecycle event sink.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:     clock.Real(),
		expiry:    DefaultExpiry,
		fadeDelay: DefaultFadeDelay,
		newID:     uuid.NewString,
		logger:    log.New(io.Discard),
		fading:    make(map[string]clock.Timer),
		subs:      make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expiry returns the configured lifetime of an active item.
func (s *Store) Expiry() time.Duration { return s.expiry }

// FadeDelay returns the configured fade-out delay.
func (s *Store) FadeDelay() time.Duration { return s.fadeDelay }

// Clock returns the store's clock.
func (s *Store) Clock() clock.Clock { return s.clock }

// Add trims text and prepends a new active item created at now. Blank text
// is ignored and reported as false.
func (s *Store) Add(text string, now time.Time) (models.Todo, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.Todo{}, false
	}
	item := models.Todo{
		ID:        s.uniqueID(),
		Text:      text,
		CreatedAt: now,
		Status:    models.TodoStatusActive,
	}
	s.items = append([]models.Todo{item}, s.items...)
	s.notifyLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	s.logger.Debug("todo added", "id", item.ID, "text", item.Text)
	s.record(models.EventAdded, item, now)
	return item, true
}

// Complete marks an active item as fading and schedules its removal after
// the fade delay. Unknown or already fading ids are ignored.
func (s *Store) Complete(id string) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	i := s.indexOf(id)
	if i < 0 || s.items[i].Status != models.TodoStatusActive {
		s.mu.Unlock()
		return false
	}
	s.items[i].Status = models.TodoStatusCompleting
	item := s.items[i]
	s.fading[id] = s.clock.AfterFunc(s.fadeDelay, func() { s.fadeOut(id) })
	s.notifyLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	s.logger.Debug("todo completed", "id", id, "fade", s.fadeDelay)
	s.record(models.EventCompleted, item, s.clock.Now())
	return true
}

// fadeOut is the delayed removal armed by Complete.
func (s *Store) fadeOut(id string) {
	s.mu.Lock()
	delete(s.fading, id)
	if s.closed {
		s.mu.Unlock()
		return
	}
	i := s.indexOf(id)
	if i < 0 || s.items[i].Status != models.TodoStatusCompleting {
		s.mu.Unlock()
		return
	}
	item := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.notifyLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	s.logger.Debug("todo faded", "id", id)
	s.record(models.EventFaded, item, s.clock.Now())
}

// Sweep removes every active item whose age has reached the expiry duration
// and returns how many were removed. Fading items are left to their timers.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	var expired []models.Todo
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Status == models.TodoStatusActive && now.Sub(it.CreatedAt) >= s.expiry {
			expired = append(expired, it)
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	if len(expired) > 0 {
		s.notifyLocked()
	}
	s.inflight.Add(len(expired))
	s.mu.Unlock()

	for _, it := range expired {
		s.logger.Info("todo expired", "id", it.ID, "text", it.Text)
		s.record(models.EventExpired, it, now)
	}
	return len(expired)
}

// List returns the current items, newest first.
func (s *Store) List() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Todo, len(s.items))
	copy(out, s.items)
	return out
}

// Views returns the current items with their remaining proportion at now.
func (s *Store) Views(now time.Time) []models.TodoView {
	items := s.List()
	out := make([]models.TodoView, len(items))
	for i, it := range items {
		out[i] = models.TodoView{Todo: it, Remaining: s.RemainingProportion(it, now)}
	}
	return out
}

// Get looks up a live item by id.
func (s *Store) Get(id string) (models.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return models.Todo{}, false
}

// Len returns the number of live items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// RemainingProportion is the fraction of the item's lifetime left at now.
func (s *Store) RemainingProportion(item models.Todo, now time.Time) float64 {
	return Remaining(item.CreatedAt, now, s.expiry)
}

// Remaining returns max(0, 1 - (now-createdAt)/expiry).
func Remaining(createdAt, now time.Time, expiry time.Duration) float64 {
	if expiry <= 0 {
		return 0
	}
	p := 1 - float64(now.Sub(createdAt))/float64(expiry)
	if p < 0 {
		return 0
	}
	return p
}

// Subscribe returns a channel that receives a value whenever the list
// changes. Notifications coalesce; a slow reader sees at most one pending
// signal. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close cancels every pending fade timer and closes subscriber channels.
// Later mutations are ignored. Close waits for events already in flight to
// reach the recorder, so the recorder may be shut down once it returns.
// Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.inflight.Wait()
		return
	}
	s.closed = true
	for id, t := range s.fading {
		t.Stop()
		delete(s.fading, id)
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	n := len(s.items)
	s.mu.Unlock()

	s.inflight.Wait()
	s.logger.Debug("todo store closed", "items", n)
}

// indexOf returns the position of id or -1. s.mu must be held.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is free among live items. s.mu must be held.
func (s *Store) uniqueID() string {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if id := s.newID(); id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
	id := uuid.NewString()
	for s.indexOf(id) >= 0 {
		id = uuid.NewString()
	}
	return id
}

// notifyLocked signals subscribers without blocking. s.mu must be held.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// record delivers one event and releases its inflight slot.
func (s *Store) record(kind models.EventKind, item models.Todo, at time.Time) {
	defer s.inflight.Done()
	if s.recorder == nil {
		return
	}
	s.recorder.Record(models.Event{
		ID:     uuid.NewString(),
		TodoID: item.ID,
		Kind:   kind,
		Text:   item.Text,
		At:     at,
	})
}
