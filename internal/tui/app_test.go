package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/fade/internal/clock"
	"github.com/fentz26/fade/internal/todo"
	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *todo.Store, *clock.Fake) {
	t.Helper()
	n := 0
	fake := clock.NewFake(epoch)
	s := todo.New(
		todo.WithClock(fake),
		todo.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("todo-%d", n)
		}),
	)
	a := New(s, nil, time.Second, nil)
	t.Cleanup(a.Close)
	return a, s, fake
}

func typeText(a *App, text string) {
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(a *App, k tea.KeyType) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: k})
	return cmd
}

func space(a *App) {
	a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func texts(a *App) []string {
	out := make([]string, len(a.items))
	for i, v := range a.items {
		out[i] = v.Text
	}
	return out
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{1, "●"},
		{0.9, "●"},
		{0.75, "◕"},
		{0.5, "◑"},
		{0.25, "◔"},
		{0.01, "◔"},
		{0, "○"},
		{-0.5, "○"},
		{2, "●"},
	}
	for _, tt := range tests {
		if got := Glyph(tt.p); got != tt.want {
			t.Errorf("Glyph(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	if got := TimeLeft(epoch, epoch.Add(30*time.Minute)); got != "30 minutes left" {
		t.Errorf("Expected '30 minutes left', got %q", got)
	}
	if got := TimeLeft(epoch, epoch); got != "expiring" {
		t.Errorf("Expected 'expiring' at expiry, got %q", got)
	}
}

func TestAddFromInput(t *testing.T) {
	a, s, _ := newTestApp(t)

	typeText(a, "buy milk")
	press(a, tea.KeyEnter)
	typeText(a, "walk dog")
	press(a, tea.KeyEnter)

	if diff := cmp.Diff([]string{"walk dog", "buy milk"}, texts(a)); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 todos in store, got %d", s.Len())
	}
	if a.input.Value() != "" {
		t.Errorf("Expected input cleared, got %q", a.input.Value())
	}
}

func TestAddBlankIgnored(t *testing.T) {
	a, s, _ := newTestApp(t)

	typeText(a, "   ")
	press(a, tea.KeyEnter)

	if s.Len() != 0 {
		t.Errorf("Expected blank input to be ignored, got %d todos", s.Len())
	}
}

func TestCompleteSelected(t *testing.T) {
	a, s, fake := newTestApp(t)

	s.Add("a", epoch)
	s.Add("b", epoch)
	a.refresh()

	press(a, tea.KeyDown)
	if a.selectedIdx != 1 {
		t.Fatalf("Expected cursor on row 1, got %d", a.selectedIdx)
	}
	space(a)

	if !a.items[1].Fading() {
		t.Fatal("Expected selected item to be fading")
	}
	if a.items[0].Fading() {
		t.Error("Expected other item to stay active")
	}

	fake.Advance(todo.DefaultFadeDelay)
	a.Update(changedMsg{})

	if diff := cmp.Diff([]string{"b"}, texts(a)); diff != "" {
		t.Errorf("Items mismatch after fade (-want +got):\n%s", diff)
	}
	if a.selectedIdx != 0 {
		t.Errorf("Expected cursor clamped to 0, got %d", a.selectedIdx)
	}
}

func TestKeysTypeWhileEditing(t *testing.T) {
	a, s, _ := newTestApp(t)
	s.Add("a", epoch)
	a.refresh()

	typeText(a, "fix")
	space(a)
	typeText(a, "q")

	if a.input.Value() != "fix q" {
		t.Errorf("Expected input 'fix q', got %q", a.input.Value())
	}
	if a.items[0].Fading() {
		t.Error("Space while typing must not complete")
	}
}

func TestQuit(t *testing.T) {
	a, _, _ := newTestApp(t)

	if !isQuit(press(a, tea.KeyCtrlC)) {
		t.Error("Expected ctrl+c to quit")
	}

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("Expected q on empty input to quit")
	}
}

func TestTickSweeps(t *testing.T) {
	a, s, fake := newTestApp(t)

	s.Add("old", epoch)
	fake.Advance(10 * time.Minute)
	s.Add("new", fake.Now())
	a.refresh()

	fake.Advance(20 * time.Minute)
	_, cmd := a.Update(tickMsg(fake.Now()))
	if cmd == nil {
		t.Error("Expected tick to schedule the next tick")
	}

	if diff := cmp.Diff([]string{"new"}, texts(a)); diff != "" {
		t.Errorf("Items mismatch after sweep (-want +got):\n%s", diff)
	}
	if got := a.sweeper.GetStats()["expired"]; got != 1 {
		t.Errorf("Expected sweeper to count 1 expiry, got %v", got)
	}
}

func TestWaitForChange(t *testing.T) {
	a, s, _ := newTestApp(t)

	cmd := a.waitForChange()
	s.Add("a", epoch)
	if _, ok := cmd().(changedMsg); !ok {
		t.Error("Expected changedMsg after store change")
	}

	a.Close()
	if msg := a.waitForChange()(); msg != nil {
		t.Errorf("Expected nil after close, got %T", msg)
	}
}

func TestCloseStopsStore(t *testing.T) {
	a, s, fake := newTestApp(t)

	s.Add("a", epoch)
	a.refresh()
	space(a)
	a.Close()

	if _, ok := s.Add("b", epoch); ok {
		t.Error("Expected Add to be ignored after close")
	}
	if fake.Pending() != 0 {
		t.Errorf("Expected fade timers cancelled, got %d pending", fake.Pending())
	}
}

func TestView(t *testing.T) {
	a, s, fake := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if !strings.Contains(a.View(), "Nothing to do") {
		t.Error("Expected empty-state hint")
	}

	s.Add("buy milk", epoch)
	fake.Advance(15 * time.Minute)
	a.refresh()

	view := a.View()
	for _, want := range []string{"buy milk", "◑", "15 minutes left", "Todos: 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q:\n%s", want, view)
		}
	}
}
