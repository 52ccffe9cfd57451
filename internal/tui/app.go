// Package tui provides the interactive terminal UI for fade.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/scheduler"
	"github.com/fentz26/fade/internal/todo"
)

// chrome is the number of lines taken by the header, input box and status bar.
const chrome = 7

type tickMsg time.Time

type changedMsg struct{}

// App is the main TUI application model.
type App struct {
	store        *todo.Store
	sweeper      *scheduler.Sweeper
	tickInterval time.Duration
	logger       *log.Logger

	input       textinput.Model
	viewport    viewport.Model
	items       []models.TodoView
	selectedIdx int
	width       int
	height      int
	message     string

	changes     <-chan struct{}
	unsubscribe func()
}

// New creates a new TUI over s. The app owns the sweep cadence: each tick
// runs sw.Tick rather than starting the sweeper's own loop.
func New(s *todo.Store, sw *scheduler.Sweeper, tickInterval time.Duration, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	if sw == nil {
		sw = scheduler.New(s, nil, logger)
	}
	if tickInterval <= 0 {
		tickInterval = time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "What needs doing in the next half hour?"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	changes, unsubscribe := s.Subscribe()
	a := &App{
		store:        s,
		sweeper:      sw,
		tickInterval: tickInterval,
		logger:       logger,
		input:        ti,
		viewport:     viewport.New(80, 20),
		changes:      changes,
		unsubscribe:  unsubscribe,
	}
	a.refresh()
	return a
}

// Run starts the TUI application and closes the store when it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	a.Close()
	return err
}

// Close unsubscribes from the store and closes it, cancelling pending fades.
func (a *App) Close() {
	a.unsubscribe()
	a.store.Close()
	a.logger.Debug("tui closed")
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.tickCmd(),
		a.waitForChange(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		idle := a.input.Value() == ""
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "q":
			if idle {
				return a, tea.Quit
			}

		case "up":
			if a.selectedIdx > 0 {
				a.selectedIdx--
				a.syncViewport()
			}
			return a, nil

		case "down":
			if a.selectedIdx < len(a.items)-1 {
				a.selectedIdx++
				a.syncViewport()
			}
			return a, nil

		case " ", "x":
			if idle {
				a.completeSelected()
				return a, nil
			}

		case "enter":
			a.add()
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		a.viewport.Width = msg.Width
		a.viewport.Height = max(1, msg.Height-chrome)
		a.syncViewport()

	case tickMsg:
		a.sweeper.Tick(a.store.Clock().Now())
		a.refresh()
		return a, a.tickCmd()

	case changedMsg:
		a.refresh()
		return a, a.waitForChange()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("fade") + helpStyle.Render(fmt.Sprintf("  todos vanish after %s", a.store.Expiry())) + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	b.WriteString(a.viewport.View())

	b.WriteString("\n")
	if a.message != "" {
		b.WriteString(helpStyle.Render(a.message))
	}

	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))
	b.WriteString("\n")

	status := fmt.Sprintf(" Todos: %d | Enter:add | ↑↓:nav | Space/x:done | q:quit", len(a.items))
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) add() {
	text := a.input.Value()
	a.input.SetValue("")
	if _, ok := a.store.Add(text, a.store.Clock().Now()); !ok {
		return
	}
	a.message = ""
	a.selectedIdx = 0
	a.refresh()
}

func (a *App) completeSelected() {
	if len(a.items) == 0 {
		return
	}
	item := a.items[a.selectedIdx]
	if a.store.Complete(item.ID) {
		a.message = fmt.Sprintf("✓ %s", item.Text)
	}
	a.refresh()
}

// refresh re-reads the store and re-renders the list into the viewport.
func (a *App) refresh() {
	now := a.store.Clock().Now()
	a.items = a.store.Views(now)
	if a.selectedIdx >= len(a.items) {
		a.selectedIdx = max(0, len(a.items)-1)
	}
	a.syncViewport()
}

// syncViewport renders the rows and scrolls so the cursor stays visible.
func (a *App) syncViewport() {
	a.viewport.SetContent(a.renderList(a.store.Clock().Now()))
	switch {
	case a.selectedIdx < a.viewport.YOffset:
		a.viewport.SetYOffset(a.selectedIdx)
	case a.selectedIdx >= a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(a.selectedIdx - a.viewport.Height + 1)
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the store signals a change. A closed
// subscription ends the chain.
func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}
