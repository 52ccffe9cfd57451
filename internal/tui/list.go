package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fentz26/fade/internal/models"
)

// glyphs are ordered from empty to full.
var glyphs = []string{"○", "◔", "◑", "◕", "●"}

// Glyph returns the countdown glyph for a remaining proportion. Any
// positive remainder shows at least a quarter.
func Glyph(p float64) string {
	if math.IsNaN(p) || p <= 0 {
		return glyphs[0]
	}
	i := int(math.Round(p * 4))
	if i < 1 {
		i = 1
	}
	if i > 4 {
		i = 4
	}
	return glyphs[i]
}

// TimeLeft renders the time until expiresAt, e.g. "12 minutes left".
func TimeLeft(now, expiresAt time.Time) string {
	if !now.Before(expiresAt) {
		return "expiring"
	}
	return humanize.RelTime(now, expiresAt, "left", "")
}

func glyphStyle(p float64) string {
	g := Glyph(p)
	switch {
	case p > 0.5:
		return freshStyle.Render(g)
	case p > 0.25:
		return agingStyle.Render(g)
	default:
		return expiringStyle.Render(g)
	}
}

// renderRow formats one list line.
func renderRow(v models.TodoView, expiresAt, now time.Time, selected bool) string {
	cursor := " "
	if selected {
		cursor = "▶"
	}
	if v.Fading() {
		// Fading rows are struck through without a countdown.
		return fadingStyle.Render(fmt.Sprintf("%s %s  %s", cursor, Glyph(v.Remaining), v.Text))
	}

	left := helpStyle.Render(TimeLeft(now, expiresAt))
	if selected {
		return selectedStyle.Render(fmt.Sprintf("%s %s  %s", cursor, Glyph(v.Remaining), v.Text)) + "  " + left
	}
	return itemStyle.Render(fmt.Sprintf("%s %s  %s", cursor, glyphStyle(v.Remaining), v.Text)) + "  " + left
}

// renderList returns every row joined by newlines.
func (a *App) renderList(now time.Time) string {
	if len(a.items) == 0 {
		return "\n  Nothing to do. Type a todo and press Enter.\n"
	}

	lines := make([]string, len(a.items))
	for i, v := range a.items {
		lines[i] = renderRow(v, v.CreatedAt.Add(a.store.Expiry()), now, i == a.selectedIdx)
	}
	return strings.Join(lines, "\n")
}
