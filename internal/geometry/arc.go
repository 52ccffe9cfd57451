// Package geometry renders countdown indicators as SVG pie wedges.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDegrees is the widest wedge drawn. An SVG arc whose end point equals its
// start point renders nothing, so a full turn stops a thousandth of a degree short.
const MaxDegrees = 359.999

// Circle is the indicator the wedge is drawn in.
type Circle struct {
	CX float64 `yaml:"cx" toml:"cx" json:"cx"`
	CY float64 `yaml:"cy" toml:"cy" json:"cy"`
	R  float64 `yaml:"radius" toml:"radius" json:"radius"`
}

// Indicator is the reference geometry: radius 10 centred in a 24x24 viewbox.
var Indicator = Circle{CX: 12, CY: 12, R: 10}

// Wedge is a computed arc, angles measured clockwise from 12 o'clock.
type Wedge struct {
	Degrees  float64
	StartX   float64
	StartY   float64
	EndX     float64
	EndY     float64
	LargeArc bool
}

// Arc computes the wedge for proportion p. It reports false when there is
// nothing to draw (p <= 0 or NaN). Every wedge is capped at MaxDegrees.
func (c Circle) Arc(p float64) (Wedge, bool) {
	if math.IsNaN(p) || p <= 0 {
		return Wedge{}, false
	}

	// Proportions close enough to 1 would round onto the start point too.
	degrees := math.Min(p*360, MaxDegrees)
	theta := degrees * math.Pi / 180

	return Wedge{
		Degrees:  degrees,
		StartX:   c.CX,
		StartY:   c.CY - c.R,
		EndX:     c.CX + c.R*math.Sin(theta),
		EndY:     c.CY - c.R*math.Cos(theta),
		LargeArc: theta > math.Pi,
	}, true
}

// Path returns the SVG path data for proportion p, or "" when nothing is drawn.
func (c Circle) Path(p float64) string {
	w, ok := c.Arc(p)
	if !ok {
		return ""
	}
	large := 0
	if w.LargeArc {
		large = 1
	}
	r := num(c.R)
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(c.CX), num(c.CY),
		num(w.StartX), num(w.StartY),
		r, r, large,
		num(w.EndX), num(w.EndY),
	)
}

// SVG returns a standalone document: the outline circle plus the wedge.
func (c Circle) SVG(p float64) string {
	width, height := num(c.CX*2), num(c.CY*2)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		width, height, width, height)
	fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="currentColor" stroke-width="2"/>`,
		num(c.CX), num(c.CY), num(c.R))
	if d := c.Path(p); d != "" {
		fmt.Fprintf(&b, `<path d="%s" fill="currentColor"/>`, d)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// ArcPath is Indicator.Path.
func ArcPath(p float64) string {
	return Indicator.Path(p)
}

// num rounds to 4 decimal places and drops trailing zeros.
func num(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
