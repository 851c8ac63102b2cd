package colormap

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Table is an ordered list of color control points spanning [0,1].
// Index 0 maps to 0 and Len()-1 maps to 1; spacing is uniform.
type Table interface {
	Name() string
	Len() int
	At(i int) colorful.Color
}

// Engine maps a scalar voltage onto a color table. The lookup position is
// remapped into the [Start, End] sub-range of the table before sampling,
// so a dataset can use only part of a palette.
type Engine struct {
	table Table
	Start float64
	End   float64
}

func NewEngine(t Table) *Engine {
	return &Engine{table: t, Start: 0, End: 1}
}

// SetRange restricts the engine to the [start, end] sub-range of the table.
// Reversed arguments are swapped rather than rejected.
func (e *Engine) SetRange(start, end float64) {
	if start > end {
		start, end = end, start
	}
	e.Start = clamp01(start)
	e.End = clamp01(end)
}

func (e *Engine) Table() Table { return e.table }

// Normalize maps v into [0,1] over [min,max]. A degenerate range (max == min)
// yields 0 so callers never see NaN.
func Normalize(v, min, max float64) float64 {
	if max == min {
		return 0
	}
	return clamp01((v - min) / (max - min))
}

// Color returns the table color for voltage v over the [min,max] range.
// Values at or below min sample the table at position Start; values at or
// above max sample at End. Output is continuous in v.
func (e *Engine) Color(v, min, max float64) colorful.Color {
	n := Normalize(v, min, max)
	p := clamp01(e.Start + (e.End-e.Start)*n)
	return Sample(e.table, p)
}

// Sample linearly interpolates the table at position p in [0,1].
func Sample(t Table, p float64) colorful.Color {
	p = clamp01(p)
	last := t.Len() - 1
	scaled := p * float64(last)
	i0 := int(math.Floor(scaled))
	if i0 > last {
		i0 = last
	}
	i1 := i0 + 1
	if i1 > last {
		i1 = last
	}
	frac := scaled - float64(i0)
	c0 := t.At(i0)
	c1 := t.At(i1)
	return colorful.Color{
		R: c0.R + (c1.R-c0.R)*frac,
		G: c0.G + (c1.G-c0.G)*frac,
		B: c0.B + (c1.B-c0.B)*frac,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
