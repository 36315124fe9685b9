// Package selftest drives the strip directly with hardware bring-up
// patterns, bypassing the render engine.
package selftest

import "github.com/mazzolab/pingpongclock/internal/geometry"

type Kind string

const (
	None        Kind = ""
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
	RowSweep    Kind = "row_sweep"
)

// Runner steps one pattern frame at a time.
type Runner struct {
	kind Kind
	step int
}

func NewRunner(kind Kind) *Runner { return &Runner{kind: kind} }

func (r *Runner) Kind() Kind { return r.kind }

// Step fills rgb (3*NumLEDs) with the next pattern frame; returns false
// when the pattern is complete.
func (r *Runner) Step(rgb []byte) bool {
	for i := range rgb {
		rgb[i] = 0
	}

	switch r.kind {
	case IndexSweep:
		// one white ball walking the strip, exposes wiring order
		idx := r.step
		if idx >= geometry.NumLEDs {
			return false
		}
		rgb[idx*3], rgb[idx*3+1], rgb[idx*3+2] = 255, 255, 255
	case RGBChannels:
		// full-strip R, then G, then B, exposes channel order
		if r.step >= 3 {
			return false
		}
		for i := 0; i < geometry.NumLEDs; i++ {
			rgb[i*3+r.step] = 255
		}
	case RowSweep:
		// one grid row at a time in cyan, exposes the geometry table
		row := r.step
		if row >= geometry.Rows {
			return false
		}
		for col := 0; col < geometry.Cols; col++ {
			if idx, ok := geometry.Index(row, col); ok {
				rgb[idx*3+1], rgb[idx*3+2] = 255, 255
			}
		}
	default:
		return false
	}
	r.step++
	return true
}
