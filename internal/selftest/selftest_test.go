package selftest

import (
	"testing"

	"github.com/mazzolab/pingpongclock/internal/geometry"
)

func TestIndexSweepVisitsEveryLEDOnce(t *testing.T) {
	r := NewRunner(IndexSweep)
	rgb := make([]byte, 3*geometry.NumLEDs)
	visited := map[int]bool{}
	for r.Step(rgb) {
		lit := -1
		for i := 0; i < geometry.NumLEDs; i++ {
			if rgb[i*3] > 0 {
				if lit != -1 {
					t.Fatal("more than one LED lit in a sweep frame")
				}
				lit = i
			}
		}
		if lit == -1 {
			t.Fatal("sweep frame lit nothing")
		}
		visited[lit] = true
	}
	if len(visited) != geometry.NumLEDs {
		t.Fatalf("sweep visited %d LEDs, want %d", len(visited), geometry.NumLEDs)
	}
}

func TestRGBChannelsRunsThreeFrames(t *testing.T) {
	r := NewRunner(RGBChannels)
	rgb := make([]byte, 3*geometry.NumLEDs)
	frames := 0
	for r.Step(rgb) {
		frames++
		ch := frames - 1
		for i := 0; i < geometry.NumLEDs; i++ {
			if rgb[i*3+ch] != 255 {
				t.Fatalf("frame %d: LED %d channel %d not lit", frames, i, ch)
			}
		}
	}
	if frames != 3 {
		t.Fatalf("rgb test ran %d frames, want 3", frames)
	}
}

func TestRowSweepCoversWholeGrid(t *testing.T) {
	r := NewRunner(RowSweep)
	rgb := make([]byte, 3*geometry.NumLEDs)
	lit := map[int]bool{}
	frames := 0
	for r.Step(rgb) {
		frames++
		for i := 0; i < geometry.NumLEDs; i++ {
			if rgb[i*3+1] > 0 {
				lit[i] = true
			}
		}
	}
	if frames != geometry.Rows {
		t.Fatalf("row sweep ran %d frames, want %d", frames, geometry.Rows)
	}
	if len(lit) != geometry.NumLEDs {
		t.Fatalf("row sweep lit %d LEDs total, want %d", len(lit), geometry.NumLEDs)
	}
}

func TestUnknownKindCompletesImmediately(t *testing.T) {
	r := NewRunner(Kind("bogus"))
	rgb := make([]byte, 3*geometry.NumLEDs)
	if r.Step(rgb) {
		t.Fatal("unknown pattern should complete immediately")
	}
}
