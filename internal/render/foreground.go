package render

import (
	"time"

	"github.com/mazzolab/pingpongclock/internal/geometry"
)

func (e *Engine) renderForeground(now time.Time) {
	switch e.fg.Mode {
	case FGTime, FGTimeRainbow:
		e.drawClock(now.Hour(), now.Minute(), now.Second())
	case FGCycle:
		c := e.cycleCounter
		e.drawNumber(c/1000%10, c/100%10, c/10%10, c%10)
		e.cycleCounter++
		if e.cycleCounter >= 10000 {
			e.cycleCounter = 0
		}
	}
}

// drawClock renders HH:MM at the four fixed origins with a colon tick on
// even seconds.
func (e *Engine) drawClock(hour, minute, second int) {
	e.drawDigit(hour/10, geometry.ClockOrigins[0])
	e.drawDigit(hour%10, geometry.ClockOrigins[1])
	e.drawDigit(minute/10, geometry.ClockOrigins[2])
	e.drawDigit(minute%10, geometry.ClockOrigins[3])

	if second%2 == 0 {
		e.setLED(geometry.ColonUpper, e.fgPalette(geometry.ColonUpper))
		lower := geometry.ColonLowerPlain
		if e.fg.Slanted {
			lower = geometry.ColonLowerSlant
		}
		e.setLED(lower, e.fgPalette(lower))
	}
}

// drawNumber renders a 4-digit number with leading zeros suppressed.
func (e *Engine) drawNumber(d3, d2, d1, d0 int) {
	n := d3*1000 + d2*100 + d1*10 + d0
	if n >= 1000 {
		e.drawDigit(d3, geometry.NumberOrigins[0])
	}
	if n >= 100 {
		e.drawDigit(d2, geometry.NumberOrigins[1])
	}
	if n >= 10 {
		e.drawDigit(d1, geometry.NumberOrigins[2])
	}
	e.drawDigit(d0, geometry.NumberOrigins[3])
}

// drawDigit writes one glyph at the given origin using the active variant.
// Digits outside 0..9 are dropped.
func (e *Engine) drawDigit(num, origin int) {
	if num < 0 || num > 9 {
		return
	}
	if e.fg.Slanted {
		for _, off := range geometry.SlantDigits[num] {
			idx := off + origin - geometry.SlantShift
			if idx < 7 {
				// hand-tuned wiring correction near the strip start
				idx++
			}
			if idx >= 0 && idx < geometry.NumLEDs {
				e.buf[idx] = e.fgPalette(idx)
			}
		}
		return
	}
	for _, off := range geometry.Digits[num] {
		idx := off + origin
		e.setLED(idx, e.fgPalette(idx))
	}
}

// fgPalette resolves the foreground color at a strip index: the shared
// rainbow for the cycling modes, the flat layer color otherwise.
func (e *Engine) fgPalette(idx int) Color {
	if idx < 0 || idx >= geometry.NumLEDs {
		return Black
	}
	if e.fg.Mode == FGTimeRainbow || e.fg.Mode == FGCycle {
		return e.rainbowAt(idx)
	}
	return e.fg.Color
}
