package render

import "github.com/mazzolab/pingpongclock/internal/geometry"

// Spawn thresholds for the 8-bit per-frame draws.
const (
	twinkleSpawnChance  = 96  // ~37.5%
	rainSpawnChance     = 200 // ~78%
	fireworkSpawnChance = 24  // ~9.4%

	// lightningDie controls the raindrop-to-lightning draw: a drop becomes
	// lightning only when Intn(lightningDie) draws the top face, 1 in 20.
	lightningDie = 20

	fireworkStartStage = 24
)

// twinkle fades a single white pixel from stage 16 down to 0.
type twinkle struct {
	pos   int // strip index, -1 when the slot is free
	stage int
}

// raindrop walks the grid top to bottom with ±1 drift, or flashes a
// 6-row lightning path. trail holds columns for rain and strip indices for
// lightning; the final rain step writes trail[6].
type raindrop struct {
	col       int // spawn column, -1 when the slot is free
	stage     int
	lightning bool
	trail     [7]int
}

// firework runs a 24-step countdown: launch streak, 6-point burst, expanded
// burst, brightness fade.
type firework struct {
	col   int // launch column in the bottom row, -1 when the slot is free
	stage int
	dir   int // 0 bursts left, 1 bursts right
	hue   uint8
	lift  int // raises the burst center by one row half the time
}

func (e *Engine) renderBackground() {
	switch e.bg.Mode {
	case BGNone:
		e.clear()
	case BGSolid:
		e.bgSolid()
	case BGRainbow:
		e.bgRainbow()
	case BGTwinkle:
		e.clear()
		e.bgTwinkle()
	case BGFireworks:
		e.clear()
		e.bgFirework()
	case BGThunderstorm:
		e.clear()
		e.bgRain()
	case BGFirepit:
		e.clear()
		e.bgFirepit()
	}
}

func (e *Engine) bgSolid() {
	for i := range e.buf {
		e.buf[i] = e.bg.Color
	}
}

func (e *Engine) bgRainbow() {
	for i := range e.buf {
		e.buf[i] = e.rainbowAt(i)
	}
}

func (e *Engine) bgTwinkle() {
	slot := -1
	for i := range e.twinkles {
		if e.twinkles[i].pos == -1 {
			slot = i
			break
		}
	}
	if e.rand8() < twinkleSpawnChance && slot != -1 {
		e.twinkles[slot].pos = e.rng.Intn(geometry.NumLEDs)
		e.twinkles[slot].stage = 16
	}

	for i := range e.twinkles {
		tw := &e.twinkles[i]
		if tw.pos == -1 || tw.stage <= 0 {
			continue
		}
		v := uint8(8 * tw.stage)
		e.setLED(tw.pos, Color{v, v, v})
		tw.stage--
		if tw.stage == 0 {
			tw.pos = -1
		}
	}
}

func (e *Engine) bgRain() {
	// static cloud band across the top two rows
	for col := 3; col < geometry.Cols; col++ {
		e.setCell(0, col, Gray)
	}
	for col := 2; col < geometry.Cols; col++ {
		e.setCell(1, col, HSV(0, 0, uint8(e.rand8In(64, 128))))
	}

	slot := -1
	for i := range e.raindrops {
		if e.raindrops[i].col == -1 {
			slot = i
			break
		}
	}
	if e.rand8() < rainSpawnChance && slot != -1 {
		d := &e.raindrops[slot]
		d.col = e.rand8In(3, 21)
		d.stage = 1
		d.lightning = e.rng.Intn(lightningDie) == lightningDie-1
		d.trail[0] = d.col
	}

	for i := range e.raindrops {
		d := &e.raindrops[i]
		if d.col == -1 || d.stage <= 0 {
			continue
		}
		switch {
		case d.lightning && d.stage == 1:
			// strike: pick a jagged 6-row path and flash it
			x := d.col
			for row := 1; row <= 6; row++ {
				x -= e.rng.Intn(2)
				if x < 0 || x >= geometry.Cols {
					x = 0
				}
				if idx, ok := geometry.Index(row, x); ok {
					e.setLED(idx, Yellow)
					d.trail[row-1] = idx
				}
			}
		case d.lightning && d.stage > 1 && d.stage < 7:
			// hold the flash
			for j := 0; j < 6; j++ {
				e.setLED(d.trail[j], Yellow)
			}
		default:
			x := d.trail[d.stage-1] - e.rng.Intn(2)
			if x < 0 || x >= geometry.Cols {
				x = 0
			}
			d.trail[d.stage] = x
			if idx, ok := geometry.Index(d.stage, x); ok {
				e.setLED(idx, HSV(HueBlue, 255, 128))
			} else {
				// drifted onto a dead cell; retire on the next advance
				d.stage = 6
			}
		}

		d.stage++
		if d.stage == 7 {
			if d.lightning {
				for j := 0; j < 6; j++ {
					e.setLED(d.trail[j], Black)
				}
			}
			d.col = -1
		}
	}
}

func (e *Engine) bgFirework() {
	slot := -1
	for i := range e.fireworks {
		if e.fireworks[i].col == -1 {
			slot = i
			break
		}
	}
	if e.rand8() < fireworkSpawnChance && slot != -1 {
		f := &e.fireworks[slot]
		f.col = e.rand8In(3, 14)
		f.stage = fireworkStartStage
		f.dir = e.rng.Intn(2)
		f.hue = e.rand8()
		f.lift = e.rng.Intn(2)
	}

	for i := range e.fireworks {
		f := &e.fireworks[i]
		if f.col == -1 || f.stage <= 0 {
			continue
		}
		// burst center
		row := 2 + f.lift
		x := f.col + 4*f.dir

		switch {
		case f.stage == fireworkStartStage:
			e.setCell(6, f.col, White)
		case f.stage >= 20+f.lift:
			// launch streak: white head one row up, black trail behind
			level := 6 - (fireworkStartStage - f.stage)
			e.setCell(level, f.col+(6-level)*f.dir, White)
			e.setCell(level+1, f.col+(6-level+1)*f.dir, Black)
		case f.stage == 18 || f.stage == 17:
			c := HSV(f.hue, 255, 255)
			e.setCell(row, x, Black)
			e.setCell(row-1, x+1, c)
			e.setCell(row, x+1, c)
			e.setCell(row+1, x, c)
			e.setCell(row+1, x-1, c)
			e.setCell(row, x-1, c)
			e.setCell(row-1, x, c)
		case f.stage == 16:
			// inner ring collapses, outer ring ignites
			e.setCell(row, x, Black)
			e.setCell(row-1, x+1, Black)
			e.setCell(row, x+1, Black)
			e.setCell(row+1, x, Black)
			e.setCell(row+1, x-1, Black)
			e.setCell(row, x-1, Black)
			e.setCell(row-1, x, Black)

			c := HSV(f.hue, 255, 255)
			e.setCell(row-2, x+2, c)
			e.setCell(row, x+2, c)
			e.setCell(row+2, x, c)
			e.setCell(row+2, x-2, c)
			e.setCell(row, x-2, c)
			e.setCell(row-2, x, c)
		default:
			// outer ring fade; 16*stage wraps in uint8 above stage 15
			c := HSV(f.hue, 255, uint8(16*f.stage))
			e.setCell(row-2, x+2, c)
			e.setCell(row, x+2, c)
			e.setCell(row+2, x, c)
			e.setCell(row+2, x-2, c)
			e.setCell(row, x-2, c)
			e.setCell(row-2, x, c)
		}

		f.stage--
		if f.stage == 0 {
			f.col = -1
		}
	}
}

// bgFirepit relights the bottom four rows every frame with flickering
// red-orange, dimming with distance from the bottom. No persistent state.
func (e *Engine) bgFirepit() {
	for row := 6; row > 2; row-- {
		depth := 6 - row
		for col := 0; col < 17+depth; col++ {
			v := uint8(e.rand8In(192-depth*64, 255-depth*64))
			e.setCell(row, col, HSV(HueRed+uint8(e.rng.Intn(8)), 255, v))
		}
	}
}
