package render

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mazzolab/pingpongclock/internal/geometry"
)

// Particle pool capacities. Spawns silently no-op when a pool is full.
const (
	maxTwinkles  = 8
	maxRaindrops = 16
	maxFireworks = 5
)

// DefaultRefreshHz is the stock refresh rate of the physical build.
const DefaultRefreshHz = 20

// Engine owns the LED buffer and composites the three layers plus the
// warning overlay into it once per frame, then flushes to the driver.
//
// Setters may be called from any goroutine; they take effect on the next
// Update. All state is guarded by mu so a control surface and the render
// loop can share one Engine.
type Engine struct {
	mu  sync.Mutex
	drv Driver
	rng *rand.Rand

	now    func() time.Time
	millis func() int64

	refreshHz int
	frameMS   int64
	prevMS    int64
	started   bool

	buf [geometry.NumLEDs]Color
	out []byte

	fg Foreground
	fr Frame
	bg Background

	brightness uint8
	whiteCap   float64

	// shared slow hue clock for the rainbow layers
	hue        uint8
	hueSat     uint8
	hueVal     uint8
	hueCounter int

	cycleCounter int

	twinkles  [maxTwinkles]twinkle
	raindrops [maxRaindrops]raindrop
	fireworks [maxFireworks]firework

	warnings [len(geometry.WarningAddr)]Severity

	tap func(rgb []byte)
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock overrides the wall-clock source used for the time display.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// WithMillis overrides the monotonic millisecond counter that gates the
// refresh rate.
func WithMillis(fn func() int64) Option {
	return func(e *Engine) { e.millis = fn }
}

// WithRefreshRate sets the target refresh rate in Hz.
func WithRefreshRate(hz int) Option {
	return func(e *Engine) {
		if hz > 0 {
			e.refreshHz = hz
		}
	}
}

// WithRandSeed makes the animation RNG deterministic.
func WithRandSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithFrameTap registers a callback that receives every flushed frame
// (after brightness scaling), e.g. for a preview stream. The slice is only
// valid for the duration of the call.
func WithFrameTap(fn func(rgb []byte)) Option {
	return func(e *Engine) { e.tap = fn }
}

// WithWhiteCap limits per-LED R+G+B to cap*3*255 at flush time, 0<cap<1.
func WithWhiteCap(frac float64) Option {
	return func(e *Engine) { e.whiteCap = frac }
}

// New returns an Engine with the stock defaults: single-colour time in
// Snow over a DarkBlue solid background, frame off, brightness 100.
func New(drv Driver, opts ...Option) *Engine {
	base := time.Now()
	e := &Engine{
		drv:       drv,
		rng:       rand.New(rand.NewSource(base.UnixNano())),
		now:       time.Now,
		millis:    func() int64 { return time.Since(base).Milliseconds() },
		refreshHz: DefaultRefreshHz,
		out:       make([]byte, 3*geometry.NumLEDs),

		fg: Foreground{Mode: FGTime, Color: Snow},
		fr: Frame{Mode: FRNone, Color: DarkOrange},
		bg: Background{Mode: BGSolid, Color: DarkBlue},

		brightness: 100,
		hue:        64,
		hueSat:     255,
		hueVal:     190,
	}
	for i := range e.twinkles {
		e.twinkles[i].pos = -1
	}
	for i := range e.raindrops {
		e.raindrops[i].col = -1
	}
	for i := range e.fireworks {
		e.fireworks[i].col = -1
	}
	for _, opt := range opts {
		opt(e)
	}
	e.frameMS = int64(1000 / e.refreshHz)
	return e
}

// SetForegroundMode selects the digit layer mode and glyph variant.
func (e *Engine) SetForegroundMode(mode ForegroundMode, slanted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fg.Mode = mode
	e.fg.Slanted = slanted
}

func (e *Engine) SetForegroundColor(c Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fg.Color = c
}

func (e *Engine) SetBackgroundMode(mode BackgroundMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bg.Mode = mode
}

func (e *Engine) SetBackgroundColor(c Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bg.Color = c
}

func (e *Engine) SetFrameMode(mode FrameMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fr.Mode = mode
}

func (e *Engine) SetFrameColor(c Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fr.Color = c
}

// SetBrightness scales all output channels by scale/255 at flush time.
func (e *Engine) SetBrightness(scale uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = scale
}

// SetWarning updates one status indicator. ok clears the slot; otherwise
// level grades it. Out-of-range slots are ignored.
func (e *Engine) SetWarning(slot int, ok bool, level Severity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if slot < 0 || slot >= len(e.warnings) {
		return
	}
	if ok {
		e.warnings[slot] = SevNone
		return
	}
	e.warnings[slot] = level
}

// SetFrameTap replaces the frame tap. A nil fn disables it.
func (e *Engine) SetFrameTap(fn func(rgb []byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tap = fn
}

// Config reports the current layer configuration.
func (e *Engine) Config() (Foreground, Frame, Background, uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fg, e.fr, e.bg, e.brightness
}

// Buffer returns a copy of the last composed frame, pre-brightness.
func (e *Engine) Buffer() []Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Color, len(e.buf))
	copy(out[:], e.buf[:])
	return out
}

// Update runs the layer pipeline and flushes one frame, rate-limited to the
// configured refresh rate: calls inside the frame interval return false
// without touching the buffer. The returned error comes from the driver.
func (e *Engine) Update() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.millis()
	if e.started && cur-e.prevMS <= e.frameMS {
		return false, nil
	}
	e.started = true
	e.prevMS = cur

	now := e.now()

	// one shared hue step per frame, no matter how many layers consume it
	if e.bg.Mode == BGRainbow || e.fg.Mode == FGTimeRainbow || e.fg.Mode == FGCycle {
		e.advanceHuePhase()
	}

	e.renderBackground()
	e.renderFrame(now)
	e.renderForeground(now)
	e.renderWarnings()

	return true, e.flush()
}

func (e *Engine) clear() {
	for i := range e.buf {
		e.buf[i] = Black
	}
}

// setLED writes one pixel, silently dropping out-of-range indices so
// shifted glyphs and clamped particles fail open.
func (e *Engine) setLED(idx int, c Color) {
	if idx < 0 || idx >= len(e.buf) {
		return
	}
	e.buf[idx] = c
}

// setCell writes one grid cell, dropping sentinel and off-grid coordinates.
func (e *Engine) setCell(row, col int, c Color) {
	if idx, ok := geometry.Index(row, col); ok {
		e.buf[idx] = c
	}
}

// advanceHuePhase steps the shared hue clock: +1 every refreshHz/4 frames,
// wrapping mod 256.
func (e *Engine) advanceHuePhase() {
	e.hueCounter++
	if e.hueCounter >= e.refreshHz/4 {
		e.hue++
		e.hueCounter = 0
	}
}

// rainbowAt resolves the shared rainbow palette at a strip index.
func (e *Engine) rainbowAt(idx int) Color {
	return HSV(e.hue+uint8(idx), e.hueSat, e.hueVal)
}

func (e *Engine) renderWarnings() {
	for i, sev := range e.warnings {
		switch sev {
		case SevWarning:
			e.setLED(geometry.WarningAddr[i], DarkOrange)
		case SevError:
			e.setLED(geometry.WarningAddr[i], Red)
		}
	}
}

func (e *Engine) flush() error {
	for i, c := range e.buf {
		if e.brightness != 255 {
			c = c.Scale(e.brightness)
		}
		e.out[3*i] = c.R
		e.out[3*i+1] = c.G
		e.out[3*i+2] = c.B
	}
	if e.whiteCap > 0 && e.whiteCap < 1 {
		applyWhiteCap(e.out, e.whiteCap)
	}
	if e.tap != nil {
		e.tap(e.out)
	}
	if e.drv == nil {
		return nil
	}
	return e.drv.Write(e.out)
}

// applyWhiteCap scales each pixel so R+G+B <= frac*3*255.
func applyWhiteCap(rgb []byte, frac float64) {
	limit := frac * 3 * 255
	for i := 0; i+2 < len(rgb); i += 3 {
		s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
		if s <= limit || s == 0 {
			continue
		}
		scale := limit / s
		rgb[i] = uint8(float64(rgb[i]) * scale)
		rgb[i+1] = uint8(float64(rgb[i+1]) * scale)
		rgb[i+2] = uint8(float64(rgb[i+2]) * scale)
	}
}

// rand8 draws a uniform uint8.
func (e *Engine) rand8() uint8 {
	return uint8(e.rng.Intn(256))
}

// rand8In draws from [lo, hi).
func (e *Engine) rand8In(lo, hi int) int {
	return lo + e.rng.Intn(hi-lo)
}
