package render

import (
	"math"
	"time"

	"github.com/mazzolab/pingpongclock/internal/geometry"
)

func (e *Engine) renderFrame(now time.Time) {
	switch e.fr.Mode {
	case FRSolid:
		e.frSolid()
	case FRTime:
		e.frTime(now.Second())
	}
}

func (e *Engine) frSolid() {
	for _, idx := range geometry.FramePath {
		e.setLED(idx, e.fr.Color)
	}
}

// frTime lights a prefix of the border path proportional to the current
// second, sweeping the full loop over one minute.
func (e *Engine) frTime(second int) {
	n := len(geometry.FramePath)
	length := int(math.Round(float64(second) * float64(n) / 59))
	if length < 0 {
		length = 0
	} else if length > n {
		length = n
	}
	for i := 0; i < length; i++ {
		e.setLED(geometry.FramePath[i], e.fr.Color)
	}
}
