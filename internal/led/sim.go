package led

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sim discards frames, logging a compact summary now and then. Useful for
// headless runs and as the fallback when hardware init fails.
type Sim struct {
	frames   uint64
	logEvery uint64
}

// NewSim returns a sim driver that logs one summary line per logEvery
// frames (0 disables logging).
func NewSim(logEvery uint64) *Sim {
	return &Sim{logEvery: logEvery}
}

func (s *Sim) Write(rgb []byte) error {
	s.frames++
	if s.logEvery == 0 || s.frames%s.logEvery != 0 {
		return nil
	}
	var sum, lit int
	for i := 0; i+2 < len(rgb); i += 3 {
		px := int(rgb[i]) + int(rgb[i+1]) + int(rgb[i+2])
		sum += px
		if px > 0 {
			lit++
		}
	}
	n := len(rgb) / 3
	if n == 0 {
		n = 1
	}
	log.Debug().
		Uint64("frame", s.frames).
		Int("lit", lit).
		Str("avg", fmt.Sprintf("%.1f", float64(sum)/float64(n))).
		Msg("sim frame")
	return nil
}

func (s *Sim) Close() error { return nil }
