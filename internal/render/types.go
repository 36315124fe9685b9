package render

import "strings"

// Driver abstracts the LED output sink. len(rgb) is always 3*geometry.NumLEDs.
type Driver interface {
	Write(rgb []byte) error
}

// ForegroundMode selects what the digit layer draws.
type ForegroundMode int

const (
	FGNone ForegroundMode = iota
	FGTime
	FGTimeRainbow
	FGCycle
)

// BackgroundMode selects the animation behind the digits.
type BackgroundMode int

const (
	BGNone BackgroundMode = iota
	BGSolid
	BGRainbow
	BGTwinkle
	BGFireworks
	BGThunderstorm
	BGFirepit
)

// FrameMode selects what the border ring draws.
type FrameMode int

const (
	FRNone FrameMode = iota
	FRSolid
	FRTime
)

// Severity grades a warning slot.
type Severity uint8

const (
	SevNone Severity = iota
	SevWarning
	SevError
)

// Foreground, Frame and Background group each layer's configuration.
// They are read once per frame by the corresponding renderer.
type Foreground struct {
	Mode    ForegroundMode
	Color   Color
	Slanted bool
}

type Frame struct {
	Mode  FrameMode
	Color Color
}

type Background struct {
	Mode  BackgroundMode
	Color Color
}

func (m ForegroundMode) String() string {
	switch m {
	case FGTime:
		return "time"
	case FGTimeRainbow:
		return "rainbow"
	case FGCycle:
		return "cycle"
	default:
		return "none"
	}
}

func (m BackgroundMode) String() string {
	switch m {
	case BGSolid:
		return "solid"
	case BGRainbow:
		return "rainbow"
	case BGTwinkle:
		return "twinkle"
	case BGFireworks:
		return "fireworks"
	case BGThunderstorm:
		return "thunderstorm"
	case BGFirepit:
		return "firepit"
	default:
		return "none"
	}
}

func (m FrameMode) String() string {
	switch m {
	case FRSolid:
		return "solid"
	case FRTime:
		return "time"
	default:
		return "none"
	}
}

// ParseForegroundMode accepts the long names above or the single-letter
// codes used by the IR remote.
func ParseForegroundMode(s string) (ForegroundMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return FGNone, true
	case "time", "t":
		return FGTime, true
	case "rainbow", "r":
		return FGTimeRainbow, true
	case "cycle", "c":
		return FGCycle, true
	}
	return FGNone, false
}

func ParseBackgroundMode(s string) (BackgroundMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n", "b":
		return BGNone, true
	case "solid", "s":
		return BGSolid, true
	case "rainbow", "r":
		return BGRainbow, true
	case "twinkle", "t":
		return BGTwinkle, true
	case "fireworks", "f":
		return BGFireworks, true
	case "thunderstorm", "rain", "w":
		return BGThunderstorm, true
	case "firepit", "h":
		return BGFirepit, true
	}
	return BGNone, false
}

func ParseFrameMode(s string) (FrameMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return FRNone, true
	case "solid", "s":
		return FRSolid, true
	case "time", "t":
		return FRTime, true
	}
	return FRNone, false
}
