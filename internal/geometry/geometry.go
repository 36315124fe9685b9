// Package geometry holds the fixed lookup tables that describe the physical
// wiring of the 128-ball parallelogram display: the row/column grid, the
// digit glyphs, the border frame path and the warning indicator addresses.
//
// The values encode a specific build and must not be tweaked; every
// animation's visual correctness depends on them.
package geometry

const (
	// NumLEDs is the strip length.
	NumLEDs = 128
	// Rows and Cols span the diagonal grid the animations walk.
	Rows = 7
	Cols = 20
	// NoLED marks grid cells with no physical ball behind them.
	NoLED = 999
)

// grid maps (row, col) to a strip index. Imagining the display as a
// parallelogram slanted to the left, each row walks the diagonals:
//
//	      / 012 013 ...
//	    / 001 011   ...
//	  / 002 010 015 ...
//	< 000 003 009   ...
//	  \ 004 008 017 ...
//	    \ 005 007   ...
//	      \ 006 019 ...
var grid = [Rows][Cols]int{
	{999, 999, 999, 12, 13, 26, 27, 40, 41, 54, 55, 68, 69, 82, 83, 96, 97, 110, 111, 124},
	{999, 999, 1, 11, 14, 25, 28, 39, 42, 53, 56, 67, 70, 81, 84, 95, 98, 109, 112, 123},
	{999, 2, 10, 15, 24, 29, 38, 43, 52, 57, 66, 71, 80, 85, 94, 99, 108, 113, 122, 125},
	{0, 3, 9, 16, 23, 30, 37, 44, 51, 58, 65, 72, 79, 86, 93, 100, 107, 114, 121, 126},
	{4, 8, 17, 22, 31, 36, 45, 50, 59, 64, 73, 78, 87, 92, 101, 106, 115, 120, 127, 999},
	{5, 7, 18, 21, 32, 35, 46, 49, 60, 63, 74, 77, 88, 91, 102, 105, 116, 119, 999, 999},
	{6, 19, 20, 33, 34, 47, 48, 61, 62, 75, 76, 89, 90, 103, 104, 117, 118, 999, 999, 999},
}

// Index maps a grid coordinate to a strip index. ok is false for
// out-of-range coordinates and for cells with no physical LED.
func Index(row, col int) (int, bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return 0, false
	}
	idx := grid[row][col]
	if idx == NoLED {
		return 0, false
	}
	return idx, true
}

// Digits holds the strip-index offsets that form each glyph, relative to a
// digit origin at the leftmost position.
var Digits = [10][]int{
	{7, 8, 10, 11, 14, 18, 22, 24},
	{14, 15, 16, 17, 18},
	{7, 8, 9, 11, 14, 16, 18, 24},
	{7, 9, 11, 14, 16, 18, 22, 24},
	{9, 10, 11, 16, 18, 22, 24},
	{7, 9, 10, 11, 14, 16, 18, 22},
	{7, 8, 9, 14, 15, 16, 18, 22},
	{7, 11, 14, 16, 17, 24},
	{7, 8, 9, 10, 11, 14, 16, 18, 22, 24},
	{7, 9, 10, 11, 14, 16, 17, 24},
}

// SlantDigits is the slanted glyph variant. Offsets are referenced one place
// to the right of the plain set (not every slanted digit fits at leftmost),
// so callers subtract SlantShift from the translated index.
var SlantDigits = [10][]int{
	{39, 42, 53, 52, 44, 45, 35, 32, 21, 31, 30, 38},
	{35, 45, 44, 52, 53},
	{39, 42, 53, 52, 44, 37, 30, 31, 21, 32, 35},
	{39, 42, 53, 52, 44, 37, 30, 45, 35, 32, 21},
	{39, 38, 30, 37, 44, 52, 53, 45, 35},
	{53, 42, 39, 38, 30, 37, 44, 45, 35, 32, 21},
	{53, 42, 39, 38, 30, 37, 44, 45, 35, 32, 21, 31},
	{39, 42, 53, 52, 44, 45, 35, 38},
	{53, 42, 39, 38, 30, 37, 44, 45, 35, 32, 21, 31, 52},
	{53, 42, 39, 38, 30, 37, 44, 45, 35, 32, 21, 52},
}

// SlantShift is the origin correction applied to slanted glyph offsets.
const SlantShift = 28

// ClockOrigins are the four digit origins for HH:MM display.
var ClockOrigins = [4]int{0, 28, 70, 98}

// NumberOrigins are the digit origins for plain 4-digit numbers, where
// leading zeros are suppressed.
var NumberOrigins = [4]int{14, 42, 70, 98}

// Colon tick indices, lit on even seconds. The lower dot moves with the
// slanted glyph set.
const (
	ColonUpper      = 66
	ColonLowerPlain = 64
	ColonLowerSlant = 59
)

// FramePath walks the display border in sweep order. The time-proportional
// frame mode lights a prefix of this sequence.
var FramePath = [44]int{
	68, 69, 82, 83, 96, 97, 110, 111, 124,
	123, 125, 126, 127, 119,
	118, 117, 104, 103, 90, 89, 76, 75, 62, 61, 48, 47, 34, 33, 20, 19, 6,
	5, 4, 0, 2, 1,
	12, 13, 26, 27, 40, 41, 54, 55,
}

// WarningAddr binds each warning slot to a corner ball: top-left, top-right,
// bottom-left, bottom-right.
var WarningAddr = [4]int{12, 124, 6, 118}
