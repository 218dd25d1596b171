// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

// ErrNoGlyph is returned for a rune that has no 7-segment representation.
var ErrNoGlyph = errors.New("no segment glyph")

// Segment bits, TM1637 order: a is the top bar, g the middle one.
const (
	segA byte = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

// glyphs maps runes to segment patterns. Lower and upper case share a
// pattern where a 7-segment display can only draw one of them.
var glyphs = map[rune]byte{
	0:   0x00,
	' ': 0x00,
	'0': 0x3F,
	'1': 0x06,
	'2': 0x5B,
	'3': 0x4F,
	'4': 0x66,
	'5': 0x6D,
	'6': 0x7D,
	'7': 0x07,
	'8': 0x7F,
	'9': 0x6F,
	'A': 0x77,
	'B': 0x7C,
	'C': 0x39,
	'D': 0x5E,
	'E': 0x79,
	'F': 0x71,
	'G': 0x3D,
	'H': 0x76,
	'I': 0x30,
	'J': 0x1E,
	'L': 0x38,
	'M': 0x37, // drawn like an upper case N
	'N': 0x54,
	'O': 0x3F,
	'P': 0x73,
	'R': 0x50,
	'S': 0x6D,
	'T': 0x78,
	'U': 0x3E,
	'V': 0x3E,
	'Y': 0x6E,
	'-': segG,
	'_': segD,
	'°': segA | segB | segF | segG,
}

// Segments encodes a field into one segment byte per cell.
func Segments(f display.Field) ([]byte, error) {
	out := make([]byte, len(f))
	for i, r := range f {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		seg, ok := glyphs[r]
		if !ok {
			return nil, fmt.Errorf("cell %d %q: %w", i, r, ErrNoGlyph)
		}
		out[i] = seg
	}
	return out, nil
}
