// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import "time"

// Clock supplies a millisecond counter. The counter may wrap around at 2^32.
type Clock interface {
	Millis() uint32
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Reached reports whether now is at or past deadline. The comparison is done
// on the difference so it holds across a counter wrap, as long as the two
// values are less than 2^31 ms apart.
func Reached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}
