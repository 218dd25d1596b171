// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp limits v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bounded maps NaN to 0 and clamps everything else, infinities included, to [lo, hi].
func bounded(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, lo, hi)
}
