// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math"
	"math/rand"
)

// Mock is a bench source. The first readings of each channel are fixed
// values that exercise the display edge cases (a latitude about to roll
// over, negative speeds, sub-zero temperatures); after that it returns
// random values. Altitude climbs and jumps to just below 10 km so both
// altitude screens get used. Not safe for concurrent use.
type Mock struct {
	rng *rand.Rand

	latitudes    []float64
	longitudes   []float64
	verticals    []float64
	horizontals  []float64
	temperatures []float64

	altitude float64
}

func NewMock(seed int64) *Mock {
	return &Mock{
		rng:          rand.New(rand.NewSource(seed)),
		latitudes:    []float64{39.99995, 39.99995},
		longitudes:   []float64{-105.2345, -105.2345},
		verticals:    []float64{-1.03},
		horizontals:  []float64{1.03},
		temperatures: []float64{0, -1.2, 1.2, -70, 70},
		altitude:     50,
	}
}

// unit returns a random value in [-0.5, 0.5).
func (m *Mock) unit() float64 {
	return m.rng.Float64() - 0.5
}

// scripted pops the next fixed value, or falls back to random.
func scripted(queue *[]float64, random func() float64) float64 {
	if len(*queue) == 0 {
		return random()
	}
	v := (*queue)[0]
	*queue = (*queue)[1:]
	return v
}

func (m *Mock) Latitude() float64 {
	return scripted(&m.latitudes, func() float64 { return m.unit() * 80 })
}

func (m *Mock) Longitude() float64 {
	return scripted(&m.longitudes, func() float64 { return m.unit() * 170 })
}

func (m *Mock) Altitude() float64 {
	if m.altitude > 120 && m.altitude < 200 {
		m.altitude = 9990
	}
	m.altitude += 1.5 + m.unit()
	return m.altitude
}

func (m *Mock) VerticalSpeed() float64 {
	return scripted(&m.verticals, func() float64 { return m.unit() * 50 })
}

func (m *Mock) HorizontalSpeed() float64 {
	return scripted(&m.horizontals, func() float64 { return math.Abs(m.unit() * 50) })
}

func (m *Mock) Temperature() float64 {
	return scripted(&m.temperatures, func() float64 { return m.unit() * 70 })
}
