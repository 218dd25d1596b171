// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import "time"

// Sample represents a single environmental measurement (BMP).
type Sample struct {
	At time.Time `json:"at"`

	Temperature float64 `json:"temp_c"`      // °C
	Pressure    float64 `json:"pressure_pa"` // Pa
}

// PressureHPa returns the pressure in hectopascals (millibars).
func (s Sample) PressureHPa() float64 {
	return s.Pressure / 100.0
}
