// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "time"

// KnotsToMPS converts knots to meters per second.
const KnotsToMPS = 1852.0 / 3600.0

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
type Fix struct {
	At         time.Time `json:"at"`          // when the producer assembled the fix
	Time       string    `json:"time"`        // receiver UTC time, e.g. "12:34:56.0000"
	Date       string    `json:"date"`        // receiver date
	Latitude   float64   `json:"lat"`         // decimal degrees
	Longitude  float64   `json:"lon"`         // decimal degrees
	Altitude   float64   `json:"alt_m"`       // above mean sea level, from GGA
	SpeedKnots float64   `json:"speed_knots"` // speed over ground
	CourseDeg  float64   `json:"course_deg"`  // course over ground
	Validity   string    `json:"validity"`    // "A" (valid) / "V" (void), etc.
	Quality    string    `json:"quality"`     // GGA fix quality, "0" when invalid
	Satellites int64     `json:"satellites"`
	HasAlt     bool      `json:"has_alt"`
}

// SpeedMPS returns the ground speed in meters per second.
func (f Fix) SpeedMPS() float64 {
	return f.SpeedKnots * KnotsToMPS
}

// Valid reports whether the receiver marked the position as usable.
func (f Fix) Valid() bool {
	return f.Validity == "A" || (f.Quality != "" && f.Quality != "0")
}
