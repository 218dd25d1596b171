// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

// Category is one of the telemetry topics the display cycles through.
type Category int

const (
	Altitude Category = iota
	VerticalSpeed
	HorizontalSpeed
	Temperature
	Latitude
	Longitude

	numCategories
)

var categoryNames = [numCategories]string{
	Altitude:        "altitude",
	VerticalSpeed:   "vertical_speed",
	HorizontalSpeed: "horizontal_speed",
	Temperature:     "temperature",
	Latitude:        "latitude",
	Longitude:       "longitude",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Next returns the category that follows c in the display cycle.
func (c Category) Next() Category {
	return (c + 1) % numCategories
}

// HasSecondScreen reports whether the category uses Display2.
func (c Category) HasSecondScreen() bool {
	switch c {
	case Altitude, Latitude, Longitude:
		return true
	}
	return false
}

// Phase is the screen shown within a category.
type Phase int

const (
	Label Phase = iota
	Display1
	Display2
)

func (p Phase) String() string {
	switch p {
	case Label:
		return "label"
	case Display1:
		return "display1"
	case Display2:
		return "display2"
	}
	return "unknown"
}
