// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// SeparatorGlyph stands in for the decimal point in speeds.
	SeparatorGlyph = '_'
	// DegreeGlyph follows the temperature.
	DegreeGlyph = '°'

	// overflowPattern is shown when a reading cannot be formatted.
	overflowPattern = "----"
)

// Input bounds applied before any digit is computed.
const (
	altitudeMin    = -999
	altitudeMax    = 999_999
	speedMin       = -999
	speedMax       = 9_999
	temperatureMin = -99
	temperatureMax = 999
	latitudeLimit  = 90
	longitudeLimit = 180
)

// screenKey addresses one row/column of the formatter table.
type screenKey struct {
	category Category
	phase    Phase
}

// screen describes how one (category, phase) is drawn. read takes the value
// from the controller (live sensor or latched snapshot); nil for labels.
type screen struct {
	read func(c *Controller) float64
	draw func(s Sink, v float64) error
}

var screens = map[screenKey]screen{
	{Altitude, Label}:    labelScreen("ALTI"),
	{Altitude, Display1}: {read: liveAltitude, draw: drawAltitudeHigh},
	{Altitude, Display2}: {read: liveAltitude, draw: drawAltitudeLow},

	{VerticalSpeed, Label}:    labelScreen("VERT"),
	{VerticalSpeed, Display1}: {read: func(c *Controller) float64 { return c.src.VerticalSpeed() }, draw: drawSpeed},

	{HorizontalSpeed, Label}:    labelScreen("HORI"),
	{HorizontalSpeed, Display1}: {read: func(c *Controller) float64 { return c.src.HorizontalSpeed() }, draw: drawSpeed},

	{Temperature, Label}:    labelScreen("TEMP"),
	{Temperature, Display1}: {read: func(c *Controller) float64 { return c.src.Temperature() }, draw: drawTemperature},

	{Latitude, Label}:    labelScreen("LATI"),
	{Latitude, Display1}: {read: func(c *Controller) float64 { return c.latitude }, draw: drawCoordinateWhole(latitudeLimit)},
	{Latitude, Display2}: {read: func(c *Controller) float64 { return c.latitude }, draw: drawCoordinateFraction(latitudeLimit)},

	{Longitude, Label}:    labelScreen("LONG"),
	{Longitude, Display1}: {read: func(c *Controller) float64 { return c.longitude }, draw: drawCoordinateWhole(longitudeLimit)},
	{Longitude, Display2}: {read: func(c *Controller) float64 { return c.longitude }, draw: drawCoordinateFraction(longitudeLimit)},
}

func labelScreen(text string) screen {
	return screen{draw: func(s Sink, _ float64) error {
		return s.ShowString(text, FieldWidth, 0)
	}}
}

func liveAltitude(c *Controller) float64 { return c.src.Altitude() }

// AltitudeParts splits an altitude into the digits above the last four and
// the last four digits.
func AltitudeParts(meters float64) (high, low int) {
	m := int(math.Floor(bounded(meters, altitudeMin, altitudeMax)))
	return m / 10000, m % 10000
}

func drawAltitudeHigh(s Sink, meters float64) error {
	high, _ := AltitudeParts(meters)
	if high < 10 {
		return s.ShowNumber(high, true, 1, FieldWidth-1)
	}
	return s.ShowNumber(high, true, 2, FieldWidth-2)
}

func drawAltitudeLow(s Sink, meters float64) error {
	high, low := AltitudeParts(meters)
	return s.ShowNumber(low, high > 0, FieldWidth, 0)
}

// FormatSpeed renders a speed as "<whole>_<fraction>". Fraction digits are
// dropped from the right until the text fits; whole digits never are.
func FormatSpeed(mps float64) (string, error) {
	v := bounded(mps, speedMin, speedMax)
	whole := math.Trunc(v)
	frac := clamp(math.Round(math.Abs((v-whole)*100)), 0, 99)

	w := strconv.Itoa(int(whole))
	if v < 0 && whole == 0 {
		w = "-" + w
	}
	digits := fmt.Sprintf("%02d", int(frac))
	for n := len(digits); n > 0; n-- {
		if s, err := fit(w + string(SeparatorGlyph) + digits[:n]); err == nil {
			return s, nil
		}
	}
	return fit(w)
}

func drawSpeed(s Sink, mps float64) error {
	text, err := FormatSpeed(mps)
	if err != nil {
		return err
	}
	return s.ShowString(text, FieldWidth, 0)
}

// FormatTemperature truncates toward zero and appends the degree glyph.
func FormatTemperature(celsius float64) (string, error) {
	t := int(math.Trunc(bounded(celsius, temperatureMin, temperatureMax)))
	return fit(fmt.Sprintf("%3d%c", t, DegreeGlyph))
}

func drawTemperature(s Sink, celsius float64) error {
	text, err := FormatTemperature(celsius)
	if err != nil {
		return err
	}
	return s.ShowString(text, FieldWidth, 0)
}

// CoordinateParts returns the signed integer part of a coordinate and the
// first four digits after the decimal point. Both come from one formatted
// string so they always agree, rounding included.
func CoordinateParts(degrees, limit float64) (whole, fraction string, err error) {
	text := strconv.FormatFloat(bounded(degrees, -limit, limit), 'f', 6, 64)
	dot := strings.IndexByte(text, '.')
	if dot < 0 || len(text) < dot+5 {
		return "", "", fmt.Errorf("coordinate %q: %w", text, ErrFieldOverflow)
	}
	if whole, err = fit(text[:dot]); err != nil {
		return "", "", err
	}
	return whole, text[dot+1 : dot+5], nil
}

func drawCoordinateWhole(limit float64) func(Sink, float64) error {
	return func(s Sink, degrees float64) error {
		whole, _, err := CoordinateParts(degrees, limit)
		if err != nil {
			return err
		}
		return s.ShowString(whole, len(whole), FieldWidth-len(whole))
	}
}

func drawCoordinateFraction(limit float64) func(Sink, float64) error {
	return func(s Sink, degrees float64) error {
		_, fraction, err := CoordinateParts(degrees, limit)
		if err != nil {
			return err
		}
		return s.ShowString(fraction, FieldWidth, 0)
	}
}
