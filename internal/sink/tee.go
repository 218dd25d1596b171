// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"errors"
	"io"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

// Tee repeats every call on each of its sinks. A failing sink does not stop
// the others; the errors are joined.
type Tee []display.Sink

var _ display.Sink = Tee(nil)

func (t Tee) Begin(brightness uint8) error {
	return t.each(func(s display.Sink) error { return s.Begin(brightness) })
}

func (t Tee) Clear() error {
	return t.each(func(s display.Sink) error { return s.Clear() })
}

func (t Tee) ShowString(text string, length, position int) error {
	return t.each(func(s display.Sink) error { return s.ShowString(text, length, position) })
}

func (t Tee) ShowNumber(value int, leadingZero bool, length, position int) error {
	return t.each(func(s display.Sink) error { return s.ShowNumber(value, leadingZero, length, position) })
}

// Close closes every sink that implements io.Closer.
func (t Tee) Close() error {
	return t.each(func(s display.Sink) error {
		if c, ok := s.(io.Closer); ok {
			return c.Close()
		}
		return nil
	})
}

func (t Tee) each(fn func(display.Sink) error) error {
	var errs []error
	for _, s := range t {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
