// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sink holds the display.Sink implementations: the TM1637 segment
// display, an SSD1306 OLED mirror, a terminal renderer and a websocket feed.
package sink

import (
	"github.com/relabs-tech/telemetry_display/internal/display"
)

// frame buffers the field for a sink. Clear only resets the buffer; the
// device sees a frame when a Show call completes and the content differs
// from what it already shows, so clearing and redrawing never flickers.
type frame struct {
	cur    display.Field
	last   display.Field
	synced bool
	push   func(display.Field) error
}

func newFrame(push func(display.Field) error) frame {
	return frame{cur: display.BlankField(), push: push}
}

func (f *frame) Clear() error {
	f.cur.Clear()
	return nil
}

func (f *frame) ShowString(text string, length, position int) error {
	if err := f.cur.PutString(text, length, position); err != nil {
		return err
	}
	return f.commit()
}

func (f *frame) ShowNumber(value int, leadingZero bool, length, position int) error {
	if err := f.cur.PutNumber(value, leadingZero, length, position); err != nil {
		return err
	}
	return f.commit()
}

// Current returns the buffered field.
func (f *frame) Current() display.Field {
	return f.cur
}

func (f *frame) commit() error {
	if f.synced && f.cur == f.last {
		return nil
	}
	if err := f.push(f.cur); err != nil {
		return err
	}
	f.last = f.cur
	f.synced = true
	return nil
}

// resync forces the next commit to push even if the content is unchanged.
func (f *frame) resync() {
	f.synced = false
}
