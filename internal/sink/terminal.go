// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"io"
	"log"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

// Terminal prints each new frame as a log line. It stands in for the
// hardware on a desk or in tests.
type Terminal struct {
	frame
	logger *log.Logger
}

var _ display.Sink = (*Terminal)(nil)

func NewTerminal(w io.Writer) *Terminal {
	t := &Terminal{logger: log.New(w, "", log.Ltime|log.Lmicroseconds)}
	t.frame = newFrame(t.print)
	return t
}

func (t *Terminal) Begin(brightness uint8) error {
	t.logger.Printf("terminal: brightness %d", brightness)
	t.cur = display.BlankField()
	t.resync()
	return t.commit()
}

func (t *Terminal) print(f display.Field) error {
	t.logger.Printf("[%s]", f)
	return nil
}

func (t *Terminal) Close() error {
	return nil
}
