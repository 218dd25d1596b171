// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/tm1637"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

// MaxBrightness is the highest brightness level accepted by Begin.
const MaxBrightness = 7

// tm1637Levels maps brightness 0..7 onto the driver's duty cycles.
var tm1637Levels = [MaxBrightness + 1]tm1637.Brightness{
	tm1637.Brightness1,
	tm1637.Brightness2,
	tm1637.Brightness4,
	tm1637.Brightness10,
	tm1637.Brightness11,
	tm1637.Brightness12,
	tm1637.Brightness13,
	tm1637.Brightness14,
}

// TM1637 drives a 4-digit TM1637 segment display over two GPIO pins.
type TM1637 struct {
	frame
	dev *tm1637.Dev
}

var _ display.Sink = (*TM1637)(nil)

// NewTM1637 opens the display on the named clock and data pins.
func NewTM1637(clkPin, dioPin string) (*TM1637, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("tm1637: periph host init: %w", err)
	}

	clk := gpioreg.ByName(clkPin)
	if clk == nil {
		return nil, fmt.Errorf("tm1637: CLK pin %q not found", clkPin)
	}
	dio := gpioreg.ByName(dioPin)
	if dio == nil {
		return nil, fmt.Errorf("tm1637: DIO pin %q not found", dioPin)
	}

	dev, err := tm1637.New(clk, dio)
	if err != nil {
		return nil, fmt.Errorf("tm1637: device init: %w", err)
	}

	s := &TM1637{dev: dev}
	s.frame = newFrame(s.write)
	return s, nil
}

// Begin sets the brightness (0..7) and blanks the display.
func (s *TM1637) Begin(brightness uint8) error {
	if brightness > MaxBrightness {
		return fmt.Errorf("tm1637: brightness %d out of range 0-%d", brightness, MaxBrightness)
	}
	if err := s.dev.SetBrightness(tm1637Levels[brightness]); err != nil {
		return fmt.Errorf("tm1637: set brightness: %w", err)
	}
	log.Printf("tm1637: %s brightness %d", s.dev, brightness)

	s.cur = display.BlankField()
	s.resync()
	return s.commit()
}

func (s *TM1637) write(f display.Field) error {
	seg, err := Segments(f)
	if err != nil {
		return fmt.Errorf("tm1637: %w", err)
	}
	if _, err := s.dev.Write(seg); err != nil {
		return fmt.Errorf("tm1637: write: %w", err)
	}
	return nil
}

// Close turns the display off.
func (s *TM1637) Close() error {
	return s.dev.Halt()
}
