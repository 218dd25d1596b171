// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display drives a 4-character display through the telemetry
// categories: a label screen, then one or two data screens per category,
// paced by a millisecond clock.
package display

import (
	"errors"
	"fmt"
	"log"
)

const (
	ShortDelay uint32 = 1000 // ms a label stays up
	LongDelay  uint32 = 2000 // ms a data screen stays up
)

// Source provides the readings shown on the display.
type Source interface {
	Latitude() float64        // degrees, signed
	Longitude() float64       // degrees, signed
	Altitude() float64        // meters
	VerticalSpeed() float64   // m/s
	HorizontalSpeed() float64 // m/s
	Temperature() float64     // °C
}

// Stats counts controller activity.
type Stats struct {
	Ticks   uint64
	Renders uint64
	Errors  uint64
}

// Controller owns the display state machine. It is not safe for concurrent
// use: Tick must be called from a single goroutine.
type Controller struct {
	clock Clock
	sink  Sink
	src   Source

	category Category
	phase    Phase
	deadline uint32
	started  bool

	// snapshots taken when the Latitude/Longitude label is entered
	latitude  float64
	longitude float64

	stats Stats
}

// New returns a controller on the Altitude label, due now.
func New(clock Clock, sink Sink, src Source) *Controller {
	return &Controller{
		clock:    clock,
		sink:     sink,
		src:      src,
		category: Altitude,
		phase:    Label,
		deadline: clock.Millis(),
	}
}

// Setup initializes the sink at the given brightness and returns a new controller.
func Setup(brightness uint8, clock Clock, sink Sink, src Source) (*Controller, error) {
	if err := sink.Begin(brightness); err != nil {
		return nil, fmt.Errorf("sink begin: %w", err)
	}
	return New(clock, sink, src), nil
}

// State returns the active category and phase.
func (c *Controller) State() (Category, Phase) {
	return c.category, c.phase
}

func (c *Controller) Stats() Stats {
	return c.stats
}

// Tick renders and advances the state machine as the clock requires. It
// never blocks beyond the sink and sensor calls it makes.
func (c *Controller) Tick() {
	now := c.clock.Millis()
	c.stats.Ticks++

	// The first tick puts the initial label up instead of skipping past it.
	if !c.started {
		c.started = true
		c.deadline = now + ShortDelay
		c.render()
		return
	}

	due := Reached(now, c.deadline)

	// Altitude data screens update live; everything else renders only when
	// it changes state.
	if c.category == Altitude && c.phase != Label {
		if due {
			c.advance(now)
		}
		c.render()
		return
	}
	if due {
		c.advance(now)
		c.render()
	}
}

func (c *Controller) advance(now uint32) {
	switch c.phase {
	case Label:
		c.phase = Display1
		c.deadline = now + LongDelay
	case Display1:
		if !c.category.HasSecondScreen() {
			c.enterLabel(c.category.Next(), now)
			return
		}
		c.phase = Display2
		c.deadline = now + LongDelay
	case Display2:
		if !c.category.HasSecondScreen() {
			c.stats.Errors++
			log.Printf("display: unreachable state %s/%s, moving to next label", c.category, c.phase)
		}
		c.enterLabel(c.category.Next(), now)
	default:
		c.stats.Errors++
		log.Printf("display: unknown phase %d in %s, moving to next label", c.phase, c.category)
		c.enterLabel(c.category.Next(), now)
	}
}

func (c *Controller) enterLabel(category Category, now uint32) {
	c.category = category
	c.phase = Label
	c.deadline = now + ShortDelay

	switch category {
	case Latitude:
		c.latitude = c.src.Latitude()
	case Longitude:
		c.longitude = c.src.Longitude()
	}
}

func (c *Controller) render() {
	scr, ok := screens[screenKey{c.category, c.phase}]
	if !ok {
		return
	}
	var v float64
	if scr.read != nil {
		v = scr.read(c)
	}

	// No digits above the last four: go straight to the second screen.
	if c.category == Altitude && c.phase == Display1 {
		if high, _ := AltitudeParts(v); high == 0 {
			c.phase = Display2
			scr = screens[screenKey{Altitude, Display2}]
		}
	}

	if err := c.sink.Clear(); err != nil {
		c.fail(err)
		return
	}
	if err := scr.draw(c.sink, v); err != nil {
		c.fail(err)
		if errors.Is(err, ErrFieldOverflow) {
			if err := c.sink.ShowString(overflowPattern, FieldWidth, 0); err != nil {
				log.Printf("display: %v", err)
			}
		}
		return
	}
	c.stats.Renders++
}

func (c *Controller) fail(err error) {
	c.stats.Errors++
	log.Printf("display: render %s/%s: %v", c.category, c.phase, err)
}
