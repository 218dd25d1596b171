// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/display"
	"github.com/relabs-tech/telemetry_display/internal/sink"
	"github.com/relabs-tech/telemetry_display/internal/telemetry"
)

// ConsoleOptions configures an offline bench run.
type ConsoleOptions struct {
	ReplayFile string // mock telemetry when empty
	Seed       int64
	Brightness uint8
	Tick       time.Duration
	Out        io.Writer
}

// RunConsole runs the display against mock or replayed telemetry, printing
// every frame, until ctx is done. No hardware or broker is needed.
func RunConsole(ctx context.Context, opts ConsoleOptions) error {
	var src display.Source = telemetry.NewMock(opts.Seed)
	if opts.ReplayFile != "" {
		script, err := telemetry.LoadScript(opts.ReplayFile)
		if err != nil {
			return err
		}
		src = telemetry.NewReplay(script, nil)
		log.Printf("console: replaying %s", opts.ReplayFile)
	}

	term := sink.NewTerminal(opts.Out)
	ctrl, err := display.Setup(opts.Brightness, display.NewSystemClock(), term, src)
	if err != nil {
		return err
	}

	runLoop(ctx, ctrl, opts.Tick)
	return nil
}
