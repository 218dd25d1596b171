// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/app"
)

func main() {
	replay := flag.String("replay", "", "YAML replay script (mock telemetry when empty)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "mock telemetry seed")
	brightness := flag.Uint("brightness", 7, "display brightness 0-7")
	tick := flag.Duration("tick", 10*time.Millisecond, "controller tick interval")
	flag.Parse()

	if *brightness > 7 {
		log.Fatalf("brightness must be 0-7, got %d", *brightness)
	}
	if *tick <= 0 {
		log.Fatalf("tick must be positive, got %s", *tick)
	}

	log.Println("starting telemetry display (bench console)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.RunConsole(ctx, app.ConsoleOptions{
		ReplayFile: *replay,
		Seed:       *seed,
		Brightness: uint8(*brightness),
		Tick:       *tick,
		Out:        os.Stdout,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
