package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/telemetry_display/internal/app"
	"github.com/relabs-tech/telemetry_display/internal/config"
)

func main() {
	configPath := flag.String("config", "telemetry_config.txt", "path to the configuration file")
	flag.Parse()

	log.Println("starting telemetry GPS producer (NMEA → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunGPSProducer(ctx); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
