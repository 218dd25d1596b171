package app

import (
	"context"
	"log"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/config"
	"github.com/relabs-tech/telemetry_display/internal/gps"
	"github.com/relabs-tech/telemetry_display/internal/sensors"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes combined GPS fixes as JSON to TOPIC_GPS.
func RunGPSProducer(ctx context.Context) error {
	cfg := config.Get()

	client, err := connectMQTT("gps", cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	port, err := sensors.OpenGPS(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return err
	}

	// Closing the port is the only way to unblock a pending read.
	stop := context.AfterFunc(ctx, func() { port.Close() })
	defer func() {
		if stop() {
			port.Close()
		}
	}()

	var published uint64
	err = sensors.ReadFixes(ctx, port, time.Now, func(f gps.Fix) {
		if err := publishJSON(client, cfg.TopicGPS, f); err != nil {
			log.Printf("gps: publish error: %v", err)
			return
		}
		published++
		if published == 1 || published%60 == 0 {
			log.Printf("gps: published fix #%d: lat=%.6f lon=%.6f alt=%.1f valid=%v",
				published, f.Latitude, f.Longitude, f.Altitude, f.Valid())
		}
	})
	if ctx.Err() != nil {
		log.Printf("gps: shutting down after %d fixes", published)
		return nil
	}
	return err
}
