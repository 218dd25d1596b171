package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/dustin/go-humanize"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/telemetry_display/internal/config"
	"github.com/relabs-tech/telemetry_display/internal/env"
	"github.com/relabs-tech/telemetry_display/internal/gps"
)

// printFix formats a GPS fix message as one console line.
func printFix(w io.Writer, payload []byte) error {
	var f gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w,
		"[GPS ]  time=%s lat=%.6f lon=%.6f alt=%.1fm speed=%.1fkn (%.2fm/s) course=%.1f° sats=%d valid=%v\n",
		f.Time, f.Latitude, f.Longitude, f.Altitude, f.SpeedKnots, f.SpeedMPS(), f.CourseDeg, f.Satellites, f.Valid(),
	)
	return err
}

// printSample formats a BMP sample message as one console line.
func printSample(w io.Writer, payload []byte) error {
	var s env.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "[ENV ]  temp=%6.2f°C pressure=%s hPa\n",
		s.Temperature, humanize.CommafWithDigits(s.PressureHPa(), 2))
	return err
}

// RunConsoleMQTT prints every GPS fix and BMP sample seen on the broker
// until ctx is done.
func RunConsoleMQTT(ctx context.Context, out io.Writer) error {
	cfg := config.Get()

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	subs := []struct {
		topic string
		print func(io.Writer, []byte) error
	}{
		{cfg.TopicGPS, printFix},
		{cfg.TopicEnv, printSample},
	}
	for _, s := range subs {
		token := client.Subscribe(s.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := s.print(out, msg.Payload()); err != nil {
				log.Printf("console: %s unmarshal error: %v", msg.Topic(), err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			client.Disconnect(250)
			return token.Error()
		}
		log.Printf("console: subscribed to %s", s.topic)
	}

	<-ctx.Done()

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
