package app

import (
	"context"
	"log"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/config"
	"github.com/relabs-tech/telemetry_display/internal/sensors"
)

// RunEnvProducer samples the BMP at ENV_SAMPLE_INTERVAL and publishes each
// reading as JSON to TOPIC_ENV.
func RunEnvProducer(ctx context.Context) error {
	cfg := config.Get()

	client, err := connectMQTT("env", cfg.MQTTBroker, cfg.MQTTClientIDEnv)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	bmp, err := sensors.NewBMP(cfg.BMPSPIDevice)
	if err != nil {
		return err
	}
	defer bmp.Close()

	ticker := time.NewTicker(time.Duration(cfg.EnvSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Printf("env: publishing to %s every %d ms", cfg.TopicEnv, cfg.EnvSampleInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("env: shutting down")
			return nil
		case <-ticker.C:
		}

		sample, err := bmp.Read()
		if err != nil {
			log.Printf("env: read error: %v", err)
			continue
		}
		if err := publishJSON(client, cfg.TopicEnv, sample); err != nil {
			log.Printf("env: publish error: %v", err)
		}
	}
}
