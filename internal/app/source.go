package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/config"
	"github.com/relabs-tech/telemetry_display/internal/display"
	"github.com/relabs-tech/telemetry_display/internal/gps"
	"github.com/relabs-tech/telemetry_display/internal/sensors"
	"github.com/relabs-tech/telemetry_display/internal/telemetry"
)

// source is the display's telemetry plus what has to be released with it.
// store is nil for the mock and replay sources.
type source struct {
	display.Source
	store *telemetry.Store
	close func()
}

// openSource builds the source named by TELEMETRY_SOURCE. Feed goroutines
// stop when ctx is done.
func openSource(ctx context.Context, cfg *config.Config) (*source, error) {
	switch cfg.TelemetrySource {
	case config.SourceMock:
		log.Println("display: using mock telemetry")
		return &source{Source: telemetry.NewMock(time.Now().UnixNano()), close: func() {}}, nil

	case config.SourceReplay:
		script, err := telemetry.LoadScript(cfg.ReplayFile)
		if err != nil {
			return nil, err
		}
		log.Printf("display: replaying %d frames from %s (loop=%v)", len(script.Frames), cfg.ReplayFile, script.Loop)
		return &source{Source: telemetry.NewReplay(script, nil), close: func() {}}, nil

	case config.SourceMQTT:
		store := telemetry.NewStore()
		client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
		if err != nil {
			return nil, err
		}
		if err := telemetry.Subscribe(client, store, cfg.TopicGPS, cfg.TopicEnv); err != nil {
			client.Disconnect(250)
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
		return &source{Source: store, store: store, close: func() { client.Disconnect(250) }}, nil

	case config.SourceDirect:
		return openDirect(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown telemetry source %q", cfg.TelemetrySource)
}

// openDirect reads the GPS and BMP attached to this board. A missing BMP
// only costs the temperature screen, so it is logged and skipped. close
// must only be called once ctx is done.
func openDirect(ctx context.Context, cfg *config.Config) (*source, error) {
	store := telemetry.NewStore()

	port, err := sensors.OpenGPS(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return nil, err
	}
	go func() {
		err := sensors.ReadFixes(ctx, port, time.Now, func(f gps.Fix) { store.ApplyFix(f) })
		if err != nil && ctx.Err() == nil {
			log.Printf("display: gps feed stopped: %v", err)
		}
	}()

	closers := []func(){func() { port.Close() }}

	bmp, err := sensors.NewBMP(cfg.BMPSPIDevice)
	if err != nil {
		log.Printf("display: no temperature source: %v", err)
	} else {
		var wg sync.WaitGroup
		wg.Add(1)
		closers = append(closers, func() {
			wg.Wait()
			bmp.Close()
		})
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(time.Duration(cfg.EnvSampleInterval) * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				sample, err := bmp.Read()
				if err != nil {
					log.Printf("display: env read error: %v", err)
					continue
				}
				store.ApplyEnv(sample)
			}
		}()
	}

	return &source{
		Source: store,
		store:  store,
		close: func() {
			for _, c := range closers {
				c()
			}
		},
	}, nil
}
