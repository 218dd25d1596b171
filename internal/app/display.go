package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/relabs-tech/telemetry_display/internal/config"
	"github.com/relabs-tech/telemetry_display/internal/display"
	"github.com/relabs-tech/telemetry_display/internal/sink"
)

// openSinks builds every sink listed in DISPLAY_SINKS. The web sink is also
// returned on its own so it can be mounted on the HTTP server.
func openSinks(cfg *config.Config) (sink.Tee, *sink.Web, error) {
	var (
		tee sink.Tee
		web *sink.Web
	)
	for _, name := range cfg.DisplaySinks {
		switch name {
		case config.SinkTM1637:
			s, err := sink.NewTM1637(cfg.TM1637CLKPin, cfg.TM1637DIOPin)
			if err != nil {
				tee.Close()
				return nil, nil, err
			}
			tee = append(tee, s)
		case config.SinkOLED:
			s, err := sink.NewOLED(cfg.OLEDI2CBus)
			if err != nil {
				tee.Close()
				return nil, nil, err
			}
			tee = append(tee, s)
		case config.SinkTerminal:
			tee = append(tee, sink.NewTerminal(os.Stdout))
		case config.SinkWeb:
			web = sink.NewWeb()
			tee = append(tee, web)
		default:
			tee.Close()
			return nil, nil, fmt.Errorf("unknown display sink %q", name)
		}
	}
	return tee, web, nil
}

// RunDisplay drives the display from the configured telemetry source until
// ctx is done.
func RunDisplay(ctx context.Context) error {
	cfg := config.Get()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		cancel()
		src.close()
	}()

	sinks, web, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer sinks.Close()

	ctrl, err := display.Setup(cfg.DisplayBrightness, display.NewSystemClock(), sinks, src)
	if err != nil {
		return err
	}
	log.Printf("display: %v at brightness %d, source %s", cfg.DisplaySinks, cfg.DisplayBrightness, cfg.TelemetrySource)

	if web != nil || src.store != nil {
		go func() {
			if err := serveWeb(ctx, cfg.WebServerPort, newWebHandler(web, src.store)); err != nil {
				log.Printf("web: server error: %v", err)
			}
		}()
	}

	runLoop(ctx, ctrl, time.Duration(cfg.DisplayTickInterval)*time.Millisecond)
	return nil
}

// runLoop ticks the controller until ctx is done, then logs its counters.
func runLoop(ctx context.Context, ctrl *display.Controller, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	log.Printf("display: starting update loop every %s", interval)

	for {
		select {
		case <-ctx.Done():
			st := ctrl.Stats()
			log.Printf("display: stopped after %s: %s ticks, %s renders, %s errors",
				time.Since(start).Round(time.Second),
				humanize.Comma(int64(st.Ticks)),
				humanize.Comma(int64(st.Renders)),
				humanize.Comma(int64(st.Errors)))
			return
		case <-ticker.C:
			ctrl.Tick()
		}
	}
}
