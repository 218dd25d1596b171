package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telemetry_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
# bench setup
MQTT_BROKER = tcp://pi.local:1883
TOPIC_GPS=balloon/gps
DISPLAY_BRIGHTNESS=3
DISPLAY_TICK_INTERVAL=20
DISPLAY_SINKS=tm1637, Terminal,web,terminal
TM1637_CLK_PIN=GPIO23
TM1637_DIO_PIN=GPIO24
TELEMETRY_SOURCE=replay
REPLAY_FILE=flight.yaml
WEB_SERVER_PORT=9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://pi.local:1883" || cfg.TopicGPS != "balloon/gps" {
		t.Errorf("mqtt settings = %q %q", cfg.MQTTBroker, cfg.TopicGPS)
	}
	if cfg.TopicEnv != "telemetry/env" || cfg.GPSBaudRate != 9600 {
		t.Errorf("defaults lost: TopicEnv=%q GPSBaudRate=%d", cfg.TopicEnv, cfg.GPSBaudRate)
	}
	if cfg.DisplayBrightness != 3 || cfg.DisplayTickInterval != 20 {
		t.Errorf("display = %d %d", cfg.DisplayBrightness, cfg.DisplayTickInterval)
	}
	if want := []string{SinkTM1637, SinkTerminal, SinkWeb}; !slices.Equal(cfg.DisplaySinks, want) {
		t.Errorf("DisplaySinks = %v, want %v", cfg.DisplaySinks, want)
	}
	if !cfg.HasSink(SinkWeb) || cfg.HasSink(SinkOLED) {
		t.Errorf("HasSink wrong for %v", cfg.DisplaySinks)
	}
	if cfg.TelemetrySource != SourceReplay || cfg.ReplayFile != "flight.yaml" || cfg.WebServerPort != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no equals", "MQTT_BROKER\n", "invalid config line 1"},
		{"unknown key", "FOO=1\n", "unknown config key"},
		{"brightness range", "DISPLAY_BRIGHTNESS=8\n", "DISPLAY_BRIGHTNESS must be 0-7"},
		{"brightness number", "DISPLAY_BRIGHTNESS=max\n", "invalid DISPLAY_BRIGHTNESS"},
		{"tick interval", "DISPLAY_TICK_INTERVAL=0\n", "must be positive"},
		{"unknown sink", "DISPLAY_SINKS=lcd\n", "unknown display sink"},
		{"no sinks", "DISPLAY_SINKS= , \n", "at least one sink"},
		{"unknown source", "TELEMETRY_SOURCE=lora\n", "unknown telemetry source"},
		{"replay without file", "TELEMETRY_SOURCE=replay\n", "REPLAY_FILE is required"},
		{"mqtt without broker", "MQTT_BROKER=\n", "MQTT_BROKER is required"},
		{"tm1637 without pins", "DISPLAY_SINKS=tm1637\nTM1637_DIO_PIN=\n", "TM1637_CLK_PIN and TM1637_DIO_PIN"},
		{"port", "WEB_SERVER_PORT=70000\n", "WEB_SERVER_PORT must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Errorf("Default().validate() = %v", err)
	}
}
