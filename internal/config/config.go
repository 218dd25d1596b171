package config

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Sink and source names accepted by DISPLAY_SINKS and TELEMETRY_SOURCE.
const (
	SinkTM1637   = "tm1637"
	SinkOLED     = "oled"
	SinkTerminal = "terminal"
	SinkWeb      = "web"

	SourceMQTT   = "mqtt"
	SourceDirect = "direct"
	SourceMock   = "mock"
	SourceReplay = "replay"
)

// MaxBrightness is the brightest DISPLAY_BRIGHTNESS level.
const MaxBrightness = 7

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDDisplay string
	MQTTClientIDGPS     string
	MQTTClientIDEnv     string
	MQTTClientIDConsole string

	// Topics
	TopicGPS string
	TopicEnv string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// BMP
	BMPSPIDevice      string
	EnvSampleInterval int // milliseconds

	// Display
	DisplayBrightness   uint8
	DisplayTickInterval int      // milliseconds
	DisplaySinks        []string // any of "tm1637", "oled", "terminal", "web"
	TM1637CLKPin        string
	TM1637DIOPin        string
	OLEDI2CBus          string // "" selects the first bus

	// Telemetry
	TelemetrySource string // "mqtt", "direct", "mock" or "replay"
	ReplayFile      string

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the values used for keys missing from the file.
func Default() *Config {
	return &Config{
		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDDisplay: "telemetry-display",
		MQTTClientIDGPS:     "telemetry-gps-producer",
		MQTTClientIDEnv:     "telemetry-env-producer",
		MQTTClientIDConsole: "telemetry-console",
		TopicGPS:            "telemetry/gps",
		TopicEnv:            "telemetry/env",
		GPSSerialPort:       "/dev/serial0",
		GPSBaudRate:         9600,
		BMPSPIDevice:        "/dev/spidev0.0",
		EnvSampleInterval:   1000,
		DisplayBrightness:   MaxBrightness,
		DisplayTickInterval: 10,
		DisplaySinks:        []string{SinkTerminal},
		TM1637CLKPin:        "GPIO2",
		TM1637DIOPin:        "GPIO3",
		TelemetrySource:     SourceMQTT,
		WebServerPort:       8080,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// positive parses a strictly positive integer.
func positive(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error

	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_ENV":
		c.MQTTClientIDEnv = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_ENV":
		c.TopicEnv = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		c.GPSBaudRate, err = positive(key, value)

	// BMP
	case "BMP_SPI_DEVICE":
		c.BMPSPIDevice = value
	case "ENV_SAMPLE_INTERVAL":
		c.EnvSampleInterval, err = positive(key, value)

	// Display
	case "DISPLAY_BRIGHTNESS":
		val, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_BRIGHTNESS %q: %w", value, perr)
		}
		if val < 0 || val > MaxBrightness {
			return fmt.Errorf("DISPLAY_BRIGHTNESS must be 0-%d, got %d", MaxBrightness, val)
		}
		c.DisplayBrightness = uint8(val)
	case "DISPLAY_TICK_INTERVAL":
		c.DisplayTickInterval, err = positive(key, value)
	case "DISPLAY_SINKS":
		c.DisplaySinks = nil
		for _, name := range strings.Split(value, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || slices.Contains(c.DisplaySinks, name) {
				continue
			}
			switch name {
			case SinkTM1637, SinkOLED, SinkTerminal, SinkWeb:
				c.DisplaySinks = append(c.DisplaySinks, name)
			default:
				return fmt.Errorf("unknown display sink %q", name)
			}
		}
	case "TM1637_CLK_PIN":
		c.TM1637CLKPin = value
	case "TM1637_DIO_PIN":
		c.TM1637DIOPin = value
	case "OLED_I2C_BUS":
		c.OLEDI2CBus = value

	// Telemetry
	case "TELEMETRY_SOURCE":
		switch v := strings.ToLower(value); v {
		case SourceMQTT, SourceDirect, SourceMock, SourceReplay:
			c.TelemetrySource = v
		default:
			return fmt.Errorf("unknown telemetry source %q", value)
		}
	case "REPLAY_FILE":
		c.ReplayFile = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, perr)
		}
		if port <= 0 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks the settings that depend on each other.
func (c *Config) validate() error {
	if len(c.DisplaySinks) == 0 {
		return fmt.Errorf("DISPLAY_SINKS needs at least one sink")
	}
	if c.HasSink(SinkTM1637) && (c.TM1637CLKPin == "" || c.TM1637DIOPin == "") {
		return fmt.Errorf("TM1637_CLK_PIN and TM1637_DIO_PIN are required for the tm1637 sink")
	}
	switch c.TelemetrySource {
	case SourceMQTT:
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT_BROKER is required")
		}
	case SourceReplay:
		if c.ReplayFile == "" {
			return fmt.Errorf("REPLAY_FILE is required for the replay source")
		}
	}
	return nil
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	return slices.Contains(c.DisplaySinks, name)
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
