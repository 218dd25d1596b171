package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/telemetry_display/internal/env"
)

// BMP is a BMP280/BME280 on an SPI port.
type BMP struct {
	port spi.PortCloser
	dev  *bmxx80.Dev
}

// NewBMP opens the sensor on the given SPI device, e.g. "/dev/spidev0.0".
func NewBMP(spiDevice string) (*BMP, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	port, err := spireg.Open(spiDevice)
	if err != nil {
		return nil, fmt.Errorf("BMP SPI open: %w", err)
	}

	dev, err := bmxx80.NewSPI(port, &bmxx80.DefaultOpts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("BMP init: %w", err)
	}

	log.Printf("env: %s initialized on %s", dev, spiDevice)
	return &BMP{port: port, dev: dev}, nil
}

// Read takes one temperature and pressure measurement.
func (b *BMP) Read() (env.Sample, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return env.Sample{}, fmt.Errorf("BMP sense: %w", err)
	}
	return SampleFromEnv(e, time.Now()), nil
}

// SampleFromEnv converts a periph reading.
func SampleFromEnv(e physic.Env, at time.Time) env.Sample {
	return env.Sample{
		At:          at,
		Temperature: e.Temperature.Celsius(),
		Pressure:    float64(e.Pressure) / float64(physic.Pascal),
	}
}

func (b *BMP) Close() error {
	if err := b.dev.Halt(); err != nil {
		log.Printf("env: BMP halt: %v", err)
	}
	return b.port.Close()
}
