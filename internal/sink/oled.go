// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"fmt"
	"image"
	"log"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

const (
	oledFontSize = 40
	oledDPI      = 72
	// baseline and left margin for four monospace cells on a 128x64 panel
	oledOriginX = 16
	oledOriginY = 48
)

// OLED mirrors the 4-character field in large type on an SSD1306 panel.
type OLED struct {
	frame
	bus i2c.BusCloser
	dev *ssd1306.Dev
	ctx *freetype.Context
}

var _ display.Sink = (*OLED)(nil)

// NewOLED opens the panel on the named I2C bus ("" for the first one).
func NewOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("oled: periph host init: %w", err)
	}

	face, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("oled: parsing font: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("oled: open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("oled: device init: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(oledDPI)
	ctx.SetFont(face)
	ctx.SetFontSize(oledFontSize)
	ctx.SetSrc(&image.Uniform{C: image1bit.On})
	ctx.SetHinting(font.HintingFull)

	o := &OLED{bus: bus, dev: dev, ctx: ctx}
	o.frame = newFrame(o.draw)
	return o, nil
}

// Begin maps brightness 0..7 onto the panel contrast.
func (o *OLED) Begin(brightness uint8) error {
	if brightness > MaxBrightness {
		return fmt.Errorf("oled: brightness %d out of range 0-%d", brightness, MaxBrightness)
	}
	if err := o.dev.SetContrast(ContrastLevel(brightness)); err != nil {
		return fmt.Errorf("oled: set contrast: %w", err)
	}
	log.Printf("oled: %s contrast %d", o.dev, ContrastLevel(brightness))

	o.cur = display.BlankField()
	o.resync()
	return o.commit()
}

// ContrastLevel spreads brightness 0..7 over the SSD1306 contrast range.
func ContrastLevel(brightness uint8) byte {
	if brightness >= MaxBrightness {
		return 0xFF
	}
	return brightness * (0xFF / MaxBrightness)
}

func (o *OLED) draw(f display.Field) error {
	img := image1bit.NewVerticalLSB(o.dev.Bounds())
	o.ctx.SetDst(img)
	o.ctx.SetClip(img.Bounds())
	if _, err := o.ctx.DrawString(f.String(), freetype.Pt(oledOriginX, oledOriginY)); err != nil {
		return fmt.Errorf("oled: draw %q: %w", f, err)
	}
	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("oled: %w", err)
	}
	return nil
}

func (o *OLED) Close() error {
	err := o.dev.Halt()
	if cerr := o.bus.Close(); err == nil {
		err = cerr
	}
	return err
}
