// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/telemetry_display/internal/gps"
)

// OpenGPS opens the receiver's serial port (8N1).
func OpenGPS(portName string, baudRate int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPS port %s: %w", portName, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", portName, baudRate)
	return port, nil
}

// ParseSentence merges one NMEA sentence into fix. RMC carries the position
// and closes a fix, so complete is true only for RMC. GGA adds altitude and
// quality, VTG refreshes speed and course. Other sentences are ignored.
func ParseSentence(line string, fix *gps.Fix) (complete bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return false, nil
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return false, err
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		fix.Time = m.Time.String()
		fix.Date = m.Date.String()
		fix.Latitude = m.Latitude
		fix.Longitude = m.Longitude
		fix.SpeedKnots = m.Speed
		fix.CourseDeg = m.Course
		fix.Validity = m.Validity
		return true, nil

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		fix.Quality = m.FixQuality
		fix.Satellites = m.NumSatellites
		if m.FixQuality != nmea.Invalid {
			fix.Altitude = m.Altitude
			fix.HasAlt = true
		}

	case nmea.TypeVTG:
		m := sentence.(nmea.VTG)
		fix.SpeedKnots = m.GroundSpeedKnots
		fix.CourseDeg = m.TrueTrack
	}
	return false, nil
}

// ReadFixes reads NMEA lines from r and calls emit with every completed
// fix. Unparseable sentences are skipped, since a receiver that has just
// powered up often sends partial lines. It returns when r fails or ctx is
// done.
func ReadFixes(ctx context.Context, r io.Reader, now func() time.Time, emit func(gps.Fix)) error {
	reader := bufio.NewReader(r)
	var current gps.Fix

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			complete, perr := ParseSentence(line, &current)
			if perr != nil {
				log.Printf("gps: skipping sentence: %v", perr)
			} else if complete {
				current.At = now()
				emit(current)
				// Altitude must come from a GGA of the next cycle.
				current.HasAlt = false
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("gps read: %w", err)
		}
	}
}
