// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry supplies readings to the display controller: a store
// fed by GPS fixes and BMP samples, a scripted mock and a YAML replay.
package telemetry

import (
	"sync"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/env"
	"github.com/relabs-tech/telemetry_display/internal/gps"
)

// Snapshot is a copy of everything the store holds.
type Snapshot struct {
	Latitude        float64   `json:"lat"`
	Longitude       float64   `json:"lon"`
	Altitude        float64   `json:"alt_m"`
	VerticalSpeed   float64   `json:"vertical_mps"`
	HorizontalSpeed float64   `json:"horizontal_mps"`
	Temperature     float64   `json:"temp_c"`
	Pressure        float64   `json:"pressure_pa"`
	Fixes           uint64    `json:"fixes"`
	Samples         uint64    `json:"samples"`
	LastFix         time.Time `json:"last_fix"`
	LastSample      time.Time `json:"last_sample"`
}

// Store keeps the latest fix and environment sample. It is written by feed
// goroutines and read from the display tick, so every access is locked.
type Store struct {
	mu sync.RWMutex
	s  Snapshot

	altAt   time.Time
	haveAlt bool
}

func NewStore() *Store {
	return &Store{}
}

// ApplyFix records a GPS fix. Void fixes are counted but not applied.
// Vertical speed is the altitude change since the previous fix that carried one.
func (st *Store) ApplyFix(f gps.Fix) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.Fixes++
	if !f.Valid() {
		return
	}
	st.s.LastFix = f.At
	st.s.Latitude = f.Latitude
	st.s.Longitude = f.Longitude
	st.s.HorizontalSpeed = f.SpeedMPS()

	if !f.HasAlt {
		return
	}
	if st.haveAlt {
		if dt := f.At.Sub(st.altAt).Seconds(); dt > 0 {
			st.s.VerticalSpeed = (f.Altitude - st.s.Altitude) / dt
		}
	}
	st.s.Altitude = f.Altitude
	st.altAt = f.At
	st.haveAlt = true
}

// ApplyEnv records a BMP sample.
func (st *Store) ApplyEnv(e env.Sample) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.Samples++
	st.s.LastSample = e.At
	st.s.Temperature = e.Temperature
	st.s.Pressure = e.Pressure
}

func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

func (st *Store) Latitude() float64        { return st.Snapshot().Latitude }
func (st *Store) Longitude() float64       { return st.Snapshot().Longitude }
func (st *Store) Altitude() float64        { return st.Snapshot().Altitude }
func (st *Store) VerticalSpeed() float64   { return st.Snapshot().VerticalSpeed }
func (st *Store) HorizontalSpeed() float64 { return st.Snapshot().HorizontalSpeed }
func (st *Store) Temperature() float64     { return st.Snapshot().Temperature }
