// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned for a replay script without frames.
var ErrEmptyScript = errors.New("replay script has no frames")

// Script is a timed sequence of readings, e.g.
//
//	loop: true
//	frames:
//	  - at: 0s
//	    lat: 39.99995
//	    lon: -105.2345
//	    alt_m: 1650
//	  - at: 10s
//	    alt_m: 1700
//	    vertical_mps: 5
type Script struct {
	Loop   bool    `yaml:"loop"`
	Frames []Frame `yaml:"frames"`
}

// Frame holds the readings in effect from At until the next frame.
type Frame struct {
	At              time.Duration `yaml:"at"`
	Latitude        float64       `yaml:"lat"`
	Longitude       float64       `yaml:"lon"`
	Altitude        float64       `yaml:"alt_m"`
	VerticalSpeed   float64       `yaml:"vertical_mps"`
	HorizontalSpeed float64       `yaml:"horizontal_mps"`
	Temperature     float64       `yaml:"temp_c"`
}

// LoadScript reads a replay script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML replay script and sorts its frames by time.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse replay script: %w", err)
	}
	if len(s.Frames) == 0 {
		return nil, ErrEmptyScript
	}
	sort.SliceStable(s.Frames, func(i, j int) bool { return s.Frames[i].At < s.Frames[j].At })
	for i, f := range s.Frames {
		if f.At < 0 {
			return nil, fmt.Errorf("frame %d: negative time %s", i, f.At)
		}
	}
	return &s, nil
}

// Replay plays a script against a clock.
type Replay struct {
	script *Script
	start  time.Time
	now    func() time.Time
}

// NewReplay starts playing the script now. A nil now uses time.Now.
func NewReplay(script *Script, now func() time.Time) *Replay {
	if now == nil {
		now = time.Now
	}
	return &Replay{script: script, start: now(), now: now}
}

// Current returns the frame in effect. Before the first frame's time the
// first frame is used; after the last, the last one holds unless the
// script loops.
func (r *Replay) Current() Frame {
	frames := r.script.Frames
	elapsed := r.now().Sub(r.start)

	if end := frames[len(frames)-1].At; r.script.Loop && end > 0 {
		// A looping script repeats with the last frame's time as its period.
		elapsed %= end
	}

	i := sort.Search(len(frames), func(i int) bool { return frames[i].At > elapsed })
	if i == 0 {
		return frames[0]
	}
	return frames[i-1]
}

func (r *Replay) Latitude() float64        { return r.Current().Latitude }
func (r *Replay) Longitude() float64       { return r.Current().Longitude }
func (r *Replay) Altitude() float64        { return r.Current().Altitude }
func (r *Replay) VerticalSpeed() float64   { return r.Current().VerticalSpeed }
func (r *Replay) HorizontalSpeed() float64 { return r.Current().HorizontalSpeed }
func (r *Replay) Temperature() float64     { return r.Current().Temperature }
