// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"errors"
	"math"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/telemetry_display/internal/env"
	"github.com/relabs-tech/telemetry_display/internal/gps"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStoreApplyFix(t *testing.T) {
	st := NewStore()
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	st.ApplyFix(gps.Fix{At: t0, Validity: "V", Latitude: 1, Longitude: 1})
	if s := st.Snapshot(); s.Fixes != 1 || s.Latitude != 0 {
		t.Fatalf("void fix applied: %+v", s)
	}

	st.ApplyFix(gps.Fix{At: t0, Validity: "A", Latitude: 39.5, Longitude: -105.25, SpeedKnots: 10, Altitude: 100, HasAlt: true})
	st.ApplyFix(gps.Fix{At: t0.Add(2 * time.Second), Quality: "1", Latitude: 39.6, Longitude: -105.3, Altitude: 110, HasAlt: true})

	s := st.Snapshot()
	if s.Fixes != 3 {
		t.Errorf("Fixes = %d, want 3", s.Fixes)
	}
	if st.Latitude() != 39.6 || st.Longitude() != -105.3 {
		t.Errorf("position = %v,%v, want 39.6,-105.3", st.Latitude(), st.Longitude())
	}
	if st.Altitude() != 110 {
		t.Errorf("Altitude = %v, want 110", st.Altitude())
	}
	if !near(st.VerticalSpeed(), 5) {
		t.Errorf("VerticalSpeed = %v, want 5", st.VerticalSpeed())
	}
	if st.HorizontalSpeed() != 0 {
		t.Errorf("HorizontalSpeed = %v, want 0 from the last fix", st.HorizontalSpeed())
	}
	if !s.LastFix.Equal(t0.Add(2 * time.Second)) {
		t.Errorf("LastFix = %v", s.LastFix)
	}
}

func TestStoreFixWithoutAltitudeKeepsVerticalSpeed(t *testing.T) {
	st := NewStore()
	t0 := time.Unix(1000, 0)
	st.ApplyFix(gps.Fix{At: t0, Validity: "A", Altitude: 0, HasAlt: true})
	st.ApplyFix(gps.Fix{At: t0.Add(time.Second), Validity: "A", Altitude: -3, HasAlt: true})
	st.ApplyFix(gps.Fix{At: t0.Add(2 * time.Second), Validity: "A", SpeedKnots: 1})

	if !near(st.VerticalSpeed(), -3) {
		t.Errorf("VerticalSpeed = %v, want -3", st.VerticalSpeed())
	}
	if !near(st.HorizontalSpeed(), gps.KnotsToMPS) {
		t.Errorf("HorizontalSpeed = %v, want %v", st.HorizontalSpeed(), gps.KnotsToMPS)
	}
}

func TestStoreApplyEnv(t *testing.T) {
	st := NewStore()
	st.ApplyEnv(env.Sample{At: time.Unix(5, 0), Temperature: -12.5, Pressure: 101325})

	s := st.Snapshot()
	if st.Temperature() != -12.5 || s.Pressure != 101325 || s.Samples != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestMockScriptedValues(t *testing.T) {
	m := NewMock(1)

	for i := 0; i < 2; i++ {
		if got := m.Latitude(); got != 39.99995 {
			t.Errorf("Latitude #%d = %v, want 39.99995", i, got)
		}
		if got := m.Longitude(); got != -105.2345 {
			t.Errorf("Longitude #%d = %v, want -105.2345", i, got)
		}
	}
	if got := m.Latitude(); got < -40 || got >= 40 {
		t.Errorf("random Latitude = %v, want [-40, 40)", got)
	}
	if got := m.VerticalSpeed(); got != -1.03 {
		t.Errorf("VerticalSpeed = %v, want -1.03", got)
	}
	if got := m.HorizontalSpeed(); got != 1.03 {
		t.Errorf("HorizontalSpeed = %v, want 1.03", got)
	}
	if got := m.HorizontalSpeed(); got < 0 {
		t.Errorf("random HorizontalSpeed = %v, want >= 0", got)
	}

	for i, want := range []float64{0, -1.2, 1.2, -70, 70} {
		if got := m.Temperature(); got != want {
			t.Errorf("Temperature #%d = %v, want %v", i, got, want)
		}
	}
}

func TestMockAltitudeJumps(t *testing.T) {
	m := NewMock(7)
	prev := 50.0
	for i := 0; i < 200; i++ {
		alt := m.Altitude()
		if alt > 9000 {
			if prev <= 120 {
				t.Fatalf("jumped from %v", prev)
			}
			return
		}
		if alt < prev+1 || alt >= prev+2 {
			t.Fatalf("step %d: %v -> %v, want a climb of [1, 2)", i, prev, alt)
		}
		prev = alt
	}
	t.Fatal("altitude never jumped")
}

const script = `
loop: true
frames:
  - at: 10s
    alt_m: 1700
    vertical_mps: 5
  - at: 0s
    lat: 39.99995
    lon: -105.2345
    alt_m: 1650
  - at: 20s
    alt_m: 1750
    temp_c: -4
`

func TestReplay(t *testing.T) {
	s, err := ParseScript([]byte(script))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}

	start := time.Unix(0, 0)
	now := start
	r := NewReplay(s, func() time.Time { return now })

	tests := []struct {
		elapsed time.Duration
		alt     float64
	}{
		{0, 1650},
		{9 * time.Second, 1650},
		{10 * time.Second, 1700},
		{19 * time.Second, 1700},
		{20 * time.Second, 1650},
		{35 * time.Second, 1700},
	}
	for _, tt := range tests {
		now = start.Add(tt.elapsed)
		if got := r.Altitude(); got != tt.alt {
			t.Errorf("at %s Altitude = %v, want %v", tt.elapsed, got, tt.alt)
		}
	}

	now = start.Add(12 * time.Second)
	if r.VerticalSpeed() != 5 || r.Latitude() != 0 {
		t.Errorf("frame at 12s = %+v", r.Current())
	}
}

func TestReplayWithoutLoopHoldsLastFrame(t *testing.T) {
	s, err := ParseScript([]byte("frames:\n  - at: 1s\n    temp_c: 21\n  - at: 2s\n    temp_c: 22\n"))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	start := time.Unix(100, 0)
	now := start
	r := NewReplay(s, func() time.Time { return now })

	if got := r.Temperature(); got != 21 {
		t.Errorf("before first frame Temperature = %v, want 21", got)
	}
	now = start.Add(time.Hour)
	if got := r.Temperature(); got != 22 {
		t.Errorf("after last frame Temperature = %v, want 22", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	if _, err := ParseScript([]byte("loop: true\n")); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("empty script error = %v, want ErrEmptyScript", err)
	}
	if _, err := ParseScript([]byte("frames: [")); err == nil {
		t.Error("malformed YAML accepted")
	}
	if _, err := ParseScript([]byte("frames:\n  - at: -1s\n")); err == nil {
		t.Error("negative frame time accepted")
	}
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func TestHandlers(t *testing.T) {
	st := NewStore()

	FixHandler(st)(nil, fakeMessage{topic: "telemetry/gps", payload: []byte(`{"lat":39.9,"lon":-105.1,"validity":"A","speed_knots":2}`)})
	FixHandler(st)(nil, fakeMessage{topic: "telemetry/gps", payload: []byte(`not json`)})
	EnvHandler(st)(nil, fakeMessage{topic: "telemetry/env", payload: []byte(`{"temp_c":18.5,"pressure_pa":84000}`)})

	s := st.Snapshot()
	if s.Fixes != 1 || s.Latitude != 39.9 || s.Longitude != -105.1 {
		t.Errorf("fix not applied: %+v", s)
	}
	if s.Temperature != 18.5 || s.Pressure != 84000 {
		t.Errorf("sample not applied: %+v", s)
	}
}
