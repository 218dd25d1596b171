// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

func field(s string) display.Field {
	f := display.BlankField()
	if err := f.PutString(s, display.FieldWidth, 0); err != nil {
		panic(err)
	}
	return f
}

func TestSegments(t *testing.T) {
	tests := []struct {
		text string
		want []byte
	}{
		{"ALTI", []byte{0x77, 0x38, 0x78, 0x30}},
		{"LONG", []byte{0x38, 0x3F, 0x54, 0x3D}},
		{" 23°", []byte{0x00, 0x5B, 0x4F, 0x63}},
		{"-1_0", []byte{0x40, 0x06, 0x08, 0x3F}},
		{"temp", []byte{0x78, 0x79, 0x37, 0x73}},
	}

	for _, tt := range tests {
		got, err := Segments(field(tt.text))
		if err != nil {
			t.Errorf("Segments(%q) error: %v", tt.text, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Segments(%q) = % x, want % x", tt.text, got, tt.want)
		}
	}
}

func TestSegmentsUnknownGlyph(t *testing.T) {
	if _, err := Segments(field("AB#D")); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("Segments error = %v, want ErrNoGlyph", err)
	}
}

func TestTerminalPrintsChangedFramesOnly(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	if err := term.Begin(3); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 0; i < 3; i++ {
		term.Clear()
		if err := term.ShowNumber(50, false, 4, 0); err != nil {
			t.Fatalf("ShowNumber: %v", err)
		}
	}
	term.Clear()
	if err := term.ShowString("VERT", 4, 0); err != nil {
		t.Fatalf("ShowString: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "[  50]"); n != 1 {
		t.Errorf("frame [  50] printed %d times, want 1:\n%s", n, out)
	}
	for _, want := range []string{"terminal: brightness 3", "[    ]", "[VERT]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFrameRejectsOutOfField(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	if err := term.ShowNumber(1, true, 2, 3); !errors.Is(err, display.ErrOutOfField) {
		t.Errorf("ShowNumber error = %v, want ErrOutOfField", err)
	}
}

type failingSink struct {
	display.Sink
	err error
}

func (f failingSink) ShowString(string, int, int) error { return f.err }

func TestTeeFansOut(t *testing.T) {
	var a, b bytes.Buffer
	boom := errors.New("boom")
	ta, tb := NewTerminal(&a), NewTerminal(&b)
	tee := Tee{ta, failingSink{Sink: NewTerminal(&bytes.Buffer{}), err: boom}, tb}

	if err := tee.Begin(1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tee.Clear()
	err := tee.ShowString("HORI", 4, 0)
	if !errors.Is(err, boom) {
		t.Errorf("ShowString error = %v, want boom", err)
	}
	for name, s := range map[string]*Terminal{"first": ta, "last": tb} {
		if got := s.Current().String(); got != "HORI" {
			t.Errorf("%s sink shows %q, want HORI", name, got)
		}
	}
}

func TestWebPushesFrames(t *testing.T) {
	web := NewWeb()
	srv := httptest.NewServer(web)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Registration happens before the first frame is written.
	var msg FrameMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("initial frame: %v", err)
	}

	if err := web.Begin(6); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	web.Clear()
	if err := web.ShowString("LATI", 4, 0); err != nil {
		t.Fatalf("ShowString: %v", err)
	}

	var texts []string
	for len(texts) < 2 {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		texts = append(texts, msg.Text)
	}
	if texts[0] != "    " || texts[1] != "LATI" {
		t.Errorf("frames = %q, want [\"    \" \"LATI\"]", texts)
	}
	if msg.Brightness != 6 {
		t.Errorf("brightness = %d, want 6", msg.Brightness)
	}
	if web.Clients() != 1 {
		t.Errorf("clients = %d, want 1", web.Clients())
	}
}

func TestContrastLevel(t *testing.T) {
	tests := []struct {
		brightness uint8
		want       byte
	}{
		{0, 0},
		{1, 36},
		{6, 216},
		{7, 0xFF},
	}
	for _, tt := range tests {
		if got := ContrastLevel(tt.brightness); got != tt.want {
			t.Errorf("ContrastLevel(%d) = %d, want %d", tt.brightness, got, tt.want)
		}
	}
}
