// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/telemetry_display/internal/display"
)

const webWriteTimeout = 100 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// FrameMessage is the JSON pushed to websocket clients for every frame.
type FrameMessage struct {
	Text       string    `json:"text"`
	Brightness uint8     `json:"brightness"`
	Time       time.Time `json:"time"`
}

// Web pushes frames to browser clients over websockets. It serves as an
// http.Handler for the upgrade endpoint.
type Web struct {
	frame

	mu         sync.Mutex
	clients    map[*websocket.Conn]struct{}
	brightness uint8
	latest     FrameMessage
}

var _ display.Sink = (*Web)(nil)

func NewWeb() *Web {
	w := &Web{clients: make(map[*websocket.Conn]struct{})}
	w.frame = newFrame(w.broadcast)
	return w
}

func (w *Web) Begin(brightness uint8) error {
	w.mu.Lock()
	w.brightness = brightness
	w.mu.Unlock()

	w.cur = display.BlankField()
	w.resync()
	return w.commit()
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away. The latest frame is sent right after the upgrade.
func (w *Web) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	w.mu.Lock()
	w.clients[conn] = struct{}{}
	err = w.send(conn, w.latest)
	w.mu.Unlock()
	if err != nil {
		log.Printf("web: initial frame: %v", err)
	}
	log.Printf("web: client %s connected", r.RemoteAddr)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("web: websocket error: %v", err)
			}
			break
		}
	}

	w.mu.Lock()
	delete(w.clients, conn)
	w.mu.Unlock()
	log.Printf("web: client %s disconnected", r.RemoteAddr)
}

// Clients returns the number of connected clients.
func (w *Web) Clients() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Latest returns the last frame pushed.
func (w *Web) Latest() FrameMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

func (w *Web) broadcast(f display.Field) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.latest = FrameMessage{Text: f.String(), Brightness: w.brightness, Time: time.Now()}
	for conn := range w.clients {
		if err := w.send(conn, w.latest); err != nil {
			// A slow or dead client is dropped; the display loop keeps going.
			log.Printf("web: dropping client %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(w.clients, conn)
		}
	}
	return nil
}

// send must be called with w.mu held.
func (w *Web) send(conn *websocket.Conn, msg FrameMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(webWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (w *Web) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for conn := range w.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "display stopped"),
			time.Now().Add(webWriteTimeout))
		conn.Close()
		delete(w.clients, conn)
	}
	return nil
}
