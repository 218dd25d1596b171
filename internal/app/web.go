package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/relabs-tech/telemetry_display/internal/sink"
	"github.com/relabs-tech/telemetry_display/internal/telemetry"
)

// newWebHandler serves the display mirror and the telemetry snapshot.
// Either argument may be nil, in which case its endpoints are not mounted.
func newWebHandler(web *sink.Web, store *telemetry.Store) http.Handler {
	mux := http.NewServeMux()

	if web != nil {
		// Websocket endpoint: every frame the display shows
		mux.Handle("/ws", web)

		// JSON API endpoint: the frame on the display right now
		mux.HandleFunc("/api/display", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, web.Latest())
		})
	}

	if store != nil {
		// JSON API endpoint: latest readings
		mux.HandleFunc("/api/telemetry", func(w http.ResponseWriter, r *http.Request) {
			s := store.Snapshot()
			if s.Fixes == 0 && s.Samples == 0 {
				http.Error(w, "no data yet", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, s)
		})
	}

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// serveWeb runs the HTTP server until ctx is done.
func serveWeb(ctx context.Context, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("web: server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
