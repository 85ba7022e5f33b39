// Package web provides an HTTP status server for the headless-heartbeat
// daemon.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/headless/internal/status"
)

// Server serves the status endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server that reads state from the given tracker.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	running := "stopped"
	if snap.TimerRunning {
		running = "running"
	}
	lastBeat := "never"
	if !snap.LastBeat.IsZero() {
		lastBeat = snap.LastBeat.UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(w, "headless-heartbeat %s\n", snap.Config.Device)
	fmt.Fprintf(w, "uptime: %s\n", snap.Uptime().Truncate(time.Second))
	fmt.Fprintf(w, "timer: %s (interval %ds)\n", running, snap.IntervalSec)
	fmt.Fprintf(w, "beats: %d (last %s)\n", snap.Beats, lastBeat)
	fmt.Fprintf(w, "mqtt: connected=%t broker=%s\n", snap.MQTTConnected, snap.Config.Broker)
	if snap.IP != "" {
		fmt.Fprintf(w, "ip: %s (%s)\n", snap.IP, snap.Config.Iface)
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}
