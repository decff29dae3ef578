// Package api provides the read-only HTTP observation API and the
// WebSocket live view stream. It is the rendering collaborator's
// transport: every payload is a copy, with no mutation path back into
// the core.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/talgya/gridsweep/internal/engine"
)

// Server serves simulation state over HTTP.
type Server struct {
	Eng  *engine.Engine
	Port int

	mu   sync.RWMutex
	snap engine.RenderSnapshot

	stream *streamHub
}

// NewServer creates a server with an empty snapshot.
func NewServer(eng *engine.Engine, port int) *Server {
	return &Server{
		Eng:    eng,
		Port:   port,
		stream: newStreamHub(),
	}
}

// Publish stores the tick's snapshot and fans it out to live viewers.
// Called by the simulation loop once per tick.
func (s *Server) Publish(snap engine.RenderSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.stream.broadcast(snap)
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/watch", s.stream.handleWatch)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) snapshot() engine.RenderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, map[string]any{
		"tick":    snap.Tick,
		"outcome": snap.Outcome,
		"running": s.Eng != nil && s.Eng.Running,
		"stats":   snap.Stats,
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, map[string]any{
		"width":  snap.Width,
		"height": snap.Height,
		"cells":  snap.Cells,
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.snapshot().Agents)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
