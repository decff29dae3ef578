package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/talgya/gridsweep/internal/engine"
)

// streamHub pushes per-tick render snapshots to WebSocket viewers.
// A viewer that cannot keep up drops frames rather than stalling the
// simulation loop.
type streamHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*viewer]struct{}
}

type viewer struct {
	out chan engine.RenderSnapshot
}

func newStreamHub() *streamHub {
	return &streamHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local viewer default
		},
		conns: make(map[*viewer]struct{}),
	}
}

func (h *streamHub) broadcast(snap engine.RenderSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.conns {
		select {
		case v.out <- snap:
		default:
			// Slow viewer: skip this frame.
		}
	}
}

func (h *streamHub) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	v := &viewer{out: make(chan engine.RenderSnapshot, 4)}
	h.mu.Lock()
	h.conns[v] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	slog.Info("viewer connected", "viewers", n)

	defer func() {
		h.mu.Lock()
		delete(h.conns, v)
		h.mu.Unlock()
		conn.Close()
	}()

	// Discard anything the viewer sends; a read error ends the session.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap := <-v.out:
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
