package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	streamBuffer      = 16
	heartbeatInterval = 15 * time.Second
)

// handleEvents streams change events as server-sent events. Each event
// tells the client which layer to redraw.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	events, cancel := s.store.Subscribe(streamBuffer)
	defer cancel()
	s.metrics.EventStreams.Inc()
	defer s.metrics.EventStreams.Dec()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: revision\ndata: %d\n\n", s.store.Revision())
	if err := rc.Flush(); err != nil {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Error("marshal change event", "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: change\ndata: %s\n\n", e.Revision, data)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
