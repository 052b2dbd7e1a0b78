package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// streamBuffer is how many snapshots a slow stream client may fall behind
// before further snapshots are dropped for it.
const streamBuffer = 4

// handleStream sends the current snapshot, then one server-sent event per
// published snapshot until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	// The server WriteTimeout would otherwise cut the stream after 10s.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	updates := make(chan domain.Snapshot, streamBuffer)
	unsubscribe := s.deps.Source.OnUpdate(func(snap domain.Snapshot) {
		select {
		case updates <- snap:
		default:
			s.deps.Metrics.SnapshotsDropped.Inc()
		}
	})
	defer unsubscribe()

	s.deps.Metrics.StreamClients.Inc()
	defer s.deps.Metrics.StreamClients.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	current, _ := s.deps.Source.Current()
	if err := writeEvent(w, current); err != nil {
		s.logger.Warn("stream write failed", "error", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closing:
			return
		case snap := <-updates:
			if err := writeEvent(w, snap); err != nil {
				s.logger.Debug("stream client gone", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
