package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ripple-state/ripple/pkg/ripple"
)

// watchWriteTimeout bounds a single frame write to a watch client.
const watchWriteTimeout = 10 * time.Second

// watchFrame is one coalesced reaction firing pushed to a watch client.
// Values are the settled dependency values, in Keys order.
type watchFrame struct {
	Keys   []string `json:"keys"`
	Values []any    `json:"values"`
}

// handleWatch upgrades to WebSocket and streams reaction firings for the
// requested dependency keys. One frame is pushed per qualifying burst; no
// frame is sent while any dependency is undefined.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	keys := splitKeys(r.URL.Query().Get("keys"))
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "missing keys parameter")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Debug("watch upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Serializes frame writes; the reaction runs on the loop goroutine
	// while control frames go out from this one.
	var writeMu sync.Mutex

	var handle *ripple.Handle
	registered := s.loop.Call(func() {
		handle = s.store.When(keys, func(values []any) {
			writeMu.Lock()
			defer writeMu.Unlock()
			conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteJSON(watchFrame{Keys: keys, Values: values}); err != nil {
				s.logger.Debug("watch write failed", "err", err)
			}
		}, ripple.WhenName("watch"))
	})
	if !registered {
		return
	}
	defer handle.Stop()

	if s.metrics != nil {
		s.metrics.watchers.Inc()
		defer s.metrics.watchers.Dec()
	}
	s.logger.Info("watch opened", "keys", strings.Join(keys, ","))

	// Drain the connection; client frames carry no meaning, reads only
	// detect close.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	s.logger.Info("watch closed", "keys", strings.Join(keys, ","))
}

// splitKeys parses the comma-separated keys query parameter.
func splitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}
