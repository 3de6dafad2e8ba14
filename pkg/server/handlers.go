package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ripple-state/ripple/pkg/ripple"
)

// keyResponse is the JSON shape for a single property read. Value is null
// both for never-set and nil-valued properties; Exists tells them apart and
// Defined reports whether reactions would see the value.
type keyResponse struct {
	Key     string `json:"key"`
	Exists  bool   `json:"exists"`
	Defined bool   `json:"defined"`
	Value   any    `json:"value"`
}

// setRequest is the JSON body for PUT /v1/keys/{key}.
type setRequest struct {
	Value any `json:"value"`
}

// errorResponse is the JSON shape for request failures.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"keys": s.store.Keys()})
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	v := s.store.Get(key)
	resp := keyResponse{
		Key:     key,
		Exists:  v != ripple.Undefined,
		Defined: ripple.Defined(v),
	}
	if resp.Exists {
		resp.Value = v
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Apply on the loop so listeners and reactions see single-threaded
	// semantics; Call returns once the listener round has completed.
	if !s.loop.Call(func() { s.store.Set(key, req.Value) }) {
		writeError(w, http.StatusServiceUnavailable, "event loop unavailable")
		return
	}

	s.logger.Debug("property set", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetBag(w http.ResponseWriter, r *http.Request) {
	var bag map[string]any
	if err := json.NewDecoder(r.Body).Decode(&bag); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(bag) == 0 {
		writeError(w, http.StatusBadRequest, "empty bag")
		return
	}

	if !s.loop.Call(func() { s.store.SetMany(bag) }) {
		writeError(w, http.StatusServiceUnavailable, "event loop unavailable")
		return
	}

	s.logger.Debug("property bag set", "keys", len(bag))
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
