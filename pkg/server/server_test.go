package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// newTestServer spins up a server on an httptest listener with its own
// registry so tests don't collide on the default one.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	s := New(&Config{
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Start()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Loop().Stop()
	})
	return s, ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func putValue(t *testing.T, url, body string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestGetUnsetKey(t *testing.T) {
	_, ts := newTestServer(t)

	var resp keyResponse
	status := getJSON(t, ts.URL+"/v1/keys/missing", &resp)

	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if resp.Exists || resp.Defined {
		t.Errorf("unset key reported exists=%v defined=%v", resp.Exists, resp.Defined)
	}
	if resp.Value != nil {
		t.Errorf("value = %v, want null", resp.Value)
	}
}

func TestPutThenGet(t *testing.T) {
	_, ts := newTestServer(t)

	if status := putValue(t, ts.URL+"/v1/keys/count", `{"value": 42}`); status != http.StatusNoContent {
		t.Fatalf("PUT status = %d", status)
	}

	var resp keyResponse
	getJSON(t, ts.URL+"/v1/keys/count", &resp)

	if !resp.Exists || !resp.Defined {
		t.Errorf("exists=%v defined=%v, want true/true", resp.Exists, resp.Defined)
	}
	// JSON numbers decode as float64.
	if resp.Value != float64(42) {
		t.Errorf("value = %v, want 42", resp.Value)
	}
}

func TestPutNullValue(t *testing.T) {
	_, ts := newTestServer(t)

	putValue(t, ts.URL+"/v1/keys/k", `{"value": "set"}`)
	putValue(t, ts.URL+"/v1/keys/k", `{"value": null}`)

	var resp keyResponse
	getJSON(t, ts.URL+"/v1/keys/k", &resp)

	// Overwriting with null is legal: the key exists but is undefined.
	if !resp.Exists {
		t.Error("null-set key should exist")
	}
	if resp.Defined {
		t.Error("null value should not be defined")
	}
}

func TestSetBagAndListKeys(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/keys", "application/json",
		strings.NewReader(`{"b": 2, "a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	var list struct {
		Keys []string `json:"keys"`
	}
	getJSON(t, ts.URL+"/v1/keys", &list)

	if len(list.Keys) != 2 || list.Keys[0] != "a" || list.Keys[1] != "b" {
		t.Errorf("keys = %v, want [a b]", list.Keys)
	}
}

func TestBadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	if status := putValue(t, ts.URL+"/v1/keys/k", `{not json`); status != http.StatusBadRequest {
		t.Errorf("bad body PUT status = %d", status)
	}

	resp, err := http.Post(ts.URL+"/v1/keys", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty bag POST status = %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	var health struct {
		Status string `json:"status"`
	}
	if status := getJSON(t, ts.URL+"/healthz", &health); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	putValue(t, ts.URL+"/v1/keys/a", `{"value": 1}`)
	putValue(t, ts.URL+"/v1/keys/a", `{"value": 2}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}

	text := string(body)
	if !strings.Contains(text, "ripple_sets_total 2") {
		t.Errorf("metrics missing sets_total 2:\n%s", text)
	}
	if !strings.Contains(text, "ripple_watchers 0") {
		t.Errorf("metrics missing watchers gauge:\n%s", text)
	}
}

func TestMetricsDisabled(t *testing.T) {
	s := New(&Config{
		MetricsDisabled: true,
		Registry:        prometheus.NewRegistry(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Start()
	ts := httptest.NewServer(s.Handler())
	defer func() {
		ts.Close()
		s.Loop().Stop()
	}()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("/metrics status = %d, want 404", resp.StatusCode)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{}).withDefaults()
	if cfg.Addr != ":8090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Registry == nil || cfg.Logger == nil {
		t.Error("registry/logger not defaulted")
	}

	var nilCfg *Config
	if got := nilCfg.withDefaults(); got == nil || got.Addr != ":8090" {
		t.Error("nil config not defaulted")
	}
}
