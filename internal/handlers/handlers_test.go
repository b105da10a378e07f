package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pihole-exporter/internal/collector"
	"pihole-exporter/internal/pihole"
)

// mockScraper scripts scrape outcomes for handler tests.
type mockScraper struct {
	text  string
	err   error
	block chan struct{}
	calls int
}

func (m *mockScraper) Scrape(_ context.Context) (string, error) {
	m.calls++
	if m.block != nil {
		<-m.block
	}
	return m.text, m.err
}

func TestMetricsSuccess(t *testing.T) {
	scraper := &mockScraper{text: "pihole_queries_total 1000\n"}
	h := New(scraper)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != contentTypeExposition {
		t.Errorf("Content-Type = %q, want %q", got, contentTypeExposition)
	}
	if !strings.Contains(rec.Body.String(), "pihole_queries_total 1000") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if scraper.calls != 1 {
		t.Errorf("scraper called %d times, want 1", scraper.calls)
	}
}

func TestMetricsUpstreamFailure(t *testing.T) {
	scraper := &mockScraper{
		err: &collector.ScrapeError{
			Reason: "unreachable",
			Err:    &pihole.FetchError{Kind: pihole.KindUnreachable},
		},
	}
	h := New(scraper)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if strings.Contains(rec.Body.String(), "pihole_") {
		t.Error("failure response must not contain metric output")
	}
	if !strings.Contains(rec.Body.String(), "scrape failed") {
		t.Errorf("body %q missing diagnostic", rec.Body.String())
	}
}

func TestHealthCheckIndependentOfScrape(t *testing.T) {
	// A scrape blocked on an unresponsive Pi-hole must not affect
	// /healthz.
	block := make(chan struct{})
	scraper := &mockScraper{text: "x", block: block}
	h := New(scraper)

	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := httptest.NewRecorder()
		h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	}()

	deadline := time.After(2 * time.Second)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "OK" {
		t.Errorf("healthz body = %q, want OK", got)
	}

	close(block)
	select {
	case <-done:
	case <-deadline:
		t.Fatal("blocked scrape never finished")
	}
}

func TestHealthCheckHeadRequest(t *testing.T) {
	h := New(&mockScraper{})
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD response should have no body, got %q", rec.Body.String())
	}
}

func TestGetVersion(t *testing.T) {
	h := New(&mockScraper{})
	rec := httptest.NewRecorder()
	h.GetVersion(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode version response: %v", err)
	}
	if _, ok := info["version"]; !ok {
		t.Error("version field missing")
	}
	if _, ok := info["goVersion"]; !ok {
		t.Error("goVersion field missing")
	}
}
