package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusBadGateway)
	rw.WriteHeader(http.StatusOK) // second call must be ignored
	if _, err := rw.Write([]byte("bad gateway")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rw.statusCode != http.StatusBadGateway {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusBadGateway)
	}
	if rw.bytesWritten != int64(len("bad gateway")) {
		t.Errorf("bytesWritten = %d, want %d", rw.bytesWritten, len("bad gateway"))
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("recorded code = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestLoggerSkipsHealthChecks(t *testing.T) {
	called := false
	handler := Logger(LoggingConfig{LogHealthChecks: false})(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("wrapped handler was not invoked")
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"carriage\rreturn", "carriage return"},
		{"null\x00byte", "nullbyte"},
		{"ansi\x1b[31mred", "ansi[31mred"},
		{"tab\tok", "tab\tok"},
	}
	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	if got := clientIP(req); got != "192.0.2.10" {
		t.Errorf("clientIP = %q, want %q", got, "192.0.2.10")
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP with X-Forwarded-For = %q, want %q", got, "203.0.113.7")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	handler := Metrics()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
