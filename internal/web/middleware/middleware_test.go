package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"no trusted proxies ignores header", nil, "203.0.113.9:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.9:1234"},
		{"trusted proxy uses X-Real-IP", []string{"10.0.0.0/8"}, "10.1.2.3:5555", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted proxy uses first XFF hop", []string{"10.0.0.0/8"}, "10.1.2.3:5555", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.1.2.3"}, "5.6.7.8"},
		{"bare address entry", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"untrusted proxy", []string{"10.0.0.0/8"}, "192.168.1.1:80", map[string]string{"X-Real-IP": "1.2.3.4"}, "192.168.1.1:80"},
		{"invalid header value", []string{"10.0.0.0/8"}, "10.0.0.1:80", map[string]string{"X-Real-IP": "not-an-ip"}, "10.0.0.1:80"},
		{"invalid cidr skipped", []string{"bogus", "10.0.0.0/8"}, "10.0.0.1:80", map[string]string{"X-Real-IP": "4.4.4.4"}, "4.4.4.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	if got := ClientIP(req); got != "::1" {
		t.Errorf("ClientIP() = %q, want %q", got, "::1")
	}
	req.RemoteAddr = "1.2.3.4"
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Errorf("ClientIP() = %q, want %q", got, "1.2.3.4")
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(60, 2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("a") {
		t.Error("third request within the burst window should be rejected")
	}
	if !rl.Allow("b") {
		t.Error("a different IP has its own bucket")
	}
	if got := rl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(10, 0)
	rl.Allow("old")
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)
	rl.Allow("new")

	if n := rl.Prune(cutoff); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if got := rl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	rejected := 0
	h := rl.Handler(func(w http.ResponseWriter, r *http.Request) {
		rejected++
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "7.7.7.7:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "6" {
			t.Errorf("Retry-After = %q, want %q", rec.Header().Get("Retry-After"), "6")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
	if rejected != 1 {
		t.Errorf("reject called %d times, want 1", rejected)
	}
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg, "/metrics")
	if err != nil {
		t.Fatalf("NewHTTPMetrics() error = %v", err)
	}

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/files/{id}", okHandler)
	r.Get("/metrics", okHandler)

	for _, path := range []string{"/files/a", "/files/b", "/metrics", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/files/{id}", "200")); got != 2 {
		t.Errorf("requests{/files/{id}} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("requests{unmatched} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.requests); got != 2 {
		t.Errorf("request series = %d, want 2 (metrics path excluded)", got)
	}

	if _, err := NewHTTPMetrics(reg, "/metrics"); err == nil {
		t.Error("registering twice on the same registry should fail")
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, csp := range []bool{true, false} {
		rec := httptest.NewRecorder()
		SecurityHeaders(csp)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("missing X-Content-Type-Options")
		}
		if got := rec.Header().Get("Content-Security-Policy") != ""; got != csp {
			t.Errorf("CSP present = %v, want %v", got, csp)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	req := httptest.NewRequest(http.MethodGet, "/files/x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "path=/files/x", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
