package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request within the window should be rejected")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(30 * time.Second)
	if !rl.Allow("a") {
		t.Error("a token should be refilled after half the window")
	}

	now = now.Add(2 * time.Hour)
	rl.Allow("c")
	if _, ok := rl.limiters["b"]; ok {
		t.Error("idle limiter should be swept")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	r := newEngine(RateLimit(1, time.Minute))
	if w := do(r, http.MethodPost, "/echo", "1"); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	w := do(r, http.MethodPost, "/echo", "2")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "TOO_MANY_REQUESTS") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDeduplication(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDeduplicator(time.Second)
	d.now = func() time.Time { return now }
	d.lastSweep = now
	r := newEngine(deduplicationWith(d))

	tests := []struct {
		name    string
		advance time.Duration
		body    string
		want    int
	}{
		{"first", 0, `{"a":1}`, http.StatusOK},
		{"same body", 100 * time.Millisecond, `{"a":1}`, http.StatusTooManyRequests},
		{"different body", 0, `{"a":2}`, http.StatusOK},
		{"after window", 2 * time.Second, `{"a":1}`, http.StatusOK},
	}
	for _, tt := range tests {
		now = now.Add(tt.advance)
		if w := do(r, http.MethodPost, "/echo", tt.body); w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	t.Parallel()

	r := newEngine(BodySizeLimit(8), Deduplication(time.Second))
	if w := do(r, http.MethodPost, "/echo", "small"); w.Code != http.StatusOK {
		t.Errorf("small body status = %d", w.Code)
	}
	w := do(r, http.MethodPost, "/echo", strings.Repeat("x", 64))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body status = %d, want 413", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := newEngine(Recovery())
	w := do(r, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	r := newEngine(Timeout(20 * time.Millisecond))
	w := do(r, http.MethodGet, "/slow", "")
	if w.Code != http.StatusGatewayTimeout || !strings.Contains(w.Body.String(), "GATEWAY_TIMEOUT") {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestLoggerAndMetricsPassThrough(t *testing.T) {
	t.Parallel()

	r := newEngine(Logger(), Metrics())
	if w := do(r, http.MethodPost, "/echo", "x"); w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("status = %d body = %q", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/nowhere", ""); w.Code != http.StatusNotFound {
		t.Errorf("unmatched status = %d", w.Code)
	}
}
