package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, asString(c.Value(requestIDKey))) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	gen := w.Header().Get(requestIDHeader)
	if len(gen) != 36 || w.Body.String() != gen {
		t.Fatalf("generated id %q body %q", gen, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "client-rid")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "client-rid" {
		t.Fatalf("incoming id not propagated")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("oversized id should be replaced, got %q", got)
	}
}

func TestRecovery_JSON500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["code"] != "internal_error" || body["request_id"] != "rid-1" {
		t.Fatalf("unexpected body %v", body)
	}
	entry := lastLogLine(t, buf)
	if entry["message"] != "panic recovered" || entry["request_id"] != "rid-1" {
		t.Fatalf("unexpected log %v", entry)
	}
}

func TestRecovery_AfterWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_ = withCapturedLogger(t)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	if w.Body.String() != "partial" {
		t.Fatalf("body should be left as written, got %q", w.Body.String())
	}
}

func TestLoggerFrom_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(requestIDKey, "rid-x")
	LoggerFrom(c).Info().Msg("hello")
	if entry := lastLogLine(t, buf); entry["request_id"] != "rid-x" {
		t.Fatalf("fallback logger should carry request id: %v", entry)
	}

	c.Set(loggerKey, "not a logger")
	if LoggerFrom(c) == nil {
		t.Fatalf("LoggerFrom must never return nil")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("abc", 0) != "abc" || truncate("abc", 3) != "abc" {
		t.Fatalf("no-op cases failed")
	}
	if got := truncate("abcdef", 2); got != "ab…" {
		t.Fatalf("truncate = %q", got)
	}
}
