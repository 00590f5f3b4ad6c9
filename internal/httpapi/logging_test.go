package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	// query param ?log=debug
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	// shorthand ?log=1
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("shorthand query override failed: %v", got)
	}
	// header X-Log-Level
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
}

func withBufferLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := zlog
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { zlog = prev })
	return &buf
}

func TestRequestLogger_WritesStructuredLine(t *testing.T) {
	buf := withBufferLogger(t)
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/data?log=debug", nil))
	out := buf.String()
	if !strings.Contains(out, `"status":201`) || !strings.Contains(out, `"path":"/data"`) {
		t.Fatalf("unexpected log line: %q", out)
	}
	if !strings.Contains(out, `"query":"log=debug"`) {
		t.Fatalf("expected debug fields: %q", out)
	}
}

func TestRequestLogger_ErrorLevelSkipsSuccess(t *testing.T) {
	buf := withBufferLogger(t)
	ok := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("X-Log-Level", "error")
	ok.ServeHTTP(httptest.NewRecorder(), req)
	if buf.Len() != 0 {
		t.Fatalf("expected no log for 200 at error level, got %q", buf.String())
	}

	fail := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	fail.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestRequestLogger_OffLogsNothing(t *testing.T) {
	buf := withBufferLogger(t)
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?log=off", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSetDefaultLogLevel(t *testing.T) {
	prev := defaultLogLevel
	defer func() { defaultLogLevel = prev }()
	SetDefaultLogLevel("debug")
	if got := requestLogLevel(httptest.NewRequest("GET", "/x", nil)); got != LevelDebug {
		t.Fatalf("expected default debug, got %v", got)
	}
}
