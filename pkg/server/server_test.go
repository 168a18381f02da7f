package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/stackgraph/pkg/compiler"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/layout"
	"github.com/matzehuels/stackgraph/pkg/observability"
	"github.com/matzehuels/stackgraph/pkg/pipeline"
	"github.com/matzehuels/stackgraph/pkg/render"
	"github.com/matzehuels/stackgraph/pkg/sizing"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

func newServer(opts Options) *Server {
	comp := &compiler.Compiler{
		Metrics: textmetrics.DefaultFixed,
		Sizing:  sizing.DefaultOptions(),
		Layout:  layout.DefaultOptions(),
		Theme:   render.DefaultTheme(),
	}
	return New(pipeline.NewRunner(nil, nil, comp, nil), opts)
}

func post(t *testing.T, s *Server, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestGraphSVG(t *testing.T) {
	s := newServer(Options{})
	rec := post(t, s, "/graph", "a(Start) --> b[End]")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`id="node-a"`)) {
		t.Error("response does not contain node a")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id")
	}
}

func TestGraphFormats(t *testing.T) {
	s := newServer(Options{})
	tests := []struct {
		format string
		ct     string
		prefix string
	}{
		{"png", "image/png", "\x89PNG"},
		{"jpeg", "image/jpeg", "\xff\xd8"},
		{"json", "application/json", "{"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := post(t, s, "/graph?format="+tt.format, "a --> b")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.ct {
				t.Errorf("Content-Type = %q, want %q", ct, tt.ct)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body starts with %.10q, want %q", rec.Body.String(), tt.prefix)
			}
		})
	}
}

func TestGraphErrors(t *testing.T) {
	s := newServer(Options{MaxBodyBytes: 64})
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   apperr.Code
	}{
		{"incomplete edge", "/graph", "a -->", http.StatusNotAcceptable, apperr.ErrCodeIncompleteEdge},
		{"syntax", "/graph", "a(Start", http.StatusNotAcceptable, apperr.ErrCodeSyntax},
		{"too large", "/graph", strings.Repeat("a --> b\n", 20), http.StatusRequestEntityTooLarge, apperr.ErrCodeTooLarge},
		{"empty", "/graph", "  ", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"bad format", "/graph?format=gif", "a", http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"bad engine", "/graph?engine=dagre", "a", http.StatusBadRequest, apperr.ErrCodeInvalidEngine},
		{"bad scale", "/graph?scale=big", "a", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if body := decodeError(t, rec); body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestGraphErrorMessage(t *testing.T) {
	s := newServer(Options{})
	rec := post(t, s, "/graph", "a -->")
	body := decodeError(t, rec)
	if !strings.Contains(body.Message, `edge from "a" is missing its target`) {
		t.Errorf("message = %q", body.Message)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(Options{Version: "v1.2.3"})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["version"] != "v1.2.3" {
		t.Errorf("health = %v", got)
	}
}

func TestNotFound(t *testing.T) {
	s := newServer(Options{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newServer(Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

type recordingHooks struct {
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newServer(Options{})
	post(t, s, "/graph", "a --> b")
	post(t, s, "/graph", "a -->")
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 406 {
		t.Errorf("statuses = %v, want [200 406]", hooks.statuses)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.ErrCodeSyntax, "x"), http.StatusNotAcceptable},
		{apperr.New(apperr.ErrCodeMeasurement, "x"), http.StatusNotAcceptable},
		{apperr.New(apperr.ErrCodeUnsupported, "x"), http.StatusBadRequest},
		{apperr.New(apperr.ErrCodeTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{apperr.New(apperr.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
