package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/folio/internal/model"
	"github.com/ppiankov/folio/internal/util"
	"github.com/ppiankov/folio/internal/worker"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
		MaxRetries:   3,
	}
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { fetchSleepFunc = orig })
}

const remoteDoc = "---\ntitle: Remote\n---\nFetched body"

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	text, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/posts/remote.md")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != remoteDoc {
		t.Errorf("Unexpected body: %q", text)
	}
}

func TestFetch_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		// "café" in Latin-1
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer server.Close()

	text, err := NewFetcher(testHTTPConfig()).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if text != "café" {
		t.Errorf("expected decoded text %q, got %q", "café", text)
	}
}

func TestFetch_OversizedBodyRejected(t *testing.T) {
	noSleep(t)

	doc := "---\ntitle: Big\nweight: 1\n---\n" + strings.Repeat("x", 100)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, doc)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 20

	text, err := NewFetcher(cfg).FetchWithRetry(context.Background(), server.URL)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got err=%v text=%q", err, text)
	}
	if text != "" {
		t.Errorf("expected no partial text, got %q", text)
	}
	if attempts.Load() != 1 {
		t.Errorf("oversized body should not be retried, got %d attempts", attempts.Load())
	}

	cfg.MaxBodyBytes = int64(len(doc))
	text, err = NewFetcher(cfg).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("body at the limit should be accepted: %v", err)
	}
	if text != doc {
		t.Errorf("unexpected body %q", text)
	}
}

func TestAssemble_SkipsOversizedRemoteSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "---\ntitle: Big\n---\n"+strings.Repeat("x", 100))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 20

	col := NewAssembler(NewFetcher(cfg)).Assemble(context.Background(), []string{server.URL + "/big.md"}, nil)
	if col.Stats.Parsed != 0 || col.Stats.Skipped != 1 {
		t.Errorf("expected oversized source to be skipped, stats %+v", col.Stats)
	}
	if len(col.Diagnostics) != 1 {
		t.Errorf("expected one diagnostic, got %+v", col.Diagnostics)
	}
}

func TestFetchWithRetry_CancelledDuringBackoff(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	orig := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
		cancel()
		return orig(ctx, time.Hour)
	}
	t.Cleanup(func() { fetchSleepFunc = orig })

	start := time.Now()
	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("backoff did not stop on cancellation")
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	text, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if text != remoteDoc {
		t.Errorf("Unexpected body: %q", text)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_NotFound(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("404 should not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	if _, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_RobotsDisallowed(t *testing.T) {
	var docHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		docHits.Add(1)
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	fetcher := NewFetcher(cfg)
	fetcher.WithRobots(util.NewRobotsChecker(fetcher.Client(), cfg.UserAgent, cfg.Timeout)).
		WithLimiter(worker.NewLimiter(0, 1))

	_, err := fetcher.Retrieve(context.Background(), server.URL+"/private/a.md")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}

	if _, err := fetcher.Retrieve(context.Background(), server.URL+"/posts/a.md"); err != nil {
		t.Fatalf("expected allowed fetch, got %v", err)
	}
	if docHits.Load() != 1 {
		t.Errorf("expected exactly one document request, got %d", docHits.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &statusError{Code: 503, Status: "503 Service Unavailable"}, true},
		{"500", &statusError{Code: 500, Status: "500 Internal Server Error"}, true},
		{"502", &statusError{Code: 502, Status: "502 Bad Gateway"}, true},
		{"429", &statusError{Code: 429, Status: "429 Too Many Requests"}, true},
		{"404", &statusError{Code: 404, Status: "404 Not Found"}, false},
		{"403", &statusError{Code: 403, Status: "403 Forbidden"}, false},
		{"connection refused", &transportError{err: errors.New("connection refused")}, true},
		{"cancelled", &transportError{err: context.Canceled}, false},
		{"request", fmt.Errorf("create request: invalid URL"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}
