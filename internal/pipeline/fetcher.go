package pipeline

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/folio/internal/logger"
	"github.com/ppiankov/folio/internal/model"
	"github.com/ppiankov/folio/internal/util"
	"github.com/ppiankov/folio/internal/worker"
)

// fetchSleepFunc waits out a backoff, returning early with ctx's error.
// Tests replace it to skip delays.
var fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

const baseBackoff = 500 * time.Millisecond

// Fetcher retrieves source documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewFetcher creates a new Fetcher with the given configuration. Rate
// limiting and robots.txt checks are off until attached.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via --insecure
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: maxRetries,
	}
}

// WithLimiter paces requests per host
func (f *Fetcher) WithLimiter(l *worker.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// WithRobots checks robots.txt before each fetch
func (f *Fetcher) WithRobots(r *util.RobotsChecker) *Fetcher {
	f.robots = r
	return f
}

// Client returns the underlying HTTP client
func (f *Fetcher) Client() *http.Client {
	return f.httpClient
}

// Retrieve implements Retriever
func (f *Fetcher) Retrieve(ctx context.Context, sourceID string) (string, error) {
	return f.FetchWithRetry(ctx, sourceID)
}

// statusError is returned for non-2xx responses
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Unwrap maps gone/missing responses to ErrNotFound
func (e *statusError) Unwrap() error {
	if e.Code == http.StatusNotFound || e.Code == http.StatusGone {
		return ErrNotFound
	}
	return nil
}

// FetchWithRetry fetches rawURL, retrying transient failures with
// exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			logger.Debug("retrying %s in %v (attempt %d/%d): %v", rawURL, backoff, attempt+1, f.maxRetries, lastErr)
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return "", err
			}
		}

		if f.limiter != nil {
			if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
				return "", err
			}
		}

		text, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return "", err
		}
	}

	return "", lastErr
}

// Fetch performs a single GET and returns the decoded body
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/markdown,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// One byte past the limit tells an oversized body from one that fits
	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", &transportError{err: fmt.Errorf("read body: %w", err)}
	}
	if f.maxBytes > 0 && int64(len(raw)) > f.maxBytes {
		return "", fmt.Errorf("%s: body exceeds %d bytes: %w", rawURL, f.maxBytes, ErrTooLarge)
	}

	// Decode to UTF-8 using the Content-Type charset or content sniffing
	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	return string(data), nil
}

// transportError wraps failures below HTTP (DNS, connection reset)
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "fetch: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// isRetryableFetchError reports whether err is worth another attempt:
// server errors, 429, and transport failures other than cancellation
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}

	var te *transportError
	if errors.As(err, &te) {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}

	return false
}
