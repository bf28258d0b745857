package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: Folio\nDisallow: /drafts/\nCrawl-delay: 2\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Folio/0.1 (+https://example.com)", 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/posts/a.md")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("expected /posts/a.md to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/drafts/b.md")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if allowed {
		t.Error("expected /drafts/b.md to be disallowed")
	}

	if robotsHits.Load() != 1 {
		t.Errorf("expected robots.txt fetched once, got %d", robotsHits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Folio/0.1", 5*time.Second)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything.md")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("expected missing robots.txt to allow fetching")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Folio/0.1 (+https://github.com/ppiankov/folio)", "Folio"},
		{"curl/8.0", "curl"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
