package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/folio/internal/cache"
	"github.com/ppiankov/folio/internal/logger"
)

var (
	// ErrNotFound indicates the source does not exist
	ErrNotFound = errors.New("source not found")
	// ErrDisallowed indicates robots.txt forbids fetching the source
	ErrDisallowed = errors.New("source disallowed by robots.txt")
	// ErrTooLarge indicates the source exceeds the configured size limit
	ErrTooLarge = errors.New("source too large")
)

// Retriever returns the full text of a source document. Any error means
// the source is unavailable and will be skipped.
type Retriever interface {
	Retrieve(ctx context.Context, sourceID string) (string, error)
}

// RetrieverFunc adapts a function to the Retriever interface
type RetrieverFunc func(ctx context.Context, sourceID string) (string, error)

// Retrieve calls f
func (f RetrieverFunc) Retrieve(ctx context.Context, sourceID string) (string, error) {
	return f(ctx, sourceID)
}

// FileRetriever reads sources from the local filesystem. Relative source
// identifiers are resolved against Root.
type FileRetriever struct {
	Root string
}

// NewFileRetriever creates a file retriever rooted at root
func NewFileRetriever(root string) *FileRetriever {
	return &FileRetriever{Root: root}
}

// Retrieve reads the file named by sourceID
func (r *FileRetriever) Retrieve(ctx context.Context, sourceID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(r.Path(sourceID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", sourceID, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", sourceID, err)
	}
	return string(data), nil
}

// Path returns the filesystem path for sourceID
func (r *FileRetriever) Path(sourceID string) string {
	p := filepath.FromSlash(sourceID)
	if filepath.IsAbs(p) || r.Root == "" {
		return p
	}
	return filepath.Join(r.Root, p)
}

// CachedRetriever serves repeated retrievals from a cache
type CachedRetriever struct {
	next  Retriever
	cache cache.Cache
}

// NewCachedRetriever wraps next with c
func NewCachedRetriever(next Retriever, c cache.Cache) *CachedRetriever {
	return &CachedRetriever{next: next, cache: c}
}

// Retrieve returns the cached text for sourceID, retrieving it on a miss.
// Failures are never cached.
func (r *CachedRetriever) Retrieve(ctx context.Context, sourceID string) (string, error) {
	key := cache.CacheKey(sourceID)
	if data, ok := r.cache.Get(key); ok {
		logger.Debug("cache hit: %s", sourceID)
		return string(data), nil
	}

	text, err := r.next.Retrieve(ctx, sourceID)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(key, []byte(text), 0); err != nil {
		logger.Warn("cache write failed for %s: %v", sourceID, err)
	}
	return text, nil
}

// RouterRetriever sends http(s) sources to Remote and everything else to Local
type RouterRetriever struct {
	Local  Retriever
	Remote Retriever
}

// Retrieve dispatches on the source scheme
func (r *RouterRetriever) Retrieve(ctx context.Context, sourceID string) (string, error) {
	if IsRemote(sourceID) {
		if r.Remote == nil {
			return "", fmt.Errorf("%s: remote retrieval not configured", sourceID)
		}
		return r.Remote.Retrieve(ctx, sourceID)
	}
	if r.Local == nil {
		return "", fmt.Errorf("%s: local retrieval not configured", sourceID)
	}
	return r.Local.Retrieve(ctx, sourceID)
}

// IsRemote reports whether sourceID is an http or https URL
func IsRemote(sourceID string) bool {
	lower := strings.ToLower(sourceID)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
