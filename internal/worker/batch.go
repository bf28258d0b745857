package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/folio/internal/model"
)

// CollectionBuilder builds one collection from an ordered source list
type CollectionBuilder interface {
	Build(ctx context.Context, sources []string) *model.Collection
}

// ManifestJob builds the collection described by one manifest file
type ManifestJob struct {
	Index    int
	Manifest string
	Builder  CollectionBuilder
}

// Execute reads the manifest and runs a full build. Sources inside the
// manifest are retrieved sequentially by the builder.
func (j *ManifestJob) Execute(ctx context.Context) Result {
	sources, err := ReadManifest(j.Manifest)
	if err != nil {
		return &ManifestResult{Index: j.Index, Manifest: j.Manifest, Error: err}
	}
	return &ManifestResult{
		Index:      j.Index,
		Manifest:   j.Manifest,
		Collection: j.Builder.Build(ctx, sources),
	}
}

// ManifestResult is the outcome of a ManifestJob
type ManifestResult struct {
	Index      int
	Manifest   string
	Collection *model.Collection
	Error      error
}

// GetError returns the error from the job
func (r *ManifestResult) GetError() error {
	return r.Error
}

// BatchProcessor builds several independent collections concurrently
type BatchProcessor struct {
	builder     CollectionBuilder
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(builder CollectionBuilder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		builder:     builder,
		concurrency: concurrency,
	}
}

// ProcessManifests builds one collection per manifest. Results are
// returned in manifest order.
func (b *BatchProcessor) ProcessManifests(ctx context.Context, manifests []string) []*ManifestResult {
	if len(manifests) == 0 {
		return []*ManifestResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, m := range manifests {
		pool.Submit(&ManifestJob{Index: i, Manifest: m, Builder: b.builder})
	}

	results := pool.Wait()

	out := make([]*ManifestResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ManifestResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}

// ReadManifest reads source identifiers from a file, one per line.
// Blank lines and lines starting with # are skipped; repeated sources are
// kept once, at their first position.
func ReadManifest(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return sources, nil
}
