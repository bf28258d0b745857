// Package pipeline turns a list of source documents into a sorted record
// collection: retrieval, front matter parsing, record building, sorting
// and the derived views.
package pipeline

import (
	"context"

	"github.com/ppiankov/folio/internal/cache"
	"github.com/ppiankov/folio/internal/logger"
	"github.com/ppiankov/folio/internal/model"
	"github.com/ppiankov/folio/internal/util"
	"github.com/ppiankov/folio/internal/worker"
)

// Pipeline orchestrates a complete build
type Pipeline struct {
	assembler *Assembler
	renderer  *Renderer
	local     *FileRetriever
	config    *model.Config
}

// NewPipeline creates a pipeline whose retrievers are wired from cfg:
// local paths are read under Content.Root, http(s) sources go through the
// rate-limited fetcher, optionally behind robots.txt checks and the
// layered cache.
func NewPipeline(cfg *model.Config) *Pipeline {
	local := NewFileRetriever(cfg.Content.Root)

	fetcher := NewFetcher(cfg.HTTP).
		WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))
	if cfg.HTTP.RespectRobots {
		fetcher.WithRobots(util.NewRobotsChecker(fetcher.Client(), cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
	}

	var remote Retriever = fetcher
	if cfg.Cache.Enabled {
		remote = NewCachedRetriever(fetcher, cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
		logger.Debug("remote cache enabled at %s", cfg.Cache.Dir)
	}

	p := NewPipelineWithRetriever(cfg, &RouterRetriever{Local: local, Remote: remote})
	p.local = local
	return p
}

// NewPipelineWithRetriever creates a pipeline reading every source through r
func NewPipelineWithRetriever(cfg *model.Config, r Retriever) *Pipeline {
	return &Pipeline{
		assembler: NewAssembler(r),
		renderer:  NewRenderer(),
		config:    cfg,
	}
}

// Assembler exposes the underlying assembler, e.g. to pin its clock
func (p *Pipeline) Assembler() *Assembler {
	return p.assembler
}

// LocalPath resolves a local source identifier to a filesystem path. The
// second result is false for remote sources or pipelines without a file
// retriever.
func (p *Pipeline) LocalPath(sourceID string) (string, bool) {
	if p.local == nil || IsRemote(sourceID) {
		return "", false
	}
	return p.local.Path(sourceID), true
}

// Build assembles the sources plus the configured static pages and sorts
// the result
func (p *Pipeline) Build(ctx context.Context, sources []string) *model.Collection {
	col := p.assembler.Assemble(ctx, sources, p.config.StaticPages)
	col.Records = SortRecords(col.Records)
	return col
}

// Render writes col in the given format to path ("" or "-" is stdout)
func (p *Pipeline) Render(col *model.Collection, format, path string) error {
	return p.renderer.Render(col, format, path)
}
