package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/folio/internal/extract"
	"github.com/ppiankov/folio/internal/logger"
	"github.com/ppiankov/folio/internal/model"
	"github.com/ppiankov/folio/internal/record"
)

// Assembler drives parsing and record building across a list of sources
type Assembler struct {
	retriever Retriever
	builder   *record.Builder
	now       func() time.Time
}

// NewAssembler creates an assembler that reads sources through r
func NewAssembler(r Retriever) *Assembler {
	return &Assembler{
		retriever: r,
		builder:   record.NewBuilder(time.Now),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for default dates and timestamps
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	a.builder = record.NewBuilder(now)
	return a
}

// Assemble retrieves and parses each source in order, then appends the
// static pages. Parsed records get ids 1..n in processing order; sources
// that cannot be retrieved are skipped without consuming an id. Static
// records take ids from a separate range.
//
// Assemble never fails. An unexpected fault yields an empty collection
// carrying an error diagnostic.
func (a *Assembler) Assemble(ctx context.Context, sources []string, statics []model.StaticSpec) (col *model.Collection) {
	col = &model.Collection{
		GeneratedAt: a.now().UTC(),
		Records:     []model.Record{},
		Stats:       model.Stats{Sources: len(sources)},
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("assembly aborted: %v", r)
			col = &model.Collection{
				GeneratedAt: col.GeneratedAt,
				Records:     []model.Record{},
				Stats:       model.Stats{Sources: len(sources)},
				Diagnostics: []model.Diagnostic{{
					Severity: model.SeverityError,
					Message:  fmt.Sprintf("assembly aborted: %v", r),
				}},
			}
		}
	}()

	logger.Section("Assemble")

	nextID := 1
	for _, src := range sources {
		text, err := a.retriever.Retrieve(ctx, src)
		if err != nil {
			logger.Warn("skipping %s: %v", src, err)
			col.Diagnostics = append(col.Diagnostics, model.Diagnostic{
				Severity: model.SeverityWarning,
				Source:   src,
				Message:  fmt.Sprintf("retrieval failed: %v", err),
			})
			col.Stats.Skipped++
			continue
		}

		doc := extract.ParseDocument(text)
		rec := a.builder.Build(doc.Meta, doc.Body, src, nextID)
		logger.Debug("parsed %s -> #%d %q (%d metadata fields)", src, rec.ID, rec.Title, len(doc.Meta))

		col.Records = append(col.Records, rec)
		nextID++
	}
	col.Stats.Parsed = len(col.Records)

	base := StaticIDBase(col.Stats.Parsed)
	for i, spec := range statics {
		col.Records = append(col.Records, a.builder.BuildStatic(spec, base+i+1))
	}
	col.Stats.Static = len(statics)

	logger.Info("assembled %d records (%d parsed, %d skipped, %d static)",
		len(col.Records), col.Stats.Parsed, col.Stats.Skipped, col.Stats.Static)

	return col
}

// StaticIDBase returns the base id for static records given the number of
// parsed records. Static ids are base+1, base+2, ... and always exceed
// every parsed id.
func StaticIDBase(parsed int) int {
	base := model.StaticIDOffset
	for parsed >= base {
		base += model.StaticIDOffset
	}
	return base
}
