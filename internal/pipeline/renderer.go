package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/folio/internal/model"
)

// Output formats understood by Renderer
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Renderer writes collections and views
type Renderer struct {
	stdout io.Writer
}

// NewRenderer creates a renderer writing to os.Stdout when no path is given
func NewRenderer() *Renderer {
	return &Renderer{stdout: os.Stdout}
}

// Render writes col to path in format. An empty path or "-" means stdout.
func (r *Renderer) Render(col *model.Collection, format, path string) error {
	if path == "" || path == "-" {
		return r.Write(r.stdout, col, format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := r.Write(f, col, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write encodes col to w
func (r *Renderer) Write(w io.Writer, col *model.Collection, format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(col); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(col); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return WriteTable(w, col.Records)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or table)", format)
	}
}

// WriteTable prints one line per record
func WriteTable(w io.Writer, records []model.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tWEIGHT\tSECTION\tSLUG\tTITLE\tTAGS")
	for _, rec := range records {
		weight := "-"
		if rec.Weight != nil {
			weight = fmt.Sprintf("%g", *rec.Weight)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Date, weight, rec.SectionOrDefault(), rec.Slug, rec.Title, strings.Join(rec.Tags, ","))
	}
	return tw.Flush()
}

// WriteSections prints each section followed by its records
func WriteSections(w io.Writer, groups map[string][]model.Record) error {
	for _, name := range SectionNames(groups) {
		recs := groups[name]
		if _, err := fmt.Fprintf(w, "%s (%d)\n", name, len(recs)); err != nil {
			return err
		}
		for _, rec := range recs {
			if _, err := fmt.Fprintf(w, "  #%-5d %s  %s\n", rec.ID, rec.Date, rec.Title); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary prints run statistics and diagnostics to w
func WriteSummary(w io.Writer, col *model.Collection) {
	fmt.Fprintf(w, "Records:   %d\n", len(col.Records))
	fmt.Fprintf(w, "  Parsed:  %d of %d sources\n", col.Stats.Parsed, col.Stats.Sources)
	fmt.Fprintf(w, "  Static:  %d\n", col.Stats.Static)
	if col.Stats.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped: %d\n", col.Stats.Skipped)
	}
	for _, d := range col.Diagnostics {
		if d.Source != "" {
			fmt.Fprintf(w, "  [%s] %s: %s\n", d.Severity, d.Source, d.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", d.Severity, d.Message)
		}
	}
}
