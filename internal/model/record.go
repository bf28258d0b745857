package model

import "time"

// Record is the normalized unit produced per document or per static page.
// Required fields are always populated; Weight, Tags and Extra are present
// only when the source supplied them.
type Record struct {
	ID int `json:"id" yaml:"id"`

	Title      string `json:"title" yaml:"title"`
	Excerpt    string `json:"excerpt" yaml:"excerpt"`
	Category   string `json:"category" yaml:"category"`
	Author     string `json:"author" yaml:"author"`
	AuthorRole string `json:"authorRole" yaml:"authorRole"`
	Date       string `json:"date" yaml:"date"` // YYYY-MM-DD
	ReadTime   string `json:"readTime" yaml:"readTime"`
	Image      string `json:"image" yaml:"image"`
	Featured   bool   `json:"featured" yaml:"featured"`

	Content string   `json:"content,omitempty" yaml:"content,omitempty"`
	Slug    string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Section string   `json:"section,omitempty" yaml:"section,omitempty"`
	Layout  string   `json:"layout,omitempty" yaml:"layout,omitempty"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Weight  *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`

	// Extra holds metadata keys with no dedicated field
	Extra map[string]Value `json:"extra,omitempty" yaml:"extra,omitempty"`

	// SourceID is the identifier the record was built from (empty for static pages)
	SourceID string `json:"source,omitempty" yaml:"source,omitempty"`
}

// HasWeight reports whether the record carries an explicit priority
func (r Record) HasWeight() bool {
	return r.Weight != nil
}

// HasTag reports whether tag appears in the record's tags (exact match)
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SectionOrDefault returns the record's section, falling back to DefaultSection
func (r Record) SectionOrDefault() string {
	if r.Section == "" {
		return DefaultSection
	}
	return r.Section
}

// Collection is the result of one aggregation run
type Collection struct {
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Records     []Record     `json:"records" yaml:"records"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Stats       Stats        `json:"stats" yaml:"stats"`
}

// Stats summarizes an aggregation run
type Stats struct {
	Sources int `json:"sources" yaml:"sources"` // Source identifiers requested
	Parsed  int `json:"parsed" yaml:"parsed"`   // Records built from retrieved documents
	Skipped int `json:"skipped" yaml:"skipped"` // Sources that could not be retrieved
	Static  int `json:"static" yaml:"static"`   // Records from the static page table
}

// Diagnostic records a recoverable event observed during a run
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity" yaml:"severity"`
	Source   string             `json:"source,omitempty" yaml:"source,omitempty"`
	Message  string             `json:"message" yaml:"message"`
}

// DiagnosticSeverity indicates the importance of a diagnostic
type DiagnosticSeverity string

const (
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityError   DiagnosticSeverity = "error"
)
