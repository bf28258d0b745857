package model

// StaticIDOffset is the base of the id range reserved for static pages.
// Parsed records count up from 1 and never reach it in normal use; the
// assembler raises the base further if they would.
const StaticIDOffset = 1000

// StaticPlaceholder is the body of a static page record
const StaticPlaceholder = "This page is coming soon."

// StaticSpec describes a page that exists without a source document
type StaticSpec struct {
	Title   string `json:"title" yaml:"title" mapstructure:"title"`
	Slug    string `json:"slug" yaml:"slug" mapstructure:"slug"`
	Section string `json:"section,omitempty" yaml:"section,omitempty" mapstructure:"section"`
}

// DefaultStaticPages returns the built-in static page table
func DefaultStaticPages() []StaticSpec {
	return []StaticSpec{
		{Title: "About", Slug: "about", Section: "pages"},
		{Title: "Contact", Slug: "contact", Section: "pages"},
		{Title: "Privacy Policy", Slug: "privacy", Section: "legal"},
		{Title: "Terms of Service", Slug: "terms", Section: "legal"},
	}
}
