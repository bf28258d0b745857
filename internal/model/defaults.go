package model

import "time"

// Fallback literals applied when a source omits a field
const (
	DefaultSection    = "blog"
	DefaultLayout     = "single"
	DefaultPostType   = "post"
	DefaultPageType   = "page"
	DefaultTitle      = "Untitled"
	DefaultExcerpt    = ""
	DefaultCategory   = "General"
	DefaultAuthor     = "Admin"
	DefaultAuthorRole = ""
	DefaultReadTime   = "5 min read"
	DefaultImage      = "/placeholder.svg"
	DefaultFeatured   = false

	// PageCategory replaces DefaultCategory on static page records
	PageCategory = "Page"

	// DateLayout is the format of Record.Date
	DateLayout = "2006-01-02"
)

// Defaults is the table of required-field fallbacks. Date is resolved
// against a clock so a run stamps every undated record with the same day.
type Defaults struct {
	Title      string
	Excerpt    string
	Category   string
	Author     string
	AuthorRole string
	Date       string
	ReadTime   string
	Image      string
	Featured   bool
}

// RequiredDefaults returns the defaults table for the given day
func RequiredDefaults(now time.Time) Defaults {
	return Defaults{
		Title:      DefaultTitle,
		Excerpt:    DefaultExcerpt,
		Category:   DefaultCategory,
		Author:     DefaultAuthor,
		AuthorRole: DefaultAuthorRole,
		Date:       now.Format(DateLayout),
		ReadTime:   DefaultReadTime,
		Image:      DefaultImage,
		Featured:   DefaultFeatured,
	}
}
