// Package record turns parsed documents and static page specs into
// complete, default-filled records.
package record

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ppiankov/folio/internal/model"
)

// Metadata keys consumed by the builder. Anything else lands in Record.Extra.
const (
	keyTitle      = "title"
	keyExcerpt    = "excerpt"
	keyCategory   = "category"
	keyAuthor     = "author"
	keyAuthorRole = "authorRole"
	keyDate       = "date"
	keyReadTime   = "readTime"
	keyImage      = "image"
	keyFeatured   = "featured"
	keyLayout     = "layout"
	keyType       = "type"
	keyTags       = "tags"
	keyWeight     = "weight"
)

// Builder produces records. The zero value uses the wall clock for the
// default date.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder that stamps undated records using now
func NewBuilder(now func() time.Time) *Builder {
	return &Builder{now: now}
}

func (b *Builder) defaults() model.Defaults {
	now := time.Now
	if b != nil && b.now != nil {
		now = b.now
	}
	return model.RequiredDefaults(now())
}

// Build merges coerced metadata with the defaults table. It never fails:
// missing or mistyped metadata falls back to defaults.
func (b *Builder) Build(meta map[string]model.Value, body, sourceID string, id int) model.Record {
	d := b.defaults()

	rec := model.Record{
		ID:         id,
		Title:      stringField(meta, keyTitle, d.Title),
		Excerpt:    stringField(meta, keyExcerpt, d.Excerpt),
		Category:   stringField(meta, keyCategory, d.Category),
		Author:     stringField(meta, keyAuthor, d.Author),
		AuthorRole: stringField(meta, keyAuthorRole, d.AuthorRole),
		Date:       stringField(meta, keyDate, d.Date),
		ReadTime:   stringField(meta, keyReadTime, d.ReadTime),
		Image:      stringField(meta, keyImage, d.Image),
		Featured:   boolField(meta, keyFeatured, d.Featured),
		Content:    body,
		Slug:       Slug(sourceID),
		Section:    Section(sourceID),
		Layout:     stringField(meta, keyLayout, model.DefaultLayout),
		Type:       stringField(meta, keyType, model.DefaultPostType),
		SourceID:   sourceID,
	}

	for k, v := range meta {
		switch k {
		case keyTitle, keyExcerpt, keyCategory, keyAuthor, keyAuthorRole,
			keyDate, keyReadTime, keyImage, keyFeatured, keyLayout, keyType:
			continue
		case keyTags:
			if v.Kind == model.KindList {
				rec.Tags = append([]string{}, v.List...)
				continue
			}
		case keyWeight:
			if v.Kind == model.KindNumber {
				w := v.Number
				rec.Weight = &w
				continue
			}
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]model.Value)
		}
		rec.Extra[k] = v
	}

	return rec
}

// BuildStatic produces the record for a static page
func (b *Builder) BuildStatic(spec model.StaticSpec, id int) model.Record {
	d := b.defaults()

	section := spec.Section
	if section == "" {
		section = model.DefaultSection
	}

	return model.Record{
		ID:         id,
		Title:      spec.Title,
		Excerpt:    d.Excerpt,
		Category:   model.PageCategory,
		Author:     d.Author,
		AuthorRole: d.AuthorRole,
		Date:       d.Date,
		ReadTime:   d.ReadTime,
		Image:      d.Image,
		Featured:   d.Featured,
		Content:    model.StaticPlaceholder,
		Slug:       spec.Slug,
		Section:    section,
		Layout:     model.DefaultLayout,
		Type:       model.DefaultPageType,
	}
}

// stringField accepts any scalar value using its source text; lists are
// not type-compatible with a string field.
func stringField(meta map[string]model.Value, key, def string) string {
	v, ok := meta[key]
	if !ok || v.Kind == model.KindList {
		return def
	}
	return v.Raw
}

func boolField(meta map[string]model.Value, key string, def bool) bool {
	v, ok := meta[key]
	if !ok || v.Kind != model.KindBool {
		return def
	}
	return v.Bool
}

// Slug returns the final path segment of a source identifier with its
// extension removed
func Slug(sourceID string) string {
	segments := pathSegments(sourceID)
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	return strings.TrimSuffix(last, path.Ext(last))
}

// Section returns the directory holding the source, or DefaultSection for
// sources with no parent directory
func Section(sourceID string) string {
	segments := pathSegments(sourceID)
	if len(segments) < 2 {
		return model.DefaultSection
	}
	return segments[len(segments)-2]
}

// pathSegments splits the path part of a file path or URL. Query strings
// and fragments of URLs are ignored.
func pathSegments(sourceID string) []string {
	p := sourceID
	if u, err := url.Parse(sourceID); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	p = strings.ReplaceAll(p, "\\", "/")

	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s == "" || s == "." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}
