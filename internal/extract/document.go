package extract

import "github.com/ppiankov/folio/internal/model"

// Document is a parsed source: coerced metadata plus body text
type Document struct {
	Meta map[string]model.Value
	Body string
}

// ParseDocument parses the metadata block and coerces each value
func ParseDocument(raw string) Document {
	meta, body := ParseFrontMatter(raw)
	return Document{
		Meta: CoerceAll(meta),
		Body: body,
	}
}
