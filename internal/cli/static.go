package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/folio/internal/model"
)

// staticFile is the document shape of a --static file
type staticFile struct {
	Pages []model.StaticSpec `yaml:"pages"`
}

// LoadStaticPages reads a static page table:
//
//	pages:
//	  - title: About
//	    slug: about
//	    section: pages
func LoadStaticPages(path string) ([]model.StaticSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read static pages: %w", err)
	}

	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse static pages: %w", err)
	}

	for i, p := range f.Pages {
		if p.Title == "" || p.Slug == "" {
			return nil, fmt.Errorf("static page %d: title and slug are required", i+1)
		}
	}
	return f.Pages, nil
}
