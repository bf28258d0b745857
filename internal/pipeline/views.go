package pipeline

import (
	"sort"

	"github.com/ppiankov/folio/internal/model"
)

// GroupBySection buckets records by section, keeping collection order
// within each bucket. Records without a section go to the default one.
func GroupBySection(records []model.Record) map[string][]model.Record {
	groups := make(map[string][]model.Record)
	for _, r := range records {
		section := r.SectionOrDefault()
		groups[section] = append(groups[section], r)
	}
	return groups
}

// SectionNames returns the keys of groups in lexical order
func SectionNames(groups map[string][]model.Record) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterByTag returns the records tagged with tag. Matching is exact and
// case-sensitive; untagged records never match.
func FilterByTag(records []model.Record, tag string) []model.Record {
	out := []model.Record{}
	for _, r := range records {
		if r.HasTag(tag) {
			out = append(out, r)
		}
	}
	return out
}
