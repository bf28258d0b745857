package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/folio/internal/model"
)

// dateLayouts are tried in order when interpreting Record.Date
var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate interprets a record date as a calendar day
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// CompareRecords orders two records: by ascending weight when both carry
// one, otherwise by date, most recent first. A record with a weight
// compared against one without falls through to the date rule. If either
// date cannot be parsed the pair is equal.
func CompareRecords(a, b model.Record) int {
	if a.Weight != nil && b.Weight != nil {
		switch {
		case *a.Weight < *b.Weight:
			return -1
		case *a.Weight > *b.Weight:
			return 1
		default:
			return 0
		}
	}

	da, okA := ParseDate(a.Date)
	db, okB := ParseDate(b.Date)
	if !okA || !okB {
		return 0
	}
	switch {
	case da.After(db):
		return -1
	case da.Before(db):
		return 1
	default:
		return 0
	}
}

// SortRecords returns a sorted copy of records. The sort is stable, so
// pairs that compare equal (including unparsable dates) keep their input
// order.
func SortRecords(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareRecords(out[i], out[j]) < 0
	})
	return out
}
