package extract

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/folio/internal/model"
)

// Coerce interprets a raw metadata value. Rules apply in order and the
// first match wins: boolean literal, finite number, bracketed list, string.
//
// Lists are split naively on commas; elements cannot contain a comma or a
// bracket since no escaping is supported.
func Coerce(raw string) model.Value {
	v := strings.TrimSpace(raw)

	switch v {
	case "true":
		return model.BoolValue(true)
	case "false":
		return model.BoolValue(false)
	}

	if n, ok := parseNumber(v); ok {
		return model.Value{Kind: model.KindNumber, Raw: v, Number: n}
	}

	if len(v) >= 2 && strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		return model.Value{Kind: model.KindList, Raw: v, List: splitList(v[1 : len(v)-1])}
	}

	return model.StringValue(v)
}

// CoerceAll coerces every value of a parsed metadata map
func CoerceAll(meta map[string]string) map[string]model.Value {
	out := make(map[string]model.Value, len(meta))
	for k, v := range meta {
		out[k] = Coerce(v)
	}
	return out
}

// parseNumber accepts non-empty decimal, exponent or hex-float literals
// without whitespace. NaN and infinities are not numbers here.
func parseNumber(v string) (float64, bool) {
	if v == "" || strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func splitList(inner string) []string {
	if strings.TrimSpace(inner) == "" {
		return []string{}
	}
	parts := strings.Split(inner, ",")
	items := make([]string, len(parts))
	for i, p := range parts {
		items[i] = strings.TrimSpace(p)
	}
	return items
}
