package extract

import (
	"reflect"
	"testing"

	"github.com/ppiankov/folio/internal/model"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Value
	}{
		{"true", model.BoolValue(true)},
		{"false", model.BoolValue(false)},
		{"42", model.NumberValue(42)},
		{"-3.5", model.NumberValue(-3.5)},
		{"1e3", model.NumberValue(1000)},
		{"  7  ", model.NumberValue(7)},
		{"[a, b, c]", model.ListValue([]string{"a", "b", "c"})},
		{"[ bonsai ,tree]", model.ListValue([]string{"bonsai", "tree"})},
		{"[single]", model.ListValue([]string{"single"})},
		{"[]", model.ListValue([]string{})},
		{"[a,,b]", model.ListValue([]string{"a", "", "b"})},
		{"", model.StringValue("")},
		{"   ", model.StringValue("")},
		{"hello world", model.StringValue("hello world")},
		{"True", model.StringValue("True")},
		{"1 2", model.StringValue("1 2")},
		{"NaN", model.StringValue("NaN")},
		{"Inf", model.StringValue("Inf")},
		{"2024-01-15", model.StringValue("2024-01-15")},
		{"[unclosed", model.StringValue("[unclosed")},
		{"5 min read", model.StringValue("5 min read")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Coerce(tt.raw)
			if !got.Equal(tt.want) {
				t.Errorf("Coerce(%q) = %s %#v, want %s %#v", tt.raw, got.Kind, got.Interface(), tt.want.Kind, tt.want.Interface())
			}
		})
	}
}

func TestCoerce_ListDoesNotEscape(t *testing.T) {
	// Quoted commas still split: elements cannot contain commas
	got := Coerce(`["a, b", c]`)
	want := []string{`"a`, `b"`, "c"}
	if got.Kind != model.KindList || !reflect.DeepEqual(got.List, want) {
		t.Errorf("Coerce = %#v, want list %v", got, want)
	}
}

func TestCoerce_KeepsRawText(t *testing.T) {
	if got := Coerce("0042"); got.Kind != model.KindNumber || got.Raw != "0042" || got.Number != 42 {
		t.Errorf("unexpected value: %#v", got)
	}
}

func TestCoerceAll(t *testing.T) {
	got := CoerceAll(map[string]string{"a": "true", "b": "1", "c": "x"})
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	if got["a"].Kind != model.KindBool || got["b"].Kind != model.KindNumber || got["c"].Kind != model.KindString {
		t.Errorf("unexpected kinds: %v %v %v", got["a"].Kind, got["b"].Kind, got["c"].Kind)
	}
}
