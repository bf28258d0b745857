package model

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", StringValue("x"), StringValue("x"), true},
		{"kind differs", StringValue("true"), BoolValue(true), false},
		{"number by value", Value{Kind: KindNumber, Raw: "2.0", Number: 2}, NumberValue(2), true},
		{"list order", ListValue([]string{"a", "b"}), ListValue([]string{"b", "a"}), false},
		{"empty lists", ListValue([]string{}), ListValue(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordExtraSerializesPayloads(t *testing.T) {
	rec := Record{
		ID:    1,
		Title: "Post",
		Extra: map[string]Value{
			"draft":    BoolValue(true),
			"priority": NumberValue(3.5),
			"aliases":  ListValue([]string{"a", "b"}),
			"subtitle": StringValue("hello"),
		},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded struct {
		Extra map[string]any `json:"extra"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Extra["draft"] != true || decoded.Extra["priority"] != 3.5 || decoded.Extra["subtitle"] != "hello" {
		t.Errorf("unexpected extra: %v", decoded.Extra)
	}
	if list, ok := decoded.Extra["aliases"].([]any); !ok || len(list) != 2 {
		t.Errorf("aliases not a list: %v", decoded.Extra["aliases"])
	}

	out, err := yaml.Marshal(rec)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var y struct {
		Extra map[string]any `yaml:"extra"`
	}
	if err := yaml.Unmarshal(out, &y); err != nil {
		t.Fatal(err)
	}
	if y.Extra["draft"] != true || y.Extra["priority"] != 3.5 {
		t.Errorf("unexpected yaml extra: %v", y.Extra)
	}
}

func TestRecordHelpers(t *testing.T) {
	w := 1.0
	rec := Record{Tags: []string{"go"}, Weight: &w}
	if !rec.HasWeight() || !rec.HasTag("go") || rec.HasTag("Go") {
		t.Error("unexpected tag or weight helpers result")
	}
	if rec.SectionOrDefault() != DefaultSection {
		t.Errorf("expected default section, got %q", rec.SectionOrDefault())
	}
}
