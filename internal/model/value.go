package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind identifies the type carried by a Value
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindNumber
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Value is a metadata value after coercion. Exactly one of the typed fields
// is meaningful, selected by Kind. Raw keeps the trimmed source text.
type Value struct {
	Kind   ValueKind
	Raw    string
	Bool   bool
	Number float64
	List   []string
}

// StringValue returns a Value of kind string
func StringValue(s string) Value {
	return Value{Kind: KindString, Raw: s}
}

// BoolValue returns a Value of kind bool
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Raw: strconv.FormatBool(b), Bool: b}
}

// NumberValue returns a Value of kind number
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Raw: strconv.FormatFloat(n, 'f', -1, 64), Number: n}
}

// ListValue returns a Value of kind list
func ListValue(items []string) Value {
	return Value{Kind: KindList, Raw: "[" + strings.Join(items, ", ") + "]", List: items}
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	default:
		return v.Raw == o.Raw
	}
}

// Interface returns the payload as a plain Go value for serialization
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindList:
		return v.List
	default:
		return v.Raw
	}
}

// MarshalJSON encodes the payload without the kind envelope
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes the payload without the kind envelope
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}
