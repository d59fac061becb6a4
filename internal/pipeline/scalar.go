package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ScalarKind identifies the canonical type of a normalized answer value.
type ScalarKind int

// Scalar kinds.
const (
	KindNull ScalarKind = iota
	KindBool
	KindNumber
	KindString
)

var errTrailingData = errors.New("trailing data after JSON value")

// MissingValue is displayed for absent or unusable scalar values.
const MissingValue = "-"

// Scalar is the canonical representation of an answer value.
// Text holds the display form for every non-null kind.
type Scalar struct {
	Kind ScalarKind
	Text string
	Bool bool
}

// IsTrue reports whether the scalar is the boolean true.
func (s Scalar) IsTrue() bool { return s.Kind == KindBool && s.Bool }

// IsFalse reports whether the scalar is the boolean false.
func (s Scalar) IsFalse() bool { return s.Kind == KindBool && !s.Bool }

// Display returns the unescaped display text, or MissingValue.
func (s Scalar) Display() string {
	if s.Kind == KindNull || strings.TrimSpace(s.Text) == "" {
		return MissingValue
	}
	return s.Text
}

// NormalizeValue converts a wire value into a Scalar.
//
// Accepted encodings, all equivalent:
//
//	45                     -> number 45
//	"45"                   -> string 45
//	{"value": 45}          -> number 45
//	"{\"value\": 45}"      -> number 45
//
// A string that is not JSON, or is JSON but not an object, is used verbatim.
// An object without a "value" member, an array, or null yields KindNull.
// Malformed input never fails: it is treated as a verbatim string.
func NormalizeValue(raw json.RawMessage) Scalar {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Scalar{}
	}

	v, err := decodeJSON(trimmed)
	if err != nil {
		return stringScalar(string(trimmed))
	}

	switch val := v.(type) {
	case string:
		return fromString(val)
	case map[string]any:
		return fromObject(val)
	default:
		return scalarOf(val)
	}
}

// fromString unwraps a JSON-encoded object carried inside a string.
func fromString(s string) Scalar {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return stringScalar(s)
	}

	v, err := decodeJSON([]byte(trimmed))
	if err != nil {
		return stringScalar(s)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return stringScalar(s)
	}
	return fromObject(obj)
}

func fromObject(obj map[string]any) Scalar {
	val, ok := obj["value"]
	if !ok {
		return Scalar{}
	}
	return scalarOf(val)
}

// scalarOf maps a decoded JSON value to a Scalar without unwrapping strings again.
func scalarOf(v any) Scalar {
	switch val := v.(type) {
	case bool:
		return Scalar{Kind: KindBool, Bool: val, Text: strconv.FormatBool(val)}
	case json.Number:
		return Scalar{Kind: KindNumber, Text: val.String()}
	case string:
		return stringScalar(val)
	default:
		return Scalar{}
	}
}

func stringScalar(s string) Scalar {
	return Scalar{Kind: KindString, Text: s}
}

// decodeJSON decodes a single JSON value, keeping numbers in their source form.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Trailing data means the input was not a single JSON value.
	if dec.More() {
		return nil, errTrailingData
	}
	return v, nil
}
