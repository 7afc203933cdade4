package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode/utf16"
)

// ErrNotObject is returned when a document's top level is not a JSON object.
var ErrNotObject = errors.New("document is not an object")

// Value is a sealed interface over the JSON value kinds.
// Only Null, String, Number, Bool, Array and Object implement it.
type Value interface {
	wireValue()
}

// Null is the JSON null literal.
type Null struct{}

func (Null) wireValue() {}

// String is a JSON string.
type String string

func (String) wireValue() {}

// Number holds the literal text of a JSON number.
// Keeping the text avoids float64 rounding of large integers.
type Number string

func (Number) wireValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) wireValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) wireValue() {}

// Object maps member names to values.
// Iterate with SortedKeys for deterministic order.
type Object map[string]Value

func (Object) wireValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units, not UTF-8 bytes).
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Parse decodes a single JSON document into a Value.
// Numbers keep their literal text; trailing data after the document is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after document")
	}

	return FromAny(raw)
}

// ParseObject decodes a JSON document whose top level must be an object.
func ParseObject(data []byte) (Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// FromAny converts the output of a generic JSON or YAML decode into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return Number(val), nil
	case int:
		return Number(fmt.Sprintf("%d", val)), nil
	case int64:
		return Number(fmt.Sprintf("%d", val)), nil
	case uint64:
		return Number(fmt.Sprintf("%d", val)), nil
	case float64:
		return Number(formatFloat(val)), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			w, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = w
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			w, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = w
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
