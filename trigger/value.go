package trigger

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindString holds a string value.
	KindString Kind = iota
	// KindNumber holds a float64 value.
	KindNumber
	// KindBool holds a boolean value.
	KindBool
)

// Value is a tagged union of the types a trigger may carry: string, number,
// or boolean. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// String constructs a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number constructs a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool constructs a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// FromAny converts a host-supplied value into a Value. Integers, floats, and
// numeric-convertible types become KindNumber; booleans KindBool; strings
// KindString. Unsupported types return an error.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n, err := cast.ToFloat64E(t)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported numeric trigger value %v: %w", v, err)
		}
		return Number(n), nil
	default:
		return Value{}, fmt.Errorf("unsupported trigger value type %T", v)
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string variant and whether the Value holds one.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric variant and whether the Value holds one.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean variant and whether the Value holds one.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value for logging and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// numeric reports the value as a float64 when it holds a number or a string
// that parses as one. Numeric strings are accepted so that clause values
// authored as strings still compare against numeric facts.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		n, err := cast.ToFloat64E(v.str)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Equal compares two values. Same-kind values compare directly; a number and
// a numeric string compare numerically. Any other cross-kind pair is an
// evaluation mismatch and compares unequal.
func (v Value) Equal(other Value) bool {
	if v.kind == other.kind {
		switch v.kind {
		case KindNumber:
			return v.num == other.num
		case KindBool:
			return v.b == other.b
		default:
			return v.str == other.str
		}
	}
	if a, ok := v.numeric(); ok {
		if b, ok := other.numeric(); ok {
			return a == b
		}
	}
	return false
}

// compare performs a three-way numeric comparison. The second result is false
// when either side is not numeric, which degrades the enclosing clause to
// unsatisfied rather than failing the expression.
func (v Value) compare(other Value) (int, bool) {
	a, ok := v.numeric()
	if !ok {
		return 0, false
	}
	b, ok := other.numeric()
	if !ok {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// MarshalJSON encodes the underlying variant directly.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON decodes a JSON string, number, or boolean into the matching
// variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("trigger value cannot be null")
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
