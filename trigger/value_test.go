package trigger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Value
		wantErr bool
	}{
		{"string", "hello", String("hello"), false},
		{"bool", true, Bool(true), false},
		{"int", 5, Number(5), false},
		{"int64", int64(-3), Number(-3), false},
		{"uint", uint(7), Number(7), false},
		{"float64", 2.5, Number(2.5), false},
		{"float32", float32(1.5), Number(1.5), false},
		{"value passthrough", Number(9), Number(9), false},
		{"nil", nil, Value{}, true},
		{"slice", []string{"x"}, Value{}, true},
		{"map", map[string]int{"a": 1}, Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	s := String("x")
	str, ok := s.AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", str)
	_, ok = s.AsNumber()
	assert.False(t, ok)
	_, ok = s.AsBool()
	assert.False(t, ok)

	n := Number(4.25)
	num, ok := n.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 4.25, num)

	b := Bool(true)
	bv, ok := b.AsBool()
	assert.True(t, ok)
	assert.True(t, bv)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.True(t, Number(3).Equal(Number(3)))
	assert.True(t, Bool(false).Equal(Bool(false)))

	// Numeric strings compare numerically against numbers.
	assert.True(t, Number(5).Equal(String("5")))
	assert.True(t, String("5").Equal(Number(5)))

	// Any other cross-kind pair is a mismatch.
	assert.False(t, Number(1).Equal(Bool(true)))
	assert.False(t, String("true").Equal(Bool(true)))
	assert.False(t, Number(5).Equal(String("five")))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, "5", Number(5).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "true", Bool(true).String())
}

func TestValueJSONRoundTrip(t *testing.T) {
	for _, v := range []Value{String("x"), Number(3.5), Bool(true)} {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v, got)
	}
}

func TestValueUnmarshalRejectsNull(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`null`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
}
