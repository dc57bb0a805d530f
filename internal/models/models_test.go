package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func object(pairs ...interface{}) *JSONObject {
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(JSONValue))
	}
	return o
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		value JSONValue
		want  string
	}{
		{"absent", nil, "null"},
		{"null", JSONNull{}, "null"},
		{"bool", JSONBool(true), "boolean"},
		{"number", NewNumber(1.5), "number"},
		{"string", JSONString("x"), "string"},
		{"array", JSONArray{}, "array"},
		{"object", NewObject(), "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.value).String())
		})
	}
}

func TestIsContainer(t *testing.T) {
	assert.True(t, IsContainer(JSONArray{}))
	assert.True(t, IsContainer(NewObject()))
	assert.False(t, IsContainer(JSONNull{}))
	assert.False(t, IsContainer(nil))
	assert.False(t, IsContainer(JSONString("[]")))
}

func TestJSONObject_Order(t *testing.T) {
	o := NewObject()
	o.Set("b", NewNumber(1))
	o.Set("a", NewNumber(2))
	o.Set("b", NewNumber(3))

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	assert.Equal(t, 2, o.Len())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3.0, v.(JSONNumber).Value)
	assert.False(t, o.Has("c"))

	// Keys returns a copy
	keys := o.Keys()
	keys[0] = "z"
	assert.Equal(t, []string{"b", "a"}, o.Keys())

	var zero JSONObject
	zero.Set("k", JSONNull{})
	assert.True(t, zero.Has("k"))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b JSONValue
		want bool
	}{
		{"both absent", nil, nil, true},
		{"absent vs null", nil, JSONNull{}, false},
		{"numbers by value", JSONNumber{Raw: "1", Value: 1}, JSONNumber{Raw: "1.0", Value: 1}, true},
		{"number vs string", NewNumber(1), JSONString("1"), false},
		{"arrays positional", JSONArray{NewNumber(1), NewNumber(2)}, JSONArray{NewNumber(2), NewNumber(1)}, false},
		{"array lengths", JSONArray{NewNumber(1)}, JSONArray{}, false},
		{"objects ignore key order", object("a", NewNumber(1), "b", JSONBool(true)), object("b", JSONBool(true), "a", NewNumber(1)), true},
		{"objects with extra key", object("a", NewNumber(1)), object("a", NewNumber(1), "b", JSONNull{}), false},
		{"array vs object", JSONArray{}, NewObject(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestMarshal(t *testing.T) {
	v := object(
		"z", JSONString("<a&b>"),
		"n", JSONNumber{Raw: "1.50", Value: 1.5},
		"list", JSONArray{JSONNull{}, JSONBool(false), object()},
	)

	raw, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<a&b>","n":1.50,"list":[null,false,{}]}`, string(raw))

	raw, err = Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestSide_Other(t *testing.T) {
	assert.Equal(t, Right, Left.Other())
	assert.Equal(t, Left, Right.Other())
}
