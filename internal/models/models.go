package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the JSON type category of a value. Arrays and objects are
// distinct kinds, and null is a kind of its own.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear as names in serialized results
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// JSONValue is any value producible by parsing JSON text.
// A nil JSONValue means "absent", it is never JSON null.
type JSONValue interface {
	Kind() Kind
	json.Marshaler
}

// JSONNull is the JSON null literal
type JSONNull struct{}

// JSONBool is a JSON boolean
type JSONBool bool

// JSONString is a JSON string
type JSONString string

// JSONNumber keeps the literal text of a JSON number alongside its value
type JSONNumber struct {
	Raw   string
	Value float64
}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

func (JSONNull) Kind() Kind   { return Null }
func (JSONBool) Kind() Kind   { return Bool }
func (JSONString) Kind() Kind { return String }
func (JSONNumber) Kind() Kind { return Number }
func (JSONArray) Kind() Kind  { return Array }

func (JSONNull) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (b JSONBool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

func (s JSONString) MarshalJSON() ([]byte, error) {
	return marshalString(string(s))
}

func (n JSONNumber) MarshalJSON() ([]byte, error) {
	if n.Raw != "" {
		return []byte(n.Raw), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'g', -1, 64)), nil
}

func (a JSONArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := Marshal(item)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// NewNumber builds a JSONNumber from a float value
func NewNumber(f float64) JSONNumber {
	return JSONNumber{Raw: strconv.FormatFloat(f, 'g', -1, 64), Value: f}
}

// JSONObject represents a JSON object. Keys are unique and keep the order in
// which they were first set; setting an existing key replaces its value in
// place.
type JSONObject struct {
	keys   []string
	values map[string]JSONValue
}

// NewObject creates an empty JSONObject
func NewObject() *JSONObject {
	return &JSONObject{values: make(map[string]JSONValue)}
}

func (o *JSONObject) Kind() Kind { return Object }

// Set stores value under key
func (o *JSONObject) Set(key string, value JSONValue) {
	if o.values == nil {
		o.values = make(map[string]JSONValue)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present
func (o *JSONObject) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order
func (o *JSONObject) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys
func (o *JSONObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Equal reports deep equality with another object, ignoring key order
func (o *JSONObject) Equal(other *JSONObject) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, key := range o.Keys() {
		ov, ok := other.Get(key)
		if !ok {
			return false
		}
		v, _ := o.Get(key)
		if !Equal(v, ov) {
			return false
		}
	}
	return true
}

func (o *JSONObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, _ := o.Get(key)
		raw, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TypeOf returns the kind of v. An absent value reports Null.
func TypeOf(v JSONValue) Kind {
	if v == nil {
		return Null
	}
	return v.Kind()
}

// IsContainer reports whether v is an array or an object
func IsContainer(v JSONValue) bool {
	k := TypeOf(v)
	return v != nil && (k == Array || k == Object)
}

// Equal reports strict deep equality between two values.
// Numbers compare by value, so 1 and 1.0 are equal.
func Equal(a, b JSONValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case JSONNull:
		return true
	case JSONBool:
		return av == b.(JSONBool)
	case JSONString:
		return av == b.(JSONString)
	case JSONNumber:
		return av.Value == b.(JSONNumber).Value
	case JSONArray:
		bv := b.(JSONArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *JSONObject:
		return av.Equal(b.(*JSONObject))
	default:
		return false
	}
}

// Marshal encodes v as compact JSON. An absent value encodes as null.
func Marshal(v JSONValue) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return v.MarshalJSON()
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Side identifies one of the two compared documents
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Other returns the opposite side
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}
