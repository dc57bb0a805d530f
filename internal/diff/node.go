package diff

import (
	"encoding/json"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsoncmp/internal/models"
)

// NodeKind classifies a comparison result
type NodeKind string

const (
	KindTypeMismatch        NodeKind = "TypeMismatch"
	KindValueEqual          NodeKind = "ValueEqual"
	KindValueMismatch       NodeKind = "ValueMismatch"
	KindArrayLengthMismatch NodeKind = "ArrayLengthMismatch"
	KindArrayEqualLength    NodeKind = "ArrayEqualLength"
	KindObjectDiff          NodeKind = "ObjectDiff"
)

// Name is the snake_case form used in serialized output
func (k NodeKind) Name() string {
	return strcase.ToSnake(string(k))
}

// Label is the lowercase, space separated form used by renderers
func (k NodeKind) Label() string {
	return strcase.ToDelimited(string(k), ' ')
}

// Node is the result of comparing two values at one location
type Node interface {
	Kind() NodeKind
	SectionID() int
}

// Section carries the collapse target id of a node. Ids are unique within
// one Compare call and mean nothing across calls.
type Section struct {
	ID int `json:"section_id"`
}

func (s Section) SectionID() int { return s.ID }

// TypeMismatch means the two sides have different JSON kinds
type TypeMismatch struct {
	Section
	LeftType  models.Kind      `json:"left_type"`
	RightType models.Kind      `json:"right_type"`
	Left      models.JSONValue `json:"left"`
	Right     models.JSONValue `json:"right"`
}

// ValueEqual means two primitives are strictly equal
type ValueEqual struct {
	Section
	Value models.JSONValue `json:"value"`
}

// ValueMismatch means two primitives of the same kind differ
type ValueMismatch struct {
	Section
	Left  models.JSONValue `json:"left"`
	Right models.JSONValue `json:"right"`
}

// ArrayLengthMismatch pairs elements by position up to the shorter length
// and keeps the unpaired tail of the longer side.
type ArrayLengthMismatch struct {
	Section
	LeftLength  int                `json:"left_length"`
	RightLength int                `json:"right_length"`
	Paired      []Node             `json:"paired"`
	LeftOnly    []models.JSONValue `json:"left_only"`
	RightOnly   []models.JSONValue `json:"right_only"`
}

// ArrayEqualLength compares two same-length arrays element by element
type ArrayEqualLength struct {
	Section
	Children []Node `json:"children"`
}

// Presence tells on which sides an object key exists
type Presence string

const (
	OnlyLeft  Presence = "left"
	OnlyRight Presence = "right"
	Both      Presence = "both"
)

// ObjectEntry is the comparison result for one key.
// Value holds the present side's value for one-sided keys; Child is set
// only when the key exists on both sides.
type ObjectEntry struct {
	Key   string           `json:"key"`
	On    Presence         `json:"only_on"`
	Value models.JSONValue `json:"value,omitempty"`
	Child Node             `json:"child,omitempty"`
}

// ObjectDiff compares two objects over the sorted union of their keys
type ObjectDiff struct {
	Section
	Entries []ObjectEntry `json:"entries"`
}

// Keys returns the sorted key union
func (o *ObjectDiff) Keys() []string {
	keys := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Entry looks up the entry for key
func (o *ObjectDiff) Entry(key string) (ObjectEntry, bool) {
	for _, e := range o.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return ObjectEntry{}, false
}

func (*TypeMismatch) Kind() NodeKind        { return KindTypeMismatch }
func (*ValueEqual) Kind() NodeKind          { return KindValueEqual }
func (*ValueMismatch) Kind() NodeKind       { return KindValueMismatch }
func (*ArrayLengthMismatch) Kind() NodeKind { return KindArrayLengthMismatch }
func (*ArrayEqualLength) Kind() NodeKind    { return KindArrayEqualLength }
func (*ObjectDiff) Kind() NodeKind          { return KindObjectDiff }

// Serialized nodes carry their kind next to their fields.

func (n *TypeMismatch) MarshalJSON() ([]byte, error) {
	type plain TypeMismatch
	return marshalKind(n.Kind(), (*plain)(n))
}

func (n *ValueEqual) MarshalJSON() ([]byte, error) {
	type plain ValueEqual
	return marshalKind(n.Kind(), (*plain)(n))
}

func (n *ValueMismatch) MarshalJSON() ([]byte, error) {
	type plain ValueMismatch
	return marshalKind(n.Kind(), (*plain)(n))
}

func (n *ArrayLengthMismatch) MarshalJSON() ([]byte, error) {
	type plain ArrayLengthMismatch
	return marshalKind(n.Kind(), (*plain)(n))
}

func (n *ArrayEqualLength) MarshalJSON() ([]byte, error) {
	type plain ArrayEqualLength
	return marshalKind(n.Kind(), (*plain)(n))
}

func (n *ObjectDiff) MarshalJSON() ([]byte, error) {
	type plain ObjectDiff
	return marshalKind(n.Kind(), (*plain)(n))
}

func marshalKind(kind NodeKind, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(kind.Name())
	if err != nil {
		return nil, err
	}
	// body is always a non-empty object: splice "kind" in front
	out := make([]byte, 0, len(body)+len(head)+8)
	out = append(out, `{"kind":`...)
	out = append(out, head...)
	out = append(out, ',')
	return append(out, body[1:]...), nil
}
