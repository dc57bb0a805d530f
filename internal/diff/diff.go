// Package diff compares two JSON values structurally and produces a tree of
// classified differences for rendering.
package diff

import (
	"sort"

	"github.com/mcncl/jsoncmp/internal/models"
)

// comparer owns the section id counter of a single Compare call
type comparer struct {
	next int
}

func (c *comparer) section() Section {
	s := Section{ID: c.next}
	c.next++
	return s
}

// Compare walks left and right depth-first and classifies every location.
// Section ids are assigned in pre-order starting at zero; each call has its
// own counter so concurrent comparisons never share state.
func Compare(left, right models.JSONValue) Node {
	c := &comparer{}
	return c.compare(left, right)
}

func (c *comparer) compare(left, right models.JSONValue) Node {
	lt, rt := models.TypeOf(left), models.TypeOf(right)

	if lt != rt {
		return &TypeMismatch{
			Section:   c.section(),
			LeftType:  lt,
			RightType: rt,
			Left:      orNull(left),
			Right:     orNull(right),
		}
	}

	switch lt {
	case models.Array:
		return c.compareArrays(left.(models.JSONArray), right.(models.JSONArray))
	case models.Object:
		return c.compareObjects(left.(*models.JSONObject), right.(*models.JSONObject))
	}

	if models.Equal(orNull(left), orNull(right)) {
		return &ValueEqual{Section: c.section(), Value: orNull(left)}
	}
	return &ValueMismatch{Section: c.section(), Left: left, Right: right}
}

func (c *comparer) compareArrays(left, right models.JSONArray) Node {
	section := c.section()

	if len(left) != len(right) {
		shared := min(len(left), len(right))
		node := &ArrayLengthMismatch{
			Section:     section,
			LeftLength:  len(left),
			RightLength: len(right),
			Paired:      make([]Node, 0, shared),
			LeftOnly:    []models.JSONValue{},
			RightOnly:   []models.JSONValue{},
		}
		for i := 0; i < shared; i++ {
			node.Paired = append(node.Paired, c.compare(left[i], right[i]))
		}
		node.LeftOnly = append(node.LeftOnly, left[shared:]...)
		node.RightOnly = append(node.RightOnly, right[shared:]...)
		return node
	}

	node := &ArrayEqualLength{Section: section, Children: make([]Node, 0, len(left))}
	for i := range left {
		node.Children = append(node.Children, c.compare(left[i], right[i]))
	}
	return node
}

func (c *comparer) compareObjects(left, right *models.JSONObject) Node {
	node := &ObjectDiff{Section: c.section()}

	for _, key := range unionKeys(left, right) {
		lv, inLeft := left.Get(key)
		rv, inRight := right.Get(key)

		switch {
		case !inLeft:
			node.Entries = append(node.Entries, ObjectEntry{Key: key, On: OnlyRight, Value: rv})
		case !inRight:
			node.Entries = append(node.Entries, ObjectEntry{Key: key, On: OnlyLeft, Value: lv})
		default:
			// containers and primitives go through the same case split, so an
			// array against an object under one key is still a type mismatch
			node.Entries = append(node.Entries, ObjectEntry{Key: key, On: Both, Child: c.compare(lv, rv)})
		}
	}
	if node.Entries == nil {
		node.Entries = []ObjectEntry{}
	}
	return node
}

// unionKeys returns every key of either object, sorted
func unionKeys(left, right *models.JSONObject) []string {
	seen := make(map[string]struct{}, left.Len()+right.Len())
	keys := make([]string, 0, left.Len()+right.Len())
	for _, obj := range []*models.JSONObject{left, right} {
		for _, key := range obj.Keys() {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func orNull(v models.JSONValue) models.JSONValue {
	if v == nil {
		return models.JSONNull{}
	}
	return v
}

// HasDifferences reports whether anything below node differs
func HasDifferences(node Node) bool {
	found := false
	Walk(node, func(n Node) bool {
		switch v := n.(type) {
		case *TypeMismatch, *ValueMismatch, *ArrayLengthMismatch:
			found = true
		case *ObjectDiff:
			for _, e := range v.Entries {
				if e.On != Both {
					found = true
				}
			}
		}
		return !found
	})
	return found
}

// Walk visits node and its descendants in pre-order (section id order).
// Returning false from fn stops the walk.
func Walk(node Node, fn func(Node) bool) bool {
	if node == nil {
		return true
	}
	if !fn(node) {
		return false
	}
	var children []Node
	switch v := node.(type) {
	case *ArrayLengthMismatch:
		children = v.Paired
	case *ArrayEqualLength:
		children = v.Children
	case *ObjectDiff:
		for _, e := range v.Entries {
			if e.Child != nil {
				children = append(children, e.Child)
			}
		}
	}
	for _, child := range children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}
