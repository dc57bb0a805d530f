// Package keypath addresses values inside a JSON document with dotted and
// bracketed paths such as "items[1].name".
package keypath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsoncmp/internal/models"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// Segment is one step of a Path: an object key or an array index
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns an object key segment
func Key(name string) Segment {
	return Segment{Key: name}
}

// Index returns an array index segment
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Path is a structured key path
type Path []Segment

// Append returns a new path with seg added to the end
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Leaf returns the final segment as a name, or "" for an empty path
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return segmentKey(p[len(p)-1])
}

// String formats the path: keys joined by ".", indexes as "[i]".
// Keys are written verbatim, so a key containing "." reads like two segments.
// No separator follows a prefix that renders empty, so {"": {"b": 1}}
// reports "b".
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Parse splits a path string into segments. "[n]" is read as ".n", empty
// segments are dropped, and all-digit segments become indexes.
func Parse(path string) Path {
	normalized := bracketIndex.ReplaceAllString(path, ".$1")
	var out Path
	for _, part := range strings.Split(normalized, ".") {
		if part == "" {
			continue
		}
		if isDigits(part) {
			if n, err := strconv.Atoi(part); err == nil {
				// keep the literal text for lookups on objects
				out = append(out, Segment{Key: part, Index: n, IsIndex: true})
				continue
			}
		}
		out = append(out, Key(part))
	}
	return out
}

// Resolve returns the value addressed by path inside root. An exact
// top-level key always wins over structural parsing, so a key literally
// named "a.b" is found before a["b"]. The boolean is false when nothing is
// there; a JSON null found at the path is a hit.
func Resolve(root models.JSONValue, path string) (models.JSONValue, bool) {
	if obj, ok := root.(*models.JSONObject); ok {
		if v, found := obj.Get(path); found {
			return v, true
		}
	}
	return Walk(root, Parse(path))
}

// Walk follows a structured path from root
func Walk(root models.JSONValue, path Path) (models.JSONValue, bool) {
	current := root
	for _, seg := range path {
		if current == nil {
			return nil, false
		}
		switch v := current.(type) {
		case *models.JSONObject:
			next, ok := v.Get(segmentKey(seg))
			if !ok {
				return nil, false
			}
			current = next
		case models.JSONArray:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(v) {
				return nil, false
			}
			current = v[seg.Index]
		default:
			// null and primitives have nothing below them
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// IsDirectKey reports whether path names an existing top-level key of root
func IsDirectKey(root models.JSONValue, path string) bool {
	obj, ok := root.(*models.JSONObject)
	return ok && obj.Has(path)
}

// LeafName is the output name for a copied value: the whole path when it is
// a direct top-level key of root, the final segment otherwise.
func LeafName(root models.JSONValue, path string) string {
	if IsDirectKey(root, path) {
		return path
	}
	if leaf := Parse(path).Leaf(); leaf != "" {
		return leaf
	}
	return path
}

func segmentKey(seg Segment) string {
	if seg.IsIndex && seg.Key == "" {
		return strconv.Itoa(seg.Index)
	}
	return seg.Key
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
