// Package render turns comparison results into indented text for terminals
// and into JSON for tools.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mcncl/jsoncmp/internal/diff"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/linediff"
	"github.com/mcncl/jsoncmp/internal/missingkeys"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/pipeline"
	"github.com/tidwall/pretty"
)

// NoMissingKeys is printed for an empty missing-key list
const NoMissingKeys = "No missing keys"

// Options controls text rendering
type Options struct {
	Color          bool
	ShowSectionIDs bool
	Indent         int
	// Collapsed holds section ids whose children are hidden
	Collapsed   map[int]bool
	CollapseAll bool
}

// Renderer writes diff trees and missing-key reports as text
type Renderer struct {
	opts   Options
	styles Styles
	indent string
}

// New creates a Renderer
func New(opts Options) *Renderer {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	return &Renderer{
		opts:   opts,
		styles: DefaultStyles(),
		indent: strings.Repeat(" ", opts.Indent),
	}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.opts.Color {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) collapsed(id int) bool {
	return r.opts.CollapseAll || r.opts.Collapsed[id]
}

// Diff renders a diff tree, one location per line
func (r *Renderer) Diff(node diff.Node) string {
	var b strings.Builder
	r.node(&b, node, 0, "")
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) line(b *strings.Builder, depth int, text string) {
	b.WriteString(strings.Repeat(r.indent, depth))
	b.WriteString(text)
	b.WriteByte('\n')
}

// header writes the first line of a node and reports whether its children
// should follow
func (r *Renderer) header(b *strings.Builder, depth int, label, text string, id int, hasChildren bool) bool {
	out := label + text
	if r.opts.ShowSectionIDs {
		out += " " + r.paint(r.styles.Muted, fmt.Sprintf("[section-%d]", id))
	}
	open := hasChildren && !r.collapsed(id)
	if hasChildren && !open {
		out += " " + r.paint(r.styles.Muted, "[collapsed]")
	}
	r.line(b, depth, out)
	return open
}

func (r *Renderer) node(b *strings.Builder, node diff.Node, depth int, label string) {
	switch n := node.(type) {
	case *diff.TypeMismatch:
		text := r.paint(r.styles.Mismatch, "Type mismatch:") + " " +
			r.paint(r.styles.Left, n.LeftType.String()) + " vs " +
			r.paint(r.styles.Right, n.RightType.String())
		if r.header(b, depth, label, text, n.ID, true) {
			r.sides(b, depth+1, n.Left, n.Right)
		}

	case *diff.ValueEqual:
		text := r.paint(r.styles.Equal, "Equal:") + " " + r.paint(r.styles.Equal, r.value(n.Value))
		r.header(b, depth, label, text, n.ID, false)

	case *diff.ValueMismatch:
		if r.header(b, depth, label, r.paint(r.styles.Mismatch, "Value mismatch"), n.ID, true) {
			r.sides(b, depth+1, n.Left, n.Right)
		}

	case *diff.ArrayLengthMismatch:
		text := r.paint(r.styles.Mismatch, "Array length mismatch:") + " " +
			r.paint(r.styles.Left, strconv.Itoa(n.LeftLength)) + " vs " +
			r.paint(r.styles.Right, strconv.Itoa(n.RightLength))
		hasChildren := len(n.Paired)+len(n.LeftOnly)+len(n.RightOnly) > 0
		if !r.header(b, depth, label, text, n.ID, hasChildren) {
			return
		}
		for i, child := range n.Paired {
			r.node(b, child, depth+1, r.element(i))
		}
		offset := len(n.Paired)
		for i, v := range n.LeftOnly {
			r.line(b, depth+1, r.oneSided(r.element(offset+i), models.Left, v))
		}
		for i, v := range n.RightOnly {
			r.line(b, depth+1, r.oneSided(r.element(offset+i), models.Right, v))
		}

	case *diff.ArrayEqualLength:
		text := r.paint(r.styles.Container, fmt.Sprintf("Array (%d items)", len(n.Children)))
		if !r.header(b, depth, label, text, n.ID, len(n.Children) > 0) {
			return
		}
		for i, child := range n.Children {
			r.node(b, child, depth+1, r.element(i))
		}

	case *diff.ObjectDiff:
		text := r.paint(r.styles.Container, fmt.Sprintf("Object (%d keys)", len(n.Entries)))
		if !r.header(b, depth, label, text, n.ID, len(n.Entries) > 0) {
			return
		}
		for _, e := range n.Entries {
			name := "Key " + r.paint(r.styles.Key, strconv.Quote(e.Key))
			switch e.On {
			case diff.OnlyLeft:
				r.line(b, depth+1, r.oneSided(name, models.Left, e.Value))
			case diff.OnlyRight:
				r.line(b, depth+1, r.oneSided(name, models.Right, e.Value))
			default:
				r.node(b, e.Child, depth+1, name+": ")
			}
		}
	}
}

func (r *Renderer) element(i int) string {
	return fmt.Sprintf("Element %d: ", i)
}

// oneSided formats a key or element present on one side only, e.g.
// `Key "d" (right only): 4`
func (r *Renderer) oneSided(label string, side models.Side, v models.JSONValue) string {
	label = strings.TrimSuffix(label, ": ")
	style := r.styles.Left
	if side == models.Right {
		style = r.styles.Right
	}
	return label + " " + r.paint(style, fmt.Sprintf("(%s only)", side)) + ": " + r.paint(style, r.value(v))
}

func (r *Renderer) sides(b *strings.Builder, depth int, left, right models.JSONValue) {
	r.line(b, depth, "Left: "+r.paint(r.styles.Left, r.value(left)))
	r.line(b, depth, "Right: "+r.paint(r.styles.Right, r.value(right)))
}

func (r *Renderer) value(v models.JSONValue) string {
	raw, err := models.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(raw)
}

// Missing renders both missing-key lists
func (r *Renderer) Missing(report missingkeys.Report) string {
	var b strings.Builder
	r.keyList(&b, "Missing in left", report.MissingInLeft)
	r.keyList(&b, "Missing in right", report.MissingInRight)
	return strings.TrimRight(b.String(), "\n")
}

// KeyList renders a single missing-key list
func (r *Renderer) KeyList(title string, keys []string) string {
	var b strings.Builder
	r.keyList(&b, title, keys)
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) keyList(b *strings.Builder, title string, keys []string) {
	r.line(b, 0, r.paint(r.styles.Title, fmt.Sprintf("%s (%d)", title, len(keys))))
	if len(keys) == 0 {
		r.line(b, 1, r.paint(r.styles.Muted, NoMissingKeys))
		return
	}
	for _, key := range keys {
		r.line(b, 1, r.paint(r.styles.Key, key))
	}
}

// Result renders a whole comparison: parse errors, the diff tree and the
// missing-key lists
func (r *Renderer) Result(res *pipeline.Result) string {
	switch {
	case res.Empty:
		return r.paint(r.styles.Muted, "Nothing to compare: both documents are required")
	case res.Failure != "":
		return r.paint(r.styles.Error, res.Failure)
	case res.LeftError != "" || res.RightError != "":
		var lines []string
		for _, msg := range []string{res.LeftError, res.RightError} {
			if msg != "" {
				lines = append(lines, r.paint(r.styles.Error, msg))
			}
		}
		return strings.Join(lines, "\n")
	}
	return r.Diff(res.Diff) + "\n\n" + r.Missing(res.Missing)
}

// Lines renders a line diff with -/+ markers and a change summary
func (r *Renderer) Lines(lines []linediff.Line) string {
	var b strings.Builder
	for _, l := range lines {
		text := l.Type.Marker() + " " + l.Content
		switch l.Type {
		case linediff.LineRemoved:
			text = r.paint(r.styles.Left, text)
		case linediff.LineAdded:
			text = r.paint(r.styles.Right, text)
		}
		r.line(&b, 0, text)
	}
	removed, added := linediff.Stats(lines)
	r.line(&b, 0, r.paint(r.styles.Muted, fmt.Sprintf("%d removed, %d added", removed, added)))
	return strings.TrimRight(b.String(), "\n")
}

// JSON encodes v with a two space indent
func JSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewOutputError("failed to encode result", err)
	}
	return pretty.Pretty(raw), nil
}

// ParseCollapse reads a comma separated list of section ids
func ParseCollapse(list string) (map[int]bool, error) {
	ids := make(map[int]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(part, "section-"))
		if err != nil || id < 0 {
			return nil, errors.NewInputError(fmt.Sprintf("invalid section id %q", part), err)
		}
		ids[id] = true
	}
	return ids, nil
}
