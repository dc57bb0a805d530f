// Package linediff compares the pretty printed text of two JSON documents
// line by line, for a side by side style view of what changed.
package linediff

import (
	"strings"

	"github.com/mcncl/jsoncmp/internal/formatter"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineEqual   LineType = iota // Present in both documents
	LineRemoved                 // Only in the left document
	LineAdded                   // Only in the right document
)

// Marker is the prefix printed before a line of this type
func (t LineType) Marker() string {
	switch t {
	case LineRemoved:
		return "-"
	case LineAdded:
		return "+"
	default:
		return " "
	}
}

// Line represents a single line of the combined view. LeftNum and RightNum
// are 1-based and zero on the side the line is absent from.
type Line struct {
	Type     LineType
	Content  string
	LeftNum  int
	RightNum int
}

// Engine computes line diffs
type Engine struct {
	dmp       *diffmatchpatch.DiffMatchPatch
	formatter *formatter.Formatter
}

// NewEngine creates an Engine that lays documents out with opts before
// comparing them
func NewEngine(opts formatter.Options) *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	opts.Compact = false
	return &Engine{
		dmp:       dmp,
		formatter: formatter.NewFormatter(opts),
	}
}

// Compare pretty prints both values and diffs the resulting lines
func (e *Engine) Compare(left, right models.JSONValue) ([]Line, error) {
	leftText, err := e.formatter.FormatValue(left)
	if err != nil {
		return nil, err
	}
	rightText, err := e.formatter.FormatValue(right)
	if err != nil {
		return nil, err
	}
	return e.Texts(leftText, rightText), nil
}

// Texts diffs two texts line by line
func (e *Engine) Texts(leftText, rightText string) []Line {
	a, b, lineArray := e.dmp.DiffLinesToChars(withNewline(leftText), withNewline(rightText))
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	lines := make([]Line, 0)
	leftNum, rightNum := 0, 0
	for _, d := range diffs {
		for _, content := range splitLines(d.Text) {
			line := Line{Content: content}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				leftNum++
				rightNum++
				line.Type, line.LeftNum, line.RightNum = LineEqual, leftNum, rightNum
			case diffmatchpatch.DiffDelete:
				leftNum++
				line.Type, line.LeftNum = LineRemoved, leftNum
			case diffmatchpatch.DiffInsert:
				rightNum++
				line.Type, line.RightNum = LineAdded, rightNum
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// Stats counts removed and added lines
func Stats(lines []Line) (removed, added int) {
	for _, l := range lines {
		switch l.Type {
		case LineRemoved:
			removed++
		case LineAdded:
			added++
		}
	}
	return removed, added
}

// Changed reports whether any line differs
func Changed(lines []Line) bool {
	removed, added := Stats(lines)
	return removed+added > 0
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// splitLines splits diff text made of whole lines
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
