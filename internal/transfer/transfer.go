// Package transfer builds copy payloads for keys that exist on only one side
// of a comparison.
package transfer

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/formatter"
	"github.com/mcncl/jsoncmp/internal/keypath"
	"github.com/mcncl/jsoncmp/internal/logging"
	"github.com/mcncl/jsoncmp/internal/missingkeys"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Direction says which document a single key is copied from
type Direction string

const (
	// LeftToRight copies a key that is missing on the right from the left
	LeftToRight Direction = "left-to-right"
	// RightToLeft copies a key that is missing on the left from the right
	RightToLeft Direction = "right-to-left"
)

// Source returns the side the value is read from
func (d Direction) Source() models.Side {
	if d == RightToLeft {
		return models.Right
	}
	return models.Left
}

// ParseDirection reads a direction flag value
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case LeftToRight, RightToLeft:
		return Direction(s), nil
	}
	return "", errors.NewInputError(
		fmt.Sprintf("unknown direction %q, expected %q or %q", s, LeftToRight, RightToLeft),
		nil,
	)
}

// List names one of the two missing-key lists of a report
type List string

const (
	MissingInLeft  List = "missing-in-left"
	MissingInRight List = "missing-in-right"
)

// Side returns the document the listed keys are missing from
func (l List) Side() models.Side {
	if l == MissingInLeft {
		return models.Left
	}
	return models.Right
}

// Source returns the side holding the values of the listed keys. Keys
// missing in the left document are read from the right one.
func (l List) Source() models.Side {
	return l.Side().Other()
}

// Title is the heading the list is printed under
func (l List) Title() string {
	return "Missing in " + string(l.Side())
}

// Paths returns the list's key paths from a report
func (l List) Paths(report missingkeys.Report) []string {
	if l == MissingInLeft {
		return report.MissingInLeft
	}
	return report.MissingInRight
}

// ParseList reads a list flag value
func ParseList(s string) (List, error) {
	switch List(s) {
	case MissingInLeft, MissingInRight:
		return List(s), nil
	}
	return "", errors.NewInputError(
		fmt.Sprintf("unknown list %q, expected %q or %q", s, MissingInLeft, MissingInRight),
		nil,
	)
}

// Bulk is the outcome of copying a whole missing-key list
type Bulk struct {
	// Payload is one JSON object keyed by leaf name
	Payload string `json:"payload"`
	// Copied and Skipped hold key paths in list order
	Copied  []string `json:"copied"`
	Skipped []string `json:"skipped"`
	// Collisions holds leaf names written more than once; the last value
	// wins and the key keeps its first position
	Collisions []string `json:"collisions"`
}

// Copier resolves key paths and lays out their values
type Copier struct {
	indent    int
	formatter *formatter.Formatter
	logger    *zap.Logger
}

// NewCopier creates a Copier that indents payloads by indent spaces
func NewCopier(indent int, logger *zap.Logger) *Copier {
	if indent <= 0 {
		indent = formatter.DefaultOptions.Indent
	}
	return &Copier{
		indent:    indent,
		formatter: formatter.NewFormatter(formatter.Options{Indent: indent}),
		logger:    logging.OrNop(logger),
	}
}

// CopyKey copies a single key with a two space indent
func CopyKey(path string, dir Direction, left, right models.JSONValue) (string, error) {
	return NewCopier(0, nil).CopyKey(path, dir, left, right)
}

// CopyAll copies every key of a missing-key list with a two space indent
func CopyAll(list List, report missingkeys.Report, left, right models.JSONValue) (*Bulk, error) {
	return NewCopier(0, nil).CopyAll(list, report, left, right)
}

// CopyKey resolves path in the source document of dir and returns the
// fragment `"<leaf>": <value>`. The leaf is the whole path when it names a
// top-level key of the source, else its final segment.
func (c *Copier) CopyKey(path string, dir Direction, left, right models.JSONValue) (string, error) {
	source := pick(dir.Source(), left, right)

	value, ok := keypath.Resolve(source, path)
	if !ok {
		return "", errors.NewResolveError(
			fmt.Sprintf("key %q not found in the %s document", path, dir.Source()),
			errors.ErrValueNotFound,
		)
	}

	text, err := c.formatter.FormatValue(value)
	if err != nil {
		return "", err
	}
	name, err := models.Marshal(models.JSONString(keypath.LeafName(source, path)))
	if err != nil {
		return "", errors.NewFormatError("failed to encode key", err)
	}

	c.logger.Debug("copied key",
		zap.String("path", path),
		zap.String("direction", string(dir)))
	return string(name) + ": " + text, nil
}

// CopyAll resolves every path of list against its source document and
// merges the values into one object keyed by leaf name. Paths that do not
// resolve are skipped.
func (c *Copier) CopyAll(list List, report missingkeys.Report, left, right models.JSONValue) (*Bulk, error) {
	source := pick(list.Source(), left, right)

	bulk := &Bulk{
		Copied:     []string{},
		Skipped:    []string{},
		Collisions: []string{},
	}
	doc := []byte("{}")
	written := make(map[string]bool)

	for _, path := range list.Paths(report) {
		value, ok := keypath.Resolve(source, path)
		if !ok {
			bulk.Skipped = append(bulk.Skipped, path)
			continue
		}

		leaf := keypath.LeafName(source, path)
		if leaf == "" {
			c.logger.Warn("skipping key with an empty name", zap.String("path", path))
			bulk.Skipped = append(bulk.Skipped, path)
			continue
		}

		raw, err := models.Marshal(value)
		if err != nil {
			return nil, errors.NewFormatError(fmt.Sprintf("failed to encode %q", path), err)
		}
		doc, err = sjson.SetRawBytes(doc, escapeKey(leaf), raw)
		if err != nil {
			return nil, errors.NewFormatError(fmt.Sprintf("failed to add %q to the payload", path), err)
		}

		if written[leaf] {
			bulk.Collisions = append(bulk.Collisions, leaf)
			c.logger.Warn("copied keys share a leaf name; the later value replaces the earlier one",
				zap.String("leaf", leaf),
				zap.String("path", path))
		}
		written[leaf] = true
		bulk.Copied = append(bulk.Copied, path)
	}

	out := pretty.PrettyOptions(doc, &pretty.Options{
		Width:  pretty.DefaultOptions.Width,
		Indent: strings.Repeat(" ", c.indent),
	})
	bulk.Payload = strings.TrimRight(string(out), "\n")

	c.logger.Debug("copied missing keys",
		zap.String("list", string(list)),
		zap.Int("copied", len(bulk.Copied)),
		zap.Int("skipped", len(bulk.Skipped)))
	return bulk, nil
}

func pick(side models.Side, left, right models.JSONValue) models.JSONValue {
	if side == models.Right {
		return right
	}
	return left
}

// escapeKey turns a literal key into a single-segment sjson path
func escapeKey(key string) string {
	if isDigits(key) {
		// a bare number would address an array element
		return ":" + key
	}
	var b strings.Builder
	for i, r := range key {
		switch r {
		case '.', '\\', '|', '#', '@', '*', '?':
			b.WriteByte('\\')
		case ':':
			if i == 0 {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
