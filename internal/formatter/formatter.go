package formatter

import (
	"strings"

	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"github.com/tidwall/pretty"
)

// Options controls the output layout
type Options struct {
	Indent   int
	SortKeys bool
	Compact  bool
}

// DefaultOptions pretty prints with a two space indent and keeps key order
var DefaultOptions = Options{Indent: 2}

// Formatter is responsible for laying out JSON text
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	if opts.Indent <= 0 {
		opts.Indent = DefaultOptions.Indent
	}
	return &Formatter{opts: opts}
}

// Format validates JSON text and returns it pretty printed, or compacted when
// Compact is set. The result ends with a single newline.
func (f *Formatter) Format(text string) (string, error) {
	// Handle empty input
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	// Reject invalid JSON with the parser's message and offset
	if _, err := parser.ParseString(text); err != nil {
		return "", err
	}

	return f.layout([]byte(text)), nil
}

// FormatValue lays out a parsed value without a trailing newline. Object
// keys keep their insertion order unless SortKeys is set.
func (f *Formatter) FormatValue(v models.JSONValue) (string, error) {
	raw, err := models.Marshal(v)
	if err != nil {
		return "", errors.NewFormatError("failed to encode value", err)
	}
	return strings.TrimRight(f.layout(raw), "\n"), nil
}

func (f *Formatter) layout(data []byte) string {
	opts := &pretty.Options{
		Width:    pretty.DefaultOptions.Width,
		Indent:   strings.Repeat(" ", f.opts.Indent),
		SortKeys: f.opts.SortKeys,
	}
	out := pretty.PrettyOptions(data, opts)
	if f.opts.Compact {
		out = pretty.Ugly(out)
	}
	return strings.TrimRight(string(out), "\n") + "\n"
}
