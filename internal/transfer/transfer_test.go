package transfer

import (
	stderrors "errors"
	"testing"

	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/missingkeys"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustParse(t *testing.T, text string) models.JSONValue {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	return v
}

func TestCopyKey(t *testing.T) {
	left := mustParse(t, `{"a.b": 1, "a": {"b": 2}, "cfg": {"x": 1}, "n": null, "list": [10, {"id": "z"}]}`)
	right := mustParse(t, `{"a": 1, "b": {"c": 3, "d": 4}}`)

	tests := []struct {
		name string
		path string
		dir  Direction
		want string
	}{
		{"direct key wins over nested path", "a.b", LeftToRight, `"a.b": 1`},
		{"nested path uses the leaf", "b.d", RightToLeft, `"d": 4`},
		{"objects are pretty printed", "cfg", LeftToRight, "\"cfg\": {\n  \"x\": 1\n}"},
		{"null is a value", "n", LeftToRight, `"n": null`},
		{"bracket index", "list[1].id", LeftToRight, `"id": "z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CopyKey(tt.path, tt.dir, left, right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopyKey_Miss(t *testing.T) {
	left := mustParse(t, `{"a": 1}`)
	right := mustParse(t, `{"b": 2}`)

	_, err := CopyKey("b", LeftToRight, left, right)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrValueNotFound))
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeResolve}))
	assert.NotContains(t, err.Error(), "undefined")
}

func TestCopyAll(t *testing.T) {
	left := mustParse(t, `{"a":1,"b":{"c":2}}`)
	right := mustParse(t, `{"a":1,"b":{"c":3,"d":4}}`)
	report := missingkeys.Collect(left, right)

	bulk, err := CopyAll(MissingInLeft, report, left, right)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"d\": 4\n}", bulk.Payload)
	assert.Equal(t, []string{"b.d"}, bulk.Copied)
	assert.Empty(t, bulk.Skipped)
	assert.Empty(t, bulk.Collisions)

	empty, err := CopyAll(MissingInRight, report, left, right)
	require.NoError(t, err)
	assert.Equal(t, "{}", empty.Payload)
	assert.Empty(t, empty.Copied)
}

func TestCopyAll_Collisions(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	copier := NewCopier(2, zap.New(core))

	left := mustParse(t, `{"x": {}, "y": {}}`)
	right := mustParse(t, `{"x": {"id": 1}, "y": {"id": 2}}`)
	report := missingkeys.Collect(left, right)
	require.Equal(t, []string{"x.id", "y.id"}, report.MissingInLeft)

	bulk, err := copier.CopyAll(MissingInLeft, report, left, right)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 2\n}", bulk.Payload)
	assert.Equal(t, []string{"x.id", "y.id"}, bulk.Copied)
	assert.Equal(t, []string{"id"}, bulk.Collisions)
	assert.Equal(t, 1, logs.FilterField(zap.String("leaf", "id")).Len())
}

func TestCopyAll_SkipsUnresolvedPaths(t *testing.T) {
	left := mustParse(t, `{"a": 1}`)
	right := mustParse(t, `{"a": 1, "b": true}`)
	report := missingkeys.Report{
		MissingInLeft:  []string{"b", "gone.away"},
		MissingInRight: []string{},
	}

	bulk, err := CopyAll(MissingInLeft, report, left, right)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": true\n}", bulk.Payload)
	assert.Equal(t, []string{"gone.away"}, bulk.Skipped)
}

func TestCopyAll_SpecialKeyNames(t *testing.T) {
	left := mustParse(t, `{}`)
	right := mustParse(t, `{"a*b": 1, "7": true, "x|y": "z", ":k": null}`)
	report := missingkeys.Collect(left, right)

	bulk, err := NewCopier(4, nil).CopyAll(MissingInLeft, report, left, right)
	require.NoError(t, err)

	payload := mustParse(t, bulk.Payload).(*models.JSONObject)
	assert.Equal(t, []string{"a*b", "7", "x|y", ":k"}, payload.Keys())
	assert.Contains(t, bulk.Payload, "\n    \"a*b\": 1")
}

func TestEscapeKey(t *testing.T) {
	tests := map[string]string{
		"plain": "plain",
		"a.b":   `a\.b`,
		"12":    ":12",
		"q?":    `q\?`,
		":x":    `\:x`,
		"x:y":   "x:y",
		`back\`: `back\\`,
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeKey(in), in)
	}
}

func TestParseDirectionAndList(t *testing.T) {
	dir, err := ParseDirection("right-to-left")
	require.NoError(t, err)
	assert.Equal(t, models.Right, dir.Source())
	assert.Equal(t, models.Left, LeftToRight.Source())

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	list, err := ParseList("missing-in-right")
	require.NoError(t, err)
	assert.Equal(t, models.Left, list.Source())
	assert.Equal(t, models.Right, MissingInLeft.Source())
	assert.Equal(t, models.Right, list.Side())
	assert.Equal(t, "Missing in right", list.Title())
	assert.Equal(t, "Missing in left", MissingInLeft.Title())

	_, err = ParseList("both")
	assert.Error(t, err)
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestDeliver(t *testing.T) {
	cb := &fakeClipboard{}
	notice, ok := Deliver(cb, "key \"d\"", `"d": 4`)
	assert.True(t, ok)
	assert.Equal(t, `"d": 4`, cb.text)
	assert.Equal(t, "Copied key \"d\" to the clipboard", notice)

	failing := &fakeClipboard{err: stderrors.New("no display")}
	notice, ok = Deliver(failing, "2 keys", "{}")
	assert.False(t, ok)
	assert.Contains(t, notice, "no display")
}
