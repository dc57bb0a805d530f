package patch

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/mcncl/jsoncmp/internal/diff"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) models.JSONValue {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	return v
}

func TestDiff_EndToEndScenario(t *testing.T) {
	left := mustParse(t, `{"a":1,"b":{"c":2}}`)
	right := mustParse(t, `{"a":1,"b":{"c":3,"d":4}}`)

	ops, err := Diff(left, right, Options{})
	require.NoError(t, err)
	require.Len(t, ops, 2)

	byPath := map[string]string{}
	for _, op := range ops {
		byPath[op.Path] = op.Type
	}
	assert.Equal(t, map[string]string{"/b/c": "replace", "/b/d": "add"}, byPath)
}

func TestDiff_ApplyRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
	}{
		{"nested change", `{"a":1,"b":{"c":2}}`, `{"a":1,"b":{"c":3,"d":4}}`},
		{"array shrink", `{"xs":[1,2,3]}`, `{"xs":[1,2]}`},
		{"array grow", `[{"id":1}]`, `[{"id":1},{"id":2}]`},
		{"type change", `{"v":"1"}`, `{"v":1}`},
		{"key removed", `{"keep":true,"drop":null}`, `{"keep":true}`},
		{"special characters in keys", `{"a/b":1,"m~n":2}`, `{"a/b":2}`},
	}

	for _, tt := range tests {
		for _, invertible := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				left, right := mustParse(t, tt.left), mustParse(t, tt.right)

				ops, err := Diff(left, right, Options{Invertible: invertible})
				require.NoError(t, err)

				encoded, err := Encode(ops)
				require.NoError(t, err)

				patched, err := Apply(left, encoded)
				require.NoError(t, err)
				assert.False(t, diff.HasDifferences(diff.Compare(patched, right)))
			})
		}
	}
}

func TestDiff_InvertibleAddsTests(t *testing.T) {
	ops, err := Diff(mustParse(t, `{"a":1}`), mustParse(t, `{"a":2}`), Options{Invertible: true})
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "test", ops[0].Type)
	assert.Equal(t, "replace", ops[1].Type)
}

func TestEncode_Empty(t *testing.T) {
	doc := mustParse(t, `{"same": [1, 2]}`)
	ops, err := Diff(doc, doc, Options{})
	require.NoError(t, err)
	assert.Empty(t, ops)

	encoded, err := Encode(ops)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(encoded))
}

func TestEncode_IsValidPatchJSON(t *testing.T) {
	ops, err := Diff(mustParse(t, `{"a":1}`), mustParse(t, `{"b":1}`), Options{})
	require.NoError(t, err)

	encoded, err := Encode(ops)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.NotEmpty(t, decoded)
	for _, op := range decoded {
		assert.Contains(t, op, "op")
		assert.Contains(t, op, "path")
	}
}

func TestApply_Errors(t *testing.T) {
	doc := mustParse(t, `{"a": 1}`)

	_, err := Apply(doc, []byte(`{"op": "add"}`))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypePatch}))

	_, err = Apply(doc, []byte(`[{"op": "remove", "path": "/missing"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply 1 operations")

	_, err = Apply(doc, []byte(`[{"op": "test", "path": "/a", "value": 2}]`))
	assert.Error(t, err)
}
