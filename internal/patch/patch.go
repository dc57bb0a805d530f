// Package patch converts the difference between two JSON documents into an
// RFC 6902 JSON Patch and applies such patches.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"github.com/tidwall/pretty"
	"github.com/wI2L/jsondiff"
)

// Options controls patch generation
type Options struct {
	// Invertible adds a test operation before every remove and replace so
	// the patch only applies to the exact document it was made from
	Invertible bool
}

// Diff returns the operations that turn left into right
func Diff(left, right models.JSONValue, opts Options) (jsondiff.Patch, error) {
	source, err := models.Marshal(left)
	if err != nil {
		return nil, errors.NewPatchError("failed to encode the left document", err)
	}
	target, err := models.Marshal(right)
	if err != nil {
		return nil, errors.NewPatchError("failed to encode the right document", err)
	}

	var options []jsondiff.Option
	if opts.Invertible {
		options = append(options, jsondiff.Invertible())
	}

	ops, err := jsondiff.CompareJSON(source, target, options...)
	if err != nil {
		return nil, errors.NewPatchError("failed to compute the patch", err)
	}
	return ops, nil
}

// Encode writes a patch as indented JSON. An empty patch is "[]".
func Encode(ops jsondiff.Patch) ([]byte, error) {
	if len(ops) == 0 {
		return []byte("[]\n"), nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, errors.NewPatchError("failed to encode the patch", err)
	}
	return pretty.Pretty(raw), nil
}

// Apply applies an encoded patch to doc and returns the patched document
func Apply(doc models.JSONValue, patchJSON []byte) (models.JSONValue, error) {
	ops, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, errors.NewPatchError("invalid JSON Patch", err)
	}

	source, err := models.Marshal(doc)
	if err != nil {
		return nil, errors.NewPatchError("failed to encode the document", err)
	}

	patched, err := ops.Apply(source)
	if err != nil {
		return nil, errors.NewPatchError(fmt.Sprintf("failed to apply %d operations", len(ops)), err)
	}

	return parser.ParseBytes(patched)
}
