package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEndToEnd_ComplexNestedStructures compares two revisions of a nested
// service configuration
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	leftContent := `{
		"id": 12345,
		"config": {
			"enabled": true,
			"timeout_seconds": 30,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "burst": 150},
			"environments": {
				"development": {"debug": true, "log_level": "debug"},
				"production": {"debug": false, "log_level": "info"}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"]},
			{"id": 2, "name": "Bob", "roles": ["user"]}
		],
		"updated_at": null
	}`
	rightContent := `{
		"id": 12345,
		"config": {
			"enabled": true,
			"timeout_seconds": "30",
			"features": ["logging", "metrics"],
			"rate_limits": {"per_second": 100, "per_minute": 1000},
			"environments": {
				"development": {"debug": true, "log_level": "debug"},
				"staging": {"debug": false, "log_level": "warn"},
				"production": {"debug": false, "log_level": "info"}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin"], "email": "alice@example.com"},
			{"id": 2, "name": "Bob", "roles": ["user"]}
		],
		"updated_at": null
	}`

	leftFile := filepath.Join(tempDir, "left.json")
	require.NoError(t, os.WriteFile(leftFile, []byte(leftContent), 0644))
	rightFile := filepath.Join(tempDir, "right.json")
	require.NoError(t, os.WriteFile(rightFile, []byte(rightContent), 0644))

	// Text diff
	cmd := exec.Command("go", "run", "../..", "--no-color", "compare", "--show-ids", leftFile, rightFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	text := string(output)
	assert.Contains(t, text, `Key "timeout_seconds": Type mismatch: number vs string`)
	assert.Contains(t, text, `Key "features": Array length mismatch: 3 vs 2`)
	assert.Contains(t, text, `Element 2 (left only): "alerting"`)
	assert.Contains(t, text, `Key "burst" (left only): 150`)
	assert.Contains(t, text, `Key "staging" (right only)`)
	assert.Contains(t, text, `Key "updated_at": Equal: null`)
	assert.Contains(t, text, "[section-0]")

	// Missing keys follow the right document's order, then the left's
	cmd = exec.Command("go", "run", "../..", "missing", "-o", "json", leftFile, rightFile)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	var report map[string][]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, []string{
		"config.rate_limits.per_minute",
		"config.environments.staging",
		"users[0].email",
	}, report["missing_in_left"])
	assert.Equal(t, []string{"config.rate_limits.burst"}, report["missing_in_right"])
}

// TestEndToEnd_CopyMissingBack copies the keys missing on the left and
// checks that merging them removes every missing-in-left entry at the top
// level
func TestEndToEnd_CopyMissingBack(t *testing.T) {
	tempDir := t.TempDir()

	left := `{"a": 1}`
	right := `{"a": 1, "b": {"c": [1, 2]}, "d": "x", "e": null}`

	leftFile := filepath.Join(tempDir, "left.json")
	require.NoError(t, os.WriteFile(leftFile, []byte(left), 0644))
	rightFile := filepath.Join(tempDir, "right.json")
	require.NoError(t, os.WriteFile(rightFile, []byte(right), 0644))

	cmd := exec.Command("go", "run", "../..", "copy-all", "--list", "missing-in-left", leftFile, rightFile)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload))
	payload["a"] = float64(1)

	merged, err := json.Marshal(payload)
	require.NoError(t, err)
	mergedFile := filepath.Join(tempDir, "merged.json")
	require.NoError(t, os.WriteFile(mergedFile, merged, 0644))

	cmd = exec.Command("go", "run", "../..", "compare", "--exit-code", mergedFile, rightFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "documents still differ: %s", string(output))
}

// TestEndToEnd_LineView tests the line diff over pretty printed documents
func TestEndToEnd_LineView(t *testing.T) {
	tempDir := t.TempDir()

	leftFile := filepath.Join(tempDir, "left.json")
	require.NoError(t, os.WriteFile(leftFile, []byte(`{"name":"a","tags":["x"]}`), 0644))

	cmd := exec.Command("go", "run", "../..", "--no-color", "lines", leftFile, "-")
	cmd.Stdin = strings.NewReader(`{"name":"b","tags":["x"]}`)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	text := string(output)
	assert.Contains(t, text, `-   "name": "a",`)
	assert.Contains(t, text, `+   "name": "b",`)
	assert.Contains(t, text, "1 removed, 1 added")
}

// TestEndToEnd_LargeDocuments compares two generated documents that differ
// in a known set of items
func TestEndToEnd_LargeDocuments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large document test in short mode")
	}

	tempDir := t.TempDir()
	leftFile := filepath.Join(tempDir, "left.json")
	rightFile := filepath.Join(tempDir, "right.json")

	generateLargeJSON(t, leftFile, 1000, nil)
	generateLargeJSON(t, rightFile, 1000, map[int]bool{10: true, 500: true})

	cmd := exec.Command("go", "run", "../..", "missing", "-o", "json", leftFile, rightFile)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	var report map[string][]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, []string{"items[10].flagged", "items[500].flagged"}, report["missing_in_left"])
	assert.Empty(t, report["missing_in_right"])
}

// generateLargeJSON writes a document with itemCount items. Items whose index
// is in flagged get an extra key.
func generateLargeJSON(t testing.TB, filePath string, itemCount int, flagged map[int]bool) {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		item := map[string]interface{}{
			"id":          i + 1,
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"metadata": map[string]interface{}{
				"source":   "test",
				"priority": rng.Intn(5) + 1,
			},
		}
		if flagged[i] {
			item["flagged"] = true
		}
		items[i] = item
	}

	data, err := json.MarshalIndent(map[string]interface{}{"items": items}, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, data, 0644))
}
