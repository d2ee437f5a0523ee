package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// execute runs the command tree with captured streams
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"argmax", "peak", "histogram", "analyze"})
}

func TestRootCommandHelp(t *testing.T) {
	stdout, _, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "capillary")
	assert.Contains(t, stdout, "analyze")
}

func TestRootCommandRejectsBadGlobalFlags(t *testing.T) {
	_, _, err := execute(t, "[1]", "argmax", "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = execute(t, "[1]", "argmax", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestArgmaxCommand(t *testing.T) {
	stdout, _, err := execute(t, "[1, 3, 3, 2]", "argmax", "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"index": 1, "value": 3}`, stdout)
}

func TestArgmaxCommandWithPath(t *testing.T) {
	file := writeFile(t, "frame.json", `{"rows": [{"values": [0, 5, 9, 2]}]}`)

	stdout, _, err := execute(t, "", "argmax", "--input", file, "--path", "rows.0.values", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"index": 2, "value": 9}`, stdout)
}

func TestArgmaxCommandTextOutput(t *testing.T) {
	stdout, _, err := execute(t, "4 8 1", "argmax")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ARGMAX")
	assert.Contains(t, stdout, "8")
}

func TestArgmaxCommandEmptyInput(t *testing.T) {
	_, _, err := execute(t, "[]", "argmax")
	assert.ErrorContains(t, err, "invalid input")
}

func TestPeakCommand(t *testing.T) {
	stdout, _, err := execute(t, "[0, 1, 3, 2, 0]", "peak", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"index": 2`)
	assert.Contains(t, stdout, `"position": 2.1666666666666665`)
}

func TestPeakCommandAtIndex(t *testing.T) {
	stdout, _, err := execute(t, "[5, 0, 1, 3, 2, 0]", "peak", "--index", "3", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "index: 3")
	assert.Contains(t, stdout, "position: 3.1666666666666665")

	_, _, err = execute(t, "[5, 0, 1]", "peak", "--index", "7")
	assert.Error(t, err)
}

func TestPeakCommandExplicitIndex(t *testing.T) {
	stdout, _, err := execute(t, "[1, 0, 5, 0]", "peak", "--index", "0", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "index: 0")

	_, _, err = execute(t, "[1, 0, 5, 0]", "peak", "--index=-3")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestHistogramCommand(t *testing.T) {
	stdout, _, err := execute(t, "1 2 2 3 3 3 4", "histogram", "--buckets", "4", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"statistic": "count"`)
	assert.Contains(t, stdout, `"count": 7`)
	assert.Contains(t, stdout, `"center": 1.375`)
}

func TestHistogramCommandRange(t *testing.T) {
	stdout, _, err := execute(t, "[0.5, 1, 2, 3, 9]", "histogram", "-b", "2", "--min", "0", "--max", "4", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"count": 4`)

	_, _, err = execute(t, "[1, 2]", "histogram", "--min", "0")
	assert.ErrorContains(t, err, "--min and --max")

	_, _, err = execute(t, "[1, 2]", "histogram", "--statistic", "median")
	assert.Error(t, err)
}
