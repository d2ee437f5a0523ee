package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		path     string
		expected []float64
	}{
		{name: "json array", data: "[1, 2.5, -3e2]", expected: []float64{1, 2.5, -300}},
		{name: "json array with padding", data: "\n  [4, 5]\n", expected: []float64{4, 5}},
		{name: "plain text", data: "1 2\n3\t4.5\n", expected: []float64{1, 2, 3, 4.5}},
		{name: "gjson path", data: `{"frames": [{"row": [7, 8, 9]}]}`, path: "frames.0.row", expected: []float64{7, 8, 9}},
		{name: "empty array", data: "[]", expected: []float64{}},
		{name: "empty text", data: "   ", expected: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ParseNumbers([]byte(tt.data), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestParseNumbersErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		path    string
		message string
	}{
		{name: "missing path", data: `{"a": [1]}`, path: "b", message: "path not found"},
		{name: "not an array", data: `{"a": 1}`, path: "a", message: "not an array"},
		{name: "non-numeric element", data: `[1, "two", 3]`, message: "element 1"},
		{name: "malformed json", data: `[1, 2`, message: "malformed JSON"},
		{name: "path on plain text", data: "1 2 3", path: "a", message: "not valid JSON"},
		{name: "bad token", data: "1 two 3", message: "token 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNumbers([]byte(tt.data), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "values.txt")
	require.NoError(t, os.WriteFile(file, []byte("1 2 3"), 0o644))

	data, err := ReadSource(file, nil)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", string(data))

	data, err = ReadSource("-", strings.NewReader("[4]"))
	require.NoError(t, err)
	assert.Equal(t, "[4]", string(data))

	_, err = ReadSource(filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)

	_, err = ReadSource("", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvalidInputSharesLibrarySentinel(t *testing.T) {
	_, err := ParseNumbers([]byte("1 two 3"), "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = ParseDocument([]byte(`{"profiles": []}`))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
