package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// ErrInvalidInput is returned when an input cannot be read as numbers, see
// common.ErrInvalidInput
var ErrInvalidInput = common.ErrInvalidInput

// ReadSource reads a whole input file. The name "-" reads stdin instead.
func ReadSource(name string, stdin io.Reader) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("no input file given: %w", ErrInvalidInput)
	}
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// ParseNumbers extracts a numeric series from data.
//
// With a gjson path the value at that path must be an array of numbers. With
// no path, data is either a JSON array of numbers or plain text holding
// whitespace-separated numbers.
func ParseNumbers(data []byte, path string) ([]float64, error) {
	if path != "" {
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("path %q given but input is not valid JSON: %w", path, ErrInvalidInput)
		}
		result := gjson.GetBytes(data, path)
		if !result.Exists() {
			return nil, fmt.Errorf("path not found: %s: %w", path, ErrInvalidInput)
		}
		return numberArray(result, path)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if !gjson.ValidBytes(trimmed) {
			return nil, fmt.Errorf("malformed JSON array: %w", ErrInvalidInput)
		}
		return numberArray(gjson.ParseBytes(trimmed), "@this")
	}

	return parsePlain(trimmed)
}

// numberArray converts a gjson array result to floats
func numberArray(result gjson.Result, path string) ([]float64, error) {
	if !result.IsArray() {
		return nil, fmt.Errorf("value at %s is %s, not an array: %w", path, result.Type, ErrInvalidInput)
	}

	items := result.Array()
	values := make([]float64, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, fmt.Errorf("element %d at %s is %s, not a number: %w", i, path, item.Type, ErrInvalidInput)
		}
		values = append(values, item.Float())
	}
	return values, nil
}

func parsePlain(data []byte) ([]float64, error) {
	fields := bytes.Fields(data)
	values := make([]float64, 0, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(string(field), 64)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q) is not a number: %w", i, field, ErrInvalidInput)
		}
		values = append(values, v)
	}
	return values, nil
}
