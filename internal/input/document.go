package input

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

//go:embed schema.json
var documentSchema string

const documentSchemaURL = "capillary-analysis.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// AnalysisDocument is the input of the analyze command
type AnalysisDocument struct {
	Profiles   [][]float64 `json:"profiles"`
	Resolution float64     `json:"resolution,omitempty"` // Pixels per metre, 0 when absent
	Frequency  float64     `json:"frequency,omitempty"`  // Hz, 0 when absent
}

// ValidationErrors collects every schema violation found in a document
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Unwrap exposes ErrInvalidInput to errors.Is
func (ve ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			compileErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(documentSchemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateDocument checks data against the embedded analysis document schema
func ValidateDocument(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %v: %w", err, ErrInvalidInput)
	}

	if err := s.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return extractValidationErrors(validationErr)
		}
		return ValidationErrors{err}
	}
	return nil
}

// extractValidationErrors flattens a jsonschema.ValidationError tree
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("%s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}
	return errs
}

// ParseDocument validates data and extracts the analysis document
func ParseDocument(data []byte) (*AnalysisDocument, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(data)
	doc := &AnalysisDocument{
		Resolution: root.Get("resolution").Float(),
		Frequency:  root.Get("frequency").Float(),
	}

	for i, profile := range root.Get("profiles").Array() {
		values, err := numberArray(profile, fmt.Sprintf("profiles.%d", i))
		if err != nil {
			return nil, err
		}
		doc.Profiles = append(doc.Profiles, values)
	}
	return doc, nil
}
