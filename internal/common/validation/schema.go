package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is a draft-07 schema document expressed as a Go value.
type JSONSchema map[string]interface{}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// EnumField builds an object schema with one required string property
// restricted to values. Extra properties are allowed.
func EnumField(field string, values []string) JSONSchema {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return JSONSchema{
		"type":     "object",
		"required": []interface{}{field},
		"properties": map[string]interface{}{
			field: map[string]interface{}{
				"type": "string",
				"enum": enum,
			},
		},
	}
}

// OptionalStringField builds an object schema whose field, when present,
// must be a string or null.
func OptionalStringField(field string) JSONSchema {
	return JSONSchema{
		"type": "object",
		"properties": map[string]interface{}{
			field: map[string]interface{}{"type": []interface{}{"string", "null"}},
		},
	}
}

// ValidateDocument checks a raw JSON document against schema. The error is
// non-nil only when the document is not JSON or the schema is unusable.
func ValidateDocument(schema JSONSchema, doc []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(map[string]interface{}(schema)),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
