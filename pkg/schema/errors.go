package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
)

// ValidationError describes why a value does not match a schema.
// Path locates the offending value inside the validated one, Field is the
// schema keyword that failed, Schema is the failing schema fragment and
// Instance the failing value.
type ValidationError struct {
	Path     []string
	Field    string
	Schema   Schema
	Instance any
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Format renders the message followed by the failing schema fragment and
// the failing instance.
func (e *ValidationError) Format() string {
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString("\n\nFailed validating '")
	b.WriteString(e.Field)
	b.WriteString("' in schema")
	if len(e.Path) > 0 {
		b.WriteString("['")
		b.WriteString(strings.Join(e.Path, "']['"))
		b.WriteString("']")
	}
	b.WriteString(":\n    ")
	b.WriteString(repr(e.Schema))
	b.WriteString("\n\nOn instance")
	if len(e.Path) > 0 {
		b.WriteString("['")
		b.WriteString(strings.Join(e.Path, "']['"))
		b.WriteString("']")
	}
	b.WriteString(":\n    ")
	b.WriteString(repr(e.Instance))
	return b.String()
}

func newValidationError(err error, value any) *ValidationError {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return &ValidationError{Instance: value, Message: err.Error()}
	}

	fragment := fragmentOf(schemaErr.Schema)
	return &ValidationError{
		Path:     schemaErr.JSONPointer(),
		Field:    schemaErr.SchemaField,
		Schema:   fragment,
		Instance: schemaErr.Value,
		Message:  describe(schemaErr, fragment),
	}
}

func describe(err *openapi3.SchemaError, fragment Schema) string {
	switch err.SchemaField {
	case "type":
		if typ := fragment.Type(); typ != "" {
			return fmt.Sprintf("%s is not of type '%s'", repr(err.Value), typ)
		}
	case "nullable":
		if typ := fragment.Type(); typ != "" {
			return fmt.Sprintf("null is not of type '%s'", typ)
		}
		return "null is not allowed"
	case "enum":
		return fmt.Sprintf("%s is not one of %s", repr(err.Value), repr(fragment["enum"]))
	}
	return err.Reason
}

func fragmentOf(s *openapi3.Schema) Schema {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var res map[string]any
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	return res
}

func repr(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
