package schema

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
)

// ErrInvalidSchema is returned when a schema node cannot be compiled.
var ErrInvalidSchema = errors.New("invalid schema")

// Direction tells which side of the exchange a value travels on.
type Direction int

const (
	// Request values may carry writeOnly properties but not readOnly ones.
	Request Direction = iota
	// Response values may carry readOnly properties but not writeOnly ones.
	Response
)

func (d Direction) String() string {
	if d == Response {
		return "response"
	}
	return "request"
}

// allows reports whether a value for the property may appear in this direction.
func (d Direction) allows(prop Schema) bool {
	if d == Request {
		return !prop.Bool("readOnly")
	}
	return !prop.Bool("writeOnly") && !prop.Bool("x-writeOnly")
}

// Validator validates values in one direction.
// Compiled schemas are cached and the validator is safe for concurrent use.
type Validator struct {
	direction Direction

	mu    sync.RWMutex
	cache map[string]*openapi3.Schema
}

// NewRequestValidator creates a validator for incoming values.
func NewRequestValidator() *Validator {
	return NewValidator(Request)
}

// NewResponseValidator creates a validator for outgoing values.
func NewResponseValidator() *Validator {
	return NewValidator(Response)
}

// NewValidator creates a validator for the given direction.
func NewValidator(direction Direction) *Validator {
	return &Validator{
		direction: direction,
		cache:     make(map[string]*openapi3.Schema),
	}
}

// Validate checks value against s. The returned error is a *ValidationError
// for invalid values, or wraps ErrInvalidSchema when s cannot be compiled.
func (v *Validator) Validate(s Schema, value any) error {
	value = NormalizeValue(value)

	if err := v.checkAccess(s, value, nil); err != nil {
		return err
	}

	compiled, err := v.compile(s)
	if err != nil {
		return err
	}

	opt := openapi3.VisitAsRequest()
	if v.direction == Response {
		opt = openapi3.VisitAsResponse()
	}

	if err := compiled.VisitJSON(value, opt); err != nil {
		return newValidationError(err, value)
	}
	return nil
}

// checkAccess rejects readOnly values in requests and writeOnly values in responses.
func (v *Validator) checkAccess(s Schema, value any, path []string) error {
	if s == nil {
		return nil
	}

	if !v.direction.allows(s) {
		field, message := "readOnly", "Property is read-only"
		if v.direction == Response {
			field, message = "writeOnly", "Property is write-only"
		}
		return &ValidationError{
			Path:     path,
			Field:    field,
			Schema:   s,
			Instance: value,
			Message:  message,
		}
	}

	switch val := value.(type) {
	case map[string]any:
		props := s.Properties()
		for _, name := range sortedKeys(val) {
			prop, ok := props[name]
			if !ok {
				continue
			}
			if err := v.checkAccess(prop, val[name], appendPath(path, name)); err != nil {
				return err
			}
		}
	case []any:
		if items := s.Items(); items != nil {
			for i, item := range val {
				if err := v.checkAccess(items, item, appendPath(path, strconv.Itoa(i))); err != nil {
					return err
				}
			}
		}
	}

	for _, sub := range s.List("allOf") {
		if err := v.checkAccess(sub, value, path); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) compile(s Schema) (*openapi3.Schema, error) {
	data, err := json.Marshal(normalize(s, v.direction))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	key := string(data)

	v.mu.RLock()
	compiled, found := v.cache[key]
	v.mu.RUnlock()
	if found {
		return compiled, nil
	}

	compiled = openapi3.NewSchema()
	if err := compiled.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	v.mu.Lock()
	v.cache[key] = compiled
	v.mu.Unlock()

	return compiled, nil
}

func appendPath(path []string, elem string) []string {
	res := make([]string, len(path), len(path)+1)
	copy(res, path)
	return append(res, elem)
}
