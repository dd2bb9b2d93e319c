// Package jsonifier is the single place where request and response payloads
// are converted to and from JSON.
package jsonifier

import (
	"bytes"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

var ErrTrailingData = errors.New("invalid character after top-level value")

// Codec decodes request bodies and encodes response bodies.
type Codec interface {
	Decode(data []byte) (any, error)
	Encode(value any) ([]byte, error)
}

// Jsonifier is the default Codec.
// Times are written as RFC 3339 strings and uuid.UUID values as their
// canonical text form.
type Jsonifier struct {
	indent string
}

// Option configures a Jsonifier.
type Option func(*Jsonifier)

// WithIndent pretty-prints encoded documents.
func WithIndent(indent string) Option {
	return func(j *Jsonifier) {
		j.indent = indent
	}
}

// New creates a Jsonifier.
func New(opts ...Option) *Jsonifier {
	j := &Jsonifier{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Decode parses a document. Empty input decodes to nil.
// Numbers are kept as json.Number so large integers survive.
func (j *Jsonifier) Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var res any
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	return res, nil
}

// Encode renders a value followed by a newline.
func (j *Jsonifier) Encode(value any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if j.indent != "" {
		data, err = json.MarshalIndent(value, "", j.indent)
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date time.Time

const dateLayout = "2006-01-02"

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}
