package changelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/pkg/validation"
)

// Separator joins change lines into one history description.
const Separator = " | "

var validate = validation.New()

// Schema is the whitelist of mutable fields of T.
type Schema[T any] struct {
	fields map[string]Field[T]
	names  []string
}

// NewSchema builds a Schema. Duplicate names panic: schemas are static.
func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{fields: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		if _, dup := s.fields[f.name]; dup {
			panic("changelog: duplicate field " + f.name)
		}
		s.fields[f.name] = f
		s.names = append(s.names, f.name)
	}
	return s
}

// Names returns the mutable field names in declaration order.
func (s *Schema[T]) Names() []string { return append([]string(nil), s.names...) }

// Assignment sets one field to a new value.
type Assignment struct {
	Field string
	Value any
}

// Patch is a partial update in the order its fields were supplied.
type Patch []Assignment

// Fields returns the field names of the patch.
func (p Patch) Fields() []string {
	out := make([]string, len(p))
	for i, a := range p {
		out[i] = a.Field
	}
	return out
}

// Decode parses a JSON object into a Patch, keeping key order. Unknown or
// repeated keys, values of the wrong type and rule violations are reported
// as domain.ErrValidation.
func Decode[T any](body []byte, s *Schema[T]) (Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: body must be a JSON object", domain.ErrValidation)
	}

	var patch Patch
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed JSON: %v", domain.ErrValidation, err)
		}
		key := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: malformed value for %s: %v", domain.ErrValidation, key, err)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: field %q supplied twice", domain.ErrValidation, key)
		}
		seen[key] = struct{}{}

		v, err := s.value(key, raw)
		if err != nil {
			return nil, err
		}
		patch = append(patch, Assignment{Field: key, Value: v})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", domain.ErrValidation, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", domain.ErrValidation)
	}
	return patch, nil
}

// value coerces raw into the field's type and checks its rules.
func (s *Schema[T]) value(name string, raw any) (any, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q (allowed: %s)", domain.ErrValidation, name, strings.Join(s.Names(), ", "))
	}
	v, err := f.coerce(raw)
	if err != nil {
		return nil, err
	}
	if f.rules == "" {
		return v, nil
	}
	if err := validate.Var(v, f.rules); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Message(name, ve[0]))
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, name, err)
	}
	return v, nil
}

// Result is the outcome of applying a Patch.
type Result struct {
	// Lines holds one "<field>: <old> -> <new>" entry per changed field.
	Lines []string
	// Columns holds the storage columns that changed, aligned with Lines.
	Columns []string
}

// Changed reports whether any field differs.
func (r Result) Changed() bool { return len(r.Lines) > 0 }

// String joins the lines with Separator.
func (r Result) String() string { return strings.Join(r.Lines, Separator) }

// Apply writes every differing value of patch into entity and describes the
// change. Fields whose textual form is unchanged are skipped. Values are
// coerced and validated again so hand-built patches obey the same rules.
func Apply[T any](entity *T, s *Schema[T], patch Patch) (Result, error) {
	var res Result
	for _, a := range patch {
		v, err := s.value(a.Field, a.Value)
		if err != nil {
			return Result{}, err
		}
		f := s.fields[a.Field]
		if f.unchanged(entity, v) {
			continue
		}
		line := f.describe(entity, v)
		if err := f.assign(entity, v); err != nil {
			return Result{}, err
		}
		res.Lines = append(res.Lines, line)
		res.Columns = append(res.Columns, f.column)
	}
	return res, nil
}
