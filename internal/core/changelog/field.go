// Package changelog computes field-level diffs between a stored entity and a
// partial update, in the order the update supplied its fields.
//
// Every mutable attribute of an entity is declared once in a Schema. Values
// are compared by their textual form, so 22 and "22" are the same port.
package changelog

import (
	"fmt"
	"time"

	"github.com/rackledger/inventory/internal/core/domain"
)

const mask = "***"

// Option tunes a Field.
type Option func(*options)

type options struct {
	column string
	rules  string
	masked bool
}

// Column overrides the storage column, which defaults to the field name.
func Column(name string) Option { return func(o *options) { o.column = name } }

// Rules attaches go-playground validator tags checked on every new value.
func Rules(tag string) Option { return func(o *options) { o.rules = tag } }

// Masked hides old and new values in the change description.
func Masked() Option { return func(o *options) { o.masked = true } }

// Field describes one mutable attribute of T.
type Field[T any] struct {
	name string
	options
	codec codec
	get   func(*T) any
	set   func(*T, any)
	same  func(*T, any) bool
	setE  func(*T, any) error
}

// Name returns the wire name of the field.
func (f Field[T]) Name() string { return f.name }

func newField[T any](name string, c codec, get func(*T) any, set func(*T, any), opts []Option) Field[T] {
	f := Field[T]{name: name, codec: c, get: get, set: set}
	f.column = name
	for _, opt := range opts {
		opt(&f.options)
	}
	return f
}

// String declares a text field. JSON null clears it.
func String[T any, S ~string](name string, ref func(*T) *S, opts ...Option) Field[T] {
	return newField(name, textCodec,
		func(e *T) any { return string(*ref(e)) },
		func(e *T, v any) { *ref(e) = S(v.(string)) },
		opts)
}

// Int declares an integer field; numeric strings are accepted.
func Int[T any](name string, ref func(*T) *int, opts ...Option) Field[T] {
	return newField(name, intCodec,
		func(e *T) any { return *ref(e) },
		func(e *T, v any) { *ref(e) = v.(int) },
		opts)
}

// Float declares a decimal field; numeric strings are accepted.
func Float[T any](name string, ref func(*T) *float64, opts ...Option) Field[T] {
	return newField(name, floatCodec,
		func(e *T) any { return *ref(e) },
		func(e *T, v any) { *ref(e) = v.(float64) },
		opts)
}

// Time declares a timestamp field (RFC 3339 or YYYY-MM-DD on the wire).
func Time[T any](name string, ref func(*T) *time.Time, opts ...Option) Field[T] {
	return newField(name, timeCodec,
		func(e *T) any { return *ref(e) },
		func(e *T, v any) { *ref(e) = v.(time.Time) },
		opts)
}

// Ref declares a nullable reference to another entity's id.
func Ref[T any](name string, ref func(*T) **uint, opts ...Option) Field[T] {
	return newField(name, refCodec,
		func(e *T) any { return *ref(e) },
		func(e *T, v any) { *ref(e) = v.(*uint) },
		opts)
}

// ID declares a required reference to another entity's id.
func ID[T any](name string, ref func(*T) *uint, opts ...Option) Field[T] {
	return newField(name, idCodec,
		func(e *T) any { return *ref(e) },
		func(e *T, v any) { *ref(e) = v.(uint) },
		opts)
}

// Secret declares a hashed credential. The plaintext is compared with
// matches and stored through hash; the description is always masked.
func Secret[T any](name string, ref func(*T) *string, hash func(string) (string, error), matches func(hashed, plain string) bool, opts ...Option) Field[T] {
	f := newField(name, textCodec, func(e *T) any { return *ref(e) }, nil, opts)
	f.masked = true
	f.same = func(e *T, v any) bool { return matches(*ref(e), v.(string)) }
	f.setE = func(e *T, v any) error {
		hashed, err := hash(v.(string))
		if err != nil {
			return fmt.Errorf("hash %s: %w", name, err)
		}
		*ref(e) = hashed
		return nil
	}
	return f
}

func (f Field[T]) unchanged(e *T, v any) bool {
	if f.same != nil {
		return f.same(e, v)
	}
	return f.codec.format(f.get(e)) == f.codec.format(v)
}

func (f Field[T]) describe(e *T, v any) string {
	if f.masked {
		return fmt.Sprintf("%s: %s -> %s", f.name, mask, mask)
	}
	return fmt.Sprintf("%s: %s -> %s", f.name, f.codec.format(f.get(e)), f.codec.format(v))
}

func (f Field[T]) assign(e *T, v any) error {
	if f.setE != nil {
		return f.setE(e, v)
	}
	f.set(e, v)
	return nil
}

func (f Field[T]) coerce(v any) (any, error) {
	out, err := f.codec.coerce(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %v", domain.ErrValidation, f.name, err)
	}
	return out, nil
}
