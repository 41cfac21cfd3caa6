// Package codec converts between typed Go values and the raw property values of an element.
//
// A Codec owns one Go type. The Table maps Go types to codecs and is consulted by the
// property handler to read and write remote properties.
package codec

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
	"google.golang.org/protobuf/types/known/structpb"
)

// Error types.
var (
	ErrInvalidDefault = errors.New("invalid default value")
	ErrInvalidValue   = errors.New("invalid property value")
	ErrValueType      = errors.New("unexpected value type")
)

// Codec reads and writes a remote property as a value of one Go type.
type Codec interface {
	// Type returns the Go type handled by the codec.
	Type() reflect.Type

	// Get reads the property described by p and decodes it.
	// Raw properties are read without a default; absent values decode to the zero value.
	Get(ctx context.Context, el element.Element, p descriptor.Property) (any, error)

	// Set encodes value and writes it as the property described by p.
	Set(ctx context.Context, el element.Element, p descriptor.Property, value any) error
}

// Converter holds the conversions of a Go type T.
type Converter[T any] struct {
	Decode       func(v *structpb.Value) (T, error)
	Encode       func(v T) (*structpb.Value, error)
	ParseDefault func(s string) (T, error)
}

// Of returns a Codec for T built from conv.
func Of[T any](conv Converter[T]) Codec {
	return typed[T]{
		typ:  reflect.TypeFor[T](),
		conv: conv,
	}
}

type typed[T any] struct {
	typ  reflect.Type
	conv Converter[T]
}

func (c typed[T]) Type() reflect.Type { return c.typ }

func (c typed[T]) Get(ctx context.Context, el element.Element, p descriptor.Property) (any, error) {
	var (
		raw *structpb.Value
		err error
	)
	if p.Raw {
		raw, err = el.GetProperty(ctx, p.Name)
	} else {
		var def *structpb.Value
		if def, err = c.defaultValue(p); err != nil {
			return nil, err
		}
		raw, err = el.GetPropertyOr(ctx, p.Name, def)
	}
	if err != nil {
		return nil, err
	}

	if element.IsUnset(raw) {
		var zero T
		return zero, nil
	}

	v, err := c.conv.Decode(raw)
	if err != nil {
		return nil, NewValueError(ErrInvalidValue, raw.String(), c.typ, err)
	}

	return v, nil
}

func (c typed[T]) Set(ctx context.Context, el element.Element, p descriptor.Property, value any) error {
	v, ok := value.(T)
	if !ok && (value != nil || !nilable(c.typ)) {
		return fmt.Errorf("%w: got '%T' for property '%s' of type '%s'", ErrValueType, value, p.Name, c.typ)
	}

	raw, err := c.conv.Encode(v)
	if err != nil {
		return NewValueError(ErrInvalidValue, fmt.Sprint(value), c.typ, err)
	}

	return el.SetProperty(ctx, p.Name, raw)
}

func (c typed[T]) defaultValue(p descriptor.Property) (*structpb.Value, error) {
	def, err := c.conv.ParseDefault(p.Default)
	if err != nil {
		return nil, NewValueError(ErrInvalidDefault, p.Default, c.typ, err)
	}

	raw, err := c.conv.Encode(def)
	if err != nil {
		return nil, NewValueError(ErrInvalidDefault, p.Default, c.typ, err)
	}

	return raw, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// ValueError wraps a conversion failure with the value and the target type involved.
type ValueError struct {
	external error
	internal error
	arg, t   string
}

// Error returns a formatted error message indicating the conversion failure.
func (e ValueError) Error() string {
	if e.external == nil {
		return fmt.Sprintf("%v: '%s': for type '%s'", e.internal, e.arg, e.t)
	}

	return fmt.Sprintf("%v: '%s': for type '%s': '%v'", e.internal, e.arg, e.t, e.external)
}

// Is checks if the target error matches the internal error.
func (e ValueError) Is(target error) bool {
	return e.internal == target
}

// Unwrap returns the external error, if any.
func (e ValueError) Unwrap() error {
	return e.external
}

// NewValueError constructs a ValueError of the given kind (ErrInvalidValue or ErrInvalidDefault).
func NewValueError(kind error, arg string, t reflect.Type, errOrNil error) error {
	return ValueError{
		external: errOrNil,
		internal: kind,
		arg:      arg,
		t:        t.String(),
	}
}
