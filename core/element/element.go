// Package element defines the remote-accessible surface of a component: the properties and
// functions of a remote UI element, and the handle of an in-flight function call.
//
// Values crossing the surface use the loosely-typed protobuf value model (*structpb.Value):
// strings, numbers, booleans, null, lists and structs.
package element

import (
	"context"
	"errors"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrUnknownFunction is returned by CallFunction when the element has no such function.
var ErrUnknownFunction = errors.New("unknown function")

// Element is the remote property and function surface of a component.
type Element interface {
	// GetProperty returns the current raw value of the named property,
	// or nil when the property is not set.
	GetProperty(ctx context.Context, name string) (*structpb.Value, error)

	// GetPropertyOr returns the current raw value of the named property,
	// or def when the property is not set.
	GetPropertyOr(ctx context.Context, name string, def *structpb.Value) (*structpb.Value, error)

	// SetProperty writes the raw value of the named property.
	SetProperty(ctx context.Context, name string, value *structpb.Value) error

	// CallFunction invokes the named remote function with positional arguments.
	// The returned handle completes when the remote function returns.
	CallFunction(ctx context.Context, name string, args ...any) (PendingResult, error)
}

// Owner is implemented by components exposing an Element.
type Owner interface {
	Element() Element
}

// IsUnset reports whether v represents an absent property value.
func IsUnset(v *structpb.Value) bool {
	if v == nil {
		return true
	}

	_, isNull := v.GetKind().(*structpb.Value_NullValue)

	return isNull || v.GetKind() == nil
}

// Values converts positional Go arguments into raw values.
func Values(args []any) ([]*structpb.Value, error) {
	values := make([]*structpb.Value, len(args))
	for i, arg := range args {
		if v, ok := arg.(*structpb.Value); ok {
			values[i] = v
			continue
		}

		v, err := structpb.NewValue(arg)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	return values, nil
}
