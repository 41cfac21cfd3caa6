// Package property implements the handler of property descriptors: contract methods
// reading or writing one remote property through a codec.
package property

import (
	"context"
	"reflect"

	"github.com/anoideaopen/litbridge/core/codec"
	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/routing"
)

// Handler dispatches methods described by descriptor.Property.
//
// A method returning no value is a setter and needs one parameter;
// any other method is a getter. The value type must have a codec.
type Handler struct {
	routing.Rules
	codecs *codec.Table
}

// New returns a property handler over codecs.
// required and exclusive are the descriptor kinds that must and must not accompany a property.
func New(codecs *codec.Table, required, exclusive []descriptor.Kind) *Handler {
	return &Handler{
		Rules:  routing.NewRules(descriptor.KindProperty, required, exclusive),
		codecs: codecs,
	}
}

// Handle implements routing.Handler.
func (h *Handler) Handle(ctx context.Context, call *routing.Call) (any, error) {
	m := call.Method
	if err := h.Check(m); err != nil {
		return nil, err
	}

	p, err := h.property(m)
	if err != nil {
		return nil, err
	}

	setter := m.IsVoid()

	var valueType reflect.Type
	if setter {
		if len(m.Params) == 0 {
			return nil, routing.NewMethodError(routing.ErrMissingParameter, m, h.Kind(), "setter needs the property value")
		}
		valueType = m.Params[0]
	} else {
		valueType = m.Return
	}

	c, ok := h.codecs.Lookup(valueType)
	if !ok {
		return nil, routing.NewMethodError(routing.ErrUnsupportedType, m, h.Kind(), "type %s", valueType)
	}

	if setter && len(call.Args) == 0 {
		return nil, routing.NewMethodError(routing.ErrArgumentCount, m, h.Kind(), "got no arguments")
	}

	el, err := call.Element()
	if err != nil {
		return nil, err
	}

	if setter {
		return nil, c.Set(ctx, el, p, call.Args[0])
	}

	return c.Get(ctx, el, p)
}

func (h *Handler) property(m *routing.Method) (descriptor.Property, error) {
	d, err := h.Own(m)
	if err != nil {
		return descriptor.Property{}, err
	}

	switch p := d.(type) {
	case descriptor.Property:
		return p, nil
	case *descriptor.Property:
		return *p, nil
	default:
		return descriptor.Property{}, routing.NewMethodError(routing.ErrMethodInvalid, m, h.Kind(), "descriptor %T", d)
	}
}
