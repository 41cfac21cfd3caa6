// Package function implements the handler of function descriptors: contract methods
// invoking one remote function.
package function

import (
	"context"
	"reflect"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/routing"
)

var pendingType = reflect.TypeFor[element.PendingResult]()

// Handler dispatches methods described by descriptor.Function.
//
// Arguments are passed positionally. The pending result of the call is returned
// when the method declares a return type it is assignable to.
type Handler struct {
	routing.Rules
}

// New returns a function handler.
// required and exclusive are the descriptor kinds that must and must not accompany a function.
func New(required, exclusive []descriptor.Kind) *Handler {
	return &Handler{
		Rules: routing.NewRules(descriptor.KindFunction, required, exclusive),
	}
}

// Handle implements routing.Handler.
func (h *Handler) Handle(ctx context.Context, call *routing.Call) (any, error) {
	m := call.Method
	if err := h.Check(m); err != nil {
		return nil, err
	}

	f, err := h.function(m)
	if err != nil {
		return nil, err
	}

	if len(call.Args) != len(m.Params) {
		return nil, routing.NewMethodError(routing.ErrArgumentCount, m, h.Kind(),
			"got %d, want %d", len(call.Args), len(m.Params))
	}

	el, err := call.Element()
	if err != nil {
		return nil, err
	}

	pending, err := el.CallFunction(ctx, f.Name, call.Args...)
	if err != nil {
		return nil, err
	}

	if m.Return != nil && pendingType.AssignableTo(m.Return) {
		return pending, nil
	}

	return nil, nil
}

func (h *Handler) function(m *routing.Method) (descriptor.Function, error) {
	d, err := h.Own(m)
	if err != nil {
		return descriptor.Function{}, err
	}

	switch f := d.(type) {
	case descriptor.Function:
		return f, nil
	case *descriptor.Function:
		return *f, nil
	default:
		return descriptor.Function{}, routing.NewMethodError(routing.ErrMethodInvalid, m, h.Kind(), "descriptor %T", d)
	}
}
