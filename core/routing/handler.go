package routing

import (
	"context"
	"fmt"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/owner"
)

// Call is one invocation of a contract method.
type Call struct {
	Instance *owner.Instance // The contract instance the method was called on.
	Method   *Method         // The called method.
	Args     []any           // Positional arguments, excluding context.
	Owners   owner.Registry  // Resolves the component owning Instance.
}

// Element returns the remote element of the component owning the contract instance.
func (c *Call) Element() (element.Element, error) {
	o, err := c.Owners.Get(c.Instance)
	if err != nil {
		return nil, err
	}

	return o.Element(), nil
}

// Handler implements the dispatch logic of one descriptor kind.
type Handler interface {
	// Kind returns the descriptor kind owned by the handler.
	Kind() descriptor.Kind

	// Handle performs the call. It validates the method's descriptors before any remote access.
	Handle(ctx context.Context, call *Call) (any, error)
}

// Handlers maps descriptor kinds to handlers. It is immutable once built.
type Handlers struct {
	handlers map[descriptor.Kind]Handler
}

// NewHandlers returns a registry of the given handlers.
// It returns an error if two handlers own the same descriptor kind.
func NewHandlers(handlers ...Handler) (*Handlers, error) {
	h := &Handlers{handlers: make(map[descriptor.Kind]Handler, len(handlers))}

	for _, handler := range handlers {
		if _, ok := h.handlers[handler.Kind()]; ok {
			return nil, fmt.Errorf("%w: kind '%s'", ErrHandlerAlreadyDefined, handler.Kind())
		}

		h.handlers[handler.Kind()] = handler
	}

	return h, nil
}

// MustNewHandlers is like NewHandlers but panics on error.
func MustNewHandlers(handlers ...Handler) *Handlers {
	h, err := NewHandlers(handlers...)
	if err != nil {
		panic(err)
	}

	return h
}

// Lookup returns the handler owning kind.
func (h *Handlers) Lookup(kind descriptor.Kind) (Handler, bool) {
	handler, ok := h.handlers[kind]
	return handler, ok
}

// Kinds returns the descriptor kinds with a registered handler.
func (h *Handlers) Kinds() descriptor.Set {
	kinds := make(descriptor.Set, len(h.handlers))
	for k := range h.handlers {
		kinds[k] = struct{}{}
	}

	return kinds
}
