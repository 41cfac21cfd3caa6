// Package memory implements an in-process element: a property map and a set of Go functions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Function implements a remote function of an element.
type Function func(ctx context.Context, args []*structpb.Value) (*structpb.Value, error)

// Element is an element.Element kept in memory. Functions run in their own goroutine.
type Element struct {
	mu        sync.RWMutex
	props     map[string]*structpb.Value
	functions map[string]Function
	wg        sync.WaitGroup
}

// NewElement returns an element without properties or functions.
func NewElement() *Element {
	return &Element{
		props:     make(map[string]*structpb.Value),
		functions: make(map[string]Function),
	}
}

// Define registers fn as the remote function name.
func (e *Element) Define(name string, fn Function) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.functions[name] = fn
	return e
}

// Update atomically replaces a property with the result of fn applied to its current value.
func (e *Element) Update(name string, fn func(current *structpb.Value) *structpb.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.props[name] = fn(e.props[name])
}

// Properties returns a copy of all set properties.
func (e *Element) Properties() map[string]*structpb.Value {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]*structpb.Value, len(e.props))
	for k, v := range e.props {
		out[k] = clone(v)
	}

	return out
}

// Functions returns the names of the defined functions in lexical order.
func (e *Element) Functions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Wait blocks until all function calls in flight have returned.
func (e *Element) Wait() {
	e.wg.Wait()
}

// GetProperty implements element.Element.
func (e *Element) GetProperty(_ context.Context, name string) (*structpb.Value, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return clone(e.props[name]), nil
}

// GetPropertyOr implements element.Element.
func (e *Element) GetPropertyOr(ctx context.Context, name string, def *structpb.Value) (*structpb.Value, error) {
	v, err := e.GetProperty(ctx, name)
	if err != nil || !element.IsUnset(v) {
		return v, err
	}

	return def, nil
}

// SetProperty implements element.Element. Writing an unset value removes the property.
func (e *Element) SetProperty(_ context.Context, name string, value *structpb.Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if element.IsUnset(value) {
		delete(e.props, name)
		return nil
	}

	e.props[name] = clone(value)
	return nil
}

// CallFunction implements element.Element. The function runs asynchronously and is not
// cancelled with ctx; its outcome completes the returned handle.
func (e *Element) CallFunction(ctx context.Context, name string, args ...any) (element.PendingResult, error) {
	e.mu.RLock()
	fn, ok := e.functions[name]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: '%s'", element.ErrUnknownFunction, name)
	}

	values, err := element.Values(args)
	if err != nil {
		return nil, err
	}

	pending := element.NewPending()
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		result, err := fn(ctx, values)
		if err != nil {
			_ = pending.Reject(err)
			return
		}
		_ = pending.Resolve(result)
	}()

	return pending, nil
}

func clone(v *structpb.Value) *structpb.Value {
	if v == nil {
		return nil
	}

	return proto.Clone(v).(*structpb.Value) //nolint:forcetypeassert
}
