package model

import (
	"context"
	"errors"

	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/routing"
)

// ErrNotBound is returned by Base.Call before the contract was bound.
var ErrNotBound = errors.New("contract is not bound to a dispatcher")

// Binder is implemented by hand-written contracts.
type Binder interface {
	BindInstance(inst *owner.Instance, d *routing.Dispatcher)
}

// Base is embedded by hand-written contracts. It implements Binder.
type Base struct {
	inst *owner.Instance
	d    *routing.Dispatcher
}

// BindInstance implements Binder.
func (b *Base) BindInstance(inst *owner.Instance, d *routing.Dispatcher) {
	b.inst = inst
	b.d = d
}

// Instance returns the identity of the contract instance.
func (b *Base) Instance() *owner.Instance { return b.inst }

// Call dispatches m with args on behalf of the contract instance.
func (b *Base) Call(ctx context.Context, m *routing.Method, args ...any) (any, error) {
	if b.d == nil {
		return nil, ErrNotBound
	}

	return b.d.Dispatch(ctx, b.inst, m, args...)
}

// Equals never compares contract state: it always reports false.
func (b *Base) Equals(other any) bool {
	v, _ := b.sentinel(routing.MethodEquals, other)
	eq, _ := v.(bool)

	return eq
}

// HashCode always returns 0.
func (b *Base) HashCode() int {
	v, _ := b.sentinel(routing.MethodHashCode)
	hash, _ := v.(int)

	return hash
}

func (b *Base) sentinel(name string, args ...any) (any, error) {
	if b.d == nil {
		return nil, ErrNotBound
	}

	return b.d.Dispatch(context.Background(), b.inst, routing.NewMethod(name, nil, nil), args...)
}
