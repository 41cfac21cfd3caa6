package model

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/routing"
)

// Component owns one remote element and the contract instance of type M bound to it.
type Component[M any] struct {
	el element.Element
	d  *routing.Dispatcher

	once  sync.Once
	model *M
	inst  *owner.Instance
	err   error
}

// NewComponent returns a component over el. Its contract instance is created on first use.
func NewComponent[M any](el element.Element, d *routing.Dispatcher) *Component[M] {
	return &Component[M]{el: el, d: d}
}

// Element implements element.Owner.
func (c *Component[M]) Element() element.Element { return c.el }

// Model returns the contract instance of the component, creating it on the first call.
// Every call returns the same instance, or the same error.
func (c *Component[M]) Model() (*M, error) {
	c.once.Do(func() {
		c.model, c.inst, c.err = c.create()
	})

	return c.model, c.err
}

// Instance returns the identity of the contract instance, creating it if needed.
// It returns nil if the contract cannot be created.
func (c *Component[M]) Instance() *owner.Instance {
	_, _ = c.Model()

	return c.inst
}

// Release removes the component from an owner registry that keeps entries, such as owner.Table.
func (c *Component[M]) Release() {
	inst := c.Instance()
	if inst == nil {
		return
	}

	if deleter, ok := c.d.Owners().(owner.Deleter); ok {
		deleter.Delete(inst)
	}
}

func (c *Component[M]) create() (*M, *owner.Instance, error) {
	t := reflect.TypeFor[M]()
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedContract, t)
	}

	m := new(M)

	inst, err := Bind(m, c.d)
	if err != nil {
		return nil, nil, err
	}

	if err = c.d.Owners().Put(inst, c); err != nil {
		return nil, nil, err
	}

	return m, inst, nil
}
