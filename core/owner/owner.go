// Package owner maps contract instances back to the components that created them.
package owner

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/google/uuid"
)

var (
	// ErrNoOwner is returned when an instance has no registered owner.
	ErrNoOwner = errors.New("contract instance has no owner")

	// ErrOwnerConflict is returned when an instance is registered with a second owner.
	ErrOwnerConflict = errors.New("contract instance already has a different owner")
)

// Instance is the identity of a contract instance. Instances are compared by pointer only.
type Instance struct {
	id string

	mu    sync.RWMutex
	owner element.Owner
}

// NewInstance returns a new contract instance identity.
func NewInstance() *Instance {
	return &Instance{id: uuid.NewString()}
}

// ID returns the diagnostic identifier of the instance.
func (i *Instance) ID() string { return i.id }

func (i *Instance) String() string { return "instance " + i.id }

// Registry associates contract instances with their owners.
//
// Owners are compared with ==. Owners of a non-comparable type (a struct holding a map, say)
// only ever equal themselves when they are the same pointer, so such owners conflict.
type Registry interface {
	// Put registers owner as the owner of inst.
	Put(inst *Instance, owner element.Owner) error

	// Get returns the owner of inst. It fails with ErrNoOwner if there is none.
	Get(inst *Instance) (element.Owner, error)
}

// Deleter is implemented by registries holding entries that outlive their instances.
type Deleter interface {
	Delete(inst *Instance)
}

// BackRefs is a Registry storing the owner inside the instance itself.
// The entry lives and dies with the instance, so there is nothing to release.
type BackRefs struct{}

// Put implements Registry.
func (BackRefs) Put(inst *Instance, owner element.Owner) error {
	if inst == nil || owner == nil {
		return fmt.Errorf("%w: nil instance or owner", ErrNoOwner)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.owner != nil && !sameOwner(inst.owner, owner) {
		return fmt.Errorf("%w: %s", ErrOwnerConflict, inst)
	}
	inst.owner = owner

	return nil
}

// Get implements Registry.
func (BackRefs) Get(inst *Instance) (element.Owner, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrNoOwner)
	}

	inst.mu.RLock()
	defer inst.mu.RUnlock()

	if inst.owner == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoOwner, inst)
	}

	return inst.owner, nil
}

func sameOwner(a, b element.Owner) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}

	return va.Equal(vb)
}
