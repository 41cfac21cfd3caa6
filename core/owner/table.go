package owner

import (
	"fmt"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
)

// Table is an identity-keyed Registry shared by many components.
// Entries stay until Delete is called; components remove theirs on Release.
type Table struct {
	mu      sync.RWMutex
	entries map[*Instance]element.Owner
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[*Instance]element.Owner)}
}

// Put implements Registry.
func (t *Table) Put(inst *Instance, owner element.Owner) error {
	if inst == nil || owner == nil {
		return fmt.Errorf("%w: nil instance or owner", ErrNoOwner)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.entries[inst]; ok && !sameOwner(existing, owner) {
		return fmt.Errorf("%w: %s", ErrOwnerConflict, inst)
	}
	t.entries[inst] = owner

	return nil
}

// Get implements Registry.
func (t *Table) Get(inst *Instance) (element.Owner, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	owner, ok := t.entries[inst]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoOwner, inst)
	}

	return owner, nil
}

// Delete implements Deleter.
func (t *Table) Delete(inst *Instance) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, inst)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}
