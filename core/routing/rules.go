package routing

import "github.com/anoideaopen/litbridge/core/descriptor"

// Rules are the descriptor co-occurrence constraints of a handler.
type Rules struct {
	kind      descriptor.Kind
	required  descriptor.Set
	exclusive descriptor.Set
}

// NewRules returns the rules of the handler owning kind.
//
// A method dispatched to that handler must carry exactly the required kinds besides its own,
// and none of the exclusive kinds.
func NewRules(kind descriptor.Kind, required, exclusive []descriptor.Kind) Rules {
	return Rules{
		kind:      kind,
		required:  descriptor.NewSet(required...),
		exclusive: descriptor.NewSet(exclusive...),
	}
}

// Kind returns the descriptor kind the rules belong to.
func (r Rules) Kind() descriptor.Kind { return r.kind }

// Required returns a copy of the required kinds.
func (r Rules) Required() descriptor.Set { return r.required.Without("") }

// Exclusive returns a copy of the mutually exclusive kinds.
func (r Rules) Exclusive() descriptor.Set { return r.exclusive.Without("") }

// Check validates the descriptors attached to m.
func (r Rules) Check(m *Method) error {
	attached := m.Kinds().Without(r.kind)

	if !attached.Equal(r.required) {
		return NewMethodError(ErrRequiredDescriptorsMissing, m, r.kind,
			"attached %s, required %s", attached, r.required)
	}

	if attached.Intersects(r.exclusive) {
		return NewMethodError(ErrExclusiveDescriptorsPresent, m, r.kind,
			"attached %s, prohibited %s", attached, r.exclusive)
	}

	return nil
}

// Own returns the descriptor of the rules' kind attached to m.
func (r Rules) Own(m *Method) (descriptor.Descriptor, error) {
	d, ok := m.Descriptor(r.kind)
	if !ok {
		return nil, NewMethodError(ErrMethodInvalid, m, r.kind, "")
	}

	return d, nil
}
