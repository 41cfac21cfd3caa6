package routing

import (
	"reflect"
	"strings"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
)

// Method names answered by the dispatcher without descriptor lookup.
const (
	MethodEquals   = "Equals"   // Always false.
	MethodHashCode = "HashCode" // Always 0.
)

// Method describes one contract method.
type Method struct {
	Name        string                  // The name of the contract method.
	Descriptors []descriptor.Descriptor // The descriptors attached to the method.
	Params      []reflect.Type          // Parameter types, excluding context and receiver.
	Return      reflect.Type            // The value type returned, or nil if the method returns no value.
}

// NewMethod returns a Method with the given shape and descriptors.
func NewMethod(name string, params []reflect.Type, ret reflect.Type, descriptors ...descriptor.Descriptor) *Method {
	return &Method{
		Name:        name,
		Descriptors: descriptors,
		Params:      params,
		Return:      ret,
	}
}

// Getter returns a property getter returning T.
func Getter[T any](name string, p descriptor.Property, extra ...descriptor.Descriptor) *Method {
	return NewMethod(name, nil, reflect.TypeFor[T](), append([]descriptor.Descriptor{p}, extra...)...)
}

// Setter returns a property setter taking T.
func Setter[T any](name string, p descriptor.Property, extra ...descriptor.Descriptor) *Method {
	return NewMethod(name, []reflect.Type{reflect.TypeFor[T]()}, nil, append([]descriptor.Descriptor{p}, extra...)...)
}

// Action returns a fire-and-forget remote function call.
func Action(name string, f descriptor.Function, params ...reflect.Type) *Method {
	return NewMethod(name, params, nil, f)
}

// Awaiting returns a remote function call returning its element.PendingResult.
func Awaiting(name string, f descriptor.Function, params ...reflect.Type) *Method {
	return NewMethod(name, params, reflect.TypeFor[element.PendingResult](), f)
}

// Kinds returns the kinds of the descriptors attached to the method.
func (m *Method) Kinds() descriptor.Set {
	return descriptor.KindsOf(m.Descriptors)
}

// Descriptor returns the descriptor of the given kind.
func (m *Method) Descriptor(kind descriptor.Kind) (descriptor.Descriptor, bool) {
	return descriptor.Find(m.Descriptors, kind)
}

// IsVoid reports whether the method returns no value.
func (m *Method) IsVoid() bool {
	return m.Return == nil
}

func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}

	s := m.Name + "(" + strings.Join(params, ", ") + ")"
	if m.Return != nil {
		s += " " + m.Return.String()
	}

	return s
}
