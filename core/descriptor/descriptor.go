package descriptor

// Kind identifies a type of descriptor. Handlers are registered per Kind.
type Kind string

// Built-in descriptor kinds.
const (
	KindProperty Kind = "property"
	KindFunction Kind = "function"
)

// Descriptor is metadata attached to a contract method.
type Descriptor interface {
	Kind() Kind
}

// Property maps an accessor method to a remote property.
//
// A method returning no value and taking one parameter is a setter; any other shape is a getter.
type Property struct {
	Name    string // The name of the remote property.
	Default string // The default value, converted by the property codec. Ignored when Raw is set.
	Raw     bool   // Read the property without a default value.
}

// Kind implements Descriptor.
func (Property) Kind() Kind { return KindProperty }

// Function maps a method to a remote function.
type Function struct {
	Name string // The name of the remote function.
}

// Kind implements Descriptor.
func (Function) Kind() Kind { return KindFunction }

// Marker is a descriptor of any other kind.
type Marker struct {
	Of      Kind
	Options map[string]string
}

// Kind implements Descriptor.
func (m Marker) Kind() Kind { return m.Of }

// Find returns the first descriptor of the given kind.
func Find(descriptors []Descriptor, kind Kind) (Descriptor, bool) {
	for _, d := range descriptors {
		if d != nil && d.Kind() == kind {
			return d, true
		}
	}

	return nil, false
}
