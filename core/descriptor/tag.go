package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anoideaopen/litbridge/core/stringsx"
)

// TagKey is the struct tag key holding descriptors of a contract field.
const TagKey = "lit"

// ErrInvalidTag is returned when a descriptor tag cannot be parsed.
var ErrInvalidTag = errors.New("invalid descriptor tag")

const (
	optionName    = "name"
	optionDefault = "default"
	optionRaw     = "raw"
)

// ParseTag parses the value of a `lit` struct tag attached to the contract field fieldName.
//
// The tag is a semicolon separated list of clauses. Each clause starts with a descriptor kind,
// followed by comma separated options in key=value form or bare flags:
//
//	property,name=text,default=,raw
//	function,name=pokeIt
//
// When name is omitted it is derived from fieldName (see stringsx.AccessorName).
// Values cannot contain commas or semicolons. Unknown kinds become Markers.
// An empty tag yields no descriptors.
func ParseTag(tag, fieldName string) ([]Descriptor, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}

	var (
		descriptors []Descriptor
		seen        = make(Set)
	)
	for _, clause := range strings.Split(tag, ";") {
		d, err := parseClause(clause, fieldName)
		if err != nil {
			return nil, err
		}

		if seen.Has(d.Kind()) {
			return nil, fmt.Errorf("%w: field %s: kind '%s' is listed twice", ErrInvalidTag, fieldName, d.Kind())
		}
		seen[d.Kind()] = struct{}{}

		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func parseClause(clause, fieldName string) (Descriptor, error) {
	parts := strings.Split(clause, ",")

	kind := Kind(strings.TrimSpace(parts[0]))
	if kind == "" {
		return nil, fmt.Errorf("%w: field %s: empty kind in '%s'", ErrInvalidTag, fieldName, clause)
	}

	options := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		if key == "" {
			return nil, fmt.Errorf("%w: field %s: empty option in '%s'", ErrInvalidTag, fieldName, clause)
		}
		if !hasValue {
			value = "true"
		}

		options[key] = value
	}

	switch kind {
	case KindProperty:
		return parseProperty(options, fieldName)
	case KindFunction:
		return parseFunction(options, fieldName)
	default:
		return Marker{Of: kind, Options: options}, nil
	}
}

func parseProperty(options map[string]string, fieldName string) (Descriptor, error) {
	p := Property{Name: stringsx.AccessorName(fieldName)}

	for key, value := range options {
		switch key {
		case optionName:
			p.Name = value
		case optionDefault:
			p.Default = value
		case optionRaw:
			p.Raw = value == "true"
		default:
			return nil, fmt.Errorf("%w: field %s: unknown property option '%s'", ErrInvalidTag, fieldName, key)
		}
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: field %s: empty property name", ErrInvalidTag, fieldName)
	}

	return p, nil
}

func parseFunction(options map[string]string, fieldName string) (Descriptor, error) {
	f := Function{Name: stringsx.LowerFirstChar(fieldName)}

	for key, value := range options {
		if key != optionName {
			return nil, fmt.Errorf("%w: field %s: unknown function option '%s'", ErrInvalidTag, fieldName, key)
		}
		f.Name = value
	}

	if f.Name == "" {
		return nil, fmt.Errorf("%w: field %s: empty function name", ErrInvalidTag, fieldName)
	}

	return f, nil
}
