package routing

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/litbridge/core/descriptor"
)

// Configuration errors. They are programming errors of a contract and are never retried.
var (
	ErrMethodInvalid               = errors.New("method is invalid")
	ErrAmbiguousMethod             = errors.New("method has more than one dispatchable descriptor")
	ErrRequiredDescriptorsMissing  = errors.New("method is missing required descriptors")
	ErrExclusiveDescriptorsPresent = errors.New("method is also described by a prohibited descriptor")
	ErrMissingParameter            = errors.New("method is missing a parameter")
	ErrUnsupportedType             = errors.New("method does not support the value type")
	ErrArgumentCount               = errors.New("incorrect number of arguments")
	ErrHandlerAlreadyDefined       = errors.New("handler has already been defined")
)

// MethodError reports a configuration error of a contract method.
type MethodError struct {
	Method     string          // The name of the offending method.
	Descriptor descriptor.Kind // The descriptor kind involved, if any.
	Detail     string          // Additional context, if any.
	Err        error           // One of the configuration errors above.
}

func (e *MethodError) Error() string {
	msg := fmt.Sprintf("%v: method '%s'", e.Err, e.Method)
	if e.Descriptor != "" {
		msg = fmt.Sprintf("%v: %s method '%s'", e.Err, e.Descriptor, e.Method)
	}

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// Unwrap returns the configuration error.
func (e *MethodError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a contract configuration error.
func IsConfigError(err error) bool {
	var methodErr *MethodError
	return errors.As(err, &methodErr)
}

// NewMethodError returns a MethodError for m. detailFormat may be empty.
func NewMethodError(err error, m *Method, kind descriptor.Kind, detailFormat string, args ...any) error {
	name := "<nil>"
	if m != nil {
		name = m.Name
	}

	detail := ""
	if detailFormat != "" {
		detail = fmt.Sprintf(detailFormat, args...)
	}

	return &MethodError{
		Method:     name,
		Descriptor: kind,
		Detail:     detail,
		Err:        err,
	}
}
