package model

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/routing"
)

var (
	// ErrUnsupportedContract is returned for contract types that are not structs.
	ErrUnsupportedContract = errors.New("unsupported contract type")

	// ErrUnsupportedSignature is returned for tagged fields that cannot be bound.
	ErrUnsupportedSignature = errors.New("unsupported contract method signature")
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Bind binds the tagged func fields of the struct pointed to by target to d and returns
// the identity of the new contract instance. If target implements Binder it is bound as well.
//
// The caller registers the owner of the returned instance with d.Owners().
func Bind(target any, d *routing.Dispatcher) (*owner.Instance, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedContract, target)
	}

	inst := owner.NewInstance()

	if err := bindFields(v.Elem(), inst, d); err != nil {
		return nil, err
	}

	if b, ok := target.(Binder); ok {
		b.BindInstance(inst, d)
	}

	return inst, nil
}

// Methods returns the methods declared by the tagged func fields of contract type t.
func Methods(t reflect.Type) ([]*routing.Method, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContract, t)
	}

	var methods []*routing.Method
	for i := range t.NumField() {
		m, err := methodOf(t.Field(i))
		if err != nil {
			return nil, err
		}
		if m != nil {
			methods = append(methods, m.Method)
		}
	}

	return methods, nil
}

type fieldMethod struct {
	*routing.Method
	withContext bool
}

func bindFields(v reflect.Value, inst *owner.Instance, d *routing.Dispatcher) error {
	t := v.Type()

	for i := range t.NumField() {
		m, err := methodOf(t.Field(i))
		if err != nil {
			return err
		}
		if m == nil {
			continue
		}

		v.Field(i).Set(reflect.MakeFunc(t.Field(i).Type, dispatchFunc(m, inst, d)))
	}

	return nil
}

// methodOf returns nil for untagged fields.
func methodOf(field reflect.StructField) (*fieldMethod, error) {
	tag, ok := field.Tag.Lookup(descriptor.TagKey)
	if !ok {
		return nil, nil
	}

	if !field.IsExported() || field.Type.Kind() != reflect.Func || field.Type.IsVariadic() {
		return nil, fmt.Errorf("%w: field %s: %s", ErrUnsupportedSignature, field.Name, field.Type)
	}

	descriptors, err := descriptor.ParseTag(tag, field.Name)
	if err != nil {
		return nil, err
	}

	ft := field.Type
	m := &fieldMethod{Method: routing.NewMethod(field.Name, nil, nil, descriptors...)}

	start := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		m.withContext = true
		start = 1
	}
	for i := start; i < ft.NumIn(); i++ {
		m.Params = append(m.Params, ft.In(i))
	}

	switch {
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		m.Return = ft.Out(0)
	default:
		return nil, fmt.Errorf("%w: field %s: %s: the last result must be an error", ErrUnsupportedSignature, field.Name, ft)
	}

	return m, nil
}

func dispatchFunc(m *fieldMethod, inst *owner.Instance, d *routing.Dispatcher) func([]reflect.Value) []reflect.Value {
	return func(in []reflect.Value) []reflect.Value {
		ctx := context.Background()
		if m.withContext {
			if c, ok := in[0].Interface().(context.Context); ok && c != nil {
				ctx = c
			}
			in = in[1:]
		}

		args := make([]any, len(in))
		for i, arg := range in {
			args[i] = arg.Interface()
		}

		result, err := d.Dispatch(ctx, inst, m.Method, args...)

		if m.Return == nil {
			return []reflect.Value{errorValue(err)}
		}

		rv := reflect.Zero(m.Return)
		if err == nil && result != nil {
			r := reflect.ValueOf(result)
			switch {
			case r.Type().AssignableTo(m.Return):
				rv = r
			case r.Type().ConvertibleTo(m.Return) && r.Kind() == m.Return.Kind():
				rv = r.Convert(m.Return)
			default:
				err = fmt.Errorf("%w: method '%s': result of type %s is not assignable to %s",
					ErrUnsupportedSignature, m.Name, r.Type(), m.Return)
			}
		}

		return []reflect.Value{rv, errorValue(err)}
	}
}

func errorValue(err error) reflect.Value {
	if err == nil {
		return reflect.Zero(errorType)
	}

	return reflect.ValueOf(&err).Elem()
}
