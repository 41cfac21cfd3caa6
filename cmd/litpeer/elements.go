package main

import (
	"context"
	"fmt"

	"github.com/anoideaopen/litbridge/core/element/memory"
	"github.com/anoideaopen/litbridge/internal/config"
	"google.golang.org/protobuf/types/known/structpb"
)

func buildElement(ec config.Element) (*memory.Element, error) {
	el := memory.NewElement()

	for name, value := range ec.Properties {
		v, err := structpb.NewValue(value)
		if err != nil {
			return nil, fmt.Errorf("element '%s': property '%s': %w", ec.Name, name, err)
		}
		if err = el.SetProperty(context.Background(), name, v); err != nil {
			return nil, err
		}
	}

	for _, fn := range ec.Functions {
		el.Define(fn.Name, function(el, fn))
	}

	return el, nil
}

func function(el *memory.Element, fn config.Function) memory.Function {
	switch fn.Kind {
	case config.FunctionCounter:
		return func(context.Context, []*structpb.Value) (*structpb.Value, error) {
			var next *structpb.Value
			el.Update(fn.Target, func(v *structpb.Value) *structpb.Value {
				next = structpb.NewNumberValue(v.GetNumberValue() + 1)
				return next
			})
			return next, nil
		}
	case config.FunctionAssign:
		return func(ctx context.Context, args []*structpb.Value) (*structpb.Value, error) {
			return nil, el.SetProperty(ctx, fn.Target, first(args))
		}
	default:
		return func(_ context.Context, args []*structpb.Value) (*structpb.Value, error) {
			return first(args), nil
		}
	}
}

func first(args []*structpb.Value) *structpb.Value {
	if len(args) == 0 {
		return structpb.NewNullValue()
	}

	return args[0]
}
