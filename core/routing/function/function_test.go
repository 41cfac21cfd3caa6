package function_test

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/routing"
	"github.com/anoideaopen/litbridge/core/routing/function"
	"github.com/anoideaopen/litbridge/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func newDispatcher(h routing.Handler) *routing.Dispatcher {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return routing.NewDispatcher(routing.MustNewHandlers(h), routing.WithLogger(log))
}

func TestHandle(t *testing.T) {
	poke := descriptor.Function{Name: "pokeIt"}

	testCases := []struct {
		name        string
		method      *routing.Method
		args        []any
		wantPending bool
	}{
		{
			name:   "void",
			method: routing.Action("pokeIt", poke),
		},
		{
			name:   "void with arguments",
			method: routing.Action("pokeIt", poke, reflect.TypeFor[string](), reflect.TypeFor[int]()),
			args:   []any{"hard", 3},
		},
		{
			name:        "pending result",
			method:      routing.Awaiting("pokeIt", poke),
			wantPending: true,
		},
		{
			name:        "any return",
			method:      routing.NewMethod("pokeIt", nil, reflect.TypeFor[any](), poke),
			wantPending: true,
		},
		{
			name:   "unrelated return",
			method: routing.NewMethod("pokeIt", nil, reflect.TypeFor[string](), poke),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			el := mock.NewElement().Handle("pokeIt", func([]*structpb.Value) (*structpb.Value, error) {
				return structpb.NewStringValue("ouch"), nil
			})
			inst := owner.NewInstance()
			d := newDispatcher(function.New(nil, nil))
			require.NoError(t, d.Owners().Put(inst, el.Owner()))

			res, err := d.Dispatch(context.Background(), inst, tc.method, tc.args...)
			require.NoError(t, err)

			calls := el.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "pokeIt", calls[0].Name)
			assert.Equal(t, tc.args, calls[0].Args)

			if !tc.wantPending {
				assert.Nil(t, res)
				return
			}

			pending, ok := res.(element.PendingResult)
			require.True(t, ok)
			v, err := pending.Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "ouch", v.GetStringValue())
		})
	}
}

func TestHandleErrors(t *testing.T) {
	errGone := errors.New("peer is gone")

	testCases := []struct {
		name    string
		handler *function.Handler
		method  *routing.Method
		args    []any
		fail    error
		wantErr error
		touched bool
	}{
		{
			name:    "argument count",
			handler: function.New(nil, nil),
			method:  routing.Action("pokeIt", descriptor.Function{Name: "pokeIt"}),
			args:    []any{"extra"},
			wantErr: routing.ErrArgumentCount,
		},
		{
			name:    "required descriptor missing",
			handler: function.New([]descriptor.Kind{"confirm"}, nil),
			method:  routing.Action("pokeIt", descriptor.Function{Name: "pokeIt"}),
			wantErr: routing.ErrRequiredDescriptorsMissing,
		},
		{
			name:    "transport error",
			handler: function.New(nil, nil),
			method:  routing.Action("pokeIt", descriptor.Function{Name: "pokeIt"}),
			fail:    errGone,
			wantErr: errGone,
			touched: true,
		},
		{
			name:    "unknown remote function",
			handler: function.New(nil, nil),
			method:  routing.Action("poke", descriptor.Function{Name: "poke"}),
			wantErr: element.ErrUnknownFunction,
			touched: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			el := mock.NewElement().Handle("pokeIt", func([]*structpb.Value) (*structpb.Value, error) {
				return nil, nil
			})
			if tc.fail != nil {
				el.FailWith(tc.fail)
			}

			inst := owner.NewInstance()
			d := newDispatcher(tc.handler)
			require.NoError(t, d.Owners().Put(inst, el.Owner()))

			_, err := d.Dispatch(context.Background(), inst, tc.method, tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.touched, el.Touched())
		})
	}
}
