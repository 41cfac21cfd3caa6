package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anoideaopen/litbridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestBuildElement(t *testing.T) {
	ctx := context.Background()

	el, err := buildElement(config.Element{
		Name:       "bear",
		Properties: map[string]any{"text": "hello", "pokeCount": 0},
		Functions: []config.Function{
			{Name: "pokeIt", Kind: config.FunctionCounter, Target: "pokeCount"},
			{Name: "setText", Kind: config.FunctionAssign, Target: "text"},
			{Name: "echo", Kind: config.FunctionEcho},
		},
	})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		function string
		args     []any
		expected *structpb.Value
	}{
		{name: "counter", function: "pokeIt", expected: structpb.NewNumberValue(1)},
		{name: "counter again", function: "pokeIt", expected: structpb.NewNumberValue(2)},
		{name: "echo", function: "echo", args: []any{"hi"}, expected: structpb.NewStringValue("hi")},
		{name: "echo nothing", function: "echo", expected: structpb.NewNullValue()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pending, err := el.CallFunction(ctx, tc.function, tc.args...)
			require.NoError(t, err)

			v, err := pending.Await(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.expected.AsInterface(), v.AsInterface())
		})
	}

	pending, err := el.CallFunction(ctx, "setText", "bye")
	require.NoError(t, err)
	_, err = pending.Await(ctx)
	require.NoError(t, err)

	text, err := el.GetProperty(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, "bye", text.GetStringValue())
}

func TestBuildElementInvalidProperty(t *testing.T) {
	_, err := buildElement(config.Element{
		Name:       "bear",
		Properties: map[string]any{"paw": struct{}{}},
	})
	require.ErrorContains(t, err, "property 'paw'")
}

func TestOriginChecker(t *testing.T) {
	assert.Nil(t, originChecker(nil))

	check := originChecker([]string{"https://bears.example"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)

	req.Header.Set("Origin", "https://bears.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://foxes.example")
	assert.False(t, check(req))
}
