package model_test

import (
	"context"
	"fmt"

	"github.com/anoideaopen/litbridge/core/element/memory"
	"github.com/anoideaopen/litbridge/core/model"
	"google.golang.org/protobuf/types/known/structpb"
)

func Example() {
	ctx := context.Background()

	el := memory.NewElement()
	el.Define("pokeIt", func(context.Context, []*structpb.Value) (*structpb.Value, error) {
		el.Update("pokeCount", func(v *structpb.Value) *structpb.Value {
			return structpb.NewNumberValue(v.GetNumberValue() + 1)
		})
		return structpb.NewStringValue("ouch"), nil
	})

	bear, err := model.NewComponent[BearPoker](el, model.NewDispatcher(nil)).Model()
	if err != nil {
		panic(err)
	}

	if err = bear.SetText("hello"); err != nil {
		panic(err)
	}

	pending, err := bear.PokeHard(ctx, 1)
	if err != nil {
		panic(err)
	}
	reply, err := pending.Await(ctx)
	if err != nil {
		panic(err)
	}

	text, _ := bear.GetText()
	count, _ := bear.GetPokeCount(ctx)
	fmt.Println(text, reply.GetStringValue(), count)
	// Output: hello ouch 1
}
