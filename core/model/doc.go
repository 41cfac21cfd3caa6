// Package model binds capability contracts to a routing.Dispatcher.
//
// A contract is a struct type. Its exported func fields tagged with `lit:"..."` are
// replaced by functions dispatching through the dispatcher:
//
//	type BearPoker struct {
//		GetText      func() (string, error)            `lit:"property,default=,raw"`
//		SetText      func(text string) error           `lit:"property,default=,raw"`
//		GetPokeCount func() (int, error)               `lit:"property,default=0"`
//		PokeIt       func(ctx context.Context) error   `lit:"function"`
//	}
//
// Hand-written contracts embed Base instead and call Base.Call with static routing.Method values.
//
// Component creates one contract instance per element, lazily, and registers itself
// as the owner of that instance.
package model
