package mock

import (
	"context"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/element/memory"
	"google.golang.org/protobuf/types/known/structpb"
)

// Read records one property read.
type Read struct {
	Name        string
	Default     *structpb.Value // The default passed to GetPropertyOr.
	WithDefault bool            // False for GetProperty.
}

// Write records one property write.
type Write struct {
	Name  string
	Value *structpb.Value
}

// Call records one function call.
type Call struct {
	Name string
	Args []any
}

// Function is the Go implementation of a remote function.
type Function func(args []*structpb.Value) (*structpb.Value, error)

// Element is a memory.Element recording every remote access.
type Element struct {
	mu sync.Mutex
	el *memory.Element

	reads  []Read
	writes []Write
	calls  []Call

	err error
}

// NewElement returns an empty recording element.
func NewElement() *Element {
	return &Element{el: memory.NewElement()}
}

// Owner returns an element.Owner exposing e.
func (e *Element) Owner() element.Owner {
	return Owner{El: e}
}

// Seed sets a property without recording a write.
func (e *Element) Seed(name string, v *structpb.Value) *Element {
	e.el.Update(name, func(*structpb.Value) *structpb.Value { return v })
	return e
}

// Handle registers the implementation of a remote function.
func (e *Element) Handle(name string, fn Function) *Element {
	e.el.Define(name, func(_ context.Context, args []*structpb.Value) (*structpb.Value, error) {
		return fn(args)
	})
	return e
}

// FailWith makes every subsequent remote access fail with err.
func (e *Element) FailWith(err error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.err = err
	return e
}

// Property returns a property without recording a read.
func (e *Element) Property(name string) *structpb.Value {
	v, _ := e.el.GetProperty(context.Background(), name)
	return v
}

// Reads returns the recorded property reads.
func (e *Element) Reads() []Read {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Read(nil), e.reads...)
}

// Writes returns the recorded property writes.
func (e *Element) Writes() []Write {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Write(nil), e.writes...)
}

// Calls returns the recorded function calls.
func (e *Element) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Call(nil), e.calls...)
}

// Touched reports whether any remote access was recorded.
func (e *Element) Touched() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.reads)+len(e.writes)+len(e.calls) > 0
}

// GetProperty implements element.Element.
func (e *Element) GetProperty(ctx context.Context, name string) (*structpb.Value, error) {
	if err := e.record(func() { e.reads = append(e.reads, Read{Name: name}) }); err != nil {
		return nil, err
	}

	return e.el.GetProperty(ctx, name)
}

// GetPropertyOr implements element.Element.
func (e *Element) GetPropertyOr(ctx context.Context, name string, def *structpb.Value) (*structpb.Value, error) {
	if err := e.record(func() {
		e.reads = append(e.reads, Read{Name: name, Default: def, WithDefault: true})
	}); err != nil {
		return nil, err
	}

	return e.el.GetPropertyOr(ctx, name, def)
}

// SetProperty implements element.Element.
func (e *Element) SetProperty(ctx context.Context, name string, value *structpb.Value) error {
	if err := e.record(func() { e.writes = append(e.writes, Write{Name: name, Value: value}) }); err != nil {
		return err
	}

	return e.el.SetProperty(ctx, name, value)
}

// CallFunction implements element.Element. Registered functions run in the background.
func (e *Element) CallFunction(ctx context.Context, name string, args ...any) (element.PendingResult, error) {
	if err := e.record(func() { e.calls = append(e.calls, Call{Name: name, Args: args}) }); err != nil {
		return nil, err
	}

	return e.el.CallFunction(ctx, name, args...)
}

// Wait blocks until all function calls in flight have returned.
func (e *Element) Wait() {
	e.el.Wait()
}

func (e *Element) record(access func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	access()
	return e.err
}

// Owner is an element.Owner over a fixed element.
type Owner struct {
	El element.Element
}

// Element implements element.Owner.
func (o Owner) Element() element.Element { return o.El }
