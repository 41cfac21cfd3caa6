package element

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrAlreadyCompleted is returned when a pending result is completed twice.
var ErrAlreadyCompleted = errors.New("pending result already completed")

// PendingResult is the handle of an in-flight remote function call.
type PendingResult interface {
	// ID returns the identifier of the call.
	ID() string

	// Done is closed when the call completes.
	Done() <-chan struct{}

	// Await blocks until the call completes or ctx is done.
	Await(ctx context.Context) (*structpb.Value, error)
}

// Pending is a PendingResult completed by the transport that issued the call.
type Pending struct {
	id   string
	done chan struct{}
	once sync.Once

	value *structpb.Value
	err   error
}

// NewPending returns an incomplete Pending with a fresh identifier.
func NewPending() *Pending {
	return &Pending{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// Resolved returns a Pending already completed with value.
func Resolved(value *structpb.Value) *Pending {
	p := NewPending()
	_ = p.Resolve(value)

	return p
}

// Rejected returns a Pending already completed with err.
func Rejected(err error) *Pending {
	p := NewPending()
	_ = p.Reject(err)

	return p
}

// ID implements PendingResult.
func (p *Pending) ID() string { return p.id }

// Done implements PendingResult.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Await implements PendingResult.
func (p *Pending) Await(ctx context.Context) (*structpb.Value, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve completes the call with value.
func (p *Pending) Resolve(value *structpb.Value) error {
	return p.complete(value, nil)
}

// Reject completes the call with err.
func (p *Pending) Reject(err error) error {
	return p.complete(nil, err)
}

func (p *Pending) complete(value *structpb.Value, err error) error {
	completed := false
	p.once.Do(func() {
		p.value, p.err = value, err
		close(p.done)
		completed = true
	})

	if !completed {
		return ErrAlreadyCompleted
	}

	return nil
}
