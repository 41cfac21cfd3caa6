package wspeer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrClosed is returned for requests on a closed peer and for calls pending when it closed.
var ErrClosed = errors.New("widget connection closed")

// Peer is an element.Element backed by a widget attached over a websocket.
type Peer struct {
	name string
	conn *websocket.Conn
	log  logrus.FieldLogger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]*element.Pending
	closed  bool
	done    chan struct{}
}

func newPeer(name string, conn *websocket.Conn, log logrus.FieldLogger) *Peer {
	return &Peer{
		name:    name,
		conn:    conn,
		log:     log.WithField("element", name),
		pending: make(map[string]*element.Pending),
		done:    make(chan struct{}),
	}
}

// Name returns the element name the widget attached as.
func (p *Peer) Name() string { return p.name }

// Done is closed when the connection is gone.
func (p *Peer) Done() <-chan struct{} { return p.done }

// Close closes the connection and fails all requests in flight.
func (p *Peer) Close() error {
	err := p.conn.Close()
	p.shutdown()

	return err
}

// GetProperty implements element.Element.
func (p *Peer) GetProperty(ctx context.Context, name string) (*structpb.Value, error) {
	pending, err := p.send(ctx, Frame{Type: FrameGet, Name: name})
	if err != nil {
		return nil, err
	}

	v, err := p.await(ctx, pending)
	if err != nil || element.IsUnset(v) {
		return nil, err
	}

	return v, nil
}

// GetPropertyOr implements element.Element.
func (p *Peer) GetPropertyOr(ctx context.Context, name string, def *structpb.Value) (*structpb.Value, error) {
	v, err := p.GetProperty(ctx, name)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return def, nil
	}

	return v, nil
}

// SetProperty implements element.Element.
func (p *Peer) SetProperty(ctx context.Context, name string, value *structpb.Value) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}

	pending, err := p.send(ctx, Frame{Type: FrameSet, Name: name, Value: raw})
	if err != nil {
		return err
	}

	_, err = p.await(ctx, pending)

	return err
}

// CallFunction implements element.Element. The returned handle completes when the widget replies.
func (p *Peer) CallFunction(ctx context.Context, name string, args ...any) (element.PendingResult, error) {
	values, err := element.Values(args)
	if err != nil {
		return nil, err
	}

	raw := make([]json.RawMessage, len(values))
	for i, v := range values {
		if raw[i], err = encodeValue(v); err != nil {
			return nil, err
		}
	}

	return p.send(ctx, Frame{Type: FrameCall, Name: name, Args: raw})
}

func (p *Peer) await(ctx context.Context, pending *element.Pending) (*structpb.Value, error) {
	v, err := pending.Await(ctx)
	if ctx.Err() != nil {
		p.forget(pending.ID())
	}

	return v, err
}

func (p *Peer) send(ctx context.Context, f Frame) (*element.Pending, error) {
	pending := element.NewPending()
	f.ID = pending.ID()
	f.Trace = telemetry.Inject(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.pending[f.ID] = pending
	p.mu.Unlock()

	p.writeMu.Lock()
	err := p.conn.WriteJSON(f)
	p.writeMu.Unlock()

	if err != nil {
		p.forget(f.ID)
		return nil, fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return pending, nil
}

func (p *Peer) forget(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.pending, id)
}

// readLoop completes pending requests with the widget's replies until the connection fails.
func (p *Peer) readLoop() {
	defer p.shutdown()

	for {
		var f Frame
		if err := p.conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.WithError(err).Debug("widget connection lost")
			}
			return
		}

		p.mu.Lock()
		pending, ok := p.pending[f.ID]
		delete(p.pending, f.ID)
		p.mu.Unlock()

		if !ok {
			p.log.WithField("id", f.ID).Warn("reply to unknown request")
			continue
		}

		p.complete(pending, f)
	}
}

func (p *Peer) complete(pending *element.Pending, f Frame) {
	switch f.Type {
	case FrameResult:
		if len(f.Value) == 0 {
			_ = pending.Resolve(nil)
			return
		}
		v, err := decodeValue(f.Value)
		if err != nil {
			_ = pending.Reject(err)
			return
		}
		_ = pending.Resolve(v)
	case FrameError:
		_ = pending.Reject(&RemoteError{Message: f.Error})
	default:
		_ = pending.Reject(fmt.Errorf("unexpected reply type '%s'", f.Type))
	}
}

func (p *Peer) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.done)

	for id, pending := range p.pending {
		_ = pending.Reject(ErrClosed)
		delete(p.pending, id)
	}
}
