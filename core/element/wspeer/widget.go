package wspeer

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/types/known/structpb"
)

// Dial attaches to the hub at hubURL as the element name.
func Dial(ctx context.Context, hubURL, name string) (*websocket.Conn, error) {
	u, err := url.Parse(hubURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set(QueryElement, name)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Serve answers the frames received on conn from el until the connection closes or ctx is done.
// Function calls are answered when they complete, possibly out of order.
func Serve(ctx context.Context, conn *websocket.Conn, el element.Element) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	w := &widget{conn: conn, el: el}
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		w.handle(telemetry.Extract(ctx, f.Trace), f)
	}
}

type widget struct {
	conn *websocket.Conn
	el   element.Element

	writeMu sync.Mutex
}

func (w *widget) handle(ctx context.Context, f Frame) {
	switch f.Type {
	case FrameGet:
		v, err := w.el.GetProperty(ctx, f.Name)
		w.reply(f.ID, v, err)
	case FrameSet:
		v, err := decodeValue(f.Value)
		if err == nil {
			err = w.el.SetProperty(ctx, f.Name, v)
		}
		w.reply(f.ID, nil, err)
	case FrameCall:
		args := make([]any, len(f.Args))
		for i, raw := range f.Args {
			v, err := decodeValue(raw)
			if err != nil {
				w.reply(f.ID, nil, err)
				return
			}
			args[i] = v
		}

		pending, err := w.el.CallFunction(ctx, f.Name, args...)
		if err != nil {
			w.reply(f.ID, nil, err)
			return
		}

		go func() {
			v, err := pending.Await(ctx)
			w.reply(f.ID, v, err)
		}()
	default:
		w.reply(f.ID, nil, errors.New("unknown frame type '"+f.Type+"'"))
	}
}

func (w *widget) reply(id string, v *structpb.Value, err error) {
	out := Frame{ID: id, Type: FrameResult}
	if err != nil {
		out.Type = FrameError
		out.Error = err.Error()
	} else if v != nil {
		raw, encErr := encodeValue(v)
		if encErr != nil {
			out.Type = FrameError
			out.Error = encErr.Error()
		} else {
			out.Value = raw
		}
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	_ = w.conn.WriteJSON(out)
}
