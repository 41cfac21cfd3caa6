package grpcpeer

import (
	"context"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is an element.Element backed by one element of a remote Server.
type Client struct {
	conn    grpc.ClientConnInterface
	element string
}

// NewClient returns the element name served over conn.
func NewClient(conn grpc.ClientConnInterface, name string) *Client {
	return &Client{conn: conn, element: name}
}

// GetProperty implements element.Element.
func (c *Client) GetProperty(ctx context.Context, name string) (*structpb.Value, error) {
	return c.get(ctx, GetPropertyURL, request(c.element, name, nil))
}

// GetPropertyOr implements element.Element.
func (c *Client) GetPropertyOr(ctx context.Context, name string, def *structpb.Value) (*structpb.Value, error) {
	if def == nil {
		def = structpb.NewNullValue()
	}

	v, err := c.get(ctx, GetPropertyURL, request(c.element, name, map[string]*structpb.Value{fieldDefault: def}))
	if err != nil {
		return nil, err
	}

	if element.IsUnset(v) {
		return def, nil
	}

	return v, nil
}

// SetProperty implements element.Element.
func (c *Client) SetProperty(ctx context.Context, name string, value *structpb.Value) error {
	if value == nil {
		value = structpb.NewNullValue()
	}

	_, err := c.get(ctx, SetPropertyURL, request(c.element, name, map[string]*structpb.Value{fieldValue: value}))

	return err
}

// CallFunction implements element.Element. The call runs in the background and
// is not cancelled with ctx; its outcome completes the returned handle.
func (c *Client) CallFunction(ctx context.Context, name string, args ...any) (element.PendingResult, error) {
	values, err := element.Values(args)
	if err != nil {
		return nil, err
	}

	req := request(c.element, name, map[string]*structpb.Value{
		fieldArgs: structpb.NewListValue(&structpb.ListValue{Values: values}),
	})

	pending := element.NewPending()
	ctx = context.WithoutCancel(ctx)

	go func() {
		v, err := c.get(ctx, CallFunctionURL, req)
		if err != nil {
			_ = pending.Reject(err)
			return
		}
		_ = pending.Resolve(v)
	}()

	return pending, nil
}

func (c *Client) get(ctx context.Context, method string, req *structpb.Struct) (*structpb.Value, error) {
	if header := telemetry.Inject(ctx); header != nil {
		ctx = metadata.AppendToOutgoingContext(ctx, telemetry.PackToMetadata(header)...)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, err
	}

	return resp.GetFields()[fieldValue], nil
}
