package mock

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ErrNotProto is returned for request or reply values that are not protobuf messages.
var ErrNotProto = errors.New("value is not a protobuf message")

// ClientConn is a grpc.ClientConnInterface calling the handlers of a service in-process.
// Outgoing metadata becomes incoming metadata of the server.
type ClientConn struct {
	desc *grpc.ServiceDesc
	srv  any

	invoked []string
}

// NewClientConn returns a connection to srv, an implementation of the service described by desc.
func NewClientConn(desc *grpc.ServiceDesc, srv any) *ClientConn {
	return &ClientConn{desc: desc, srv: srv}
}

// Invoked returns the full names of the invoked methods.
func (m *ClientConn) Invoked() []string {
	return append([]string(nil), m.invoked...)
}

// Invoke performs a unary RPC and returns after the response is received
// into reply.
func (m *ClientConn) Invoke(ctx context.Context, method string, args any, reply any, _ ...grpc.CallOption) error {
	in, ok := args.(proto.Message)
	if !ok {
		return ErrNotProto
	}
	out, ok := reply.(proto.Message)
	if !ok {
		return ErrNotProto
	}

	for _, md := range m.desc.Methods {
		if "/"+m.desc.ServiceName+"/"+md.MethodName != method {
			continue
		}
		m.invoked = append(m.invoked, method)

		rawJSON, err := protojson.Marshal(in)
		if err != nil {
			return err
		}

		if outgoing, ok := metadata.FromOutgoingContext(ctx); ok {
			ctx = metadata.NewIncomingContext(ctx, outgoing)
		}

		dec := func(v any) error {
			msg, ok := v.(proto.Message)
			if !ok {
				return ErrNotProto
			}
			return protojson.Unmarshal(rawJSON, msg)
		}

		resp, err := md.Handler(m.srv, ctx, dec, nil)
		if err != nil {
			return err
		}

		result, err := protojson.Marshal(resp.(proto.Message)) //nolint:forcetypeassert
		if err != nil {
			return err
		}

		return protojson.Unmarshal(result, out)
	}

	return status.Errorf(codes.Unimplemented, "unknown method %s", method)
}

// NewStream begins a streaming RPC.
func (m *ClientConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "streaming methods are not supported")
}
