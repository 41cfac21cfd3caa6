package grpcpeer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/element/grpcpeer"
	"github.com/anoideaopen/litbridge/core/element/memory"
	"github.com/anoideaopen/litbridge/core/metrics"
	"github.com/anoideaopen/litbridge/mock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var errTired = errors.New("bear is tired")

func newBear() *memory.Element {
	el := memory.NewElement()
	el.Define("pokeIt", func(_ context.Context, args []*structpb.Value) (*structpb.Value, error) {
		if len(args) > 0 && args[0].GetStringValue() == "hard" {
			return nil, errTired
		}
		return structpb.NewStringValue("ouch"), nil
	})

	return el
}

func newServer(c *metrics.Collector) *grpcpeer.Server {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return grpcpeer.NewServer(grpcpeer.WithServerLogger(log), grpcpeer.WithServerMetrics(c)).
		Add("bear", newBear())
}

func dialBufconn(t *testing.T, srv *grpcpeer.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	grpcpeer.RegisterElementServer(s, srv)

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestClientOverBufconn(t *testing.T) {
	collector := metrics.NewCollector(metrics.DefaultConfig())
	conn := dialBufconn(t, newServer(collector))
	exerciseClient(t, grpcpeer.NewClient(conn, "bear"))

	assert.InDelta(t, 1, testutil.ToFloat64(collector.RemoteTotal.WithLabelValues("grpc", "set", metrics.OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.RemoteTotal.WithLabelValues("grpc", "call", metrics.OutcomeError)), 0)
}

func TestClientInProcess(t *testing.T) {
	conn := mock.NewClientConn(&grpcpeer.ServiceDesc, newServer(nil))
	exerciseClient(t, grpcpeer.NewClient(conn, "bear"))

	assert.Contains(t, conn.Invoked(), grpcpeer.CallFunctionURL)
}

func exerciseClient(t *testing.T, client *grpcpeer.Client) {
	t.Helper()
	ctx := context.Background()

	v, err := client.GetProperty(ctx, "text")
	require.NoError(t, err)
	assert.True(t, element.IsUnset(v))

	v, err = client.GetPropertyOr(ctx, "text", structpb.NewStringValue("def"))
	require.NoError(t, err)
	assert.Equal(t, "def", v.GetStringValue())

	require.NoError(t, client.SetProperty(ctx, "text", structpb.NewStringValue("hello")))

	v, err = client.GetPropertyOr(ctx, "text", structpb.NewStringValue("def"))
	require.NoError(t, err)
	assert.Equal(t, "hello", v.GetStringValue())

	pending, err := client.CallFunction(ctx, "pokeIt", "soft")
	require.NoError(t, err)
	v, err = pending.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ouch", v.GetStringValue())

	pending, err = client.CallFunction(ctx, "pokeIt", "hard")
	require.NoError(t, err)
	_, err = pending.Await(ctx)
	assert.Equal(t, codes.Aborted, status.Code(err))
	assert.Contains(t, err.Error(), errTired.Error())
}

func TestServerErrors(t *testing.T) {
	conn := dialBufconn(t, newServer(nil))
	ctx := context.Background()

	testCases := []struct {
		name     string
		client   *grpcpeer.Client
		call     func(c *grpcpeer.Client) error
		wantCode codes.Code
	}{
		{
			name:   "unknown element",
			client: grpcpeer.NewClient(conn, "fox"),
			call: func(c *grpcpeer.Client) error {
				_, err := c.GetProperty(ctx, "text")
				return err
			},
			wantCode: codes.NotFound,
		},
		{
			name:   "empty name",
			client: grpcpeer.NewClient(conn, "bear"),
			call: func(c *grpcpeer.Client) error {
				return c.SetProperty(ctx, "", nil)
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name:   "unknown function",
			client: grpcpeer.NewClient(conn, "bear"),
			call: func(c *grpcpeer.Client) error {
				pending, err := c.CallFunction(ctx, "feed")
				if err != nil {
					return err
				}
				_, err = pending.Await(ctx)
				return err
			},
			wantCode: codes.NotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call(tc.client)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, status.Code(err))
		})
	}
}

// silentElement knows no functions and reports them the way any element must.
type silentElement struct {
	*mock.Element
}

func (silentElement) CallFunction(_ context.Context, name string, _ ...any) (element.PendingResult, error) {
	return nil, fmt.Errorf("%w: '%s'", element.ErrUnknownFunction, name)
}

func TestUnknownFunctionStatus(t *testing.T) {
	srv := grpcpeer.NewServer().Add("stone", silentElement{Element: mock.NewElement()})
	client := grpcpeer.NewClient(mock.NewClientConn(&grpcpeer.ServiceDesc, srv), "stone")

	pending, err := client.CallFunction(context.Background(), "roll")
	require.NoError(t, err)

	_, err = pending.Await(context.Background())
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Contains(t, err.Error(), element.ErrUnknownFunction.Error())
}

func TestUnimplementedMethod(t *testing.T) {
	conn := mock.NewClientConn(&grpcpeer.ServiceDesc, newServer(nil))

	err := conn.Invoke(context.Background(), "/litbridge.v1.Element/Poke", &structpb.Struct{}, &structpb.Struct{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
