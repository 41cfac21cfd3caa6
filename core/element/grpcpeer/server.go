package grpcpeer

import (
	"context"
	"errors"
	"sync"

	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/logger"
	"github.com/anoideaopen/litbridge/core/metrics"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const transport = "grpc"

// Server serves named elements over gRPC.
type Server struct {
	mu       sync.RWMutex
	elements map[string]element.Element

	tracer  trace.Tracer
	metrics *metrics.Collector
	log     logrus.FieldLogger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerMetrics records served operations.
func WithServerMetrics(c *metrics.Collector) ServerOption {
	return func(s *Server) { s.metrics = c }
}

// WithServerLogger sets the logger of failed operations.
func WithServerLogger(log logrus.FieldLogger) ServerOption {
	return func(s *Server) { s.log = log }
}

// NewServer returns a server without elements.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{elements: make(map[string]element.Element)}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Logger()
	}
	s.tracer = otel.Tracer(telemetry.TracerName)

	return s
}

// Add exposes el under name, replacing any element of the same name.
func (s *Server) Add(name string, el element.Element) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elements[name] = el
	return s
}

// Remove stops exposing the element name.
func (s *Server) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.elements, name)
}

// GetProperty implements ElementServer.
func (s *Server) GetProperty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var v *structpb.Value

	err := s.serve(ctx, "get", req, func(ctx context.Context, el element.Element, name string) error {
		var err error
		if def, ok := req.GetFields()[fieldDefault]; ok {
			v, err = el.GetPropertyOr(ctx, name, def)
		} else {
			v, err = el.GetProperty(ctx, name)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return reply(v), nil
}

// SetProperty implements ElementServer.
func (s *Server) SetProperty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	err := s.serve(ctx, "set", req, func(ctx context.Context, el element.Element, name string) error {
		return el.SetProperty(ctx, name, req.GetFields()[fieldValue])
	})
	if err != nil {
		return nil, err
	}

	return reply(nil), nil
}

// CallFunction implements ElementServer. It replies once the function has completed.
func (s *Server) CallFunction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var v *structpb.Value

	err := s.serve(ctx, "call", req, func(ctx context.Context, el element.Element, name string) error {
		var args []any
		for _, arg := range req.GetFields()[fieldArgs].GetListValue().GetValues() {
			args = append(args, arg)
		}

		pending, err := el.CallFunction(ctx, name, args...)
		if err != nil {
			return err
		}

		if v, err = pending.Await(ctx); err != nil {
			return status.Error(grpccodes.Aborted, err.Error())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reply(v), nil
}

func (s *Server) serve(
	ctx context.Context,
	op string,
	req *structpb.Struct,
	fn func(ctx context.Context, el element.Element, name string) error,
) error {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		ctx = telemetry.Extract(ctx, telemetry.UnpackMetadata(md))
	}

	elementName := req.GetFields()[fieldElement].GetStringValue()
	name := req.GetFields()[fieldName].GetStringValue()

	ctx, span := s.tracer.Start(ctx, telemetry.SpanRemote,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(telemetry.Operation(op), telemetry.Target(name)))
	defer span.End()

	err := s.invoke(ctx, elementName, name, fn)
	s.metrics.ObserveRemote(transport, op, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.WithFields(logrus.Fields{
			"element":   elementName,
			"operation": op,
			"name":      name,
		}).WithError(err).Info("remote operation failed")
	}

	return err
}

func (s *Server) invoke(
	ctx context.Context,
	elementName, name string,
	fn func(ctx context.Context, el element.Element, name string) error,
) error {
	if name == "" {
		return status.Error(grpccodes.InvalidArgument, "name is required")
	}

	s.mu.RLock()
	el, ok := s.elements[elementName]
	s.mu.RUnlock()

	if !ok {
		return status.Errorf(grpccodes.NotFound, "element '%s' not found", elementName)
	}

	return toStatus(fn(ctx, el, name))
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, element.ErrUnknownFunction):
		return status.Error(grpccodes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(grpccodes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(grpccodes.DeadlineExceeded, err.Error())
	default:
		return status.Error(grpccodes.Internal, err.Error())
	}
}
