// Package grpcpeer carries the element surface over gRPC.
//
// Server exposes a set of named elements as the litbridge.v1.Element service;
// Client is an element.Element backed by one element of a remote Server.
//
// Requests and replies are google.protobuf.Struct messages, so no generated code is needed:
//
//	GetProperty  {element, name[, default]}  -> {value}
//	SetProperty  {element, name, value}      -> {}
//	CallFunction {element, name, args}       -> {value}
package grpcpeer

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the full name of the gRPC service.
const ServiceName = "litbridge.v1.Element"

// Method URLs.
const (
	GetPropertyURL  = "/" + ServiceName + "/GetProperty"
	SetPropertyURL  = "/" + ServiceName + "/SetProperty"
	CallFunctionURL = "/" + ServiceName + "/CallFunction"
)

// Message fields.
const (
	fieldElement = "element"
	fieldName    = "name"
	fieldDefault = "default"
	fieldValue   = "value"
	fieldArgs    = "args"
)

// ElementServer is the server API of the litbridge.v1.Element service.
type ElementServer interface {
	GetProperty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetProperty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CallFunction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterElementServer registers srv with s.
func RegisterElementServer(s grpc.ServiceRegistrar, srv ElementServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc of the litbridge.v1.Element service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ElementServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProperty",
			Handler:    unaryHandler(GetPropertyURL, ElementServer.GetProperty),
		},
		{
			MethodName: "SetProperty",
			Handler:    unaryHandler(SetPropertyURL, ElementServer.SetProperty),
		},
		{
			MethodName: "CallFunction",
			Handler:    unaryHandler(CallFunctionURL, ElementServer.CallFunction),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "litbridge/v1/element.proto",
}

type unaryMethod func(ElementServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, method unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return method(srv.(ElementServer), ctx, in) //nolint:forcetypeassert
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(ElementServer), ctx, req.(*structpb.Struct)) //nolint:forcetypeassert
		}

		return interceptor(ctx, in, info, handler)
	}
}

func request(elementName, name string, fields map[string]*structpb.Value) *structpb.Struct {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldElement: structpb.NewStringValue(elementName),
		fieldName:    structpb.NewStringValue(name),
	}}
	for k, v := range fields {
		req.Fields[k] = v
	}

	return req
}

func reply(v *structpb.Value) *structpb.Struct {
	if v == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{fieldValue: v}}
}
