package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span names.
const (
	SpanDispatch = "litbridge.dispatch"
	SpanRemote   = "litbridge.remote"
)

// Attribute keys.
const (
	KeyMethod     = attribute.Key("litbridge.method")
	KeyDescriptor = attribute.Key("litbridge.descriptor")
	KeyOperation  = attribute.Key("litbridge.operation")
	KeyTarget     = attribute.Key("litbridge.target")
)

// Method returns the contract method attribute.
func Method(name string) attribute.KeyValue {
	return KeyMethod.String(name)
}

// Descriptor returns the descriptor kind attribute.
func Descriptor(kind string) attribute.KeyValue {
	return KeyDescriptor.String(kind)
}

// Operation returns the remote operation attribute: get, set or call.
func Operation(op string) attribute.KeyValue {
	return KeyOperation.String(op)
}

// Target returns the remote property or function name attribute.
func Target(name string) attribute.KeyValue {
	return KeyTarget.String(name)
}
