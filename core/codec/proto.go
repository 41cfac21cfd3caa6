package codec

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto returns the codec of a protobuf message type. Properties hold the JSON form of the
// message; the default is the protojson text of the message, an empty default is nil.
func Proto[T proto.Message]() Codec {
	newMessage := func() T {
		var zero T
		return zero.ProtoReflect().Type().New().Interface().(T) //nolint:forcetypeassert
	}

	fromJSON := func(b []byte) (T, error) {
		m := newMessage()
		if err := protojson.Unmarshal(b, m); err != nil {
			var zero T
			return zero, err
		}
		return m, nil
	}

	return Of(Converter[T]{
		Decode: func(v *structpb.Value) (T, error) {
			b, err := protojson.Marshal(v)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromJSON(b)
		},
		Encode: func(m T) (*structpb.Value, error) {
			if !m.ProtoReflect().IsValid() {
				return structpb.NewNullValue(), nil
			}
			b, err := protojson.Marshal(m)
			if err != nil {
				return nil, err
			}
			v := new(structpb.Value)
			if err = protojson.Unmarshal(b, v); err != nil {
				return nil, err
			}
			return v, nil
		},
		ParseDefault: func(s string) (T, error) {
			if s == "" {
				var zero T
				return zero, nil
			}
			return fromJSON([]byte(s))
		},
	})
}
