package codec

import (
	"encoding"

	"google.golang.org/protobuf/types/known/structpb"
)

// Text returns the codec of a type with a textual form, typically an enumeration.
// Properties are stored as strings; an empty default is the zero value.
func Text[T encoding.TextMarshaler, PT interface {
	*T
	encoding.TextUnmarshaler
}]() Codec {
	unmarshal := func(s string) (T, error) {
		var v T
		if s == "" {
			return v, nil
		}
		err := PT(&v).UnmarshalText([]byte(s))
		return v, err
	}

	return Of(Converter[T]{
		Decode: func(v *structpb.Value) (T, error) {
			s, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				var zero T
				return zero, errNotScalar
			}
			return unmarshal(s.StringValue)
		},
		Encode: func(v T) (*structpb.Value, error) {
			b, err := v.MarshalText()
			if err != nil {
				return nil, err
			}
			return structpb.NewStringValue(string(b)), nil
		},
		ParseDefault: unmarshal,
	})
}
