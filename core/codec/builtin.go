package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

var errNotScalar = errors.New("value is not a scalar")

// String returns the codec of string properties. Numbers and booleans are formatted.
func String() Codec {
	return Of(Converter[string]{
		Decode: func(v *structpb.Value) (string, error) {
			switch k := v.GetKind().(type) {
			case *structpb.Value_StringValue:
				return k.StringValue, nil
			case *structpb.Value_NumberValue:
				return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), nil
			case *structpb.Value_BoolValue:
				return strconv.FormatBool(k.BoolValue), nil
			default:
				return "", errNotScalar
			}
		},
		Encode: func(s string) (*structpb.Value, error) {
			return structpb.NewStringValue(s), nil
		},
		ParseDefault: func(s string) (string, error) {
			return s, nil
		},
	})
}

// Bool returns the codec of bool properties. Strings are parsed, non-zero numbers are true.
func Bool() Codec {
	return Of(Converter[bool]{
		Decode: func(v *structpb.Value) (bool, error) {
			switch k := v.GetKind().(type) {
			case *structpb.Value_BoolValue:
				return k.BoolValue, nil
			case *structpb.Value_StringValue:
				return parseBool(k.StringValue)
			case *structpb.Value_NumberValue:
				return k.NumberValue != 0, nil
			default:
				return false, errNotScalar
			}
		},
		Encode: func(b bool) (*structpb.Value, error) {
			return structpb.NewBoolValue(b), nil
		},
		ParseDefault: parseBool,
	})
}

// Int returns the codec of int properties.
func Int() Codec {
	return Of(Converter[int]{
		Decode: func(v *structpb.Value) (int, error) {
			n, err := decodeInteger(v, strconv.IntSize)
			return int(n), err
		},
		Encode: func(n int) (*structpb.Value, error) {
			return encodeInteger(int64(n)), nil
		},
		ParseDefault: func(s string) (int, error) {
			n, err := parseInteger(s, strconv.IntSize)
			return int(n), err
		},
	})
}

// Int64 returns the codec of int64 properties.
func Int64() Codec {
	return Of(Converter[int64]{
		Decode: func(v *structpb.Value) (int64, error) {
			return decodeInteger(v, 64)
		},
		Encode: encodeInteger64,
		ParseDefault: func(s string) (int64, error) {
			return parseInteger(s, 64)
		},
	})
}

// Float64 returns the codec of float64 properties.
func Float64() Codec {
	return Of(Converter[float64]{
		Decode: func(v *structpb.Value) (float64, error) {
			switch k := v.GetKind().(type) {
			case *structpb.Value_NumberValue:
				return k.NumberValue, nil
			case *structpb.Value_StringValue:
				return strconv.ParseFloat(k.StringValue, 64)
			default:
				return 0, errNotScalar
			}
		},
		Encode: func(f float64) (*structpb.Value, error) {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%v is not representable", f)
			}
			return structpb.NewNumberValue(f), nil
		},
		ParseDefault: func(s string) (float64, error) {
			if s == "" {
				return 0, nil
			}
			return strconv.ParseFloat(s, 64)
		},
	})
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}

	return strconv.ParseBool(s)
}

func parseInteger(s string, bitSize int) (int64, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.ParseInt(s, 10, bitSize)
}

// maxExactInteger is the largest magnitude a float64 number value holds without rounding.
const maxExactInteger = 1 << 53

// encodeInteger writes integers beyond float64 precision as decimal strings.
func encodeInteger(n int64) *structpb.Value {
	if n > maxExactInteger || n < -maxExactInteger {
		return structpb.NewStringValue(strconv.FormatInt(n, 10))
	}

	return structpb.NewNumberValue(float64(n))
}

func encodeInteger64(n int64) (*structpb.Value, error) {
	return encodeInteger(n), nil
}

func decodeInteger(v *structpb.Value, bitSize int) (int64, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		limit := math.Ldexp(1, bitSize-1)
		if n < -limit || n >= limit {
			return 0, fmt.Errorf("%v overflows int%d", n, bitSize)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		return strconv.ParseInt(k.StringValue, 10, bitSize)
	default:
		return 0, errNotScalar
	}
}
