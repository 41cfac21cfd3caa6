package wspeer

import (
	"encoding/json"
	"errors"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frame types.
const (
	FrameGet    = "get"
	FrameSet    = "set"
	FrameCall   = "call"
	FrameResult = "result"
	FrameError  = "error"
)

// Frame is one JSON message exchanged with a widget.
// Replies carry the ID of the request they answer.
type Frame struct {
	ID    string            `json:"id"`
	Type  string            `json:"type"`
	Name  string            `json:"name,omitempty"`
	Value json.RawMessage   `json:"value,omitempty"`
	Args  []json.RawMessage `json:"args,omitempty"`
	Error string            `json:"error,omitempty"`
	Trace map[string]string `json:"trace,omitempty"`
}

// RemoteError is an error reported by the widget.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "widget error: " + e.Message
}

var errMissingValue = errors.New("frame has no value")

func encodeValue(v *structpb.Value) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("null"), nil
	}

	return protojson.Marshal(v)
}

func decodeValue(raw json.RawMessage) (*structpb.Value, error) {
	if len(raw) == 0 {
		return nil, errMissingValue
	}

	v := new(structpb.Value)
	if err := protojson.Unmarshal(raw, v); err != nil {
		return nil, err
	}

	return v, nil
}
