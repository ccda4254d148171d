// Package apiconnect wires the api messages into Connect handlers and
// clients. Every handler and client built here speaks the Connect protocol
// with a JSON codec over plain Go structs, so no generated protobuf code is
// needed.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is registered as the "json" codec, so requests use
// Content-Type application/json.
const CodecName = "json"

// Codec marshals api messages with encoding/json.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
