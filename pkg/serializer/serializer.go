// Package serializer defines the application-message codec the channel
// layer treats as an external collaborator: serializing application
// messages into byte buffers happens one layer up, never inside the
// channel itself. This package supplies concrete implementations for
// callers above the channel layer: a zero-dependency JSON codec, a
// protobuf codec, and a capnp codec. The demo CLI in cmd/relaynetd does
// not use them; it sends its argument as raw bytes.
package serializer

import "encoding/json"

// Serializer turns an application value into bytes and back. The channel
// layer itself never imports this package -- it hands opaque
// receiver.Message payloads to and from the caller, who chooses a
// Serializer independently.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the zero-dependency baseline codec: no schema compilation step,
// useful for the demo CLI and for tests that don't want a protobuf/capnp
// toolchain dependency.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

var _ Serializer = JSON{}
