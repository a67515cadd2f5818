package serializer

import (
	"fmt"

	capnp "capnproto.org/go/capnp/v3"
)

// CapnpMessage is satisfied by any capnp-generated struct type: generated
// accessor types expose Message() *capnp.Message, which is the hook this
// codec needs without itself depending on any particular generated
// schema.
type CapnpMessage interface {
	Message() *capnp.Message
}

// Capnp packs/unpacks already-built capnp messages. Unlike Proto and
// JSON it cannot satisfy the generic Serializer interface: capnp's
// generated structs are views over a *capnp.Message arena rather than
// plain Go values populated in place by Unmarshal, so callers build or
// read the struct via capnpc-go-generated accessors and hand this codec
// only the underlying message.
type Capnp struct{}

// MarshalMessage encodes all of msg's segments, with the standard stream
// framing and without packing, to bytes.
func (Capnp) MarshalMessage(v CapnpMessage) ([]byte, error) {
	return v.Message().Marshal()
}

// UnmarshalMessage unpacks bytes into a *capnp.Message ready for a
// generated ReadRootXxx accessor to interpret.
func (Capnp) UnmarshalMessage(data []byte) (*capnp.Message, error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("serializer: capnp unmarshal: %w", err)
	}
	return msg, nil
}
