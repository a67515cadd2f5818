package serializer

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Proto serializes any caller-supplied proto.Message directly against
// google.golang.org/protobuf/proto, with no custom framing.
type Proto struct{}

func (Proto) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("serializer: %T does not implement proto.Message", v)
	}
	return proto.Marshal(msg)
}

func (Proto) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("serializer: %T does not implement proto.Message", v)
	}
	return proto.Unmarshal(data, msg)
}

var _ Serializer = Proto{}
