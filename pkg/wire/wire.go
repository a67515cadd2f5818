// Package wire defines the concrete on-the-wire encoding of channel-layer
// packets: fragments and single (unfragmented) messages, tagged by a
// leading kind byte and decoded with fixed-order encoding/binary reads.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/relaynet/relaynet/internal/channel/fragment"
	"github.com/relaynet/relaynet/internal/channel/messageid"
)

// Kind identifies what a decoded packet is. 0 is reserved as invalid.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSingle
	KindFragment
)

// ErrShortPacket is returned whenever a buffer is too small to contain its
// declared fields.
var ErrShortPacket = errors.New("wire: packet too short")

// EncodeSingle serializes an unfragmented message: kind byte, optional
// MessageId presence flag + value, then the raw payload.
func EncodeSingle(s fragment.Single) []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(KindSingle))
	if s.ID != nil {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, uint16(*s.ID))
	} else {
		buf.WriteByte(0)
	}
	buf.Write(s.Bytes)
	return buf.Bytes()
}

// DecodeSingle reverses EncodeSingle.
func DecodeSingle(data []byte) (fragment.Single, error) {
	if len(data) < 2 {
		return fragment.Single{}, ErrShortPacket
	}
	if Kind(data[0]) != KindSingle {
		return fragment.Single{}, fmt.Errorf("wire: expected KindSingle, got %d", data[0])
	}
	hasID := data[1] == 1
	offset := 2
	var id *messageid.ID
	if hasID {
		if len(data) < offset+2 {
			return fragment.Single{}, ErrShortPacket
		}
		v := messageid.ID(binary.LittleEndian.Uint16(data[offset : offset+2]))
		id = &v
		offset += 2
	}
	payload := make([]byte, len(data)-offset)
	copy(payload, data[offset:])
	return fragment.Single{ID: id, Bytes: payload}, nil
}

// EncodeFragment serializes one FragmentData: kind byte, message id,
// fragment id, num_fragments, then the raw fragment payload.
func EncodeFragment(f fragment.Data) []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(KindFragment))
	binary.Write(buf, binary.LittleEndian, uint16(f.MessageID))
	binary.Write(buf, binary.LittleEndian, f.FragmentID)
	binary.Write(buf, binary.LittleEndian, f.NumFragments)
	buf.Write(f.Bytes)
	return buf.Bytes()
}

const fragmentHeaderLen = 1 + 2 + 4 + 4

// DecodeFragment reverses EncodeFragment.
func DecodeFragment(data []byte) (fragment.Data, error) {
	if len(data) < fragmentHeaderLen {
		return fragment.Data{}, ErrShortPacket
	}
	if Kind(data[0]) != KindFragment {
		return fragment.Data{}, fmt.Errorf("wire: expected KindFragment, got %d", data[0])
	}
	id := messageid.ID(binary.LittleEndian.Uint16(data[1:3]))
	fragID := binary.LittleEndian.Uint32(data[3:7])
	numFrags := binary.LittleEndian.Uint32(data[7:11])
	payload := make([]byte, len(data)-fragmentHeaderLen)
	copy(payload, data[fragmentHeaderLen:])
	return fragment.Data{
		MessageID:    id,
		FragmentID:   fragID,
		NumFragments: numFrags,
		Bytes:        payload,
	}, nil
}

// PeekKind reads just the leading type byte, for dispatch before a full
// decode.
func PeekKind(data []byte) (Kind, error) {
	if len(data) < 1 {
		return KindUnknown, ErrShortPacket
	}
	return Kind(data[0]), nil
}

// SplitFragments chops payload into wire-ready FragmentData records, the
// sender-side counterpart to the reassembler this package also encodes
// for. The channel layer's reassembler rejects any fragment that breaks
// this invariant: every non-last fragment carries exactly fragment.Size
// bytes.
func SplitFragments(id messageid.ID, payload []byte) []fragment.Data {
	numFragments := uint32((len(payload) + fragment.Size - 1) / fragment.Size)
	if numFragments < 2 {
		return nil
	}
	frags := make([]fragment.Data, numFragments)
	for i := uint32(0); i < numFragments; i++ {
		start := int(i) * fragment.Size
		end := min(start+fragment.Size, len(payload))
		frags[i] = fragment.Data{
			MessageID:    id,
			FragmentID:   i,
			NumFragments: numFragments,
			Bytes:        payload[start:end],
		}
	}
	return frags
}
