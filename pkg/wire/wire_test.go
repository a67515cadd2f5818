package wire

import (
	"testing"

	"github.com/relaynet/relaynet/internal/channel/fragment"
	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSingle_WithID(t *testing.T) {
	id := messageid.ID(42)
	s := fragment.Single{ID: &id, Bytes: []byte("hello world")}

	encoded := EncodeSingle(s)
	decoded, err := DecodeSingle(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded.ID)
	require.Equal(t, id, *decoded.ID)
	require.Equal(t, s.Bytes, decoded.Bytes)
}

func TestEncodeDecodeSingle_WithoutID(t *testing.T) {
	s := fragment.Single{Bytes: []byte("no id here")}
	encoded := EncodeSingle(s)
	decoded, err := DecodeSingle(encoded)
	require.NoError(t, err)
	require.Nil(t, decoded.ID)
	require.Equal(t, s.Bytes, decoded.Bytes)
}

func TestEncodeDecodeFragment_RoundTrip(t *testing.T) {
	f := fragment.Data{
		MessageID:    7,
		FragmentID:   1,
		NumFragments: 3,
		Bytes:        []byte("fragment payload"),
	}
	encoded := EncodeFragment(f)
	decoded, err := DecodeFragment(encoded)
	require.NoError(t, err)
	require.Equal(t, f, decoded)
}

func TestPeekKind(t *testing.T) {
	f := fragment.Data{MessageID: 1, FragmentID: 0, NumFragments: 2, Bytes: make([]byte, fragment.Size)}
	encoded := EncodeFragment(f)
	k, err := PeekKind(encoded)
	require.NoError(t, err)
	require.Equal(t, KindFragment, k)
}

func TestDecodeFragment_ShortPacket(t *testing.T) {
	_, err := DecodeFragment([]byte{byte(KindFragment), 0, 0})
	require.ErrorIs(t, err, ErrShortPacket)
}

func TestSplitFragments_RoundTripsThroughReceiver(t *testing.T) {
	payload := make([]byte, 3*fragment.Size+5)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	frags := SplitFragments(messageid.ID(99), payload)
	require.Len(t, frags, 4)

	r := fragment.NewReceiver()
	var out *fragment.Single
	for _, f := range frags {
		wireBytes := EncodeFragment(f)
		decoded, err := DecodeFragment(wireBytes)
		require.NoError(t, err)

		single, err := r.ReceiveFragment(decoded, nil)
		require.NoError(t, err)
		if single != nil {
			out = single
		}
	}
	require.NotNil(t, out)
	require.Equal(t, payload, out.Bytes)
}

func TestSplitFragments_SingleFragmentPayloadReturnsNil(t *testing.T) {
	require.Nil(t, SplitFragments(messageid.ID(1), []byte("short")))
}
