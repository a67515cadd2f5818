package receiver

import (
	"testing"

	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/stretchr/testify/require"
)

func TestUnorderedReliable_DedupesButDoesNotReorder(t *testing.T) {
	r := NewUnorderedReliable()
	r.BufferRecv("a", messageid.ID(5))
	r.BufferRecv("b", messageid.ID(1))
	r.BufferRecv("a-dup", messageid.ID(5)) // duplicate id, dropped

	msg, ok := r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "a", msg, "arrival order preserved, not id order")

	msg, ok = r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "b", msg)

	_, ok = r.ReadMessage()
	require.False(t, ok)
}

func TestUnorderedUnreliable_PassesThroughEverything(t *testing.T) {
	r := NewUnorderedUnreliable()
	r.BufferRecv("a", messageid.ID(5))
	r.BufferRecv("a", messageid.ID(5)) // no dedup at all

	msg, ok := r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "a", msg)

	msg, ok = r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "a", msg)

	_, ok = r.ReadMessage()
	require.False(t, ok)
}

func TestSequencedUnreliable_KeepsOnlyFreshest(t *testing.T) {
	r := NewSequencedUnreliable()
	r.BufferRecv("stale-ish", messageid.ID(3))
	r.BufferRecv("fresh", messageid.ID(10))
	r.BufferRecv("older", messageid.ID(5)) // older than latestSeen=10, dropped

	msg, ok := r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "fresh", msg)

	_, ok = r.ReadMessage()
	require.False(t, ok)
}

func TestSequencedUnreliable_WrapCorrectness(t *testing.T) {
	r := NewSequencedUnreliable()
	r.BufferRecv("near-wrap", messageid.ID(65535))
	r.BufferRecv("wrapped", messageid.ID(0))

	msg, ok := r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "wrapped", msg, "id 0 is sequence-relatively ahead of 65535")
}
