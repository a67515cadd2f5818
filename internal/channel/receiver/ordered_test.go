package receiver

import (
	"testing"

	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/stretchr/testify/require"
)

// Scenario 5: stale id is ignored outright.
func TestOrderedReliable_StaleIDIgnored(t *testing.T) {
	r := NewOrderedReliable()
	r.BufferRecv("m2", messageid.ID(60000))
	require.Equal(t, 0, r.BufferLen())
}

// Scenario 6: reorder and drain.
func TestOrderedReliable_ReorderAndDrain(t *testing.T) {
	r := NewOrderedReliable()

	r.BufferRecv("m2", messageid.ID(1))
	msg, ok := r.ReadMessage()
	require.False(t, ok)
	require.Nil(t, msg)

	r.BufferRecv("m1", messageid.ID(0))

	msg, ok = r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "m1", msg)

	msg, ok = r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "m2", msg)

	_, ok = r.ReadMessage()
	require.False(t, ok)

	require.Equal(t, messageid.ID(2), r.PendingID())
}

func TestOrderedReliable_DuplicateIsFirstWriteWins(t *testing.T) {
	r := NewOrderedReliable()
	r.BufferRecv("first", messageid.ID(0))
	r.BufferRecv("second", messageid.ID(0))

	msg, ok := r.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "first", msg)
}

func TestOrderedReliable_WrapCorrectness(t *testing.T) {
	r := NewOrderedReliable()
	// pendingRecvMessageID starts at 0; id 65535 is stale (behind 0).
	r.BufferRecv("stale", messageid.ID(65535))
	require.Equal(t, 0, r.BufferLen())

	// Drain one full cycle of 65536 ids through a second receiver: its
	// pending id must pass 65535 and wrap back to 0.
	r2 := NewOrderedReliable()
	for i := 0; i < 65536; i++ {
		id := messageid.ID(uint16(i))
		r2.BufferRecv(i, id)
		msg, ok := r2.ReadMessage()
		require.True(t, ok)
		require.Equal(t, i, msg)
	}
	require.Equal(t, messageid.ID(0), r2.PendingID(), "id space must wrap back to 0")

	// A fresh receiver pending at 65535 must accept id 0 (one step ahead
	// across the wrap), not drop it, and deliver it next.
	r3 := NewOrderedReliable()
	r3.pendingRecvMessageID = messageid.ID(65535)
	r3.BufferRecv("wrapped", messageid.ID(0))
	msg, ok := r3.ReadMessage()
	require.True(t, ok)
	require.Equal(t, "wrapped", msg)
}

func TestMonotoneDelivery_NoGapsNoRepeats(t *testing.T) {
	r := NewOrderedReliable()
	order := []messageid.ID{3, 1, 0, 2, 4}
	for _, id := range order {
		r.BufferRecv(int(id), id)
	}

	var delivered []int
	for {
		msg, ok := r.ReadMessage()
		if !ok {
			break
		}
		delivered = append(delivered, msg.(int))
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, delivered)
}
