package receiver

import "github.com/relaynet/relaynet/internal/channel/messageid"

// OrderedReliableReceiver holds out-of-order messages until every earlier
// id has been delivered, then releases them in strictly contiguous id
// order. A plain map suffices here: delivery never iterates the buffer,
// it only ever performs an exact lookup of pendingRecvMessageID.
type OrderedReliableReceiver struct {
	pendingRecvMessageID messageid.ID
	recvMessageBuffer    map[messageid.ID]Message
}

// NewOrderedReliable constructs a receiver awaiting id 0.
func NewOrderedReliable() *OrderedReliableReceiver {
	return &OrderedReliableReceiver{
		recvMessageBuffer: make(map[messageid.ID]Message),
	}
}

// BufferRecv drops messages sequence-relatively older than the next id
// awaited, and otherwise inserts only if absent (first-write-wins for
// duplicate retransmissions).
func (r *OrderedReliableReceiver) BufferRecv(msg Message, id messageid.ID) {
	if messageid.Less(id, r.pendingRecvMessageID) {
		return
	}
	if _, exists := r.recvMessageBuffer[id]; !exists {
		r.recvMessageBuffer[id] = msg
	}
}

// ReadMessage releases the next message only once it is the one being
// awaited; messages are never delivered out of order even if a newer id
// is already buffered.
func (r *OrderedReliableReceiver) ReadMessage() (Message, bool) {
	msg, ok := r.recvMessageBuffer[r.pendingRecvMessageID]
	if !ok {
		return nil, false
	}
	delete(r.recvMessageBuffer, r.pendingRecvMessageID)
	r.pendingRecvMessageID = messageid.Succ(r.pendingRecvMessageID)
	return msg, true
}

// BufferLen exposes the number of buffered-but-undelivered messages.
// Exposed for tests and diagnostics only.
func (r *OrderedReliableReceiver) BufferLen() int {
	return len(r.recvMessageBuffer)
}

// PendingID exposes the next id awaited. Exposed for tests and
// diagnostics only.
func (r *OrderedReliableReceiver) PendingID() messageid.ID {
	return r.pendingRecvMessageID
}

var _ Receiver = (*OrderedReliableReceiver)(nil)
