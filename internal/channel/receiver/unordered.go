package receiver

import "github.com/relaynet/relaynet/internal/channel/messageid"

// UnorderedReliableReceiver suppresses duplicates but never reorders:
// messages are delivered in arrival order via a FIFO queue, with a seen-id
// set guarding against redelivery from sender retries.
type UnorderedReliableReceiver struct {
	seen  map[messageid.ID]struct{}
	queue []Message
}

// NewUnorderedReliable constructs an empty receiver.
func NewUnorderedReliable() *UnorderedReliableReceiver {
	return &UnorderedReliableReceiver{seen: make(map[messageid.ID]struct{})}
}

func (r *UnorderedReliableReceiver) BufferRecv(msg Message, id messageid.ID) {
	if _, dup := r.seen[id]; dup {
		return
	}
	r.seen[id] = struct{}{}
	r.queue = append(r.queue, msg)
}

func (r *UnorderedReliableReceiver) ReadMessage() (Message, bool) {
	if len(r.queue) == 0 {
		return nil, false
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, true
}

var _ Receiver = (*UnorderedReliableReceiver)(nil)

// UnorderedUnreliableReceiver is a pure pass-through FIFO: no dedup, no
// reordering. Every BufferRecv call enqueues unconditionally.
type UnorderedUnreliableReceiver struct {
	queue []Message
}

// NewUnorderedUnreliable constructs an empty receiver.
func NewUnorderedUnreliable() *UnorderedUnreliableReceiver {
	return &UnorderedUnreliableReceiver{}
}

func (r *UnorderedUnreliableReceiver) BufferRecv(msg Message, _ messageid.ID) {
	r.queue = append(r.queue, msg)
}

func (r *UnorderedUnreliableReceiver) ReadMessage() (Message, bool) {
	if len(r.queue) == 0 {
		return nil, false
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, true
}

var _ Receiver = (*UnorderedUnreliableReceiver)(nil)

// SequencedUnreliableReceiver keeps only the freshest arrival: any message
// whose id is sequence-relatively older than the latest accepted id is
// dropped, useful for state snapshots (e.g. position updates) where only
// the newest value matters.
type SequencedUnreliableReceiver struct {
	hasLatest  bool
	latestSeen messageid.ID
	pending    Message
}

// NewSequencedUnreliable constructs an empty receiver.
func NewSequencedUnreliable() *SequencedUnreliableReceiver {
	return &SequencedUnreliableReceiver{}
}

func (r *SequencedUnreliableReceiver) BufferRecv(msg Message, id messageid.ID) {
	if r.hasLatest && messageid.LessOrEqual(id, r.latestSeen) {
		return
	}
	r.hasLatest = true
	r.latestSeen = id
	r.pending = msg
}

func (r *SequencedUnreliableReceiver) ReadMessage() (Message, bool) {
	if r.pending == nil {
		return nil, false
	}
	msg := r.pending
	r.pending = nil
	return msg, true
}

var _ Receiver = (*SequencedUnreliableReceiver)(nil)
