// Package receiver implements the receiver-side delivery semantics for a
// channel: a common contract and its variants, including an
// ordered-reliable receiver that buffers out-of-order arrivals behind a
// pending-id gate.
//
// A small closed interface plus one concrete type per variant, matching
// this repository's preference for tagged concrete types over
// reflection-heavy dynamic dispatch elsewhere in the codebase (a small
// interface, several concrete implementations, selected by a Kind).
package receiver

import "github.com/relaynet/relaynet/internal/channel/messageid"

// Message is an opaque application-level payload. Only identity and
// equality matter at this layer.
type Message any

// Receiver is the uniform contract every channel flavor implements.
type Receiver interface {
	// BufferRecv queues a received message for eventual delivery. Must be
	// idempotent for reliable variants.
	BufferRecv(msg Message, id messageid.ID)

	// ReadMessage pulls the next ready message, or returns (nil, false) if
	// none is ready yet even when the internal buffer is non-empty.
	ReadMessage() (Message, bool)
}

// Kind names one of the four delivery flavors as a closed tagged-variant
// sum type.
type Kind int

const (
	OrderedReliable Kind = iota
	UnorderedReliable
	UnorderedUnreliable
	SequencedUnreliable
)

func (k Kind) String() string {
	switch k {
	case OrderedReliable:
		return "ordered-reliable"
	case UnorderedReliable:
		return "unordered-reliable"
	case UnorderedUnreliable:
		return "unordered-unreliable"
	case SequencedUnreliable:
		return "sequenced-unreliable"
	default:
		return "unknown"
	}
}

// New constructs the Receiver for the given Kind.
func New(k Kind) Receiver {
	switch k {
	case OrderedReliable:
		return NewOrderedReliable()
	case UnorderedReliable:
		return NewUnorderedReliable()
	case UnorderedUnreliable:
		return NewUnorderedUnreliable()
	case SequencedUnreliable:
		return NewSequencedUnreliable()
	default:
		panic("receiver: unknown Kind")
	}
}
