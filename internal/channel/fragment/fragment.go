// Package fragment implements fragmentation framing and reassembly for
// messages too large to fit in a single datagram.
//
// Generalizes the map[id]map[seq][]byte, completion-detected-by-count
// reassembly pattern to a dense pre-allocated buffer with a received
// bitmap, trimmed to the true tail length once the last fragment
// arrives.
package fragment

import (
	"errors"
	"fmt"
	"time"

	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/relaynet/relaynet/pkg/logging"
	"go.uber.org/zap"
)

// Size is the maximum payload bytes carried by a single non-last fragment.
// Chosen so a serialized fragment plus wire-codec overhead fits comfortably
// under a typical Ethernet-path MTU.
const Size = 1024

// MaxFragmentsPerMessage is the default admission cap on num_fragments,
// used when a Receiver is constructed with NewReceiver or with
// NewReceiverWithLimit(0). It exists to prevent an adversarial or buggy
// sender from forcing an allocation of unbounded size (num_fragments *
// Size bytes) before a single real byte is validated. Callers that want a
// different cap (e.g. pkg/config.Config.MaxFragmentsPerMessage) should use
// NewReceiverWithLimit instead.
const MaxFragmentsPerMessage = 1024

// Errors returned by ReceiveFragment. None are fatal to the reassembler
// as a whole.
var (
	ErrFragmentIndexOutOfRange = errors.New("fragment: fragment_id >= num_fragments")
	ErrWrongFragmentSize       = errors.New("fragment: non-last fragment does not carry exactly Size bytes")
	ErrEmptyLastFragment       = errors.New("fragment: last fragment carries zero bytes")
	ErrLastFragmentTooLarge    = errors.New("fragment: last fragment exceeds Size bytes")
	ErrInconsistentNumFragments = errors.New("fragment: num_fragments differs from the value recorded for this message")
	ErrTooManyFragments        = errors.New("fragment: num_fragments exceeds MaxFragmentsPerMessage")
)

// Data is one fragment of a larger message.
type Data struct {
	MessageID     messageid.ID
	FragmentID    uint32
	NumFragments  uint32
	Bytes         []byte
}

// Single is a fully reassembled (or originally single-datagram) message.
type Single struct {
	ID    *messageid.ID
	Bytes []byte
}

// constructor is the per-message reassembly state. Invariant 1:
// numReceived always equals the popcount of received. Invariant 2:
// len(bytes) is always either numFragments*Size or trimmed to the true
// tail length once the last fragment has been seen.
type constructor struct {
	numFragments uint32
	numReceived  uint32
	received     []bool
	bytes        []byte
	lastReceived *time.Time
}

func newConstructor(numFragments uint32) *constructor {
	return &constructor{
		numFragments: numFragments,
		received:     make([]bool, numFragments),
		bytes:        make([]byte, uint64(numFragments)*uint64(Size)),
	}
}

// receive applies one fragment to this constructor. Returns the completed
// payload (moved out, leaving c.bytes empty) once every index has arrived.
func (c *constructor) receive(fragmentIndex uint32, payload []byte, now *time.Time) ([]byte, error) {
	// Any arrival, including a duplicate or a later-rejected one, refreshes
	// liveness: a message still being actively (if redundantly) sent to
	// should not be evicted just because one fragment was rejected.
	c.lastReceived = now

	if fragmentIndex >= c.numFragments {
		return nil, ErrFragmentIndexOutOfRange
	}

	isLast := fragmentIndex == c.numFragments-1
	if isLast {
		if len(payload) == 0 {
			return nil, ErrEmptyLastFragment
		}
		if len(payload) > Size {
			return nil, ErrLastFragmentTooLarge
		}
	} else if len(payload) != Size {
		return nil, ErrWrongFragmentSize
	}

	if c.received[fragmentIndex] {
		// Idempotent: duplicate fragments are a no-op past this point.
		return nil, nil
	}

	c.received[fragmentIndex] = true
	c.numReceived++

	if isLast {
		tailLen := uint64(c.numFragments-1)*uint64(Size) + uint64(len(payload))
		c.bytes = c.bytes[:tailLen]
	}

	start := uint64(fragmentIndex) * uint64(Size)
	copy(c.bytes[start:start+uint64(len(payload))], payload)

	if c.numReceived == c.numFragments {
		out := c.bytes
		c.bytes = nil
		return out, nil
	}
	return nil, nil
}

// Receiver buffers in-flight fragmented messages keyed by MessageID and
// emits the reassembled payload once every fragment has arrived.
type Receiver struct {
	inFlight     map[messageid.ID]*constructor
	maxFragments uint32
}

// NewReceiver creates an empty fragment receiver using the package default
// admission cap (MaxFragmentsPerMessage).
func NewReceiver() *Receiver {
	return NewReceiverWithLimit(MaxFragmentsPerMessage)
}

// NewReceiverWithLimit creates an empty fragment receiver that admits at
// most maxFragments fragments per message. maxFragments <= 0 falls back to
// the package default, matching pkg/config.Config's "zero means use the
// default" convention for MaxFragmentsPerMessage.
func NewReceiverWithLimit(maxFragments uint32) *Receiver {
	if maxFragments == 0 {
		maxFragments = MaxFragmentsPerMessage
	}
	return &Receiver{
		inFlight:     make(map[messageid.ID]*constructor),
		maxFragments: maxFragments,
	}
}

// ReceiveFragment applies one fragment, returning the reassembled Single
// once this fragment completes its message. now is optional: passing nil
// means the resulting constructor never becomes eligible for Cleanup, a
// deliberate clockless-test mode.
func (r *Receiver) ReceiveFragment(f Data, now *time.Time) (*Single, error) {
	if f.NumFragments < 2 {
		return nil, fmt.Errorf("fragment: num_fragments %d < 2; single-fragment messages must use the SingleData path", f.NumFragments)
	}
	if f.NumFragments > r.maxFragments {
		return nil, ErrTooManyFragments
	}

	c, exists := r.inFlight[f.MessageID]
	if !exists {
		c = newConstructor(f.NumFragments)
		r.inFlight[f.MessageID] = c
	} else if c.numFragments != f.NumFragments {
		// The inconsistency makes this constructor untrustworthy: drop it
		// entirely rather than keep accumulating into a buffer sized for
		// the wrong fragment count.
		delete(r.inFlight, f.MessageID)
		return nil, ErrInconsistentNumFragments
	}

	payload, err := c.receive(f.FragmentID, f.Bytes, now)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	delete(r.inFlight, f.MessageID)
	id := f.MessageID
	logging.Debug("fragment reassembly complete",
		zap.Stringer("messageID", id), zap.Int("bytes", len(payload)))
	return &Single{ID: &id, Bytes: payload}, nil
}

// Cleanup evicts every in-flight message whose most recent fragment
// arrival (accepted, duplicate or rejected) was at or before cutoff.
// Constructors whose most recent arrival carried no timestamp (now was
// nil) are retained, never evicted.
func (r *Receiver) Cleanup(cutoff time.Time) {
	for id, c := range r.inFlight {
		if c.lastReceived != nil && !c.lastReceived.After(cutoff) {
			delete(r.inFlight, id)
			logging.Debug("fragment reassembly evicted", zap.Stringer("messageID", id))
		}
	}
}

// InFlightCount reports the number of messages currently being reassembled.
// Exposed for tests and diagnostics only.
func (r *Receiver) InFlightCount() int {
	return len(r.inFlight)
}
