// Package channel wires the fragment reassembler and the receiver-side
// delivery semantics to a transport adapter, implementing a
// single-threaded cooperative pump: one call drains whatever datagrams
// are currently available, feeds complete payloads to the receiver, and
// lets the caller poll for delivered messages on its own schedule.
package channel

import (
	"net"
	"time"

	"github.com/relaynet/relaynet/internal/channel/clock"
	"github.com/relaynet/relaynet/internal/channel/fragment"
	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/relaynet/relaynet/internal/channel/receiver"
	"github.com/relaynet/relaynet/pkg/logging"
	"github.com/relaynet/relaynet/pkg/transport"
	"github.com/relaynet/relaynet/pkg/wire"
	"go.uber.org/zap"
)

// Channel owns exactly one receiver variant, one fragment reassembler, and
// one transport adapter. It holds no lock and spawns no goroutine of its
// own: the owning goroutine is expected to call Pump (to drain the
// transport) and ReadMessage (to drain delivered messages) from the same
// logical task.
type Channel struct {
	kind      receiver.Kind
	recv      receiver.Receiver
	fragments *fragment.Receiver
	adapter   transport.Adapter
	clockSrc  clock.Source
}

// New constructs a Channel of the given delivery Kind over adapter.
// clockSrc may be nil, in which case fragment reassembly never expires
// (a clockless mode intended for tests). maxFragmentsPerMessage bounds the
// fragment admission cap this channel's reassembler enforces; 0 selects
// fragment.MaxFragmentsPerMessage, the package default.
func New(kind receiver.Kind, adapter transport.Adapter, clockSrc clock.Source, maxFragmentsPerMessage uint32) *Channel {
	return &Channel{
		kind:      kind,
		recv:      receiver.New(kind),
		fragments: fragment.NewReceiverWithLimit(maxFragmentsPerMessage),
		adapter:   adapter,
		clockSrc:  clockSrc,
	}
}

// Pump drains every datagram currently queued on the transport, feeding
// complete payloads to the receiver. It never blocks beyond the
// transport's own non-blocking Recv contract. Transport errors are logged
// and swallowed: they are never fatal to the channel.
func (c *Channel) Pump() {
	for {
		data, addr, err := c.adapter.Recv()
		if err != nil {
			logging.Warn("channel: transport recv error", zap.Error(err))
			return
		}
		if data == nil {
			return
		}
		c.handleDatagram(data, addr)
	}
}

func (c *Channel) handleDatagram(data []byte, addr net.Addr) {
	kind, err := wire.PeekKind(data)
	if err != nil {
		logging.Warn("channel: malformed datagram", zap.Error(err), zap.Stringer("from", addr))
		return
	}

	switch kind {
	case wire.KindSingle:
		single, err := wire.DecodeSingle(data)
		if err != nil {
			logging.Warn("channel: malformed single datagram", zap.Error(err))
			return
		}
		c.deliverSingle(single)

	case wire.KindFragment:
		frag, err := wire.DecodeFragment(data)
		if err != nil {
			logging.Warn("channel: malformed fragment", zap.Error(err))
			return
		}
		single, err := c.fragments.ReceiveFragment(frag, c.clockSrc.Now())
		if err != nil {
			logging.Warn("channel: fragment rejected", zap.Error(err), zap.Stringer("messageID", frag.MessageID))
			return
		}
		if single != nil {
			c.deliverSingle(*single)
		}

	default:
		logging.Warn("channel: unknown datagram kind", zap.Uint8("kind", uint8(kind)))
	}
}

func (c *Channel) deliverSingle(single fragment.Single) {
	if single.ID == nil {
		logging.Warn("channel: single message missing id, cannot order-buffer")
		return
	}
	c.recv.BufferRecv(single.Bytes, *single.ID)
}

// ReadMessage pulls the next message ready for delivery, or (nil, false)
// if none is ready.
func (c *Channel) ReadMessage() (receiver.Message, bool) {
	return c.recv.ReadMessage()
}

// Cleanup evicts fragment reassembly state last touched at or before
// now-maxAge; with a nil clock it does nothing. It has
// no effect on the receiver's message buffer, which has no age-based
// eviction policy of its own.
func (c *Channel) Cleanup(maxAge time.Duration) {
	now := c.clockSrc.Now()
	if now == nil {
		return
	}
	c.fragments.Cleanup(clock.Cutoff(*now, maxAge))
}

// Send fragments payload if necessary and writes every resulting datagram
// to addr via the transport adapter.
func (c *Channel) Send(id messageid.ID, payload []byte, addr net.Addr) error {
	if frags := wire.SplitFragments(id, payload); frags != nil {
		for _, f := range frags {
			if err := c.adapter.Send(wire.EncodeFragment(f), addr); err != nil {
				return err
			}
		}
		return nil
	}

	single := fragment.Single{ID: &id, Bytes: payload}
	return c.adapter.Send(wire.EncodeSingle(single), addr)
}

// Kind reports this channel's delivery flavor.
func (c *Channel) Kind() receiver.Kind {
	return c.kind
}
