package transport

import (
	"math/rand"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// ConditionerConfig tunes the artificial impairment a Conditioner applies.
// The real transport and its latency/jitter/loss conditioning are kept as
// separate, composable layers rather than one monolithic socket type.
type ConditionerConfig struct {
	// Latency is the fixed delay applied to every outgoing datagram.
	Latency time.Duration
	// Jitter is the maximum additional random delay (uniformly
	// distributed in [0, Jitter)) added on top of Latency.
	Jitter time.Duration
	// LossProbability is the fraction of outgoing datagrams silently
	// dropped, in [0, 1]; 1 drops every datagram.
	LossProbability float64
}

// Conditioner wraps an Adapter and delays or drops outgoing datagrams to
// simulate a lossy, jittery network locally. Received datagrams pass
// through unmodified: conditioning only the send path is sufficient to
// exercise the channel layer's reassembly and reordering logic in tests.
type Conditioner struct {
	inner Adapter
	cfg   ConditionerConfig
	rng   *rand.Rand
	rngMu sync.Mutex

	wg      sync.WaitGroup
	closing chan struct{}

	errMu    sync.Mutex
	sendErrs []error
}

// NewConditioner wraps inner with the given impairment configuration.
func NewConditioner(inner Adapter, cfg ConditionerConfig) *Conditioner {
	return &Conditioner{
		inner:   inner,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		closing: make(chan struct{}),
	}
}

func (c *Conditioner) delay() time.Duration {
	if c.cfg.Jitter <= 0 {
		return c.cfg.Latency
	}
	c.rngMu.Lock()
	jitter := time.Duration(c.rng.Int63n(int64(c.cfg.Jitter)))
	c.rngMu.Unlock()
	return c.cfg.Latency + jitter
}

func (c *Conditioner) shouldDrop() bool {
	if c.cfg.LossProbability <= 0 {
		return false
	}
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Float64() < c.cfg.LossProbability
}

// Send applies loss and delay before handing the datagram to the wrapped
// adapter. A dropped datagram reports no error: from the channel layer's
// point of view, packet loss on an unreliable transport is not an error
// condition -- it is distinct from a transport fault.
func (c *Conditioner) Send(payload []byte, addr net.Addr) error {
	if c.shouldDrop() {
		return nil
	}

	d := c.delay()
	if d <= 0 {
		return c.inner.Send(payload, addr)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case <-time.After(d):
			if err := c.inner.Send(payload, addr); err != nil {
				c.errMu.Lock()
				c.sendErrs = append(c.sendErrs, err)
				c.errMu.Unlock()
			}
		case <-c.closing:
		}
	}()
	return nil
}

func (c *Conditioner) Recv() ([]byte, net.Addr, error) {
	return c.inner.Recv()
}

func (c *Conditioner) LocalAddr() (net.Addr, error) {
	return c.inner.LocalAddr()
}

// Close cancels delayed sends whose delay has not yet elapsed (they are
// dropped, never sent), waits for their goroutines to exit, and closes the
// wrapped adapter -- combining the socket's close error with the errors of
// every delayed send that was attempted via multierr, rather than
// discarding all but one.
func (c *Conditioner) Close() error {
	close(c.closing)
	c.wg.Wait()

	c.errMu.Lock()
	pending := c.sendErrs
	c.errMu.Unlock()

	return multierr.Combine(append([]error{c.inner.Close()}, pending...)...)
}

var _ Adapter = (*Conditioner)(nil)
