package transport

import (
	"net"
	"time"

	"github.com/relaynet/relaynet/pkg/logging"
	"go.uber.org/zap"
)

// MaxDatagramSize bounds a single read from the underlying socket. It is
// sized comfortably above fragment.Size plus wire-codec overhead.
const MaxDatagramSize = 2048

// pollInterval is how long Recv blocks waiting for a datagram before
// reporting "none available". It keeps Recv non-blocking in spirit (the
// caller's cooperative loop is never stalled for long) while avoiding a
// busy-spin on the socket.
const pollInterval = 5 * time.Millisecond

// UDPAdapter implements Adapter over a real net.UDPConn.
type UDPAdapter struct {
	conn *net.UDPConn
}

// NewUDPAdapter binds a UDP socket at address (host:port, or ":port" to
// bind all interfaces).
func NewUDPAdapter(address string) (*UDPAdapter, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &UDPAdapter{conn: conn}, nil
}

func (a *UDPAdapter) Send(payload []byte, addr net.Addr) error {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return errNotUDPAddr(addr)
	}
	_, err := a.conn.WriteToUDP(payload, udpAddr)
	if err != nil {
		logging.Warn("udp send failed", zap.String("addr", udpAddr.String()), zap.Error(err))
	}
	return err
}

func (a *UDPAdapter) Recv() ([]byte, net.Addr, error) {
	buf := make([]byte, MaxDatagramSize)
	if err := a.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
		return nil, nil, err
	}

	n, addr, err := a.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return buf[:n], addr, nil
}

func (a *UDPAdapter) LocalAddr() (net.Addr, error) {
	return a.conn.LocalAddr(), nil
}

func (a *UDPAdapter) Close() error {
	return a.conn.Close()
}

var _ Adapter = (*UDPAdapter)(nil)
