package transport

import (
	"fmt"
	"net"
)

func errNotUDPAddr(addr net.Addr) error {
	return fmt.Errorf("transport: address %v is not a *net.UDPAddr", addr)
}
