//go:build !linux

package discovery

import (
	"fmt"
	"net"
)

// listen falls back to the standard library's defaults on platforms where
// the raw SO_REUSEADDR/SO_BROADCAST syscall path isn't implemented here.
func listen(port int) (net.PacketConn, error) {
	return net.ListenPacket("udp4", fmt.Sprintf(":%d", port))
}
