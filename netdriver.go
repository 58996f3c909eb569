package ftpserver

import (
	"context"
	"net"
)

// defaultNetworkDriver is the default NetworkDriver: plain TCP via the
// stdlib net package, with SO_REUSEADDR/SO_REUSEPORT applied through the
// per-OS Control function in control_unix.go/control_windows.go/
// control_fallback.go so a restarted server can rebind immediately.
type defaultNetworkDriver struct{}

func (defaultNetworkDriver) Listen(addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: Control}

	return lc.Listen(context.Background(), "tcp", addr)
}

func (defaultNetworkDriver) Dial(addr string) (net.Conn, error) {
	dialer := net.Dialer{Control: Control}

	return dialer.Dial("tcp", addr)
}
