package ftpserver

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/fclairamb/go-log"
	lognoop "github.com/fclairamb/go-log/noop"
)

// Server is the process-wide FTP server: one control listener, one session
// registry, and a fixed-capacity custom command table. Grounded on the
// teacher's FtpServer, narrowed to spec.md §3's singleton-lifetime fields.
type Server struct {
	driver MainDriver
	logger log.Logger

	mu          sync.Mutex
	initialized bool
	listener    net.Listener
	settings    *Settings
	listenPort  uint16

	registry *sessionRegistry

	customMu       sync.Mutex
	customCommands [maxCustomCommands]customCommandSlot

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewServer builds a Server around driver. Init must be called before it
// accepts connections.
func NewServer(driver MainDriver) *Server {
	return &Server{
		driver:   driver,
		logger:   lognoop.NewNoOpLogger(),
		registry: newSessionRegistry(),
	}
}

// SetLogger overrides the no-op default logger.
func (srv *Server) SetLogger(l log.Logger) {
	srv.logger = l
}

// closing returns a channel that is closed once Fini has begun shutting the
// server down, so sessions can stop reading promptly (spec.md Design Notes
// §9's abort propagation).
func (srv *Server) closing() <-chan struct{} {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.stop == nil {
		srv.stop = make(chan struct{})
	}

	return srv.stop
}

// Init starts listening on Settings.ListenAddr (0.0.0.0:port when that is
// empty) and begins accepting connections in the background; ip becomes the
// PASV advertised address when Settings.AdvertisedAddr is empty, mirroring ps4_ftp.cpp's FTP::ftps4_init: a singleton server
// that must be explicitly finalized with Fini before it can be
// re-initialized (spec.md §4.6's lifecycle invariants).
func (srv *Server) Init(ip string, port uint16) error {
	srv.mu.Lock()

	if srv.initialized {
		srv.mu.Unlock()

		return ErrAlreadyInitialized
	}

	settings, err := srv.driver.GetSettings()
	if err != nil {
		srv.mu.Unlock()

		return NewDriverError("get settings", err)
	}

	settings.applyDefaults()

	if settings.AdvertisedAddr == "" {
		settings.AdvertisedAddr = ip
	}

	addr := settings.ListenAddr
	if addr == "" {
		addr = net.JoinHostPort("0.0.0.0", strconv.Itoa(int(port)))
	}

	ln, err := settings.Network.Listen(addr)
	if err != nil {
		srv.mu.Unlock()

		return NewNetworkError("listen", err)
	}

	srv.settings = settings
	srv.listener = ln
	srv.listenPort = port
	srv.initialized = true
	srv.stop = make(chan struct{})
	srv.mu.Unlock()

	srv.wg.Add(1)

	go srv.acceptLoop()

	return nil
}

// settingsSnapshot returns the settings captured at Init time.
func (srv *Server) settingsSnapshot() *Settings {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.settings
}

// SetFileBufSize overrides the transfer buffer size after Init, mirroring
// ps4_ftp.cpp's FTP::ftps4_set_file_buf_size.
func (srv *Server) SetFileBufSize(n int) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.settings != nil && n > 0 {
		srv.settings.FileBufSize = n
	}
}

// IsInitialized reports whether Init has been called without a matching Fini.
func (srv *Server) IsInitialized() bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.initialized
}

// acceptLoop accepts connections until the listener is closed, applying a
// short backoff on transient accept errors the way the teacher's Serve loop
// does.
func (srv *Server) acceptLoop() {
	defer srv.wg.Done()

	var backoff time.Duration

	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			select {
			case <-srv.closing():
				return
			default:
			}

			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if backoff == 0 {
					backoff = 5 * time.Millisecond
				} else {
					backoff *= 2
				}

				if backoff > time.Second {
					backoff = time.Second
				}

				time.Sleep(backoff)

				continue
			}

			srv.logger.Info("accept error, stopping", "err", err)

			return
		}

		backoff = 0

		srv.spawn(conn)
	}
}

// spawn registers and starts one client session. The registry counter is
// bumped twice per accepted connection: once to assign the session its
// number, once again right after the goroutine starts, reproducing the
// documented double-increment quirk (spec.md §4.6, DESIGN.md decision 1).
func (srv *Server) spawn(conn net.Conn) {
	num := srv.registry.nextNum()

	cc := &minimalContext{id: num, remote: conn.RemoteAddr(), local: conn.LocalAddr()}

	if err := srv.driver.ClientConnected(cc); err != nil {
		srv.logger.Info("client rejected", "id", num, "err", err)
		conn.Close()

		return
	}

	driver, err := srv.driver.GetFS(cc)
	if err != nil {
		srv.logger.Info("GetFS failed", "id", num, "err", err)
		conn.Close()

		return
	}

	sess := newSession(num, conn, srv, driver, srv.logger)

	srv.registry.add(sess)

	srv.wg.Add(1)

	go func() {
		defer srv.wg.Done()
		defer srv.registry.remove(sess)

		sess.run()
	}()

	srv.registry.bump()
}

// Fini stops accepting connections, aborts every live session, and waits
// for them all to return, mirroring ps4_ftp.cpp's FTP::ftps4_fini.
func (srv *Server) Fini() {
	srv.mu.Lock()

	if !srv.initialized {
		srv.mu.Unlock()

		return
	}

	srv.initialized = false
	stop := srv.stop
	ln := srv.listener
	srv.mu.Unlock()

	close(stop)

	if ln != nil {
		ln.Close()
	}

	for _, sess := range srv.registry.snapshot() {
		sess.conn.Close()
	}

	srv.wg.Wait()
	srv.registry.clear()
}

// minimalContext is the ClientContext passed to MainDriver.ClientConnected
// before a session exists, and also satisfies ClientContext for GetFS.
type minimalContext struct {
	id     uint32
	remote net.Addr
	local  net.Addr
}

func (c *minimalContext) ID() uint32         { return c.id }
func (c *minimalContext) Path() string       { return "/" }
func (c *minimalContext) RemoteAddr() net.Addr { return c.remote }
func (c *minimalContext) LocalAddr() net.Addr  { return c.local }

// parseAdvertisedAddr splits a "host:port" or bare "host" advertised
// address into its dotted-quad octets, used by PASV to build the h1,h2,h3,h4
// reply tuple (DESIGN.md Open Question decision 2: literal configured
// octet order, no byte-swap).
func parseAdvertisedAddr(addr string) ([4]byte, error) {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return [4]byte{}, fmt.Errorf("not an IPv4 dotted-quad: %q", addr)
	}

	var out [4]byte

	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return [4]byte{}, fmt.Errorf("invalid octet %q in %q", p, addr)
		}

		out[i] = byte(v)
	}

	return out, nil
}
