package ftpserver

import (
	"errors"
	"net"
	"os"

	"github.com/spf13/afero"
)

// MainDriver is implemented by the caller to supply the filesystem view and
// the network listener the server runs against. It plays the role spec.md
// calls the "Syscall Abstractions" collaborator: the server never touches a
// raw file descriptor or socket directly, it only calls through this
// interface (and through NetworkDriver for the control listener).
type MainDriver interface {
	// GetSettings returns the server-wide settings to use for this run.
	GetSettings() (*Settings, error)

	// ClientConnected is called right after accept, before the banner is sent.
	// Returning an error refuses the connection.
	ClientConnected(cc ClientContext) error

	// ClientDisconnected is called once the session's task has exited.
	ClientDisconnected(cc ClientContext)

	// GetFS returns the filesystem abstraction (stat/open/read/write/
	// getdents/readlink/rename/mkdir/rmdir/unlink/lseek) to use for cc.
	// Credentials are not checked: this is called once per session right
	// after ClientConnected, unconditionally (spec.md Non-goals: no auth).
	GetFS(cc ClientContext) (ClientDriver, error)
}

// ClientDriver is the filesystem syscall abstraction a session operates
// against. afero.Fs already narrows stat/open/mkdir/rmdir/rename/remove to
// a single small interface, which is exactly the shape spec.md §6 asks for.
type ClientDriver interface {
	afero.Fs
}

// ClientDriverExtensionSymlink lets a driver expose readlink, used by the
// Listing Formatter to render "name -> target" for symlinks (spec.md §4.2).
// A driver that doesn't implement it is treated as having no symlinks.
type ClientDriverExtensionSymlink interface {
	Readlink(name string) (string, error)
}

// FileTransfer is the handle returned for RETR/STOR/APPE transfers.
type FileTransfer interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// ClientContext exposes session accessors to the driver, mirroring
// spec.md's per-session data model.
type ClientContext interface {
	// ID is the session number assigned at accept time.
	ID() uint32
	// Path is the session's current working directory.
	Path() string
	// RemoteAddr is the control connection's peer address.
	RemoteAddr() net.Addr
	// LocalAddr is the control connection's local address.
	LocalAddr() net.Addr
}

// NetworkDriver is the network syscall abstraction (socket/bind/listen/
// accept/connect/close) used for both the control listener and, indirectly,
// the data channel's dial (active mode). The default implementation wraps
// the stdlib net package with the teacher's SO_REUSEADDR/SO_REUSEPORT
// Control function (control_unix.go/control_windows.go/control_fallback.go).
type NetworkDriver interface {
	// Listen opens the listening socket for the given "host:port" address.
	Listen(addr string) (net.Listener, error)
	// Dial connects out, used by the active-mode data channel (PORT).
	Dial(addr string) (net.Conn, error)
}

// Settings defines the process-wide, singleton-lifetime server state of
// spec.md §3 that isn't already covered by registry bookkeeping.
type Settings struct {
	// ListenAddr is "host:port" for the control listener. If empty,
	// "0.0.0.0:<port passed to Init>" is used.
	ListenAddr string

	// AdvertisedAddr is the dotted-quad IPv4 address announced in PASV
	// replies (spec.md §4.3/§6 "advertised_addr"). Typically the host's
	// LAN address, not necessarily the bind address.
	AdvertisedAddr string

	// Network is the syscall abstraction used for the control listener
	// and active-mode data connections. Defaults to defaultNetworkDriver.
	Network NetworkDriver

	// FileBufSize is the transfer buffer size in bytes (spec.md §4.4
	// "Transfer buffer sizing"), default 4 MiB, mutable via SetFileBufSize.
	FileBufSize int

	// ConnectTimeout, in seconds, bounds the passive-mode accept of the data
	// connection (default 30s), so a peer that never connects does not block
	// the session forever. The active-mode dial does not use it.
	ConnectTimeout int
}

const defaultFileBufSize = 4 * 1024 * 1024

const defaultConnectTimeout = 30

func (s *Settings) applyDefaults() {
	if s.Network == nil {
		s.Network = defaultNetworkDriver{}
	}

	if s.FileBufSize == 0 {
		s.FileBufSize = defaultFileBufSize
	}

	if s.ConnectTimeout == 0 {
		s.ConnectTimeout = defaultConnectTimeout
	}
}

// rootedOsDriver is the reference ClientDriver implementation: a plain
// afero.Fs over the local filesystem rooted at "/", matching spec.md §1
// ("a local filesystem view rooted at /"). It is what MainDriver
// implementations use unless they provide their own sandboxing.
type rootedOsDriver struct {
	afero.Fs
}

// NewOSClientDriver returns the default ClientDriver: the real local
// filesystem, unrestricted (spec.md performs no chroot/virtual-root — that
// is an explicit Non-goal).
func NewOSClientDriver() ClientDriver {
	return rootedOsDriver{Fs: afero.NewOsFs()}
}

// NewOSClientDriverAt returns a ClientDriver whose virtual root "/" maps to
// dir on the real filesystem, for callers (like the standalone binary)
// that want to confine the advertised tree to one directory without that
// being a protocol-level chroot guarantee.
func NewOSClientDriverAt(dir string) ClientDriver {
	return rootedOsDriver{Fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// Readlink implements ClientDriverExtensionSymlink for the OS driver. It
// only works through NewOSClientDriver, since afero.BasePathFs doesn't
// expose the underlying real path a symlink target needs to be resolved
// against.
func (d rootedOsDriver) Readlink(name string) (string, error) {
	if _, ok := d.Fs.(*afero.OsFs); ok {
		return os.Readlink(name)
	}

	return "", errReadlinkUnsupported
}

var errReadlinkUnsupported = errors.New("readlink not supported on this filesystem")
