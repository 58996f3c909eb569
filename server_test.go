package ftpserver

import (
	"bytes"
	"net"
	"strconv"
	"testing"

	"github.com/secsy/goftp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// memDriver is the MainDriver used by the package's end-to-end tests: an
// in-memory filesystem shared by every session, grounded on the teacher's
// TestServer pattern (helpers_test.go/server_test.go) but backed by
// afero.NewMemMapFs instead of a temp directory.
type memDriver struct {
	fs afero.Fs
}

func newMemDriver() *memDriver {
	return &memDriver{fs: afero.NewMemMapFs()}
}

func (d *memDriver) GetSettings() (*Settings, error) {
	return &Settings{AdvertisedAddr: "127.0.0.1"}, nil
}

func (d *memDriver) ClientConnected(cc ClientContext) error { return nil }
func (d *memDriver) ClientDisconnected(cc ClientContext)    {}

func (d *memDriver) GetFS(cc ClientContext) (ClientDriver, error) {
	return d.fs.(ClientDriver), nil
}

// newTestServer starts a Server on an ephemeral loopback port and arranges
// for it to be torn down when the test finishes.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	srv := NewServer(newMemDriver())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	require.NoError(t, ln.Close())

	require.NoError(t, srv.Init("127.0.0.1", uint16(port)))

	t.Cleanup(srv.Fini)

	return srv, net.JoinHostPort("127.0.0.1", portStr)
}

func newTestClient(t *testing.T, addr string) *goftp.Client {
	t.Helper()

	client, err := goftp.DialConfig(goftp.Config{User: "anonymous", Password: "x"}, addr)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestStorRetrRoundTrip(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	content := []byte("hello from ftps4")

	err := client.Store("/greeting.txt", bytes.NewReader(content))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, client.Retrieve("/greeting.txt", &buf))
	require.Equal(t, content, buf.Bytes())
}

func TestMkdRmdRoundTrip(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	raw, err := client.OpenRawConn()
	require.NoError(t, err)

	defer raw.Close()

	// MKD and RMD reply 226 (not the RFC 959 257/250 that goftp's
	// Mkdir/Rmdir helpers require), so they are sent over a raw connection.
	code, _, err := raw.SendCommand("MKD /subdir")
	require.NoError(t, err)
	require.Equal(t, 226, code)

	entries, err := client.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "subdir", entries[0].Name())

	code, _, err = raw.SendCommand("RMD /subdir")
	require.NoError(t, err)
	require.Equal(t, 226, code)

	entries, err = client.ReadDir("/")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRenameRoundTrip(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	err := client.Store("/old.txt", bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	raw, err := client.OpenRawConn()
	require.NoError(t, err)

	defer raw.Close()

	// RNTO replies 226 (goftp's Rename helper requires 250), so the rename
	// is sent over a raw connection.
	code, _, err := raw.SendCommand("RNFR /old.txt")
	require.NoError(t, err)
	require.Equal(t, 350, code)

	code, _, err = raw.SendCommand("RNTO /new.txt")
	require.NoError(t, err)
	require.Equal(t, 226, code)

	entries, err := client.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "new.txt", entries[0].Name())
}

func TestRepeatedNoop(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	raw, err := client.OpenRawConn()
	require.NoError(t, err)

	defer raw.Close()

	for i := 0; i < 5; i++ {
		code, _, err := raw.SendCommand("NOOP")
		require.NoError(t, err)
		require.Equal(t, 200, code)
	}
}

func TestCwdParentOfRootStaysAtRoot(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	raw, err := client.OpenRawConn()
	require.NoError(t, err)

	defer raw.Close()

	code, _, err := raw.SendCommand("CWD ..")
	require.NoError(t, err)
	require.Equal(t, 250, code)

	code, msg, err := raw.SendCommand("PWD")
	require.NoError(t, err)
	require.Equal(t, 257, code)
	require.Contains(t, msg, "\"/\"")
}

func TestUnknownCommandIsNotImplemented(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	raw, err := client.OpenRawConn()
	require.NoError(t, err)

	defer raw.Close()

	code, msg, err := raw.SendCommand("FROBNICATE")
	require.NoError(t, err)
	require.Equal(t, 502, code)
	require.Equal(t, "Sorry, command not implemented. :(", msg)
}

func TestListNonexistentDirectory(t *testing.T) {
	_, addr := newTestServer(t)
	client := newTestClient(t, addr)

	_, err := client.ReadDir("/does/not/exist")
	require.Error(t, err)
}
