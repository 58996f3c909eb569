package ftpserver

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	log "github.com/fclairamb/go-log"
)

// transferType tracks the TYPE command's argument. Only A (ASCII) and I
// (Image/binary) are accepted; ASCII conversion itself is a Non-goal, so
// both modes transfer bytes untouched (spec.md §4.4).
type transferType byte

const (
	typeImage transferType = 'I'
	typeASCII transferType = 'A'
)

// session is one connected client: the control connection, its current
// directory, its pending data channel, and the bookkeeping the built-in
// handlers need between commands (RNFR/RNTO, REST/RETR). Grounded on the
// teacher's clientHandler, narrowed to spec.md §3's per-session data model.
type session struct {
	num    uint32
	conn   net.Conn
	reader *bufio.Reader

	srv    *Server
	driver ClientDriver
	logger log.Logger

	mu         sync.Mutex
	cwd        string
	kind       transferType
	data       dataChannel
	renameFrom string
	restOffset int64

	done chan struct{}
}

func newSession(num uint32, conn net.Conn, srv *Server, driver ClientDriver, logger log.Logger) *session {
	return &session{
		num:    num,
		conn:   conn,
		reader: bufio.NewReader(conn),
		srv:    srv,
		driver: driver,
		logger: logger,
		cwd:    "/",
		kind:   typeImage,
		done:   make(chan struct{}),
	}
}

// ID, Path, RemoteAddr, LocalAddr implement ClientContext/ClientSession.
func (s *session) ID() uint32 { return s.num }

func (s *session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cwd
}

func (s *session) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }
func (s *session) LocalAddr() net.Addr  { return s.conn.LocalAddr() }

func (s *session) Driver() ClientDriver { return s.driver }

func (s *session) AbsPath(arg string) string {
	return absPath(s.Path(), arg)
}

func (s *session) setCwd(p string) {
	s.mu.Lock()
	s.cwd = p
	s.mu.Unlock()
}

// run is the session's receive loop: send the banner, then read and
// dispatch command lines until the connection is closed or aborted.
// Grounded on the teacher's HandleCommands/handleCommand, restructured
// around spec.md §4.6's exact control flow.
func (s *session) run() {
	defer close(s.done)
	defer s.closeData()
	defer s.conn.Close()
	defer s.srv.driver.ClientDisconnected(s)

	s.WriteResponse(220, "FTPS4 Server ready.")

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("session read error", "id", s.num, "err", err)
			}

			return
		}

		verb, arg := parseCommandLine(line)
		if verb == "" {
			continue
		}

		// The original firmware sleeps 1ms between receiving a command and
		// acting on it; preserved verbatim (spec.md §4.6).
		time.Sleep(time.Millisecond)

		if !s.dispatch(verb, arg) {
			return
		}

		if s.isAborted() {
			return
		}
	}
}

func (s *session) isAborted() bool {
	select {
	case <-s.srv.closing():
		return true
	default:
		return false
	}
}

// dispatch runs one command. The bool return reports whether the session
// should keep reading (false after QUIT or a fatal connection error).
func (s *session) dispatch(verb, arg string) bool {
	if handler, ok := commandsMap[verb]; ok {
		if err := handler(s, arg); err != nil {
			s.logger.Debug("command handler error", "verb", verb, "err", err)

			return !errors.Is(err, errSessionClosed)
		}

		return verb != "QUIT"
	}

	if fn, ok := s.srv.lookupCustom(verb); ok {
		if err := fn(s, arg); err != nil {
			s.logger.Debug("custom command error", "verb", verb, "err", err)
		}

		return true
	}

	s.WriteResponse(502, "Sorry, command not implemented. :(")

	return true
}

// errSessionClosed signals dispatch that the control connection itself is
// gone and the receive loop must stop (as opposed to an ordinary
// command-level failure that only warrants an error reply).
var errSessionClosed = errors.New("session closed")

// WriteResponse sends a single-line "<code> <message>\r\n" reply.
func (s *session) WriteResponse(code int, message string) {
	s.writeLine(strconv.Itoa(code) + " " + message)
}

// writeMultiline sends a FEAT-style multi-line reply: "<code>-<first>\r\n",
// one "<body>\r\n" per middle line, then "<code> <last>\r\n".
func (s *session) writeMultiline(code int, lines []string) {
	if len(lines) == 0 {
		s.WriteResponse(code, "")

		return
	}

	codeStr := strconv.Itoa(code)

	s.writeLine(codeStr + "-" + lines[0])

	for _, l := range lines[1 : len(lines)-1] {
		s.writeLine(l)
	}

	s.writeLine(codeStr + " " + lines[len(lines)-1])
}

func (s *session) writeLine(line string) {
	_, err := s.conn.Write([]byte(line + "\r\n"))
	if err != nil {
		s.logger.Debug("session write error", "id", s.num, "err", err)
	}
}

func (s *session) closeData() {
	s.mu.Lock()
	dc := s.data
	s.data = nil
	s.mu.Unlock()

	if dc != nil {
		dc.Close()
	}
}

func (s *session) takeData() (dataChannel, bool) {
	s.mu.Lock()
	dc := s.data
	s.data = nil
	s.mu.Unlock()

	return dc, dc != nil
}

func (s *session) setData(dc dataChannel) {
	s.closeData()

	s.mu.Lock()
	s.data = dc
	s.mu.Unlock()
}
