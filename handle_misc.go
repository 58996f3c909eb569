package ftpserver

import (
	"strconv"
	"strings"
)

func (s *session) handleNOOP(arg string) error {
	s.WriteResponse(200, "No operation ;)")

	return nil
}

func (s *session) handleQUIT(arg string) error {
	s.WriteResponse(221, "Goodbye senpai :'(")

	return errSessionClosed
}

func (s *session) handleSYST(arg string) error {
	s.WriteResponse(215, "UNIX Type: L8")

	return nil
}

// handleFEAT advertises REST STREAM support only, matching
// ps4_ftp.cpp's cmd_FEAT_func exactly (no MLST/MDTM/SIZE feature lines).
func (s *session) handleFEAT(arg string) error {
	s.writeMultiline(211, []string{"extensions", "REST STREAM", "end"})

	return nil
}

// handleTYPE accepts A or I and rejects everything else. Neither mode
// changes how bytes are transferred (ASCII conversion is a Non-goal).
func (s *session) handleTYPE(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields[0]) != 1 {
		s.WriteResponse(504, "Error: bad parameters?")

		return nil
	}

	switch fields[0][0] {
	case 'A', 'I':
		s.mu.Lock()
		s.kind = transferType(fields[0][0])
		s.mu.Unlock()
		s.WriteResponse(200, "Okay")
	default:
		s.WriteResponse(504, "Error: bad parameters?")
	}

	return nil
}

// handleREST records the byte offset the next RETR/STOR/APPE should resume
// at, matching ps4_ftp.cpp's cmd_REST_func.
func (s *session) handleREST(arg string) error {
	offset, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		offset = 0
	}

	s.mu.Lock()
	s.restOffset = offset
	s.mu.Unlock()

	s.WriteResponse(350, "Resuming at "+strconv.FormatInt(offset, 10))

	return nil
}
