package ftpserver

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// handlePASV opens a passive listener and replies with the six-octet
// "227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)" tuple, matching
// ps4_ftp.cpp's cmd_PASV_func (DESIGN.md decision 2: dotted-quad octets in
// configured order, p1/p2 the conventional port>>8, port&0xff split).
func (s *session) handlePASV(arg string) error {
	settings := s.srv.settingsSnapshot()
	timeout := time.Duration(settings.ConnectTimeout) * time.Second

	octets, err := parseAdvertisedAddr(settings.AdvertisedAddr)
	if err != nil {
		s.logger.Info("PASV failed", "id", s.num, "err", err)
		s.WriteResponse(425, "Can't open passive connection.")

		return nil
	}

	dc, port, err := newPassiveChannel(settings.Network, settings.AdvertisedAddr, timeout)
	if err != nil {
		s.logger.Info("PASV failed", "id", s.num, "err", err)
		s.WriteResponse(425, "Can't open passive connection.")

		return nil
	}

	s.setData(dc)

	s.WriteResponse(227, fmt.Sprintf("Entering Passive Mode (%d,%d,%d,%d,%d,%d)",
		octets[0], octets[1], octets[2], octets[3], port>>8, port&0xff))

	return nil
}

// handlePORT parses the client-supplied h1,h2,h3,h4,p1,p2 tuple and arms an
// active-mode data channel that will dial out on the next transfer command,
// matching ps4_ftp.cpp's cmd_PORT_func.
func (s *session) handlePORT(arg string) error {
	fields := strings.Split(strings.TrimSpace(arg), ",")
	if len(fields) != 6 {
		s.WriteResponse(500, "Syntax error, command unrecognized.")

		return nil
	}

	nums := make([]int, 6)

	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 || v > 255 {
			s.WriteResponse(500, "Syntax error, command unrecognized.")

			return nil
		}

		nums[i] = v
	}

	ip := fmt.Sprintf("%d.%d.%d.%d", nums[0], nums[1], nums[2], nums[3])
	port := nums[4]*256 + nums[5]

	timeout := time.Duration(s.srv.settingsSnapshot().ConnectTimeout) * time.Second

	s.setData(&activeChannel{
		net:     s.srv.settingsSnapshot().Network,
		addr:    fmt.Sprintf("%s:%d", ip, port),
		timeout: timeout,
	})

	s.WriteResponse(200, "PORT command successful!")

	return nil
}
