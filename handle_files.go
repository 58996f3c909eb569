package ftpserver

import (
	"io"
	"os"
	"strconv"
)

// handleRETR sends a file over the data channel, honoring a pending REST
// offset. Matches ps4_ftp.cpp's cmd_RETR_func/send_file.
func (s *session) handleRETR(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	var file FileTransfer

	file, err := s.driver.Open(path)
	if err != nil {
		s.WriteResponse(550, "File not found.")

		return nil
	}
	defer file.Close()

	offset := s.takeRestOffset()
	if offset > 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			s.WriteResponse(550, "File not found.")

			return nil
		}
	}

	dc, ok := s.takeData()
	if !ok {
		s.WriteResponse(425, "Use PORT or PASV first.")

		return nil
	}
	defer dc.Close()

	s.WriteResponse(150, "Opening Image mode data transfer.")

	conn, err := dc.Open()
	if err != nil {
		s.logger.Info("RETR data connection failed", "id", s.num, "err", err)
		s.WriteResponse(426, "Connection closed; transfer aborted.")

		return nil
	}
	defer conn.Close()

	buf := make([]byte, s.srv.settingsSnapshot().FileBufSize)
	if _, err := io.CopyBuffer(conn, file, buf); err != nil {
		s.logger.Info("RETR transfer error", "id", s.num, "err", err)
		s.WriteResponse(426, "Connection closed; transfer aborted.")

		return nil
	}

	s.WriteResponse(226, "Transfer completed.")

	return nil
}

// handleSTOR receives a file, truncating any existing content unless a
// REST offset is pending. Matches ps4_ftp.cpp's cmd_STOR_func/receive_file.
func (s *session) handleSTOR(arg string) error {
	return s.storeOrAppend(arg, false)
}

// handleAPPE always opens in append mode, matching ps4_ftp.cpp's
// cmd_APPE_func (which forces restore_point non-zero purely as an append
// flag, unrelated to RETR's byte offset use of the same field).
func (s *session) handleAPPE(arg string) error {
	return s.storeOrAppend(arg, true)
}

func (s *session) storeOrAppend(arg string, forceAppend bool) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	offset := s.takeRestOffset()

	flags := os.O_CREATE | os.O_WRONLY
	if forceAppend || offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	var file FileTransfer

	file, err := s.driver.OpenFile(path, flags, 0o777)
	if err != nil {
		s.WriteResponse(550, "File not found.")

		return nil
	}
	defer file.Close()

	dc, ok := s.takeData()
	if !ok {
		s.WriteResponse(425, "Use PORT or PASV first.")

		return nil
	}
	defer dc.Close()

	s.WriteResponse(150, "Opening Image mode data transfer.")

	conn, err := dc.Open()
	if err != nil {
		s.logger.Info("transfer data connection failed", "id", s.num, "err", err)
		s.WriteResponse(426, "Connection closed; transfer aborted.")

		return nil
	}
	defer conn.Close()

	buf := make([]byte, s.srv.settingsSnapshot().FileBufSize)
	if _, err := io.CopyBuffer(file, conn, buf); err != nil {
		s.logger.Info("upload interrupted", "id", s.num, "err", err)
		s.driver.Remove(path)
		s.WriteResponse(426, "Connection closed; transfer aborted.")

		return nil
	}

	s.WriteResponse(226, "Transfer completed.")

	return nil
}

func (s *session) takeRestOffset() int64 {
	s.mu.Lock()
	offset := s.restOffset
	s.restOffset = 0
	s.mu.Unlock()

	return offset
}

func (s *session) handleDELE(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	if err := s.driver.Remove(path); err != nil {
		s.WriteResponse(550, "Could not delete the file.")

		return nil
	}

	s.WriteResponse(226, "File deleted.")

	return nil
}

// handleRNFR records the rename source, matching ps4_ftp.cpp's
// cmd_RNFR_func (the path must already exist).
func (s *session) handleRNFR(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	if !pathExists(s.driver, path) {
		s.WriteResponse(550, "The file doesn't exist.")

		return nil
	}

	s.mu.Lock()
	s.renameFrom = path
	s.mu.Unlock()

	s.WriteResponse(350, "I need the destination name b0ss.")

	return nil
}

// handleRNTO completes the rename. It reproduces ps4_ftp.cpp's
// cmd_RNTO_func double-reply bug verbatim: a failed rename sends "550
// Error renaming the file." and is then followed unconditionally by "226
// Rename completed." (DESIGN.md decision 4).
func (s *session) handleRNTO(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	s.mu.Lock()
	from := s.renameFrom
	s.renameFrom = ""
	s.mu.Unlock()

	if err := s.driver.Rename(from, path); err != nil {
		s.WriteResponse(550, "Error renaming the file.")
	}

	s.WriteResponse(226, "Rename completed.")

	return nil
}

// handleSIZE reports a file's byte length, matching ps4_ftp.cpp's
// cmd_SIZE_func exactly, including the non-standard "213: " (colon, space)
// prefix instead of the RFC 959 "213 ".
func (s *session) handleSIZE(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	info, err := s.driver.Stat(path)
	if err != nil {
		s.WriteResponse(550, "The file doesn't exist.")

		return nil
	}

	s.writeLine("213: " + strconv.FormatInt(info.Size(), 10))

	return nil
}
