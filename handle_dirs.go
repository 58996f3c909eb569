package ftpserver

import (
	"os"
	"strings"
	"time"
)

func (s *session) handlePWD(arg string) error {
	s.WriteResponse(257, "\""+s.Path()+"\" is the current directory.")

	return nil
}

// handleCWD changes the working directory, matching ps4_ftp.cpp's
// cmd_CWD_func: "/" and ".." are handled without touching the filesystem,
// anything else is accepted if it can be opened for reading (a regular file
// passes this check as well as a directory).
func (s *session) handleCWD(arg string) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		s.WriteResponse(500, "Syntax error, command unrecognized.")

		return nil
	}

	if arg == ".." {
		s.setCwd(dirUp(s.Path()))
		s.WriteResponse(250, "Requested file action okay, completed.")

		return nil
	}

	target := s.AbsPath(arg)

	if target != "/" {
		if !openableForRead(s.driver, target) {
			s.WriteResponse(550, "Invalid directory.")

			return nil
		}
	}

	s.setCwd(target)
	s.WriteResponse(250, "Requested file action okay, completed.")

	return nil
}

func (s *session) handleCDUP(arg string) error {
	s.setCwd(dirUp(s.Path()))
	s.WriteResponse(200, "Command okay.")

	return nil
}

// handleMKD creates a directory, matching ps4_ftp.cpp's create_dir.
func (s *session) handleMKD(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	if err := s.driver.Mkdir(path, 0o777); err != nil {
		s.WriteResponse(550, "Could not create the directory.")

		return nil
	}

	s.WriteResponse(226, "Directory created.")

	return nil
}

// handleRMD removes a directory, matching ps4_ftp.cpp's delete_dir
// (ENOTEMPTY gets its own message, any other failure is generic).
func (s *session) handleRMD(arg string) error {
	path, ok := s.requirePath(arg)
	if !ok {
		return nil
	}

	err := s.driver.Remove(path)
	switch {
	case err == nil:
		s.WriteResponse(226, "Directory deleted.")
	case isDirNotEmpty(err):
		s.WriteResponse(550, "Directory is not empty.")
	default:
		s.WriteResponse(550, "Could not delete the directory.")
	}

	return nil
}

// requirePath extracts the single path argument the way
// ps4_ftp.cpp's gen_ftp_fullpath does, replying 500 and reporting failure
// when the command carried none.
func (s *session) requirePath(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		s.WriteResponse(500, "Syntax error, command unrecognized.")

		return "", false
	}

	return s.AbsPath(arg), true
}

// handleLIST sends a directory listing over the data channel opened by a
// prior PASV/PORT, matching ps4_ftp.cpp's cmd_LIST_func/send_LIST.
func (s *session) handleLIST(arg string) error {
	target := s.Path()

	arg = strings.TrimSpace(arg)
	if arg != "" && !strings.HasPrefix(arg, "-") {
		target = s.AbsPath(arg)
	}

	entries, err := readDirSorted(s.driver, target)
	if err != nil {
		s.WriteResponse(550, "Invalid directory.")

		return nil
	}

	dc, ok := s.takeData()
	if !ok {
		s.WriteResponse(425, "Use PORT or PASV first.")

		return nil
	}
	defer dc.Close()

	s.WriteResponse(150, "Opening ASCII mode data transfer for LIST.")

	conn, err := dc.Open()
	if err != nil {
		s.logger.Info("LIST data connection failed", "id", s.num, "err", err)
		s.WriteResponse(426, "Connection closed; transfer aborted.")

		return nil
	}
	defer conn.Close()

	now := time.Now()

	for _, name := range entries {
		full := joinPath(target, name)

		info, statErr := s.driver.Stat(full)
		if statErr != nil {
			continue
		}

		link := ""

		if sym, isSym := s.driver.(ClientDriverExtensionSymlink); isSym && info.Mode()&os.ModeSymlink != 0 {
			if linkTarget, readErr := sym.Readlink(full); readErr == nil {
				link = linkTarget
			}
		}

		line := formatListEntry(name, info, link, now)
		if _, writeErr := conn.Write([]byte(line + "\r\n")); writeErr != nil {
			break
		}
	}

	s.WriteResponse(226, "Transfer complete.")

	return nil
}
