package ftpserver

// handleUSER and handlePASS accept anything: spec.md's Non-goals exclude
// authentication, so these only exist to keep FTP clients that insist on a
// login handshake happy (ps4_ftp.cpp's cmd_USER_func/cmd_PASS_func never
// look at the supplied credentials either).

func (s *session) handleUSER(arg string) error {
	s.WriteResponse(331, "Username OK, need password b0ss.")

	return nil
}

func (s *session) handlePASS(arg string) error {
	s.WriteResponse(230, "User logged in!")

	return nil
}
