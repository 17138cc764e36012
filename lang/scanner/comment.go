package scanner

// comment consumes a '#' through the end of the line (or EOF). Comments
// carry no token; the scanner simply resumes from whatever follows.
func (s *Scanner) comment() {
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
}
