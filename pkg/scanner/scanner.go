package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Scanner is a rune based cursor on a textual input.
// Current always denotes the rune at the cursor, 0 marks
// the end of the input.
type Scanner interface {
	Next() rune
	ConsumeRune(r rune) error
	SkipBlanks() rune
	Current() rune
	Position() int
	Offset() int
	Text(start, end int) string
	EOF() bool

	Errorf(msg string, args ...interface{}) error
}

type scanner struct {
	in      []byte
	offset  int
	start   int
	no      int
	current rune
}

func NewScanner(in string) Scanner {
	s := &scanner{
		in: []byte(in),
	}
	s.Next()
	return s
}

func (s *scanner) Next() rune {
	s.start = s.offset
	if s.offset >= len(s.in) {
		s.current = 0
		return 0
	}
	r, size := utf8.DecodeRune(s.in[s.offset:])
	s.current = r
	s.offset += size
	s.no++
	return r
}

func (s *scanner) ConsumeRune(r rune) error {
	if s.Current() != r {
		if s.EOF() {
			return s.Errorf("%q expected, but found end of input", string(r))
		}
		return s.Errorf("%q expected, but found %q", string(r), string(s.Current()))
	}
	s.Next()
	return nil
}

func (s *scanner) Current() rune {
	return s.current
}

func (s *scanner) EOF() bool {
	return s.current == 0 && s.start >= len(s.in)
}

func (s *scanner) Position() int {
	return s.no
}

// Offset returns the byte offset of the current rune.
func (s *scanner) Offset() int {
	return s.start
}

func (s *scanner) Text(start, end int) string {
	if end > len(s.in) {
		end = len(s.in)
	}
	return string(s.in[start:end])
}

// SkipBlanks skips white space and line comments (// ...).
func (s *scanner) SkipBlanks() rune {
	n := s.Current()
	for {
		for unicode.IsSpace(n) {
			n = s.Next()
		}
		if n != '/' || s.offset >= len(s.in) || s.in[s.offset] != '/' {
			return n
		}
		for n != '\n' && !s.EOF() {
			n = s.Next()
		}
	}
}

func (s *scanner) Errorf(msg string, args ...interface{}) error {
	return fmt.Errorf("%q %d: %s", string(s.in), s.Position(), fmt.Sprintf(msg, args...))
}
