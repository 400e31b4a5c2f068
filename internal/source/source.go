// Package source provides a look-ahead window over a UTF-8 byte stream,
// tracking line and column position. It keeps the most recent completed
// source lines internally, but does not expose them: the only excerpt
// available to later stages is the current line (CurrentLineExcerpt).
package source

import (
	"strings"
	"unicode/utf8"
)

// EOF is the sentinel rune returned by peek/advance once the input is
// exhausted. It is outside the Unicode range so it can never collide
// with a decoded rune.
const EOF = rune(-1)

// historyLines is the number of completed source lines kept in
// Source.history.
const historyLines = 8

// Source is a three-rune look-ahead window over decoded text.
type Source struct {
	input string
	pos   int // byte offset of the rune at window position 0

	line int // current 1-based line
	col  int // current 0-based column

	window  [3]rune
	widths  [3]int
	lineBuf strings.Builder
	history []string
}

// New creates a Source over input. Lone \r and \r\n are normalised to
// \n as runes are consumed.
func New(input string) *Source {
	s := &Source{input: input, line: 1}
	s.fill()
	return s
}

// fill (re)decodes the three-rune window starting at s.pos.
func (s *Source) fill() {
	pos := s.pos
	for i := 0; i < 3; i++ {
		if pos >= len(s.input) {
			s.window[i] = EOF
			s.widths[i] = 0
			continue
		}
		r, w := utf8.DecodeRuneInString(s.input[pos:])
		if r == '\r' {
			r = '\n'
			if pos+1 < len(s.input) && s.input[pos+1] == '\n' {
				w++
			}
		}
		s.window[i] = r
		s.widths[i] = w
		pos += w
	}
}

// Peek returns the rune at offset (0, 1 or 2) ahead of the cursor
// without consuming it. It returns EOF past the end of input.
func (s *Source) Peek(offset int) rune {
	if offset < 0 || offset > 2 {
		panic("source: Peek offset out of range")
	}
	return s.window[offset]
}

// Advance consumes the current rune, shifts the window, and updates
// line/column bookkeeping. It returns the rune consumed.
func (s *Source) Advance() rune {
	r := s.window[0]
	if r == EOF {
		return EOF
	}
	s.pos += s.widths[0]
	if r == '\n' {
		s.history = append(s.history, s.lineBuf.String())
		if len(s.history) > historyLines {
			s.history = s.history[len(s.history)-historyLines:]
		}
		s.lineBuf.Reset()
		s.line++
		s.col = 0
	} else {
		s.lineBuf.WriteRune(r)
		s.col++
	}
	s.fill()
	return r
}

// Line returns the current 1-based line number.
func (s *Source) Line() int { return s.line }

// Col returns the current 0-based column number.
func (s *Source) Col() int { return s.col }

// CurrentLineExcerpt returns the text accumulated on the current line
// since the last newline, trimmed to a reasonable display width.
func (s *Source) CurrentLineExcerpt() string {
	const maxWidth = 120
	line := s.lineBuf.String()
	if len(line) > maxWidth {
		return line[:maxWidth] + "…"
	}
	return line
}
