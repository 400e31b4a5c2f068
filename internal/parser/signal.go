package parser

import (
	"fmt"

	"lovelac/internal/token"
)

// signalKind names the internal signal a parsing helper raised. The
// top-level Next loop is the only place these are caught, mirroring
// the teacher's pattern of a single recovery point per top-level
// construct (see parser.nextStatement in pkg/yang/parse.go) rather
// than per-production error handling.
type signalKind int

const (
	unexpectedToken signalKind = iota
	invalidCurrentToken
	errorTokenFromLexer
	missingToken
)

// code returns the diagnostic code spec.md §7 assigns this signal.
func (k signalKind) code() string {
	switch k {
	case unexpectedToken:
		return "UnexpectedToken"
	case invalidCurrentToken:
		return "InvalidCurrentToken"
	case errorTokenFromLexer:
		return "ErrorTokenFromLexer"
	case missingToken:
		return "MissingToken"
	default:
		return "ParseError"
	}
}

// signal is panicked by parsing helpers and recovered once per
// top-level declaration; spec.md §4.3 describes this as the parser
// "catching" an internal exception-like signal.
type signal struct {
	kind    signalKind
	tok     token.Token
	message string
}

func (s *signal) Error() string { return s.message }

func raise(kind signalKind, tok token.Token, format string, args ...interface{}) {
	panic(&signal{kind: kind, tok: tok, message: fmt.Sprintf(format, args...)})
}
