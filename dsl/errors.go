package dsl

import "fmt"

// LexError reports a byte sequence that cannot start a valid token.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %v: %s", e.Pos, e.Msg)
}

// ParseError reports a grammar violation, a duplicate declaration name,
// or an out-of-range literal.
type ParseError struct {
	Pos      Pos
	Expected string // expected token kind(s), when a token mismatch
	Found    string // token actually found
	Msg      string // condition description otherwise
	Prev     Pos    // earlier declaration, for duplicate-name errors
}

func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("parse error at %v: expected %s, got %s", e.Pos, e.Expected, e.Found)
	}
	if e.Prev != (Pos{}) {
		return fmt.Sprintf("parse error at %v: %s (first declared at %v)", e.Pos, e.Msg, e.Prev)
	}
	return fmt.Sprintf("parse error at %v: %s", e.Pos, e.Msg)
}

func describe(tok Token) string {
	if tok.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%v %q", tok.Type, tok.Literal)
}
