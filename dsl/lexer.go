// Package dsl implements the ArchFinn scripting language: a lexer and
// recursive-descent parser producing an ordered declarative model of
// nodes, edges, controls, and scenarios.
package dsl

import (
	"fmt"
	"unicode"
)

// Lexer tokenizes ArchFinn script input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
	col     int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	// Skip from # to end of line
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) here() Pos {
	return Pos{Line: l.line, Col: l.col}
}

// NextToken returns the next token from the input, or a *LexError if the
// current byte cannot start a valid token.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == '#' {
			l.skipComment()
			continue
		}
		break
	}

	pos := l.here()

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case '{':
		l.readChar()
		return Token{Type: TokenLBrace, Literal: "{", Pos: pos}, nil
	case '}':
		l.readChar()
		return Token{Type: TokenRBrace, Literal: "}", Pos: pos}, nil
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	case ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}, nil
	case ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Literal: ";", Pos: pos}, nil
	case '=':
		l.readChar()
		return Token{Type: TokenEquals, Literal: "=", Pos: pos}, nil
	case ':':
		l.readChar()
		return Token{Type: TokenColon, Literal: ":", Pos: pos}, nil
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenArrow, Literal: "->", Pos: pos}, nil
		}
		return Token{}, &LexError{Pos: pos, Msg: "unexpected character '-' (expected '->')"}
	case '"':
		l.readChar() // consume opening quote
		lit, ok := l.readString()
		if !ok {
			return Token{}, &LexError{Pos: pos, Msg: "unterminated string literal"}
		}
		return Token{Type: TokenString, Literal: lit, Pos: pos}, nil
	}

	if isDigit(l.ch) {
		lit, err := l.readNumber(pos)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenNumber, Literal: lit, Pos: pos}, nil
	}
	if isIdentStart(l.ch) {
		lit := l.readIdent()
		if keywords[lit] {
			return Token{Type: TokenKeyword, Literal: lit, Pos: pos}, nil
		}
		return Token{Type: TokenIdent, Literal: lit, Pos: pos}, nil
	}

	return Token{}, &LexError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", l.ch)}
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer or real literal with at most one decimal point.
func (l *Lexer) readNumber(pos Pos) (string, error) {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		if !isDigit(l.peekChar()) {
			return "", &LexError{Pos: pos, Msg: "malformed number literal"}
		}
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos], nil
}

func (l *Lexer) readString() (string, bool) {
	var result []byte
	for l.ch != 0 && l.ch != '"' {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			default:
				result = append(result, l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
		l.readChar()
	}
	if l.ch != '"' {
		return "", false
	}
	l.readChar() // consume closing quote
	return string(result), true
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens, nil
}
