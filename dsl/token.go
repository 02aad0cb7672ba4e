package dsl

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenKeyword   // NODE, EDGE, CONTROL, SCENARIO, SIMULATION
	TokenIdent     // api, inject_failure, circuit_breaker, ...
	TokenNumber    // 3, 0.5
	TokenString    // "..."
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenSemicolon // ;
	TokenEquals    // =
	TokenColon     // :
	TokenArrow     // ->
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenKeyword:
		return "keyword"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenSemicolon:
		return "';'"
	case TokenEquals:
		return "'='"
	case TokenColon:
		return "':'"
	case TokenArrow:
		return "'->'"
	}
	return "unknown"
}

// Pos is a source location within a script.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d:%d", p.Line, p.Col)
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Pos
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %v}", t.Type, t.Literal, t.Pos)
}

// keywords maps declaration keywords to themselves. SIMULATION is an
// accepted alias for SCENARIO.
var keywords = map[string]bool{
	"NODE":       true,
	"EDGE":       true,
	"CONTROL":    true,
	"SCENARIO":   true,
	"SIMULATION": true,
}
