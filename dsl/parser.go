package dsl

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parser is a recursive-descent consumer of the token sequence.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// Parse parses script source and returns the ordered declarative model.
// An input with no declarations parses to an empty script.
func Parse(input string) (*Script, error) {
	p := &Parser{lexer: NewLexer(input)}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p.parseScript()
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(string(data))
}

func (p *Parser) nextToken() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.cur = p.peek
	p.peek = tok
	return nil
}

func (p *Parser) expect(t TokenType) (Token, error) {
	if p.cur.Type != t {
		return Token{}, &ParseError{Pos: p.cur.Pos, Expected: t.String(), Found: describe(p.cur)}
	}
	tok := p.cur
	if err := p.nextToken(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *Parser) parseScript() (*Script, error) {
	script := &Script{}
	declared := map[string]map[string]Pos{
		"node":     {},
		"control":  {},
		"scenario": {},
	}

	for p.cur.Type != TokenEOF {
		if p.cur.Type == TokenSemicolon {
			if err := p.skipSeparators(); err != nil {
				return nil, err
			}
			continue
		}
		if p.cur.Type != TokenKeyword {
			return nil, &ParseError{
				Pos:      p.cur.Pos,
				Expected: "declaration keyword (NODE, EDGE, CONTROL, or SCENARIO)",
				Found:    describe(p.cur),
			}
		}

		var (
			decl Decl
			err  error
		)
		switch p.cur.Literal {
		case "NODE":
			decl, err = p.parseNode(declared["node"])
		case "EDGE":
			decl, err = p.parseEdge()
		case "CONTROL":
			decl, err = p.parseControl(declared["control"])
		case "SCENARIO", "SIMULATION":
			decl, err = p.parseScenario(declared["scenario"])
		}
		if err != nil {
			return nil, err
		}
		script.Decls = append(script.Decls, decl)
	}

	return script, nil
}

// checkDuplicate records a declared name, failing when the same kind
// already declared it.
func checkDuplicate(seen map[string]Pos, kind, name string, pos Pos) error {
	if prev, ok := seen[name]; ok {
		return &ParseError{
			Pos:  pos,
			Msg:  fmt.Sprintf("duplicate %s %q", kind, name),
			Prev: prev,
		}
	}
	seen[name] = pos
	return nil
}

func (p *Parser) parseNode(seen map[string]Pos) (*NodeDecl, error) {
	pos := p.cur.Pos
	if err := p.nextToken(); err != nil { // consume NODE
		return nil, err
	}

	id, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicate(seen, "node", id.Literal, id.Pos); err != nil {
		return nil, err
	}

	node := &NodeDecl{ID: id.Literal, Attrs: map[string]any{}, Pos: pos}

	// Attribute block is optional: `NODE api` alone is legal.
	if p.cur.Type != TokenLBrace {
		return node, nil
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	for p.cur.Type != TokenRBrace {
		key, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		node.Attrs[key.Literal] = val
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseEdge() (*EdgeDecl, error) {
	pos := p.cur.Pos
	if err := p.nextToken(); err != nil { // consume EDGE
		return nil, err
	}

	source, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}
	target, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	edge := &EdgeDecl{Source: source.Literal, Target: target.Literal, Kind: EdgeSoft, Pos: pos}

	if p.cur.Type == TokenColon {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		kind, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		switch kind.Literal {
		case "soft":
			edge.Kind = EdgeSoft
		case "hard":
			edge.Kind = EdgeHard
		default:
			return nil, &ParseError{Pos: kind.Pos, Msg: fmt.Sprintf("unknown edge kind %q (want soft or hard)", kind.Literal)}
		}
	}
	return edge, nil
}

func (p *Parser) parseControl(seen map[string]Pos) (*ControlDecl, error) {
	pos := p.cur.Pos
	if err := p.nextToken(); err != nil { // consume CONTROL
		return nil, err
	}

	id, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicate(seen, "control", id.Literal, id.Pos); err != nil {
		return nil, err
	}

	ctrl := &ControlDecl{ID: id.Literal, Cooldown: 1, Probe: 1.0, Pos: pos}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	for p.cur.Type != TokenRBrace {
		key, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals); err != nil {
			return nil, err
		}

		switch key.Literal {
		case "type":
			typ, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			if typ.Literal != "circuit_breaker" {
				return nil, &ParseError{Pos: typ.Pos, Msg: fmt.Sprintf("unknown control type %q", typ.Literal)}
			}
			ctrl.Type = typ.Literal
		case "guards":
			source, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenArrow); err != nil {
				return nil, err
			}
			target, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			ctrl.Guards = append(ctrl.Guards, EdgeRef{Source: source.Literal, Target: target.Literal, Pos: source.Pos})
		case "cooldown":
			n, err := p.parseTickCount()
			if err != nil {
				return nil, err
			}
			ctrl.Cooldown = n
		case "probe":
			f, err := p.parseProbability()
			if err != nil {
				return nil, err
			}
			ctrl.Probe = f
		case "trip_when":
			pred, err := p.expect(TokenString)
			if err != nil {
				return nil, err
			}
			ctrl.TripWhen = pred.Literal
		default:
			return nil, &ParseError{Pos: key.Pos, Msg: fmt.Sprintf("unknown control parameter %q", key.Literal)}
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	if ctrl.Type == "" {
		return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("control %q is missing a type", ctrl.ID)}
	}
	return ctrl, nil
}

func (p *Parser) parseScenario(seen map[string]Pos) (*ScenarioDecl, error) {
	pos := p.cur.Pos
	if err := p.nextToken(); err != nil { // consume SCENARIO / SIMULATION
		return nil, err
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicate(seen, "scenario", name.Literal, name.Pos); err != nil {
		return nil, err
	}

	sc := &ScenarioDecl{Name: name.Literal, Pos: pos}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	for p.cur.Type != TokenRBrace {
		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		sc.Steps = append(sc.Steps, step)
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return sc, nil
}

func (p *Parser) parseStep() (Step, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var step Step
	switch name.Literal {
	case "inject_failure":
		target, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
		prob, err := p.parseProbability()
		if err != nil {
			return nil, err
		}
		step = &InjectFailure{Target: target.Literal, Probability: prob, Pos: name.Pos}

	case "advance":
		n, err := p.parseTickCount()
		if err != nil {
			return nil, err
		}
		step = &AdvanceTick{Count: n, Pos: name.Pos}

	case "apply":
		ctrl, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		step = &ApplyControl{Control: ctrl.Literal, Pos: name.Pos}

	case "assert":
		pred, err := p.expect(TokenString)
		if err != nil {
			return nil, err
		}
		step = &AssertCondition{Predicate: pred.Literal, Pos: name.Pos}

	case "wait_until":
		pred, err := p.expect(TokenString)
		if err != nil {
			return nil, err
		}
		w := &WaitUntil{Predicate: pred.Literal, Pos: name.Pos}
		if p.cur.Type == TokenComma {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			n, err := p.parseTickCount()
			if err != nil {
				return nil, err
			}
			w.MaxTicks = n
		}
		step = w

	default:
		return nil, &ParseError{Pos: name.Pos, Msg: fmt.Sprintf("unknown step %q", name.Literal)}
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return step, nil
}

// parseValue parses a node attribute value: number, string, bool, or a
// bare identifier treated as a string.
func (p *Parser) parseValue() (any, error) {
	switch p.cur.Type {
	case TokenNumber:
		lit := p.cur
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if strings.Contains(lit.Literal, ".") {
			f, err := strconv.ParseFloat(lit.Literal, 64)
			if err != nil {
				return nil, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("malformed number %q", lit.Literal)}
			}
			return f, nil
		}
		n, err := strconv.ParseInt(lit.Literal, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("malformed number %q", lit.Literal)}
		}
		return n, nil

	case TokenString:
		s := p.cur.Literal
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return s, nil

	case TokenIdent:
		lit := p.cur.Literal
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		switch lit {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return lit, nil
	}
	return nil, &ParseError{Pos: p.cur.Pos, Expected: "attribute value", Found: describe(p.cur)}
}

// parseTickCount parses a non-negative integer literal.
func (p *Parser) parseTickCount() (int, error) {
	lit, err := p.expect(TokenNumber)
	if err != nil {
		return 0, err
	}
	if strings.Contains(lit.Literal, ".") {
		return 0, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("tick count must be an integer, got %q", lit.Literal)}
	}
	n, err := strconv.Atoi(lit.Literal)
	if err != nil {
		return 0, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("malformed tick count %q", lit.Literal)}
	}
	return n, nil
}

// parseProbability parses a real literal and validates it lies in [0,1].
func (p *Parser) parseProbability() (float64, error) {
	lit, err := p.expect(TokenNumber)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(lit.Literal, 64)
	if err != nil {
		return 0, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("malformed probability %q", lit.Literal)}
	}
	if f < 0 || f > 1 {
		return 0, &ParseError{Pos: lit.Pos, Msg: fmt.Sprintf("probability %s out of range [0,1]", lit.Literal)}
	}
	return f, nil
}

// skipSeparators consumes optional statement separators.
func (p *Parser) skipSeparators() error {
	for p.cur.Type == TokenSemicolon {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}
