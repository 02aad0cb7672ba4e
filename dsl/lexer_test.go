package dsl

import (
	"errors"
	"testing"
)

func TestLexer_BasicTokens(t *testing.T) {
	input := `NODE api { critical = true }`
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenKeyword, "NODE"},
		{TokenIdent, "api"},
		{TokenLBrace, "{"},
		{TokenIdent, "critical"},
		{TokenEquals, "="},
		{TokenIdent, "true"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, e := range expected {
		if tokens[i].Type != e.typ {
			t.Errorf("token %d: expected type %v, got %v", i, e.typ, tokens[i].Type)
		}
		if tokens[i].Literal != e.lit {
			t.Errorf("token %d: expected literal %q, got %q", i, e.lit, tokens[i].Literal)
		}
	}
}

func TestLexer_Positions(t *testing.T) {
	input := "NODE api\nEDGE api -> db"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if tokens[0].Pos != (Pos{Line: 1, Col: 1}) {
		t.Errorf("NODE: expected line 1:1, got %v", tokens[0].Pos)
	}
	if tokens[1].Pos != (Pos{Line: 1, Col: 6}) {
		t.Errorf("api: expected line 1:6, got %v", tokens[1].Pos)
	}
	if tokens[2].Pos != (Pos{Line: 2, Col: 1}) {
		t.Errorf("EDGE: expected line 2:1, got %v", tokens[2].Pos)
	}
	if tokens[4].Type != TokenArrow {
		t.Errorf("expected arrow, got %v", tokens[4].Type)
	}
	if tokens[4].Pos != (Pos{Line: 2, Col: 10}) {
		t.Errorf("arrow: expected line 2:10, got %v", tokens[4].Pos)
	}
}

func TestLexer_Comments(t *testing.T) {
	input := "# a whole-line comment\nNODE api # trailing\nNODE db"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if tokens[0].Type != TokenKeyword || tokens[0].Pos.Line != 2 {
		t.Errorf("expected NODE at line 2, got %v", tokens[0])
	}
	if tokens[2].Literal != "NODE" || tokens[2].Pos.Line != 3 {
		t.Errorf("expected NODE at line 3, got %v", tokens[2])
	}
}

func TestLexer_Numbers(t *testing.T) {
	tokens, err := Tokenize(`3 0.5 1.0`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	for i, want := range []string{"3", "0.5", "1.0"} {
		if tokens[i].Type != TokenNumber {
			t.Errorf("token %d: expected number, got %v", i, tokens[i].Type)
		}
		if tokens[i].Literal != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Literal)
		}
	}
}

func TestLexer_Strings(t *testing.T) {
	tokens, err := Tokenize(`"failed('db')" "a\nb"`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if tokens[0].Literal != "failed('db')" {
		t.Errorf("expected escaped content, got %q", tokens[0].Literal)
	}
	if tokens[1].Literal != "a\nb" {
		t.Errorf("expected escape handling, got %q", tokens[1].Literal)
	}
}

func TestLexer_SimulationKeyword(t *testing.T) {
	tokens, err := Tokenize(`SIMULATION drill`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if tokens[0].Type != TokenKeyword || tokens[0].Literal != "SIMULATION" {
		t.Errorf("expected SIMULATION keyword, got %v", tokens[0])
	}
}

func TestLexer_UnknownCharacter(t *testing.T) {
	_, err := Tokenize("NODE api\nNODE @db")
	if err == nil {
		t.Fatal("expected lex error")
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if lexErr.Pos.Line != 2 || lexErr.Pos.Col != 6 {
		t.Errorf("expected error at line 2:6, got %v", lexErr.Pos)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`assert("tick > 1`)
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %v", err)
	}
}

func TestLexer_BareDash(t *testing.T) {
	_, err := Tokenize(`a - b`)
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError for bare '-', got %v", err)
	}
}
