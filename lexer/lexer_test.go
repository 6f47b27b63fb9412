package lexer

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func kinds(tokens []Token) []TokenKind {
	res := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		res = append(res, tok.Kind)
	}
	return res
}

func TestTokenizeProgram(t *testing.T) {
	code := `PROGRAM Part10; VAR a, b : INTEGER; y : REAL;
BEGIN {comment} a := 2; y := 20 / 7 + 3.14; b := a DIV 4 * (-1) END.`

	expected := []TokenKind{
		TokenProgram, TokenIdentifier, TokenSemi,
		TokenVar, TokenIdentifier, TokenComma, TokenIdentifier, TokenColon, TokenInteger, TokenSemi,
		TokenIdentifier, TokenColon, TokenReal, TokenSemi,
		TokenBegin,
		TokenIdentifier, TokenAssign, TokenIntLiteral, TokenSemi,
		TokenIdentifier, TokenAssign, TokenIntLiteral, TokenSlash, TokenIntLiteral, TokenPlus, TokenRealLiteral, TokenSemi,
		TokenIdentifier, TokenAssign, TokenIdentifier, TokenDiv, TokenIntLiteral, TokenMultiply,
		TokenBraceOpen, TokenMinus, TokenIntLiteral, TokenBraceClose,
		TokenEnd, TokenDot, TokenEOF,
	}

	tokens, err := NewLexer("", code).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := deep.Equal(kinds(tokens), expected); diff != nil {
		t.Error(diff)
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	tokens, err := NewLexer("", "begin Begin BEGIN div Alpha").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Token{
		{LiteralToken: LiteralToken{Kind: TokenBegin, Text: "begin"}, Row: 1, Col: 1},
		{LiteralToken: LiteralToken{Kind: TokenBegin, Text: "Begin"}, Row: 1, Col: 7},
		{LiteralToken: LiteralToken{Kind: TokenBegin, Text: "BEGIN"}, Row: 1, Col: 13},
		{LiteralToken: LiteralToken{Kind: TokenDiv, Text: "div"}, Row: 1, Col: 19},
		{LiteralToken: LiteralToken{Kind: TokenIdentifier, Text: "Alpha"}, Value: "Alpha", Row: 1, Col: 23},
		{LiteralToken: LiteralToken{Kind: TokenEOF, Text: ""}, Row: 1, Col: 28},
	}

	if diff := deep.Equal(tokens, expected); diff != nil {
		t.Error(diff)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		value any
	}{
		{"42", TokenIntLiteral, int64(42)},
		{"3.14", TokenRealLiteral, 3.14},
		{"7.", TokenRealLiteral, 7.0},
		{"0", TokenIntLiteral, int64(0)},
	}

	for _, tt := range tests {
		tok, err := NewLexer("", tt.input).NextToken()
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if tok.Kind != tt.kind {
			t.Errorf("%q: expected kind %s, got %s", tt.input, tt.kind, tok.Kind)
		}
		if diff := deep.Equal(tok.Value, tt.value); diff != nil {
			t.Errorf("%q: %v", tt.input, diff)
		}
	}
}

func TestAssignAndColon(t *testing.T) {
	tokens, err := NewLexer("", "a:=b : c").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []TokenKind{TokenIdentifier, TokenAssign, TokenIdentifier, TokenColon, TokenIdentifier, TokenEOF}
	if diff := deep.Equal(kinds(tokens), expected); diff != nil {
		t.Error(diff)
	}
}

func TestEOFRepeats(t *testing.T) {
	l := NewLexer("", "x")
	if _, err := l.NextToken(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok.Kind)
		}
	}
}

func TestPositionsAcrossLines(t *testing.T) {
	tokens, err := NewLexer("", "a\n  { two\nlines }  b").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens[1].Row != 3 || tokens[1].Col != 10 {
		t.Errorf("expected b at 3:10, got %d:%d", tokens[1].Row, tokens[1].Col)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		row   int
		col   int
	}{
		{"a := 1 { never closed", 1, 8},
		{"a := 1 ? 2", 1, 8},
		{"x := 99999999999999999999", 1, 6},
	}

	for _, tt := range tests {
		_, err := NewLexer("", tt.input).Tokenize()
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: expected LexError, got %v", tt.input, err)
			continue
		}
		if lexErr.Row != tt.row || lexErr.Col != tt.col {
			t.Errorf("%q: expected error at %d:%d, got %d:%d", tt.input, tt.row, tt.col, lexErr.Row, lexErr.Col)
		}
	}
}
