package lexer

import "fmt"

type TokenKind = string

const (

	// Keywords
	TokenProgram   TokenKind = "PROGRAM"
	TokenVar       TokenKind = "VAR"
	TokenProcedure TokenKind = "PROCEDURE"
	TokenBegin     TokenKind = "BEGIN"
	TokenEnd       TokenKind = "END"

	// Var Types
	TokenInteger TokenKind = "INTEGER"
	TokenReal    TokenKind = "REAL"

	// Units
	TokenBraceOpen  TokenKind = "("
	TokenBraceClose TokenKind = ")"
	TokenColon      TokenKind = ":"
	TokenSemi       TokenKind = ";"
	TokenComma      TokenKind = ","
	TokenDot        TokenKind = "."

	// Arithmetic Operators
	TokenPlus     TokenKind = "+"
	TokenMinus    TokenKind = "-"
	TokenMultiply TokenKind = "*"
	TokenSlash    TokenKind = "/"
	TokenDiv      TokenKind = "DIV"

	// Bind Operators
	TokenAssign TokenKind = ":="

	// Var Naming
	TokenIdentifier TokenKind = "identifier"

	// number literals
	TokenIntLiteral  TokenKind = "integer literal"
	TokenRealLiteral TokenKind = "real literal"

	// EOF
	TokenEOF TokenKind = "end of file"
)

type LiteralToken struct {
	Text string
	Kind TokenKind
}

type Token struct {
	LiteralToken
	// int64 for integer literals, float64 for real literals, the original
	// text for identifiers, nil otherwise
	Value any
	Row   int
	Col   int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return fmt.Sprintf("%d:%d %s", t.Row, t.Col, t.Kind)
	case TokenIdentifier, TokenIntLiteral, TokenRealLiteral:
		return fmt.Sprintf("%d:%d %s %q", t.Row, t.Col, t.Kind, t.Text)
	}
	return fmt.Sprintf("%d:%d %q", t.Row, t.Col, t.Text)
}

type Lexer struct {
	Content []rune
	// help mainly in error detection when having multi file execution
	FilePath string
	Row      int
	Col      int
	Cur      int
}
