package lexer

// Keywords are matched against the upper-cased identifier text.
var Keywords = map[string]TokenKind{
	"PROGRAM":   TokenProgram,
	"VAR":       TokenVar,
	"PROCEDURE": TokenProcedure,
	"BEGIN":     TokenBegin,
	"END":       TokenEnd,
	"INTEGER":   TokenInteger,
	"REAL":      TokenReal,
	"DIV":       TokenDiv,
}

var singleChars = map[rune]TokenKind{
	'(': TokenBraceOpen,
	')': TokenBraceClose,
	';': TokenSemi,
	',': TokenComma,
	'.': TokenDot,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMultiply,
	'/': TokenSlash,
}
