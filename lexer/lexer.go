package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// LexError is returned for any character sequence the scanner can't turn
// into a token. It is terminal for the input being scanned.
type LexError struct {
	FilePath string
	Row      int
	Col      int
	Char     rune
	Msg      string
}

func (e *LexError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s:%d:%d: lexical error: %s", e.FilePath, e.Row, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: lexical error: %s", e.Row, e.Col, e.Msg)
}

func NewLexer(filePath string, content string) *Lexer {
	lexer := Lexer{
		Content:  []rune(content),
		FilePath: filePath,
		Row:      1,
		Col:      1,
		Cur:      0,
	}
	return &lexer
}

// current char under the cursor, 0 once the content is exhausted
func (l *Lexer) char() rune {
	if l.Cur >= len(l.Content) {
		return 0
	}
	return l.Content[l.Cur]
}

func (l *Lexer) readChar() {
	if l.Cur >= len(l.Content) {
		return
	}

	switch l.Content[l.Cur] {
	case '\n':
		l.Row++
		l.Col = 1
	default:
		l.Col++
	}

	// increment to deal with the next char
	l.Cur++
}

func (l *Lexer) errorf(row, col int, char rune, format string, args ...any) *LexError {
	return &LexError{
		FilePath: l.FilePath,
		Row:      row,
		Col:      col,
		Char:     char,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// NextToken returns the next token of the stream. Once the end of the
// content is reached every call returns a TokenEOF token.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhiteSpace()
		if l.char() != '{' {
			break
		}
		if err := l.skipComment(); err != nil {
			return Token{}, err
		}
	}

	token := Token{
		Row: l.Row,
		Col: l.Col,
	}

	if l.Cur >= len(l.Content) {
		token.LiteralToken = LiteralToken{
			Kind: TokenEOF,
			Text: "",
		}
		return token, nil
	}

	char := l.char()

	switch {
	case isLetter(char):
		return l.readIdentifier(), nil
	case isDigit(char):
		return l.readNumber()
	case char == ':':
		l.readChar()
		if l.char() == '=' {
			l.readChar()
			token.LiteralToken = LiteralToken{
				Kind: TokenAssign,
				Text: ":=",
			}
		} else {
			token.LiteralToken = LiteralToken{
				Kind: TokenColon,
				Text: ":",
			}
		}
		return token, nil
	}

	kind, ok := singleChars[char]
	if !ok {
		return Token{}, l.errorf(l.Row, l.Col, char, "unexpected character %q", char)
	}
	l.readChar()
	token.LiteralToken = LiteralToken{
		Kind: kind,
		Text: string(char),
	}
	return token, nil
}

// Tokenize drains the lexer, the returned slice always ends with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens, nil
}

func isLetter(char rune) bool {
	return unicode.IsLetter(char)
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func (l *Lexer) readIdentifier() Token {
	startPos := l.Cur

	// save them to return
	row := l.Row
	col := l.Col

	for l.Cur < len(l.Content) {
		char := l.Content[l.Cur]
		if isLetter(char) || isDigit(char) {
			l.readChar()
		} else {
			break
		}
	}

	text := string(l.Content[startPos:l.Cur])

	if tokenKind, isKeyword := Keywords[strings.ToUpper(text)]; isKeyword {
		return Token{LiteralToken: LiteralToken{
			Kind: tokenKind,
			Text: text,
		}, Row: row, Col: col}
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenIdentifier,
			Text: text,
		},
		Value: text,
		Row:   row,
		Col:   col,
	}
}

func (l *Lexer) readNumber() (Token, error) {
	startPos := l.Cur
	row := l.Row
	col := l.Col

	// Read integer part
	for isDigit(l.char()) {
		l.readChar()
	}

	if l.char() == '.' {
		l.readChar() // consume '.'

		// Read fractional part
		for isDigit(l.char()) {
			l.readChar()
		}

		text := string(l.Content[startPos:l.Cur])
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, l.errorf(row, col, l.Content[startPos], "invalid real literal %q", text)
		}
		return Token{
			LiteralToken: LiteralToken{
				Kind: TokenRealLiteral,
				Text: text,
			},
			Value: value,
			Row:   row,
			Col:   col,
		}, nil
	}

	text := string(l.Content[startPos:l.Cur])
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, l.errorf(row, col, l.Content[startPos], "integer literal %s out of range", text)
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenIntLiteral,
			Text: text,
		},
		Value: value,
		Row:   row,
		Col:   col,
	}, nil
}

// skips a { ... } comment, the cursor must sit on the opening brace.
// comments don't nest.
func (l *Lexer) skipComment() error {
	row, col := l.Row, l.Col
	l.readChar() // consume '{'
	for l.Cur < len(l.Content) && l.Content[l.Cur] != '}' {
		l.readChar()
	}
	if l.Cur >= len(l.Content) {
		return l.errorf(row, col, '{', "unterminated comment")
	}
	l.readChar() // consume '}'
	return nil
}

func (l *Lexer) skipWhiteSpace() {
	for l.Cur < len(l.Content) && unicode.IsSpace(l.Content[l.Cur]) {
		l.readChar()
	}
}
