package parser

import (
	"fmt"
	"strings"

	"pascal/ast"
	"pascal/lexer"
)

// SyntaxError reports the first token the grammar couldn't accept.
// Parsing stops at the first one, there is no recovery.
type SyntaxError struct {
	FilePath string
	Expected []lexer.TokenKind
	Got      lexer.Token
	Msg      string
}

func (e *SyntaxError) Error() string {
	var out strings.Builder
	if e.FilePath != "" {
		out.WriteString(e.FilePath + ":")
	}
	fmt.Fprintf(&out, "%d:%d: syntax error: ", e.Got.Row, e.Got.Col)
	if e.Msg != "" {
		out.WriteString(e.Msg)
		return out.String()
	}
	fmt.Fprintf(&out, "expected %s, got %s", strings.Join(e.Expected, " or "), describe(e.Got))
	return out.String()
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokenEOF:
		return tok.Kind
	case lexer.TokenIdentifier, lexer.TokenIntLiteral, lexer.TokenRealLiteral:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}

var (
	additiveOps = map[lexer.TokenKind]ast.Operator{
		lexer.TokenPlus:  ast.Add,
		lexer.TokenMinus: ast.Sub,
	}

	multiplicativeOps = map[lexer.TokenKind]ast.Operator{
		lexer.TokenMultiply: ast.Mul,
		lexer.TokenSlash:    ast.RealDiv,
		lexer.TokenDiv:      ast.IntDiv,
	}

	unaryOps = map[lexer.TokenKind]ast.UnaryOperator{
		lexer.TokenPlus:  ast.Plus,
		lexer.TokenMinus: ast.Minus,
	}
)

type Parser struct {
	lexer    *lexer.Lexer
	FilePath string

	curToken lexer.Token
	primed   bool
}

func NewParser(lex *lexer.Lexer, filepath string) *Parser {
	return &Parser{
		lexer:    lex,
		FilePath: filepath,
	}
}

func (p *Parser) nextToken() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.curToken = tok
	return nil
}

func (p *Parser) curTokenKindIs(kind lexer.TokenKind) bool {
	return p.curToken.Kind == kind
}

// eat checks the current token kind and moves to the next one.
func (p *Parser) eat(kind lexer.TokenKind) (lexer.Token, error) {
	tok := p.curToken
	if tok.Kind != kind {
		return tok, p.expected(kind)
	}
	return tok, p.nextToken()
}

func (p *Parser) expected(kinds ...lexer.TokenKind) error {
	return &SyntaxError{
		FilePath: p.FilePath,
		Expected: kinds,
		Got:      p.curToken,
	}
}

func (p *Parser) error(msg ...any) error {
	return &SyntaxError{
		FilePath: p.FilePath,
		Got:      p.curToken,
		Msg:      fmt.Sprint(msg...),
	}
}

// Parse consumes the entire token stream and returns the program node.
func (p *Parser) Parse() (*ast.Program, error) {
	if !p.primed {
		p.primed = true
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	if !p.curTokenKindIs(lexer.TokenEOF) {
		return nil, p.error("unexpected ", describe(p.curToken), " after end of program")
	}

	return program, nil
}

// program := "PROGRAM" IDENT ";" block "."
func (p *Parser) parseProgram() (*ast.Program, error) {
	tok, err := p.eat(lexer.TokenProgram)
	if err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(lexer.TokenSemi); err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(lexer.TokenDot); err != nil {
		return nil, err
	}

	return &ast.Program{Token: tok, Name: name.Name, Block: block}, nil
}

// block := declarations compound_statement
func (p *Parser) parseBlock() (*ast.Block, error) {
	block := &ast.Block{Token: p.curToken}

	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	block.Declarations = decls

	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	block.Body = body

	return block, nil
}

// declarations := ("VAR" (var_decl ";")+)? (procedure_decl ";")*
func (p *Parser) parseDeclarations() ([]ast.Declaration, error) {
	decls := []ast.Declaration{}

	if p.curTokenKindIs(lexer.TokenVar) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}

		// at least one declaration has to follow VAR
		if !p.curTokenKindIs(lexer.TokenIdentifier) {
			return nil, p.expected(lexer.TokenIdentifier)
		}

		for p.curTokenKindIs(lexer.TokenIdentifier) {
			vars, err := p.parseVarDeclaration()
			if err != nil {
				return nil, err
			}
			for _, v := range vars {
				decls = append(decls, v)
			}

			if _, err := p.eat(lexer.TokenSemi); err != nil {
				return nil, err
			}
		}
	}

	for p.curTokenKindIs(lexer.TokenProcedure) {
		proc, err := p.parseProcedureDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, proc)

		if _, err := p.eat(lexer.TokenSemi); err != nil {
			return nil, err
		}
	}

	return decls, nil
}

// var_decl := IDENT ("," IDENT)* ":" type_spec
func (p *Parser) parseVarDeclaration() ([]*ast.VariableDeclaration, error) {
	idents, typ, err := p.parseIdentGroup()
	if err != nil {
		return nil, err
	}

	decls := make([]*ast.VariableDeclaration, 0, len(idents))
	for _, ident := range idents {
		decls = append(decls, &ast.VariableDeclaration{
			Token:    ident.Token,
			Variable: ident,
			Type:     typ,
		})
	}
	return decls, nil
}

// IDENT ("," IDENT)* ":" type_spec, shared by variable declarations and
// formal parameter groups
func (p *Parser) parseIdentGroup() ([]*ast.Identifier, *ast.TypeRef, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, nil, err
	}
	idents := []*ast.Identifier{first}

	for p.curTokenKindIs(lexer.TokenComma) {
		if err := p.nextToken(); err != nil {
			return nil, nil, err
		}
		ident, err := p.parseIdentifier()
		if err != nil {
			return nil, nil, err
		}
		idents = append(idents, ident)
	}

	if _, err := p.eat(lexer.TokenColon); err != nil {
		return nil, nil, err
	}

	typ, err := p.parseTypeSpec()
	if err != nil {
		return nil, nil, err
	}

	return idents, typ, nil
}

// type_spec := "INTEGER" | "REAL"
func (p *Parser) parseTypeSpec() (*ast.TypeRef, error) {
	tok := p.curToken
	switch tok.Kind {
	case lexer.TokenInteger, lexer.TokenReal:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.TypeRef{Token: tok, Name: tok.Kind}, nil
	default:
		return nil, p.expected(lexer.TokenInteger, lexer.TokenReal)
	}
}

// procedure_decl := "PROCEDURE" IDENT ( "(" formal_list ")" )? ";" block
func (p *Parser) parseProcedureDeclaration() (*ast.ProcedureDeclaration, error) {
	tok, err := p.eat(lexer.TokenProcedure)
	if err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	proc := &ast.ProcedureDeclaration{Token: tok, Name: name.Name, Params: []*ast.Param{}}

	if p.curTokenKindIs(lexer.TokenBraceOpen) {
		params, err := p.parseFormalParameters()
		if err != nil {
			return nil, err
		}
		proc.Params = params
	}

	if _, err := p.eat(lexer.TokenSemi); err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	proc.Block = block

	return proc, nil
}

// "(" formal_group (";" formal_group)* ")"
func (p *Parser) parseFormalParameters() ([]*ast.Param, error) {
	if _, err := p.eat(lexer.TokenBraceOpen); err != nil {
		return nil, err
	}

	params := []*ast.Param{}
	for {
		idents, typ, err := p.parseIdentGroup()
		if err != nil {
			return nil, err
		}
		for _, ident := range idents {
			params = append(params, &ast.Param{Variable: ident, Type: typ})
		}

		if !p.curTokenKindIs(lexer.TokenSemi) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(lexer.TokenBraceClose); err != nil {
		return nil, err
	}
	return params, nil
}

// compound := "BEGIN" statement_list "END"
func (p *Parser) parseCompound() (*ast.Compound, error) {
	tok, err := p.eat(lexer.TokenBegin)
	if err != nil {
		return nil, err
	}

	children, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(lexer.TokenEnd); err != nil {
		return nil, err
	}

	return &ast.Compound{Token: tok, Children: children}, nil
}

// statement_list := statement (";" statement)*
func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{stmt}

	for p.curTokenKindIs(lexer.TokenSemi) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	// a statement that wasn't separated by ";"
	if p.curTokenKindIs(lexer.TokenIdentifier) {
		return nil, p.error("missing ; before ", describe(p.curToken))
	}

	return stmts, nil
}

// statement := compound | assignment | empty
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Kind {
	case lexer.TokenBegin:
		return p.parseCompound()
	case lexer.TokenIdentifier:
		return p.parseAssignment()
	default:
		return &ast.NoOp{Token: p.curToken}, nil
	}
}

// assignment := IDENT ":=" expr
func (p *Parser) parseAssignment() (*ast.Assign, error) {
	target, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	tok, err := p.eat(lexer.TokenAssign)
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Token: tok, Target: target, Expr: expr}, nil
}

// expr := term (("+"|"-") term)*
func (p *Parser) parseExpression() (ast.Expression, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := additiveOps[p.curToken.Kind]
		if !ok {
			return node, nil
		}
		tok := p.curToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryOp{Token: tok, Left: node, Operator: op, Right: right}
	}
}

// term := factor (("*"|"/"|"DIV") factor)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := multiplicativeOps[p.curToken.Kind]
		if !ok {
			return node, nil
		}
		tok := p.curToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryOp{Token: tok, Left: node, Operator: op, Right: right}
	}
}

// factor := ("+"|"-") factor | INT_LIT | REAL_LIT | "(" expr ")" | IDENT
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.curToken

	if op, ok := unaryOps[tok.Kind]; ok {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Token: tok, Operator: op, Operand: operand}, nil
	}

	switch tok.Kind {
	case lexer.TokenIntLiteral:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.NumberLiteral{Token: tok, Value: ast.IntegerValue(tok.Value.(int64))}, nil
	case lexer.TokenRealLiteral:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.NumberLiteral{Token: tok, Value: ast.RealValue(tok.Value.(float64))}, nil
	case lexer.TokenBraceOpen:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.TokenBraceClose); err != nil {
			return nil, err
		}
		return node, nil
	case lexer.TokenIdentifier:
		return p.parseIdentifier()
	default:
		return nil, p.expected(lexer.TokenIntLiteral, lexer.TokenRealLiteral, lexer.TokenBraceOpen, lexer.TokenIdentifier, lexer.TokenPlus, lexer.TokenMinus)
	}
}

func (p *Parser) parseIdentifier() (*ast.Identifier, error) {
	tok, err := p.eat(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Token: tok, Name: tok.Text}, nil
}
