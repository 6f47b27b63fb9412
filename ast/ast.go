package ast

import (
	"bytes"
	"strconv"
	"strings"

	"pascal/lexer"
)

type Node interface {
	TokenLiteral() string
	String() string
	GetToken() lexer.Token
}

type Declaration interface {
	Node
	declarationNode()
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Token lexer.Token // the token.PROGRAM token
	Name  string
	Block *Block
}

func (p *Program) TokenLiteral() string  { return p.Token.Text }
func (p *Program) GetToken() lexer.Token { return p.Token }
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("PROGRAM " + p.Name + ";\n")
	out.WriteString(p.Block.String())
	out.WriteString(".")
	return out.String()
}

type Block struct {
	Token        lexer.Token // first token of the block
	Declarations []Declaration
	Body         *Compound
}

func (b *Block) TokenLiteral() string  { return b.Token.Text }
func (b *Block) GetToken() lexer.Token { return b.Token }
func (b *Block) String() string {
	var out bytes.Buffer
	vars := false
	for _, decl := range b.Declarations {
		switch decl.(type) {
		case *VariableDeclaration:
			if !vars {
				out.WriteString("VAR\n")
				vars = true
			}
			out.WriteString("  " + decl.String() + ";\n")
		default:
			out.WriteString(decl.String() + ";\n")
		}
	}
	out.WriteString(b.Body.String())
	return out.String()
}

type VariableDeclaration struct {
	Token    lexer.Token // the identifier token
	Variable *Identifier
	Type     *TypeRef
}

func (vd *VariableDeclaration) declarationNode()      {}
func (vd *VariableDeclaration) TokenLiteral() string  { return vd.Token.Text }
func (vd *VariableDeclaration) GetToken() lexer.Token { return vd.Token }
func (vd *VariableDeclaration) String() string {
	return vd.Variable.String() + " : " + vd.Type.String()
}

// Param is one formal parameter of a procedure heading.
type Param struct {
	Variable *Identifier
	Type     *TypeRef
}

func (p *Param) String() string { return p.Variable.String() + " : " + p.Type.String() }

type ProcedureDeclaration struct {
	Token  lexer.Token // the token.PROCEDURE token
	Name   string
	Params []*Param
	Block  *Block
}

func (pd *ProcedureDeclaration) declarationNode()      {}
func (pd *ProcedureDeclaration) TokenLiteral() string  { return pd.Token.Text }
func (pd *ProcedureDeclaration) GetToken() lexer.Token { return pd.Token }
func (pd *ProcedureDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("PROCEDURE " + pd.Name)
	if len(pd.Params) > 0 {
		params := make([]string, 0, len(pd.Params))
		for _, p := range pd.Params {
			params = append(params, p.String())
		}
		out.WriteString("(" + strings.Join(params, "; ") + ")")
	}
	out.WriteString(";\n")
	out.WriteString(pd.Block.String())
	return out.String()
}

// TypeRef names one of the built-in types, INTEGER or REAL.
type TypeRef struct {
	Token lexer.Token
	Name  string
}

func (tr *TypeRef) TokenLiteral() string  { return tr.Token.Text }
func (tr *TypeRef) GetToken() lexer.Token { return tr.Token }
func (tr *TypeRef) String() string        { return tr.Name }

type Compound struct {
	Token    lexer.Token // the token.BEGIN token
	Children []Statement
}

func (c *Compound) statementNode()        {}
func (c *Compound) TokenLiteral() string  { return c.Token.Text }
func (c *Compound) GetToken() lexer.Token { return c.Token }
func (c *Compound) String() string {
	var out bytes.Buffer
	out.WriteString("BEGIN\n")
	for idx, child := range c.Children {
		out.WriteString(child.String())
		if idx+1 <= len(c.Children)-1 {
			out.WriteString(";")
		}
		out.WriteString("\n")
	}
	out.WriteString("END")
	return out.String()
}

type Assign struct {
	Token  lexer.Token // the token.ASSIGN token
	Target *Identifier
	Expr   Expression
}

func (a *Assign) statementNode()        {}
func (a *Assign) TokenLiteral() string  { return a.Token.Text }
func (a *Assign) GetToken() lexer.Token { return a.Token }
func (a *Assign) String() string {
	return a.Target.String() + " := " + a.Expr.String()
}

// NoOp is the empty statement, e.g. the one before END in "a := 1; END".
type NoOp struct {
	Token lexer.Token
}

func (n *NoOp) statementNode()        {}
func (n *NoOp) TokenLiteral() string  { return n.Token.Text }
func (n *NoOp) GetToken() lexer.Token { return n.Token }
func (n *NoOp) String() string        { return "" }

type Identifier struct {
	Token lexer.Token // the token.IDENT token
	Name  string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Text }
func (i *Identifier) GetToken() lexer.Token { return i.Token }
func (i *Identifier) String() string        { return i.Name }

type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	IntDiv
	RealDiv
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case IntDiv:
		return "DIV"
	case RealDiv:
		return "/"
	}
	return "Operator(" + strconv.Itoa(int(o)) + ")"
}

type BinaryOp struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator Operator
	Right    Expression
}

func (b *BinaryOp) expressionNode()       {}
func (b *BinaryOp) TokenLiteral() string  { return b.Token.Text }
func (b *BinaryOp) GetToken() lexer.Token { return b.Token }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}

type UnaryOperator int

const (
	Plus UnaryOperator = iota
	Minus
)

func (o UnaryOperator) String() string {
	if o == Minus {
		return "-"
	}
	return "+"
}

type UnaryOp struct {
	Token    lexer.Token // the operator token
	Operator UnaryOperator
	Operand  Expression
}

func (u *UnaryOp) expressionNode()       {}
func (u *UnaryOp) TokenLiteral() string  { return u.Token.Text }
func (u *UnaryOp) GetToken() lexer.Token { return u.Token }
func (u *UnaryOp) String() string {
	return "(" + u.Operator.String() + u.Operand.String() + ")"
}

// Number is the value carried by a NumberLiteral, exactly one of
// IntegerValue and RealValue.
type Number interface {
	number()
	String() string
}

type IntegerValue int64

func (IntegerValue) number()          {}
func (v IntegerValue) String() string { return strconv.FormatInt(int64(v), 10) }

type RealValue float64

func (RealValue) number() {}
func (v RealValue) String() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

type NumberLiteral struct {
	Token lexer.Token
	Value Number
}

func (n *NumberLiteral) expressionNode()       {}
func (n *NumberLiteral) TokenLiteral() string  { return n.Token.Text }
func (n *NumberLiteral) GetToken() lexer.Token { return n.Token }
func (n *NumberLiteral) String() string        { return n.Value.String() }
