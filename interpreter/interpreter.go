package interpreter

import (
	"errors"
	"fmt"
	"log/slog"

	"pascal/ast"
	"pascal/object"
)

type ErrorKind = string

const (
	UndefinedVariable ErrorKind = "undefined-variable"
	DuplicateBinding  ErrorKind = "duplicate-binding"
	DivisionByZero    ErrorKind = "division-by-zero"
	BadOperand        ErrorKind = "bad-operand"
	UnknownNode       ErrorKind = "unknown-node"
)

// RuntimeError aborts the evaluation of the program.
type RuntimeError struct {
	Kind ErrorKind
	Row  int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%d:%d: runtime error: %s", e.Row, e.Col, e.Msg)
}

func newError(kind ErrorKind, node ast.Node, format string, a ...any) *RuntimeError {
	tok := node.GetToken()
	return &RuntimeError{Kind: kind, Row: tok.Row, Col: tok.Col, Msg: fmt.Sprintf(format, a...)}
}

type Interpreter struct {
	env              *object.Environment
	singleAssignment bool
	logger           *slog.Logger
}

type Option func(*Interpreter)

// WithSingleAssignment makes the global store add-only, binding a name a
// second time is then a runtime error.
func WithSingleAssignment(enabled bool) Option {
	return func(i *Interpreter) { i.singleAssignment = enabled }
}

// WithLogger traces every binding at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		env:    object.NewEnvironment(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Globals exposes the global bindings produced so far.
func (i *Interpreter) Globals() *object.Environment {
	return i.env
}

// Interpret runs the program's main compound statement. A program has no
// value of its own so the result is nil on success.
func (i *Interpreter) Interpret(program *ast.Program) (object.Object, error) {
	return i.Eval(program)
}

func (i *Interpreter) Eval(node ast.Node) (object.Object, error) {
	switch nd := node.(type) {
	case *ast.Program:
		return i.Eval(nd.Block)

	case *ast.Block:
		for _, decl := range nd.Declarations {
			if _, err := i.Eval(decl); err != nil {
				return nil, err
			}
		}
		return i.Eval(nd.Body)

	case *ast.VariableDeclaration, *ast.ProcedureDeclaration, *ast.NoOp:
		// declarations were the analyzer's business, procedures are never called
		return nil, nil

	case *ast.Compound:
		for _, child := range nd.Children {
			if _, err := i.Eval(child); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case *ast.Assign:
		val, err := i.Eval(nd.Expr)
		if err != nil {
			return nil, err
		}
		return nil, i.bind(nd, val)

	case *ast.Identifier:
		if obj, ok := i.env.Resolve(nd.Name); ok {
			return obj, nil
		}
		return nil, newError(UndefinedVariable, nd, "no variable named %s", nd.Name)

	case *ast.NumberLiteral:
		switch v := nd.Value.(type) {
		case ast.IntegerValue:
			return &object.Integer{Value: int64(v)}, nil
		case ast.RealValue:
			return &object.Real{Value: float64(v)}, nil
		}
		return nil, newError(BadOperand, nd, "number literal without a value")

	case *ast.UnaryOp:
		operand, err := i.Eval(nd.Operand)
		if err != nil {
			return nil, err
		}
		return evalUnaryExpression(nd, operand)

	case *ast.BinaryOp:
		left, err := i.Eval(nd.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.Eval(nd.Right)
		if err != nil {
			return nil, err
		}
		return evalBinaryExpression(nd, left, right)
	}

	return nil, &RuntimeError{Kind: UnknownNode, Msg: fmt.Sprintf("can't evaluate %T", node)}
}

func (i *Interpreter) bind(node *ast.Assign, val object.Object) error {
	name := node.Target.Name
	if name == "" {
		return newError(BadOperand, node, "cannot have a variable with no name")
	}

	i.logger.Debug("bind", "name", name, "value", val.Inspect())

	if !i.singleAssignment {
		i.env.Set(name, val)
		return nil
	}

	if err := i.env.Define(name, val); err != nil {
		if errors.Is(err, object.ErrAlreadyBound) {
			return newError(DuplicateBinding, node.Target, "%s is already bound", name)
		}
		return err
	}
	return nil
}

// Unary + and - accept REAL operands as well as INTEGER, keeping the type.
func evalUnaryExpression(node *ast.UnaryOp, operand object.Object) (object.Object, error) {
	switch v := operand.(type) {
	case *object.Integer:
		if node.Operator == ast.Minus {
			return &object.Integer{Value: -v.Value}, nil
		}
		return v, nil
	case *object.Real:
		if node.Operator == ast.Minus {
			return &object.Real{Value: -v.Value}, nil
		}
		return v, nil
	}
	return nil, newError(BadOperand, node, "unary %s needs a numeric operand", node.Operator)
}

func evalBinaryExpression(node *ast.BinaryOp, left, right object.Object) (object.Object, error) {
	switch node.Operator {
	case ast.IntDiv:
		return evalIntegerDivision(node, left, right)
	case ast.RealDiv:
		return evalRealDivision(node, left, right)
	}

	lInt, lok := left.(*object.Integer)
	rInt, rok := right.(*object.Integer)
	if lok && rok {
		switch node.Operator {
		case ast.Add:
			return &object.Integer{Value: lInt.Value + rInt.Value}, nil
		case ast.Sub:
			return &object.Integer{Value: lInt.Value - rInt.Value}, nil
		case ast.Mul:
			return &object.Integer{Value: lInt.Value * rInt.Value}, nil
		}
		return nil, newError(BadOperand, node, "unknown operator %s", node.Operator)
	}

	l, lok := object.Float(left)
	r, rok := object.Float(right)
	if !lok || !rok {
		return nil, newError(BadOperand, node, "operator %s needs numeric operands", node.Operator)
	}

	switch node.Operator {
	case ast.Add:
		return &object.Real{Value: l + r}, nil
	case ast.Sub:
		return &object.Real{Value: l - r}, nil
	case ast.Mul:
		return &object.Real{Value: l * r}, nil
	}
	return nil, newError(BadOperand, node, "unknown operator %s", node.Operator)
}

// DIV is integer division, truncated toward zero.
func evalIntegerDivision(node *ast.BinaryOp, left, right object.Object) (object.Object, error) {
	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	if !lok || !rok {
		return nil, newError(BadOperand, node, "DIV needs INTEGER operands, got %s and %s", left.Type(), right.Type())
	}
	if r.Value == 0 {
		return nil, newError(DivisionByZero, node, "division by zero")
	}
	return &object.Integer{Value: l.Value / r.Value}, nil
}

// "/" always divides as REAL, whatever the operand types.
func evalRealDivision(node *ast.BinaryOp, left, right object.Object) (object.Object, error) {
	l, lok := object.Float(left)
	r, rok := object.Float(right)
	if !lok || !rok {
		return nil, newError(BadOperand, node, "/ needs numeric operands")
	}
	if r == 0 {
		return nil, newError(DivisionByZero, node, "division by zero")
	}
	return &object.Real{Value: l / r}, nil
}
