package semantic

import (
	"fmt"
	"log/slog"

	"pascal/ast"
	"pascal/internals"
	"pascal/lexer"
)

const GlobalScopeName = "global"

type Analyzer struct {
	collector *internals.ErrorCollector
	current   *Scope
	logger    *slog.Logger
	filename  string
}

type Option func(*Analyzer)

// WithLogger traces scope entry/exit, definitions and lookups at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAnalyzer(filename string, opts ...Option) *Analyzer {
	a := &Analyzer{
		collector: internals.NewErrorCollector(),
		logger:    slog.New(slog.DiscardHandler),
		filename:  filename,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result of one analysis pass. Scope is the root of the scope tree built
// while walking the program, kept around for dumps.
type Result struct {
	Success bool
	Errors  []*Diagnostic
	Scope   *Scope
}

func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	ec := internals.NewErrorCollector()
	for _, d := range r.Errors {
		ec.Add(d)
	}
	return ec.Err()
}

// Analyze walks the whole program once, every static error found is
// reported, not only the first one.
func (a *Analyzer) Analyze(program *ast.Program) *Result {
	a.collector = internals.NewErrorCollector()
	a.current = nil

	root := a.visitProgram(program)

	res := &Result{
		Success: a.collector.Empty(),
		Errors:  make([]*Diagnostic, 0, len(a.collector.Errors)),
		Scope:   root,
	}
	for _, err := range a.collector.Errors {
		res.Errors = append(res.Errors, err.(*Diagnostic))
	}
	return res
}

func (a *Analyzer) report(kind DiagnosticKind, name string, tok lexer.Token) {
	d := &Diagnostic{
		Kind:     kind,
		Name:     name,
		Scope:    a.current.Name,
		FilePath: a.filename,
		Row:      tok.Row,
		Col:      tok.Col,
	}
	a.logger.Debug("diagnostic", "kind", kind, "name", name, "scope", a.current.Name)
	a.collector.Add(d)
}

func (a *Analyzer) enterScope(name string) *Scope {
	scope := NewScope(name, a.current)
	a.logger.Debug("enter scope", "scope", name, "level", scope.Level)
	a.current = scope
	return scope
}

func (a *Analyzer) exitScope() {
	a.logger.Debug("exit scope", "scope", a.current.Name, "symbols", len(a.current.order))
	a.current = a.current.Parent
}

func (a *Analyzer) define(sym Symbol, tok lexer.Token) bool {
	if err := a.current.Define(sym); err != nil {
		a.report(DuplicateDefinition, sym.GetName(), tok)
		return false
	}
	a.logger.Debug("define", "symbol", sym.String(), "scope", a.current.Name)
	return true
}

func (a *Analyzer) visitProgram(program *ast.Program) *Scope {
	root := a.enterScope(GlobalScopeName)
	a.visitBlock(program.Block)
	a.exitScope()
	return root
}

func (a *Analyzer) visitBlock(block *ast.Block) {
	for _, decl := range block.Declarations {
		a.visit(decl)
	}
	a.visit(block.Body)
}

func (a *Analyzer) visit(node ast.Node) {
	switch nd := node.(type) {
	case *ast.VariableDeclaration:
		a.visitVarDCL(nd)

	case *ast.ProcedureDeclaration:
		a.visitProcedureDCL(nd)

	case *ast.Compound:
		for _, child := range nd.Children {
			a.visit(child)
		}

	case *ast.Assign:
		a.visit(nd.Target)
		a.visit(nd.Expr)

	case *ast.Identifier:
		a.logger.Debug("lookup", "name", nd.Name, "scope", a.current.Name)
		if _, ok := a.current.LookupVariable(nd.Name); !ok {
			a.report(UndeclaredIdentifier, nd.Name, nd.Token)
		}

	case *ast.BinaryOp:
		a.visit(nd.Left)
		a.visit(nd.Right)

	case *ast.UnaryOp:
		a.visit(nd.Operand)

	case *ast.NumberLiteral, *ast.NoOp:
		// leaves

	default:
		panic(fmt.Sprintf("semantic: unhandled node %T", node))
	}
}

func (a *Analyzer) resolveType(typ *ast.TypeRef) *TypeSymbol {
	sym, ok := a.current.LookupType(typ.Name)
	if !ok {
		a.report(UndeclaredIdentifier, typ.Name, typ.Token)
		return nil
	}
	return sym
}

func (a *Analyzer) visitVarDCL(node *ast.VariableDeclaration) {
	typ := a.resolveType(node.Type)

	name := node.Variable.Name
	// any kind of symbol counts, a variable can't reuse the name of a type
	// or procedure of the same scope
	if _, exists := a.current.Lookup(name, true); exists {
		a.report(DuplicateDefinition, name, node.Variable.Token)
		return
	}

	a.define(&VariableSymbol{Name: name, Type: typ}, node.Variable.Token)
}

func (a *Analyzer) visitProcedureDCL(node *ast.ProcedureDeclaration) {
	proc := &ProcedureSymbol{Name: node.Name}
	a.define(proc, node.Token)

	a.enterScope(node.Name)

	for _, param := range node.Params {
		typ := a.resolveType(param.Type)
		sym := &VariableSymbol{Name: param.Variable.Name, Type: typ}
		if a.define(sym, param.Variable.Token) {
			proc.Params = append(proc.Params, sym)
		}
	}

	a.visitBlock(node.Block)
	a.exitScope()
}
