package semantic

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAlreadyDefined = errors.New("symbol already defined in scope")

type Symbol interface {
	GetName() string
	String() string
	symbol()
}

type TypeSymbol struct {
	Name string
}

func (ts *TypeSymbol) symbol()         {}
func (ts *TypeSymbol) GetName() string { return ts.Name }
func (ts *TypeSymbol) String() string  { return "Type: " + ts.Name }

type VariableSymbol struct {
	Name string
	Type *TypeSymbol
}

func (vs *VariableSymbol) symbol()         {}
func (vs *VariableSymbol) GetName() string { return vs.Name }
func (vs *VariableSymbol) String() string {
	return "Variable: " + vs.Name + " : " + vs.typeName()
}

func (vs *VariableSymbol) typeName() string {
	if vs.Type == nil {
		return "?"
	}
	return vs.Type.Name
}

type ProcedureSymbol struct {
	Name   string
	Params []*VariableSymbol
}

func (ps *ProcedureSymbol) symbol()         {}
func (ps *ProcedureSymbol) GetName() string { return ps.Name }
func (ps *ProcedureSymbol) String() string {
	if len(ps.Params) == 0 {
		return "Procedure: " + ps.Name
	}
	params := make([]string, 0, len(ps.Params))
	for _, p := range ps.Params {
		params = append(params, p.Name+" : "+p.typeName())
	}
	return "Procedure: " + ps.Name + "(" + strings.Join(params, "; ") + ")"
}

// Scope is one lexical level of the symbol table. Entries keep their
// definition order, names are unique within a scope.
type Scope struct {
	Name     string
	Level    int
	Parent   *Scope
	Children []*Scope

	order   []string
	symbols map[string]Symbol
}

// NewScope creates a scope nested in parent. A nil parent creates the root
// scope, which comes with the built-in INTEGER and REAL types.
func NewScope(name string, parent *Scope) *Scope {
	s := &Scope{
		Name:    name,
		Parent:  parent,
		symbols: make(map[string]Symbol),
	}

	if parent == nil {
		s.Define(&TypeSymbol{Name: "INTEGER"})
		s.Define(&TypeSymbol{Name: "REAL"})
		return s
	}

	s.Level = parent.Level + 1
	parent.Children = append(parent.Children, s)
	return s
}

// define a new symbol in the current scope
func (s *Scope) Define(sym Symbol) error {
	name := sym.GetName()
	if _, ok := s.symbols[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyDefined, name)
	}
	s.order = append(s.order, name)
	s.symbols[name] = sym
	return nil
}

// Lookup searches the scope chain outward, or only this scope when
// localOnly is set.
func (s *Scope) Lookup(name string, localOnly bool) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
		if localOnly {
			break
		}
	}
	return nil, false
}

// LookupVariable resolves name through the chain. The nearest symbol with
// that name decides, so a procedure or type shadowing an outer variable
// makes the lookup fail.
func (s *Scope) LookupVariable(name string) (*VariableSymbol, bool) {
	sym, ok := s.Lookup(name, false)
	if !ok {
		return nil, false
	}
	v, ok := sym.(*VariableSymbol)
	return v, ok
}

func (s *Scope) LookupType(name string) (*TypeSymbol, bool) {
	sym, ok := s.Lookup(name, false)
	if !ok {
		return nil, false
	}
	t, ok := sym.(*TypeSymbol)
	return t, ok
}

// Symbols returns the scope's own entries in definition order.
func (s *Scope) Symbols() []Symbol {
	res := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		res = append(res, s.symbols[name])
	}
	return res
}

func (s *Scope) String() string {
	var out strings.Builder
	s.dump(&out, 0)
	return out.String()
}

func (s *Scope) dump(out *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	fmt.Fprintf(out, "%sScope: %d-%s\n", indent, s.Level, s.Name)
	for _, sym := range s.Symbols() {
		out.WriteString(indent + "    " + sym.String() + "\n")
	}
	for _, child := range s.Children {
		child.dump(out, depth+1)
	}
}
