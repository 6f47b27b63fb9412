package semantic

import (
	"testing"

	"github.com/go-test/deep"

	"pascal/ast"
	"pascal/lexer"
	"pascal/parser"
)

func analyze(t *testing.T, code string) *Result {
	t.Helper()
	program, err := parser.NewParser(lexer.NewLexer("", code), "").Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return NewAnalyzer("").Analyze(program)
}

type diag struct {
	Kind DiagnosticKind
	Name string
}

func summarize(res *Result) []diag {
	out := []diag{}
	for _, d := range res.Errors {
		out = append(out, diag{Kind: d.Kind, Name: d.Name})
	}
	return out
}

func TestAnalyzerDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []diag
	}{
		{
			name:     "valid program",
			input:    `PROGRAM P; VAR a, b : INTEGER; BEGIN a := 2; b := 10 * a + 10 * a DIV 4; END.`,
			expected: []diag{},
		},
		{
			name:     "undeclared assignment target",
			input:    `PROGRAM P; VAR a : INTEGER; BEGIN b := a + 1; END.`,
			expected: []diag{{UndeclaredIdentifier, "b"}},
		},
		{
			name:     "duplicate in same declaration",
			input:    `PROGRAM P; VAR a, a : INTEGER; BEGIN END.`,
			expected: []diag{{DuplicateDefinition, "a"}},
		},
		{
			name:  "errors are accumulated in source order",
			input: `PROGRAM P; VAR x : REAL; x : INTEGER; BEGIN y := z * x; BEGIN w := -q END END.`,
			expected: []diag{
				{DuplicateDefinition, "x"},
				{UndeclaredIdentifier, "y"},
				{UndeclaredIdentifier, "z"},
				{UndeclaredIdentifier, "w"},
				{UndeclaredIdentifier, "q"},
			},
		},
		{
			name:     "shadowing in a procedure is allowed",
			input:    `PROGRAM P; VAR x : INTEGER; PROCEDURE Q; VAR x : REAL; BEGIN x := 1.5 END; BEGIN x := 1 END.`,
			expected: []diag{},
		},
		{
			name:     "procedure locals are not visible outside",
			input:    `PROGRAM P; PROCEDURE Q; VAR k : INTEGER; BEGIN k := 1 END; BEGIN k := 2 END.`,
			expected: []diag{{UndeclaredIdentifier, "k"}},
		},
		{
			name:     "outer variables are visible inside procedures",
			input:    `PROGRAM P; VAR g : INTEGER; PROCEDURE Q; PROCEDURE R; BEGIN g := g + 1 END; BEGIN END; BEGIN END.`,
			expected: []diag{},
		},
		{
			name:     "procedure name is not a variable",
			input:    `PROGRAM P; PROCEDURE Q; BEGIN END; BEGIN Q := 1 END.`,
			expected: []diag{{UndeclaredIdentifier, "Q"}},
		},
		{
			name:     "variable named after its enclosing procedure",
			input:    `PROGRAM P; PROCEDURE Q; VAR Q : INTEGER; BEGIN END; BEGIN END.`,
			expected: []diag{},
		},
		{
			name:     "duplicate procedure",
			input:    `PROGRAM P; PROCEDURE Q; BEGIN END; PROCEDURE Q; BEGIN END; BEGIN END.`,
			expected: []diag{{DuplicateDefinition, "Q"}},
		},
		{
			name:     "parameters are procedure locals",
			input:    `PROGRAM P; PROCEDURE Q(a : INTEGER; b : REAL); VAR c : REAL; BEGIN c := a * b END; BEGIN a := 1 END.`,
			expected: []diag{{UndeclaredIdentifier, "a"}},
		},
		{
			name:     "local duplicating a parameter",
			input:    `PROGRAM P; PROCEDURE Q(a, a : INTEGER); VAR a : REAL; BEGIN END; BEGIN END.`,
			expected: []diag{{DuplicateDefinition, "a"}, {DuplicateDefinition, "a"}},
		},
		{
			name:     "identifiers are case sensitive",
			input:    `PROGRAM P; VAR Count : INTEGER; BEGIN count := 1 END.`,
			expected: []diag{{UndeclaredIdentifier, "count"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.input)
			if diff := deep.Equal(summarize(res), tt.expected); diff != nil {
				t.Error(diff)
			}
			if res.Success != (len(tt.expected) == 0) {
				t.Errorf("expected success=%v, got %v", len(tt.expected) == 0, res.Success)
			}
		})
	}
}

func TestDiagnosticPositions(t *testing.T) {
	res := analyze(t, "PROGRAM P;\nVAR a : INTEGER;\nBEGIN\n  b := a + 1\nEND.")
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(res.Errors))
	}
	d := res.Errors[0]
	if d.Row != 4 || d.Col != 3 {
		t.Errorf("expected diagnostic at 4:3, got %d:%d", d.Row, d.Col)
	}
	if d.Error() != "4:3: b has not been declared" {
		t.Errorf("unexpected message %q", d.Error())
	}
	if res.Err() == nil {
		t.Error("expected a joined error")
	}
}

func TestScopeTree(t *testing.T) {
	res := analyze(t, `
PROGRAM Part12;
VAR
   a : INTEGER;
PROCEDURE P1(x : REAL; k : INTEGER);
VAR
   y : REAL;
   PROCEDURE P2;
   VAR z : INTEGER;
   BEGIN z := 777 END;
BEGIN END;
BEGIN a := 10 END.`)

	if !res.Success {
		t.Fatalf("unexpected diagnostics: %v", res.Err())
	}

	expected := `Scope: 0-global
    Type: INTEGER
    Type: REAL
    Variable: a : INTEGER
    Procedure: P1(x : REAL; k : INTEGER)
    Scope: 1-P1
        Variable: x : REAL
        Variable: k : INTEGER
        Variable: y : REAL
        Procedure: P2
        Scope: 2-P2
            Variable: z : INTEGER
`
	if got := res.Scope.String(); got != expected {
		t.Errorf("unexpected scope dump:\n%s", got)
	}
}

func TestAnalyzerIsReusable(t *testing.T) {
	program, err := parser.NewParser(lexer.NewLexer("", `PROGRAM P; VAR a, a : INTEGER; BEGIN END.`), "").Parse()
	if err != nil {
		t.Fatal(err)
	}
	a := NewAnalyzer("")
	first := a.Analyze(program)
	second := a.Analyze(program)
	if diff := deep.Equal(summarize(first), summarize(second)); diff != nil {
		t.Error(diff)
	}
}

func TestUnknownTypeIsReported(t *testing.T) {
	// the grammar only produces INTEGER and REAL, build the node by hand
	program := &ast.Program{
		Name: "P",
		Block: &ast.Block{
			Declarations: []ast.Declaration{
				&ast.VariableDeclaration{
					Variable: &ast.Identifier{Name: "s"},
					Type:     &ast.TypeRef{Name: "STRING"},
				},
			},
			Body: &ast.Compound{Children: []ast.Statement{&ast.NoOp{}}},
		},
	}

	res := NewAnalyzer("").Analyze(program)
	if diff := deep.Equal(summarize(res), []diag{{UndeclaredIdentifier, "STRING"}}); diff != nil {
		t.Error(diff)
	}
	v, ok := res.Scope.LookupVariable("s")
	if !ok || v.Type != nil {
		t.Errorf("expected s to be defined without a type, got %v", v)
	}
}
