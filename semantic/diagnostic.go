package semantic

import "fmt"

type DiagnosticKind = string

const (
	DuplicateDefinition  DiagnosticKind = "duplicate-definition"
	UndeclaredIdentifier DiagnosticKind = "undeclared-identifier"
)

// Diagnostic is a static error recorded by the analyzer. Recording one
// doesn't stop the analysis.
type Diagnostic struct {
	Kind     DiagnosticKind
	Name     string
	Scope    string
	FilePath string
	Row      int
	Col      int
}

func (d *Diagnostic) Error() string {
	pos := fmt.Sprintf("%d:%d", d.Row, d.Col)
	if d.FilePath != "" {
		pos = d.FilePath + ":" + pos
	}

	switch d.Kind {
	case DuplicateDefinition:
		return fmt.Sprintf("%s: %s has already been defined in scope %s", pos, d.Name, d.Scope)
	case UndeclaredIdentifier:
		return fmt.Sprintf("%s: %s has not been declared", pos, d.Name)
	}
	return fmt.Sprintf("%s: %s: %s", pos, d.Kind, d.Name)
}
