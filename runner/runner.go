// Package runner drives one source text through the whole pipeline:
// lexer, parser, semantic analysis and interpretation. Every call builds
// fresh instances so nothing leaks between runs.
package runner

import (
	"fmt"
	"log/slog"
	"strings"

	"pascal/ast"
	"pascal/interpreter"
	"pascal/lexer"
	"pascal/object"
	"pascal/parser"
	"pascal/semantic"
)

type Options struct {
	FilePath         string
	SingleAssignment bool
	Logger           *slog.Logger
}

type Result struct {
	Program  *ast.Program
	Analysis *semantic.Result
	Globals  *object.Environment
	// always nil for a program, kept for callers that display it
	Value object.Object
}

// AnalysisError is returned when the program parsed but failed the static
// checks. The program is not interpreted in that case.
type AnalysisError struct {
	Diagnostics []*semantic.Diagnostic
}

func (e *AnalysisError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return fmt.Sprintf("%d semantic error(s):\n%s", len(e.Diagnostics), strings.Join(msgs, "\n"))
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Parse turns src into a program tree.
func Parse(src string, opts Options) (*ast.Program, error) {
	p := parser.NewParser(lexer.NewLexer(opts.FilePath, src), opts.FilePath)
	program, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return program, nil
}

// Check parses and analyzes src. A failed analysis is not an error here,
// it's reported through the returned semantic.Result.
func Check(src string, opts Options) (*Result, error) {
	program, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	analysis := semantic.NewAnalyzer(opts.FilePath, semantic.WithLogger(log)).Analyze(program)
	log.Debug("analysis done", "success", analysis.Success, "diagnostics", len(analysis.Errors))

	return &Result{Program: program, Analysis: analysis}, nil
}

// Run executes the whole pipeline. On a runtime error the partial result is
// returned alongside the error, its bindings must not be trusted.
func Run(src string, opts Options) (*Result, error) {
	res, err := Check(src, opts)
	if err != nil {
		return nil, err
	}
	if !res.Analysis.Success {
		return res, &AnalysisError{Diagnostics: res.Analysis.Errors}
	}

	log := opts.logger()
	interp := interpreter.NewInterpreter(
		interpreter.WithSingleAssignment(opts.SingleAssignment),
		interpreter.WithLogger(log),
	)
	res.Value, err = interp.Interpret(res.Program)
	res.Globals = interp.Globals()
	if err != nil {
		return res, fmt.Errorf("interpreting %s: %w", name(opts), err)
	}
	log.Debug("run done", "bindings", res.Globals.Len())
	return res, nil
}

func name(opts Options) string {
	if opts.FilePath == "" {
		return "program"
	}
	return opts.FilePath
}
