package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"pascal/config"
	"pascal/lexer"
	"pascal/object"
	"pascal/runner"
	"pascal/semantic"
)

// palette holds the colors of one invocation. Disabling it leaves the
// package-wide color.NoColor alone.
type palette struct {
	err   *color.Color
	name  *color.Color
	scope *color.Color
}

func newPalette() *palette {
	return &palette{
		err:   color.New(color.FgRed),
		name:  color.New(color.FgCyan),
		scope: color.New(color.FgMagenta),
	}
}

func (p *palette) disable() {
	p.err.DisableColor()
	p.name.DisableColor()
	p.scope.DisableColor()
}

var sourceFlag = &cli.StringFlag{
	Name:    "source-string",
	Aliases: []string{"e"},
	Usage:   "Use the given program text instead of a file",
}

// NewApp builds the command line application. Output goes to stdout and
// stderr instead of the process streams so the app can be driven in tests.
func NewApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "pascal",
		Usage:                  "Analyze and evaluate programs written in a small Pascal subset",
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// exit codes are handled by Execute
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load settings from a YAML or TOML file",
				EnvVars: []string{"PASCAL_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every pipeline step to stderr",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Analyze a program and execute it, then print the global bindings",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					sourceFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Bindings format, text or yaml",
					},
					&cli.BoolFlag{
						Name:    "scopes",
						Aliases: []string{"s"},
						Usage:   "Print the scope tree after the bindings",
					},
					&cli.BoolFlag{
						Name:  "single-assignment",
						Usage: "Fail when a name is assigned twice",
					},
				},
				Action: run,
			},
			{
				Name:      "check",
				Usage:     "Parse and analyze a program without executing it",
				ArgsUsage: "[file|-]",
				Flags:     []cli.Flag{sourceFlag},
				Action:    check,
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream of a program",
				ArgsUsage: "[file|-]",
				Flags:     []cli.Flag{sourceFlag},
				Action:    tokens,
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a program",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					sourceFlag,
					&cli.BoolFlag{
						Name:  "source",
						Usage: "Print the tree back as Pascal source",
					},
				},
				Action: dumpAST,
			},
		},
	}
}

// Execute runs the application on the process arguments and exits with its
// status.
func Execute() {
	err := NewApp(os.Stdout, os.Stderr).Run(os.Args)
	if err == nil {
		return
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitErr.ExitCode())
	}
	newPalette().err.Fprintln(os.Stderr, err)
	os.Exit(1)
}

type session struct {
	cfg    *config.Config
	colors *palette
	logger *slog.Logger
	file   string
	src    string
}

// setup loads the configuration, applies the flag overrides on top of it
// and reads the program text.
func setup(c *cli.Context) (*session, error) {
	colors := newPalette()
	if c.Bool("no-color") {
		colors.disable()
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(colors.err.Sprint(err), 2)
	}

	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("scopes") {
		cfg.ShowScopes = c.Bool("scopes")
	}
	if c.IsSet("single-assignment") {
		cfg.SingleAssignment = c.Bool("single-assignment")
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(colors.err.Sprint(err), 2)
	}
	if !cfg.Color {
		colors.disable()
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	file, src, err := readSource(c)
	if err != nil {
		return nil, cli.Exit(colors.err.Sprint(err), 2)
	}
	logger.Debug("source loaded", "file", file, "size", len(src))

	return &session{cfg: cfg, colors: colors, logger: logger, file: file, src: src}, nil
}

func readSource(c *cli.Context) (string, string, error) {
	if c.IsSet("source-string") {
		if c.Args().Present() {
			return "", "", errors.New("both a file and --source-string were given")
		}
		return "", c.String("source-string"), nil
	}

	path := c.Args().First()
	switch path {
	case "":
		return "", "", errors.New("no program given, pass a file, - for stdin or --source-string")
	case "-":
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "", string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

func (s *session) options() runner.Options {
	return runner.Options{
		FilePath:         s.file,
		SingleAssignment: s.cfg.SingleAssignment,
		Logger:           s.logger,
	}
}

func run(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	res, err := runner.Run(s.src, s.options())
	if err != nil {
		return s.failure(c, err)
	}

	if s.cfg.Output == config.OutputYAML {
		return writeYAML(c.App.Writer, res, s.cfg.ShowScopes)
	}

	out := c.App.Writer
	for _, name := range res.Globals.Names() {
		value, _ := res.Globals.Resolve(name)
		fmt.Fprintf(out, "%s = %s\n", s.colors.name.Sprint(name), value.Inspect())
	}
	if s.cfg.ShowScopes {
		s.colors.scope.Fprint(out, res.Analysis.Scope.String())
	}
	return nil
}

func check(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	res, err := runner.Check(s.src, s.options())
	if err != nil {
		return s.failure(c, err)
	}

	s.colors.scope.Fprint(c.App.Writer, res.Analysis.Scope.String())
	if !res.Analysis.Success {
		s.reportDiagnostics(c.App.ErrWriter, res.Analysis.Errors)
		return cli.Exit("", 1)
	}
	return nil
}

func tokens(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	toks, err := lexer.NewLexer(s.file, s.src).Tokenize()
	for _, tok := range toks {
		fmt.Fprintln(c.App.Writer, tok)
	}
	if err != nil {
		return s.failure(c, err)
	}
	return nil
}

func dumpAST(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	program, err := runner.Parse(s.src, s.options())
	if err != nil {
		return s.failure(c, err)
	}

	if c.Bool("source") {
		fmt.Fprintln(c.App.Writer, program.String())
		return nil
	}
	_, err = pretty.Fprintf(c.App.Writer, "%# v\n", program)
	return err
}

// failure prints err the way its kind deserves and turns it into exit
// status 1.
func (s *session) failure(c *cli.Context, err error) error {
	var analysisErr *runner.AnalysisError
	if errors.As(err, &analysisErr) {
		s.reportDiagnostics(c.App.ErrWriter, analysisErr.Diagnostics)
		return cli.Exit("", 1)
	}
	s.colors.err.Fprintln(c.App.ErrWriter, "error:", err)
	return cli.Exit("", 1)
}

func (s *session) reportDiagnostics(w io.Writer, diags []*semantic.Diagnostic) {
	for _, d := range diags {
		s.colors.err.Fprintln(w, "error:", d.Error())
	}
}

// writeYAML emits the bindings as a mapping that keeps the binding order.
func writeYAML(w io.Writer, res *runner.Result, withScopes bool) error {
	bindings := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range res.Globals.Names() {
		value, _ := res.Globals.Resolve(name)
		bindings.Content = append(bindings.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			yamlScalar(value),
		)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "globals"},
		bindings,
	)
	if withScopes {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "scopes"},
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.LiteralStyle, Value: res.Analysis.Scope.String()},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding bindings: %w", err)
	}
	return enc.Close()
}

// yamlScalar renders a binding value. Non-finite reals use the YAML
// spellings .inf, -.inf and .nan instead of Go's +Inf and NaN.
func yamlScalar(obj object.Object) *yaml.Node {
	r, ok := obj.(*object.Real)
	if !ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: obj.Inspect()}
	}

	value := r.Inspect()
	switch {
	case math.IsInf(r.Value, 1):
		value = ".inf"
	case math.IsInf(r.Value, -1):
		value = "-.inf"
	case math.IsNaN(r.Value):
		value = ".nan"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: value}
}
