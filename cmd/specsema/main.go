package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/analyzer"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/modules"
	"github.com/funvibe/specsema/internal/pipeline"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/symindex"
)

type options struct {
	configPath string
	indexPath  string
	lookup     string
	debug      bool
	dump       bool
	paths      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("specsema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: specsema [flags] [module paths...]\n\n")
		fmt.Fprintf(stderr, "Without paths the modules listed in %s are populated.\n\n", config.ConfigFileNames[0])
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "project config (default: searched upward from the working directory)")
	fs.StringVar(&opts.indexPath, "index", "", "write the sealed symbol table to this SQLite file")
	fs.StringVar(&opts.lookup, "lookup", "", "after the run, print the indexed bindings with this name")
	fs.BoolVar(&opts.debug, "debug", false, "trace every resolved symbol to stderr")
	fs.BoolVar(&opts.dump, "dump", false, "dump every populated module scope")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.paths = fs.Args()
	return opts, nil
}

// loadProject finds the config the run is driven by. Explicit paths on
// the command line make the config optional.
func loadProject(opts *options) (*config.Project, error) {
	path := opts.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = config.FindConfig(wd); err != nil {
			return nil, err
		}
	}
	if path == "" {
		if len(opts.paths) == 0 {
			return nil, errors.Errorf("no %s found and no module paths given", config.ConfigFileNames[0])
		}
		return nil, nil
	}
	return config.LoadConfig(path)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	p := newPrinter(stderr, colorEnabled())

	cfg, err := loadProject(opts)
	if err != nil {
		p.failure(err)
		return 1
	}

	pc := pipeline.NewPipelineContext(ctx, cfg)
	if len(opts.paths) > 0 {
		pc.Paths = opts.paths
	}
	if opts.indexPath != "" {
		pc.IndexPath = opts.indexPath
	}
	if opts.debug || (cfg != nil && cfg.Debug) {
		pc.Debug = stderr
	}

	index := &symindex.IndexProcessor{}
	result := pipeline.New(
		&modules.LoadProcessor{},
		&analyzer.PopulatorProcessor{},
		index,
	).Run(pc)

	if result.Failed() {
		for _, err := range result.Errors {
			p.failure(err)
		}
		return 1
	}
	fmt.Fprintf(stdout, "populated %d modules\n", len(result.Modules))

	if opts.dump {
		dumpScopes(stdout, result)
	}
	if index.RunID != "" {
		fmt.Fprintf(stdout, "index %s run %s\n", result.IndexPath, index.RunID)
	}
	if opts.lookup != "" {
		if result.IndexPath == "" {
			p.failure(errors.New("-lookup needs an index; set -index or index in the config"))
			return 1
		}
		rows, err := symindex.Lookup(ctx, result.IndexPath, opts.lookup)
		if err != nil {
			p.failure(err)
			return 1
		}
		for _, r := range rows {
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\t%s\n", r.Module, r.Scope, r.Kind, r.Name, r.MathType)
		}
	}
	return 0
}

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

func dumpScopes(w io.Writer, result *pipeline.PipelineContext) {
	for _, m := range result.Modules {
		scope := result.Scopes[symbols.ModuleIdentifier(m.Name)]
		rows := make([]symindex.Row, 0, len(scope.Entries()))
		for _, e := range scope.Entries() {
			rows = append(rows, symindex.Describe(e))
		}
		fmt.Fprintf(w, "%s %s imports %v\n", m.Kind, m.Name, scope.Imports())
		dumpConfig.Fdump(w, rows)
	}
}

type printer struct {
	w                         io.Writer
	location, code, note, msg func(a ...interface{}) string
}

func newPrinter(w io.Writer, enabled bool) *printer {
	style := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &printer{
		w:        w,
		location: style(color.Bold),
		code:     style(color.FgRed, color.Bold),
		note:     style(color.FgCyan),
		msg:      style(color.Reset),
	}
}

// failure prints one error. Diagnostics get their location, code and
// notes styled; anything else is printed as is.
func (p *printer) failure(err error) {
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		fmt.Fprintf(p.w, "%s %s\n", p.code("error:"), err)
		return
	}
	loc := fmt.Sprintf("%d:%d:", de.Token.Line, de.Token.Column)
	if de.File != "" {
		loc = de.File + ":" + loc
	}
	fmt.Fprintf(p.w, "%s %s %s\n", p.location(loc), p.code(string(de.Code)+" "+de.Code.Name()+":"), p.msg(de.Msg))
	for _, n := range de.Notes {
		fmt.Fprintf(p.w, "\t%s\n", p.note(n))
	}
}

func colorEnabled() bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
