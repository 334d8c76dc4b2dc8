package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"minicc/internal/compiler"
	"minicc/internal/config"
	"minicc/internal/diag"
	"minicc/internal/lexer"
	"minicc/internal/parser"
	"minicc/internal/toolchain"
	"minicc/internal/watch"
)

var (
	exitFn       = os.Exit
	compileFn    = compiler.Compile
	loadConfigFn = config.Load
	replFn       = runREPL
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runCLI(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFn(code)
}

type options struct {
	input   string
	stop    compiler.Stage
	asmOnly bool
	watch   bool
	repl    bool
}

// parseArgs looks only for the exact flag literals; anything else starting
// with "--" is ignored, and the first other argument is the input file.
// When several stage flags are given the earliest stage wins.
func parseArgs(args []string) options {
	opts := options{stop: compiler.StageEmit}
	stages := map[string]compiler.Stage{
		"--lex":     compiler.StageLex,
		"--parse":   compiler.StageParse,
		"--codegen": compiler.StageCodegen,
	}
	for _, arg := range args {
		if stage, ok := stages[arg]; ok {
			if stage < opts.stop {
				opts.stop = stage
			}
			continue
		}
		switch arg {
		case "--asm":
			opts.asmOnly = true
		case "--watch":
			opts.watch = true
		case "--repl":
			opts.repl = true
		default:
			if !strings.HasPrefix(arg, "--") && opts.input == "" {
				opts.input = arg
			}
		}
	}
	return opts
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: minicc [--lex|--parse|--codegen|--asm] [--watch] <file.c>
       minicc --repl

  --lex      stop after tokenizing and print the tokens
  --parse    stop after parsing and print the AST
  --codegen  stop after lowering and print the assembly AST
  --asm      write <file>.s and do not link
  --watch    rebuild whenever <file.c> changes
  --repl     compile programs typed at a prompt

Environment: MINICC_CC, MINICC_KEEP_TEMPS, MINICC_VERBOSE, MINICC_WATCH_DEBOUNCE_MS
`)
}

func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := parseArgs(args)

	if opts.repl {
		return replFn(stdout, stderr)
	}
	if opts.input == "" {
		usage(stderr)
		return 2
	}

	paths, err := toolchain.PathsFor(opts.input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg := loadConfigFn()
	b := &builder{
		opts:   opts,
		paths:  paths,
		tc:     toolchain.New(cfg, stderr),
		stdout: stdout,
		stderr: stderr,
	}

	code := b.build(ctx)
	if !opts.watch {
		return code
	}
	return b.watch(ctx, cfg)
}

// builder runs one compilation of a source file. Builds triggered by the
// watcher are serialized.
type builder struct {
	mu     sync.Mutex
	opts   options
	paths  toolchain.Paths
	tc     *toolchain.Toolchain
	stdout io.Writer
	stderr io.Writer
}

func (b *builder) build(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	source, err := b.tc.Preprocess(ctx, b.paths)
	if err != nil {
		fmt.Fprintf(b.stderr, "Preprocess failed: %v\n", err)
		return 1
	}

	res, err := compileFn(source, b.opts.stop)
	if err != nil {
		printCompileError(b.stderr, b.paths.Source, source, err)
		return 1
	}
	if b.opts.stop != compiler.StageEmit {
		printStage(b.stdout, b.opts.stop, res)
		return 0
	}

	if err := b.tc.WriteAssembly(b.paths, res.Text); err != nil {
		fmt.Fprintf(b.stderr, "Error: %v\n", err)
		return 1
	}
	if b.opts.asmOnly {
		fmt.Fprintf(b.stdout, "Wrote: %s\n", b.paths.Assembly)
		return 0
	}
	if err := b.tc.Link(ctx, b.paths); err != nil {
		fmt.Fprintf(b.stderr, "Link failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(b.stdout, "Compiled to: %s\n", b.paths.Executable)
	return 0
}

func (b *builder) watch(ctx context.Context, cfg config.Config) int {
	w, err := watch.New(cfg.WatchDebounce, func(string) {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(b.stdout, "Change detected: %s\n", b.paths.Source)
		b.build(ctx)
	})
	if err != nil {
		fmt.Fprintf(b.stderr, "Watch failed: %v\n", err)
		return 1
	}
	if err := w.Add(b.paths.Source); err != nil {
		fmt.Fprintf(b.stderr, "Watch failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(b.stdout, "Watching %s (Ctrl-C to stop)\n", b.paths.Source)
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(b.stderr, "Watch failed: %v\n", err)
		return 1
	}
	return 0
}

// printStage shows the output of a stage the run stopped after
func printStage(w io.Writer, stage compiler.Stage, res *compiler.Result) {
	switch stage {
	case compiler.StageLex:
		for _, tok := range res.Tokens {
			fmt.Fprintln(w, tok)
		}
	case compiler.StageParse:
		fmt.Fprint(w, res.Program.String())
	case compiler.StageCodegen:
		fmt.Fprintln(w, res.Assembly.String())
	case compiler.StageEmit:
		fmt.Fprintln(w, res.Text)
	}
}

// printCompileError labels the error with its stage and points at the
// offending position of the preprocessed source
func printCompileError(w io.Writer, filename, source string, err error) {
	ce := diag.CodeError{Kind: "Compile error", Message: err.Error()}

	var stageErr *compiler.StageError
	if errors.As(err, &stageErr) {
		ce.Message = stageErr.Err.Error()
		switch stageErr.Stage {
		case compiler.StageLex:
			ce.Kind = "Lex error"
		case compiler.StageParse:
			ce.Kind = "Parse error"
		}
	}

	var lexErr *lexer.Error
	var parseErr *parser.Error
	switch {
	case errors.As(err, &lexErr):
		ce.Message, ce.Line, ce.Column = lexErr.Message, lexErr.Line, lexErr.Column
	case errors.As(err, &parseErr):
		ce.Message, ce.Line, ce.Column = parseErr.Message, parseErr.Line, parseErr.Column
	}

	diag.Print(w, filename, source, ce)
}
