package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"minicc/internal/compiler"
	"minicc/internal/evaluator"
)

const (
	banner      = "minicc REPL. Enter a program, :help for commands."
	promptMain  = "minicc> "
	promptCont  = "......> "
	historyFile = ".minicc_history"
	replSource  = "<repl>"
)

// lineReader is the part of liner.State the REPL loop uses
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runREPL(stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	r := &repl{stage: compiler.StageEmit, stdout: stdout, stderr: stderr}
	return r.loop(ln)
}

type repl struct {
	stage  compiler.Stage
	stdout io.Writer
	stderr io.Writer
}

func (r *repl) loop(in lineReader) int {
	for {
		code, err := readProgram(in)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(r.stdout)
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(trimmed); quit {
				return 0
			}
			continue
		}

		in.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		r.compile(code)
	}
}

// readProgram reads lines until the braces balance after at least one
// opening brace. A blank continuation line submits what has been typed.
func readProgram(in lineReader) (string, error) {
	var b strings.Builder
	depth := 0
	opened := false

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := in.Prompt(prompt)
		if err != nil {
			return "", err
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, nil
		}
		if b.Len() > 0 && strings.TrimSpace(line) == "" {
			return b.String(), nil
		}

		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			opened = true
		}
		if opened && depth <= 0 {
			return b.String(), nil
		}
	}
}

func (r *repl) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":lex":
		r.stage = compiler.StageLex
	case ":parse":
		r.stage = compiler.StageParse
	case ":codegen":
		r.stage = compiler.StageCodegen
	case ":emit":
		r.stage = compiler.StageEmit
	case ":help":
		fmt.Fprintln(r.stdout, "Commands: :lex :parse :codegen :emit (choose output), :quit")
		return false
	default:
		fmt.Fprintln(r.stdout, "unknown command. Type :help for commands.")
		return false
	}
	fmt.Fprintf(r.stdout, "showing %s output\n", r.stage)
	return false
}

func (r *repl) compile(code string) {
	res, err := compileFn(code, r.stage)
	if err != nil {
		printCompileError(r.stderr, replSource, code, err)
		return
	}
	printStage(r.stdout, r.stage, res)
	if r.stage == compiler.StageEmit {
		v := evaluator.Eval(res.Program)
		fmt.Fprintf(r.stdout, "=> %d (exit status %d)\n", v, evaluator.ExitStatus(v))
	}
}
