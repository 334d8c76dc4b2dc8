// Package toolchain drives the external C preprocessor and the
// assembler/linker around the compiler core.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"minicc/internal/config"
)

// ErrNotCSource is returned for inputs without a .c suffix
var ErrNotCSource = errors.New("input file is not a .c file")

// Paths are the files derived from one source file
type Paths struct {
	Source       string // foo.c
	Preprocessed string // foo.i
	Assembly     string // foo.s
	Executable   string // foo
}

// PathsFor derives the intermediate and output paths for a .c file
func PathsFor(source string) (Paths, error) {
	base, ok := strings.CutSuffix(source, ".c")
	if !ok || base == "" {
		return Paths{}, fmt.Errorf("%w: %s", ErrNotCSource, source)
	}
	return Paths{
		Source:       source,
		Preprocessed: base + ".i",
		Assembly:     base + ".s",
		Executable:   base,
	}, nil
}

// Toolchain runs the configured compiler driver (gcc by default)
type Toolchain struct {
	cfg   config.Config
	trace io.Writer
}

// New creates a toolchain; with cfg.Verbose every command line is written to
// trace before it runs.
func New(cfg config.Config, trace io.Writer) *Toolchain {
	if trace == nil {
		trace = io.Discard
	}
	return &Toolchain{cfg: cfg, trace: trace}
}

// Preprocess runs "<cc> -E -P" over p.Source and returns the resulting text.
// The .i file is removed afterwards unless temps are kept.
func (tc *Toolchain) Preprocess(ctx context.Context, p Paths) (string, error) {
	if err := tc.run(ctx, "-E", "-P", p.Source, "-o", p.Preprocessed); err != nil {
		return "", fmt.Errorf("preprocessing %s: %w", p.Source, err)
	}
	src, err := os.ReadFile(p.Preprocessed)
	if err != nil {
		return "", fmt.Errorf("failed to read preprocessed source: %w", err)
	}
	if !tc.cfg.KeepTemps {
		if err := os.Remove(p.Preprocessed); err != nil {
			return "", fmt.Errorf("failed to remove %s: %w", p.Preprocessed, err)
		}
	}
	return string(src), nil
}

// WriteAssembly writes the emitted text to p.Assembly, ending the file with a
// newline
func (tc *Toolchain) WriteAssembly(p Paths, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(p.Assembly, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write assembly: %w", err)
	}
	return nil
}

// Link assembles and links p.Assembly into p.Executable, then removes the
// assembly file unless temps are kept. The .s file is removed even when
// linking fails.
func (tc *Toolchain) Link(ctx context.Context, p Paths) (err error) {
	if !tc.cfg.KeepTemps {
		defer func() {
			if rmErr := os.Remove(p.Assembly); rmErr != nil && err == nil {
				err = fmt.Errorf("failed to remove %s: %w", p.Assembly, rmErr)
			}
		}()
	}
	if err := tc.run(ctx, p.Assembly, "-o", p.Executable); err != nil {
		return fmt.Errorf("linking %s: %w", p.Assembly, err)
	}
	return nil
}

// run executes the compiler driver; a non-zero exit is an error carrying
// the combined output
func (tc *Toolchain) run(ctx context.Context, args ...string) error {
	if tc.cfg.Verbose {
		fmt.Fprintf(tc.trace, "+ %s %s\n", tc.cfg.CC, strings.Join(args, " "))
	}
	cmd := exec.CommandContext(ctx, tc.cfg.CC, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		out := strings.TrimSpace(string(output))
		if out == "" {
			return fmt.Errorf("%s failed: %w", tc.cfg.CC, err)
		}
		return fmt.Errorf("%s failed: %w\n%s", tc.cfg.CC, err, out)
	}
	return nil
}
