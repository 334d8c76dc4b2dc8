package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"minicc/internal/compiler"
)

// scriptedReader replays lines, then reports EOF like liner on Ctrl-D
type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) { s.history = append(s.history, item) }

func runScript(lines ...string) (*scriptedReader, string, string, int) {
	in := &scriptedReader{lines: lines}
	var stdout, stderr bytes.Buffer
	r := &repl{stage: compiler.StageEmit, stdout: &stdout, stderr: &stderr}
	code := r.loop(in)
	return in, stdout.String(), stderr.String(), code
}

func TestReplCompilesMultiLineProgram(t *testing.T) {
	in, stdout, stderr, code := runScript(
		"int main(void) {",
		"    return 3;",
		"}",
	)
	if code != 0 || stderr != "" {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "   movl $3, %eax\n") {
		t.Fatalf("missing assembly:\n%s", stdout)
	}
	if !strings.Contains(stdout, "=> 3 (exit status 3)") {
		t.Fatalf("missing evaluation:\n%s", stdout)
	}
	if len(in.prompts) < 3 || in.prompts[0] != promptMain || in.prompts[1] != promptCont {
		t.Fatalf("unexpected prompts %q", in.prompts)
	}
	if len(in.history) != 1 || in.history[0] != "int main(void) {     return 3; } " {
		t.Fatalf("unexpected history %q", in.history)
	}
}

func TestReplStageCommands(t *testing.T) {
	_, stdout, _, _ := runScript(
		":lex",
		"int main(void){return 2;}",
		":parse",
		"int main(void){return 2;}",
		":codegen",
		"int main(void){return 2;}",
		":quit",
		"int main(void){return 5;}",
	)
	for _, want := range []string{
		"showing lex output",
		"Constant(2)\nSemicolon\n",
		"showing parse output",
		"    return 2;\n",
		"showing codegen output",
		"Mov(Imm(2), AX)",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "$5") || strings.Contains(stdout, "Imm(5)") {
		t.Fatalf("input after :quit was compiled:\n%s", stdout)
	}
}

func TestReplReportsErrorsAndContinues(t *testing.T) {
	_, stdout, stderr, code := runScript(
		"int main(void) { return 2 }",
		"int main(void) { return 4; }",
	)
	if code != 0 {
		t.Fatalf("code=%d", code)
	}
	if !strings.Contains(stderr, "Parse error: expected Semicolon, got CloseBrace") ||
		!strings.Contains(stderr, "--> <repl>:1:27") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
	if !strings.Contains(stdout, "$4") {
		t.Fatalf("second program not compiled:\n%s", stdout)
	}
}

func TestReplBlankLineSubmitsAndAbortDiscards(t *testing.T) {
	_, stdout, stderr, _ := runScript(
		"int main(void)",
		"",
		"int main(void) {",
		"^C",
		":bogus",
		":help",
	)
	if !strings.Contains(stderr, "Parse error: expected OpenBrace, got EOF") {
		t.Fatalf("blank line did not submit:\n%s", stderr)
	}
	if !strings.Contains(stdout, "unknown command") || !strings.Contains(stdout, "Commands:") {
		t.Fatalf("unexpected stdout:\n%s", stdout)
	}
}
