package diag

import (
	"fmt"
	"io"
	"strings"
)

// CodeError is a located compile error ready for display
type CodeError struct {
	Kind    string // "Lex error", "Parse error"
	Message string
	Line    int // 1-based, 0 when unknown
	Column  int
}

// SourceLine returns the 1-based line of source, without its newline
func SourceLine(source string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// Print writes err in the form
//
//	Parse error: expected OpenBrace, got Return
//	  --> main.c:1:16
//	   |
//	 1 | int main(void) return 2; }
//	   |                ^
//
// The location block is left out when the position is unknown.
func Print(w io.Writer, filename, source string, err CodeError) {
	fmt.Fprintf(w, "%s: %s\n", err.Kind, err.Message)
	if err.Line <= 0 || err.Column <= 0 {
		return
	}
	fmt.Fprintf(w, "  --> %s:%d:%d\n", filename, err.Line, err.Column)

	text, ok := SourceLine(source, err.Line)
	if !ok {
		return
	}
	gutter := len(fmt.Sprint(err.Line))
	pad := strings.Repeat(" ", gutter)
	fmt.Fprintf(w, " %s |\n", pad)
	fmt.Fprintf(w, " %d | %s\n", err.Line, text)
	fmt.Fprintf(w, " %s | %s^\n", pad, caretIndent(text, err.Column))
}

// caretIndent keeps tabs so the caret lines up under the column
// and counts characters rather than bytes, as lexer columns do
func caretIndent(text string, column int) string {
	runes := []rune(text)
	var b strings.Builder
	for i := 0; i < column-1; i++ {
		if i < len(runes) && runes[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
