// errors.go: user-facing error wrapping and caret-snippet rendering
//
// Turns lexer/parser diagnostics into readable snippets with a caret
// pointing at the offending column:
//
//	PARSE ERROR in prog.tong at 3:12: unexpected token ')'
//
//	   2 | let x = (1 + 2
//	   3 |            )
//	      |            ^
//	   4 | x
//
// Runtime errors carry no source coordinates in this language, so they
// render as a single labeled line.
package tong

import (
	"fmt"
	"strings"
)

// RuntimeError is any failure raised during evaluation.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func rtErrf(format string, args ...interface{}) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. Lex and parse errors are recognized;
// other errors pass through unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in name")
// in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", renderSnippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", renderSnippet(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *RuntimeError:
		if srcName != "" {
			return fmt.Errorf("RUNTIME ERROR in %s: %s", srcName, e.Msg)
		}
		return fmt.Errorf("RUNTIME ERROR: %s", e.Msg)
	default:
		return err
	}
}

// renderSnippet builds a header plus a one-line context window around the
// error line, with a caret under the 1-based column. Out-of-range
// coordinates are clamped so rendering never panics.
func renderSnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	line = clampInt(line, 1, len(lines))
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	for n := line - 1; n <= line+1; n++ {
		if n < 1 || n > len(lines) {
			continue
		}
		fmt.Fprintf(&b, "%4d | %s\n", n, lines[n-1])
		if n == line {
			fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
		}
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
