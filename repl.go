// repl.go: incremental evaluation session
//
// A Session keeps one interpreter alive across snippets so the REPL can
// accumulate definitions. Plain function definitions overwrite earlier
// ones; guarded and pattern clauses append, letting users author
// clauses one snippet at a time.
package tong

import "sort"

// Session is the engine behind an interactive session.
type Session struct {
	ip *Interp
}

// NewSession creates a session with a fresh runtime.
func NewSession() *Session {
	return &Session{ip: NewRuntime()}
}

// Runtime exposes the underlying interpreter, mainly so callers can
// redirect its Out and Diag writers.
func (s *Session) Runtime() *Interp { return s.ip }

// EvalSnippet parses and executes one snippet against the persistent
// environment. It returns the formatted value of the snippet's last
// bare expression, if there is one to echo. An explicit print
// supersedes the echo, as do control-flow statements.
func (s *Session) EvalSnippet(src string) (string, bool, error) {
	prog, err := ParseSourceInteractive(src)
	if err != nil {
		return "", false, err
	}

	s.ip.collectDefinitions(prog)

	last := ""
	have := false
	for _, st := range prog.Stmts {
		switch t := st.(type) {
		case *FnDefStmt, *FnGuardedStmt, *FnPatternStmt, *FnMainStmt, *DataDeclStmt:
			continue // collected above
		case *ExprStmt:
			v, err := s.ip.evalExpr(t.E)
			if err != nil {
				return "", false, err
			}
			last = FormatValue(v)
			have = true
		case *PrintStmt, *IfStmt, *WhileStmt, *ParallelStmt, *ReturnStmt:
			if _, err := s.ip.execStmt(st); err != nil {
				return "", false, err
			}
			last, have = "", false
		default:
			// let / assignment / import / destructuring; no echo change
			if _, err := s.ip.execStmt(st); err != nil {
				return "", false, err
			}
		}
	}
	return last, have, nil
}

// VarBinding is one visible top-frame binding.
type VarBinding struct {
	Name  string
	Value string
}

// ListVars reports the visible top-frame bindings sorted by name.
// Names with a "__" prefix are internal and skipped.
func (s *Session) ListVars() []VarBinding {
	var out []VarBinding
	for k, v := range s.ip.vars() {
		if len(k) >= 2 && k[:2] == "__" {
			continue
		}
		out = append(out, VarBinding{Name: k, Value: FormatValue(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset discards all accumulated state, keeping the output writers.
func (s *Session) Reset() {
	out, diag := s.ip.Out, s.ip.Diag
	s.ip = NewRuntime()
	s.ip.Out, s.ip.Diag = out, diag
}
