// repl_test.go
package tong

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*Session, *bytes.Buffer) {
	s := NewSession()
	out := &bytes.Buffer{}
	s.Runtime().Out = out
	s.Runtime().Diag = io.Discard
	return s, out
}

func eval(t *testing.T, s *Session, src string) (string, bool) {
	t.Helper()
	val, have, err := s.EvalSnippet(src)
	require.NoError(t, err, "snippet: %s", src)
	return val, have
}

func Test_Repl_Echoes_Last_Bare_Expression(t *testing.T) {
	s, _ := newTestSession()
	val, have := eval(t, s, "1 + 2")
	require.True(t, have)
	assert.Equal(t, "3", val)
}

func Test_Repl_Let_Produces_No_Echo(t *testing.T) {
	s, _ := newTestSession()
	_, have := eval(t, s, "let x = 5")
	assert.False(t, have)
	val, have := eval(t, s, "x * 2")
	require.True(t, have)
	assert.Equal(t, "10", val)
}

func Test_Repl_Print_Supersedes_Echo(t *testing.T) {
	s, out := newTestSession()
	_, have := eval(t, s, "1 + 1 print(99)")
	assert.False(t, have)
	assert.Equal(t, "99\n", out.String())
}

func Test_Repl_State_Persists_Across_Snippets(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "fn double(x) { x * 2 }")
	val, have := eval(t, s, "double(21)")
	require.True(t, have)
	assert.Equal(t, "42", val)
}

func Test_Repl_Plain_Function_Redefinition_Overwrites(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "fn f(x) { 1 }")
	eval(t, s, "fn f(x) { 2 }")
	val, _ := eval(t, s, "f(0)")
	assert.Equal(t, "2", val)
}

func Test_Repl_Incremental_Clause_Authoring(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "fn size(0) { \"zero\" }")
	eval(t, s, "fn size(_) { \"other\" }")
	val, _ := eval(t, s, "size(0)")
	assert.Equal(t, "zero", val)
	val, _ = eval(t, s, "size(7)")
	assert.Equal(t, "other", val)
}

func Test_Repl_Data_Declarations_Register(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "data Shape = Circle r | Square s")
	val, _ := eval(t, s, "Circle(5)")
	assert.Equal(t, "Circle(5)", val)
}

func Test_Repl_Control_Flow_Has_No_Echo(t *testing.T) {
	s, out := newTestSession()
	eval(t, s, "let i = 0")
	_, have := eval(t, s, "while i < 3 { print(i) i = i + 1 }")
	assert.False(t, have)
	assert.Equal(t, "0\n1\n2\n", out.String())
}

func Test_Repl_ListVars(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "let b = 2 let a = 1")
	vars := s.ListVars()
	require.Len(t, vars, 2)
	assert.Equal(t, VarBinding{Name: "a", Value: "1"}, vars[0])
	assert.Equal(t, VarBinding{Name: "b", Value: "2"}, vars[1])
}

func Test_Repl_Reset_Clears_State(t *testing.T) {
	s, _ := newTestSession()
	eval(t, s, "let x = 1")
	s.Reset()
	assert.Empty(t, s.ListVars())
	_, _, err := s.EvalSnippet("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable x")
}

func Test_Repl_Error_Leaves_Session_Usable(t *testing.T) {
	s, _ := newTestSession()
	_, _, err := s.EvalSnippet("nope(1)")
	require.Error(t, err)
	val, have := eval(t, s, "2 + 2")
	require.True(t, have)
	assert.Equal(t, "4", val)
}

func Test_Repl_Incomplete_Snippet_Reports_Continuation(t *testing.T) {
	s, _ := newTestSession()
	_, _, err := s.EvalSnippet("fn f(a) {")
	require.Error(t, err)
	assert.True(t, IsIncomplete(err))
}
