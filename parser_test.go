// parser_test.go
package tong

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustParseProg(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func mustIncomplete(t *testing.T, src string) {
	t.Helper()
	_, err := ParseSourceInteractive(src)
	if err == nil || !IsIncomplete(err) {
		t.Fatalf("expected incomplete parse, got %v\nsource:\n%s", err, src)
	}
}

func mustFailParseContains(t *testing.T, src, substr string) {
	t.Helper()
	_, err := ParseSource(src)
	if err == nil {
		t.Fatalf("expected parse error containing %q, got nil\nsource:\n%s", substr, src)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %v", substr, err)
	}
}

func onlyStmt(t *testing.T, src string) Stmt {
	t.Helper()
	prog := mustParseProg(t, src)
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
	return prog.Stmts[0]
}

// --- statements ------------------------------------------------------------

func Test_Parser_Let_And_Assign(t *testing.T) {
	prog := mustParseProg(t, "let x = 1 x = 2")
	if _, ok := prog.Stmts[0].(*LetStmt); !ok {
		t.Fatalf("stmt 0: want LetStmt, got %T", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*AssignStmt); !ok {
		t.Fatalf("stmt 1: want AssignStmt, got %T", prog.Stmts[1])
	}
}

func Test_Parser_Let_Import_Becomes_ImportStmt(t *testing.T) {
	st, ok := onlyStmt(t, `let m = import("sdl")`).(*ImportStmt)
	if !ok {
		t.Fatalf("want ImportStmt, got %T", st)
	}
	if st.Name != "m" || st.Module != "sdl" {
		t.Fatalf("import binding wrong: %+v", st)
	}
}

func Test_Parser_Destructuring_Let(t *testing.T) {
	st, ok := onlyStmt(t, "let (a, b) = [1, 2]").(*DestructureStmt)
	if !ok {
		t.Fatalf("want DestructureStmt, got %T", st)
	}
	if len(st.Names) != 2 || st.Names[0] != "a" || st.Names[1] != "b" {
		t.Fatalf("names wrong: %v", st.Names)
	}
}

func Test_Parser_Index_Assignment(t *testing.T) {
	prog := mustParseProg(t, "let a = [1, 2] a[0] = 9")
	st, ok := prog.Stmts[1].(*IndexAssignStmt)
	if !ok {
		t.Fatalf("want IndexAssignStmt, got %T", prog.Stmts[1])
	}
	if st.Name != "a" {
		t.Fatalf("target name wrong: %q", st.Name)
	}
}

func Test_Parser_Nested_Index_Assignment_Rejected(t *testing.T) {
	mustFailParseContains(t, "grid[0][1] = 9", "nested index")
}

func Test_Parser_Index_Read_Is_Expression(t *testing.T) {
	st, ok := onlyStmt(t, "grid[0][1]").(*ExprStmt)
	if !ok {
		t.Fatalf("want ExprStmt, got %T", st)
	}
	if _, ok := st.E.(*Index); !ok {
		t.Fatalf("want Index expr, got %T", st.E)
	}
}

// --- function definition forms ---------------------------------------------

func Test_Parser_Fn_Simple(t *testing.T) {
	st, ok := onlyStmt(t, "fn add(a, b) { a + b }").(*FnDefStmt)
	if !ok {
		t.Fatalf("want FnDefStmt, got %T", st)
	}
	if st.Name != "add" || len(st.Params) != 2 {
		t.Fatalf("definition wrong: %+v", st)
	}
}

func Test_Parser_Fn_Main(t *testing.T) {
	if _, ok := onlyStmt(t, "fn main() { print(1) }").(*FnMainStmt); !ok {
		t.Fatal("want FnMainStmt")
	}
}

func Test_Parser_Fn_Guarded(t *testing.T) {
	st, ok := onlyStmt(t, `fn sign(n) if n < 0 { return 0 - 1 }`).(*FnGuardedStmt)
	if !ok {
		t.Fatalf("want FnGuardedStmt, got %T", st)
	}
	if st.Guard == nil {
		t.Fatal("guard missing")
	}
}

func Test_Parser_Fn_Pattern_By_Ctor_Param(t *testing.T) {
	src := `
data Shape = Circle r | Square s
fn area(Circle(r)) { r * r }
`
	prog := mustParseProg(t, src)
	st, ok := prog.Stmts[1].(*FnPatternStmt)
	if !ok {
		t.Fatalf("want FnPatternStmt, got %T", prog.Stmts[1])
	}
	cp, ok := st.Patterns[0].(*CtorPat)
	if !ok || cp.Name != "Circle" || cp.Arity != 1 {
		t.Fatalf("pattern wrong: %#v", st.Patterns[0])
	}
}

func Test_Parser_Fn_Zero_Arity_Ctor_Param_Forces_Pattern(t *testing.T) {
	src := `
data Toggle = On | Off
fn flip(On) { 0 }
`
	prog := mustParseProg(t, src)
	if _, ok := prog.Stmts[1].(*FnPatternStmt); !ok {
		t.Fatalf("want FnPatternStmt, got %T", prog.Stmts[1])
	}
}

func Test_Parser_Fn_Capitalized_Param_Without_Decl_Is_Pattern(t *testing.T) {
	// Heuristic fallback: multi-letter capitalized name reads as a
	// constructor even before any data declaration.
	st, ok := onlyStmt(t, "fn f(Just) { 0 }").(*FnPatternStmt)
	if !ok {
		t.Fatalf("want FnPatternStmt, got %T", st)
	}
}

func Test_Parser_Fn_Wildcard_Param_Is_Pattern(t *testing.T) {
	if _, ok := onlyStmt(t, "fn f(_) { 0 }").(*FnPatternStmt); !ok {
		t.Fatal("want FnPatternStmt for wildcard parameter")
	}
}

func Test_Parser_Data_Decl_Arity(t *testing.T) {
	st, ok := onlyStmt(t, "data Shape = Circle r | Rect w h | Dot").(*DataDeclStmt)
	if !ok {
		t.Fatalf("want DataDeclStmt, got %T", st)
	}
	if len(st.Ctors) != 3 {
		t.Fatalf("want 3 ctors, got %d", len(st.Ctors))
	}
	if st.Ctors[0].Arity != 1 || st.Ctors[1].Arity != 2 || st.Ctors[2].Arity != 0 {
		t.Fatalf("arities wrong: %+v", st.Ctors)
	}
}

// --- expressions -----------------------------------------------------------

func Test_Parser_Ctor_Vs_Call(t *testing.T) {
	st := onlyStmt(t, "Circle(5)").(*ExprStmt)
	if _, ok := st.E.(*CtorCall); !ok {
		t.Fatalf("capitalized callee should be CtorCall, got %T", st.E)
	}
	st2 := onlyStmt(t, "circle(5)").(*ExprStmt)
	if _, ok := st2.E.(*Call); !ok {
		t.Fatalf("lowercase callee should be Call, got %T", st2.E)
	}
	// Single uppercase letter stays a call under the heuristic.
	st3 := onlyStmt(t, "F(5)").(*ExprStmt)
	if _, ok := st3.E.(*Call); !ok {
		t.Fatalf("single-letter callee should be Call, got %T", st3.E)
	}
}

func Test_Parser_Declared_Ctor_Overrides_Heuristic(t *testing.T) {
	prog := mustParseProg(t, "data T = X a\nX(1)")
	st := prog.Stmts[1].(*ExprStmt)
	if _, ok := st.E.(*CtorCall); !ok {
		t.Fatalf("declared single-letter ctor should be CtorCall, got %T", st.E)
	}
}

func Test_Parser_Array_Vs_Comprehension(t *testing.T) {
	st := onlyStmt(t, "[1, 2, 3]").(*ExprStmt)
	if _, ok := st.E.(*ArrayLit); !ok {
		t.Fatalf("want ArrayLit, got %T", st.E)
	}
	st2 := onlyStmt(t, "[x * x | x in xs]").(*ExprStmt)
	lc, ok := st2.E.(*ListComp)
	if !ok {
		t.Fatalf("want ListComp, got %T", st2.E)
	}
	if len(lc.Generators) != 1 || lc.Generators[0].Name != "x" {
		t.Fatalf("generators wrong: %+v", lc.Generators)
	}
}

func Test_Parser_Comprehension_Multi_Generator_With_Pred(t *testing.T) {
	st := onlyStmt(t, "[[i, j] | i in a, j in b if i < j]").(*ExprStmt)
	lc := st.E.(*ListComp)
	if len(lc.Generators) != 2 || lc.Pred == nil {
		t.Fatalf("comprehension wrong: %+v", lc)
	}
}

func Test_Parser_Lambda_Forms(t *testing.T) {
	st := onlyStmt(t, `\x y -> x + y`).(*ExprStmt)
	lam, ok := st.E.(*Lambda)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("backslash lambda wrong: %#v", st.E)
	}
	st2 := onlyStmt(t, "|x| x * 2").(*ExprStmt)
	lam2, ok := st2.E.(*Lambda)
	if !ok || len(lam2.Params) != 1 {
		t.Fatalf("pipe lambda wrong: %#v", st2.E)
	}
}

func Test_Parser_Precedence(t *testing.T) {
	st := onlyStmt(t, "1 + 2 * 3 == 7 & true").(*ExprStmt)
	// '&' binds loosest here, so the root must be the and node.
	b, ok := st.E.(*Binary)
	if !ok || b.Op != OpAnd {
		t.Fatalf("root should be '&', got %#v", st.E)
	}
	eq, ok := b.Left.(*Binary)
	if !ok || eq.Op != OpEq {
		t.Fatalf("left of '&' should be '==', got %#v", b.Left)
	}
	add, ok := eq.Left.(*Binary)
	if !ok || add.Op != OpAdd {
		t.Fatalf("left of '==' should be '+', got %#v", eq.Left)
	}
	if mul, ok := add.Right.(*Binary); !ok || mul.Op != OpMul {
		t.Fatalf("right of '+' should be '*', got %#v", add.Right)
	}
}

func Test_Parser_Match_Arms(t *testing.T) {
	src := `match v { Circle(r) -> r, _ if x < 0 -> 0, _ -> 1 }`
	st := onlyStmt(t, src).(*ExprStmt)
	m, ok := st.E.(*MatchExpr)
	if !ok {
		t.Fatalf("want MatchExpr, got %T", st.E)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("want 3 arms, got %d", len(m.Arms))
	}
	if m.Arms[1].Guard == nil {
		t.Fatal("second arm should carry a guard")
	}
}

func Test_Parser_Block_Expression(t *testing.T) {
	st := onlyStmt(t, "let v = { let a = 1 a + 1 }")
	ls := st.(*LetStmt)
	if _, ok := ls.Val.(*BlockExpr); !ok {
		t.Fatalf("want BlockExpr value, got %T", ls.Val)
	}
}

func Test_Parser_Method_And_Property(t *testing.T) {
	st := onlyStmt(t, "m.init()").(*ExprStmt)
	if _, ok := st.E.(*MethodCall); !ok {
		t.Fatalf("want MethodCall, got %T", st.E)
	}
	st2 := onlyStmt(t, "m.K_ESCAPE").(*ExprStmt)
	if _, ok := st2.E.(*Property); !ok {
		t.Fatalf("want Property, got %T", st2.E)
	}
}

// --- interactive continuation ----------------------------------------------

func Test_Parser_Incomplete_Inputs(t *testing.T) {
	mustIncomplete(t, "fn f(a) {")
	mustIncomplete(t, "let x = (1 +")
	mustIncomplete(t, "match v {")
}

func Test_Parser_Complete_Error_Is_Not_Incomplete(t *testing.T) {
	_, err := ParseSourceInteractive("let = 3")
	if err == nil || IsIncomplete(err) {
		t.Fatalf("malformed input should be a hard error, got %v", err)
	}
}

func Test_Parser_Error_Positions(t *testing.T) {
	_, err := ParseSource("let x 3")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %T (%v)", err, err)
	}
	if pe.Line != 1 {
		t.Fatalf("error line: %d", pe.Line)
	}
	if !strings.Contains(pe.Error(), "parse error at") {
		t.Fatalf("error text: %v", pe)
	}
}
