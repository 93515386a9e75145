// interp_test.go
package tong

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func newTestRuntime() (*Interp, *bytes.Buffer, *bytes.Buffer) {
	ip := NewRuntime()
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	ip.Out = out
	ip.Diag = diag
	return ip, out, diag
}

// runProg executes src and returns its printed output.
func runProg(t *testing.T, src string) string {
	t.Helper()
	ip, out, _ := newTestRuntime()
	if err := ip.RunSource(src); err != nil {
		t.Fatalf("runtime error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

// runFail executes src expecting a runtime error containing substr.
func runFail(t *testing.T, src, substr string) string {
	t.Helper()
	ip, out, _ := newTestRuntime()
	err := ip.RunSource(src)
	if err == nil {
		t.Fatalf("expected error containing %q, got none\nsource:\n%s", substr, src)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %v", substr, err)
	}
	return out.String()
}

func wantOutput(t *testing.T, src, want string) {
	t.Helper()
	got := runProg(t, src)
	if got != want {
		t.Fatalf("output mismatch\nwant: %q\ngot:  %q\nsource:\n%s", want, got, src)
	}
}

// --- end-to-end scenarios --------------------------------------------------

func Test_Exec_Nested_Index_And_Block_Value(t *testing.T) {
	src := `fn main(){ let grid = [[1,2],[3,4]] print(grid[1][0]) let val = { let a = 5 let b = a*3 b+2 } print(val) } main()`
	wantOutput(t, src, "3\n17\n")
}

func Test_Exec_Index_Read_Out_Of_Bounds(t *testing.T) {
	src := `fn main(){ let xs = [1,2,3] print(xs[5]) } main()`
	out := runFail(t, src, "index out of bounds")
	if out != "" {
		t.Fatalf("no output expected before the failure, got %q", out)
	}
}

func Test_Exec_Index_Write_Out_Of_Bounds(t *testing.T) {
	src := `fn main(){ let arr = [0,1] arr[2] = 9 } main()`
	runFail(t, src, "index out of bounds")
}

func Test_Exec_Negative_Index(t *testing.T) {
	runFail(t, `let xs = [1] print(xs[-1])`, "negative index not supported")
	runFail(t, `let xs = [1] xs[-1] = 2`, "negative index")
}

func Test_Exec_Index_Assignment_Copy_Semantics(t *testing.T) {
	src := `
let a = [1, 2]
let b = a
a[0] = 9
print(a)
print(b)
`
	wantOutput(t, src, "[9, 2]\n[1, 2]\n")
}

func Test_Exec_Constructor_Round_Trip(t *testing.T) {
	src := `
data Shape = Circle r | Square s
fn main() {
  let c = Circle(5)
  print(c)
  let area = match c { Circle(r) -> r * r, Square(s) -> s * s }
  print(area)
}
main()
`
	wantOutput(t, src, "Circle(5)\n25\n")
}

// --- dispatch --------------------------------------------------------------

func Test_Exec_Pattern_Dispatch_First_Clause_Wins(t *testing.T) {
	src := `
fn f(0) { print("first") 1 }
fn f(0) { print("second") 2 }
print(f(0))
`
	wantOutput(t, src, "first\n1\n")
}

func Test_Exec_Guarded_Dispatch_Order(t *testing.T) {
	src := `
fn g(n) if n > 0 { "pos" }
fn g(n) if true { "other" }
print(g(5))
print(g(0 - 5))
`
	wantOutput(t, src, "pos\nother\n")
}

func Test_Exec_No_Guard_Matched(t *testing.T) {
	src := `
fn g(n) if n > 10 { "big" }
g(1)
`
	runFail(t, src, "no guard matched for g")
}

func Test_Exec_No_Pattern_Clause_Matched(t *testing.T) {
	src := `
fn f(0) { 1 }
f(7)
`
	runFail(t, src, "no pattern clause matched for f")
}

func Test_Exec_Pattern_Clause_Guard(t *testing.T) {
	src := `
fn f(n) if n % 2 == 0 { "even" }
fn f(n) if true { "odd" }
print(f(4))
print(f(3))
`
	wantOutput(t, src, "even\nodd\n")
}

func Test_Exec_Unknown_Function(t *testing.T) {
	runFail(t, "nope(1)", "unknown function nope")
}

func Test_Exec_Too_Many_Arguments(t *testing.T) {
	runFail(t, "fn f(a) { a } f(1, 2)", "too many arguments")
}

func Test_Exec_Constructor_Arity_Mismatch(t *testing.T) {
	runFail(t, "data S = Circle r\nCircle(1, 2)", "constructor arity mismatch")
}

func Test_Exec_Implicit_Return_Zero(t *testing.T) {
	wantOutput(t, "fn f() { let x = 1 } print(f())", "0\n")
}

func Test_Exec_Return_From_Nested_If(t *testing.T) {
	src := `
fn f(n) {
  if n > 0 {
    return 7
  }
  return 1
}
print(f(5))
print(f(0))
`
	wantOutput(t, src, "7\n1\n")
}

// --- partial application ---------------------------------------------------

func Test_Exec_Partial_Function(t *testing.T) {
	src := `
fn add(a, b) { a + b }
let inc = add(1)
print(inc)
print(inc(41))
print(add(1, 41))
`
	wantOutput(t, src, "<partial:add:1>\n42\n42\n")
}

func Test_Exec_Partial_Constructor(t *testing.T) {
	src := `
data Pair = P a b
let half = P(1)
print(half(2))
`
	wantOutput(t, src, "P(1,2)\n")
}

func Test_Exec_Partial_Lambda(t *testing.T) {
	src := `
let add = \a b -> a + b
let inc = add(1)
print(inc(2))
`
	wantOutput(t, src, "3\n")
}

func Test_Exec_Partial_Too_Many(t *testing.T) {
	src := `
fn add(a, b) { a + b }
let p = add(1)
p(2, 3)
`
	runFail(t, src, "too many arguments for function partial")
}

// --- closures --------------------------------------------------------------

func Test_Exec_Closure_Snapshot_Capture(t *testing.T) {
	// Later mutation of the outer binding is invisible to the closure.
	src := `
let n = 1
let f = \x -> x + n
n = 2
print(f(10))
`
	wantOutput(t, src, "11\n")
}

func Test_Exec_Lambda_Arity_Mismatch(t *testing.T) {
	src := `
let f = \x -> x
f(1, 2)
`
	runFail(t, src, "too many arguments for lambda")
}

// --- list comprehensions ---------------------------------------------------

func Test_Exec_Comprehension_Row_Major(t *testing.T) {
	wantOutput(t, "print([[i, j] | i in [0, 1], j in [0, 1]])",
		"[[0, 0], [0, 1], [1, 0], [1, 1]]\n")
}

func Test_Exec_Comprehension_Predicate(t *testing.T) {
	wantOutput(t, "print([x * x | x in [1, 2, 3, 4] if x % 2 == 0])", "[4, 16]\n")
}

func Test_Exec_Comprehension_No_Binding_Leak(t *testing.T) {
	src := `
let ys = [x | x in [1, 2]]
print(x)
`
	runFail(t, src, "undefined variable x")
}

func Test_Exec_Comprehension_Source_Must_Be_Array(t *testing.T) {
	runFail(t, "[x | x in 5]", "list comprehension expects array source for generator 'x'")
}

// --- arithmetic and logic --------------------------------------------------

func Test_Exec_Arithmetic_Promotion(t *testing.T) {
	wantOutput(t, "print(1 / 2)", "0.5\n")
	wantOutput(t, "print(4 / 2)", "2.0\n")
	wantOutput(t, "print(1 + 2.0)", "3.0\n")
	wantOutput(t, "print(7 % 3)", "1\n")
	wantOutput(t, "print(2 * 3 + 1)", "7\n")
}

func Test_Exec_Float_Equality_Epsilon(t *testing.T) {
	wantOutput(t, "print(0.1 + 0.2 == 0.3)", "true\n")
	wantOutput(t, "print(1.5 == 1.25)", "false\n")
}

func Test_Exec_Float_Equality_Epsilon_Unit(t *testing.T) {
	v, err := binaryValues(OpEq, FloatV(1.0), FloatV(1.0+1e-20))
	if err != nil || v.Tag != VTBool || !v.Bool() {
		t.Fatalf("values within epsilon should compare equal: %v %v", v, err)
	}
}

func Test_Exec_Logical_Operators(t *testing.T) {
	wantOutput(t, "print(true & false)", "false\n")
	wantOutput(t, "print(false || true)", "true\n")
	wantOutput(t, "print(!true)", "false\n")
	runFail(t, "print(1 & true)", "left operand of '&' must be Bool")
	runFail(t, "print(true & 1)", "right operand of '&' must be Bool")
	runFail(t, "print(!2)", "unary '!' expects Bool")
}

func Test_Exec_Logical_Short_Circuit(t *testing.T) {
	// The right side would fail if evaluated.
	wantOutput(t, "print(false & (1 == [1]))", "false\n")
	wantOutput(t, "print(true || (1 == [1]))", "true\n")
}

func Test_Exec_String_Comparison(t *testing.T) {
	wantOutput(t, `print("a" == "a") print("a" != "b")`, "true\ntrue\n")
}

func Test_Exec_Unsupported_Operands(t *testing.T) {
	runFail(t, `print("a" + "b")`, "unsupported operands for operation")
}

func Test_Exec_Mixed_Comparison(t *testing.T) {
	wantOutput(t, "print(1 < 1.5) print(2.5 >= 2)", "true\ntrue\n")
}

func Test_Exec_Mixed_Equality_Rejected(t *testing.T) {
	runFail(t, "print(1 == 1.0)", "unsupported operands for operation")
	runFail(t, "print(1 != 1.0)", "unsupported operands for operation")
}

// --- statements ------------------------------------------------------------

func Test_Exec_While_Loop(t *testing.T) {
	src := `
fn count() {
  let i = 0
  let s = 0
  while i < 4 {
    s = s + i
    i = i + 1
  }
  return s
}
print(count())
`
	wantOutput(t, src, "6\n")
}

func Test_Exec_Parallel_Is_Sequential(t *testing.T) {
	src := `
parallel {
  print("a")
  print("b")
  print("c")
}
`
	wantOutput(t, src, "a\nb\nc\n")
}

func Test_Exec_Destructuring(t *testing.T) {
	wantOutput(t, "let (a, b) = [1, 2] print(a + b)", "3\n")
	runFail(t, "let (a, b, c) = [1, 2]", "tuple arity mismatch")
	runFail(t, "let (a, b) = 5", "destructuring expects array value")
}

func Test_Exec_If_Else(t *testing.T) {
	src := `
fn pick(b) {
  if b {
    return "yes"
  } else {
    return "no"
  }
}
print(pick(true))
print(pick(false))
`
	wantOutput(t, src, "yes\nno\n")
}

func Test_Exec_Print_Multiple_Args(t *testing.T) {
	wantOutput(t, `print("x", 1, [2, 3])`, "x 1 [2, 3]\n")
}

func Test_Exec_Undefined_Variable(t *testing.T) {
	runFail(t, "print(zz)", "undefined variable zz")
}

// --- match -----------------------------------------------------------------

func Test_Exec_Match_Literals_And_Wildcard(t *testing.T) {
	src := `
fn name(n) {
  match n { 0 -> "zero", 1 -> "one", _ -> "many" }
}
print(name(0))
print(name(1))
print(name(9))
`
	wantOutput(t, src, "zero\none\nmany\n")
}

func Test_Exec_Match_Guard(t *testing.T) {
	src := `print(match 5 { n if n > 3 -> "big", _ -> "small" })`
	wantOutput(t, src, "big\n")
}

func Test_Exec_Match_Tuple_Pattern(t *testing.T) {
	wantOutput(t, "print(match [1, 2] { (a, b) -> a + b })", "3\n")
}

func Test_Exec_Match_Non_Exhaustive_Fails(t *testing.T) {
	ip, _, diag := newTestRuntime()
	err := ip.RunSource("match 5 { 1 -> 1 }")
	if err == nil || !strings.Contains(err.Error(), "non-exhaustive match") {
		t.Fatalf("want non-exhaustive match error, got %v", err)
	}
	if !strings.Contains(diag.String(), "[TONG][warn] non-exhaustive match at runtime") {
		t.Fatalf("runtime warning missing, diag: %q", diag.String())
	}
}

func Test_Exec_Match_Scrutinee_Evaluated_Once(t *testing.T) {
	src := `
fn once() { print("eval") 1 }
print(match once() { 1 -> "hit", _ -> "miss" })
`
	wantOutput(t, src, "eval\nhit\n")
}

// --- builtins --------------------------------------------------------------

func Test_Exec_Builtin_Len(t *testing.T) {
	wantOutput(t, "print(len([1, 2, 3]))", "3\n")
	runFail(t, "len(1)", "len expects array")
	runFail(t, "len([1], [2])", "len expects 1 argument")
}

func Test_Exec_Builtin_Sum(t *testing.T) {
	wantOutput(t, "print(sum([1, 2, 3]))", "6\n")
	wantOutput(t, "print(sum([1, 2.5]))", "3.5\n")
	runFail(t, `sum(["x"])`, "sum expects numeric array")
}

func Test_Exec_Builtin_Map_Filter_Reduce(t *testing.T) {
	wantOutput(t, `print(map([1, 2, 3], \x -> x * 2))`, "[2, 4, 6]\n")
	wantOutput(t, `print(filter([1, 2, 3, 4], \x -> x % 2 == 0))`, "[2, 4]\n")
	wantOutput(t, `print(reduce([1, 2, 3], \a b -> a + b, 10))`, "16\n")
	runFail(t, `filter([1], \x -> x)`, "filter function must return bool")
	runFail(t, "map([1])", "map expects 2 arguments (array, function)")
	runFail(t, "reduce([1], 2)", "reduce expects 3 arguments (array, function, initial)")
}

func Test_Exec_Builtin_Map_With_Function_Reference(t *testing.T) {
	src := `
fn double(x) { x * 2 }
print(map([1, 2], double))
`
	wantOutput(t, src, "[2, 4]\n")
}

func Test_Exec_Import_Unknown_Module(t *testing.T) {
	runFail(t, `let m = import("foo")`, "unknown module 'foo'; built-ins: sdl, linalg")
}

// --- value formatting ------------------------------------------------------

func Test_Format_Value(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{StrV("plain"), "plain"},
		{IntV(42), "42"},
		{FloatV(2.0), "2.0"},
		{FloatV(2.5), "2.5"},
		{BoolV(true), "true"},
		{ArrayV([]Value{IntV(1), IntV(2)}), "[1, 2]"},
		{ArrayV(nil), "[]"},
		{FuncRefV("f"), "<func:f>"},
		{ObjectV(map[string]Value{}), "<object>"},
		{Value{Tag: VTCtor, Data: &CtorVal{Name: "Dot"}}, "Dot"},
		{Value{Tag: VTCtor, Data: &CtorVal{Name: "P", Fields: []Value{IntV(1), IntV(2)}}}, "P(1,2)"},
		{Value{Tag: VTLambda, Data: &LambdaVal{}}, "<lambda>"},
		{Value{Tag: VTPartial, Data: &PartialVal{Name: "add", Applied: []Value{IntV(1)}}}, "<partial:add:1>"},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Fatalf("FormatValue: want %q, got %q", c.want, got)
		}
	}
}

func Test_Exec_Zero_Arity_Ctor_As_Value(t *testing.T) {
	src := `
data Toggle = On | Off
let t = On
print(t)
`
	wantOutput(t, src, "On\n")
}

func Test_Exec_Function_Reference_Format(t *testing.T) {
	wantOutput(t, "fn f(a) { a }\nprint(f)", "<func:f>\n")
}
