// interp.go: the tree-walking evaluator
//
// An Interp owns a stack of lexical frames plus the session-lifetime
// definition tables: plain functions, guarded clauses, pattern clauses,
// data constructors and their type bookkeeping, and the imported-module
// cache. Programs are executed in two passes: definitions are collected
// first so top-level code may call forward, then non-definition
// statements run in source order.
//
// Arrays and objects behave as value types. Every read out of a frame
// deep-copies, so no two bindings alias the same backing store; element
// assignment rebuilds the array and rebinds the name.
package tong

import (
	"fmt"
	"io"
	"os"
)

// FuncDef is one plain function definition.
type FuncDef struct {
	Params []string
	Body   []Stmt
}

// GuardedClause is one clause of a guarded multi-clause function.
type GuardedClause struct {
	Params []string
	Guard  Expr
	Body   []Stmt
}

// PatternClause is one clause of a pattern-parameter function.
type PatternClause struct {
	Patterns []Pattern
	Guard    Expr // nil when absent
	Body     []Stmt
}

// Interp evaluates programs against a persistent environment.
type Interp struct {
	frames []map[string]Value

	funcs        map[string]*FuncDef
	guardedFuncs map[string][]GuardedClause
	patternFuncs map[string][]PatternClause
	modules      map[string]Value
	dataCtors    map[string]int       // ctor name -> arity
	typeCtors    map[string][]string  // type name -> ctor names
	ctorType     map[string]string    // ctor name -> type name
	builtins     map[string]builtinFn // len, sum, map, filter, reduce, import

	sdlFrame      int64
	sdlNoticeSent bool

	// Out receives program output (print); Diag receives advisory
	// warnings and debug traces.
	Out  io.Writer
	Diag io.Writer

	Debug        bool
	suppressWarn bool
}

func newInterp() *Interp {
	ip := &Interp{
		frames:       []map[string]Value{{}},
		funcs:        map[string]*FuncDef{},
		guardedFuncs: map[string][]GuardedClause{},
		patternFuncs: map[string][]PatternClause{},
		modules:      map[string]Value{},
		dataCtors:    map[string]int{},
		typeCtors:    map[string][]string{},
		ctorType:     map[string]string{},
		builtins:     map[string]builtinFn{},
		Out:          os.Stdout,
		Diag:         os.Stderr,
	}
	return ip
}

// ----- frames -----

func (ip *Interp) vars() map[string]Value { return ip.frames[len(ip.frames)-1] }

func (ip *Interp) pushFrame(frame map[string]Value) {
	if frame == nil {
		frame = map[string]Value{}
	}
	ip.frames = append(ip.frames, frame)
}

func (ip *Interp) popFrame() { ip.frames = ip.frames[:len(ip.frames)-1] }

func (ip *Interp) define(name string, v Value) { ip.vars()[name] = v }

// getVar scans frames innermost-first and returns an independent copy of
// the binding, keeping array/object value semantics.
func (ip *Interp) getVar(name string) (Value, bool) {
	for i := len(ip.frames) - 1; i >= 0; i-- {
		if v, ok := ip.frames[i][name]; ok {
			return cloneValue(v), true
		}
	}
	return Value{}, false
}

// ----- program execution -----

// Execute collects the program's definitions, runs the clause
// diagnostics, then executes its non-definition statements in order.
func (ip *Interp) Execute(prog *Program) error {
	if ip.Debug {
		fmt.Fprintf(ip.Diag, "[TONG][dbg] start: %d top-level statements\n", len(prog.Stmts))
	}
	ip.collectDefinitions(prog)
	ip.checkPatternClauses()
	for _, s := range prog.Stmts {
		switch s.(type) {
		case *FnDefStmt, *FnGuardedStmt, *FnPatternStmt, *FnMainStmt:
			continue // collected above
		}
		if _, err := ip.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// collectDefinitions registers functions and data constructors ahead of
// execution so top-level statements may call forward.
func (ip *Interp) collectDefinitions(prog *Program) {
	for _, s := range prog.Stmts {
		switch st := s.(type) {
		case *FnDefStmt:
			ip.funcs[st.Name] = &FuncDef{Params: st.Params, Body: st.Body}
		case *FnGuardedStmt:
			ip.guardedFuncs[st.Name] = append(ip.guardedFuncs[st.Name],
				GuardedClause{Params: st.Params, Guard: st.Guard, Body: st.Body})
		case *FnPatternStmt:
			ip.patternFuncs[st.Name] = append(ip.patternFuncs[st.Name],
				PatternClause{Patterns: st.Patterns, Guard: st.Guard, Body: st.Body})
		case *FnMainStmt:
			ip.funcs["main"] = &FuncDef{Body: st.Body}
		case *DataDeclStmt:
			ip.registerData(st)
		}
	}
}

func (ip *Interp) registerData(st *DataDeclStmt) {
	names := make([]string, 0, len(st.Ctors))
	for _, c := range st.Ctors {
		ip.dataCtors[c.Name] = c.Arity
		ip.ctorType[c.Name] = st.TypeName
		names = append(names, c.Name)
	}
	ip.typeCtors[st.TypeName] = names
}

// execStmts runs statements for effect, propagating only explicit
// returns from nested statements.
func (ip *Interp) execStmts(stmts []Stmt) (*Value, error) {
	for _, s := range stmts {
		rv, err := ip.execStmt(s)
		if err != nil {
			return nil, err
		}
		if rv != nil {
			return rv, nil
		}
	}
	return nil, nil
}

// blockValue runs a statement sequence used as a value producer: an
// explicit return short-circuits, otherwise the value of the last bare
// expression statement (if any) is the result.
func (ip *Interp) blockValue(stmts []Stmt) (*Value, error) {
	var last *Value
	for _, s := range stmts {
		if es, ok := s.(*ExprStmt); ok {
			if ip.Debug {
				fmt.Fprintf(ip.Diag, "[TONG][dbg] exec %s\n", stmtKind(s))
			}
			v, err := ip.evalExpr(es.E)
			if err != nil {
				return nil, err
			}
			last = &v
			continue
		}
		rv, err := ip.execStmt(s)
		if err != nil {
			return nil, err
		}
		if rv != nil {
			return rv, nil
		}
	}
	return last, nil
}

// execStmt executes one statement. A non-nil result is an explicit
// return unwinding to the enclosing function.
func (ip *Interp) execStmt(s Stmt) (*Value, error) {
	if ip.Debug {
		fmt.Fprintf(ip.Diag, "[TONG][dbg] exec %s\n", stmtKind(s))
	}
	switch st := s.(type) {
	case *ImportStmt:
		v, err := ip.importModule(st.Module)
		if err != nil {
			return nil, err
		}
		ip.define(st.Name, v)
		return nil, nil
	case *LetStmt:
		v, err := ip.evalExpr(st.Val)
		if err != nil {
			return nil, err
		}
		ip.define(st.Name, v)
		return nil, nil
	case *AssignStmt:
		v, err := ip.evalExpr(st.Val)
		if err != nil {
			return nil, err
		}
		ip.define(st.Name, v)
		return nil, nil
	case *IndexAssignStmt:
		return nil, ip.execIndexAssign(st)
	case *DestructureStmt:
		v, err := ip.evalExpr(st.Val)
		if err != nil {
			return nil, err
		}
		if v.Tag != VTArray {
			return nil, rtErrf("destructuring expects array value")
		}
		items := v.Array()
		if len(items) != len(st.Names) {
			return nil, rtErrf("tuple arity mismatch")
		}
		for i, n := range st.Names {
			ip.define(n, items[i])
		}
		return nil, nil
	case *PrintStmt:
		parts := make([]string, 0, len(st.Args))
		for _, a := range st.Args {
			v, err := ip.evalExpr(a)
			if err != nil {
				return nil, err
			}
			parts = append(parts, FormatValue(v))
		}
		fmt.Fprintln(ip.Out, joinSpace(parts))
		return nil, nil
	case *ReturnStmt:
		v, err := ip.evalExpr(st.Val)
		if err != nil {
			return nil, err
		}
		return &v, nil
	case *FnDefStmt:
		ip.funcs[st.Name] = &FuncDef{Params: st.Params, Body: st.Body}
		return nil, nil
	case *FnGuardedStmt:
		ip.guardedFuncs[st.Name] = append(ip.guardedFuncs[st.Name],
			GuardedClause{Params: st.Params, Guard: st.Guard, Body: st.Body})
		return nil, nil
	case *FnPatternStmt:
		ip.patternFuncs[st.Name] = append(ip.patternFuncs[st.Name],
			PatternClause{Patterns: st.Patterns, Guard: st.Guard, Body: st.Body})
		return nil, nil
	case *FnMainStmt:
		ip.funcs["main"] = &FuncDef{Body: st.Body}
		return nil, nil
	case *DataDeclStmt:
		ip.registerData(st)
		return nil, nil
	case *ExprStmt:
		if _, err := ip.evalExpr(st.E); err != nil {
			return nil, err
		}
		return nil, nil
	case *IfStmt:
		cond, err := ip.evalExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		if cond.isTrue() {
			return ip.execStmts(st.Then)
		}
		if st.Else != nil {
			return ip.execStmts(st.Else)
		}
		return nil, nil
	case *WhileStmt:
		for {
			cond, err := ip.evalExpr(st.Cond)
			if err != nil {
				return nil, err
			}
			if !cond.isTrue() {
				return nil, nil
			}
			rv, err := ip.execStmts(st.Body)
			if err != nil {
				return nil, err
			}
			if rv != nil {
				return rv, nil
			}
		}
	case *ParallelStmt:
		// Strictly sequential, in source order. See DESIGN.md.
		return ip.execStmts(st.Body)
	default:
		return nil, rtErrf("internal: unhandled statement %T", s)
	}
}

func (ip *Interp) execIndexAssign(st *IndexAssignStmt) error {
	base, ok := ip.getVar(st.Name)
	if !ok {
		return rtErrf("undefined variable %s", st.Name)
	}
	idx, err := ip.evalExpr(st.Idx)
	if err != nil {
		return err
	}
	val, err := ip.evalExpr(st.Val)
	if err != nil {
		return err
	}
	if base.Tag != VTArray || idx.Tag != VTInt {
		return rtErrf("array element assignment expects array variable and int index")
	}
	i := idx.Int()
	if i < 0 {
		return rtErrf("negative index")
	}
	items := base.Array()
	if i >= int64(len(items)) {
		return rtErrf("index out of bounds")
	}
	items[i] = val // items is already our private copy from getVar
	ip.define(st.Name, ArrayV(items))
	return nil
}

// ----- expression evaluation -----

func (ip *Interp) evalExpr(e Expr) (Value, error) {
	switch ex := e.(type) {
	case *StrLit:
		return StrV(ex.Val), nil
	case *IntLit:
		return IntV(ex.Val), nil
	case *FloatLit:
		return FloatV(ex.Val), nil
	case *BoolLit:
		return BoolV(ex.Val), nil
	case *Ident:
		return ip.evalIdent(ex.Name)
	case *UnaryNeg:
		v, err := ip.evalExpr(ex.Operand)
		if err != nil {
			return Value{}, err
		}
		switch v.Tag {
		case VTInt:
			return IntV(-v.Int()), nil
		case VTFloat:
			return FloatV(-v.Float()), nil
		}
		return Value{}, rtErrf("unary '-' expects numeric")
	case *UnaryNot:
		v, err := ip.evalExpr(ex.Operand)
		if err != nil {
			return Value{}, err
		}
		if v.Tag != VTBool {
			return Value{}, rtErrf("unary '!' expects Bool")
		}
		return BoolV(!v.Bool()), nil
	case *Binary:
		return ip.evalBinary(ex)
	case *ArrayLit:
		out := make([]Value, 0, len(ex.Elems))
		for _, el := range ex.Elems {
			v, err := ip.evalExpr(el)
			if err != nil {
				return Value{}, err
			}
			out = append(out, v)
		}
		return ArrayV(out), nil
	case *Index:
		return ip.evalIndex(ex)
	case *Lambda:
		return Value{Tag: VTLambda, Data: &LambdaVal{
			Params:   ex.Params,
			Body:     ex.Body,
			Captured: cloneFrame(ip.vars()),
		}}, nil
	case *Property:
		obj, err := ip.evalExpr(ex.Target)
		if err != nil {
			return Value{}, err
		}
		if obj.Tag != VTObject {
			return Value{}, rtErrf("property access on non-object")
		}
		v, ok := obj.Object()[ex.Name]
		if !ok {
			return Value{}, rtErrf("unknown property %s", ex.Name)
		}
		return v, nil
	case *MethodCall:
		return ip.evalMethodCall(ex)
	case *CtorCall:
		return ip.evalCtorCall(ex)
	case *Call:
		return ip.evalCall(ex)
	case *ListComp:
		return ip.evalListComp(ex)
	case *BlockExpr:
		ip.pushFrame(nil)
		bv, err := ip.blockValue(ex.Stmts)
		ip.popFrame()
		if err != nil {
			return Value{}, err
		}
		if bv == nil {
			return ArrayV(nil), nil
		}
		return *bv, nil
	case *MatchExpr:
		return ip.evalMatch(ex)
	default:
		return Value{}, rtErrf("internal: unhandled expression %T", e)
	}
}

func (ip *Interp) evalIdent(name string) (Value, error) {
	if v, ok := ip.getVar(name); ok {
		return v, nil
	}
	if _, ok := ip.funcs[name]; ok {
		return FuncRefV(name), nil
	}
	if _, ok := ip.guardedFuncs[name]; ok {
		return FuncRefV(name), nil
	}
	if _, ok := ip.patternFuncs[name]; ok {
		return FuncRefV(name), nil
	}
	if arity, ok := ip.dataCtors[name]; ok {
		if arity == 0 {
			return Value{Tag: VTCtor, Data: &CtorVal{Name: name}}, nil
		}
		return FuncRefV(name), nil
	}
	return Value{}, rtErrf("undefined variable %s", name)
}

func (ip *Interp) evalIndex(ex *Index) (Value, error) {
	arr, err := ip.evalExpr(ex.Target)
	if err != nil {
		return Value{}, err
	}
	idx, err := ip.evalExpr(ex.Idx)
	if err != nil {
		return Value{}, err
	}
	if arr.Tag != VTArray || idx.Tag != VTInt {
		return Value{}, rtErrf("indexing expects array[index]")
	}
	n := idx.Int()
	if n < 0 {
		return Value{}, rtErrf("negative index not supported")
	}
	items := arr.Array()
	if n >= int64(len(items)) {
		return Value{}, rtErrf("index out of bounds")
	}
	return items[n], nil
}

func (ip *Interp) evalCtorCall(ex *CtorCall) (Value, error) {
	arity, ok := ip.dataCtors[ex.Name]
	if !ok {
		return Value{}, rtErrf("unknown constructor %s", ex.Name)
	}
	vals, err := ip.evalArgs(ex.Args)
	if err != nil {
		return Value{}, err
	}
	switch {
	case len(vals) < arity:
		return Value{Tag: VTPartial, Data: &PartialVal{Name: ex.Name, Applied: vals}}, nil
	case len(vals) == arity:
		return Value{Tag: VTCtor, Data: &CtorVal{Name: ex.Name, Fields: vals}}, nil
	default:
		return Value{}, rtErrf("constructor arity mismatch")
	}
}

func (ip *Interp) evalArgs(args []Expr) ([]Value, error) {
	vals := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// evalCall dispatches a plain call by name: fixed builtins first, then a
// local binding holding a callable, then the global definition tables,
// then constructors. Fewer arguments than the target arity produce a
// partial application; more are an arity error.
func (ip *Interp) evalCall(ex *Call) (Value, error) {
	if fn, ok := ip.builtins[ex.Callee]; ok {
		return fn(ip, ex.Args)
	}

	if v, ok := ip.getVar(ex.Callee); ok {
		vals, err := ip.evalArgs(ex.Args)
		if err != nil {
			return Value{}, err
		}
		switch v.Tag {
		case VTLambda:
			return ip.applyLambda(v.Data.(*LambdaVal), vals)
		case VTFuncRef:
			return ip.callFunctionValues(v.Str(), vals)
		case VTPartial:
			pv := v.Data.(*PartialVal)
			return ip.extendPartial(pv, vals)
		default:
			return Value{}, rtErrf("%s is not callable", ex.Callee)
		}
	}

	if def, ok := ip.funcs[ex.Callee]; ok {
		vals, err := ip.evalArgs(ex.Args)
		if err != nil {
			return Value{}, err
		}
		switch {
		case len(vals) < len(def.Params):
			return Value{Tag: VTPartial, Data: &PartialVal{Name: ex.Callee, Applied: vals}}, nil
		case len(vals) == len(def.Params):
			return ip.callFunctionValues(ex.Callee, vals)
		default:
			return Value{}, rtErrf("too many arguments")
		}
	}
	if clauses, ok := ip.guardedFuncs[ex.Callee]; ok {
		vals, err := ip.evalArgs(ex.Args)
		if err != nil {
			return Value{}, err
		}
		arity := clauseArity(len(clauses) > 0, func() int { return len(clauses[0].Params) })
		switch {
		case len(vals) < arity:
			return Value{Tag: VTPartial, Data: &PartialVal{Name: ex.Callee, Applied: vals}}, nil
		case len(vals) == arity:
			return ip.callGuardedFunctionValues(ex.Callee, vals)
		default:
			return Value{}, rtErrf("too many arguments")
		}
	}
	if clauses, ok := ip.patternFuncs[ex.Callee]; ok {
		vals, err := ip.evalArgs(ex.Args)
		if err != nil {
			return Value{}, err
		}
		arity := clauseArity(len(clauses) > 0, func() int { return len(clauses[0].Patterns) })
		switch {
		case len(vals) < arity:
			return Value{Tag: VTPartial, Data: &PartialVal{Name: ex.Callee, Applied: vals}}, nil
		case len(vals) == arity:
			return ip.callPatternFunctionValues(ex.Callee, vals)
		default:
			return Value{}, rtErrf("too many arguments")
		}
	}
	if arity, ok := ip.dataCtors[ex.Callee]; ok {
		vals, err := ip.evalArgs(ex.Args)
		if err != nil {
			return Value{}, err
		}
		switch {
		case len(vals) < arity:
			return Value{Tag: VTPartial, Data: &PartialVal{Name: ex.Callee, Applied: vals}}, nil
		case len(vals) == arity:
			return Value{Tag: VTCtor, Data: &CtorVal{Name: ex.Callee, Fields: vals}}, nil
		default:
			return Value{}, rtErrf("constructor arity mismatch")
		}
	}
	return Value{}, rtErrf("unknown function %s", ex.Callee)
}

func clauseArity(ok bool, f func() int) int {
	if !ok {
		return 0
	}
	return f()
}

func (ip *Interp) evalMethodCall(ex *MethodCall) (Value, error) {
	obj, err := ip.evalExpr(ex.Target)
	if err != nil {
		return Value{}, err
	}
	if obj.Tag != VTObject {
		return Value{}, rtErrf("method call on non-object")
	}
	fn, ok := obj.Object()[ex.Method]
	if !ok {
		return Value{}, rtErrf("unknown method %s", ex.Method)
	}
	vals, err := ip.evalArgs(ex.Args)
	if err != nil {
		return Value{}, err
	}
	switch fn.Tag {
	case VTFuncRef:
		return ip.callFunctionValues(fn.Str(), vals)
	case VTLambda:
		return ip.callLambdaValues(fn.Data.(*LambdaVal), vals)
	default:
		return Value{}, rtErrf("%s is not callable", ex.Method)
	}
}

// ----- callable application -----

// applyValue invokes an already-evaluated callable with argument values.
// Used by the higher-order builtins (map, filter, reduce).
func (ip *Interp) applyValue(fn Value, vals []Value) (Value, error) {
	switch fn.Tag {
	case VTLambda:
		return ip.applyLambda(fn.Data.(*LambdaVal), vals)
	case VTFuncRef:
		return ip.callFunctionValues(fn.Str(), vals)
	case VTPartial:
		return ip.extendPartial(fn.Data.(*PartialVal), vals)
	default:
		return Value{}, rtErrf("callable must be a function name or lambda")
	}
}

// applyLambda extends a lambda with fewer values than parameters left,
// or calls it when the count matches.
func (ip *Interp) applyLambda(l *LambdaVal, vals []Value) (Value, error) {
	switch {
	case len(vals) < len(l.Params):
		captured := cloneFrame(l.Captured)
		for i, v := range vals {
			captured[l.Params[i]] = v
		}
		return Value{Tag: VTLambda, Data: &LambdaVal{
			Params:   l.Params[len(vals):],
			Body:     l.Body,
			Captured: captured,
		}}, nil
	case len(vals) == len(l.Params):
		return ip.callLambdaValues(l, vals)
	default:
		return Value{}, rtErrf("too many arguments for lambda")
	}
}

// callLambdaValues pushes the captured snapshot frame, then a fresh
// parameter frame, evaluates the body, and pops both on every path.
func (ip *Interp) callLambdaValues(l *LambdaVal, vals []Value) (Value, error) {
	if len(l.Params) != len(vals) {
		return Value{}, rtErrf("arity mismatch for lambda")
	}
	ip.pushFrame(cloneFrame(l.Captured))
	ip.pushFrame(nil)
	for i, p := range l.Params {
		ip.define(p, vals[i])
	}
	v, err := ip.evalExpr(l.Body)
	ip.popFrame()
	ip.popFrame()
	return v, err
}

// callFunctionValues resolves a function name against the definition
// tables, routing reserved-prefix names to the builtin module backends.
func (ip *Interp) callFunctionValues(name string, vals []Value) (Value, error) {
	if isSDLBuiltin(name) {
		return ip.callSDLBuiltin(name, vals)
	}
	if isLinalgBuiltin(name) {
		return ip.callLinalgBuiltin(name, vals)
	}
	if def, ok := ip.funcs[name]; ok {
		if len(def.Params) != len(vals) {
			return Value{}, rtErrf("arity mismatch for %s", name)
		}
		ip.pushFrame(nil)
		for i, p := range def.Params {
			ip.define(p, vals[i])
		}
		ret, err := ip.blockValue(def.Body)
		ip.popFrame()
		if err != nil {
			return Value{}, err
		}
		if ret == nil {
			return IntV(0), nil
		}
		return *ret, nil
	}
	if clauses, ok := ip.guardedFuncs[name]; ok {
		arity := clauseArity(len(clauses) > 0, func() int { return len(clauses[0].Params) })
		if arity != len(vals) {
			return Value{}, rtErrf("arity mismatch for %s", name)
		}
		return ip.callGuardedFunctionValues(name, vals)
	}
	if _, ok := ip.patternFuncs[name]; ok {
		return ip.callPatternFunctionValues(name, vals)
	}
	if arity, ok := ip.dataCtors[name]; ok {
		if arity != len(vals) {
			return Value{}, rtErrf("constructor arity mismatch")
		}
		return Value{Tag: VTCtor, Data: &CtorVal{Name: name, Fields: vals}}, nil
	}
	return Value{}, rtErrf("unknown function %s", name)
}

// callGuardedFunctionValues tries clauses in declaration order: bind
// parameters, evaluate the guard, first true guard wins.
func (ip *Interp) callGuardedFunctionValues(name string, vals []Value) (Value, error) {
	clauses, ok := ip.guardedFuncs[name]
	if !ok {
		return Value{}, rtErrf("unknown guarded function %s", name)
	}
	for _, c := range clauses {
		if len(c.Params) != len(vals) {
			return Value{}, rtErrf("arity mismatch for %s", name)
		}
		ip.pushFrame(nil)
		for i, p := range c.Params {
			ip.define(p, cloneValue(vals[i]))
		}
		gv, err := ip.evalExpr(c.Guard)
		if err != nil {
			ip.popFrame()
			return Value{}, err
		}
		if gv.isTrue() {
			ret, err := ip.blockValue(c.Body)
			ip.popFrame()
			if err != nil {
				return Value{}, err
			}
			if ret == nil {
				return IntV(0), nil
			}
			return *ret, nil
		}
		ip.popFrame()
	}
	return Value{}, rtErrf("no guard matched for %s", name)
}

// callPatternFunctionValues tries clauses in declaration order. Each
// attempt gets its own frame, so binds made before a failing sibling
// pattern are discarded by the frame pop rather than rolled back.
func (ip *Interp) callPatternFunctionValues(name string, vals []Value) (Value, error) {
	clauses, ok := ip.patternFuncs[name]
	if !ok {
		return Value{}, rtErrf("unknown pattern function %s", name)
	}
	for _, c := range clauses {
		if len(c.Patterns) != len(vals) {
			return Value{}, rtErrf("arity mismatch for %s", name)
		}
		ip.pushFrame(nil)
		allMatch := true
		for i, pat := range c.Patterns {
			m, err := ip.matchPattern(pat, vals[i])
			if err != nil {
				ip.popFrame()
				return Value{}, err
			}
			if !m {
				allMatch = false
				break
			}
		}
		if allMatch {
			guardOK := true
			if c.Guard != nil {
				gv, err := ip.evalExpr(c.Guard)
				if err != nil {
					ip.popFrame()
					return Value{}, err
				}
				guardOK = gv.isTrue()
			}
			if guardOK {
				ret, err := ip.blockValue(c.Body)
				ip.popFrame()
				if err != nil {
					return Value{}, err
				}
				if ret == nil {
					return IntV(0), nil
				}
				return *ret, nil
			}
		}
		ip.popFrame()
	}
	return Value{}, rtErrf("no pattern clause matched for %s", name)
}

// extendPartial appends values to a partial application, resolving the
// target's arity against the definition tables.
func (ip *Interp) extendPartial(pv *PartialVal, vals []Value) (Value, error) {
	applied := make([]Value, 0, len(pv.Applied)+len(vals))
	applied = append(applied, pv.Applied...)
	applied = append(applied, vals...)

	finishFunc := func(arity int, call func([]Value) (Value, error)) (Value, error) {
		switch {
		case len(applied) < arity:
			return Value{Tag: VTPartial, Data: &PartialVal{Name: pv.Name, Applied: applied}}, nil
		case len(applied) == arity:
			return call(applied)
		default:
			return Value{}, rtErrf("too many arguments for function partial")
		}
	}

	if def, ok := ip.funcs[pv.Name]; ok {
		return finishFunc(len(def.Params), func(vs []Value) (Value, error) {
			return ip.callFunctionValues(pv.Name, vs)
		})
	}
	if clauses, ok := ip.guardedFuncs[pv.Name]; ok {
		arity := clauseArity(len(clauses) > 0, func() int { return len(clauses[0].Params) })
		return finishFunc(arity, func(vs []Value) (Value, error) {
			return ip.callGuardedFunctionValues(pv.Name, vs)
		})
	}
	if clauses, ok := ip.patternFuncs[pv.Name]; ok {
		arity := clauseArity(len(clauses) > 0, func() int { return len(clauses[0].Patterns) })
		return finishFunc(arity, func(vs []Value) (Value, error) {
			return ip.callPatternFunctionValues(pv.Name, vs)
		})
	}
	if arity, ok := ip.dataCtors[pv.Name]; ok {
		switch {
		case len(applied) < arity:
			return Value{Tag: VTPartial, Data: &PartialVal{Name: pv.Name, Applied: applied}}, nil
		case len(applied) == arity:
			return Value{Tag: VTCtor, Data: &CtorVal{Name: pv.Name, Fields: applied}}, nil
		default:
			return Value{}, rtErrf("too many arguments for constructor partial")
		}
	}
	return Value{}, rtErrf("unknown target in partial")
}

// ----- pattern matching -----

// matchPattern reports whether v matches pat, binding identifier
// subpatterns into the current frame as a side effect. Binds are not
// transactional; callers discard them by popping the attempt's frame.
func (ip *Interp) matchPattern(pat Pattern, v Value) (bool, error) {
	switch p := pat.(type) {
	case *WildcardPat:
		return true, nil
	case *BindPat:
		ip.define(p.Name, cloneValue(v))
		return true, nil
	case *IntPat:
		return v.Tag == VTInt && v.Int() == p.Val, nil
	case *BoolPat:
		return v.Tag == VTBool && v.Bool() == p.Val, nil
	case *CtorPat:
		if v.Tag != VTCtor {
			return false, nil
		}
		c := v.Data.(*CtorVal)
		if c.Name != p.Name || len(c.Fields) != p.Arity {
			return false, nil
		}
		for i, sp := range p.Sub {
			m, err := ip.matchPattern(sp, c.Fields[i])
			if err != nil || !m {
				return false, err
			}
		}
		return true, nil
	case *TuplePat:
		if v.Tag != VTArray {
			return false, nil
		}
		items := v.Array()
		if len(items) != len(p.Sub) {
			return false, nil
		}
		for i, sp := range p.Sub {
			m, err := ip.matchPattern(sp, items[i])
			if err != nil || !m {
				return false, err
			}
		}
		return true, nil
	default:
		return false, rtErrf("internal: unhandled pattern %T", pat)
	}
}

// evalMatch evaluates the scrutinee once, then tries arms in order with
// a fresh frame per attempt.
func (ip *Interp) evalMatch(ex *MatchExpr) (Value, error) {
	ip.checkMatchRedundancy(ex.Arms)
	val, err := ip.evalExpr(ex.Scrutinee)
	if err != nil {
		return Value{}, err
	}
	for _, arm := range ex.Arms {
		ip.pushFrame(nil)
		matched, err := ip.matchPattern(arm.Pat, val)
		if err != nil {
			ip.popFrame()
			return Value{}, err
		}
		if matched && arm.Guard != nil {
			gv, err := ip.evalExpr(arm.Guard)
			if err != nil {
				ip.popFrame()
				return Value{}, err
			}
			matched = gv.isTrue()
		}
		if matched {
			res, err := ip.evalExpr(arm.Body)
			ip.popFrame()
			if err != nil {
				return Value{}, err
			}
			ip.checkMatchExhaustiveness(ex.Arms)
			return res, nil
		}
		ip.popFrame()
	}
	// Not gated by TONG_NO_MATCH_WARN: the match is about to fail.
	fmt.Fprintf(ip.Diag, "[TONG][warn] non-exhaustive match at runtime\n")
	return Value{}, rtErrf("non-exhaustive match")
}

// ----- list comprehensions -----

// evalListComp binds generators left to right, each element in its own
// child frame so bindings never leak between iterations or outward.
func (ip *Interp) evalListComp(ex *ListComp) (Value, error) {
	var out []Value
	var walk func(idx int) error
	walk = func(idx int) error {
		if idx == len(ex.Generators) {
			if ex.Pred != nil {
				pv, err := ip.evalExpr(ex.Pred)
				if err != nil {
					return err
				}
				if !pv.isTrue() {
					return nil
				}
			}
			ev, err := ip.evalExpr(ex.Elem)
			if err != nil {
				return err
			}
			out = append(out, ev)
			return nil
		}
		g := ex.Generators[idx]
		src, err := ip.evalExpr(g.Source)
		if err != nil {
			return err
		}
		if src.Tag != VTArray {
			return rtErrf("list comprehension expects array source for generator '%s'", g.Name)
		}
		for _, it := range src.Array() {
			ip.pushFrame(nil)
			ip.define(g.Name, it)
			err := walk(idx + 1)
			ip.popFrame()
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return Value{}, err
	}
	return ArrayV(out), nil
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
