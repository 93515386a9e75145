// builtins.go: the fixed builtin functions
//
// len, sum, map, filter, reduce and import are resolved before any
// user definition or local binding, so they cannot be shadowed.
package tong

type builtinFn func(ip *Interp, args []Expr) (Value, error)

func registerCoreBuiltins(ip *Interp) {
	ip.builtins["len"] = builtinLen
	ip.builtins["import"] = builtinImport
	ip.builtins["sum"] = builtinSum
	ip.builtins["map"] = builtinMap
	ip.builtins["filter"] = builtinFilter
	ip.builtins["reduce"] = builtinReduce
}

func builtinLen(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, rtErrf("len expects 1 argument")
	}
	v, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Tag != VTArray {
		return Value{}, rtErrf("len expects array")
	}
	return IntV(int64(len(v.Array()))), nil
}

func builtinImport(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, rtErrf("import expects 1 argument")
	}
	v, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Tag != VTStr {
		return Value{}, rtErrf("import expects string module name")
	}
	return ip.importModule(v.Str())
}

func builtinSum(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, rtErrf("sum expects 1 argument")
	}
	v, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Tag != VTArray {
		return Value{}, rtErrf("sum expects array")
	}
	var totalI int64
	var totalF float64
	isFloat := false
	for _, it := range v.Array() {
		switch it.Tag {
		case VTInt:
			totalI += it.Int()
		case VTFloat:
			totalF += it.Float()
			isFloat = true
		default:
			return Value{}, rtErrf("sum expects numeric array")
		}
	}
	if isFloat {
		return FloatV(float64(totalI) + totalF), nil
	}
	return IntV(totalI), nil
}

func builtinMap(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 2 {
		return Value{}, rtErrf("map expects 2 arguments (array, function)")
	}
	arr, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	fn, err := ip.evalExpr(args[1])
	if err != nil {
		return Value{}, err
	}
	if arr.Tag != VTArray {
		return Value{}, rtErrf("map expects array as first argument")
	}
	items := arr.Array()
	out := make([]Value, 0, len(items))
	for _, it := range items {
		r, err := ip.applyValue(fn, []Value{it})
		if err != nil {
			return Value{}, err
		}
		out = append(out, r)
	}
	return ArrayV(out), nil
}

func builtinFilter(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 2 {
		return Value{}, rtErrf("filter expects 2 arguments (array, function)")
	}
	arr, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	fn, err := ip.evalExpr(args[1])
	if err != nil {
		return Value{}, err
	}
	if arr.Tag != VTArray {
		return Value{}, rtErrf("filter expects array as first argument")
	}
	var out []Value
	for _, it := range arr.Array() {
		r, err := ip.applyValue(fn, []Value{it})
		if err != nil {
			return Value{}, err
		}
		if r.Tag != VTBool {
			return Value{}, rtErrf("filter function must return bool")
		}
		if r.Bool() {
			out = append(out, it)
		}
	}
	return ArrayV(out), nil
}

func builtinReduce(ip *Interp, args []Expr) (Value, error) {
	if len(args) != 3 {
		return Value{}, rtErrf("reduce expects 3 arguments (array, function, initial)")
	}
	arr, err := ip.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	fn, err := ip.evalExpr(args[1])
	if err != nil {
		return Value{}, err
	}
	acc, err := ip.evalExpr(args[2])
	if err != nil {
		return Value{}, err
	}
	if arr.Tag != VTArray {
		return Value{}, rtErrf("reduce expects array as first argument")
	}
	for _, it := range arr.Array() {
		acc, err = ip.applyValue(fn, []Value{acc, it})
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}
