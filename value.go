// value.go: the runtime value model and its display rules
package tong

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueTag identifies the kind of a Value.
type ValueTag int

const (
	VTStr ValueTag = iota
	VTInt
	VTFloat
	VTBool
	VTArray
	VTLambda
	VTFuncRef
	VTObject
	VTCtor
	VTPartial
)

// Value is the tagged union of all runtime values. Data holds the payload
// for the tag: string, int64, float64, bool, []Value, *LambdaVal, string
// (function name), map[string]Value, *CtorVal, or *PartialVal.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// LambdaVal is an anonymous function with a by-value snapshot of the
// innermost frame at creation time. Later mutation of the enclosing scope
// is invisible to the closure.
type LambdaVal struct {
	Params   []string
	Body     Expr
	Captured map[string]Value
}

// CtorVal is a tagged data value introduced by a data declaration.
type CtorVal struct {
	Name   string
	Fields []Value
}

// PartialVal is a named callable applied to fewer arguments than its
// arity, awaiting the remainder.
type PartialVal struct {
	Name    string
	Applied []Value
}

func StrV(s string) Value          { return Value{Tag: VTStr, Data: s} }
func IntV(i int64) Value           { return Value{Tag: VTInt, Data: i} }
func FloatV(f float64) Value       { return Value{Tag: VTFloat, Data: f} }
func BoolV(b bool) Value           { return Value{Tag: VTBool, Data: b} }
func ArrayV(items []Value) Value   { return Value{Tag: VTArray, Data: items} }
func FuncRefV(name string) Value   { return Value{Tag: VTFuncRef, Data: name} }
func ObjectV(m map[string]Value) Value {
	return Value{Tag: VTObject, Data: m}
}

func (v Value) Str() string              { return v.Data.(string) }
func (v Value) Int() int64               { return v.Data.(int64) }
func (v Value) Float() float64           { return v.Data.(float64) }
func (v Value) Bool() bool               { return v.Data.(bool) }
func (v Value) Array() []Value           { return v.Data.([]Value) }
func (v Value) Object() map[string]Value { return v.Data.(map[string]Value) }

func (v Value) isTrue() bool { return v.Tag == VTBool && v.Bool() }

// cloneValue deep-copies arrays and objects so each binding owns its own
// copy; scalar and callable payloads are shared safely.
func cloneValue(v Value) Value {
	switch v.Tag {
	case VTArray:
		items := v.Array()
		out := make([]Value, len(items))
		for i, it := range items {
			out[i] = cloneValue(it)
		}
		return ArrayV(out)
	case VTObject:
		m := v.Object()
		out := make(map[string]Value, len(m))
		for k, fv := range m {
			out[k] = cloneValue(fv)
		}
		return ObjectV(out)
	case VTCtor:
		c := v.Data.(*CtorVal)
		fields := make([]Value, len(c.Fields))
		for i, f := range c.Fields {
			fields[i] = cloneValue(f)
		}
		return Value{Tag: VTCtor, Data: &CtorVal{Name: c.Name, Fields: fields}}
	default:
		return v
	}
}

// cloneFrame copies a name->value frame, deep-copying the values.
func cloneFrame(frame map[string]Value) map[string]Value {
	out := make(map[string]Value, len(frame))
	for k, v := range frame {
		out[k] = cloneValue(v)
	}
	return out
}

// FormatValue renders a value for print statements and the REPL echo.
// Whole floats keep one decimal place so 4.0 does not print as 4.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTStr:
		return v.Str()
	case VTInt:
		return strconv.FormatInt(v.Int(), 10)
	case VTFloat:
		f := v.Float()
		if f == float64(int64(f)) {
			return fmt.Sprintf("%.1f", f)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case VTBool:
		return strconv.FormatBool(v.Bool())
	case VTArray:
		items := v.Array()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = FormatValue(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTLambda:
		return "<lambda>"
	case VTFuncRef:
		return fmt.Sprintf("<func:%s>", v.Str())
	case VTObject:
		return "<object>"
	case VTCtor:
		c := v.Data.(*CtorVal)
		if len(c.Fields) == 0 {
			return c.Name
		}
		parts := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			parts[i] = FormatValue(f)
		}
		return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ","))
	case VTPartial:
		pv := v.Data.(*PartialVal)
		return fmt.Sprintf("<partial:%s:%d>", pv.Name, len(pv.Applied))
	default:
		return "<unknown>"
	}
}
