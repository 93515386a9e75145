// interp_ops.go: binary operator evaluation
//
// '&' and '||' short-circuit and demand Bool operands. Arithmetic and
// ordering mix ints and floats by promotion, with one deliberate
// exception: '/' on two ints still yields a float. '==' and '!=' never
// promote; two floats compare within machine epsilon instead of bitwise.
package tong

import "math"

// floatEqEps is the tolerance for '==' and '!=' between floats.
const floatEqEps = 2.220446049250313e-16 // math.Nextafter(1, 2) - 1

func (ip *Interp) evalBinary(ex *Binary) (Value, error) {
	switch ex.Op {
	case OpAnd:
		l, err := ip.evalExpr(ex.Left)
		if err != nil {
			return Value{}, err
		}
		if l.Tag != VTBool {
			return Value{}, rtErrf("left operand of '&' must be Bool")
		}
		if !l.Bool() {
			return BoolV(false), nil
		}
		r, err := ip.evalExpr(ex.Right)
		if err != nil {
			return Value{}, err
		}
		if r.Tag != VTBool {
			return Value{}, rtErrf("right operand of '&' must be Bool")
		}
		return r, nil
	case OpOr:
		l, err := ip.evalExpr(ex.Left)
		if err != nil {
			return Value{}, err
		}
		if l.Tag != VTBool {
			return Value{}, rtErrf("left operand of '||' must be Bool")
		}
		if l.Bool() {
			return BoolV(true), nil
		}
		r, err := ip.evalExpr(ex.Right)
		if err != nil {
			return Value{}, err
		}
		if r.Tag != VTBool {
			return Value{}, rtErrf("right operand of '||' must be Bool")
		}
		return r, nil
	}

	l, err := ip.evalExpr(ex.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := ip.evalExpr(ex.Right)
	if err != nil {
		return Value{}, err
	}
	return binaryValues(ex.Op, l, r)
}

func binaryValues(op BinOp, l, r Value) (Value, error) {
	switch {
	case l.Tag == VTInt && r.Tag == VTInt:
		a, b := l.Int(), r.Int()
		switch op {
		case OpAdd:
			return IntV(a + b), nil
		case OpSub:
			return IntV(a - b), nil
		case OpMul:
			return IntV(a * b), nil
		case OpDiv:
			return FloatV(float64(a) / float64(b)), nil
		case OpMod:
			return IntV(a % b), nil
		case OpEq:
			return BoolV(a == b), nil
		case OpNe:
			return BoolV(a != b), nil
		case OpLt:
			return BoolV(a < b), nil
		case OpLe:
			return BoolV(a <= b), nil
		case OpGt:
			return BoolV(a > b), nil
		case OpGe:
			return BoolV(a >= b), nil
		}
	case (l.Tag == VTInt || l.Tag == VTFloat) && (r.Tag == VTInt || r.Tag == VTFloat):
		a, b := numAsFloat(l), numAsFloat(r)
		switch op {
		case OpAdd:
			return FloatV(a + b), nil
		case OpSub:
			return FloatV(a - b), nil
		case OpMul:
			return FloatV(a * b), nil
		case OpDiv:
			return FloatV(a / b), nil
		case OpEq:
			if l.Tag == VTFloat && r.Tag == VTFloat {
				return BoolV(math.Abs(a-b) < floatEqEps), nil
			}
		case OpNe:
			if l.Tag == VTFloat && r.Tag == VTFloat {
				return BoolV(math.Abs(a-b) >= floatEqEps), nil
			}
		case OpLt:
			return BoolV(a < b), nil
		case OpLe:
			return BoolV(a <= b), nil
		case OpGt:
			return BoolV(a > b), nil
		case OpGe:
			return BoolV(a >= b), nil
		}
	case l.Tag == VTBool && r.Tag == VTBool:
		switch op {
		case OpEq:
			return BoolV(l.Bool() == r.Bool()), nil
		case OpNe:
			return BoolV(l.Bool() != r.Bool()), nil
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		switch op {
		case OpEq:
			return BoolV(l.Str() == r.Str()), nil
		case OpNe:
			return BoolV(l.Str() != r.Str()), nil
		}
	}
	return Value{}, rtErrf("unsupported operands for operation: (%s, %s)", FormatValue(l), FormatValue(r))
}

func numAsFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Int())
	}
	return v.Float()
}
