// module_linalg.go: the "linalg" builtin module
//
// Tensors are plain objects carrying a "__tensor__" marker, an int
// "shape" array, and a row-major float "data" array, so scripts can
// destructure them with ordinary property access. Every operation is
// pure: set() returns a new tensor.
package tong

import "strings"

func isLinalgBuiltin(name string) bool { return strings.HasPrefix(name, "linalg_") }

func importLinalg() Value {
	obj := map[string]Value{}
	for _, fn := range []string{
		"zeros", "ones", "tensor", "shape", "rank", "get", "set",
		"add", "sub", "mul", "dot", "matmul", "transpose",
	} {
		obj[fn] = FuncRefV("linalg_" + fn)
	}
	return ObjectV(obj)
}

func newTensor(data []float64, shape []int) Value {
	shapeVals := make([]Value, len(shape))
	for i, d := range shape {
		shapeVals[i] = IntV(int64(d))
	}
	dataVals := make([]Value, len(data))
	for i, f := range data {
		dataVals[i] = FloatV(f)
	}
	return ObjectV(map[string]Value{
		"__tensor__": BoolV(true),
		"shape":      ArrayV(shapeVals),
		"data":       ArrayV(dataVals),
	})
}

// asTensor unpacks a tensor object into its shape and data, accepting
// ints in the data array for convenience.
func asTensor(v Value) (shape []int, data []float64, ok bool) {
	if v.Tag != VTObject {
		return nil, nil, false
	}
	m := v.Object()
	if mark, found := m["__tensor__"]; !found || mark.Tag != VTBool || !mark.Bool() {
		return nil, nil, false
	}
	shapeV, okS := m["shape"]
	dataV, okD := m["data"]
	if !okS || !okD || shapeV.Tag != VTArray || dataV.Tag != VTArray {
		return nil, nil, false
	}
	for _, sv := range shapeV.Array() {
		if sv.Tag != VTInt {
			return nil, nil, false
		}
		shape = append(shape, int(sv.Int()))
	}
	for _, dv := range dataV.Array() {
		switch dv.Tag {
		case VTInt:
			data = append(data, float64(dv.Int()))
		case VTFloat:
			data = append(data, dv.Float())
		default:
			return nil, nil, false
		}
	}
	return shape, data, true
}

func toIntVec(v Value) ([]int, error) {
	if v.Tag != VTArray {
		return nil, rtErrf("expected array of ints")
	}
	items := v.Array()
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Tag != VTInt || it.Int() < 0 {
			return nil, rtErrf("shape/index must be non-negative ints")
		}
		out = append(out, int(it.Int()))
	}
	return out, nil
}

func toFloatVec(v Value) ([]float64, error) {
	if v.Tag != VTArray {
		return nil, rtErrf("expected numeric array")
	}
	items := v.Array()
	out := make([]float64, 0, len(items))
	for _, it := range items {
		switch it.Tag {
		case VTInt:
			out = append(out, float64(it.Int()))
		case VTFloat:
			out = append(out, it.Float())
		default:
			return nil, rtErrf("expected numeric array")
		}
	}
	return out, nil
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// flatIndex converts a multi-dimensional index into a row-major offset.
func flatIndex(shape, idx []int) (int, error) {
	if len(shape) != len(idx) {
		return 0, rtErrf("index rank mismatch")
	}
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	off := 0
	for i, ix := range idx {
		if ix >= shape[i] {
			return 0, rtErrf("index out of bounds")
		}
		off += ix * strides[i]
	}
	return off, nil
}

func (ip *Interp) callLinalgBuiltin(name string, values []Value) (Value, error) {
	switch name {
	case "linalg_zeros":
		if len(values) != 1 {
			return Value{}, rtErrf("zeros(shape) expects 1 arg")
		}
		shape, err := toIntVec(values[0])
		if err != nil {
			return Value{}, err
		}
		return newTensor(make([]float64, numel(shape)), shape), nil
	case "linalg_ones":
		if len(values) != 1 {
			return Value{}, rtErrf("ones(shape) expects 1 arg")
		}
		shape, err := toIntVec(values[0])
		if err != nil {
			return Value{}, err
		}
		data := make([]float64, numel(shape))
		for i := range data {
			data[i] = 1.0
		}
		return newTensor(data, shape), nil
	case "linalg_tensor":
		if len(values) != 2 {
			return Value{}, rtErrf("tensor(data, shape) expects 2 args")
		}
		data, err := toFloatVec(values[0])
		if err != nil {
			return Value{}, err
		}
		shape, err := toIntVec(values[1])
		if err != nil {
			return Value{}, err
		}
		if len(data) != numel(shape) {
			return Value{}, rtErrf("data length does not match shape")
		}
		return newTensor(data, shape), nil
	case "linalg_shape":
		if len(values) != 1 {
			return Value{}, rtErrf("shape(t) expects 1 arg")
		}
		shape, _, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("argument is not a tensor")
		}
		out := make([]Value, len(shape))
		for i, d := range shape {
			out[i] = IntV(int64(d))
		}
		return ArrayV(out), nil
	case "linalg_rank":
		if len(values) != 1 {
			return Value{}, rtErrf("rank(t) expects 1 arg")
		}
		shape, _, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("argument is not a tensor")
		}
		return IntV(int64(len(shape))), nil
	case "linalg_get":
		if len(values) != 2 {
			return Value{}, rtErrf("get(t, idx) expects 2 args")
		}
		shape, data, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("argument is not a tensor")
		}
		idx, err := toIntVec(values[1])
		if err != nil {
			return Value{}, err
		}
		fi, err := flatIndex(shape, idx)
		if err != nil {
			return Value{}, err
		}
		return FloatV(data[fi]), nil
	case "linalg_set":
		if len(values) != 3 {
			return Value{}, rtErrf("set(t, idx, v) expects 3 args")
		}
		shape, data, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("argument is not a tensor")
		}
		idx, err := toIntVec(values[1])
		if err != nil {
			return Value{}, err
		}
		fi, err := flatIndex(shape, idx)
		if err != nil {
			return Value{}, err
		}
		var val float64
		switch values[2].Tag {
		case VTInt:
			val = float64(values[2].Int())
		case VTFloat:
			val = values[2].Float()
		default:
			return Value{}, rtErrf("value must be numeric")
		}
		data[fi] = val
		return newTensor(data, shape), nil
	case "linalg_add", "linalg_sub", "linalg_mul":
		if len(values) != 2 {
			return Value{}, rtErrf("binary elementwise expects 2 args")
		}
		sa, da, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("first arg not tensor")
		}
		sb, db, ok := asTensor(values[1])
		if !ok {
			return Value{}, rtErrf("second arg not tensor")
		}
		if !intSliceEq(sa, sb) {
			return Value{}, rtErrf("shape mismatch")
		}
		out := make([]float64, len(da))
		for i := range da {
			switch name {
			case "linalg_add":
				out[i] = da[i] + db[i]
			case "linalg_sub":
				out[i] = da[i] - db[i]
			default:
				out[i] = da[i] * db[i]
			}
		}
		return newTensor(out, sa), nil
	case "linalg_dot":
		if len(values) != 2 {
			return Value{}, rtErrf("dot(a,b) expects 2 args")
		}
		sa, da, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("first arg not tensor")
		}
		sb, db, ok := asTensor(values[1])
		if !ok {
			return Value{}, rtErrf("second arg not tensor")
		}
		if len(sa) != 1 || len(sb) != 1 {
			return Value{}, rtErrf("dot expects 1-D tensors")
		}
		if sa[0] != sb[0] {
			return Value{}, rtErrf("length mismatch")
		}
		s := 0.0
		for i := range da {
			s += da[i] * db[i]
		}
		return FloatV(s), nil
	case "linalg_matmul":
		if len(values) != 2 {
			return Value{}, rtErrf("matmul(a,b) expects 2 args")
		}
		sa, da, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("first arg not tensor")
		}
		sb, db, ok := asTensor(values[1])
		if !ok {
			return Value{}, rtErrf("second arg not tensor")
		}
		if len(sa) != 2 || len(sb) != 2 {
			return Value{}, rtErrf("matmul expects 2-D tensors")
		}
		if sa[1] != sb[0] {
			return Value{}, rtErrf("inner dimension mismatch")
		}
		m, k, n := sa[0], sa[1], sb[1]
		out := make([]float64, m*n)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				acc := 0.0
				for p := 0; p < k; p++ {
					acc += da[i*k+p] * db[p*n+j]
				}
				out[i*n+j] = acc
			}
		}
		return newTensor(out, []int{m, n}), nil
	case "linalg_transpose":
		if len(values) != 1 {
			return Value{}, rtErrf("transpose(a) expects 1 arg")
		}
		s, d, ok := asTensor(values[0])
		if !ok {
			return Value{}, rtErrf("argument not tensor")
		}
		if len(s) != 2 {
			return Value{}, rtErrf("transpose expects rank-2 tensor")
		}
		m, n := s[0], s[1]
		out := make([]float64, m*n)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				out[j*m+i] = d[i*n+j]
			}
		}
		return newTensor(out, []int{n, m}), nil
	default:
		return Value{}, rtErrf("unknown linalg builtin %s", name)
	}
}

func intSliceEq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
