package vm

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindFloat32
	KindString
	KindObject
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int"
	case KindFloat32:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Object is a heap-allocated class instance: a class name plus a field map.
type Object struct {
	ClassName string
	Fields    map[string]Value
}

// Array is a heap-allocated dense ordered sequence of values.
type Array struct {
	Elements []Value
}

// Function is a first-class reference to a compiled function, used for
// host callback registration (encoder/touch/timer handlers).
type Function struct {
	EntryPoint uint32
	ParamCount int
	Name       string
}

// Value is the VM's tagged-union runtime value, matching the closed set of
// kinds the language defines: Null, Bool, Int32, Float32, String, Object,
// Array, Function. Heap kinds (String/Object/Array) hold pointers so that
// mutation through one reference is visible through all copies of the
// Value, matching reference semantics for fields/array-indexing.
type Value struct {
	kind   Kind
	b      bool
	i      int32
	f      float32
	str    *string
	object *Object
	array  *Array
	fn     *Function
}

func Null() Value                 { return Value{kind: KindNull} }
func Bool(v bool) Value           { return Value{kind: KindBool, b: v} }
func Int32(v int32) Value         { return Value{kind: KindInt32, i: v} }
func Float32(v float32) Value     { return Value{kind: KindFloat32, f: v} }
func String(v string) Value       { return Value{kind: KindString, str: &v} }
func ObjectRef(o *Object) Value   { return Value{kind: KindObject, object: o} }
func ArrayRef(a *Array) Value     { return Value{kind: KindArray, array: a} }
func FunctionRef(f *Function) Value { return Value{kind: KindFunction, fn: f} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() bool       { return v.b }
func (v Value) AsInt32() int32     { return v.i }
func (v Value) AsFloat32() float32 { return v.f }
func (v Value) AsString() string {
	if v.str == nil {
		return ""
	}
	return *v.str
}
func (v Value) AsObject() *Object     { return v.object }
func (v Value) AsArray() *Array       { return v.array }
func (v Value) AsFunction() *Function { return v.fn }

// Truthy implements the language's truthiness rule: Null is false, Bool is
// its own value, numbers are non-zero, strings are non-empty, and every
// heap reference (Object/Array/Function) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt32:
		return v.i != 0
	case KindFloat32:
		return v.f != 0
	case KindString:
		return v.AsString() != ""
	default:
		return true
	}
}

// Display renders a Value in its ADD/STR_CONCAT conversion form: Int32
// decimal, Float32 default formatting, Bool "true"/"false", Null "null",
// Object/Array via class name or "[Array length N]".
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt32:
		return strconv.FormatInt(int64(v.i), 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindString:
		return v.AsString()
	case KindObject:
		return v.object.ClassName
	case KindArray:
		return fmt.Sprintf("[Array length %d]", len(v.array.Elements))
	case KindFunction:
		return fmt.Sprintf("[Function %s]", v.fn.Name)
	default:
		return ""
	}
}

// Equals implements the language's equality rule: Null equals Null; Bool
// compares by value; Int32/Float32 compare numerically with int->float
// promotion; String compares by value; Object/Array/Function compare by
// reference identity; equality across other differing kinds is false.
func (v Value) Equals(other Value) bool {
	if v.kind == KindNull || other.kind == KindNull {
		return v.kind == other.kind
	}
	if isNumeric(v.kind) && isNumeric(other.kind) {
		return numericValue(v) == numericValue(other)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.AsString() == other.AsString()
	case KindObject:
		return v.object == other.object
	case KindArray:
		return v.array == other.array
	case KindFunction:
		return v.fn == other.fn
	default:
		return false
	}
}

func isNumeric(k Kind) bool { return k == KindInt32 || k == KindFloat32 }

func numericValue(v Value) float64 {
	if v.kind == KindInt32 {
		return float64(v.i)
	}
	return float64(v.f)
}
