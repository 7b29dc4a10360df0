package vm

import "dialscript/bytecode"

// binaryArith implements ADD/SUB/MUL/DIV/MOD: Integer op Integer wraps
// modulo 2^32 and stays Integer; if either operand is Float the whole
// operation promotes to Float; ADD with a String operand instead
// concatenates both operands' display form.
func (vm *VM) binaryArith(op bytecode.Op) (Result, bool) {
	b, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "arithmetic op on empty stack"))
	}
	a, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "arithmetic op needs two operands"))
	}

	if op == bytecode.ADD && (a.Kind() == KindString || b.Kind() == KindString) {
		vm.operandStack.Push(String(a.Display() + b.Display()))
		return ResultOK, true
	}

	if !isNumeric(a.Kind()) || !isNumeric(b.Kind()) {
		return vm.fault(newFault(TypeError, vm.pc, "arithmetic operator applied to non-numeric operand"))
	}

	if a.Kind() == KindFloat32 || b.Kind() == KindFloat32 {
		af, bf := numericValue(a), numericValue(b)
		var r float64
		switch op {
		case bytecode.ADD:
			r = af + bf
		case bytecode.SUB:
			r = af - bf
		case bytecode.MUL:
			r = af * bf
		case bytecode.DIV:
			if bf == 0 {
				return vm.fault(newFault(ArithmeticError, vm.pc, "division by zero"))
			}
			r = af / bf
		case bytecode.MOD:
			if bf == 0 {
				return vm.fault(newFault(ArithmeticError, vm.pc, "modulo by zero"))
			}
			r = float64(int64(af) % int64(bf))
		}
		vm.operandStack.Push(Float32(float32(r)))
		return ResultOK, true
	}

	ai, bi := uint32(a.AsInt32()), uint32(b.AsInt32())
	var r uint32
	switch op {
	case bytecode.ADD:
		r = ai + bi
	case bytecode.SUB:
		r = ai - bi
	case bytecode.MUL:
		r = ai * bi
	case bytecode.DIV:
		if bi == 0 {
			return vm.fault(newFault(ArithmeticError, vm.pc, "division by zero"))
		}
		r = uint32(int32(ai) / int32(bi))
	case bytecode.MOD:
		if bi == 0 {
			return vm.fault(newFault(ArithmeticError, vm.pc, "modulo by zero"))
		}
		r = uint32(int32(ai) % int32(bi))
	}
	vm.operandStack.Push(Int32(int32(r)))
	return ResultOK, true
}

func (vm *VM) unaryNeg() (Result, bool) {
	v, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "NEG on empty stack"))
	}
	switch v.Kind() {
	case KindInt32:
		vm.operandStack.Push(Int32(int32(-uint32(v.AsInt32()))))
	case KindFloat32:
		vm.operandStack.Push(Float32(-v.AsFloat32()))
	default:
		return vm.fault(newFault(TypeError, vm.pc, "NEG applied to a non-numeric value"))
	}
	return ResultOK, true
}

func (vm *VM) strConcat() (Result, bool) {
	b, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "STR_CONCAT on empty stack"))
	}
	a, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "STR_CONCAT needs two operands"))
	}
	vm.operandStack.Push(String(a.Display() + b.Display()))
	return ResultOK, true
}

// compare implements EQ/NE/LT/LE/GT/GE. EQ/NE use the language's general
// equality rule; the ordering comparisons are defined only for numeric
// pairs (with int->float promotion) and string pairs.
func (vm *VM) compare(op bytecode.Op) (Result, bool) {
	b, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "comparison on empty stack"))
	}
	a, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "comparison needs two operands"))
	}

	switch op {
	case bytecode.EQ:
		vm.operandStack.Push(Bool(a.Equals(b)))
		return ResultOK, true
	case bytecode.NE:
		vm.operandStack.Push(Bool(!a.Equals(b)))
		return ResultOK, true
	}

	if isNumeric(a.Kind()) && isNumeric(b.Kind()) {
		af, bf := numericValue(a), numericValue(b)
		vm.operandStack.Push(Bool(orderResult(op, af < bf, af == bf, af > bf)))
		return ResultOK, true
	}
	if a.Kind() == KindString && b.Kind() == KindString {
		as, bs := a.AsString(), b.AsString()
		vm.operandStack.Push(Bool(orderResult(op, as < bs, as == bs, as > bs)))
		return ResultOK, true
	}
	return vm.fault(newFault(TypeError, vm.pc, "ordering comparison requires two numbers or two strings"))
}

func orderResult(op bytecode.Op, lt, eq, gt bool) bool {
	switch op {
	case bytecode.LT:
		return lt
	case bytecode.LE:
		return lt || eq
	case bytecode.GT:
		return gt
	case bytecode.GE:
		return gt || eq
	default:
		return false
	}
}

// boolOp implements AND/OR: non-short-circuiting boolean operators over
// already-evaluated operands (short-circuit "and"/"or" source syntax is
// lowered to jumps by the compiler and never reaches these opcodes).
func (vm *VM) boolOp(op bytecode.Op) (Result, bool) {
	b, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "boolean op on empty stack"))
	}
	a, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "boolean op needs two operands"))
	}
	if a.Kind() != KindBool || b.Kind() != KindBool {
		return vm.fault(newFault(TypeError, vm.pc, "AND/OR require boolean operands"))
	}
	if op == bytecode.AND {
		vm.operandStack.Push(Bool(a.AsBool() && b.AsBool()))
	} else {
		vm.operandStack.Push(Bool(a.AsBool() || b.AsBool()))
	}
	return ResultOK, true
}
