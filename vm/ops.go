package vm

import "dialscript/native"

// doCall implements CALL funcIdx argCount: the argCount already-pushed
// arguments (rightmost/last-pushed on top) become the new frame's locals
// 0..argCount-1 in place, with no data movement — a method receiver,
// pushed before its arguments, lands at local 0 simply because it was
// pushed first.
func (vm *VM) doCall(funcIdx int, argc int) (Result, bool) {
	if funcIdx < 0 || funcIdx >= len(vm.module.FunctionEntryPoints) {
		return vm.fault(newFault(NameError, vm.pc, "call to undefined function index %d", funcIdx))
	}
	if len(vm.operandStack) < argc {
		return vm.fault(newFault(StackUnderflow, vm.pc, "CALL needs %d arguments", argc))
	}
	if len(vm.callStack) >= vm.config.CallStackLimit {
		return vm.fault(newFault(CallStackOverflow, vm.pc, "call stack exceeds %d frames", vm.config.CallStackLimit))
	}

	base := len(vm.operandStack) - argc

	vm.callStack = append(vm.callStack, Frame{
		ReturnPC:       vm.pc,
		LocalsBase:     base,
		LocalCount:     argc,
		TryHandlerBase: len(vm.tryHandlers),
	})
	vm.pc = int(vm.module.FunctionEntryPoints[funcIdx])
	return ResultOK, true
}

// doReturn implements RETURN: pop the result, truncate the operand stack
// back to the callee's LocalsBase (discarding its locals and any leftover
// temporaries above them) and any try handlers it installed, restore pc,
// and push the result. A frame entered by invokeFunction rather than CALL
// has ReturnPC set to sentinelReturnPC and stops the run loop instead of
// resuming a caller.
func (vm *VM) doReturn() (Result, bool) {
	result, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "RETURN on empty stack"))
	}
	if len(vm.callStack) == 0 {
		return vm.fault(newFault(CallStackOverflow, vm.pc, "RETURN with no active call frame"))
	}
	frame := vm.callStack[len(vm.callStack)-1]
	vm.callStack = vm.callStack[:len(vm.callStack)-1]
	vm.operandStack = vm.operandStack[:frame.LocalsBase]
	if len(vm.tryHandlers) > frame.TryHandlerBase {
		vm.tryHandlers = vm.tryHandlers[:frame.TryHandlerBase]
	}
	vm.operandStack.Push(result)

	if frame.ReturnPC == sentinelReturnPC {
		return ResultFinished, false
	}
	vm.pc = frame.ReturnPC
	return ResultOK, true
}

// raiseFault converts a built-in runtime fault into a catchable value (its
// formatted message) before transferring to the nearest handler, or stops
// the VM if none is active. No dedicated RuntimeFault Value kind exists in
// the closed value set (§3), so a caught built-in fault surfaces to script
// code as a String describing it.
func (vm *VM) raiseFault(f Fault) (Result, bool) {
	if len(vm.tryHandlers) == 0 {
		vm.lastFault = &f
		vm.running = false
		return ResultError, false
	}
	vm.unwindToHandler(String(f.Error()))
	return ResultOK, true
}

// raiseValue implements THROW: the thrown value itself becomes the catch
// value, unlike a built-in fault which is stringified first.
func (vm *VM) raiseValue(v Value) (Result, bool) {
	if len(vm.tryHandlers) == 0 {
		f := newFault(TypeError, vm.pc, "uncaught throw: %s", v.Display())
		vm.lastFault = &f
		vm.running = false
		return ResultError, false
	}
	vm.unwindToHandler(v)
	return ResultOK, true
}

func (vm *VM) unwindToHandler(catchValue Value) {
	h := vm.tryHandlers[len(vm.tryHandlers)-1]
	vm.tryHandlers = vm.tryHandlers[:len(vm.tryHandlers)-1]
	for len(vm.callStack) > h.callStackDepth {
		frame := vm.callStack[len(vm.callStack)-1]
		vm.callStack = vm.callStack[:len(vm.callStack)-1]
		if frame.LocalsBase < len(vm.operandStack) {
			vm.operandStack = vm.operandStack[:frame.LocalsBase]
		}
	}
	if h.operandDepth <= len(vm.operandStack) {
		vm.operandStack = vm.operandStack[:h.operandDepth]
	}
	vm.operandStack.Push(catchValue)
	vm.pc = h.catchPC
}

// --- heap-backed object/array/field operations --------------------------

func (vm *VM) newObject(className string) (Result, bool) {
	if err := vm.heap.allocate(sizeOfObject(className)); err != nil {
		return vm.outOfMemory(err)
	}
	obj := &Object{ClassName: className, Fields: make(map[string]Value)}
	vm.operandStack.Push(ObjectRef(obj))
	return ResultOK, true
}

func (vm *VM) newArray() (Result, bool) {
	sizeVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "NEW_ARRAY needs a size operand"))
	}
	if sizeVal.Kind() != KindInt32 || sizeVal.AsInt32() < 0 {
		return vm.fault(newFault(TypeError, vm.pc, "NEW_ARRAY size must be a non-negative integer"))
	}
	size := int(sizeVal.AsInt32())
	if len(vm.operandStack) < size {
		return vm.fault(newFault(StackUnderflow, vm.pc, "NEW_ARRAY needs %d elements", size))
	}
	if err := vm.heap.allocate(sizeOfArray(size)); err != nil {
		return vm.outOfMemory(err)
	}
	elements := make([]Value, size)
	for i := size - 1; i >= 0; i-- {
		elements[i], _ = vm.operandStack.Pop()
	}
	vm.operandStack.Push(ArrayRef(&Array{Elements: elements}))
	return ResultOK, true
}

func (vm *VM) getField(name string) (Result, bool) {
	objVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "GET_FIELD on empty stack"))
	}
	if objVal.Kind() != KindObject {
		return vm.fault(newFault(TypeError, vm.pc, "GET_FIELD on a non-object value"))
	}
	v, ok := objVal.AsObject().Fields[name]
	if !ok {
		v = Null()
	}
	vm.operandStack.Push(v)
	return ResultOK, true
}

// setField pops [value, object] (object on top, per the compiler's
// SET_FIELD calling convention) and re-pushes value as the expression
// result.
func (vm *VM) setField(name string) (Result, bool) {
	objVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "SET_FIELD on empty stack"))
	}
	value, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "SET_FIELD needs a value operand"))
	}
	if objVal.Kind() != KindObject {
		return vm.fault(newFault(TypeError, vm.pc, "SET_FIELD on a non-object value"))
	}
	objVal.AsObject().Fields[name] = value
	vm.operandStack.Push(value)
	return ResultOK, true
}

func (vm *VM) getIndex() (Result, bool) {
	indexVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "GET_INDEX on empty stack"))
	}
	target, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "GET_INDEX needs a target operand"))
	}
	if indexVal.Kind() != KindInt32 {
		return vm.fault(newFault(TypeError, vm.pc, "index must be an integer"))
	}
	idx := int(indexVal.AsInt32())
	switch target.Kind() {
	case KindArray:
		elems := target.AsArray().Elements
		if idx < 0 || idx >= len(elems) {
			return vm.fault(newFault(IndexError, vm.pc, "array index %d out of range [0,%d)", idx, len(elems)))
		}
		vm.operandStack.Push(elems[idx])
	case KindString:
		s := target.AsString()
		if idx < 0 || idx >= len(s) {
			return vm.fault(newFault(IndexError, vm.pc, "string index %d out of range [0,%d)", idx, len(s)))
		}
		vm.operandStack.Push(String(string(s[idx])))
	default:
		return vm.fault(newFault(TypeError, vm.pc, "GET_INDEX on a non-indexable value"))
	}
	return ResultOK, true
}

// setIndex pops [value, array, index] (index on top, per the compiler's
// SET_INDEX calling convention) and re-pushes value as the expression
// result.
func (vm *VM) setIndex() (Result, bool) {
	indexVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "SET_INDEX on empty stack"))
	}
	arrVal, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "SET_INDEX needs an array operand"))
	}
	value, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "SET_INDEX needs a value operand"))
	}
	if indexVal.Kind() != KindInt32 {
		return vm.fault(newFault(TypeError, vm.pc, "index must be an integer"))
	}
	if arrVal.Kind() != KindArray {
		return vm.fault(newFault(TypeError, vm.pc, "SET_INDEX on a non-array value"))
	}
	elems := arrVal.AsArray().Elements
	idx := int(indexVal.AsInt32())
	if idx < 0 || idx >= len(elems) {
		return vm.fault(newFault(IndexError, vm.pc, "array index %d out of range [0,%d)", idx, len(elems)))
	}
	elems[idx] = value
	vm.operandStack.Push(value)
	return ResultOK, true
}

func (vm *VM) outOfMemory(err error) (Result, bool) {
	oom := err.(OutOfMemoryError)
	vm.lastFault = &Fault{Kind: ArithmeticError, Message: oom.Error(), PC: vm.pc, SourceLine: vm.lineFor(vm.pc)}
	vm.running = false
	return ResultOutOfMemory, false
}

// doCallNative implements CALL_NATIVE nativeId argCount: pop argCount
// arguments (rightmost argument at the top of the stack, restored here to
// left-to-right order), dispatch to the Host, and push the single result
// (Null for a void operation).
func (vm *VM) doCallNative(id native.ID, argc int) (Result, bool) {
	if len(vm.operandStack) < argc {
		return vm.fault(newFault(StackUnderflow, vm.pc, "CALL_NATIVE needs %d arguments", argc))
	}
	args := make([]Value, argc)
	copy(args, vm.operandStack[len(vm.operandStack)-argc:])
	vm.operandStack = vm.operandStack[:len(vm.operandStack)-argc]

	result, yield, err := vm.dispatchNative(id, args)
	if err != nil {
		return vm.fault(newFault(TypeError, vm.pc, "native call failed: %s", err.Error()))
	}
	vm.operandStack.Push(result)
	if yield {
		return ResultYield, false
	}
	return ResultOK, true
}
