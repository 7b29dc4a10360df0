package vm

// InvokeCallback invokes the script Function registered under one of the
// recognized host event names (encoder.onTurn, touch.onPress, app.onLoad,
// ...); a no-op if nothing is registered under that name.
func (vm *VM) InvokeCallback(name string, args ...Value) Result {
	fn, ok := vm.eventCallbacks[name]
	if !ok {
		return ResultOK
	}
	return vm.invokeFunction(fn, args)
}

// InvokeTimer invokes the callback registered for a Timer id by
// TimerSetInterval/TimerSetTimeout; a no-op if the id is unknown (already
// cleared, or never registered through the native call table).
func (vm *VM) InvokeTimer(id int32) Result {
	fn, ok := vm.timerCallbacks[id]
	if !ok {
		return ResultOK
	}
	return vm.invokeFunction(fn, nil)
}

// invokeFunction runs fn to completion as a host-driven callback: it pushes
// args into a fresh frame and executes until that frame's RETURN is
// reached, atomically with respect to the main loop and any other
// callback. Per the reentrancy rule, a callback that arrives while one is
// already executing is queued and drained in order once the current one
// finishes, rather than reentering the VM's run loop.
func (vm *VM) invokeFunction(fn Value, args []Value) Result {
	if vm.inCallback {
		vm.pendingCallbacks = append(vm.pendingCallbacks, pendingCallback{fn: fn, args: args})
		return ResultOK
	}
	if fn.Kind() != KindFunction {
		return ResultError
	}

	vm.inCallback = true
	result := vm.runCallback(fn, args)
	vm.inCallback = false

	for len(vm.pendingCallbacks) > 0 && vm.running {
		next := vm.pendingCallbacks[0]
		vm.pendingCallbacks = vm.pendingCallbacks[1:]
		vm.inCallback = true
		result = vm.runCallback(next.fn, next.args)
		vm.inCallback = false
	}
	return result
}

func (vm *VM) runCallback(fn Value, args []Value) Result {
	savedPC := vm.pc
	savedRunning := vm.running
	callerDepth := len(vm.callStack)

	base := len(vm.operandStack)
	vm.operandStack = append(vm.operandStack, args...)
	vm.callStack = append(vm.callStack, Frame{
		ReturnPC:       sentinelReturnPC,
		LocalsBase:     base,
		LocalCount:     len(args),
		TryHandlerBase: len(vm.tryHandlers),
	})
	vm.pc = int(fn.AsFunction().EntryPoint)

	var result Result
	for {
		var cont bool
		result, cont = vm.step()
		if !cont {
			break
		}
		if len(vm.callStack) < callerDepth {
			// Defensive: a malformed callback body unwound past its own
			// frame. Treat it the same as a normal return.
			result = ResultFinished
			break
		}
	}

	if result == ResultError || result == ResultOutOfMemory {
		vm.running = false
		return result
	}

	if _, ok := vm.operandStack.Pop(); ok {
		// discard the callback's return value; callbacks are invoked for
		// their side effects, not their result.
	}
	vm.pc = savedPC
	vm.running = savedRunning
	return ResultOK
}
