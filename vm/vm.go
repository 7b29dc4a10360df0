// Package vm executes a compiled module: a fetch-decode-execute loop over
// its instruction stream, backed by a typed operand stack that also holds
// each call frame's locals in place, a global vector, a byte-accounted
// heap, and a Host the CALL_NATIVE table dispatches to.
package vm

import (
	"encoding/binary"
	"math"

	"dialscript/bytecode"
	"dialscript/native"
	"dialscript/vm/host"
)

// Result is the outcome of one Execute batch, matching the host-driven
// cooperative scheduling loop: the host calls Execute repeatedly and reacts
// to what comes back instead of the VM ever blocking on its own.
type Result int

const (
	ResultOK Result = iota
	ResultYield
	ResultFinished
	ResultError
	ResultOutOfMemory
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultYield:
		return "YIELD"
	case ResultFinished:
		return "FINISHED"
	case ResultError:
		return "ERROR"
	case ResultOutOfMemory:
		return "OUT_OF_MEMORY"
	default:
		return "UNKNOWN"
	}
}

// sentinelReturnPC marks a frame entered by invokeFunction rather than by a
// CALL instruction: RETURN recognizes it and stops the run-loop instead of
// resuming a caller instruction stream.
const sentinelReturnPC = -1

// VM is a stack machine executing one bytecode.Module against one Host.
// The operand stack, call stack, locals, globals and heap are owned
// exclusively by the VM; callers reach in only through SetGlobal/GetGlobal,
// InvokeCallback and Reset, matching the host-interface ownership rule.
type VM struct {
	module *bytecode.Module
	code   []byte
	pc     int

	// operandStack also holds every active frame's locals in place, windowed
	// by Frame.LocalsBase, the same embedded-locals design the compiler's
	// endScope (which reclaims a block's locals with plain POP
	// instructions) assumes: a local is not a separate storage cell, it is
	// a stack slot that LOAD_LOCAL/STORE_LOCAL address by frame-relative
	// index instead of by push/pop.
	operandStack Stack
	callStack    []Frame
	globals      []Value
	globalIndex  map[string]int

	heap *heap
	host host.Host

	tryHandlers []tryHandler

	config Config
	logger Logger

	lastFault *Fault
	running   bool

	inCallback       bool
	pendingCallbacks []pendingCallback
	eventCallbacks   map[string]Value
	timerCallbacks   map[int32]Value
}

type pendingCallback struct {
	fn   Value
	args []Value
}

// New builds a VM ready to run mod against host h. A nil host is replaced
// with host.NewNull(), so a module with no native calls can run headless.
func New(mod *bytecode.Module, h host.Host, opts ...Option) *VM {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if h == nil {
		h = host.NewNull()
	}

	globalIndex := make(map[string]int, len(mod.Globals))
	for i, name := range mod.Globals {
		globalIndex[name] = i
	}

	v := &VM{
		module:         mod,
		code:           mod.Code,
		globals:        make([]Value, len(mod.Globals)),
		globalIndex:    globalIndex,
		heap:           newHeap(mod.Metadata.HeapSize),
		host:           h,
		config:         cfg,
		logger:         cfg.Logger,
		eventCallbacks: make(map[string]Value),
		timerCallbacks: make(map[int32]Value),
	}
	v.Reset()
	return v
}

// Reset rewinds the VM to the module's main entry point with an empty
// stack, frame, heap and global state, as if freshly constructed.
func (vm *VM) Reset() {
	vm.pc = int(vm.module.MainEntryPoint)
	vm.operandStack = vm.operandStack[:0]
	vm.callStack = vm.callStack[:0]
	for i := range vm.globals {
		vm.globals[i] = Null()
	}
	vm.heap.reset()
	vm.tryHandlers = vm.tryHandlers[:0]
	vm.lastFault = nil
	vm.running = true
}

// GetGlobal reads a global by its declared name.
func (vm *VM) GetGlobal(name string) (Value, bool) {
	idx, ok := vm.globalIndex[name]
	if !ok {
		return Value{}, false
	}
	return vm.globals[idx], true
}

// SetGlobal writes a global by its declared name; it is one of the few
// entry points the host is allowed to mutate VM-owned state through.
func (vm *VM) SetGlobal(name string, value Value) bool {
	idx, ok := vm.globalIndex[name]
	if !ok {
		return false
	}
	vm.globals[idx] = value
	return true
}

// LastFault returns the fault that stopped the VM, if Execute returned
// ResultError.
func (vm *VM) LastFault() *Fault { return vm.lastFault }

// RegisterCallback binds a script Function value to one of the recognized
// host event names (encoder.onTurn, touch.onPress, app.onLoad, ...),
// invoked later via InvokeCallback.
func (vm *VM) RegisterCallback(name string, fn Value) {
	vm.eventCallbacks[name] = fn
}

// RequestStop is the cooperative-cancellation entry point: Execute checks
// running before each instruction, never mid-instruction, and returns
// ResultFinished once it has been cleared.
func (vm *VM) RequestStop() {
	vm.running = false
}

// Execute runs at most maxInstructions steps starting from the current pc
// and returns one of {OK, YIELD, FINISHED, ERROR, OUT_OF_MEMORY}. No
// instruction suspends mid-execution; all bookkeeping happens at
// instruction boundaries, so a batch always stops cleanly between steps.
func (vm *VM) Execute(maxInstructions int) Result {
	if maxInstructions <= 0 {
		maxInstructions = vm.config.DefaultBatchSize
	}
	if !vm.running {
		return ResultFinished
	}
	for i := 0; i < maxInstructions; i++ {
		if !vm.running {
			return ResultFinished
		}
		result, cont := vm.step()
		if !cont {
			return result
		}
	}
	return ResultOK
}

// step executes exactly one instruction. cont is false when the batch
// should stop immediately (HALT, YIELD, an uncaught fault, heap
// exhaustion, or a RETURN from a callback's sentinel frame).
func (vm *VM) step() (Result, bool) {
	op := bytecode.Op(vm.code[vm.pc])
	vm.pc++

	switch op {
	case bytecode.NOP:
		return ResultOK, true
	case bytecode.POP:
		if _, ok := vm.operandStack.Pop(); !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "POP on empty stack"))
		}
		return ResultOK, true
	case bytecode.DUP:
		top, ok := vm.operandStack.Peek()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "DUP on empty stack"))
		}
		vm.operandStack.Push(top)
		return ResultOK, true
	case bytecode.SWAP:
		a, ok1 := vm.operandStack.PeekAt(0)
		b, ok2 := vm.operandStack.PeekAt(1)
		if !ok1 || !ok2 {
			return vm.fault(newFault(StackUnderflow, vm.pc, "SWAP needs two operands"))
		}
		n := len(vm.operandStack)
		vm.operandStack[n-1], vm.operandStack[n-2] = b, a
		return ResultOK, true

	case bytecode.PUSH_NULL:
		vm.operandStack.Push(Null())
		return ResultOK, true
	case bytecode.PUSH_TRUE:
		vm.operandStack.Push(Bool(true))
		return ResultOK, true
	case bytecode.PUSH_FALSE:
		vm.operandStack.Push(Bool(false))
		return ResultOK, true

	case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.MOD:
		return vm.binaryArith(op)
	case bytecode.NEG:
		return vm.unaryNeg()
	case bytecode.STR_CONCAT:
		return vm.strConcat()
	case bytecode.EQ, bytecode.NE, bytecode.LT, bytecode.LE, bytecode.GT, bytecode.GE:
		return vm.compare(op)
	case bytecode.NOT:
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "NOT on empty stack"))
		}
		vm.operandStack.Push(Bool(!v.Truthy()))
		return ResultOK, true
	case bytecode.AND, bytecode.OR:
		return vm.boolOp(op)

	case bytecode.RETURN:
		return vm.doReturn()

	case bytecode.GET_INDEX:
		return vm.getIndex()
	case bytecode.SET_INDEX:
		return vm.setIndex()
	case bytecode.NEW_ARRAY:
		return vm.newArray()

	case bytecode.END_TRY:
		if len(vm.tryHandlers) > 0 {
			vm.tryHandlers = vm.tryHandlers[:len(vm.tryHandlers)-1]
		}
		return ResultOK, true
	case bytecode.THROW:
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "THROW on empty stack"))
		}
		return vm.raiseValue(v)

	case bytecode.PRINT:
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "PRINT on empty stack"))
		}
		vm.host.Console().Print(v.Display())
		return ResultOK, true

	case bytecode.HALT:
		vm.running = false
		return ResultFinished, false

	case bytecode.PUSH_I8:
		v := int8(vm.code[vm.pc])
		vm.pc++
		vm.operandStack.Push(Int32(int32(v)))
		return ResultOK, true
	case bytecode.LOAD_LOCAL:
		slot := int(int8(vm.code[vm.pc]))
		vm.pc++
		return vm.loadLocal(slot)
	case bytecode.STORE_LOCAL:
		slot := int(int8(vm.code[vm.pc]))
		vm.pc++
		return vm.storeLocal(slot)

	case bytecode.PUSH_I16:
		v := int16(binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2]))
		vm.pc += 2
		vm.operandStack.Push(Int32(int32(v)))
		return ResultOK, true
	case bytecode.PUSH_STR:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		vm.operandStack.Push(String(vm.module.Constants[idx]))
		return ResultOK, true
	case bytecode.LOAD_GLOBAL:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		vm.operandStack.Push(vm.globals[idx])
		return ResultOK, true
	case bytecode.STORE_GLOBAL:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "STORE_GLOBAL on empty stack"))
		}
		vm.globals[idx] = v
		return ResultOK, true
	case bytecode.GET_FIELD:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		return vm.getField(vm.module.Constants[idx])
	case bytecode.SET_FIELD:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		return vm.setField(vm.module.Constants[idx])
	case bytecode.NEW_OBJECT:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		vm.pc += 2
		return vm.newObject(vm.module.Constants[idx])

	case bytecode.PUSH_I32:
		v := int32(binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4]))
		vm.pc += 4
		vm.operandStack.Push(Int32(v))
		return ResultOK, true
	case bytecode.PUSH_F32:
		bits := binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4])
		vm.pc += 4
		vm.operandStack.Push(Float32(math.Float32frombits(bits)))
		return ResultOK, true
	case bytecode.JUMP:
		delta := int32(binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4]))
		vm.pc += 4
		vm.pc += int(delta)
		return ResultOK, true
	case bytecode.JUMP_IF:
		delta := int32(binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4]))
		vm.pc += 4
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "JUMP_IF on empty stack"))
		}
		if v.Truthy() {
			vm.pc += int(delta)
		}
		return ResultOK, true
	case bytecode.JUMP_IF_NOT:
		delta := int32(binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4]))
		vm.pc += 4
		v, ok := vm.operandStack.Pop()
		if !ok {
			return vm.fault(newFault(StackUnderflow, vm.pc, "JUMP_IF_NOT on empty stack"))
		}
		if !v.Truthy() {
			vm.pc += int(delta)
		}
		return ResultOK, true
	case bytecode.TRY:
		delta := int32(binary.LittleEndian.Uint32(vm.code[vm.pc : vm.pc+4]))
		vm.pc += 4
		vm.tryHandlers = append(vm.tryHandlers, tryHandler{
			catchPC:        vm.pc + int(delta),
			callStackDepth: len(vm.callStack),
			operandDepth:   len(vm.operandStack),
		})
		return ResultOK, true

	case bytecode.CALL:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		argc := int(vm.code[vm.pc+2])
		vm.pc += 3
		return vm.doCall(int(idx), argc)
	case bytecode.CALL_NATIVE:
		idx := binary.LittleEndian.Uint16(vm.code[vm.pc : vm.pc+2])
		argc := int(vm.code[vm.pc+2])
		vm.pc += 3
		return vm.doCallNative(native.ID(idx), argc)

	default:
		return vm.fault(newFault(NameError, vm.pc, "unknown opcode %d", byte(op)))
	}
}

// loadLocal pushes a copy of the operand-stack slot a local occupies.
func (vm *VM) loadLocal(slot int) (Result, bool) {
	base := vm.currentLocalsBase()
	idx := base + slot
	if idx < 0 || idx >= len(vm.operandStack) {
		return vm.fault(newFault(NameError, vm.pc, "read of undeclared local slot %d", slot))
	}
	vm.operandStack.Push(vm.operandStack[idx])
	return ResultOK, true
}

// storeLocal pops the computed value and either overwrites the local's
// existing slot (reassignment, compiled with a preceding DUP so the
// assignment expression still yields a value) or extends the stack by
// exactly one slot (first declaration, compiled with no DUP since nothing
// needs the value once it lands in its slot). Any other index would mean
// the compiler emitted a STORE_LOCAL out of order with its declarations.
func (vm *VM) storeLocal(slot int) (Result, bool) {
	v, ok := vm.operandStack.Pop()
	if !ok {
		return vm.fault(newFault(StackUnderflow, vm.pc, "STORE_LOCAL on empty stack"))
	}
	base := vm.currentLocalsBase()
	idx := base + slot
	switch {
	case idx < 0 || idx > len(vm.operandStack):
		return vm.fault(newFault(NameError, vm.pc, "STORE_LOCAL to out-of-range slot %d", slot))
	case idx == len(vm.operandStack):
		vm.operandStack.Push(v)
	default:
		vm.operandStack[idx] = v
	}
	return ResultOK, true
}

// currentLocalsBase is 0 at top level (main has no enclosing frame) or the
// base recorded by the innermost active call frame.
func (vm *VM) currentLocalsBase() int {
	if len(vm.callStack) == 0 {
		return 0
	}
	return vm.callStack[len(vm.callStack)-1].LocalsBase
}

func (vm *VM) fault(f Fault) (Result, bool) {
	f.PC = vm.pc
	f.SourceLine = vm.lineFor(vm.pc)
	return vm.raiseFault(f)
}

func (vm *VM) lineFor(pc int) int {
	line := 0
	for _, e := range vm.module.DebugLines {
		if int(e.PC) > pc {
			break
		}
		line = int(e.Line)
	}
	return line
}
