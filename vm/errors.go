package vm

import "fmt"

// FaultKind tags the category of a runtime fault, mirroring spec.md's
// RuntimeFault enumeration.
type FaultKind string

const (
	ArithmeticError    FaultKind = "ArithmeticError"
	TypeError          FaultKind = "TypeError"
	IndexError         FaultKind = "IndexError"
	NameError          FaultKind = "NameError"
	StackUnderflow     FaultKind = "StackUnderflow"
	CallStackOverflow  FaultKind = "CallStackOverflow"
)

// Fault is a runtime error raised by the VM. A fault inside an active TRY
// region is caught by the handler instead of stopping the VM; one outside
// any TRY region is recorded on the VM and halts execution.
type Fault struct {
	Kind       FaultKind
	Message    string
	PC         int
	SourceLine int // 0 when no debug line map is loaded
}

func (f Fault) Error() string {
	if f.SourceLine != 0 {
		return fmt.Sprintf("%s: %s (pc=%d line=%d)", f.Kind, f.Message, f.PC, f.SourceLine)
	}
	return fmt.Sprintf("%s: %s (pc=%d)", f.Kind, f.Message, f.PC)
}

func newFault(kind FaultKind, pc int, format string, args ...any) Fault {
	return Fault{Kind: kind, Message: fmt.Sprintf(format, args...), PC: pc}
}

// OutOfMemoryError reports that an allocation would exceed the module's
// declared heap budget. It is never catchable by a TRY handler.
type OutOfMemoryError struct {
	Requested uint32
	Budget    uint32
	InUse     uint32
}

func (e OutOfMemoryError) Error() string {
	return fmt.Sprintf("OutOfMemory: requested %d bytes, %d/%d in use", e.Requested, e.InUse, e.Budget)
}

// DeveloperError reports an internal invariant violation in the VM itself
// (a malformed module referencing an invalid table index, for example). It
// should never surface against a module produced by this module's own
// compiler.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("DeveloperError: %s", e.Message)
}
