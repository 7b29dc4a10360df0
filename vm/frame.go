package vm

// Frame is a per-call record: where to resume the caller, the window of
// the operand stack holding this call's locals, and which try handlers were active when
// it was entered (so a callee's handlers never leak into the caller).
type Frame struct {
	ReturnPC       int
	LocalsBase     int
	LocalCount     int
	TryHandlerBase int // len(tryHandlers) at the time this frame was entered
}

// tryHandler records one active TRY region: the PC of its catch target and
// the call-stack/locals depth to restore to if a fault unwinds to it.
type tryHandler struct {
	catchPC        int
	callStackDepth int
	operandDepth   int
}
