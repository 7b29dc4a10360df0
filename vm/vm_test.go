package vm

import (
	"testing"

	"dialscript/compiler"
	"dialscript/parser"
	"dialscript/vm/host"

	"github.com/stretchr/testify/require"
)

func compileAndRun(t *testing.T, source string) *VM {
	t.Helper()
	program, errs := parser.New(source).Parse()
	require.Empty(t, errs, "parse errors: %v", errs)

	mod, err := compiler.New().CompileProgram(program)
	require.NoError(t, err)

	machine := New(mod, host.NewNull())
	result := machine.Execute(0)
	require.Equal(t, ResultFinished, result, "fault: %v", machine.LastFault())
	return machine
}

// TestArithmeticPrecedence exercises "var x: 1 + 2 * 3;": multiplication
// binds tighter than addition, so x ends up 7, not 9.
func TestArithmeticPrecedence(t *testing.T) {
	machine := compileAndRun(t, "var x: 1 + 2 * 3;")
	x, ok := machine.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, int32(7), x.AsInt32())
}

// TestFunctionCallReturnsResult exercises a free function call through
// CALL/RETURN: add(40, 2) assigned to a global comes back as 42.
func TestFunctionCallReturnsResult(t *testing.T) {
	machine := compileAndRun(t, `
		function add(a:int, b:int):int { return a + b; }
		var r: add(40, 2);
	`)
	r, ok := machine.GetGlobal("r")
	require.True(t, ok)
	require.Equal(t, int32(42), r.AsInt32())
}

// TestCounterClassMutatesField walks the embedded-locals design through a
// constructor and two method calls: the constructor's "this" receiver and
// parameter are locals 0 and 1, each inc() call's "this" is local 0, and
// the compiler's per-block POP for locals going out of scope must not
// disturb the receiver or the operand stack beneath it.
func TestCounterClassMutatesField(t *testing.T) {
	machine := compileAndRun(t, `
		class Counter {
			value:int;
			constructor(v:int) { assign this.value v; }
			inc():void { assign this.value this.value + 1; }
		}
		var c: Counter(10);
		c.inc();
		c.inc();
	`)
	c, ok := machine.GetGlobal("c")
	require.True(t, ok)
	require.Equal(t, KindObject, c.Kind())
	require.Equal(t, int32(12), c.AsObject().Fields["value"].AsInt32())
}

// TestTemplateLiteralConcatenation checks that an interpolated expression
// lowers to PUSH_STR/STR_CONCAT pairs evaluating to the expected string.
func TestTemplateLiteralConcatenation(t *testing.T) {
	machine := compileAndRun(t, "var s: `hi ${1+2}`;")
	s, ok := machine.GetGlobal("s")
	require.True(t, ok)
	require.Equal(t, "hi 3", s.AsString())
}

// TestLocalVariablesDoNotLeakAcrossCalls exercises repeated calls into the
// same function: each call's locals occupy a fresh window of the operand
// stack at the call's own depth, so a local declared in one call can never
// be read back by a later, unrelated call.
func TestLocalVariablesDoNotLeakAcrossCalls(t *testing.T) {
	machine := compileAndRun(t, `
		function scratch(seed:int):int {
			var doubled: seed * 2;
			return doubled;
		}
		var a: scratch(3);
		var b: scratch(100);
	`)
	a, ok := machine.GetGlobal("a")
	require.True(t, ok)
	require.Equal(t, int32(6), a.AsInt32())

	b, ok := machine.GetGlobal("b")
	require.True(t, ok)
	require.Equal(t, int32(200), b.AsInt32())
}

// TestBlockLocalsPoppedWithoutDisturbingEnclosingLocals exercises endScope's
// generated POPs against a local declared inside a nested block, confirming
// the block's local is reclaimed off the operand stack without corrupting
// the function parameter living below it.
func TestBlockLocalsPoppedWithoutDisturbingEnclosingLocals(t *testing.T) {
	machine := compileAndRun(t, `
		function compute(base:int):int {
			if (base > 0) {
				var bonus: base + 1;
				assign base bonus * 10;
			}
			return base;
		}
		var r: compute(4);
	`)
	r, ok := machine.GetGlobal("r")
	require.True(t, ok)
	require.Equal(t, int32(50), r.AsInt32())
}

// TestDivisionByZeroFaults checks that an ArithmeticError fault stops the
// VM and is recorded as the last fault when no TRY handler is active.
func TestDivisionByZeroFaults(t *testing.T) {
	program, errs := parser.New("var x: 1 / 0;").Parse()
	require.Empty(t, errs)
	mod, err := compiler.New().CompileProgram(program)
	require.NoError(t, err)

	machine := New(mod, host.NewNull())
	result := machine.Execute(0)
	require.Equal(t, ResultError, result)
	require.NotNil(t, machine.LastFault())
	require.Equal(t, ArithmeticError, machine.LastFault().Kind)
}

// TestTryCatchRecoversFromFault checks that a runtime fault raised inside a
// TRY block (division by zero, here) transfers control to the catch
// handler with the fault's message bound to the catch variable, rather
// than stopping the VM.
func TestTryCatchRecoversFromFault(t *testing.T) {
	machine := compileAndRun(t, `
		var caught: 0;
		try {
			var unused: 1 / 0;
		} catch (e) {
			assign caught 1;
		}
	`)
	caught, ok := machine.GetGlobal("caught")
	require.True(t, ok)
	require.Equal(t, int32(1), caught.AsInt32())
}
