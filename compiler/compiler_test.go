package compiler

import (
	"testing"

	"dialscript/bytecode"
	"dialscript/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, source string) *bytecode.Module {
	t.Helper()
	program, errs := parser.New(source).Parse()
	require.Empty(t, errs, "parse errors: %v", errs)

	mod, err := New().CompileProgram(program)
	require.NoError(t, err)
	return mod
}

// TestCompileVarDeclaration exercises "var x: 7;" end to end: the
// initializer is pushed as a direct-operand integer push and stored to a
// newly declared global.
func TestCompileVarDeclaration(t *testing.T) {
	mod := compileSource(t, "var x: 7;")
	out := mod.Disassemble()
	assert.Contains(t, out, "PUSH_I8 7")
	assert.Contains(t, out, "STORE_GLOBAL 0 x")
	assert.Equal(t, []string{"x"}, mod.Globals)
}

// TestCompileArithmeticPrecedence mirrors the canonical "var x: 1 + 2 * 3;"
// scenario, checking the multiply is compiled before the add reaches it.
func TestCompileArithmeticPrecedence(t *testing.T) {
	mod := compileSource(t, "var x: 1 + 2 * 3;")
	out := mod.Disassemble()
	assert.Contains(t, out, "MUL")
	assert.Contains(t, out, "ADD")
	assert.Regexp(t, `(?s)MUL.*ADD`, out)
	assert.Contains(t, out, "STORE_GLOBAL 0 x")
}

// TestCompileFunctionCall exercises a free function called from main code,
// checking that the function gets one entry point, that the call encodes its
// two arguments, and that the body adds and returns.
func TestCompileFunctionCall(t *testing.T) {
	mod := compileSource(t, `
		function add(a:int, b:int):int { return a + b; }
		var r: add(40, 2);
	`)

	require.Equal(t, []string{"add"}, mod.Functions)
	require.Len(t, mod.FunctionEntryPoints, 1)

	out := mod.Disassemble()
	assert.Contains(t, out, "add argc=2")
	assert.Contains(t, out, "ADD")
	assert.Contains(t, out, "RETURN")
}

// TestCompileClassCounter mirrors the Counter class scenario: a constructor
// field-initializer and a mutating method compiled under their
// "ClassName::constructor"/"ClassName::method" entries.
func TestCompileClassCounter(t *testing.T) {
	mod := compileSource(t, `
		class Counter {
			value:int;
			constructor(v:int) { assign this.value v; }
			inc():void { assign this.value this.value + 1; }
		}
		var c: Counter(10);
		c.inc();
		c.inc();
	`)

	assert.Contains(t, mod.Functions, "Counter::constructor")
	assert.Contains(t, mod.Functions, "Counter::inc")

	out := mod.Disassemble()
	assert.Contains(t, out, "NEW_OBJECT")
	assert.Contains(t, out, `SET_FIELD`)
	assert.Contains(t, out, "Counter::constructor argc=2")
	assert.Contains(t, out, "Counter::inc argc=1")
}

// TestCompileTemplateLiteral mirrors the canonical
// "var s: `hi ${1+2}`;" scenario: a template with one interpolated
// expression lowers to a push-and-concat chain.
func TestCompileTemplateLiteral(t *testing.T) {
	mod := compileSource(t, "var s: `hi ${1+2}`;")
	out := mod.Disassemble()
	assert.Contains(t, out, `PUSH_STR 0 "hi "`)
	assert.Contains(t, out, "ADD")
	assert.Contains(t, out, "STR_CONCAT")
}

// TestCompileUndefinedNameFails checks that referencing an unresolved name
// surfaces as a SemanticError rather than panicking uncaught.
func TestCompileUndefinedNameFails(t *testing.T) {
	program, errs := parser.New("var y: missing;").Parse()
	require.Empty(t, errs)

	_, err := New().CompileProgram(program)
	require.Error(t, err)
	assert.IsType(t, SemanticError{}, err)
}

// TestCompileIfElseJumpsBalance checks that an if/else compiles to a
// structurally balanced pair of backpatched jumps. "=" is the language's
// equality operator (there is no "==").
func TestCompileIfElseJumpsBalance(t *testing.T) {
	mod := compileSource(t, `
		var x: 1;
		if (x = 1) { assign x 2; } else { assign x 3; }
	`)
	out := mod.Disassemble()
	assert.Contains(t, out, "JUMP_IF_NOT")
	assert.Contains(t, out, "JUMP ")
}
