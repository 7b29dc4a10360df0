// Package compiler turns a parsed program into an executable bytecode
// module: a name-reservation pre-pass over the declarations, then an
// AST-visitor pass that walks expressions/statements/declarations and emits
// instructions directly, backpatching jump targets once their destinations
// are known.
package compiler

import (
	"encoding/binary"
	"fmt"
	"math"

	"dialscript/ast"
	"dialscript/bytecode"
)

// Local tracks one in-scope local variable: its stack slot, the block
// depth it was declared at, and whether its initializer has run yet. A
// "var" local is declared only after its initializer has been compiled, so
// the initializer cannot refer to the variable being declared.
type Local struct {
	name        string
	depth       int
	initialized bool
	slot        int
}

// Compiler is a visitor that compiles AST nodes directly to bytecode. It
// implements ast.ExpressionVisitor, ast.StmtVisitor and ast.DeclVisitor to
// traverse the whole program once, after reserveDecl has reserved every
// function, constructor and method name.
type Compiler struct {
	code []byte

	constants     []string
	constantIndex map[string]int

	globals            []string
	globalIndex        map[string]int
	globalInitialized  map[string]bool

	functions           []string
	functionIndex       map[string]int
	functionEntryPoints []uint32

	// enclosingClass is the class name "this" refers to while compiling a
	// constructor or method body; empty while compiling a free function.
	enclosingClass string
	// localClassTypes records, for the current function body (or for the
	// main program's top-level and block variables), which parameters carry
	// a named class type and which variables were initialized with
	// "Class(...)" — enough to resolve "x.method()" calls statically without
	// a full type checker.
	localClassTypes map[string]string

	locals     []Local
	scopeDepth int

	debugLines  []bytecode.LineEntry
	currentLine int

	appName, appVersion, author string
	heapSize                    uint32
}

// New creates a Compiler ready to compile one Program into a Module.
func New() *Compiler {
	return &Compiler{
		constantIndex:     make(map[string]int),
		globalIndex:       make(map[string]int),
		globalInitialized: make(map[string]bool),
		functionIndex:     make(map[string]int),
		heapSize:          1 << 20,
	}
}

// WithAppMetadata sets the descriptive metadata fields carried in the
// compiled module's header.
func (c *Compiler) WithAppMetadata(name, version, author string) *Compiler {
	c.appName, c.appVersion, c.author = name, version, author
	return c
}

// WithHeapSize overrides the heap budget the VM enforces against this
// module's allocations. The default is 1 MiB.
func (c *Compiler) WithHeapSize(size uint32) *Compiler {
	c.heapSize = size
	return c
}

// CompileProgram compiles a whole program to a bytecode.Module.
// Declarations (functions and classes) are compiled first, regardless of
// their order in source, so that forward references between them resolve;
// top-level statements are compiled afterward as the module's main entry
// point.
func (c *Compiler) CompileProgram(program *ast.Program) (mod *bytecode.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case SemanticError:
				err = v
			case DeveloperError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	for _, decl := range program.Declarations {
		c.reserveDecl(decl)
	}
	for _, decl := range program.Declarations {
		decl.Accept(c)
	}

	mainEntry := uint32(len(c.code))
	for _, stmt := range program.Statements {
		stmt.Accept(c)
	}
	c.emit(bytecode.HALT)

	mod = &bytecode.Module{
		Code:                c.code,
		Constants:           c.constants,
		Globals:             c.globals,
		Functions:           c.functions,
		FunctionEntryPoints: c.functionEntryPoints,
		MainEntryPoint:      mainEntry,
		DebugLines:          c.debugLines,
		Metadata: bytecode.Metadata{
			AppName:    c.appName,
			AppVersion: c.appVersion,
			Author:     c.author,
			HeapSize:   c.heapSize,
			Version:    1,
		},
	}
	return mod, nil
}

// reserveDecl registers a function or class's name (and, for classes, its
// method names) before any bodies are compiled, so calls made earlier in
// source to a function declared later still resolve.
func (c *Compiler) reserveDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case ast.FunctionDecl:
		c.declareFunction(d.Name.Lexeme)
	case ast.ClassDecl:
		if d.Constructor != nil {
			c.declareFunction(constructorFunctionName(d.Name.Lexeme))
		}
		for _, m := range d.Methods {
			c.declareFunction(methodFunctionName(d.Name.Lexeme, m.Name.Lexeme))
		}
	}
}

func constructorFunctionName(class string) string { return class + "::constructor" }
func methodFunctionName(class, method string) string { return class + "::" + method }

func (c *Compiler) declareFunction(name string) int {
	if _, exists := c.functionIndex[name]; exists {
		panic(SemanticError{Message: fmt.Sprintf("redefinition of function '%s'", name)})
	}
	idx := len(c.functions)
	c.functionIndex[name] = idx
	c.functions = append(c.functions, name)
	c.functionEntryPoints = append(c.functionEntryPoints, 0)
	return idx
}

// --- low-level emission -----------------------------------------------

// setLine records the source line of the expression/statement about to be
// compiled, so subsequently emitted instructions carry it in debugLines.
func (c *Compiler) setLine(line int) {
	if line != 0 {
		c.currentLine = line
	}
}

// emit appends one instruction and returns the byte offset it starts at.
func (c *Compiler) emit(op bytecode.Op, operands ...int) int {
	pos := len(c.code)
	c.code = append(c.code, bytecode.MakeInstruction(op, operands...)...)
	if c.currentLine != 0 {
		c.debugLines = append(c.debugLines, bytecode.LineEntry{PC: uint32(pos), Line: uint32(c.currentLine)})
	}
	return pos
}

// emitJump emits a jump-family instruction with a placeholder operand and
// returns its position, to be resolved later by patchJump.
func (c *Compiler) emitJump(op bytecode.Op) int {
	return c.emit(op, 0)
}

// patchJump overwrites a previously emitted jump's operand with the signed
// delta from the byte immediately after its 4-byte operand to the current
// end of the instruction stream.
func (c *Compiler) patchJump(pos int) {
	operandEnd := pos + 5
	delta := int32(len(c.code) - operandEnd)
	binary.LittleEndian.PutUint32(c.code[pos+1:pos+5], uint32(delta))
}

// patchJumpTo is like patchJump but jumps to an explicit target offset
// rather than "here", used for loop-back edges.
func (c *Compiler) patchJumpTo(pos int, target int) {
	operandEnd := pos + 5
	delta := int32(target - operandEnd)
	binary.LittleEndian.PutUint32(c.code[pos+1:pos+5], uint32(delta))
}

func (c *Compiler) addStringConstant(value string) int {
	if idx, ok := c.constantIndex[value]; ok {
		return idx
	}
	idx := len(c.constants)
	c.constants = append(c.constants, value)
	c.constantIndex[value] = idx
	return idx
}

func (c *Compiler) pushNumericLiteral(value any) {
	switch v := value.(type) {
	case int64:
		c.pushInt(v)
	case float64:
		bits := math.Float32bits(float32(v))
		c.emit(bytecode.PUSH_F32, int(int32(bits)))
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unsupported literal value type %T", value)})
	}
}

func (c *Compiler) pushInt(v int64) {
	switch {
	case v >= -128 && v <= 127:
		c.emit(bytecode.PUSH_I8, int(int8(v)))
	case v >= -32768 && v <= 32767:
		c.emit(bytecode.PUSH_I16, int(int16(v)))
	default:
		c.emit(bytecode.PUSH_I32, int(int32(v)))
	}
}

// --- global/local resolution --------------------------------------------

func (c *Compiler) addGlobal(name string) int {
	if idx, ok := c.globalIndex[name]; ok {
		return idx
	}
	idx := len(c.globals)
	c.globals = append(c.globals, name)
	c.globalIndex[name] = idx
	return idx
}

func (c *Compiler) resolveGlobal(name string) int {
	if idx, ok := c.globalIndex[name]; ok {
		return idx
	}
	return -1
}

func (c *Compiler) declareLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth < c.scopeDepth {
			break
		}
		if c.locals[i].name == name {
			panic(SemanticError{Message: fmt.Sprintf("redefinition of variable '%s'", name)})
		}
	}
	slot := len(c.locals)
	c.locals = append(c.locals, Local{name: name, depth: c.scopeDepth, slot: slot})
	return slot
}

func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].slot
		}
	}
	return -1
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops locals that just went out of scope and returns how many
// POP instructions it emitted, so callers can discard the corresponding
// values from the operand stack.
func (c *Compiler) endScope() int {
	c.scopeDepth--
	popped := 0
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		popped++
	}
	for i := 0; i < popped; i++ {
		c.emit(bytecode.POP)
	}
	return popped
}

// emitImplicitReturn appends "push null; return" unconditionally. A
// function whose every path already returns ends up with a second,
// unreachable return right after the real one; the VM never walks off the
// end of a function's code to reach it, so it is harmless dead code kept
// for simplicity rather than tracking reachability through the AST.
func (c *Compiler) emitImplicitReturn() {
	c.emit(bytecode.PUSH_NULL)
	c.emit(bytecode.RETURN)
}
