package compiler

import (
	"dialscript/ast"
	"dialscript/bytecode"
)

// VisitFunctionDecl compiles a top-level function body at its previously
// reserved entry point.
func (c *Compiler) VisitFunctionDecl(f ast.FunctionDecl) any {
	c.compileFunctionBody(f.Name.Lexeme, "", nil, f.Parameters, f.Body)
	return nil
}

// VisitClassDecl compiles a class's constructor and methods. Each becomes
// its own function entry named "ClassName::constructor" / "ClassName::method";
// field declarations that have an initializer are folded into the
// constructor, so "Class(...)" sets them before the constructor body runs;
// a field without an initializer is not set and reads as Null until assigned.
func (c *Compiler) VisitClassDecl(cls ast.ClassDecl) any {
	if cls.Constructor != nil {
		c.compileFunctionBody(constructorFunctionName(cls.Name.Lexeme), cls.Name.Lexeme, cls.Fields, cls.Constructor.Parameters, cls.Constructor.Body)
	} else if len(cls.Fields) > 0 {
		c.compileFunctionBody(constructorFunctionName(cls.Name.Lexeme), cls.Name.Lexeme, cls.Fields, nil, nil)
	}
	for _, m := range cls.Methods {
		c.compileFunctionBody(methodFunctionName(cls.Name.Lexeme, m.Name.Lexeme), cls.Name.Lexeme, nil, m.Parameters, m.Body)
	}
	return nil
}

// compileFunctionBody compiles one callable body (function, constructor or
// method) at the current end of the code stream, records its entry point,
// and always appends an implicit "return null" after the body, so control
// that runs off the end returns Null. The body is compiled at scope depth 1,
// so a "var" at its top level is a local, not a global.
//
// this (slot 0) is implicit for constructors/methods: the receiver is
// pushed by the caller immediately before the call's arguments, so it
// always lands in local 0 ahead of the declared parameters.
func (c *Compiler) compileFunctionBody(name, className string, fields []ast.FieldDecl, params []ast.Parameter, body []ast.Stmt) {
	idx, ok := c.functionIndex[name]
	if !ok {
		idx = c.declareFunction(name)
	}
	c.functionEntryPoints[idx] = uint32(len(c.code))

	savedLocals, savedDepth := c.locals, c.scopeDepth
	savedClass, savedTypes := c.enclosingClass, c.localClassTypes
	c.locals, c.scopeDepth = nil, 1
	c.enclosingClass, c.localClassTypes = className, make(map[string]string)

	if className != "" {
		c.declareLocal("this")
	}
	for _, p := range params {
		c.declareLocal(p.Name.Lexeme)
		c.recordLocalClassType(p.Name.Lexeme, p.Type)
	}

	for _, f := range fields {
		if f.Initializer == nil {
			continue
		}
		f.Initializer.Accept(c)
		c.emit(bytecode.LOAD_LOCAL, 0)
		fieldIdx := c.addStringConstant(f.Name.Lexeme)
		c.emit(bytecode.SET_FIELD, fieldIdx)
		c.emit(bytecode.POP)
	}

	for _, stmt := range body {
		stmt.Accept(c)
	}

	c.emitImplicitReturn()

	c.locals, c.scopeDepth = savedLocals, savedDepth
	c.enclosingClass, c.localClassTypes = savedClass, savedTypes
}

// recordLocalClassType remembers a local's named-class type annotation, if
// any, so later method calls through that local can resolve statically.
func (c *Compiler) recordLocalClassType(name string, t ast.TypeNode) {
	if named, ok := t.(ast.NamedType); ok {
		c.localClassTypes[name] = named.Name.Lexeme
	}
}

// VisitFieldDecl is never called directly: field initializers are folded
// into the owning class's constructor by compileFunctionBody.
func (c *Compiler) VisitFieldDecl(f ast.FieldDecl) any {
	panic(DeveloperError{Message: "FieldDecl must be compiled via its owning class's constructor"})
}

// VisitConstructorDecl is never called directly; see VisitClassDecl.
func (c *Compiler) VisitConstructorDecl(ctor ast.ConstructorDecl) any {
	panic(DeveloperError{Message: "ConstructorDecl must be compiled via VisitClassDecl"})
}

// VisitMethodDecl is never called directly; see VisitClassDecl.
func (c *Compiler) VisitMethodDecl(m ast.MethodDecl) any {
	panic(DeveloperError{Message: "MethodDecl must be compiled via VisitClassDecl"})
}

// VisitProgram is never called directly; CompileProgram walks
// Declarations/Statements itself so it can reserve forward references
// before compiling any bodies.
func (c *Compiler) VisitProgram(p ast.Program) any {
	panic(DeveloperError{Message: "Program must be compiled via CompileProgram"})
}
