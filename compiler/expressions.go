package compiler

import (
	"fmt"

	"dialscript/ast"
	"dialscript/bytecode"
	"dialscript/native"
	"dialscript/token"
)

// VisitBinary compiles an arithmetic/comparison/concatenation operator.
// Operands are evaluated left-to-right so side effects (calls, future
// assignment expressions) happen in source order.
func (c *Compiler) VisitBinary(b ast.Binary) any {
	b.Left.Accept(c)
	b.Right.Accept(c)

	switch b.Operator.Kind {
	case token.PLUS:
		c.emit(bytecode.ADD)
	case token.MINUS:
		c.emit(bytecode.SUB)
	case token.STAR:
		c.emit(bytecode.MUL)
	case token.SLASH:
		c.emit(bytecode.DIV)
	case token.PERCENT:
		c.emit(bytecode.MOD)
	case token.ASSIGN_EQ:
		c.emit(bytecode.EQ)
	case token.BANG_EQ:
		c.emit(bytecode.NE)
	case token.LESS:
		c.emit(bytecode.LT)
	case token.LESS_EQ:
		c.emit(bytecode.LE)
	case token.GREATER:
		c.emit(bytecode.GT)
	case token.GREATER_EQ:
		c.emit(bytecode.GE)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unhandled binary operator %s", b.Operator.Kind)})
	}
	return nil
}

// VisitUnary compiles "-x" and "not x".
func (c *Compiler) VisitUnary(u ast.Unary) any {
	u.Right.Accept(c)
	switch u.Operator.Kind {
	case token.MINUS:
		c.emit(bytecode.NEG)
	case token.NOT:
		c.emit(bytecode.NOT)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unhandled unary operator %s", u.Operator.Kind)})
	}
	return nil
}

// VisitTernary compiles "cond ? then : else" using the same branch-and-
// backpatch shape as VisitIfStmt (JUMP_IF_NOT consumes the condition), but
// each branch leaves its value on the stack.
func (c *Compiler) VisitTernary(t ast.Ternary) any {
	c.setLine(t.Line)
	t.Condition.Accept(c)
	jumpElse := c.emitJump(bytecode.JUMP_IF_NOT)
	t.Then.Accept(c)
	jumpEnd := c.emitJump(bytecode.JUMP)
	c.patchJump(jumpElse)
	t.Else.Accept(c)
	c.patchJump(jumpEnd)
	return nil
}

// VisitLogical lowers "and"/"or" to short-circuiting jump sequences at
// compile time. The AND/OR opcodes themselves are non-short-circuiting and
// are never emitted from this path.
func (c *Compiler) VisitLogical(l ast.Logical) any {
	l.Left.Accept(c)
	// JUMP_IF_NOT pops its condition, so test a copy of the left value.
	c.emit(bytecode.DUP)
	switch l.Operator.Kind {
	case token.OR:
		jumpIfFalse := c.emitJump(bytecode.JUMP_IF_NOT)
		jumpEnd := c.emitJump(bytecode.JUMP)
		c.patchJump(jumpIfFalse)
		c.emit(bytecode.POP)
		l.Right.Accept(c)
		c.patchJump(jumpEnd)
	case token.AND:
		jumpIfFalse := c.emitJump(bytecode.JUMP_IF_NOT)
		c.emit(bytecode.POP)
		l.Right.Accept(c)
		c.patchJump(jumpIfFalse)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unhandled logical operator %s", l.Operator.Kind)})
	}
	return nil
}

// VisitLiteral pushes a literal value. Strings are interned into the
// constants pool and pushed via PUSH_STR; every other literal kind is
// pushed with its value encoded directly in the instruction operand.
func (c *Compiler) VisitLiteral(lit ast.Literal) any {
	c.setLine(lit.Line)
	switch v := lit.Value.(type) {
	case nil:
		c.emit(bytecode.PUSH_NULL)
	case bool:
		if v {
			c.emit(bytecode.PUSH_TRUE)
		} else {
			c.emit(bytecode.PUSH_FALSE)
		}
	case string:
		idx := c.addStringConstant(v)
		c.emit(bytecode.PUSH_STR, idx)
	case int64, float64:
		c.pushNumericLiteral(v)
	default:
		panic(DeveloperError{Message: fmt.Sprintf("unsupported literal type %T", lit.Value)})
	}
	return nil
}

func (c *Compiler) VisitGrouping(g ast.Grouping) any {
	g.Expression.Accept(c)
	return nil
}

// VisitVariableExpression resolves a name as a local first, then a global.
func (c *Compiler) VisitVariableExpression(v ast.Variable) any {
	name := v.Name.Lexeme
	if slot := c.resolveLocal(name); slot != -1 {
		c.emit(bytecode.LOAD_LOCAL, slot)
		return nil
	}
	idx := c.resolveGlobal(name)
	if idx == -1 {
		panic(SemanticError{Message: fmt.Sprintf("name '%s' is not defined", name)})
	}
	if !c.globalInitialized[name] {
		panic(SemanticError{Message: fmt.Sprintf("cannot access uninitialized variable '%s'", name)})
	}
	c.emit(bytecode.LOAD_GLOBAL, idx)
	return nil
}

// VisitAssignExpression compiles assignment used in expression position.
// The sole surface syntax for assignment is the "assign" statement
// (VisitAssignStmt); this exists only so Assign satisfies ExpressionVisitor
// for any AST built programmatically, and shares the same target dispatch.
func (c *Compiler) VisitAssignExpression(a ast.Assign) any {
	c.compileAssignTo(a.Target, a.Value)
	return nil
}

// VisitCall compiles a function call, a method call, or a native host call.
// A plain function call has a Variable callee. A host-qualified call like
// "os.console.print(...)" parses to the same MemberAccess-chain shape as a
// method call, so it is checked against the native name table first; if it
// matches, it compiles to CALL_NATIVE with no receiver pushed. Otherwise a
// MemberAccess callee is a method call: the receiver is pushed first, ahead
// of the arguments, so it lands in local 0 of the callee's frame and the
// arguments follow in locals 1..N, matching how methods declare "this".
func (c *Compiler) VisitCall(call ast.Call) any {
	c.setLine(call.Line)
	switch callee := call.Callee.(type) {
	case ast.Variable:
		for _, arg := range call.Arguments {
			arg.Accept(c)
		}
		idx, ok := c.functionIndex[callee.Name.Lexeme]
		if !ok {
			panic(SemanticError{Message: fmt.Sprintf("function '%s' is not defined", callee.Name.Lexeme)})
		}
		c.emit(bytecode.CALL, idx, len(call.Arguments))
	case ast.MemberAccess:
		if name, ok := qualifiedName(callee); ok {
			if nativeID, ok := native.Lookup(name); ok {
				for _, arg := range call.Arguments {
					arg.Accept(c)
				}
				c.emit(bytecode.CALL_NATIVE, int(nativeID), len(call.Arguments))
				return nil
			}
		}

		callee.Object.Accept(c)
		for _, arg := range call.Arguments {
			arg.Accept(c)
		}
		className := c.classNameOf(callee.Object)
		name := methodFunctionName(className, callee.Name.Lexeme)
		idx, ok := c.functionIndex[name]
		if !ok {
			panic(SemanticError{Message: fmt.Sprintf("method '%s' is not defined on '%s'", callee.Name.Lexeme, className)})
		}
		c.emit(bytecode.CALL, idx, len(call.Arguments)+1)
	default:
		panic(SemanticError{Message: "call target must be a function name or a method access"})
	}
	return nil
}

// qualifiedName renders a chain of plain Variable/MemberAccess nodes (e.g.
// "os.console.print") as a dotted string, the same shape host-qualified
// identifiers take in source. Any other expression shape (a call, an index,
// a literal receiver) can never name a native operation and returns false.
func qualifiedName(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case ast.Variable:
		return e.Name.Lexeme, true
	case ast.MemberAccess:
		base, ok := qualifiedName(e.Object)
		if !ok {
			return "", false
		}
		return base + "." + e.Name.Lexeme, true
	default:
		return "", false
	}
}

// classNameOf recovers the static class name of a method-call receiver.
// Method dispatch in this language is resolved at compile time by the
// receiver expression's static class: a constructor call like "Class()"
// and "this" are resolved directly, and a variable through localClassTypes
// (a parameter's class-type annotation or a "Class(...)" var initializer).
// Any other receiver is a compile error.
func (c *Compiler) classNameOf(obj ast.Expression) string {
	switch o := obj.(type) {
	case ast.ConstructorCall:
		return o.TypeName.Lexeme
	case ast.Variable:
		if o.Name.Lexeme == "this" {
			return c.enclosingClass
		}
		if cls, ok := c.localClassTypes[o.Name.Lexeme]; ok {
			return cls
		}
	}
	panic(SemanticError{Message: "cannot resolve the class of a method call receiver without a type annotation"})
}

func (c *Compiler) VisitMemberAccess(m ast.MemberAccess) any {
	c.setLine(m.Line)
	m.Object.Accept(c)
	idx := c.addStringConstant(m.Name.Lexeme)
	c.emit(bytecode.GET_FIELD, idx)
	return nil
}

func (c *Compiler) VisitArrayAccess(a ast.ArrayAccess) any {
	c.setLine(a.Line)
	a.Array.Accept(c)
	a.Index.Accept(c)
	c.emit(bytecode.GET_INDEX)
	return nil
}

// VisitArrayLiteral pushes each element then NEW_ARRAY with its size, per
// spec: NEW_ARRAY pops a size then that many elements, last-pushed landing
// at the highest index, so elements are pushed in source order.
func (c *Compiler) VisitArrayLiteral(a ast.ArrayLiteral) any {
	c.setLine(a.Line)
	for _, elem := range a.Elements {
		elem.Accept(c)
	}
	c.pushInt(int64(len(a.Elements)))
	c.emit(bytecode.NEW_ARRAY)
	return nil
}

// VisitConstructorCall compiles "TypeName(args...)". For a user-declared
// class this allocates a new object and runs its constructor for side
// effects (field writes), leaving the object reference on the stack. A
// primitive type keyword used as a constructor (e.g. "int(x)") has no
// class to instantiate; it compiles as a pass-through of its single
// argument, since this language has no separate numeric-conversion opcode.
func (c *Compiler) VisitConstructorCall(cc ast.ConstructorCall) any {
	c.setLine(cc.Line)
	if token.TypeKeywords[cc.TypeName.Kind] {
		if len(cc.Arguments) != 1 {
			panic(SemanticError{Message: fmt.Sprintf("'%s' conversion takes exactly one argument", cc.TypeName.Lexeme)})
		}
		cc.Arguments[0].Accept(c)
		return nil
	}

	classIdx := c.addStringConstant(cc.TypeName.Lexeme)
	c.emit(bytecode.NEW_OBJECT, classIdx)

	ctorName := constructorFunctionName(cc.TypeName.Lexeme)
	if idx, ok := c.functionIndex[ctorName]; ok {
		c.emit(bytecode.DUP)
		for _, arg := range cc.Arguments {
			arg.Accept(c)
		}
		c.emit(bytecode.CALL, idx, len(cc.Arguments)+1)
		c.emit(bytecode.POP)
	}
	return nil
}

// VisitTemplateLiteral compiles a backtick template: the first part is
// pushed, then every subsequent part is pushed and STR_CONCAT'd in, so
// numbers and other values are converted to their display form by the same
// rule the VM uses for "+" on strings.
func (c *Compiler) VisitTemplateLiteral(t ast.TemplateLiteral) any {
	c.setLine(t.Line)
	if len(t.Parts) == 0 {
		idx := c.addStringConstant("")
		c.emit(bytecode.PUSH_STR, idx)
		return nil
	}
	c.compileTemplatePart(t.Parts[0])
	for _, part := range t.Parts[1:] {
		c.compileTemplatePart(part)
		c.emit(bytecode.STR_CONCAT)
	}
	return nil
}

func (c *Compiler) compileTemplatePart(part ast.TemplatePart) {
	if part.Expr != nil {
		part.Expr.Accept(c)
		return
	}
	idx := c.addStringConstant(part.Text)
	c.emit(bytecode.PUSH_STR, idx)
}
