package compiler

import (
	"fmt"

	"dialscript/ast"
	"dialscript/bytecode"
)

func (c *Compiler) VisitExpressionStmt(e ast.ExpressionStmt) any {
	e.Expression.Accept(c)
	c.emit(bytecode.POP)
	return nil
}

// VisitPrintStmt compiles the debug-only print alias.
func (c *Compiler) VisitPrintStmt(p ast.PrintStmt) any {
	p.Expression.Accept(c)
	c.emit(bytecode.PRINT)
	return nil
}

// VisitVarStmt declares a new variable, global at the top level or local
// inside a function/block, and compiles its required initializer.
func (c *Compiler) VisitVarStmt(v ast.VarStmt) any {
	name := v.Name.Lexeme
	v.Initializer.Accept(c)
	if named, ok := classTypeOfExpression(v.Initializer); ok {
		if c.localClassTypes == nil {
			c.localClassTypes = make(map[string]string)
		}
		c.localClassTypes[name] = named
	}

	if c.scopeDepth == 0 {
		idx := c.addGlobal(name)
		c.emit(bytecode.STORE_GLOBAL, idx)
		c.globalInitialized[name] = true
		return nil
	}

	slot := c.declareLocal(name)
	c.emit(bytecode.STORE_LOCAL, slot)
	c.locals[len(c.locals)-1].initialized = true
	return nil
}

// classTypeOfExpression infers a variable's class type from a "Class(...)"
// initializer.
func classTypeOfExpression(expr ast.Expression) (string, bool) {
	if cc, ok := expr.(ast.ConstructorCall); ok {
		return cc.TypeName.Lexeme, true
	}
	return "", false
}

// VisitAssignStmt compiles the sole assignment form: "assign target value;".
func (c *Compiler) VisitAssignStmt(a ast.AssignStmt) any {
	c.setLine(a.Line)
	c.compileAssignTo(a.Target, a.Value)
	c.emit(bytecode.POP)
	return nil
}

// compileAssignTo compiles "target = value" for the three assignable
// target shapes: a bare identifier (local or global), a field access, or
// an array index. The value is always pushed first so it is what remains
// on the stack as the assignment expression's result.
func (c *Compiler) compileAssignTo(target ast.Expression, value ast.Expression) {
	switch t := target.(type) {
	case ast.Variable:
		value.Accept(c)
		c.emit(bytecode.DUP)
		name := t.Name.Lexeme
		if slot := c.resolveLocal(name); slot != -1 {
			c.emit(bytecode.STORE_LOCAL, slot)
			return
		}
		idx := c.resolveGlobal(name)
		if idx == -1 {
			panic(SemanticError{Message: fmt.Sprintf("name '%s' is not defined", name)})
		}
		c.globalInitialized[name] = true
		c.emit(bytecode.STORE_GLOBAL, idx)
	case ast.MemberAccess:
		// SET_FIELD expects [value, object] with object on top, and
		// pushes the value back as this expression's result.
		value.Accept(c)
		t.Object.Accept(c)
		idx := c.addStringConstant(t.Name.Lexeme)
		c.emit(bytecode.SET_FIELD, idx)
	case ast.ArrayAccess:
		// SET_INDEX expects [value, array, index] with index on top, and
		// pushes the value back as this expression's result.
		value.Accept(c)
		t.Array.Accept(c)
		t.Index.Accept(c)
		c.emit(bytecode.SET_INDEX)
	default:
		panic(SemanticError{Message: "invalid assignment target"})
	}
}

func (c *Compiler) VisitBlockStmt(b ast.BlockStmt) any {
	c.beginScope()
	for _, stmt := range b.Statements {
		stmt.Accept(c)
	}
	c.endScope()
	return nil
}

// VisitIfStmt compiles "if (cond) then [else elseBranch]" with backpatched
// jumps; JUMP_IF_NOT/JUMP operands are relative signed deltas.
func (c *Compiler) VisitIfStmt(i ast.IfStmt) any {
	i.Condition.Accept(c)
	jumpElse := c.emitJump(bytecode.JUMP_IF_NOT)
	i.ThenBranch.Accept(c)

	if i.ElseBranch != nil {
		jumpEnd := c.emitJump(bytecode.JUMP)
		c.patchJump(jumpElse)
		i.ElseBranch.Accept(c)
		c.patchJump(jumpEnd)
	} else {
		c.patchJump(jumpElse)
	}
	return nil
}

// VisitWhileStmt compiles "while (cond) body" as a condition check, a
// conditional exit jump, the body, and an unconditional jump back to the
// condition.
func (c *Compiler) VisitWhileStmt(w ast.WhileStmt) any {
	loopStart := len(c.code)
	w.Condition.Accept(c)
	jumpEnd := c.emitJump(bytecode.JUMP_IF_NOT)
	w.Body.Accept(c)
	backEdge := c.emitJump(bytecode.JUMP)
	c.patchJumpTo(backEdge, loopStart)
	c.patchJump(jumpEnd)
	return nil
}

// VisitForStmt compiles a C-style "for (init; cond; post) body" loop by
// desugaring to the same shape as a while loop with an init before it and
// the post-clause appended to the end of the body.
func (c *Compiler) VisitForStmt(f ast.ForStmt) any {
	c.beginScope()
	if f.Init != nil {
		f.Init.Accept(c)
	}

	loopStart := len(c.code)
	var jumpEnd int
	hasCondition := f.Condition != nil
	if hasCondition {
		f.Condition.Accept(c)
		jumpEnd = c.emitJump(bytecode.JUMP_IF_NOT)
	}

	f.Body.Accept(c)
	if f.Post != nil {
		f.Post.Accept(c)
	}

	backEdge := c.emitJump(bytecode.JUMP)
	c.patchJumpTo(backEdge, loopStart)
	if hasCondition {
		c.patchJump(jumpEnd)
	}
	c.endScope()
	return nil
}

// VisitReturnStmt compiles "return [value];", pushing a null for a bare
// return so RETURN can unconditionally pop a result value.
func (c *Compiler) VisitReturnStmt(r ast.ReturnStmt) any {
	c.setLine(r.Line)
	if r.Value != nil {
		r.Value.Accept(c)
	} else {
		c.emit(bytecode.PUSH_NULL)
	}
	c.emit(bytecode.RETURN)
	return nil
}

// VisitTryStmt compiles "try tryBlock catch (name) catchBlock [finally
// finallyBlock]". TRY installs a fault handler targeting the catch block;
// END_TRY removes it once the try block completes without faulting. A
// thrown value or runtime fault transfers control to the catch block with
// the fault value bound to CatchName as a local.
func (c *Compiler) VisitTryStmt(t ast.TryStmt) any {
	tryJump := c.emitJump(bytecode.TRY)
	t.TryBlock.Accept(c)
	c.emit(bytecode.END_TRY)
	jumpOverCatch := c.emitJump(bytecode.JUMP)

	c.patchJump(tryJump)
	c.beginScope()
	slot := c.declareLocal(t.CatchName.Lexeme)
	c.emit(bytecode.STORE_LOCAL, slot)
	c.locals[len(c.locals)-1].initialized = true
	t.CatchBlock.Accept(c)
	c.endScope()
	c.patchJump(jumpOverCatch)

	if t.FinallyBlock != nil {
		t.FinallyBlock.Accept(c)
	}
	return nil
}
