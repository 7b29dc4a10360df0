// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the compiler. Every node family follows the visitor pattern:
// a node implements Accept by calling back into the matching Visit method.
package ast

// Expression is the base interface for all expression nodes. An expression
// always evaluates to a value.
type Expression interface {
	Accept(v ExpressionVisitor) any
}

// Stmt is the base interface for all statement nodes. A statement never
// produces a value itself.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// TypeNode is the base interface for type annotation nodes (primitive,
// named, array and nullable types).
type TypeNode interface {
	Accept(v TypeVisitor) any
}

// Decl is the base interface for top-level and class-member declarations.
type Decl interface {
	Accept(v DeclVisitor) any
}

// ExpressionVisitor defines one Visit method per Expression node kind.
type ExpressionVisitor interface {
	VisitBinary(b Binary) any
	VisitUnary(u Unary) any
	VisitTernary(t Ternary) any
	VisitLogical(l Logical) any
	VisitLiteral(lit Literal) any
	VisitGrouping(g Grouping) any
	VisitVariableExpression(v Variable) any
	VisitAssignExpression(a Assign) any
	VisitCall(c Call) any
	VisitMemberAccess(m MemberAccess) any
	VisitArrayAccess(a ArrayAccess) any
	VisitArrayLiteral(a ArrayLiteral) any
	VisitConstructorCall(c ConstructorCall) any
	VisitTemplateLiteral(t TemplateLiteral) any
}

// StmtVisitor defines one Visit method per Stmt node kind.
type StmtVisitor interface {
	VisitExpressionStmt(e ExpressionStmt) any
	VisitPrintStmt(p PrintStmt) any
	VisitVarStmt(v VarStmt) any
	VisitAssignStmt(a AssignStmt) any
	VisitBlockStmt(b BlockStmt) any
	VisitIfStmt(i IfStmt) any
	VisitWhileStmt(w WhileStmt) any
	VisitForStmt(f ForStmt) any
	VisitReturnStmt(r ReturnStmt) any
	VisitTryStmt(t TryStmt) any
}

// TypeVisitor defines one Visit method per TypeNode kind.
type TypeVisitor interface {
	VisitPrimitiveType(p PrimitiveType) any
	VisitNamedType(n NamedType) any
	VisitArrayType(a ArrayType) any
	VisitNullableType(n NullableType) any
}

// DeclVisitor defines one Visit method per Decl node kind.
type DeclVisitor interface {
	VisitFunctionDecl(f FunctionDecl) any
	VisitFieldDecl(f FieldDecl) any
	VisitConstructorDecl(c ConstructorDecl) any
	VisitMethodDecl(m MethodDecl) any
	VisitClassDecl(c ClassDecl) any
	VisitProgram(p Program) any
}
