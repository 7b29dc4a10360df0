package ast

import "dialscript/token"

// Parameter is a single "name : type" function/method parameter.
type Parameter struct {
	Name token.Token
	Type TypeNode
}

// FunctionDecl is a top-level "function name(params) : returnType { body }".
type FunctionDecl struct {
	Name       token.Token
	Parameters []Parameter
	ReturnType TypeNode
	Body       []Stmt
}

func (f FunctionDecl) Accept(v DeclVisitor) any { return v.VisitFunctionDecl(f) }

// FieldDecl is a class field: "name : type [= initializer];".
type FieldDecl struct {
	Name        token.Token
	Type        TypeNode
	Initializer Expression
}

func (f FieldDecl) Accept(v DeclVisitor) any { return v.VisitFieldDecl(f) }

// ConstructorDecl is a class's "constructor(params) { body }".
type ConstructorDecl struct {
	Parameters []Parameter
	Body       []Stmt
}

func (c ConstructorDecl) Accept(v DeclVisitor) any { return v.VisitConstructorDecl(c) }

// MethodDecl is a class method: "name(params) : returnType { body }".
type MethodDecl struct {
	Name       token.Token
	Parameters []Parameter
	ReturnType TypeNode
	Body       []Stmt
}

func (m MethodDecl) Accept(v DeclVisitor) any { return v.VisitMethodDecl(m) }

// ClassDecl is "class Name { fields; constructor; methods }".
type ClassDecl struct {
	Name        token.Token
	Fields      []FieldDecl
	Constructor *ConstructorDecl
	Methods     []MethodDecl
}

func (c ClassDecl) Accept(v DeclVisitor) any { return v.VisitClassDecl(c) }

// Program is the root node: the full sequence of top-level declarations
// and statements that make up one compilation unit.
type Program struct {
	Declarations []Decl
	Statements   []Stmt
}

func (p Program) Accept(v DeclVisitor) any { return v.VisitProgram(p) }
