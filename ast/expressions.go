package ast

import "dialscript/token"

// Binary represents a binary operation expression (e.g. "a + b").
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Unary represents a unary operation expression (e.g. "-a" or "not a").
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Ternary represents a "cond ? then : else" conditional expression.
type Ternary struct {
	Condition Expression
	Then      Expression
	Else      Expression
	Line, Col int
}

func (t Ternary) Accept(v ExpressionVisitor) any { return v.VisitTernary(t) }

// Logical represents a short-circuiting "and"/"or" expression. Kept
// separate from Binary so the compiler can lower it to jump sequences
// instead of emitting the non-short-circuiting AND/OR opcodes.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l Logical) Accept(v ExpressionVisitor) any { return v.VisitLogical(l) }

// Literal represents a literal value: number, string, boolean, or null.
type Literal struct {
	Value     any
	Line, Col int
}

func (lit Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(lit) }

// Grouping represents a parenthesized expression.
type Grouping struct {
	Expression Expression
}

func (g Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(g) }

// Variable represents a read of a previously declared name.
type Variable struct {
	Name token.Token
}

func (variable Variable) Accept(v ExpressionVisitor) any { return v.VisitVariableExpression(variable) }

// Assign represents the value-producing side of an "assign target value;"
// statement: the target being written to and the value expression.
type Assign struct {
	Target Expression
	Value  Expression
}

func (a Assign) Accept(v ExpressionVisitor) any { return v.VisitAssignExpression(a) }

// Call represents a function or method call: callee(args...).
type Call struct {
	Callee    Expression
	Arguments []Expression
	Line, Col int
}

func (c Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }

// MemberAccess represents "object.field".
type MemberAccess struct {
	Object    Expression
	Name      token.Token
	Line, Col int
}

func (m MemberAccess) Accept(v ExpressionVisitor) any { return v.VisitMemberAccess(m) }

// ArrayAccess represents "array[index]".
type ArrayAccess struct {
	Array     Expression
	Index     Expression
	Line, Col int
}

func (a ArrayAccess) Accept(v ExpressionVisitor) any { return v.VisitArrayAccess(a) }

// ArrayLiteral represents "[e1, e2, ...]".
type ArrayLiteral struct {
	Elements  []Expression
	Line, Col int
}

func (a ArrayLiteral) Accept(v ExpressionVisitor) any { return v.VisitArrayLiteral(a) }

// ConstructorCall represents "TypeName(args...)" for a class or primitive
// type conversion.
type ConstructorCall struct {
	TypeName  token.Token
	Arguments []Expression
	Line, Col int
}

func (c ConstructorCall) Accept(v ExpressionVisitor) any { return v.VisitConstructorCall(c) }

// TemplatePart is one alternating part of a template literal: exactly one
// of Text (a raw TEMPLATE_TEXT chunk) or Expr (an interpolated "${...}")
// is set.
type TemplatePart struct {
	Text string
	Expr Expression
}

// TemplateLiteral represents a backtick-delimited template literal made up
// of alternating string and interpolated-expression parts.
type TemplateLiteral struct {
	Parts     []TemplatePart
	Line, Col int
}

func (t TemplateLiteral) Accept(v ExpressionVisitor) any { return v.VisitTemplateLiteral(t) }
