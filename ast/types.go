package ast

import "dialscript/token"

// PrimitiveType names one of the built-in scalar types: int, uint, byte,
// short, float, bool, string, void or any.
type PrimitiveType struct {
	Kind token.Kind
}

func (p PrimitiveType) Accept(v TypeVisitor) any { return v.VisitPrimitiveType(p) }

// NamedType names a user-declared class type by identifier.
type NamedType struct {
	Name token.Token
}

func (n NamedType) Accept(v TypeVisitor) any { return v.VisitNamedType(n) }

// ArrayType is an element type followed by "[]".
type ArrayType struct {
	Element TypeNode
}

func (a ArrayType) Accept(v TypeVisitor) any { return v.VisitArrayType(a) }

// NullableType is an underlying type followed by "?".
type NullableType struct {
	Underlying TypeNode
}

func (n NullableType) Accept(v TypeVisitor) any { return v.VisitNullableType(n) }
