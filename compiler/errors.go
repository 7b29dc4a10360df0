package compiler

import "fmt"

// SemanticError reports a name/scope problem discovered while compiling:
// redefinitions, unresolved identifiers, and the like.
type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("SemanticError: %s", e.Message)
}

// DeveloperError reports an internal invariant violation in the compiler
// itself (an opcode emitted with the wrong operand shape, for example). It
// should never surface from well-formed input.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("DeveloperError: %s", e.Message)
}
