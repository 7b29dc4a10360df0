package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Disassemble renders m.Code as human-readable mnemonic text. Indexed
// operands are resolved against the module's Constants/Globals/Functions
// tables, and jump operands — encoded on disk as a signed delta from the
// byte immediately after the instruction — are resolved to the absolute
// code offset they target.
func (m *Module) Disassemble() string {
	var out strings.Builder
	pc := 0
	for pc < len(m.Code) {
		op := Op(m.Code[pc])
		fmt.Fprintf(&out, "%04d  %s", pc, op)

		switch op {
		case PUSH_I8, LOAD_LOCAL, STORE_LOCAL:
			operand := int8(m.Code[pc+1])
			fmt.Fprintf(&out, " %d", operand)

		case PUSH_I16:
			operand := int16(binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3]))
			fmt.Fprintf(&out, " %d", operand)

		case PUSH_STR:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			fmt.Fprintf(&out, " %d %s", idx, quotedConstant(m, idx))

		case LOAD_GLOBAL, STORE_GLOBAL:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			fmt.Fprintf(&out, " %d %s", idx, nameAt(m.Globals, idx))

		case GET_FIELD, SET_FIELD:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			fmt.Fprintf(&out, " %d %s", idx, quotedConstant(m, idx))

		case NEW_OBJECT:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			fmt.Fprintf(&out, " %d %s", idx, quotedConstant(m, idx))

		case PUSH_I32:
			operand := int32(binary.LittleEndian.Uint32(m.Code[pc+1 : pc+5]))
			fmt.Fprintf(&out, " %d", operand)

		case PUSH_F32:
			bits := binary.LittleEndian.Uint32(m.Code[pc+1 : pc+5])
			fmt.Fprintf(&out, " %v", math.Float32frombits(bits))

		case JUMP, JUMP_IF, JUMP_IF_NOT, TRY:
			delta := int32(binary.LittleEndian.Uint32(m.Code[pc+1 : pc+5]))
			target := pc + 5 + int(delta)
			fmt.Fprintf(&out, " -> %04d", target)

		case CALL:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			argc := m.Code[pc+3]
			fmt.Fprintf(&out, " %d %s argc=%d", idx, nameAt(m.Functions, idx), argc)

		case CALL_NATIVE:
			idx := binary.LittleEndian.Uint16(m.Code[pc+1 : pc+3])
			argc := m.Code[pc+3]
			fmt.Fprintf(&out, " native=%d argc=%d", idx, argc)
		}

		out.WriteByte('\n')
		pc += InstructionWidth(op)
	}
	return out.String()
}

func nameAt(table []string, idx uint16) string {
	if int(idx) >= len(table) {
		return "?"
	}
	return table[idx]
}

func quotedConstant(m *Module, idx uint16) string {
	return fmt.Sprintf("%q", nameAt(m.Constants, idx))
}
