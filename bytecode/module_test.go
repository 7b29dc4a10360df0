package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := &Module{
		Code: append(
			MakeInstruction(PUSH_I8, 7),
			MakeInstruction(STORE_GLOBAL, 0)...,
		),
		Constants:           []string{"hi"},
		Globals:             []string{"x"},
		Functions:           []string{"add"},
		FunctionEntryPoints: []uint32{0},
		MainEntryPoint:      0,
		Metadata: Metadata{
			AppName:    "dial",
			AppVersion: "0.1",
			Author:     "dialscript",
			HeapSize:   1 << 16,
			Version:    1,
			Timestamp:  1234,
			Checksum:   42,
		},
		DebugLines: []LineEntry{{PC: 0, Line: 1}},
	}

	decoded, err := Decode(m.Encode())
	require.NoError(t, err)
	assert.Equal(t, m.Code, decoded.Code)
	assert.Equal(t, m.Constants, decoded.Constants)
	assert.Equal(t, m.Globals, decoded.Globals)
	assert.Equal(t, m.Functions, decoded.Functions)
	assert.Equal(t, m.FunctionEntryPoints, decoded.FunctionEntryPoints)
	assert.Equal(t, m.Metadata, decoded.Metadata)
	assert.Equal(t, m.DebugLines, decoded.DebugLines)
}

func TestDecodeWithoutFunctionEntryPoints(t *testing.T) {
	m := &Module{
		Code:      MakeInstruction(HALT),
		Functions: []string{"f"},
	}
	decoded, err := Decode(m.Encode())
	require.NoError(t, err)
	assert.Nil(t, decoded.FunctionEntryPoints)
	assert.Equal(t, []string{"f"}, decoded.Functions)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("XYZW"))
	require.Error(t, err)
	assert.Equal(t, "Invalid bytecode file format", err.Error())
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	data := append([]byte("DSBC"), 2, 0)
	_, err := Decode(data)
	require.Error(t, err)
	assert.Equal(t, "Unsupported bytecode version", err.Error())
}

func TestDisassembleJumpTarget(t *testing.T) {
	// JUMP_IF_NOT over a 1-byte PUSH_I8, landing exactly on the next
	// instruction; the operand is the signed delta from the first byte
	// after the 4-byte operand.
	code := MakeInstruction(JUMP_IF_NOT, 2)
	code = append(code, MakeInstruction(PUSH_I8, 9)...)
	m := &Module{Code: code}

	out := m.Disassemble()
	assert.Contains(t, out, "JUMP_IF_NOT")
	assert.Contains(t, out, "-> 0007")
}

func TestMakeInstructionCallEncodesIndexAndArgCount(t *testing.T) {
	instr := MakeInstruction(CALL, 513, 3)
	require.Len(t, instr, 4)
	assert.Equal(t, byte(CALL), instr[0])
	assert.Equal(t, []byte{0x01, 0x02}, instr[1:3])
	assert.Equal(t, byte(3), instr[3])
}
