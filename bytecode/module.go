package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	magic              = "DSBC"
	currentVersionMajor = 1
	currentVersionMinor = 0

	flagHasFunctionEntryPoints uint16 = 1 << 0
	flagHasDebugLines          uint16 = 1 << 1
)

// Metadata carries the descriptive header shipped alongside a compiled
// module: authorship, the heap budget the VM must enforce, and a checksum
// left for host-side integrity checks.
type Metadata struct {
	AppName    string
	AppVersion string
	Author     string
	HeapSize   uint32
	Version    uint32
	Timestamp  uint64
	Checksum   uint16
}

// LineEntry maps a single code offset back to a source line, for fault
// reporting and disassembly. The debug-line section is optional; a module
// built without it simply has a nil Module.DebugLines.
type LineEntry struct {
	PC   uint32
	Line uint32
}

// Module is the complete output of compilation: executable code plus every
// table the VM needs to resolve the operands embedded in it. Only string
// literals live in Constants — numeric literals are encoded directly as
// instruction operands (see Op) and never touch this table.
type Module struct {
	Code                []byte
	Constants           []string
	Globals             []string
	Functions           []string
	FunctionEntryPoints []uint32
	MainEntryPoint      uint32
	Metadata            Metadata
	DebugLines          []LineEntry
}

// MakeInstruction assembles one instruction: the opcode byte followed by
// its operands, little-endian, each truncated to the opcode's declared
// width. CALL and CALL_NATIVE expect two operands (index, count); every
// other opcode expects at most one.
func MakeInstruction(op Op, operands ...int) []byte {
	switch op {
	case CALL, CALL_NATIVE:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint16(buf[1:3], uint16(operands[0]))
		buf[0] = byte(op)
		buf[3] = byte(operands[1])
		return buf
	default:
		width := OperandWidth(op)
		buf := make([]byte, 1+width)
		buf[0] = byte(op)
		if width == 0 {
			return buf
		}
		operand := 0
		if len(operands) > 0 {
			operand = operands[0]
		}
		switch width {
		case 1:
			buf[1] = byte(operand)
		case 2:
			binary.LittleEndian.PutUint16(buf[1:3], uint16(operand))
		case 4:
			binary.LittleEndian.PutUint32(buf[1:5], uint32(int32(operand)))
		}
		return buf
	}
}

// Encode serializes m into the on-disk bytecode container format.
func (m *Module) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(currentVersionMajor)
	buf.WriteByte(currentVersionMinor)

	flags := uint16(0)
	if m.FunctionEntryPoints != nil {
		flags |= flagHasFunctionEntryPoints
	}
	if m.DebugLines != nil {
		flags |= flagHasDebugLines
	}
	writeU16(&buf, flags)

	writeString(&buf, m.Metadata.AppName)
	writeString(&buf, m.Metadata.AppVersion)
	writeString(&buf, m.Metadata.Author)
	writeU32(&buf, m.Metadata.HeapSize)
	writeU32(&buf, m.Metadata.Version)
	writeU64(&buf, m.Metadata.Timestamp)
	writeU16(&buf, m.Metadata.Checksum)

	writeStringTable(&buf, m.Constants)
	writeStringTable(&buf, m.Globals)
	writeStringTable(&buf, m.Functions)
	if flags&flagHasFunctionEntryPoints != 0 {
		for _, pc := range m.FunctionEntryPoints {
			writeU32(&buf, pc)
		}
	}

	writeU32(&buf, uint32(len(m.Code)))
	buf.Write(m.Code)

	writeU32(&buf, m.MainEntryPoint)

	if flags&flagHasDebugLines != 0 {
		writeU32(&buf, uint32(len(m.DebugLines)))
		for _, e := range m.DebugLines {
			writeU32(&buf, e.PC)
			writeU32(&buf, e.Line)
		}
	}

	return buf.Bytes()
}

// Decode parses the on-disk bytecode container format into a Module. It
// validates the magic number and version before trusting any other field,
// and tolerates modules serialized both with and without the optional
// function entry-point table.
func Decode(data []byte) (*Module, error) {
	r := bytes.NewReader(data)

	if r.Len() < len(magic) || string(data[:len(magic)]) != magic {
		return nil, DeserializationError{Message: "Invalid bytecode file format"}
	}
	r.Seek(int64(len(magic)), 0)

	major, err := readByte(r)
	if err != nil {
		return nil, DeserializationError{Message: "Invalid bytecode file format"}
	}
	minor, err := readByte(r)
	if err != nil {
		return nil, DeserializationError{Message: "Invalid bytecode file format"}
	}
	if major != currentVersionMajor || minor != currentVersionMinor {
		return nil, DeserializationError{Message: "Unsupported bytecode version"}
	}

	flags, err := readU16(r)
	if err != nil {
		return nil, truncated()
	}

	m := &Module{}

	if m.Metadata.AppName, err = readString(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.AppVersion, err = readString(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.Author, err = readString(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.HeapSize, err = readU32(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.Version, err = readU32(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.Timestamp, err = readU64(r); err != nil {
		return nil, truncated()
	}
	if m.Metadata.Checksum, err = readU16(r); err != nil {
		return nil, truncated()
	}

	if m.Constants, err = readStringTable(r); err != nil {
		return nil, truncated()
	}
	if m.Globals, err = readStringTable(r); err != nil {
		return nil, truncated()
	}
	if m.Functions, err = readStringTable(r); err != nil {
		return nil, truncated()
	}
	if flags&flagHasFunctionEntryPoints != 0 {
		m.FunctionEntryPoints = make([]uint32, len(m.Functions))
		for i := range m.FunctionEntryPoints {
			if m.FunctionEntryPoints[i], err = readU32(r); err != nil {
				return nil, truncated()
			}
		}
	}

	codeLen, err := readU32(r)
	if err != nil {
		return nil, truncated()
	}
	code := make([]byte, codeLen)
	if _, err := r.Read(code); err != nil && codeLen > 0 {
		return nil, truncated()
	}
	m.Code = code

	if m.MainEntryPoint, err = readU32(r); err != nil {
		return nil, truncated()
	}

	if flags&flagHasDebugLines != 0 {
		count, err := readU32(r)
		if err != nil {
			return nil, truncated()
		}
		m.DebugLines = make([]LineEntry, count)
		for i := range m.DebugLines {
			if m.DebugLines[i].PC, err = readU32(r); err != nil {
				return nil, truncated()
			}
			if m.DebugLines[i].Line, err = readU32(r); err != nil {
				return nil, truncated()
			}
		}
	}

	return m, nil
}

func truncated() error {
	return DeserializationError{Message: "Invalid bytecode file format"}
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func writeStringTable(buf *bytes.Buffer, entries []string) {
	writeU32(buf, uint32(len(entries)))
	for _, e := range entries {
		writeString(buf, e)
	}
}

func readByte(r *bytes.Reader) (byte, error) {
	return r.ReadByte()
}

func readU16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if err != nil {
		return n, err
	}
	if n != len(b) {
		return n, fmt.Errorf("short read: got %d want %d", n, len(b))
	}
	return n, nil
}

func readString(r *bytes.Reader) (string, error) {
	length, err := readU16(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, length)
	if length > 0 {
		if _, err := readFull(r, b); err != nil {
			return "", err
		}
	}
	return string(b), nil
}

func readStringTable(r *bytes.Reader) ([]string, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	entries := make([]string, count)
	for i := range entries {
		if entries[i], err = readString(r); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
