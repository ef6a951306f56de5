// Package code defines the opcode set, instruction encoding, and the IRep
// record that codegen emits (§3.4, §3.5).
//
// The instruction format follows the teacher's code/code.go: a Definition
// table mapping each Opcode to its operand widths, Make to assemble an
// instruction, and ReadOperands/Lookup to disassemble one. Every operand
// is encoded as a fixed-width two's-complement integer (rather than the
// teacher's unsigned-only widths) so CALL/TAILCALL can carry the -1
// multi-value sentinel (§9) and JMP/JMPIF can carry a negative relative
// offset without a separate signed/unsigned split.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is a flat sequence of encoded opcodes and operands.
type Instructions []byte

// Opcode is a single bytecode instruction tag.
type Opcode byte

//nolint:revive
const (
	LREF Opcode = iota
	LSET
	GREF
	GSET
	CREF
	CSET
	PUSHNIL
	PUSHTRUE
	PUSHFALSE
	PUSHINT
	PUSHCHAR
	PUSHCONST
	LAMBDA
	JMPIF
	JMP
	POP
	CONS
	CAR
	CDR
	NILP
	SYMBOLP
	PAIRP
	ADD
	SUB
	MUL
	DIV
	MINUS
	EQ
	LT
	LE
	NOT
	CALL
	TAILCALL
	RET
)

// OperandShape classifies what an instruction's operands mean, per §3.5:
// none, a single signed integer, a character, or a (depth, index) pair.
type OperandShape int

const (
	ShapeNone OperandShape = iota
	ShapeInt
	ShapeChar
	ShapeDepthIndex
)

// Definition names an opcode and the byte width of each of its operands.
type Definition struct {
	Name  string
	Shape OperandShape
	// Widths holds one entry per operand: none for ShapeNone, one for
	// ShapeInt and ShapeChar, and two (depth then index) for
	// ShapeDepthIndex.
	Widths []int
}

var definitions = map[Opcode]*Definition{
	LREF:      {"LREF", ShapeInt, []int{2}},
	LSET:      {"LSET", ShapeInt, []int{2}},
	GREF:      {"GREF", ShapeInt, []int{2}},
	GSET:      {"GSET", ShapeInt, []int{2}},
	CREF:      {"CREF", ShapeDepthIndex, []int{1, 2}},
	CSET:      {"CSET", ShapeDepthIndex, []int{1, 2}},
	PUSHNIL:   {"PUSHNIL", ShapeNone, nil},
	PUSHTRUE:  {"PUSHTRUE", ShapeNone, nil},
	PUSHFALSE: {"PUSHFALSE", ShapeNone, nil},
	PUSHINT:   {"PUSHINT", ShapeInt, []int{8}},
	PUSHCHAR:  {"PUSHCHAR", ShapeChar, []int{4}},
	PUSHCONST: {"PUSHCONST", ShapeInt, []int{2}},
	LAMBDA:    {"LAMBDA", ShapeInt, []int{2}},
	JMPIF:     {"JMPIF", ShapeInt, []int{2}},
	JMP:       {"JMP", ShapeInt, []int{2}},
	POP:       {"POP", ShapeNone, nil},
	CONS:      {"CONS", ShapeNone, nil},
	CAR:       {"CAR", ShapeNone, nil},
	CDR:       {"CDR", ShapeNone, nil},
	NILP:      {"NILP", ShapeNone, nil},
	SYMBOLP:   {"SYMBOLP", ShapeNone, nil},
	PAIRP:     {"PAIRP", ShapeNone, nil},
	ADD:       {"ADD", ShapeNone, nil},
	SUB:       {"SUB", ShapeNone, nil},
	MUL:       {"MUL", ShapeNone, nil},
	DIV:       {"DIV", ShapeNone, nil},
	MINUS:     {"MINUS", ShapeNone, nil},
	EQ:        {"EQ", ShapeNone, nil},
	LT:        {"LT", ShapeNone, nil},
	LE:        {"LE", ShapeNone, nil},
	NOT:       {"NOT", ShapeNone, nil},
	CALL:      {"CALL", ShapeInt, []int{2}},
	TAILCALL:  {"TAILCALL", ShapeInt, []int{2}},
	RET:       {"RET", ShapeInt, []int{2}},
}

// Lookup returns the Definition for op.
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("code: opcode %d undefined", op)
	}
	return def, nil
}

// Make assembles a single instruction from an opcode and its operands.
// Operands are always passed in official order: for ShapeDepthIndex,
// depth first then index.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}
	length := 1
	for _, w := range def.Widths {
		length += w
	}
	ins := make([]byte, length)
	ins[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := def.Widths[i]
		putSigned(ins[offset:offset+width], width, operand)
		offset += width
	}
	return ins
}

// String disassembles ins into a human-readable listing.
func (ins Instructions) String() string {
	var out strings.Builder
	i := 0
	for i < len(ins) {
		def, err := Lookup(ins[i])
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}
		operands, read := ReadOperands(def, ins[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, ins.fmtInstruction(def, operands))
		i += read + 1
	}
	return out.String()
}

func (ins Instructions) fmtInstruction(def *Definition, operands []int) string {
	switch len(operands) {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	case 2:
		return fmt.Sprintf("%s %d %d", def.Name, operands[0], operands[1])
	default:
		return fmt.Sprintf("ERROR: unhandled operand count for %s\n", def.Name)
	}
}

// ReadOperands decodes the operands of one instruction (excluding the
// leading opcode byte) per def, returning the decoded values and the
// number of bytes consumed.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.Widths))
	offset := 0
	for i, width := range def.Widths {
		operands[i] = readSigned(ins[offset:offset+width], width)
		offset += width
	}
	return operands, offset
}

func putSigned(dst []byte, width, v int) {
	switch width {
	case 1:
		dst[0] = byte(int8(v))
	case 2:
		binary.BigEndian.PutUint16(dst, uint16(int16(v)))
	case 4:
		binary.BigEndian.PutUint32(dst, uint32(int32(v)))
	case 8:
		binary.BigEndian.PutUint64(dst, uint64(int64(v)))
	default:
		panic(fmt.Sprintf("code: unsupported operand width %d", width))
	}
}

func readSigned(src []byte, width int) int {
	switch width {
	case 1:
		return int(int8(src[0]))
	case 2:
		return int(int16(binary.BigEndian.Uint16(src)))
	case 4:
		return int(int32(binary.BigEndian.Uint32(src)))
	case 8:
		return int(int64(binary.BigEndian.Uint64(src)))
	default:
		panic(fmt.Sprintf("code: unsupported operand width %d", width))
	}
}
