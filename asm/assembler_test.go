package asm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcsim/arc/cpu"
	"github.com/arcsim/arc/mem"
)

func TestAssembler_Simple(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
; float compare demo
MOVI AX,10.0
HALT
`)
	assert.NoError(err)
	assert.Len(image.Text, 2)
	assert.Equal([]int{3, 4}, image.Lines)
	assert.Equal(uint32(0), image.Layout.TextStart)
	assert.Equal(uint32(8), image.Layout.TextSize)
	assert.Equal(uint32(0), image.Entry())

	op, a, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(cpu.OP_MOVI, op)
	assert.Equal(cpu.REG_AX, a.Reg)
	assert.Equal(uint32(0x41200000), b.Imm)

	op, _, _, err = cpu.Decode(image.Text[1])
	assert.NoError(err)
	assert.Equal(cpu.OP_HALT, op)
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
JMP done
MOVI AX,1
done: HALT
`)
	assert.NoError(err)
	assert.Len(image.Text, 3)
	assert.Equal(uint32(8), asm.Label["done"])

	op, a, _, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(cpu.OP_JMP, op)
	assert.Equal(cpu.Operand{Kind: cpu.KIND_ADDR, Addr: 8}, a)
}

func TestAssembler_LabelDuplicate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
here: HALT
here: HALT
`)
	assert.ErrorIs(err, ErrLabelDuplicate)

	var errSyntax *ErrSyntax
	assert.True(errors.As(err, &errSyntax))
	assert.Equal(3, errSyntax.LineNo)
}

func TestAssembler_Equates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
.equ LIMIT 42
MOVI AX,LIMIT
HALT
`)
	assert.NoError(err)

	_, _, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(uint32(42), b.Imm)

	_, err = asm.Assemble(`
.equ X 1
.equ X 2
`)
	assert.ErrorIs(err, ErrEquateDuplicate)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("START", "7")
	image, err := asm.Assemble(`
MOVI AX,START
HALT
`)
	assert.NoError(err)

	_, _, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(uint32(7), b.Imm)
}

func TestAssembler_Starlark(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
.equ WIDTH 8
MOVI AX,$(WIDTH*2+1)
HALT
`)
	assert.NoError(err)

	_, _, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(uint32(17), b.Imm)

	_, err = asm.Assemble(`
MOVI AX,$(nosuchthing*2)
`)
	assert.Error(err)
}

func TestAssembler_DuplicateDirective(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
.stack_size 4096
.stack_size 8192
HALT
`)
	assert.ErrorIs(err, ErrDuplicateDirective)
}

func TestAssembler_UndefinedSymbol(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
JMP nowhere
`)
	assert.ErrorIs(err, ErrUndefinedSymbol(""))
}

func TestAssembler_SegmentLayout(t *testing.T) {
	assert := assert.New(t)

	// Stack over the text region: no image.
	asm := &Assembler{}
	image, err := asm.Assemble(`
.stack_start 0
MOVI AX,1
HALT
`)
	assert.ErrorIs(err, mem.ErrSegmentLayout)
	assert.Nil(image)
}

func TestAssembler_TextStart(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
.text_start 0x100
loop: JMP loop
`)
	assert.NoError(err)
	assert.Equal(uint32(0x100), image.Layout.TextStart)
	assert.Equal(uint32(0x100), image.Entry())
	assert.Equal(uint32(0x100), asm.Label["loop"])

	_, a, _, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(uint32(0x100), a.Addr)
}

func TestAssembler_Data(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
MOVI AX,msg
HALT
.data
msg: .string "hi"
.align 4
nums: .word 1,2
flag: .byte 0xff
buf: .space 4
`)
	assert.NoError(err)

	layout := image.Layout
	assert.Equal(uint32(17), layout.DataSize)
	assert.Equal(layout.StackStart-17, layout.DataStart)

	assert.Equal(layout.DataStart, asm.Label["msg"])
	assert.Equal(layout.DataStart+4, asm.Label["nums"])
	assert.Equal(layout.DataStart+12, asm.Label["flag"])
	assert.Equal(layout.DataStart+13, asm.Label["buf"])

	assert.Equal([]byte{
		'h', 'i', 0, 0,
		1, 0, 0, 0,
		2, 0, 0, 0,
		0xff,
		0, 0, 0, 0,
	}, image.Data)

	_, _, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(layout.DataStart, b.Imm)
}

func TestAssembler_StringEscapes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
HALT
.data
msg: .string "a\n\t\"b\\\0"
`)
	assert.NoError(err)
	assert.Equal([]byte{'a', '\n', '\t', '"', 'b', '\\', 0, 0}, image.Data)

	_, err = asm.Assemble(`
HALT
.data
.string "unterminated
`)
	assert.ErrorIs(err, ErrStringSyntax)
}

func TestAssembler_CommentInString(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
HALT
.data
msg: .string "a;b" ; trailing comment
`)
	assert.NoError(err)
	assert.Equal([]byte{'a', ';', 'b', 0}, image.Data)
}

func TestAssembler_InstructionInData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
.data
MOVI AX,1
`)
	assert.ErrorIs(err, ErrSectionData)
}

func TestAssembler_DataDirectiveInText(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
.word 1,2
HALT
`)
	assert.ErrorIs(err, ErrInvalidDirective)
}

func TestAssembler_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
FROB AX,1
`)
	assert.ErrorIs(err, ErrOpcodeInvalid(""))

	var errSyntax *ErrSyntax
	assert.True(errors.As(err, &errSyntax))
	assert.Equal(2, errSyntax.LineNo)
}

func TestAssembler_ImmediateRange(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble(`
MOVI AX,0x10001
`)
	assert.ErrorIs(err, cpu.ErrImmediateRange(0))
}

func TestAssembler_Deterministic(t *testing.T) {
	assert := assert.New(t)

	src := `
.stack_size 8192
start: MOVI AX,10.0
CMPW AX,BX
JGT start
HALT
.data
v: .word 0xdeadbeef
`
	asm1 := &Assembler{}
	image1, err := asm1.Assemble(src)
	assert.NoError(err)

	asm2 := &Assembler{}
	image2, err := asm2.Assemble(src)
	assert.NoError(err)

	assert.Equal(image1, image2)
}

func TestAssembler_RegisterIndirect(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	image, err := asm.Assemble(`
LODW AX,[SI]
STRW [DI],AX
JMP [BX]
`)
	assert.NoError(err)

	_, _, b, err := cpu.Decode(image.Text[0])
	assert.NoError(err)
	assert.Equal(cpu.Operand{Kind: cpu.KIND_ADDR_REG, Reg: cpu.REG_SI}, b)

	_, a, _, err := cpu.Decode(image.Text[1])
	assert.NoError(err)
	assert.Equal(cpu.Operand{Kind: cpu.KIND_ADDR_REG, Reg: cpu.REG_DI}, a)

	_, a, _, err = cpu.Decode(image.Text[2])
	assert.NoError(err)
	assert.Equal(cpu.Operand{Kind: cpu.KIND_ADDR_REG, Reg: cpu.REG_BX}, a)
}
