package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func regOp(reg Reg) Operand {
	return Operand{Kind: KIND_REG, Reg: reg}
}

func immOp(value uint32) Operand {
	return Operand{Kind: KIND_IMM, Imm: value}
}

func addrOp(addr uint32) Operand {
	return Operand{Kind: KIND_ADDR, Addr: addr}
}

func indOp(reg Reg) Operand {
	return Operand{Kind: KIND_ADDR_REG, Reg: reg}
}

func TestEncode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	var none Operand
	cases := []struct {
		op   Op
		a, b Operand
	}{
		{OP_HALT, none, none},
		{OP_RET, none, none},
		{OP_POP, regOp(REG_AX), none},
		{OP_INC, regOp(REG_HX), none},
		{OP_NOT, regOp(REG_DI), none},
		{OP_MOVI, regOp(REG_AX), immOp(0x1234)},
		{OP_MOVI, regOp(REG_BX), immOp(0x41200000)}, // 10.0, high-half pattern
		{OP_MOVW, regOp(REG_CX), regOp(REG_DX)},
		{OP_ADDW, regOp(REG_AX), regOp(REG_BX)},
		{OP_CMPW, regOp(REG_AX), immOp(0x3f800000)},
		{OP_SHL, regOp(REG_AX), immOp(4)},
		{OP_XCGH, regOp(REG_EX), regOp(REG_FX)},
		{OP_LODW, regOp(REG_AX), addrOp(0xF000)},
		{OP_LODW, regOp(REG_AX), indOp(REG_SI)},
		{OP_STRI, addrOp(0x40), immOp(99)},
		{OP_STRW, indOp(REG_DI), regOp(REG_AX)},
		{OP_PUSH, regOp(REG_AX), none},
		{OP_PUSH, immOp(0x7fff), none},
		{OP_OUTI, regOp(REG_BX), none},
		{OP_JMP, addrOp(0x00ABCDEF), none},
		{OP_JMP, indOp(REG_SI), none},
		{OP_CALL, addrOp(0x20), none},
		{OP_JGT, addrOp(0x18), none},
		{OP_IN, addrOp(0x1000), none},
		{OP_OUT, indOp(REG_BX), none},
		{OP_INSW, addrOp(0x2000), none},
	}

	for _, c := range cases {
		word, err := Encode(c.op, c.a, c.b)
		assert.NoError(err, "%v %v %v", c.op, c.a, c.b)

		op, a, b, err := Decode(word)
		assert.NoError(err, "%v", c.op)
		assert.Equal(c.op, op)
		assert.Equal(c.a, a, "%v a", c.op)
		assert.Equal(c.b, b, "%v b", c.op)
	}
}

func TestEncode_ImmediateRange(t *testing.T) {
	assert := assert.New(t)

	// Neither a low-half nor a high-half pattern.
	_, err := Encode(OP_MOVI, regOp(REG_AX), immOp(0x00010001))
	assert.ErrorIs(err, ErrImmediateRange(0))

	// Both halves fit individually.
	_, err = Encode(OP_MOVI, regOp(REG_AX), immOp(0x0000ffff))
	assert.NoError(err)
	_, err = Encode(OP_MOVI, regOp(REG_AX), immOp(0xffff0000))
	assert.NoError(err)
}

func TestEncode_StoreAddressField(t *testing.T) {
	assert := assert.New(t)

	_, err := Encode(OP_STRI, addrOp(0x7f), immOp(1))
	assert.NoError(err)

	// Wide store destinations must go through a register.
	_, err = Encode(OP_STRI, addrOp(0x80), immOp(1))
	assert.ErrorIs(err, ErrOperandRange)
}

func TestEncode_OperandErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Encode(OP_HALT, regOp(REG_AX), Operand{})
	assert.ErrorIs(err, ErrOperandCount)

	_, err = Encode(OP_MOVI, immOp(1), immOp(2))
	assert.ErrorIs(err, ErrOperandSyntax)

	_, err = Encode(OP_JMP, addrOp(0x01000000), Operand{})
	assert.ErrorIs(err, ErrOperandRange)

	_, err = Encode(Op(0x0e), regOp(REG_AX), Operand{})
	assert.ErrorIs(err, ErrOpcodeUnknown(0))
}

func TestDecode_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	_, _, _, err := Decode(0)
	assert.ErrorIs(err, ErrOpcodeUnknown(0))

	_, _, _, err = Decode(uint32(0x0f) << 26)
	assert.ErrorIs(err, ErrOpcodeUnknown(0))
}

func TestDecode_BadRegister(t *testing.T) {
	assert := assert.New(t)

	// POP with an out-of-range register field.
	word := uint32(OP_POP)<<26 | uint32(0x3f)<<18
	_, _, _, err := Decode(word)
	assert.ErrorIs(err, ErrRegisterUnknown(0))
}

func TestOpByName(t *testing.T) {
	assert := assert.New(t)

	op, ok := OpByName("movi")
	assert.True(ok)
	assert.Equal(OP_MOVI, op)

	_, ok = OpByName("frobnicate")
	assert.False(ok)

	assert.Equal("halt", OP_HALT.String())
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	word, err := Encode(OP_MOVI, regOp(REG_AX), immOp(0x10))
	assert.NoError(err)
	assert.Equal("movi ax, 0x10", Disassemble(word))

	word, err = Encode(OP_JMP, addrOp(0x20), Operand{})
	assert.NoError(err)
	assert.Equal("jmp [32]", Disassemble(word))

	assert.Equal(".word 0x00000000", Disassemble(0))
}
