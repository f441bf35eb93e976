package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLiteral_Integer(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]uint32{
		"0":      0,
		"10":     10,
		"0x10":   16,
		"0X10":   16,
		"0b1010": 10,
		"0o17":   15,
		"-1":     0xffffffff,
		"-2":     0xfffffffe,
	}
	for text, want := range cases {
		value, err := ParseLiteral(text)
		assert.NoError(err, text)
		assert.Equal(want, value, text)
	}
}

func TestParseLiteral_Float(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]float32{
		"1.0":   1.0,
		"10.0":  10.0,
		"5.0":   5.0,
		"-2.5":  -2.5,
		"0.5":   0.5,
		"1e3":   1000.0,
		"1.5e2": 150.0,
	}
	for text, want := range cases {
		value, err := ParseLiteral(text)
		assert.NoError(err, text)
		assert.Equal(math.Float32bits(want), value, text)
	}
}

func TestParseLiteral_Invalid(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"", "zz", "1.2.3", "0x", "--1"} {
		_, err := ParseLiteral(text)
		assert.Error(err, "%q", text)
	}
}

func TestParseOperand(t *testing.T) {
	assert := assert.New(t)

	opr, err := ParseOperand("AX")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_REG, Reg: REG_AX}, opr)

	opr, err = ParseOperand("sp")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_REG, Reg: REG_SP}, opr)

	opr, err = ParseOperand(" 42 ")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_IMM, Imm: 42}, opr)

	opr, err = ParseOperand("10.0")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_IMM, Imm: 0x41200000}, opr)

	opr, err = ParseOperand("[100]")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_ADDR, Addr: 100}, opr)

	opr, err = ParseOperand("[SI]")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_ADDR_REG, Reg: REG_SI}, opr)

	opr, err = ParseOperand("loop")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_LABEL, Label: "loop"}, opr)

	opr, err = ParseOperand("[counter]")
	assert.NoError(err)
	assert.Equal(Operand{Kind: KIND_LABEL, Label: "counter", Deref: true}, opr)
}

func TestParseOperand_Invalid(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"", "[", "[]", "[100", "1x", "a b", "2fast"} {
		_, err := ParseOperand(text)
		assert.Error(err, "%q", text)
	}
}

func TestRegisterByName(t *testing.T) {
	assert := assert.New(t)

	reg, ok := RegisterByName("ax")
	assert.True(ok)
	assert.Equal(REG_AX, reg)

	reg, ok = RegisterByName("flags")
	assert.True(ok)
	assert.Equal(REG_FLAGS, reg)

	_, ok = RegisterByName("zz")
	assert.False(ok)

	assert.Equal("si", REG_SI.String())
	assert.True(REG_PC.Valid())
	assert.False(Reg(REG_COUNT).Valid())
}
