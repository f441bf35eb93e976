package cpu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OperandKind discriminates the Operand union.
type OperandKind int

const (
	KIND_NONE = OperandKind(iota)
	KIND_REG      // register, e.g. AX
	KIND_IMM      // literal value, raw 32 bits
	KIND_ADDR     // absolute memory address, e.g. [100] or [label]
	KIND_ADDR_REG // register-indirect memory address, e.g. [SI]
	KIND_LABEL    // unresolved symbol, pass-one only
)

// Operand is one decoded or parsed instruction operand. Exactly one of
// the value fields is meaningful, selected by Kind.
type Operand struct {
	Kind  OperandKind
	Reg   Reg
	Imm   uint32
	Addr  uint32
	Label string
	// Deref is set for a bracketed label, e.g. [counter]: resolve the
	// symbol, then treat it as an address.
	Deref bool
}

func (opr Operand) String() (text string) {
	switch opr.Kind {
	case KIND_REG:
		text = opr.Reg.String()
	case KIND_IMM:
		text = fmt.Sprintf("%#x", opr.Imm)
	case KIND_ADDR:
		text = fmt.Sprintf("[%d]", opr.Addr)
	case KIND_ADDR_REG:
		text = fmt.Sprintf("[%v]", opr.Reg)
	case KIND_LABEL:
		if opr.Deref {
			text = "[" + opr.Label + "]"
		} else {
			text = opr.Label
		}
	}
	return
}

// ParseLiteral converts numeric source text to the raw 32-bit slot value.
// Text with a decimal point (or exponent) yields IEEE-754 float32 bits;
// anything else yields the integer's bits directly. Hex and binary forms
// use the usual 0x / 0b prefixes.
func ParseLiteral(text string) (value uint32, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		err = ErrOperandSyntax
		return
	}

	if strings.ContainsAny(text, ".eE") && !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		if err != nil {
			err = ErrLiteralSyntax(text)
			return
		}
		value = math.Float32bits(float32(f))
		return
	}

	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
	}
	n, perr := strconv.ParseUint(text, 0, 32)
	if perr != nil {
		err = ErrLiteralSyntax(text)
		return
	}
	value = uint32(n)
	if negative {
		value = -value
	}
	return
}

// ParseOperand classifies one operand token: a register name, a literal,
// a bracketed address ([100], [SI], [label]), or a bare symbol. Symbols
// come back as KIND_LABEL for the caller to resolve.
func ParseOperand(text string) (opr Operand, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		err = ErrOperandSyntax
		return
	}

	if strings.HasPrefix(text, "[") {
		if !strings.HasSuffix(text, "]") {
			err = ErrOperandSyntax
			return
		}
		inner := strings.TrimSpace(text[1 : len(text)-1])
		if inner == "" {
			err = ErrOperandSyntax
			return
		}
		if reg, ok := RegisterByName(strings.ToLower(inner)); ok {
			opr = Operand{Kind: KIND_ADDR_REG, Reg: reg}
			return
		}
		if isNumeric(inner) {
			var addr uint32
			addr, err = ParseLiteral(inner)
			if err != nil {
				return
			}
			opr = Operand{Kind: KIND_ADDR, Addr: addr}
			return
		}
		if !isSymbol(inner) {
			err = ErrOperandSyntax
			return
		}
		opr = Operand{Kind: KIND_LABEL, Label: inner, Deref: true}
		return
	}

	if reg, ok := RegisterByName(strings.ToLower(text)); ok {
		opr = Operand{Kind: KIND_REG, Reg: reg}
		return
	}

	if isNumeric(text) {
		var value uint32
		value, err = ParseLiteral(text)
		if err != nil {
			return
		}
		opr = Operand{Kind: KIND_IMM, Imm: value}
		return
	}

	if !isSymbol(text) {
		err = ErrOperandSyntax
		return
	}
	opr = Operand{Kind: KIND_LABEL, Label: text}
	return
}

func isNumeric(text string) (ok bool) {
	if text == "" {
		return
	}
	c := text[0]
	ok = c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.'
	return
}

func isSymbol(text string) (ok bool) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return len(text) > 0
}
