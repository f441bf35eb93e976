package cpu

import (
	"iter"
	"math"

	"github.com/arcsim/arc/mem"
)

// Reg names one register slot.
type Reg uint8

const (
	REG_AX = Reg(0) // ax
	REG_BX = Reg(1) // bx
	REG_CX = Reg(2) // cx
	REG_DX = Reg(3) // dx
	REG_EX = Reg(4) // ex
	REG_FX = Reg(5) // fx
	REG_GX = Reg(6) // gx
	REG_HX = Reg(7) // hx

	REG_SP = Reg(8)  // sp
	REG_BP = Reg(9)  // bp
	REG_SI = Reg(10) // si
	REG_DI = Reg(11) // di

	REG_CS = Reg(12) // cs
	REG_DS = Reg(13) // ds
	REG_SS = Reg(14) // ss
	REG_ES = Reg(15) // es

	REG_PC    = Reg(16) // pc
	REG_FLAGS = Reg(17) // flags

	REG_COUNT = 18
)

var _reg_names = [REG_COUNT]string{
	"ax", "bx", "cx", "dx", "ex", "fx", "gx", "hx",
	"sp", "bp", "si", "di",
	"cs", "ds", "ss", "es",
	"pc", "flags",
}

// String returns the assembly name of the register.
func (reg Reg) String() (name string) {
	if int(reg) < len(_reg_names) {
		name = _reg_names[reg]
	} else {
		name = "r?"
	}
	return
}

// Valid reports whether reg names an existing slot.
func (reg Reg) Valid() bool {
	return int(reg) < REG_COUNT
}

// RegisterByName maps an assembly register name (case already lowered)
// to its Reg.
func RegisterByName(name string) (reg Reg, ok bool) {
	for n, rn := range _reg_names {
		if rn == name {
			return Reg(n), true
		}
	}
	return 0, false
}

// FLAGS register bits. Written only by arithmetic, bitwise, and compare
// instructions; read only by conditional jumps.
const (
	FLAG_ZERO  = uint32(1 << 0)
	FLAG_SIGN  = uint32(1 << 1)
	FLAG_CARRY = uint32(1 << 2) // carry/overflow; set on unordered compares
)

// Registers is the ARC register file. Every slot is a raw 32-bit bit
// pattern; no slot carries interpretation metadata.
type Registers struct {
	slot [REG_COUNT]uint32
}

// Read returns the raw bits of a register slot.
func (regs *Registers) Read(reg Reg) uint32 {
	return regs.slot[reg]
}

// Write replaces the raw bits of a register slot. Writes always succeed;
// unknown register names are rejected earlier, at decode.
func (regs *Registers) Write(reg Reg, bits uint32) {
	regs.slot[reg] = bits
}

// ReadFlags returns the FLAGS register.
func (regs *Registers) ReadFlags() uint32 {
	return regs.slot[REG_FLAGS]
}

// WriteFlags replaces the FLAGS register.
func (regs *Registers) WriteFlags(bits uint32) {
	regs.slot[REG_FLAGS] = bits
}

// Flag reports whether the given FLAG_* bit is set.
func (regs *Registers) Flag(mask uint32) bool {
	return regs.slot[REG_FLAGS]&mask != 0
}

// setFlags replaces the arithmetic flags in one write.
func (regs *Registers) setFlags(zero, sign, carry bool) {
	var bits uint32
	if zero {
		bits |= FLAG_ZERO
	}
	if sign {
		bits |= FLAG_SIGN
	}
	if carry {
		bits |= FLAG_CARRY
	}
	regs.slot[REG_FLAGS] = bits
}

// setFlagsFloat derives the flags from a float result. NaN and infinite
// results raise the carry/overflow flag.
func (regs *Registers) setFlagsFloat(result float32) {
	if math.IsNaN(float64(result)) {
		regs.setFlags(false, false, true)
		return
	}
	regs.setFlags(result == 0, result < 0, math.IsInf(float64(result), 0))
}

// setFlagsCompare orders two floats for the conditional jumps. NaN on
// either side is unordered and sets only the carry flag; an ordered pair
// never sets it, even when the difference would overflow float32.
func (regs *Registers) setFlagsCompare(x, y float32) {
	if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
		regs.setFlags(false, false, true)
		return
	}
	regs.setFlags(x == y, x < y, false)
}

// setFlagsUint derives the flags from an unsigned integer result.
func (regs *Registers) setFlagsUint(result uint32) {
	regs.setFlags(result == 0, result&0x80000000 != 0, false)
}

// Reset zeroes every slot, clears the flags, and reinstalls the segment
// geometry: PC at the text start, SP at the top of the stack segment.
func (regs *Registers) Reset(layout mem.Layout) {
	clear(regs.slot[:])

	regs.slot[REG_PC] = layout.TextStart
	regs.slot[REG_SP] = layout.StackEnd()
	regs.slot[REG_CS] = layout.TextStart
	regs.slot[REG_SS] = layout.StackStart
	regs.slot[REG_DS] = layout.DataStart
}

// All iterates the register file by name, in slot order. Front ends use
// this for display; the yielded values are copies.
func (regs *Registers) All() iter.Seq2[string, uint32] {
	return func(yield func(name string, bits uint32) bool) {
		for n := range REG_COUNT {
			if !yield(_reg_names[n], regs.slot[n]) {
				return
			}
		}
	}
}

// floatOf reinterprets raw bits as an IEEE-754 float32. Conversion happens
// at each instruction boundary; the slot itself stays raw.
func floatOf(bits uint32) float32 {
	return math.Float32frombits(bits)
}

// bitsOf reinterprets a float32 as raw bits.
func bitsOf(value float32) uint32 {
	return math.Float32bits(value)
}
