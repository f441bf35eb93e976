package cpu

import (
	"errors"
)

// execMoves executes the data movement instructions, including the SP
// stack. PUSH and POP keep SP inside the stack segment; crossing either
// bound is a fault before any memory is touched.
func (cpu *Cpu) execMoves(cy *cycle, op Op, a, b Operand) (err error) {
	switch op {
	case OP_MOVI, OP_LODI:
		if b.Kind != KIND_IMM {
			err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
			return
		}
		cpu.Regs.Write(a.Reg, b.Imm)

	case OP_MOVW:
		var value uint32
		value, err = cpu.value(b)
		if err != nil {
			return
		}
		cpu.Regs.Write(a.Reg, value)

	case OP_LODW:
		if b.Kind != KIND_ADDR && b.Kind != KIND_ADDR_REG {
			err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
			return
		}
		var value uint32
		value, err = cpu.value(b)
		if err != nil {
			return
		}
		cpu.Regs.Write(a.Reg, value)

	case OP_STRI, OP_STRW:
		var addr uint32
		addr, err = cpu.target(a)
		if err != nil {
			return
		}
		if op == OP_STRI && b.Kind != KIND_IMM {
			err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
			return
		}
		var value uint32
		value, err = cpu.value(b)
		if err != nil {
			return
		}
		err = cpu.Mem.Write32(addr, value)

	case OP_PUSH:
		var value uint32
		value, err = cpu.value(a)
		if err != nil {
			return
		}
		err = cpu.push(value)

	case OP_POP:
		var value uint32
		value, err = cpu.pop()
		if err != nil {
			return
		}
		cpu.Regs.Write(a.Reg, value)

	case OP_XCGH:
		if b.Kind != KIND_REG {
			err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
			return
		}
		left := cpu.Regs.Read(a.Reg)
		right := cpu.Regs.Read(b.Reg)
		cpu.Regs.Write(a.Reg, right)
		cpu.Regs.Write(b.Reg, left)
	}

	return
}

// push stores one word below SP. The stack grows down from StackEnd.
func (cpu *Cpu) push(value uint32) (err error) {
	sp := cpu.Regs.Read(REG_SP)
	if sp < cpu.Mem.Layout.StackStart+WORD_SIZE || sp > cpu.Mem.Layout.StackEnd() {
		err = ErrStackOverflow
		return
	}
	sp -= WORD_SIZE
	err = cpu.Mem.Write32(sp, value)
	if err != nil {
		return
	}
	cpu.Regs.Write(REG_SP, sp)
	return
}

// pop removes the word at SP. SP can be repointed by MOVI; a value
// outside the stack segment faults instead of reading through.
func (cpu *Cpu) pop() (value uint32, err error) {
	sp := cpu.Regs.Read(REG_SP)
	if sp < cpu.Mem.Layout.StackStart || sp >= cpu.Mem.Layout.StackEnd() {
		err = ErrStackUnderflow
		return
	}
	value, err = cpu.Mem.Read32(sp)
	if err != nil {
		return
	}
	cpu.Regs.Write(REG_SP, sp+WORD_SIZE)
	return
}
