package cpu

// execCompare executes CMPW and the control-flow instructions.
//
// CMPW orders its operands as floats and sets the flags without storing
// a result. The ordering is exact: subtracting first would let a huge
// but finite pair overflow to infinity and poison the flags. A NaN on
// either side sets only Carry, the unordered flag, so none of the
// ordered branches fire; JCO observes it directly.
func (cpu *Cpu) execCompare(cy *cycle, op Op, a, b Operand) (err error) {
	if op == OP_CMPW {
		var bits uint32
		bits, err = cpu.value(b)
		if err != nil {
			return
		}
		cpu.Regs.setFlagsCompare(floatOf(cpu.Regs.Read(a.Reg)), floatOf(bits))
		return
	}

	if op == OP_RET {
		var addr uint32
		addr, err = cpu.Stack.PopReturn()
		if err != nil {
			return
		}
		cy.nextPC = addr
		cy.jump = true
		return
	}

	zero := cpu.Regs.Flag(FLAG_ZERO)
	sign := cpu.Regs.Flag(FLAG_SIGN)
	carry := cpu.Regs.Flag(FLAG_CARRY)

	var taken bool
	switch op {
	case OP_JMP, OP_CALL:
		taken = true
	case OP_JE:
		taken = zero
	case OP_JNE:
		taken = !zero
	case OP_JGT:
		taken = !zero && !sign && !carry
	case OP_JGE:
		taken = !sign && !carry
	case OP_JLT:
		taken = sign
	case OP_JLE:
		taken = zero || sign
	case OP_JS:
		taken = sign
	case OP_JCO:
		taken = carry
	}

	if !taken {
		return
	}

	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	if op == OP_CALL {
		err = cpu.Stack.PushReturn(cy.nextPC)
		if err != nil {
			return
		}
	}

	cy.nextPC = addr
	cy.jump = true
	return
}
