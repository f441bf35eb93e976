package cpu

// execArith executes the float arithmetic instructions. Register slots
// are reinterpreted as IEEE-754 float32 on the way in and the result's
// bits stored back; NaN propagates, nothing traps.
func (cpu *Cpu) execArith(cy *cycle, op Op, a, b Operand) (err error) {
	input := floatOf(cpu.Regs.Read(a.Reg))

	var result float32
	switch op {
	case OP_ADDW, OP_SUBW, OP_MUL:
		var bits uint32
		bits, err = cpu.value(b)
		if err != nil {
			return
		}
		operand := floatOf(bits)
		switch op {
		case OP_ADDW:
			result = input + operand
		case OP_SUBW:
			result = input - operand
		case OP_MUL:
			result = input * operand
		}

	case OP_INC:
		result = input + 1.0
	case OP_DEC:
		result = input - 1.0
	case OP_NEG:
		// Sign bit flip only; NEG of NaN stays NaN.
		cpu.Regs.Write(a.Reg, cpu.Regs.Read(a.Reg)^0x80000000)
		result = floatOf(cpu.Regs.Read(a.Reg))
		cpu.Regs.setFlagsFloat(result)
		return
	}

	cpu.Regs.Write(a.Reg, bitsOf(result))
	cpu.Regs.setFlagsFloat(result)
	return
}
