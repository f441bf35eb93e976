package cpu

// execBitwise executes the unsigned integer instructions. Shift
// distances are masked to [0,31].
func (cpu *Cpu) execBitwise(cy *cycle, op Op, a, b Operand) (err error) {
	input := cpu.Regs.Read(a.Reg)

	if op == OP_NOT {
		result := ^input
		cpu.Regs.Write(a.Reg, result)
		cpu.Regs.setFlagsUint(result)
		return
	}

	operand, err := cpu.value(b)
	if err != nil {
		return
	}

	var result uint32
	switch op {
	case OP_AND:
		result = input & operand
	case OP_OR:
		result = input | operand
	case OP_XOR:
		result = input ^ operand
	case OP_SHL:
		result = input << (operand & 31)
	case OP_SHR:
		result = input >> (operand & 31)
	}

	cpu.Regs.Write(a.Reg, result)
	cpu.Regs.setFlagsUint(result)
	return
}
