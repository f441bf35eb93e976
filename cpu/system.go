package cpu

// execSystem executes the system instructions. HALT is the whole
// category for now; the opcode block is reserved for privileged
// instructions.
func (cpu *Cpu) execSystem(cy *cycle, op Op, a, b Operand) (err error) {
	switch op {
	case OP_HALT:
		cy.halt = true
	}
	return
}
