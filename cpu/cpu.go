package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/arcsim/arc/io"
	"github.com/arcsim/arc/mem"
)

// Channel is an I/O channel interface.
type Channel io.Channel

// State is the execution state of the core.
type State int

const (
	STATE_RUNNING = State(iota)
	STATE_HALTED  // HALT retired; restart requires Reset
	STATE_FAULTED // execution error; Fault holds the cause
)

func (s State) String() (text string) {
	switch s {
	case STATE_RUNNING:
		text = "running"
	case STATE_HALTED:
		text = "halted"
	case STATE_FAULTED:
		text = "faulted"
	default:
		text = fmt.Sprintf("state#%d", int(s))
	}
	return
}

var _cpu_defines = map[string]string{
	"WORD_SIZE":        fmt.Sprintf("%d", WORD_SIZE),
	"CALL_STACK_LIMIT": fmt.Sprintf("%d", CALL_STACK_LIMIT),
	"FLAG_ZERO":        fmt.Sprintf("0x%x", FLAG_ZERO),
	"FLAG_SIGN":        fmt.Sprintf("0x%x", FLAG_SIGN),
	"FLAG_CARRY":       fmt.Sprintf("0x%x", FLAG_CARRY),
}

// Cpu is the simulation context for the ARC core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Regs  Registers
	Stack CallStack
	Queue InstructionQueue
	Mem   *mem.Memory

	State State
	Fault error // cause of STATE_FAULTED

	In  Channel // source for IN / INSI / INSW
	Out Channel // sink for OUT / OUTI / OUTW

	Ticks int // retired instruction counter

	// pending input bytes not yet consumed by INSI
	inbuf []byte
}

// NewCpu creates a core attached to a memory.
func NewCpu(memory *mem.Memory) (cpu *Cpu) {
	cpu = &Cpu{Mem: memory}
	cpu.Regs.Reset(memory.Layout)
	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset returns the core to its power-on state. Memory contents are
// untouched; reload an image to start a program over.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Regs.Reset(cpu.Mem.Layout)
	cpu.Stack.Reset()
	cpu.Queue.Flush()
	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.Ticks = 0
	cpu.inbuf = nil

	if cpu.In != nil {
		cpu.In.Rewind()
	}
	if cpu.Out != nil {
		cpu.Out.Rewind()
	}
}

// cycle carries the side effects of one instruction back to the step
// loop.
type cycle struct {
	nextPC uint32
	jump   bool
	halt   bool
}

// Step fetches, decodes, and executes one instruction. A fault latches
// into the returned state; further Steps are rejected until Reset.
func (cpu *Cpu) Step() (state State, err error) {
	switch cpu.State {
	case STATE_HALTED:
		state = cpu.State
		err = ErrHalted
		return
	case STATE_FAULTED:
		state = cpu.State
		err = cpu.Fault
		return
	}

	pc := cpu.Regs.Read(REG_PC)
	word, err := cpu.Queue.Fetch(pc, cpu.Mem.Read32)
	if err != nil {
		state = cpu.fault(pc, err)
		return
	}

	op, a, b, err := Decode(word)
	if err != nil {
		err = errors.Join(ErrInvalidInstruction, err)
		state = cpu.fault(pc, err)
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", pc, Disassemble(word))
	}

	cy := cycle{nextPC: pc + WORD_SIZE}

	_, _, module, _ := Lookup(op)
	switch module {
	case MODULE_MOVES:
		err = cpu.execMoves(&cy, op, a, b)
	case MODULE_ARITH:
		err = cpu.execArith(&cy, op, a, b)
	case MODULE_BITWISE:
		err = cpu.execBitwise(&cy, op, a, b)
	case MODULE_COMPARE:
		err = cpu.execCompare(&cy, op, a, b)
	case MODULE_IO:
		err = cpu.execIo(&cy, op, a, b)
	case MODULE_SYSTEM:
		err = cpu.execSystem(&cy, op, a, b)
	}
	if err != nil {
		state = cpu.fault(pc, err)
		return
	}

	cpu.Ticks++

	if cy.halt {
		cpu.State = STATE_HALTED
		cpu.Queue.Flush()
		state = cpu.State
		return
	}

	cpu.Regs.Write(REG_PC, cy.nextPC)
	if cy.jump {
		cpu.Queue.Flush()
	} else {
		cpu.Queue.Prefetch(cy.nextPC, cpu.Mem.Read32)
	}

	state = STATE_RUNNING
	return
}

// Run steps until the core halts, faults, or stop is closed.
func (cpu *Cpu) Run(stop <-chan struct{}) (state State, err error) {
	for {
		select {
		case <-stop:
			state = cpu.State
			return
		default:
		}

		state, err = cpu.Step()
		if state != STATE_RUNNING {
			return
		}
	}
}

func (cpu *Cpu) fault(pc uint32, cause error) (state State) {
	cpu.State = STATE_FAULTED
	cpu.Fault = cause
	if cpu.Verbose {
		log.Printf("cpu: fault at %08x: %v", pc, cause)
	}
	state = cpu.State
	return
}

// value resolves an operand to its raw 32-bit slot value.
func (cpu *Cpu) value(opr Operand) (value uint32, err error) {
	switch opr.Kind {
	case KIND_REG:
		value = cpu.Regs.Read(opr.Reg)
	case KIND_IMM:
		value = opr.Imm
	case KIND_ADDR:
		value, err = cpu.Mem.Read32(opr.Addr)
	case KIND_ADDR_REG:
		value, err = cpu.Mem.Read32(cpu.Regs.Read(opr.Reg))
	default:
		err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
	}
	return
}

// target resolves an address operand to the effective memory address.
func (cpu *Cpu) target(opr Operand) (addr uint32, err error) {
	switch opr.Kind {
	case KIND_ADDR:
		addr = opr.Addr
	case KIND_ADDR_REG:
		addr = cpu.Regs.Read(opr.Reg)
	default:
		err = errors.Join(ErrInvalidInstruction, ErrOperandSyntax)
	}
	return
}

// String returns the current register state as a string.
func (cpu *Cpu) String() (text string) {
	for name, value := range cpu.Regs.All() {
		text += fmt.Sprintf("% 5s: %08x\n", name, value)
	}
	text += fmt.Sprintf("state: %v\n", cpu.State)
	return
}
