package emulator

import (
	"github.com/arcsim/arc/cpu"
)

// Flags is the decoded FLAGS register.
type Flags struct {
	Zero  bool
	Sign  bool
	Carry bool
}

// Snapshot is a read-only copy of the observable core state. Front ends
// render snapshots; they never reach into the core.
type Snapshot struct {
	State     cpu.State
	Fault     error
	Ticks     int
	PC        uint32
	SP        uint32
	Flags     Flags
	Registers map[string]uint32
	CallDepth int
}

// Snapshot captures the current core state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		State:     emu.Cpu.State,
		Fault:     emu.Cpu.Fault,
		Ticks:     emu.Cpu.Ticks,
		PC:        emu.Cpu.Regs.Read(cpu.REG_PC),
		SP:        emu.Cpu.Regs.Read(cpu.REG_SP),
		CallDepth: emu.Cpu.Stack.Depth(),
		Registers: map[string]uint32{},
	}
	snap.Flags = Flags{
		Zero:  emu.Cpu.Regs.Flag(cpu.FLAG_ZERO),
		Sign:  emu.Cpu.Regs.Flag(cpu.FLAG_SIGN),
		Carry: emu.Cpu.Regs.Flag(cpu.FLAG_CARRY),
	}
	for name, value := range emu.Cpu.Regs.All() {
		snap.Registers[name] = value
	}
	return
}

// Window returns a copy of length memory bytes starting at addr,
// clamped to the memory bounds.
func (emu *Emulator) Window(addr, length uint32) (data []byte) {
	return emu.Mem.Window(addr, length)
}
