// Package emulator wires the ARC core, memory, assembler, and I/O
// channels into the surface a front end drives: assemble, load, step,
// run, reset, and read-only snapshots.
package emulator

import (
	"fmt"
	"iter"

	"github.com/arcsim/arc/asm"
	"github.com/arcsim/arc/cpu"
	"github.com/arcsim/arc/internal"
	"github.com/arcsim/arc/io"
	"github.com/arcsim/arc/mem"
)

// Emulator state. Core + memory + assembler + IO channels.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Cpu       *cpu.Cpu
	Mem       *mem.Memory
	Assembler asm.Assembler

	Image *asm.Image // Most recently loaded image, nil before first load.
}

// NewEmulator creates an emulator with the given memory size in bytes.
func NewEmulator(memSize uint32) (emu *Emulator, err error) {
	memory, err := mem.NewMemory(memSize)
	if err != nil {
		return
	}

	emu = &Emulator{
		Mem: memory,
		Cpu: cpu.NewCpu(memory),
	}
	emu.Assembler.MemSize = memory.Size()

	return
}

// Attach connects the input and output channels used by the I/O
// instructions.
func (emu *Emulator) Attach(in, out io.Channel) {
	emu.Cpu.In = in
	emu.Cpu.Out = out
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Mem.Defines(),
	)
}

// Assemble assembles source text. On success the image is returned but
// not yet loaded; pass it to Load.
func (emu *Emulator) Assemble(src string) (image *asm.Image, err error) {
	emu.Assembler.Verbose = emu.Verbose
	for key, value := range emu.Defines() {
		emu.Assembler.Predefine(key, value)
	}

	image, err = emu.Assembler.Assemble(src)
	return
}

// Load installs an assembled image: layout applied, memory cleared,
// text and data segments written, core reset. The image is atomic; a
// load either fully succeeds or leaves memory unchanged.
func (emu *Emulator) Load(image *asm.Image) (err error) {
	err = emu.Mem.SetLayout(image.Layout)
	if err != nil {
		return
	}

	emu.Mem.Clear()
	err = emu.Mem.LoadImage(image.Layout.TextStart, image.TextBytes())
	if err != nil {
		return
	}
	if len(image.Data) > 0 {
		err = emu.Mem.LoadImage(image.Layout.DataStart, image.Data)
		if err != nil {
			return
		}
	}

	emu.Image = image
	emu.Cpu.Reset()
	return
}

// Reset returns the core to Ready without reloading memory.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
}

// LineNo returns the source line of the instruction at PC, or 0 when PC
// is outside the loaded text.
func (emu *Emulator) LineNo() (lineno int) {
	if emu.Image == nil {
		return
	}
	pc := emu.Cpu.Regs.Read(cpu.REG_PC)
	start := emu.Image.Layout.TextStart
	if pc < start {
		return
	}
	index := int((pc - start) / cpu.WORD_SIZE)
	if index < len(emu.Image.Lines) {
		lineno = emu.Image.Lines[index]
	}
	return
}

// Step executes exactly one instruction cycle.
func (emu *Emulator) Step() (state cpu.State, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	state, err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Err: err}
	}
	return
}

// Run executes until the core halts, faults, or stop is closed.
func (emu *Emulator) Run(stop <-chan struct{}) (state cpu.State, err error) {
	for {
		select {
		case <-stop:
			state = emu.Cpu.State
			return
		default:
		}

		state, err = emu.Step()
		if state != cpu.STATE_RUNNING {
			return
		}
	}
}

// String returns the current core state for display.
func (emu *Emulator) String() (text string) {
	text = emu.Cpu.String()
	if lineno := emu.LineNo(); lineno > 0 {
		text += fmt.Sprintf(" line: %d\n", lineno)
	}
	return
}
