package cpu

import (
	"errors"
	stdio "io"
	"strconv"
	"strings"
)

// execIo executes the channel transfer instructions. String transfers
// are null-terminated, matching the .string directive: IN stores the
// terminator, OUT does not send it.
func (cpu *Cpu) execIo(cy *cycle, op Op, a, b Operand) (err error) {
	switch op {
	case OP_IN:
		err = cpu.ioIn(a)
	case OP_OUT:
		err = cpu.ioOut(a)
	case OP_INSI:
		err = cpu.ioInsi(a)
	case OP_INSW:
		err = cpu.ioInsw(a)
	case OP_OUTI:
		err = cpu.ioOuti(a)
	case OP_OUTW:
		err = cpu.ioOutw(a)
	}
	return
}

// readByte returns the next input byte, refilling from the channel as
// needed. End of input reports stdio.EOF.
func (cpu *Cpu) readByte() (value byte, err error) {
	if cpu.In == nil {
		err = ErrChannelInvalid
		return
	}

	for len(cpu.inbuf) == 0 {
		var chunk []byte
		chunk, err = cpu.In.Read()
		if err != nil {
			return
		}
		cpu.inbuf = chunk
	}

	value = cpu.inbuf[0]
	cpu.inbuf = cpu.inbuf[1:]
	return
}

// readLine collects input bytes up to a newline. EOF with bytes in hand
// is a complete line.
func (cpu *Cpu) readLine() (line string, err error) {
	var collected []byte
	for {
		var value byte
		value, err = cpu.readByte()
		if err != nil {
			if errors.Is(err, stdio.EOF) && len(collected) > 0 {
				err = nil
			}
			break
		}
		if value == '\n' {
			break
		}
		collected = append(collected, value)
	}
	line = strings.TrimSuffix(string(collected), "\r")
	return
}

// ioIn reads a null-terminated byte run into memory at the operand
// address, storing the terminator. EOF terminates the run too.
func (cpu *Cpu) ioIn(a Operand) (err error) {
	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	for {
		var value byte
		value, err = cpu.readByte()
		if errors.Is(err, stdio.EOF) {
			err = cpu.Mem.WriteByte(addr, 0)
			return
		}
		if err != nil {
			return
		}
		err = cpu.Mem.WriteByte(addr, value)
		if err != nil {
			return
		}
		addr++
		if value == 0 {
			return
		}
	}
}

// ioOut writes the null-terminated byte run at the operand address to
// the channel, excluding the terminator.
func (cpu *Cpu) ioOut(a Operand) (err error) {
	if cpu.Out == nil {
		err = ErrChannelInvalid
		return
	}

	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	var run []byte
	for {
		var value byte
		value, err = cpu.Mem.ReadByte(addr)
		if err != nil {
			return
		}
		if value == 0 {
			break
		}
		run = append(run, value)
		addr++
	}

	err = cpu.Out.Write(run)
	return
}

// ioInsi reads one text line, parses it as a literal, and stores the
// raw bits at the operand address.
func (cpu *Cpu) ioInsi(a Operand) (err error) {
	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	line, err := cpu.readLine()
	if err != nil {
		return
	}

	value, err := ParseLiteral(line)
	if err != nil {
		return
	}

	err = cpu.Mem.Write32(addr, value)
	return
}

// ioInsw reads one raw little-endian word from the channel into memory.
func (cpu *Cpu) ioInsw(a Operand) (err error) {
	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	var word [4]byte
	for n := range word {
		word[n], err = cpu.readByte()
		if err != nil {
			return
		}
	}

	value := uint32(word[0]) | uint32(word[1])<<8 | uint32(word[2])<<16 | uint32(word[3])<<24
	err = cpu.Mem.Write32(addr, value)
	return
}

// ioOuti writes the operand value as unsigned decimal text.
func (cpu *Cpu) ioOuti(a Operand) (err error) {
	if cpu.Out == nil {
		err = ErrChannelInvalid
		return
	}

	value, err := cpu.value(a)
	if err != nil {
		return
	}

	err = cpu.Out.Write([]byte(strconv.FormatUint(uint64(value), 10)))
	return
}

// ioOutw writes the word at the operand address as four raw
// little-endian bytes.
func (cpu *Cpu) ioOutw(a Operand) (err error) {
	if cpu.Out == nil {
		err = ErrChannelInvalid
		return
	}

	addr, err := cpu.target(a)
	if err != nil {
		return
	}

	value, err := cpu.Mem.Read32(addr)
	if err != nil {
		return
	}

	err = cpu.Out.Write([]byte{
		byte(value),
		byte(value >> 8),
		byte(value >> 16),
		byte(value >> 24),
	})
	return
}
