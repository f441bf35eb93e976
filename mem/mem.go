// Package mem implements the byte-addressable work memory of the ARC
// machine, with a validated text/stack/data segment layout and
// bounds-checked little-endian access.
package mem

import (
	"encoding/binary"
	"fmt"
	"iter"
	"maps"
)

// Memory size limits, in bytes.
const (
	SIZE_MIN = uint32(64 * 1024)       // 64 KiB
	SIZE_MAX = uint32(8 * 1024 * 1024) // 8 MiB
)

var _mem_defines = map[string]string{
	"MEM_SIZE_MIN": fmt.Sprintf("%#v", SIZE_MIN),
	"MEM_SIZE_MAX": fmt.Sprintf("%#v", SIZE_MAX),
}

// Memory is the byte-addressable store of one ARC machine, created once
// per emulator session. It owns the active segment Layout.
type Memory struct {
	Layout Layout

	data []byte
}

// NewMemory creates a memory of the requested total size with the default
// segment layout. Sizes outside [SIZE_MIN, SIZE_MAX] are rejected.
func NewMemory(size uint32) (mem *Memory, err error) {
	if size < SIZE_MIN || size > SIZE_MAX {
		err = ErrMemorySize
		return
	}

	mem = &Memory{
		Layout: DefaultLayout(size),
		data:   make([]byte, size),
	}

	return
}

// Defines for the memory geometry.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_mem_defines)
}

// Size returns the total memory size in bytes.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.data))
}

// SetLayout validates and installs a new segment layout.
func (mem *Memory) SetLayout(layout Layout) (err error) {
	err = layout.Validate(mem.Size())
	if err != nil {
		return
	}

	mem.Layout = layout

	return
}

// Clear zeroes the entire memory contents. The layout is untouched.
func (mem *Memory) Clear() {
	clear(mem.data)
}

func (mem *Memory) check(addr uint32, width int) (err error) {
	if uint64(addr)+uint64(width) > uint64(len(mem.data)) {
		err = &ErrAddress{Addr: addr, Width: width}
	}
	return
}

// ReadByte reads one byte at addr.
func (mem *Memory) ReadByte(addr uint32) (value byte, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}
	value = mem.data[addr]
	return
}

// Read16 reads a little-endian 16-bit value at addr.
func (mem *Memory) Read16(addr uint32) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(mem.data[addr:])
	return
}

// Read32 reads a little-endian 32-bit value at addr.
func (mem *Memory) Read32(addr uint32) (value uint32, err error) {
	err = mem.check(addr, 4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(mem.data[addr:])
	return
}

// WriteByte writes one byte at addr.
func (mem *Memory) WriteByte(addr uint32, value byte) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}
	mem.data[addr] = value
	return
}

// Write16 writes a little-endian 16-bit value at addr.
func (mem *Memory) Write16(addr uint32, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(mem.data[addr:], value)
	return
}

// Write32 writes a little-endian 32-bit value at addr.
func (mem *Memory) Write32(addr uint32, value uint32) (err error) {
	err = mem.check(addr, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(mem.data[addr:], value)
	return
}

// LoadImage copies a byte image into memory at offset. Used once per load
// by the assembler output stage for the text and data segments.
func (mem *Memory) LoadImage(offset uint32, image []byte) (err error) {
	err = mem.check(offset, len(image))
	if err != nil {
		return
	}
	copy(mem.data[offset:], image)
	return
}

// Window returns a copy of length bytes starting at addr, clamped to the
// memory bounds. Used by front ends for display; never aliases the
// underlying store.
func (mem *Memory) Window(addr uint32, length uint32) (window []byte) {
	if addr >= mem.Size() {
		return
	}
	end := uint64(addr) + uint64(length)
	if end > uint64(mem.Size()) {
		end = uint64(mem.Size())
	}
	window = make([]byte, end-uint64(addr))
	copy(window, mem.data[addr:end])
	return
}
