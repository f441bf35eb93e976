package asm

import (
	"encoding/binary"
	"fmt"

	"github.com/arcsim/arc/cpu"
	"github.com/arcsim/arc/mem"
)

// Image is the atomic product of one successful assembly: the finalized
// segment layout, the encoded text words, and the initialized data
// bytes. A failed assembly produces no Image at all.
type Image struct {
	Layout mem.Layout
	Text   []uint32
	Data   []byte
	Lines  []int // source line of each text word
}

// Entry returns the address of the first instruction.
func (image *Image) Entry() uint32 {
	return image.Layout.TextStart
}

// TextBytes returns the text segment as little-endian bytes, ready for
// mem.LoadImage.
func (image *Image) TextBytes() (data []byte) {
	data = make([]byte, len(image.Text)*4)
	for n, word := range image.Text {
		binary.LittleEndian.PutUint32(data[n*4:], word)
	}
	return
}

// String renders a disassembly listing of the text segment.
func (image *Image) String() (text string) {
	for n, word := range image.Text {
		addr := image.Layout.TextStart + uint32(n)*4
		text += fmt.Sprintf("%08x: %08x  %v\n", addr, word, cpu.Disassemble(word))
	}
	return
}
