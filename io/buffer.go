package io

import (
	"io"
)

// Buffer is an in-memory channel. Input is consumed from a preloaded
// byte slice; output accumulates for later inspection. Reads past the
// preloaded input report io.EOF rather than blocking.
type Buffer struct {
	Input  []byte
	Output []byte

	readIndex int
}

// Read returns all remaining input in one run.
func (bc *Buffer) Read() (data []byte, err error) {
	if bc.readIndex >= len(bc.Input) {
		err = io.EOF
		return
	}
	data = bc.Input[bc.readIndex:]
	bc.readIndex = len(bc.Input)
	return
}

func (bc *Buffer) Write(data []byte) (err error) {
	bc.Output = append(bc.Output, data...)
	return
}

// Rewind restarts input from the beginning and discards output.
func (bc *Buffer) Rewind() {
	bc.readIndex = 0
	bc.Output = nil
}

// String returns the accumulated output as text.
func (bc *Buffer) String() string {
	return string(bc.Output)
}
