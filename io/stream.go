package io

import (
	"io"
)

// Stream wraps a reader/writer pair as a channel. Reads block on the
// underlying reader, so a Stream over stdin behaves like a terminal:
// the core waits at an input instruction until the user types.
type Stream struct {
	Input  io.Reader
	Output io.Writer
}

func (sc *Stream) Read() (data []byte, err error) {
	var chunk [256]byte
	n, err := sc.Input.Read(chunk[:])
	if n > 0 {
		data = append(data, chunk[:n]...)
		err = nil
	}
	return
}

func (sc *Stream) Write(data []byte) (err error) {
	_, err = sc.Output.Write(data)
	return
}

// Rewind is not possible on a stream.
func (sc *Stream) Rewind() {
}
