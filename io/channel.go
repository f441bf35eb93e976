// Package io provides the I/O channel implementations for the ARC
// emulator. A channel moves byte runs between the core's I/O
// instructions and the outside world: Buffer holds everything in memory
// for deterministic tests, Stream wraps a reader/writer pair such as
// stdin/stdout.
package io

// Channel is one attachable I/O endpoint.
type Channel interface {
	// Read returns the next available bytes. It may block until input
	// arrives, and reports stdlib io.EOF when the source is exhausted.
	Read() ([]byte, error)
	// Write sends bytes to the channel. It does not block.
	Write(data []byte) error
	// Rewind resets the channel to its initial state.
	Rewind()
}
