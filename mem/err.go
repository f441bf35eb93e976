package mem

import (
	"errors"

	"github.com/arcsim/arc/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrMemorySize   = errors.New(f("memory size out of range"))
	ErrAddressRange = errors.New(f("address out of bounds"))

	// Layout errors
	ErrSegmentLayout = errors.New(f("segment layout invalid"))
)

// ErrSegment describes which segment made a layout invalid.
type ErrSegment struct {
	Segment string
	Reason  string
}

func (err *ErrSegment) Error() string {
	return f("%v segment %v", err.Segment, err.Reason)
}

func (err *ErrSegment) Unwrap() error {
	return ErrSegmentLayout
}

// ErrAddress carries the faulting address and access width.
type ErrAddress struct {
	Addr  uint32
	Width int
}

func (err *ErrAddress) Error() string {
	return f("address 0x%x (%d bytes) out of bounds", err.Addr, err.Width)
}

func (err *ErrAddress) Unwrap() error {
	return ErrAddressRange
}
