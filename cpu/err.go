package cpu

import (
	"errors"

	"github.com/arcsim/arc/translate"
)

var f = translate.From

var (
	// Faults: execution errors that stop the core.
	ErrInvalidInstruction = errors.New(f("invalid instruction"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrChannelInvalid     = errors.New(f("channel invalid"))
	ErrHalted             = errors.New(f("core halted"))

	// Encode / parse errors
	ErrOperandSyntax = errors.New(f("operand invalid"))
	ErrOperandCount  = errors.New(f("excessive operands"))
	ErrOperandRange  = errors.New(f("operand out of range"))
	ErrOpcodeMode    = errors.New(f("addressing mode invalid"))
)

type ErrOpcodeUnknown uint32

func (err ErrOpcodeUnknown) Error() string {
	return f("bad opcode %#02x", uint32(err))
}

func (err ErrOpcodeUnknown) Is(target error) (ok bool) {
	_, ok = target.(ErrOpcodeUnknown)
	return
}

type ErrRegisterUnknown uint32

func (err ErrRegisterUnknown) Error() string {
	return f("bad register %#02x", uint32(err))
}

func (err ErrRegisterUnknown) Is(target error) (ok bool) {
	_, ok = target.(ErrRegisterUnknown)
	return
}

type ErrImmediateRange uint32

func (err ErrImmediateRange) Error() string {
	return f("immediate %#08x does not fit one word", uint32(err))
}

func (err ErrImmediateRange) Is(target error) (ok bool) {
	_, ok = target.(ErrImmediateRange)
	return
}

type ErrLiteralSyntax string

func (err ErrLiteralSyntax) Error() string {
	return f("'%v' is not a number", string(err))
}
