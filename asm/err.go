package asm

import (
	"errors"

	"github.com/arcsim/arc/translate"
)

var f = translate.From

var (
	ErrDuplicateDirective = errors.New(f("directive duplicated"))
	ErrInvalidDirective   = errors.New(f("directive value invalid"))
	ErrDirectiveUnknown   = errors.New(f("directive unknown"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrStringSyntax       = errors.New(f(".string syntax"))
	ErrSectionData        = errors.New(f("instruction outside .text"))
)

type ErrUndefinedSymbol string

func (err ErrUndefinedSymbol) Error() string {
	return f("symbol %v undefined", string(err))
}

func (err ErrUndefinedSymbol) Is(target error) (ok bool) {
	_, ok = target.(ErrUndefinedSymbol)
	return
}

type ErrOpcodeInvalid string

func (err ErrOpcodeInvalid) Error() string {
	return f("opcode %v invalid", string(err))
}

func (err ErrOpcodeInvalid) Is(target error) (ok bool) {
	_, ok = target.(ErrOpcodeInvalid)
	return
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax wraps any assembly error with its source position.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
