package cpu

import (
	"fmt"
)

// Op is an instruction opcode. The set is closed: decode rejects anything
// not listed here.
type Op uint8

const (
	// Moves
	OP_MOVI = Op(0x01) // movi
	OP_MOVW = Op(0x02) // movw
	OP_LODI = Op(0x03) // lodi
	OP_LODW = Op(0x04) // lodw
	OP_STRI = Op(0x05) // stri
	OP_STRW = Op(0x06) // strw
	OP_PUSH = Op(0x07) // push
	OP_POP  = Op(0x08) // pop
	OP_XCGH = Op(0x09) // xcgh

	// Arithmetic (IEEE-754 float32 interpretation)
	OP_ADDW = Op(0x10) // addw
	OP_SUBW = Op(0x11) // subw
	OP_MUL  = Op(0x12) // mul
	OP_INC  = Op(0x13) // inc
	OP_DEC  = Op(0x14) // dec
	OP_NEG  = Op(0x15) // neg

	// Bitwise (unsigned 32-bit interpretation)
	OP_NOT = Op(0x20) // not
	OP_AND = Op(0x21) // and
	OP_OR  = Op(0x22) // or
	OP_XOR = Op(0x23) // xor
	OP_SHL = Op(0x24) // shl
	OP_SHR = Op(0x25) // shr

	// I/O
	OP_IN   = Op(0x28) // in
	OP_OUT  = Op(0x29) // out
	OP_INSI = Op(0x2A) // insi
	OP_INSW = Op(0x2B) // insw
	OP_OUTI = Op(0x2C) // outi
	OP_OUTW = Op(0x2D) // outw

	// Compare and control flow
	OP_CMPW = Op(0x30) // cmpw
	OP_JMP  = Op(0x31) // jmp
	OP_CALL = Op(0x32) // call
	OP_RET  = Op(0x33) // ret
	OP_JE   = Op(0x34) // je
	OP_JNE  = Op(0x35) // jne
	OP_JGT  = Op(0x36) // jgt
	OP_JGE  = Op(0x37) // jge
	OP_JLT  = Op(0x38) // jlt
	OP_JLE  = Op(0x39) // jle
	OP_JS   = Op(0x3A) // js
	OP_JCO  = Op(0x3B) // jco

	// System
	OP_HALT = Op(0x3F) // halt
)

// Module is the instruction category owning an opcode's execution.
type Module int

const (
	MODULE_MOVES = Module(iota)
	MODULE_ARITH
	MODULE_BITWISE
	MODULE_COMPARE
	MODULE_SYSTEM
	MODULE_IO
)

// Format describes how an instruction's operands pack into the word.
type Format int

const (
	FORMAT_NONE  = Format(iota) // no operands (HALT, RET)
	FORMAT_REG   // one register operand in the A field
	FORMAT_REG_B // register in A, register/immediate/address in B
	FORMAT_STORE // address destination in A, register/immediate in B
	FORMAT_B     // single register/immediate operand in B
	FORMAT_ADDR  // single 24-bit address operand (jumps, string I/O)
)

// opInfo is the dispatch table entry for one opcode.
type opInfo struct {
	name   string
	format Format
	module Module
}

var _op_table = map[Op]opInfo{
	OP_MOVI: {"movi", FORMAT_REG_B, MODULE_MOVES},
	OP_MOVW: {"movw", FORMAT_REG_B, MODULE_MOVES},
	OP_LODI: {"lodi", FORMAT_REG_B, MODULE_MOVES},
	OP_LODW: {"lodw", FORMAT_REG_B, MODULE_MOVES},
	OP_STRI: {"stri", FORMAT_STORE, MODULE_MOVES},
	OP_STRW: {"strw", FORMAT_STORE, MODULE_MOVES},
	OP_PUSH: {"push", FORMAT_B, MODULE_MOVES},
	OP_POP:  {"pop", FORMAT_REG, MODULE_MOVES},
	OP_XCGH: {"xcgh", FORMAT_REG_B, MODULE_MOVES},

	OP_ADDW: {"addw", FORMAT_REG_B, MODULE_ARITH},
	OP_SUBW: {"subw", FORMAT_REG_B, MODULE_ARITH},
	OP_MUL:  {"mul", FORMAT_REG_B, MODULE_ARITH},
	OP_INC:  {"inc", FORMAT_REG, MODULE_ARITH},
	OP_DEC:  {"dec", FORMAT_REG, MODULE_ARITH},
	OP_NEG:  {"neg", FORMAT_REG, MODULE_ARITH},

	OP_NOT: {"not", FORMAT_REG, MODULE_BITWISE},
	OP_AND: {"and", FORMAT_REG_B, MODULE_BITWISE},
	OP_OR:  {"or", FORMAT_REG_B, MODULE_BITWISE},
	OP_XOR: {"xor", FORMAT_REG_B, MODULE_BITWISE},
	OP_SHL: {"shl", FORMAT_REG_B, MODULE_BITWISE},
	OP_SHR: {"shr", FORMAT_REG_B, MODULE_BITWISE},

	OP_IN:   {"in", FORMAT_ADDR, MODULE_IO},
	OP_OUT:  {"out", FORMAT_ADDR, MODULE_IO},
	OP_INSI: {"insi", FORMAT_ADDR, MODULE_IO},
	OP_INSW: {"insw", FORMAT_ADDR, MODULE_IO},
	OP_OUTI: {"outi", FORMAT_B, MODULE_IO},
	OP_OUTW: {"outw", FORMAT_ADDR, MODULE_IO},

	OP_CMPW: {"cmpw", FORMAT_REG_B, MODULE_COMPARE},
	OP_JMP:  {"jmp", FORMAT_ADDR, MODULE_COMPARE},
	OP_CALL: {"call", FORMAT_ADDR, MODULE_COMPARE},
	OP_RET:  {"ret", FORMAT_NONE, MODULE_COMPARE},
	OP_JE:   {"je", FORMAT_ADDR, MODULE_COMPARE},
	OP_JNE:  {"jne", FORMAT_ADDR, MODULE_COMPARE},
	OP_JGT:  {"jgt", FORMAT_ADDR, MODULE_COMPARE},
	OP_JGE:  {"jge", FORMAT_ADDR, MODULE_COMPARE},
	OP_JLT:  {"jlt", FORMAT_ADDR, MODULE_COMPARE},
	OP_JLE:  {"jle", FORMAT_ADDR, MODULE_COMPARE},
	OP_JS:   {"js", FORMAT_ADDR, MODULE_COMPARE},
	OP_JCO:  {"jco", FORMAT_ADDR, MODULE_COMPARE},

	OP_HALT: {"halt", FORMAT_NONE, MODULE_SYSTEM},
}

var _op_by_name = func() map[string]Op {
	byName := make(map[string]Op, len(_op_table))
	for op, info := range _op_table {
		byName[info.name] = op
	}
	return byName
}()

// Lookup returns the mnemonic, format, and owning module of an opcode.
func Lookup(op Op) (name string, format Format, module Module, ok bool) {
	info, ok := _op_table[op]
	if !ok {
		return
	}
	return info.name, info.format, info.module, true
}

// OpByName maps a lowercase mnemonic to its opcode.
func OpByName(name string) (op Op, ok bool) {
	op, ok = _op_by_name[name]
	return
}

// String returns the mnemonic of the opcode.
func (op Op) String() (name string) {
	info, ok := _op_table[op]
	if ok {
		name = info.name
	} else {
		name = fmt.Sprintf("op#%02x", uint8(op))
	}
	return
}

// Instruction word layout. All instructions are exactly one 32-bit word;
// PC always advances by WORD_SIZE unless an instruction redirects it.
//
//	[31:26] opcode
//	[25:18] A field: register number, or store destination
//	        (bit 7 set: indirect through register in the low bits;
//	         clear: 7-bit absolute address)
//	[17:16] B mode (imm-low / imm-high / register / absolute address)
//	[15:0]  B payload
//
// FORMAT_ADDR instructions use [25:24] as the address mode (absolute or
// register-indirect) and [23:0] as the payload.
const (
	WORD_SIZE = uint32(4)

	_op_shift   = 26
	_a_shift    = 18
	_a_mask     = uint32(0xff)
	_a_indirect = uint32(0x80)
	_mode_shift = 16
	_mode_mask  = uint32(0x3)
	_b_mask     = uint32(0xffff)

	_addr_mode_shift = 24
	_addr_mask       = uint32(0xffffff)

	_mode_imm    = uint32(0) // B payload is the low 16 bits of the value
	_mode_immhi  = uint32(1) // B payload is the high 16 bits of the value
	_mode_reg    = uint32(2) // B payload is a register number
	_mode_addr   = uint32(3) // B payload is a 16-bit absolute address

	_addr_mode_abs = uint32(0) // 24-bit absolute address
	_addr_mode_reg = uint32(1) // indirect through register
)

// encodeImm packs a raw 32-bit value into a B-field mode and payload.
// Only values whose bits fit entirely in the low half, or entirely in the
// high half, are representable in a single word.
func encodeImm(value uint32) (mode uint32, payload uint32, ok bool) {
	switch {
	case value&0xffff0000 == 0:
		return _mode_imm, value, true
	case value&0x0000ffff == 0:
		return _mode_immhi, value >> 16, true
	}
	return 0, 0, false
}

func decodeImm(mode uint32, payload uint32) (value uint32) {
	if mode == _mode_immhi {
		value = payload << 16
	} else {
		value = payload
	}
	return
}

// Encode packs an opcode and its operands into one machine word.
// Operands must already be fully resolved; labels are not encodable.
func Encode(op Op, a, b Operand) (word uint32, err error) {
	info, ok := _op_table[op]
	if !ok {
		err = ErrOpcodeUnknown(uint32(op))
		return
	}

	word = uint32(op) << _op_shift

	switch info.format {
	case FORMAT_NONE:
		if a.Kind != KIND_NONE || b.Kind != KIND_NONE {
			err = ErrOperandCount
			return
		}

	case FORMAT_REG:
		if a.Kind != KIND_REG || b.Kind != KIND_NONE {
			err = ErrOperandSyntax
			return
		}
		word |= uint32(a.Reg) << _a_shift

	case FORMAT_REG_B:
		if a.Kind != KIND_REG {
			err = ErrOperandSyntax
			return
		}
		word |= uint32(a.Reg) << _a_shift
		var mode, payload uint32
		mode, payload, err = encodeB(op, b)
		if err != nil {
			return
		}
		word |= mode<<_mode_shift | payload

	case FORMAT_STORE:
		var afield uint32
		switch a.Kind {
		case KIND_ADDR:
			if a.Addr > 0x7f {
				// The narrow store field reaches only the first 128
				// bytes; larger destinations go through a register.
				err = ErrOperandRange
				return
			}
			afield = a.Addr
		case KIND_ADDR_REG:
			afield = _a_indirect | uint32(a.Reg)
		default:
			err = ErrOperandSyntax
			return
		}
		word |= afield << _a_shift
		var mode, payload uint32
		mode, payload, err = encodeB(op, b)
		if err != nil {
			return
		}
		word |= mode<<_mode_shift | payload

	case FORMAT_B:
		if a.Kind == KIND_NONE {
			err = ErrOperandSyntax
			return
		}
		if b.Kind != KIND_NONE {
			err = ErrOperandCount
			return
		}
		var mode, payload uint32
		mode, payload, err = encodeB(op, a)
		if err != nil {
			return
		}
		word |= mode<<_mode_shift | payload

	case FORMAT_ADDR:
		if b.Kind != KIND_NONE {
			err = ErrOperandCount
			return
		}
		switch a.Kind {
		case KIND_ADDR:
			if a.Addr > _addr_mask {
				err = ErrOperandRange
				return
			}
			word |= _addr_mode_abs<<_addr_mode_shift | a.Addr
		case KIND_ADDR_REG:
			word |= _addr_mode_reg<<_addr_mode_shift | uint32(a.Reg)
		default:
			err = ErrOperandSyntax
			return
		}
	}

	return
}

// encodeB packs the second operand into mode bits and payload.
func encodeB(op Op, b Operand) (mode uint32, payload uint32, err error) {
	switch b.Kind {
	case KIND_IMM:
		var ok bool
		mode, payload, ok = encodeImm(b.Imm)
		if !ok {
			err = ErrImmediateRange(b.Imm)
		}
	case KIND_REG:
		mode = _mode_reg
		payload = uint32(b.Reg)
	case KIND_ADDR:
		if b.Addr > _b_mask {
			err = ErrOperandRange
			return
		}
		mode = _mode_addr
		payload = b.Addr
	case KIND_ADDR_REG:
		if op != OP_LODW {
			err = ErrOperandSyntax
			return
		}
		mode = _mode_reg
		payload = uint32(b.Reg)
	default:
		err = ErrOperandSyntax
	}
	return
}

// Decode unpacks one machine word into its opcode and operands. Unknown
// opcodes, invalid registers, and malformed mode bits all fail; the core
// reports such failures as InvalidInstruction faults.
func Decode(word uint32) (op Op, a, b Operand, err error) {
	op = Op(word >> _op_shift)
	info, ok := _op_table[op]
	if !ok {
		err = ErrOpcodeUnknown(word >> _op_shift)
		return
	}

	switch info.format {
	case FORMAT_NONE:
		// no operands

	case FORMAT_REG:
		a, err = decodeReg(word >> _a_shift & _a_mask)

	case FORMAT_REG_B:
		a, err = decodeReg(word >> _a_shift & _a_mask)
		if err != nil {
			return
		}
		b, err = decodeB(op, word)

	case FORMAT_STORE:
		afield := word >> _a_shift & _a_mask
		if afield&_a_indirect != 0 {
			var reg Operand
			reg, err = decodeReg(afield &^_a_indirect)
			if err != nil {
				return
			}
			a = Operand{Kind: KIND_ADDR_REG, Reg: reg.Reg}
		} else {
			a = Operand{Kind: KIND_ADDR, Addr: afield}
		}
		b, err = decodeB(op, word)

	case FORMAT_B:
		a, err = decodeB(op, word)

	case FORMAT_ADDR:
		switch word >> _addr_mode_shift & _mode_mask {
		case _addr_mode_abs:
			a = Operand{Kind: KIND_ADDR, Addr: word & _addr_mask}
		case _addr_mode_reg:
			var reg Operand
			reg, err = decodeReg(word & _addr_mask)
			if err != nil {
				return
			}
			a = Operand{Kind: KIND_ADDR_REG, Reg: reg.Reg}
		default:
			err = ErrOpcodeMode
		}
	}

	return
}

func decodeReg(field uint32) (opr Operand, err error) {
	reg := Reg(field)
	if !reg.Valid() {
		err = ErrRegisterUnknown(field)
		return
	}
	opr = Operand{Kind: KIND_REG, Reg: reg}
	return
}

func decodeB(op Op, word uint32) (opr Operand, err error) {
	mode := word >> _mode_shift & _mode_mask
	payload := word & _b_mask

	switch mode {
	case _mode_imm, _mode_immhi:
		opr = Operand{Kind: KIND_IMM, Imm: decodeImm(mode, payload)}
	case _mode_reg:
		opr, err = decodeReg(payload)
		if err != nil {
			return
		}
		if op == OP_LODW {
			// LODW's source is always a memory address.
			opr.Kind = KIND_ADDR_REG
		}
	case _mode_addr:
		opr = Operand{Kind: KIND_ADDR, Addr: payload}
	}
	return
}

// Disassemble renders a machine word back to assembly text.
func Disassemble(word uint32) (text string) {
	op, a, b, err := Decode(word)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", word)
	}

	text = op.String()
	if a.Kind != KIND_NONE {
		text += " " + a.String()
	}
	if b.Kind != KIND_NONE {
		text += ", " + b.String()
	}
	return
}
