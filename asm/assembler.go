// Package asm is the two-pass assembler for the ARC instruction set.
// Pass 1 assigns every label its eventual address and accumulates the
// segment layout; pass 2 encodes instructions and data with the
// complete symbol table. Assembly either yields one whole Image or an
// error and no image.
package asm

import (
	"fmt"
	"log"
	"maps"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/arcsim/arc/cpu"
	"github.com/arcsim/arc/mem"
)

type section int

const (
	SECTION_TEXT = section(iota)
	SECTION_DATA
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// labelDef is a pass-1 label sighting, positioned relative to its
// section start until the layout is finalized.
type labelDef struct {
	name   string
	sect   section
	offset uint32
}

// Assembler assembles ARC source text into an Image.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	MemSize uint32 // Memory size the layout must fit; 0 means the minimum.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
	Label     map[string]uint32 // Map of labels to absolute addresses.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Assemble runs both passes over src. On any error no image is
// returned, and the error carries the offending line.
func (asm *Assembler) Assemble(src string) (image *Image, err error) {
	memSize := asm.MemSize
	if memSize == 0 {
		memSize = mem.SIZE_MIN
	}

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.Label = map[string]uint32{}

	lines := strings.Split(src, "\n")

	layout, labels, err := asm.passOne(lines, memSize)
	if err != nil {
		return
	}

	for _, def := range labels {
		switch def.sect {
		case SECTION_TEXT:
			asm.Label[def.name] = layout.TextStart + def.offset
		case SECTION_DATA:
			asm.Label[def.name] = layout.DataStart + def.offset
		}
	}

	image, err = asm.passTwo(lines, layout)
	return
}

// passOne sizes both sections, collects labels and equates, and
// finalizes the segment layout.
func (asm *Assembler) passOne(lines []string, memSize uint32) (layout mem.Layout, labels []labelDef, err error) {
	sect := SECTION_TEXT
	var textOff, dataOff uint32
	seen := map[string]bool{}
	directive := map[string]uint32{}

	var lineno int
	var line string
	defer func() {
		if err != nil && lineno > 0 {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for n, raw := range lines {
		lineno = n + 1
		line = strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, line)
		}

		label, stmt := splitLabel(line)
		if label != "" {
			_, dup := asm.Label[label]
			if dup {
				err = ErrLabelDuplicate
				return
			}
			// Occupy the name; the real address lands after layout.
			asm.Label[label] = 0
			off := textOff
			if sect == SECTION_DATA {
				off = dataOff
			}
			labels = append(labels, labelDef{name: label, sect: sect, offset: off})
		}
		if stmt == "" {
			continue
		}

		if !strings.HasPrefix(stmt, ".") {
			mnemonic, _ := cutSpace(stmt)
			if _, ok := cpu.OpByName(strings.ToLower(mnemonic)); !ok {
				err = ErrOpcodeInvalid(mnemonic)
				return
			}
			if sect != SECTION_TEXT {
				err = ErrSectionData
				return
			}
			textOff += cpu.WORD_SIZE
			continue
		}

		word, rest := cutSpace(stmt)

		switch word {
		case ".text":
			sect = SECTION_TEXT
		case ".data":
			sect = SECTION_DATA

		case ".text_start", ".stack_start", ".stack_size":
			if seen[word] {
				err = ErrDuplicateDirective
				return
			}
			seen[word] = true
			directive[word], err = asm.literal(rest, lineno)
			if err != nil {
				return
			}

		case ".equ":
			var fields []string
			fields = strings.Fields(rest)
			if len(fields) != 2 {
				err = ErrEquateSyntax
				return
			}
			if _, dup := asm.Equate[fields[0]]; dup {
				err = ErrEquateDuplicate
				return
			}
			asm.Equate[fields[0]] = fields[1]

		case ".word", ".byte", ".string", ".space", ".align":
			if sect != SECTION_DATA {
				err = ErrInvalidDirective
				return
			}
			var size uint32
			size, err = asm.dataSize(word, rest, dataOff, lineno)
			if err != nil {
				return
			}
			dataOff += size

		default:
			err = ErrDirectiveUnknown
			return
		}
	}

	layout.TextStart = mem.DEFAULT_TEXT_START
	if value, ok := directive[".text_start"]; ok {
		layout.TextStart = value
	}
	layout.TextSize = textOff
	layout.StackSize = mem.DEFAULT_STACK_SIZE
	if value, ok := directive[".stack_size"]; ok {
		layout.StackSize = value
	}
	layout.StackStart = memSize - layout.StackSize
	if value, ok := directive[".stack_start"]; ok {
		layout.StackStart = value
	}
	layout.DataSize = dataOff
	layout.DataStart = layout.StackStart - layout.DataSize

	lineno = 0
	line = ""
	err = layout.Validate(memSize)
	return
}

// passTwo encodes instructions and data with the full symbol table.
func (asm *Assembler) passTwo(lines []string, layout mem.Layout) (image *Image, err error) {
	out := &Image{Layout: layout}
	sect := SECTION_TEXT
	var dataOff uint32

	var lineno int
	var line string
	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for n, raw := range lines {
		lineno = n + 1
		line = strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		_, stmt := splitLabel(line)
		if stmt == "" {
			continue
		}

		if !strings.HasPrefix(stmt, ".") {
			var word uint32
			word, err = asm.encode(stmt, lineno)
			if err != nil {
				return
			}
			out.Text = append(out.Text, word)
			out.Lines = append(out.Lines, lineno)
			continue
		}

		directive, rest := cutSpace(stmt)

		switch directive {
		case ".text":
			sect = SECTION_TEXT
		case ".data":
			sect = SECTION_DATA
		case ".text_start", ".stack_start", ".stack_size", ".equ":
			// consumed in pass 1
		default:
			if sect != SECTION_DATA {
				err = ErrInvalidDirective
				return
			}
			var chunk []byte
			chunk, err = asm.dataBytes(directive, rest, dataOff, lineno)
			if err != nil {
				return
			}
			out.Data = append(out.Data, chunk...)
			dataOff += uint32(len(chunk))
		}
	}

	image = out
	return
}

// encode assembles one instruction statement into its machine word.
func (asm *Assembler) encode(stmt string, lineno int) (word uint32, err error) {
	mnemonic, rest := cutSpace(stmt)
	op, ok := cpu.OpByName(strings.ToLower(mnemonic))
	if !ok {
		err = ErrOpcodeInvalid(mnemonic)
		return
	}
	_, format, _, _ := cpu.Lookup(op)

	var a, b cpu.Operand
	rest = strings.TrimSpace(rest)
	if rest != "" {
		rest, err = asm.expand(rest, lineno)
		if err != nil {
			return
		}
		parts := strings.Split(rest, ",")
		operands := make([]cpu.Operand, 0, 2)
		for _, part := range parts {
			var opr cpu.Operand
			opr, err = cpu.ParseOperand(part)
			if err != nil {
				return
			}
			wantAddr := format == cpu.FORMAT_ADDR && len(operands) == 0
			opr, err = asm.resolve(opr, wantAddr)
			if err != nil {
				return
			}
			operands = append(operands, opr)
		}
		if len(operands) > 2 {
			err = cpu.ErrOperandCount
			return
		}
		if len(operands) > 0 {
			a = operands[0]
		}
		if len(operands) > 1 {
			b = operands[1]
		}
	}

	word, err = cpu.Encode(op, a, b)
	return
}

// resolve replaces a symbol operand with its equate or label value.
func (asm *Assembler) resolve(opr cpu.Operand, wantAddr bool) (out cpu.Operand, err error) {
	if opr.Kind != cpu.KIND_LABEL {
		out = opr
		return
	}

	var value uint32
	if equ, ok := asm.Equate[opr.Label]; ok {
		value, err = cpu.ParseLiteral(equ)
		if err != nil {
			return
		}
	} else if addr, ok := asm.Label[opr.Label]; ok {
		value = addr
	} else {
		err = ErrUndefinedSymbol(opr.Label)
		return
	}

	if opr.Deref || wantAddr {
		out = cpu.Operand{Kind: cpu.KIND_ADDR, Addr: value}
	} else {
		out = cpu.Operand{Kind: cpu.KIND_IMM, Imm: value}
	}
	return
}

// dataSize computes, without emitting, how many bytes a data directive
// occupies. Pass 1 and pass 2 must agree byte for byte.
func (asm *Assembler) dataSize(directive, rest string, offset uint32, lineno int) (size uint32, err error) {
	switch directive {
	case ".word":
		size = 4 * uint32(len(splitList(rest)))
	case ".byte":
		size = uint32(len(splitList(rest)))
	case ".string":
		var data []byte
		data, err = parseString(rest)
		if err != nil {
			return
		}
		size = uint32(len(data)) + 1
	case ".space":
		size, err = asm.literal(rest, lineno)
	case ".align":
		var align uint32
		align, err = asm.literal(rest, lineno)
		if err != nil {
			return
		}
		if align == 0 {
			err = ErrInvalidDirective
			return
		}
		if rem := offset % align; rem != 0 {
			size = align - rem
		}
	}
	return
}

// dataBytes emits the bytes of one data directive.
func (asm *Assembler) dataBytes(directive, rest string, offset uint32, lineno int) (data []byte, err error) {
	switch directive {
	case ".word":
		for _, item := range splitList(rest) {
			var value uint32
			value, err = asm.literal(item, lineno)
			if err != nil {
				return
			}
			data = append(data, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
		}
	case ".byte":
		for _, item := range splitList(rest) {
			var value uint32
			value, err = asm.literal(item, lineno)
			if err != nil {
				return
			}
			if value > 0xff {
				err = ErrInvalidDirective
				return
			}
			data = append(data, byte(value))
		}
	case ".string":
		data, err = parseString(rest)
		if err != nil {
			return
		}
		data = append(data, 0)
	case ".space":
		var size uint32
		size, err = asm.literal(rest, lineno)
		if err != nil {
			return
		}
		data = make([]byte, size)
	case ".align":
		var size uint32
		size, err = asm.dataSize(directive, rest, offset, lineno)
		if err != nil {
			return
		}
		data = make([]byte, size)
	default:
		err = ErrDirectiveUnknown
	}
	return
}

// literal resolves one directive value: an equate, a label, a $()
// expression, or a plain literal.
func (asm *Assembler) literal(text string, lineno int) (value uint32, err error) {
	text, err = asm.expand(strings.TrimSpace(text), lineno)
	if err != nil {
		return
	}
	if text == "" {
		err = ErrInvalidDirective
		return
	}
	if equ, ok := asm.Equate[text]; ok {
		text = equ
	} else if addr, ok := asm.Label[text]; ok {
		value = addr
		return
	}
	value, err = cpu.ParseLiteral(text)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// expand performs $() compile-time expression evaluation on one
// statement tail.
func (asm *Assembler) expand(text string, lineno int) (out string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	if !strings.Contains(text, "$(") {
		out = text
		return
	}

	out = parenRe.ReplaceAllStringFunc(text, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	return
}

// parenEval evaluates one $() expression via Starlark, with every
// integer equate bound as a variable.
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value32, _err := cpu.ParseLiteral(str)
		if _err != nil {
			// Non-integer equates are not visible to expressions.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// stripComment removes a ; comment, honoring double quotes.
func stripComment(line string) (out string) {
	inQuote := false
	for n := 0; n < len(line); n++ {
		switch line[n] {
		case '\\':
			if inQuote {
				n++
			}
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return line[:n]
			}
		}
	}
	return line
}

// splitLabel separates an optional leading "name:" from the statement.
func splitLabel(line string) (label, stmt string) {
	stmt = line
	head, rest, found := strings.Cut(line, ":")
	if !found || strings.ContainsAny(head, " \t\"[") {
		return
	}
	label = strings.TrimSpace(head)
	stmt = strings.TrimSpace(rest)
	return
}

// cutSpace splits at the first space or tab.
func cutSpace(s string) (head, rest string) {
	if n := strings.IndexAny(s, " \t"); n >= 0 {
		return s[:n], strings.TrimSpace(s[n+1:])
	}
	return s, ""
}

// splitList splits a comma-separated directive value list.
func splitList(rest string) (items []string) {
	for _, item := range strings.Split(rest, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return
}

// parseString decodes one double-quoted string with \n \r \t \0 \\ \"
// escapes. The terminator byte is appended by the caller.
func parseString(text string) (data []byte, err error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		err = ErrStringSyntax
		return
	}
	body := text[1 : len(text)-1]
	for n := 0; n < len(body); n++ {
		c := body[n]
		if c != '\\' {
			if c == '"' {
				err = ErrStringSyntax
				return
			}
			data = append(data, c)
			continue
		}
		n++
		if n >= len(body) {
			err = ErrStringSyntax
			return
		}
		switch body[n] {
		case 'n':
			data = append(data, '\n')
		case 'r':
			data = append(data, '\r')
		case 't':
			data = append(data, '\t')
		case '0':
			data = append(data, 0)
		case '\\':
			data = append(data, '\\')
		case '"':
			data = append(data, '"')
		default:
			err = ErrStringSyntax
			return
		}
	}
	return
}
