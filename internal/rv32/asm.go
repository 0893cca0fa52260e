// Package rv32 assembles and executes the textual assembly the compiler
// emits: a small RV32 subset with the usual pseudo-instructions, the data
// directives, and %hi/%lo address pairs. The machine is a plain
// interpreter, enough to run compiled programs in tests and `mica run`.
package rv32

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

type opcode uint8

const (
	opAdd opcode = iota
	opSub
	opMul
	opDiv
	opRem
	opSlt
	opSgt
	opAnd
	opOr
	opAddi
	opXori
	opSlli
	opSrai
	opSeqz
	opSnez
	opNeg
	opNot
	opMv
	opLi
	opLui
	opLw
	opSw
	opBeqz
	opBnez
	opJ
	opCall
	opRet
)

// instr is one decoded instruction. imm holds the immediate, the resolved
// %hi/%lo value, or an absolute branch target. line points back into the
// assembly text for runtime faults.
type instr struct {
	op   opcode
	rd   uint8
	rs1  uint8
	rs2  uint8
	imm  int32
	line int
}

var threeRegOps = map[string]opcode{
	"add": opAdd,
	"sub": opSub,
	"mul": opMul,
	"div": opDiv,
	"rem": opRem,
	"slt": opSlt,
	"sgt": opSgt,
	"and": opAnd,
	"or":  opOr,
}

var twoRegOps = map[string]opcode{
	"seqz": opSeqz,
	"snez": opSnez,
	"neg":  opNeg,
	"not":  opNot,
	"mv":   opMv,
}

var branchOps = map[string]opcode{
	"beqz": opBeqz,
	"bnez": opBnez,
}

var immOps = map[string]opcode{
	"addi": opAddi,
	"xori": opXori,
	"slli": opSlli,
	"srai": opSrai,
}

var registers = map[string]uint8{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

const (
	regRA = 1
	regSP = 2
	regA0 = 10
)

// Image is an assembled program: decoded text, plus the initialized-data
// and zeroed-bss bytes that load at DataBase when a Machine starts.
type Image struct {
	code     []instr
	data     []byte
	dataBase uint32
	symbols  map[string]uint32
}

// Symbol returns the absolute address a label or .comm name resolved to.
func (img *Image) Symbol(name string) (uint32, bool) {
	addr, ok := img.symbols[name]
	return addr, ok
}

// footprint is the lowest memory size the image fits in.
func (img *Image) footprint() int {
	return int(img.dataBase) + len(img.data)
}

type section uint8

const (
	secText section = iota
	secData
	secBss
)

// stmt is one parsed line: zero or more label definitions, then at most
// one directive or instruction.
type stmt struct {
	line   int
	labels []string
	op     string
	args   []string
}

type symbol struct {
	section section
	offset  uint32
	line    int
}

type commDef struct {
	name  string
	size  uint32
	align uint32
	line  int
}

type assembler struct {
	stmts   []stmt
	symbols map[string]*symbol
	comms   []commDef
	globals map[string]bool
	text    uint32
	data    uint32
}

// Assemble translates assembly text into an executable image. The first
// pass parses lines, sizes both sections and binds labels; the second
// lays out text, data and bss in that order and encodes every
// instruction against the final addresses.
func Assemble(src string) (*Image, error) {
	a := &assembler{
		symbols: make(map[string]*symbol),
		globals: make(map[string]bool),
	}
	if err := a.scan(src); err != nil {
		return nil, err
	}
	return a.encode()
}

func parseLine(raw string, line int) (stmt, error) {
	st := stmt{line: line}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	rest := strings.TrimSpace(raw)
	for rest != "" {
		head := rest
		tail := ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			head, tail = rest[:i], strings.TrimSpace(rest[i+1:])
		}
		if !strings.HasSuffix(head, ":") {
			break
		}
		name := strings.TrimSuffix(head, ":")
		if name == "" {
			return st, fmt.Errorf("line %d: empty label", line)
		}
		st.labels = append(st.labels, name)
		rest = tail
	}
	if rest == "" {
		return st, nil
	}
	op := rest
	operands := ""
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		op, operands = rest[:i], strings.TrimSpace(rest[i+1:])
	}
	st.op = op
	if operands != "" {
		for _, arg := range strings.Split(operands, ",") {
			st.args = append(st.args, strings.TrimSpace(arg))
		}
	}
	return st, nil
}

// scan is the first pass: parse every line, advance the section cursors
// and bind each label to the cursor of the section active at its line.
func (a *assembler) scan(src string) error {
	sec := secText
	for i, raw := range strings.Split(src, "\n") {
		st, err := parseLine(raw, i+1)
		if err != nil {
			return err
		}
		for _, name := range st.labels {
			if err := a.define(name, sec, st.line); err != nil {
				return err
			}
		}
		if st.op == "" {
			continue
		}
		a.stmts = append(a.stmts, st)
		if !strings.HasPrefix(st.op, ".") {
			if sec != secText {
				return fmt.Errorf("line %d: instruction outside .text", st.line)
			}
			a.text += 4
			continue
		}
		switch st.op {
		case ".text":
			sec = secText
		case ".data":
			sec = secData
		case ".global", ".globl":
			if len(st.args) != 1 {
				return fmt.Errorf("line %d: %s expects one symbol", st.line, st.op)
			}
			a.globals[st.args[0]] = true
		case ".align":
			n, err := a.uintArg(st, 0)
			if err != nil {
				return err
			}
			if sec == secData {
				a.data = roundUp(a.data, n)
			} else if n > 4 {
				// Instructions keep .text word-aligned on their own.
				return fmt.Errorf("line %d: cannot align .text to %d", st.line, n)
			}
		case ".word":
			if sec != secData {
				return fmt.Errorf("line %d: .word outside .data", st.line)
			}
			if len(st.args) != 1 {
				return fmt.Errorf("line %d: .word expects one value", st.line)
			}
			a.data += 4
		case ".comm":
			if len(st.args) != 3 {
				return fmt.Errorf("line %d: .comm expects name, size, alignment", st.line)
			}
			size, err := a.uintArg(st, 1)
			if err != nil {
				return err
			}
			align, err := a.uintArg(st, 2)
			if err != nil {
				return err
			}
			if err := a.define(st.args[0], secBss, st.line); err != nil {
				return err
			}
			a.comms = append(a.comms, commDef{name: st.args[0], size: size, align: align, line: st.line})
		default:
			return fmt.Errorf("line %d: unknown directive %s", st.line, st.op)
		}
	}
	return nil
}

func (a *assembler) define(name string, sec section, line int) error {
	if prev, ok := a.symbols[name]; ok {
		return fmt.Errorf("line %d: symbol '%s' already defined on line %d", line, name, prev.line)
	}
	offset := a.text
	if sec == secData {
		offset = a.data
	}
	// bss offsets are assigned during layout, after data is sized.
	a.symbols[name] = &symbol{section: sec, offset: offset, line: line}
	return nil
}

func (a *assembler) uintArg(st stmt, i int) (uint32, error) {
	if i >= len(st.args) {
		return 0, fmt.Errorf("line %d: %s is missing an operand", st.line, st.op)
	}
	v, err := strconv.ParseUint(st.args[i], 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("line %d: bad %s operand '%s'", st.line, st.op, st.args[i])
	}
	return uint32(v), nil
}

func roundUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// encode is the second pass. Section bases are known now: text at zero,
// data word-aligned after it, bss after data with each .comm aligned as
// declared.
func (a *assembler) encode() (*Image, error) {
	img := &Image{
		dataBase: roundUp(a.text, 4),
		symbols:  make(map[string]uint32, len(a.symbols)),
	}
	bss := roundUp(img.dataBase+a.data, 4)
	for _, c := range a.comms {
		bss = roundUp(bss, c.align)
		a.symbols[c.name].offset = bss - img.dataBase
		bss += c.size
	}
	img.data = make([]byte, bss-img.dataBase)
	for name, sym := range a.symbols {
		switch sym.section {
		case secText:
			img.symbols[name] = sym.offset
		default:
			img.symbols[name] = img.dataBase + sym.offset
		}
	}

	sec := secText
	var cursor uint32
	for _, st := range a.stmts {
		if strings.HasPrefix(st.op, ".") {
			switch st.op {
			case ".text":
				sec = secText
			case ".data":
				sec = secData
			case ".align":
				if sec == secData {
					n, _ := a.uintArg(st, 0)
					cursor = roundUp(cursor, n)
				}
			case ".word":
				v, err := strconv.ParseInt(st.args[0], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad .word value '%s'", st.line, st.args[0])
				}
				// Oversized values truncate to 32 bits, as an assembler
				// for real hardware would.
				binary.LittleEndian.PutUint32(img.data[cursor:], uint32(v))
				cursor += 4
			}
			continue
		}
		in, err := a.encodeInstr(st, img)
		if err != nil {
			return nil, err
		}
		img.code = append(img.code, in)
	}
	return img, nil
}

func (a *assembler) encodeInstr(st stmt, img *Image) (instr, error) {
	in := instr{line: st.line}
	var err error
	switch st.op {
	case "add", "sub", "mul", "div", "rem", "slt", "sgt", "and", "or":
		in.op = threeRegOps[st.op]
		if err = a.want(st, 3); err != nil {
			return in, err
		}
		if in.rd, err = a.reg(st, 0); err != nil {
			return in, err
		}
		if in.rs1, err = a.reg(st, 1); err != nil {
			return in, err
		}
		in.rs2, err = a.reg(st, 2)
	case "seqz", "snez", "neg", "not", "mv":
		in.op = twoRegOps[st.op]
		if err = a.want(st, 2); err != nil {
			return in, err
		}
		if in.rd, err = a.reg(st, 0); err != nil {
			return in, err
		}
		in.rs1, err = a.reg(st, 1)
	case "addi", "xori", "slli", "srai":
		in.op = immOps[st.op]
		if err = a.want(st, 3); err != nil {
			return in, err
		}
		if in.rd, err = a.reg(st, 0); err != nil {
			return in, err
		}
		if in.rs1, err = a.reg(st, 1); err != nil {
			return in, err
		}
		if in.imm, err = a.immediate(st.args[2], st.line, img); err != nil {
			return in, err
		}
		if (in.op == opSlli || in.op == opSrai) && (in.imm < 0 || in.imm > 31) {
			err = fmt.Errorf("line %d: shift amount %d out of range", st.line, in.imm)
		}
	case "li", "lui":
		in.op = opLi
		if st.op == "lui" {
			in.op = opLui
		}
		if err = a.want(st, 2); err != nil {
			return in, err
		}
		if in.rd, err = a.reg(st, 0); err != nil {
			return in, err
		}
		in.imm, err = a.immediate(st.args[1], st.line, img)
	case "lw", "sw":
		if err = a.want(st, 2); err != nil {
			return in, err
		}
		var r uint8
		if r, err = a.reg(st, 0); err != nil {
			return in, err
		}
		if st.op == "sw" {
			in.op, in.rs2 = opSw, r
		} else {
			in.op, in.rd = opLw, r
		}
		off, base, ok := splitMem(st.args[1])
		if !ok {
			return in, fmt.Errorf("line %d: bad memory operand '%s'", st.line, st.args[1])
		}
		if in.imm, err = a.immediate(off, st.line, img); err != nil {
			return in, err
		}
		if in.rs1, ok = registers[base]; !ok {
			err = fmt.Errorf("line %d: unknown register '%s'", st.line, base)
		}
	case "beqz", "bnez":
		in.op = branchOps[st.op]
		if err = a.want(st, 2); err != nil {
			return in, err
		}
		if in.rs1, err = a.reg(st, 0); err != nil {
			return in, err
		}
		in.imm, err = a.target(st.args[1], st.line, img)
	case "j", "call":
		in.op = opJ
		if st.op == "call" {
			in.op = opCall
		}
		if err = a.want(st, 1); err != nil {
			return in, err
		}
		in.imm, err = a.target(st.args[0], st.line, img)
	case "ret":
		in.op = opRet
		err = a.want(st, 0)
	default:
		err = fmt.Errorf("line %d: unknown instruction %s", st.line, st.op)
	}
	return in, err
}

func (a *assembler) want(st stmt, n int) error {
	if len(st.args) != n {
		return fmt.Errorf("line %d: %s expects %d operand(s), got %d", st.line, st.op, n, len(st.args))
	}
	return nil
}

func (a *assembler) reg(st stmt, i int) (uint8, error) {
	name := st.args[i]
	r, ok := registers[name]
	if !ok {
		return 0, fmt.Errorf("line %d: unknown register '%s'", st.line, name)
	}
	return r, nil
}

// immediate resolves a plain integer or a %hi/%lo pair. %hi yields the
// upper 20 bits with the carry from a signed %lo folded in, so that
// lui+addi reconstructs the exact address.
func (a *assembler) immediate(s string, line int, img *Image) (int32, error) {
	if sym, kind, ok := splitReloc(s); ok {
		addr, found := img.symbols[sym]
		if !found {
			return 0, fmt.Errorf("line %d: undefined symbol '%s'", line, sym)
		}
		if kind == "hi" {
			return int32((addr + 0x800) >> 12), nil
		}
		return int32(addr<<20) >> 20, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: bad immediate '%s'", line, s)
	}
	return int32(v), nil
}

func (a *assembler) target(s string, line int, img *Image) (int32, error) {
	addr, ok := img.symbols[s]
	if !ok {
		return 0, fmt.Errorf("line %d: undefined label '%s'", line, s)
	}
	return int32(addr), nil
}

func splitMem(s string) (off, base string, ok bool) {
	i := strings.LastIndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:i], s[i+1 : len(s)-1], true
}

func splitReloc(s string) (sym, kind string, ok bool) {
	switch {
	case strings.HasPrefix(s, "%hi(") && strings.HasSuffix(s, ")"):
		return s[4 : len(s)-1], "hi", true
	case strings.HasPrefix(s, "%lo(") && strings.HasSuffix(s, ")"):
		return s[4 : len(s)-1], "lo", true
	}
	return "", "", false
}
