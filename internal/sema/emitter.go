package sema

import (
	"fmt"
	"slices"
)

// emitter accumulates the output assembly and tracks the virtual
// operand-stack depth alongside it. Every push moves sp down one word
// and bumps the depth; every pop does the reverse. The depth never
// reaches the output, but it lets tests check stack balance without
// assembling anything.
type emitter struct {
	out   []byte
	depth int
}

func (e *emitter) instr(format string, args ...any) {
	e.out = append(e.out, '\t')
	e.out = fmt.Appendf(e.out, format, args...)
	e.out = append(e.out, '\n')
}

func (e *emitter) label(format string, args ...any) {
	e.out = fmt.Appendf(e.out, format, args...)
	e.out = append(e.out, ':', '\n')
}

func (e *emitter) comment(format string, args ...any) {
	e.out = append(e.out, '#', ' ')
	e.out = fmt.Appendf(e.out, format, args...)
	e.out = append(e.out, '\n')
}

func (e *emitter) blank() {
	e.out = append(e.out, '\n')
}

// push spills reg onto the runtime stack.
func (e *emitter) push(reg string) {
	e.comment("push %s", reg)
	e.instr("addi sp, sp, -4")
	e.instr("sw %s, 0(sp)", reg)
	e.depth++
}

// pop moves the stack top into reg and releases the word.
func (e *emitter) pop(reg string) {
	e.comment("pop %s", reg)
	e.instr("lw %s, 0(sp)", reg)
	e.instr("addi sp, sp, 4")
	e.depth--
}

// drain is pop without the banner comment.
func (e *emitter) drain(reg string) {
	e.instr("lw %s, 0(sp)", reg)
	e.instr("addi sp, sp, 4")
	e.depth--
}

// drop releases the stack top without reading it.
func (e *emitter) drop() {
	e.instr("addi sp, sp, 4")
	e.depth--
}

// mark records an insertion point for backpatching.
func (e *emitter) mark() int {
	return len(e.out)
}

// insertInstrAt splices one instruction at a previously recorded mark.
// The frame-reservation slot in the prologue is the only caller.
func (e *emitter) insertInstrAt(mark int, format string, args ...any) {
	line := "\t" + fmt.Sprintf(format, args...) + "\n"
	e.out = slices.Insert(e.out, mark, []byte(line)...)
}

func (e *emitter) String() string {
	return string(e.out)
}
