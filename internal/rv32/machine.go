package rv32

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"
)

const (
	defaultMemSize  = 1 << 20
	defaultMaxSteps = 1 << 24

	// haltAddr is the return address planted in ra before the entry call.
	// A ret that lands here ends the run.
	haltAddr uint32 = 0xfffffff0
)

// Machine executes an assembled image: thirty-two registers, a flat
// little-endian memory with the stack descending from the top, and
// RV32IM arithmetic including the division edge semantics.
type Machine struct {
	MaxSteps int
	MemSize  int

	// Steps counts instructions retired by the most recent Run.
	Steps int

	img  *Image
	regs [32]int32
	mem  []byte
	pc   uint32
}

func NewMachine(img *Image) *Machine {
	return &Machine{
		MaxSteps: defaultMaxSteps,
		MemSize:  defaultMemSize,
		img:      img,
	}
}

// Run starts at the named symbol with an empty stack and runs until the
// entry function returns. The result is whatever the program left in a0.
func (m *Machine) Run(entry string) (int32, error) {
	addr, ok := m.img.Symbol(entry)
	if !ok {
		return 0, fmt.Errorf("no symbol '%s' in the program", entry)
	}
	if m.img.footprint() > m.MemSize {
		return 0, fmt.Errorf("program needs %d bytes of memory, machine has %d", m.img.footprint(), m.MemSize)
	}
	sp, err := safecast.Conv[int32](m.MemSize)
	if err != nil {
		return 0, fmt.Errorf("memory size %d is not addressable", m.MemSize)
	}
	m.mem = make([]byte, m.MemSize)
	copy(m.mem[m.img.dataBase:], m.img.data)
	m.regs = [32]int32{}
	m.regs[regSP] = sp
	ra := haltAddr // non-constant so the conversion wraps instead of overflowing
	m.regs[regRA] = int32(ra)
	m.pc = addr

	m.Steps = 0
	for {
		if m.pc == haltAddr {
			return m.regs[regA0], nil
		}
		if m.Steps >= m.MaxSteps {
			return 0, fmt.Errorf("gave up after %d instructions, the program does not terminate", m.MaxSteps)
		}
		if err := m.step(); err != nil {
			return 0, err
		}
		m.Steps++
	}
}

func (m *Machine) step() error {
	if m.pc%4 != 0 || m.pc/4 >= uint32(len(m.img.code)) {
		return fmt.Errorf("jumped outside the program: pc %#x", m.pc)
	}
	in := m.img.code[m.pc/4]
	m.pc += 4
	switch in.op {
	case opAdd:
		m.set(in.rd, m.regs[in.rs1]+m.regs[in.rs2])
	case opSub:
		m.set(in.rd, m.regs[in.rs1]-m.regs[in.rs2])
	case opMul:
		m.set(in.rd, m.regs[in.rs1]*m.regs[in.rs2])
	case opDiv:
		m.set(in.rd, divide(m.regs[in.rs1], m.regs[in.rs2]))
	case opRem:
		m.set(in.rd, remainder(m.regs[in.rs1], m.regs[in.rs2]))
	case opSlt:
		m.set(in.rd, b2i(m.regs[in.rs1] < m.regs[in.rs2]))
	case opSgt:
		m.set(in.rd, b2i(m.regs[in.rs1] > m.regs[in.rs2]))
	case opAnd:
		m.set(in.rd, m.regs[in.rs1]&m.regs[in.rs2])
	case opOr:
		m.set(in.rd, m.regs[in.rs1]|m.regs[in.rs2])
	case opAddi:
		m.set(in.rd, m.regs[in.rs1]+in.imm)
	case opXori:
		m.set(in.rd, m.regs[in.rs1]^in.imm)
	case opSlli:
		m.set(in.rd, m.regs[in.rs1]<<uint(in.imm))
	case opSrai:
		m.set(in.rd, m.regs[in.rs1]>>uint(in.imm))
	case opSeqz:
		m.set(in.rd, b2i(m.regs[in.rs1] == 0))
	case opSnez:
		m.set(in.rd, b2i(m.regs[in.rs1] != 0))
	case opNeg:
		m.set(in.rd, -m.regs[in.rs1])
	case opNot:
		m.set(in.rd, ^m.regs[in.rs1])
	case opMv:
		m.set(in.rd, m.regs[in.rs1])
	case opLi:
		m.set(in.rd, in.imm)
	case opLui:
		m.set(in.rd, in.imm<<12)
	case opLw:
		v, err := m.load(uint32(m.regs[in.rs1]+in.imm), in.line)
		if err != nil {
			return err
		}
		m.set(in.rd, v)
	case opSw:
		return m.store(uint32(m.regs[in.rs1]+in.imm), m.regs[in.rs2], in.line)
	case opBeqz:
		if m.regs[in.rs1] == 0 {
			m.pc = uint32(in.imm)
		}
	case opBnez:
		if m.regs[in.rs1] != 0 {
			m.pc = uint32(in.imm)
		}
	case opJ:
		m.pc = uint32(in.imm)
	case opCall:
		m.regs[regRA] = int32(m.pc)
		m.pc = uint32(in.imm)
	case opRet:
		m.pc = uint32(m.regs[regRA])
	}
	return nil
}

func (m *Machine) set(r uint8, v int32) {
	if r != 0 {
		m.regs[r] = v
	}
}

func (m *Machine) load(addr uint32, line int) (int32, error) {
	if err := m.check(addr, line); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(m.mem[addr:])), nil
}

func (m *Machine) store(addr uint32, v int32, line int) error {
	if err := m.check(addr, line); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.mem[addr:], uint32(v))
	return nil
}

func (m *Machine) check(addr uint32, line int) error {
	if addr%4 != 0 {
		return fmt.Errorf("line %d: misaligned access at address %#x", line, addr)
	}
	if addr > uint32(len(m.mem)-4) {
		return fmt.Errorf("line %d: access outside memory at address %#x", line, addr)
	}
	return nil
}

// divide and remainder follow the RISC-V M extension: division by zero
// and the MinInt32/-1 overflow produce defined results, never a trap.
func divide(a, b int32) int32 {
	switch {
	case b == 0:
		return -1
	case a == math.MinInt32 && b == -1:
		return a
	}
	return a / b
}

func remainder(a, b int32) int32 {
	switch {
	case b == 0:
		return a
	case a == math.MinInt32 && b == -1:
		return 0
	}
	return a % b
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Execute assembles src and runs it from entry in one call.
func Execute(src, entry string) (int32, error) {
	img, err := Assemble(src)
	if err != nil {
		return 0, err
	}
	return NewMachine(img).Run(entry)
}
