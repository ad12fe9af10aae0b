// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
)

// Machine is the simulation context for a single virtual CPU.
type Machine struct {
	Verbose bool           // Set to enable verbose logging.
	Log     *logrus.Logger // Logger for verbose output; nil uses the standard logger.

	Register [REG_COUNT]int32 // Register file.
	Memory   []int32          // Data memory, one entry per word.
	Cmp      int32            // Result of the most recent compare.
	Store    *Program         // Instruction store.
}

// State is a copy of the architectural state of a Machine.
type State struct {
	Register [REG_COUNT]int32
	Memory   []int32
	Cmp      int32
}

// NewMachine creates a machine with capacity words of data memory and an
// empty instruction store of the same capacity. A capacity of 0 selects
// MEMORY_SIZE.
func NewMachine(capacity uint) (m *Machine) {
	if capacity == 0 {
		capacity = MEMORY_SIZE
	}

	m = &Machine{
		Memory: make([]int32, capacity),
		Store:  &Program{Capacity: int(capacity)},
	}

	m.Reset()

	return
}

// Reset the machine state.
// - Clears the registers, data memory and comparison result.
// - Seeds ESP and EBP to the stack base.
// - Sets EIP to slot 0.
// The instruction store is left in place.
func (m *Machine) Reset() {
	if m.Verbose {
		m.logger().Debug("cpu: reset")
	}

	clear(m.Register[:])
	clear(m.Memory)
	m.Cmp = 0

	base := m.StackBase()
	m.Register[REG_ESP] = base
	m.Register[REG_EBP] = base
	m.Register[REG_EIP] = 0
}

// StackBase is the initial value of ESP and EBP.
func (m *Machine) StackBase() int32 {
	base := int32(len(m.Memory)) - STACK_RESERVE
	if base < 0 {
		base = 0
	}
	return base
}

// Defines for program text equates.
func (m *Machine) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"WORD_SIZE":   fmt.Sprintf("%d", WORD_SIZE),
		"MEMORY_SIZE": fmt.Sprintf("%d", len(m.Memory)),
		"STACK_BASE":  fmt.Sprintf("%d", m.StackBase()),
	}
	return maps.All(defines)
}

// Snapshot returns a deep copy of registers, memory and comparison result.
func (m *Machine) Snapshot() State {
	return State{
		Register: m.Register,
		Memory:   slices.Clone(m.Memory),
		Cmp:      m.Cmp,
	}
}

// String returns the register file and comparison result as a string.
func (m *Machine) String() (text string) {
	for _, reg := range Registers() {
		val := m.Register[reg]
		text += fmt.Sprintf("% 5s: %04X_%04X (%d)\n", reg.String(), uint32(val)>>16, uint32(val)&0xffff, val)
	}
	text += fmt.Sprintf("% 5s: %d\n", "cmp", m.Cmp)

	return
}

// Table renders the register file, comparison result, and every non-zero
// data word as text tables.
func (m *Machine) Table() string {
	regTable := table.NewWriter()
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"Register", "Value", "Hex"})
	for _, reg := range Registers() {
		val := m.Register[reg]
		regTable.AppendRow(table.Row{reg.String(), val, fmt.Sprintf("0x%08X", uint32(val))})
	}
	regTable.AppendSeparator()
	regTable.AppendRow(table.Row{"cmp", m.Cmp, fmt.Sprintf("0x%08X", uint32(m.Cmp))})

	memTable := table.NewWriter()
	memTable.SetTitle("Memory")
	memTable.AppendHeader(table.Row{"Address", "Value", "Hex"})
	for n, val := range m.Memory {
		if val == 0 {
			continue
		}
		memTable.AppendRow(table.Row{n * WORD_SIZE, val, fmt.Sprintf("0x%08X", uint32(val))})
	}

	return regTable.Render() + "\n" + memTable.Render()
}

// logger returns the verbose log entry for the current instruction pointer.
func (m *Machine) logger() *logrus.Entry {
	log := m.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithField("ip", m.Register[REG_EIP])
}

// validAddress reports whether addr is a byte address inside data memory.
func (m *Machine) validAddress(addr int64) bool {
	return addr >= 0 && addr <= int64(len(m.Memory)-1)*WORD_SIZE
}

// address returns the memory index addressed by reg+offset.
func (m *Machine) address(reg Register, offset int32) (index int, err error) {
	addr := int64(m.Register[reg]) + int64(offset)
	if !m.validAddress(addr) {
		err = errors.Join(ErrMemory, ErrAddress(addr))
		return
	}

	index = int(addr / WORD_SIZE)
	return
}

// value gets the value of a source operand, without modifying state.
func (m *Machine) value(op Operand) (value int32, err error) {
	switch op := op.(type) {
	case RegisterOperand:
		value = m.Register[op.Reg]
	case ConstOperand:
		value = op.Value
	case MemoryOperand:
		var index int
		index, err = m.address(op.Reg, op.Offset)
		if err != nil {
			return
		}
		value = m.Memory[index]
	default:
		err = errors.Join(ErrInstruction, ErrOperandInvalid)
	}

	return
}

// target validates a destination operand, returning its current value and a
// setter. Nothing is modified until set is called.
func (m *Machine) target(op Operand) (input int32, set func(value int32), err error) {
	switch op := op.(type) {
	case RegisterOperand:
		input = m.Register[op.Reg]
		set = func(value int32) { m.Register[op.Reg] = value }
	case MemoryOperand:
		var index int
		index, err = m.address(op.Reg, op.Offset)
		if err != nil {
			return
		}
		input = m.Memory[index]
		set = func(value int32) { m.Memory[index] = value }
	case ConstOperand:
		err = errors.Join(ErrInstruction, ErrOperandConst)
	default:
		err = errors.Join(ErrInstruction, ErrOperandInvalid)
	}

	return
}

// advance moves EIP to the next instruction slot.
func (m *Machine) advance() {
	m.Register[REG_EIP] += WORD_SIZE
}
