package cpu

import (
	"errors"
)

// isInvalid returns true if any operand failed to decode.
func isInvalid(ops ...Operand) bool {
	for _, op := range ops {
		if _, ok := op.(InvalidOperand); ok {
			return true
		}
	}
	return false
}

// isMemory returns true if the operand addresses data memory.
func isMemory(op Operand) bool {
	_, ok := op.(MemoryOperand)
	return ok
}

// checkPair applies the operand kind rules shared by MOVL, ADDL and CMPL.
// Kind errors are reported before any address is evaluated.
func checkPair(src, dst Operand, dstWritable bool) (err error) {
	switch {
	case isInvalid(src, dst):
		err = errors.Join(ErrInstruction, ErrOperandInvalid)
	case isMemory(src) && isMemory(dst):
		err = errors.Join(ErrInstruction, ErrOperandMemory)
	case dstWritable:
		if _, ok := dst.(ConstOperand); ok {
			err = errors.Join(ErrInstruction, ErrOperandConst)
		}
	}
	return
}

// Movl copies the value of src into dst.
//
// Valid pairs are reg,reg reg,mem const,reg const,mem and mem,reg. On any
// error no state is modified. EIP is not changed.
func (m *Machine) Movl(src, dst string) (err error) {
	source := DecodeOperand(src)
	destination := DecodeOperand(dst)

	err = checkPair(source, destination, true)
	if err != nil {
		return
	}

	value, err := m.value(source)
	if err != nil {
		return
	}

	_, set, err := m.target(destination)
	if err != nil {
		return
	}

	set(value)
	return
}

// Addl adds the value of src to dst.
//
// dst must be a register or memory word, and src and dst may not both be
// memory. On any error no state is modified. EIP is not changed.
func (m *Machine) Addl(src, dst string) (err error) {
	source := DecodeOperand(src)
	destination := DecodeOperand(dst)

	err = checkPair(source, destination, true)
	if err != nil {
		return
	}

	value, err := m.value(source)
	if err != nil {
		return
	}

	input, set, err := m.target(destination)
	if err != nil {
		return
	}

	set(input + value)
	return
}

// Pushl decrements ESP by one word and writes the value of src there.
//
// On any error no state is modified. EIP is not changed.
func (m *Machine) Pushl(src string) (err error) {
	source := DecodeOperand(src)

	if isInvalid(source) {
		err = errors.Join(ErrInstruction, ErrOperandInvalid)
		return
	}

	sp := int64(m.Register[REG_ESP]) - WORD_SIZE
	if !m.validAddress(sp) {
		err = errors.Join(ErrMemory, ErrAddress(sp))
		return
	}

	// Read before ESP moves, so PUSHL %ESP pushes the old value.
	value, err := m.value(source)
	if err != nil {
		return
	}

	m.Register[REG_ESP] = int32(sp)
	m.Memory[sp/WORD_SIZE] = value
	return
}

// Popl reads the word at ESP into dst, then increments ESP by one word.
//
// A memory dst is addressed with the ESP value from before the pop. On any
// error no state is modified. EIP is not changed.
func (m *Machine) Popl(dst string) (err error) {
	destination := DecodeOperand(dst)

	switch destination.(type) {
	case ConstOperand:
		err = errors.Join(ErrInstruction, ErrOperandConst)
		return
	case InvalidOperand:
		err = errors.Join(ErrInstruction, ErrOperandInvalid)
		return
	}

	sp := int64(m.Register[REG_ESP])
	if !m.validAddress(sp) {
		err = errors.Join(ErrMemory, ErrAddress(sp))
		return
	}

	_, set, err := m.target(destination)
	if err != nil {
		return
	}

	set(m.Memory[sp/WORD_SIZE])
	m.Register[REG_ESP] += WORD_SIZE
	return
}

// Cmpl sets the comparison result to value(dst) - value(src), which is the
// AT&T reading of "CMPL src dst".
//
// Both operands are read only, and may not both be memory. On any error no
// state is modified. EIP is not changed.
func (m *Machine) Cmpl(src, dst string) (err error) {
	first := DecodeOperand(src)
	second := DecodeOperand(dst)

	err = checkPair(first, second, false)
	if err != nil {
		return
	}

	a, err := m.value(first)
	if err != nil {
		return
	}

	b, err := m.value(second)
	if err != nil {
		return
	}

	m.Cmp = b - a
	return
}

// resolve looks up a control transfer target, checking that it lies inside
// the instruction store.
func (m *Machine) resolve(label string) (addr int32, err error) {
	addr, err = m.Store.Label(label)
	if err != nil {
		return
	}

	if !m.Store.ValidTarget(int64(addr)) {
		err = ErrTarget(addr)
	}
	return
}

// Jump executes JMP, JE, JNE, JL or JG to a label.
//
// When the branch is taken EIP is set to the label's address, otherwise EIP
// moves to the next slot. When the label does not resolve EIP also moves to
// the next slot, and ErrPc is returned. No other state is modified.
func (m *Machine) Jump(op Mnemonic, label string) (err error) {
	addr, err := m.resolve(label)
	if err != nil {
		m.advance()
		err = errors.Join(ErrPc, err)
		return
	}

	var taken bool
	switch op {
	case OP_JMP:
		taken = true
	case OP_JE:
		taken = m.Cmp == 0
	case OP_JNE:
		taken = m.Cmp != 0
	case OP_JL:
		taken = m.Cmp < 0
	case OP_JG:
		taken = m.Cmp > 0
	default:
		m.advance()
		err = errors.Join(ErrPc, ErrOpcodeCondition)
		return
	}

	if taken {
		m.Register[REG_EIP] = addr
	} else {
		m.advance()
	}

	return
}

// Call pushes the address of the next slot and transfers to a label.
//
// When the label does not resolve nothing is modified. When the return
// address cannot be pushed, EIP is left at the next slot so execution
// continues past the call.
func (m *Machine) Call(label string) (err error) {
	addr, err := m.resolve(label)
	if err != nil {
		err = errors.Join(ErrPc, err)
		return
	}

	m.advance()

	err = m.Pushl(REG_EIP.String())
	if err != nil {
		err = errors.Join(ErrPc, err)
		return
	}

	m.Register[REG_EIP] = addr
	return
}

// Ret pops the return address into EIP.
//
// ESP and EIP are the only registers modified. ErrPc is returned when the
// popped address is not a populated slot, or one past the last. If the stack
// cannot be popped EIP moves to the next slot.
func (m *Machine) Ret() (err error) {
	err = m.Popl(REG_EIP.String())
	if err != nil {
		m.advance()
		err = errors.Join(ErrPc, err)
		return
	}

	ip := m.Register[REG_EIP]
	if ip < 0 || ip/WORD_SIZE > int32(m.Store.Count()) {
		err = errors.Join(ErrPc, ErrTarget(ip))
	}

	return
}
