// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Fetch decodes the instruction in the slot addressed by EIP.
func (m *Machine) Fetch() (inst Instruction, err error) {
	ip := m.Register[REG_EIP]
	if ip < 0 || int(ip/WORD_SIZE) >= m.Store.Slots() {
		err = errors.Join(ErrIpRange, ErrTarget(ip))
		return
	}

	line, ok := m.Store.Line(int(ip / WORD_SIZE))
	if !ok {
		err = errors.Join(ErrIpUnused, ErrTarget(ip))
		return
	}

	inst = Decode(line)
	return
}

// Execute executes a single decoded instruction, and moves EIP to the next
// instruction to fetch.
//
// The returned error is the executor's result. MOVL, ADDL, PUSHL, POPL and
// CMPL advance EIP by one slot whether or not they succeed; jumps, CALL and
// RET place EIP themselves. Unrecognized mnemonics are skipped. END leaves
// EIP in place.
func (m *Machine) Execute(inst Instruction) (result error) {
	a, b := inst.Args[0], inst.Args[1]

	switch inst.Op {
	case OP_MOVL:
		result = m.Movl(a, b)
		m.advance()
	case OP_ADDL:
		result = m.Addl(a, b)
		m.advance()
	case OP_CMPL:
		result = m.Cmpl(a, b)
		m.advance()
	case OP_PUSHL:
		result = m.Pushl(a)
		m.advance()
	case OP_POPL:
		result = m.Popl(a)
		m.advance()
	case OP_JMP, OP_JE, OP_JNE, OP_JL, OP_JG:
		result = m.Jump(inst.Op, a)
	case OP_CALL:
		result = m.Call(a)
	case OP_RET:
		result = m.Ret()
	case OP_END:
		// halt
	case OP_NOP:
		m.advance()
	default:
		m.advance()
	}

	return
}

// Tick executes a single fetch-decode-execute cycle.
//
// The executor's outcome is returned as result and does not stop execution.
// err is ErrHalted when the END marker is fetched, or the fetch error when
// EIP does not address a populated slot.
func (m *Machine) Tick() (result error, err error) {
	inst, err := m.Fetch()
	if err != nil {
		return
	}

	if m.Verbose {
		m.logger().WithField("op", inst.String()).Debug("cpu: fetch")
	}

	if inst.Op == OP_END {
		err = ErrHalted
		return
	}

	result = m.Execute(inst)

	if m.Verbose && result != nil {
		m.logger().WithFields(logrus.Fields{
			"op":     inst.String(),
			"result": result,
		}).Info("cpu: instruction failed")
	}

	return
}
