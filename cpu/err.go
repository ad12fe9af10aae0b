package cpu

import (
	"errors"

	"github.com/ezrec/x86lite/translate"
)

var f = translate.From

var (
	// Execution result classes.
	ErrInstruction = errors.New(f("instruction error"))
	ErrMemory      = errors.New(f("memory error"))
	ErrPc          = errors.New(f("program counter error"))

	// Fetch loop
	ErrHalted   = errors.New(f("halted"))
	ErrIpRange  = errors.New(f("ip outside of program"))
	ErrIpUnused = errors.New(f("ip at unpopulated slot"))

	// Operand details, joined onto ErrInstruction.
	ErrOperandInvalid  = errors.New(f("operand invalid"))
	ErrOperandConst    = errors.New(f("constant destination"))
	ErrOperandMemory   = errors.New(f("memory to memory"))
	ErrOpcodeCondition = errors.New(f("jump condition unknown"))

	// Label resolution
	ErrLabelInvalid = errors.New(f("label invalid"))

	// Loader errors
	ErrProgramFull      = errors.New(f("program exceeds instruction store"))
	ErrExpressionResult = errors.New(f("expression is not an integer"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrAddress reports an effective address outside of data memory.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %d out of range", int64(ea))
}

// ErrTarget reports a control transfer target outside of the instruction store.
type ErrTarget int64

func (et ErrTarget) Error() string {
	return f("target %d out of range", int64(et))
}

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

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
