package cpu

import (
	"fmt"
	"regexp"
	"strconv"
)

// Operand is a decoded instruction operand. It is one of RegisterOperand,
// MemoryOperand, ConstOperand or InvalidOperand.
type Operand interface {
	fmt.Stringer
	operand()
}

// RegisterOperand names a register, as in %EAX.
type RegisterOperand struct {
	Reg Register
}

// MemoryOperand addresses the data word at Reg + Offset, as in -8(%EBP).
type MemoryOperand struct {
	Reg    Register
	Offset int32
}

// ConstOperand is an immediate value, as in $10.
type ConstOperand struct {
	Value int32
}

// InvalidOperand is any token that does not decode to one of the other kinds.
type InvalidOperand struct{}

func (RegisterOperand) operand() {}
func (MemoryOperand) operand()   {}
func (ConstOperand) operand()    {}
func (InvalidOperand) operand()  {}

func (op RegisterOperand) String() string {
	return op.Reg.String()
}

func (op MemoryOperand) String() string {
	if op.Offset == 0 {
		return fmt.Sprintf("(%v)", op.Reg)
	}
	return fmt.Sprintf("%d(%v)", op.Offset, op.Reg)
}

func (op ConstOperand) String() string {
	return fmt.Sprintf("$%d", op.Value)
}

func (op InvalidOperand) String() string {
	return "<invalid>"
}

var (
	// Leading decimal of a constant, following the C atoi() rules.
	constPrefix = regexp.MustCompile(`^[+-]?[0-9]+`)
	// [OFFSET](REGISTER)
	memoryForm = regexp.MustCompile(`^([+-]?[0-9]*)\(([^()]*)\)$`)
)

// DecodeOperand decodes an operand token. Register spellings take priority,
// then the '$' constant sigil, then the parenthesized memory form. Anything
// else is an InvalidOperand.
func DecodeOperand(token string) Operand {
	if reg, ok := LookupRegister(token); ok {
		return RegisterOperand{Reg: reg}
	}

	if len(token) > 0 && token[0] == CONSTANT_SIGIL {
		value, ok := parseConst(token[1:])
		if !ok {
			return InvalidOperand{}
		}
		return ConstOperand{Value: value}
	}

	match := memoryForm.FindStringSubmatch(token)
	if match == nil {
		return InvalidOperand{}
	}

	reg, ok := LookupRegister(match[2])
	if !ok {
		return InvalidOperand{}
	}

	var offset int32
	if len(match[1]) != 0 {
		v64, err := strconv.ParseInt(match[1], 10, 32)
		if err != nil {
			return InvalidOperand{}
		}
		offset = int32(v64)
	}

	return MemoryOperand{Reg: reg, Offset: offset}
}

// parseConst converts the text after a '$' sigil. Only the leading signed
// decimal is significant and a missing number reads as zero. Values wider than
// 32 bits are truncated; values wider than 64 bits are rejected.
func parseConst(text string) (value int32, ok bool) {
	digits := constPrefix.FindString(text)
	if len(digits) == 0 {
		return 0, true
	}

	v64, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return int32(v64), true
}
