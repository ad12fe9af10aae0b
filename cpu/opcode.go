package cpu

import (
	"strings"
)

// Mnemonic is the decoded instruction kind.
//
//go:generate go tool stringer -linecomment -type=Mnemonic
type Mnemonic int

// OP_NOP also stands for any unrecognized mnemonic.
const (
	OP_NOP   = Mnemonic(0)  // NOP
	OP_MOVL  = Mnemonic(1)  // MOVL
	OP_ADDL  = Mnemonic(2)  // ADDL
	OP_PUSHL = Mnemonic(3)  // PUSHL
	OP_POPL  = Mnemonic(4)  // POPL
	OP_CMPL  = Mnemonic(5)  // CMPL
	OP_JMP   = Mnemonic(6)  // JMP
	OP_JE    = Mnemonic(7)  // JE
	OP_JNE   = Mnemonic(8)  // JNE
	OP_JL    = Mnemonic(9)  // JL
	OP_JG    = Mnemonic(10) // JG
	OP_CALL  = Mnemonic(11) // CALL
	OP_RET   = Mnemonic(12) // RET
	OP_END   = Mnemonic(13) // END
)

// mnemonicMap maps instruction names to their kind.
var mnemonicMap = map[string]Mnemonic{
	"MOVL":  OP_MOVL,
	"ADDL":  OP_ADDL,
	"PUSHL": OP_PUSHL,
	"POPL":  OP_POPL,
	"CMPL":  OP_CMPL,
	"JMP":   OP_JMP,
	"JE":    OP_JE,
	"JNE":   OP_JNE,
	"JL":    OP_JL,
	"JG":    OP_JG,
	"CALL":  OP_CALL,
	"RET":   OP_RET,
	"END":   OP_END,
}

// IsJump returns true for the unconditional and conditional jumps.
func (op Mnemonic) IsJump() bool {
	return op >= OP_JMP && op <= OP_JG
}

// Instruction is a tokenized instruction line.
type Instruction struct {
	Op   Mnemonic  // Decoded kind.
	Name string    // Mnemonic as written.
	Args [2]string // Operand tokens; absent operands are empty.
}

// Decode tokenizes an instruction line into at most three fields. Fields
// after the third are ignored.
func Decode(line string) (inst Instruction) {
	words := strings.Fields(line)

	if len(words) > 0 {
		inst.Name = words[0]
		inst.Op = mnemonicMap[words[0]]
	}
	for n := range inst.Args {
		if len(words) > n+1 {
			inst.Args[n] = words[n+1]
		}
	}

	return
}

// String returns the instruction in program text form.
func (inst Instruction) String() string {
	words := []string{inst.Name}
	for _, arg := range inst.Args {
		if len(arg) > 0 {
			words = append(words, arg)
		}
	}
	return strings.Join(words, " ")
}
