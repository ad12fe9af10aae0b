package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// runProgram ticks a machine until it halts, collecting the per-instruction
// results. The test fails if the program does not halt within limit ticks.
func runProgram(t *testing.T, m *Machine, limit int) (results []error) {
	for range limit {
		result, err := m.Tick()
		if err == ErrHalted {
			return
		}
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		results = append(results, result)
	}
	t.Fatalf("no END after %d ticks", limit)
	return
}

func newProgramMachine(lines ...string) (m *Machine) {
	m = NewMachine(MEMORY_SIZE)
	m.Store = NewProgram(MEMORY_SIZE, lines...)
	return
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		op   Mnemonic
		args [2]string
	}){
		{"MOVL %EDX %EAX", OP_MOVL, [2]string{"%EDX", "%EAX"}},
		{"ADDL $3 %EAX", OP_ADDL, [2]string{"$3", "%EAX"}},
		{"PUSHL %EBP", OP_PUSHL, [2]string{"%EBP", ""}},
		{"POPL -4(%ESP)", OP_POPL, [2]string{"-4(%ESP)", ""}},
		{"CMPL $0 %ECX", OP_CMPL, [2]string{"$0", "%ECX"}},
		{"JMP .a", OP_JMP, [2]string{".a", ""}},
		{"JE .a", OP_JE, [2]string{".a", ""}},
		{"JNE .a", OP_JNE, [2]string{".a", ""}},
		{"JL .a", OP_JL, [2]string{".a", ""}},
		{"JG .a", OP_JG, [2]string{".a", ""}},
		{"CALL .f", OP_CALL, [2]string{".f", ""}},
		{"RET", OP_RET, [2]string{"", ""}},
		{"END", OP_END, [2]string{"", ""}},
		{"MOVL %EAX %EDX %ECX", OP_MOVL, [2]string{"%EAX", "%EDX"}},
		{"movl %EAX %EDX", OP_NOP, [2]string{"%EAX", "%EDX"}},
		{".label", OP_NOP, [2]string{"", ""}},
		{"", OP_NOP, [2]string{"", ""}},
	}

	for _, entry := range table {
		inst := Decode(entry.line)
		assert.Equal(entry.op, inst.Op, entry.line)
		assert.Equal(entry.args, inst.Args, entry.line)
	}

	assert.Equal("MOVL %EAX %EDX", Decode("MOVL %EAX %EDX %ECX").String())
	assert.Equal("RET", Decode("RET").String())
}

func TestMnemonic_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MOVL", OP_MOVL.String())
	assert.Equal("END", OP_END.String())
	assert.Equal("NOP", OP_NOP.String())
	assert.Equal("Mnemonic(99)", Mnemonic(99).String())
	assert.True(OP_JG.IsJump())
	assert.True(OP_JMP.IsJump())
	assert.False(OP_CALL.IsJump())
}

func TestTick_MoveChain(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"MOVL %EDX %EAX",
		"MOVL %ECX %EDX",
		"END",
	)
	m.Register[REG_EDX] = 5
	m.Register[REG_ECX] = 7

	results := runProgram(t, m, 10)
	assert.Equal([]error{nil, nil}, results)

	assert.Equal(int32(5), m.Register[REG_EAX])
	assert.Equal(int32(7), m.Register[REG_EDX])
	assert.Equal(int32(7), m.Register[REG_ECX])
	assert.Equal(int32(8), m.Register[REG_EIP])
}

func TestTick_Addl(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine("ADDL $3 %EAX", "END")

	results := runProgram(t, m, 10)
	assert.Equal([]error{nil}, results)
	assert.Equal(int32(3), m.Register[REG_EAX])
}

func TestTick_ErrorsAbsorbed(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"MOVL $1 $2",
		"PUSHL %EBX",
		"ADDL $1 %EAX",
		"JMP .nowhere",
		"ADDL $1 %EAX",
		"END",
	)

	results := runProgram(t, m, 10)
	assert.Len(results, 5)
	assert.ErrorIs(results[0], ErrInstruction)
	assert.ErrorIs(results[1], ErrInstruction)
	assert.NoError(results[2])
	assert.ErrorIs(results[3], ErrPc)
	assert.NoError(results[4])

	assert.Equal(int32(2), m.Register[REG_EAX])
	assert.Equal(int32(20), m.Register[REG_EIP])
}

func TestTick_SkipsUnknown(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"NOP",
		"FOO %EAX",
		".label",
		"ADDL $1 %EAX",
		"END",
		"ADDL $1 %EAX",
	)

	results := runProgram(t, m, 10)
	assert.Equal([]error{nil, nil, nil, nil}, results)
	assert.Equal(int32(1), m.Register[REG_EAX])
}

func TestTick_Loop(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"MOVL $3 %ECX",
		"MOVL $0 %EAX",
		".loop",
		"ADDL $2 %EAX",
		"ADDL $-1 %ECX",
		"CMPL $0 %ECX",
		"JG .loop",
		"END",
	)

	runProgram(t, m, 100)
	assert.Equal(int32(6), m.Register[REG_EAX])
	assert.Equal(int32(0), m.Register[REG_ECX])
	assert.Equal(int32(0), m.Cmp)
}

func TestTick_CallReturn(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"MOVL $1 %EAX",
		"CALL .double",
		"CALL .double",
		"END",
		".double",
		"ADDL %EAX %EAX",
		"RET",
	)
	sp := m.Register[REG_ESP]

	results := runProgram(t, m, 100)
	for _, result := range results {
		assert.NoError(result)
	}
	assert.Equal(int32(4), m.Register[REG_EAX])
	assert.Equal(sp, m.Register[REG_ESP])
	assert.Equal(int32(12), m.Register[REG_EIP])
}

func TestTick_StackFrame(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine(
		"PUSHL $40",
		"PUSHL $2",
		"CALL .sum",
		"POPL %ECX",
		"POPL %ECX",
		"END",
		".sum",
		"PUSHL %EBP",
		"MOVL %ESP %EBP",
		"MOVL 8(%EBP) %EAX",
		"ADDL 12(%EBP) %EAX",
		"POPL %EBP",
		"RET",
	)
	base := m.Register[REG_EBP]

	results := runProgram(t, m, 100)
	for _, result := range results {
		assert.NoError(result)
	}
	assert.Equal(int32(42), m.Register[REG_EAX])
	assert.Equal(int32(40), m.Register[REG_ECX])
	assert.Equal(base, m.Register[REG_EBP])
	assert.Equal(base, m.Register[REG_ESP])
}

func TestTick_FetchErrors(t *testing.T) {
	assert := assert.New(t)

	// Running off the end of a program without END.
	m := newProgramMachine("ADDL $1 %EAX")
	result, err := m.Tick()
	assert.NoError(result)
	assert.NoError(err)
	_, err = m.Tick()
	assert.ErrorIs(err, ErrIpUnused)

	m = newProgramMachine("END")
	m.Register[REG_EIP] = -4
	_, err = m.Tick()
	assert.ErrorIs(err, ErrIpRange)

	m = newProgramMachine("END")
	m.Register[REG_EIP] = MEMORY_SIZE * WORD_SIZE
	_, err = m.Tick()
	assert.ErrorIs(err, ErrIpRange)
}

func TestTick_End(t *testing.T) {
	assert := assert.New(t)

	m := newProgramMachine("END")

	for range 3 {
		result, err := m.Tick()
		assert.NoError(result)
		assert.Equal(ErrHalted, err)
		assert.Equal(int32(0), m.Register[REG_EIP])
	}
}
