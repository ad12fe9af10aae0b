package cpu

// Register identifies one of the six machine registers.
type Register int

const (
	REG_EAX = Register(0) // %EAX
	REG_EDX = Register(1) // %EDX
	REG_ECX = Register(2) // %ECX
	REG_ESP = Register(3) // %ESP
	REG_EBP = Register(4) // %EBP
	REG_EIP = Register(5) // %EIP

	REG_COUNT = 6 // Number of addressable registers.
)

const (
	REGISTER_SIGIL = '%'
	CONSTANT_SIGIL = '$'
	LABEL_SIGIL    = '.'
)

var registerName = [REG_COUNT]string{
	REG_EAX: "%EAX",
	REG_EDX: "%EDX",
	REG_ECX: "%ECX",
	REG_ESP: "%ESP",
	REG_EBP: "%EBP",
	REG_EIP: "%EIP",
}

// registerMap maps the register spellings to their identity.
var registerMap = map[string]Register{
	"%EAX": REG_EAX,
	"%EDX": REG_EDX,
	"%ECX": REG_ECX,
	"%ESP": REG_ESP,
	"%EBP": REG_EBP,
	"%EIP": REG_EIP,
}

// LookupRegister returns the register named by its sigil spelling.
func LookupRegister(name string) (reg Register, ok bool) {
	reg, ok = registerMap[name]
	return
}

// Registers returns all register identities in encoding order.
func Registers() []Register {
	return []Register{REG_EAX, REG_EDX, REG_ECX, REG_ESP, REG_EBP, REG_EIP}
}

func (reg Register) String() string {
	if reg < 0 || int(reg) >= REG_COUNT {
		return "%???"
	}
	return registerName[reg]
}
