package cpu

const (
	WORD_SIZE     = 4    // Bytes per data word and per instruction slot.
	MEMORY_SIZE   = 1024 // Default data words and instruction slots.
	STACK_RESERVE = 256  // ESP and EBP start this far below MEMORY_SIZE.
)

// Program is the instruction store. Slot n holds Lines[n] and lives at byte
// address n*WORD_SIZE. It is written once by the Loader.
type Program struct {
	Capacity int      // Number of instruction slots; 0 means MEMORY_SIZE.
	Lines    []string // Populated slots.
	Source   []int    // Source line number of each populated slot, if known.
}

// NewProgram creates a program store holding the given normalized lines.
func NewProgram(capacity int, lines ...string) (prog *Program) {
	prog = &Program{
		Capacity: capacity,
		Lines:    lines,
	}

	return
}

// Slots returns the capacity of the instruction store.
func (prog *Program) Slots() int {
	if prog.Capacity <= 0 {
		return MEMORY_SIZE
	}
	return prog.Capacity
}

// Count returns the number of populated slots.
func (prog *Program) Count() int {
	return len(prog.Lines)
}

// Line returns the text stored in a slot.
func (prog *Program) Line(index int) (line string, ok bool) {
	if index < 0 || index >= len(prog.Lines) {
		return
	}

	return prog.Lines[index], true
}

// LineNo returns the source line of a slot, or 0 when unknown.
func (prog *Program) LineNo(index int) int {
	if index < 0 || index >= len(prog.Source) {
		return 0
	}
	return prog.Source[index]
}

// Label resolves a label reference to the byte address of the slot after
// the matching label definition line.
//
// A token without the '.' sigil is ErrLabelInvalid; a well formed label with
// no definition is ErrLabelMissing.
func (prog *Program) Label(token string) (addr int32, err error) {
	if len(token) == 0 || token[0] != LABEL_SIGIL {
		err = ErrLabelInvalid
		return
	}

	for n, line := range prog.Lines {
		if line == token {
			addr = int32((n + 1) * WORD_SIZE)
			return
		}
	}

	err = ErrLabelMissing(token)
	return
}

// ValidTarget reports whether addr is a byte address inside the instruction store.
func (prog *Program) ValidTarget(addr int64) bool {
	return addr >= 0 && addr <= int64(prog.Slots()-1)*WORD_SIZE
}
