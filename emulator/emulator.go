// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ezrec/x86lite/cpu"
	"github.com/ezrec/x86lite/internal"
)

const (
	MEMORY_SIZE = cpu.MEMORY_SIZE // Data words and instruction slots.
)

var _emulator_defines = map[string]string{
	"INSTRUCTION_SLOTS": fmt.Sprintf("%d", MEMORY_SIZE),
}

// Emulator state. Machine + loaded program + run controls.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	Strict       bool         // If set, instruction errors stop the run.
	StepLimit    int          // Maximum instructions per run; 0 is unbounded.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently loaded program.

	Steps int // Instructions executed since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(MEMORY_SIZE),
		Program: &cpu.Program{Capacity: MEMORY_SIZE},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Loader returns a program loader sized for this emulator, with the
// emulator defines available to $(...) expressions.
func (emu *Emulator) Loader(fs afero.Fs) (ld *cpu.Loader) {
	ld = &cpu.Loader{
		Verbose:  emu.Verbose,
		Log:      emu.Machine.Log,
		Fs:       fs,
		Capacity: len(emu.Machine.Memory),
	}
	for key, value := range emu.Defines() {
		ld.Predefine(key, value)
	}
	return
}

// Load parses program text and installs it as the current program.
func (emu *Emulator) Load(input io.Reader) (err error) {
	prog, err := emu.Loader(nil).Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadFile reads a program file from fs and installs it as the current program.
func (emu *Emulator) LoadFile(fs afero.Fs, name string) (err error) {
	prog, err := emu.Loader(fs).LoadFile(name)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the machine, and install the current program in its instruction store.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = false

	emu.Machine.Store = emu.Program
	emu.Machine.Reset()
	emu.Steps = 0

	emu.Machine.Verbose = emu.Verbose

	return
}

// logger returns the machine's logger, or the standard logger.
func (emu *Emulator) logger() *logrus.Logger {
	if emu.Machine.Log != nil {
		return emu.Machine.Log
	}
	return logrus.StandardLogger()
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Machine.Register[cpu.REG_EIP])
}

// slot returns the instruction slot index addressed by EIP, or -1.
func (emu *Emulator) slot() int {
	ip := emu.Ip()
	if ip < 0 {
		return -1
	}
	return ip / cpu.WORD_SIZE
}

// LineNo returns the source line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.slot())
}

// Line returns the program text of the executing instruction.
func (emu *Emulator) Line() string {
	line, _ := emu.Program.Line(emu.slot())
	return line
}

// Tick performs a single tick of the emulator.
//
// done is set once the END marker is reached. Instruction errors are only
// returned in Strict mode; otherwise execution continues at the next slot.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	line := emu.Line()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if emu.StepLimit > 0 && emu.Steps >= emu.StepLimit {
		// END is not a step, so reaching it is never over the limit.
		inst, ferr := emu.Machine.Fetch()
		if ferr == nil && inst.Op == cpu.OP_END {
			done = true
			return
		}
		err = ErrStepLimit
		return
	}

	result, err := emu.Machine.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	emu.Steps++

	if result != nil && emu.Strict {
		err = result
		return
	}

	return
}

// Run ticks the emulator until the END marker, or an error.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		emu.logger().WithFields(logrus.Fields{
			"steps": emu.Steps,
			"ip":    emu.Ip(),
		}).Info("emulator: halted")
	}

	return
}
