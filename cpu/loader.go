// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// END_MARKER is the program text that halts execution.
const END_MARKER = "END"

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"WORD_SIZE":     fmt.Sprintf("%d", WORD_SIZE),
	"MEMORY_SIZE":   fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_RESERVE": fmt.Sprintf("%d", STACK_RESERVE),
}

// exprRe finds $(...) compile-time expressions, allowing one level of
// nested parentheses.
var exprRe = regexp.MustCompile(`\$\((?:[^()$]|\([^()$]*\))*\)`)

// Loader reads program text into the instruction store.
//
// A $(...) expression becomes a $N constant, or a bare N memory offset when
// it is immediately followed by '(', as in $(2*WORD_SIZE)(%EBP).
type Loader struct {
	Verbose  bool           // If set, verbosely logs the loader actions.
	Log      *logrus.Logger // Logger for verbose output; nil uses the standard logger.
	Fs       afero.Fs       // Filesystem for LoadFile; nil uses the OS filesystem.
	Capacity int            // Instruction slots; 0 means MEMORY_SIZE.

	predefine map[string]string
	Equate    map[string]string // Equates visible to $(...) expressions.
}

// Predefine defines a new equate or redefines an existing equate.
func (ld *Loader) Predefine(equ string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{equ: value}
	} else {
		ld.predefine[equ] = value
	}
}

func (ld *Loader) logger() *logrus.Logger {
	if ld.Log != nil {
		return ld.Log
	}
	return logrus.StandardLogger()
}

// Normalize trims a line and collapses runs of blanks to a single space.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// parenEval does compile-time $(...) evaluations
func (ld *Loader) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range ld.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Only integer equates are visible.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), ErrExpressionResult)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// expand replaces each $(...) expression in a line with its value.
func (ld *Loader) expand(line string, lineno int) (out string, err error) {
	ld.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	var text strings.Builder
	last := 0
	for _, loc := range exprRe.FindAllStringIndex(line, -1) {
		var value int32
		value, err = ld.parenEval(line[loc[0]+2 : loc[1]-1])
		if err != nil {
			return
		}

		text.WriteString(line[last:loc[0]])
		if loc[1] < len(line) && line[loc[1]] == '(' {
			// Offset of a memory operand.
			fmt.Fprintf(&text, "%d", value)
		} else {
			fmt.Fprintf(&text, "%c%d", CONSTANT_SIGIL, value)
		}
		last = loc[1]
	}
	text.WriteString(line[last:])

	out = text.String()
	return
}

// Parse reads program text into a Program.
//
// Each line is expanded and normalized. Blank lines are dropped. Loading
// stops after the END marker, or when the instruction store is full.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	ld.Equate = maps.Clone(sysEquate)
	for attr, val := range ld.predefine {
		ld.Equate[attr] = val
	}

	prog = &Program{Capacity: ld.Capacity}
	slots := prog.Slots()

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if ld.Verbose {
			ld.logger().WithField("line", lineno).Debug(line)
		}

		var text string
		text, err = ld.expand(line, lineno)
		if err != nil {
			return
		}

		text = Normalize(text)
		if len(text) == 0 {
			continue
		}

		if prog.Count() == slots {
			if ld.Verbose {
				ld.logger().WithField("line", lineno).Warn(ErrProgramFull)
			}
			break
		}

		prog.Lines = append(prog.Lines, text)
		prog.Source = append(prog.Source, lineno)

		if text == END_MARKER {
			break
		}
	}

	err = scanner.Err()
	return
}

// LoadFile reads a program from a file in the loader's filesystem.
func (ld *Loader) LoadFile(name string) (prog *Program, err error) {
	fs := ld.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	inf, err := fs.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = ld.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
	}
	return
}
