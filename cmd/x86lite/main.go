// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/tebeka/atexit"

	"github.com/ezrec/x86lite/emulator"
)

func main() {
	var program string
	var strict bool
	var steps int
	var dump bool
	var verbose bool

	flag.StringVar(&program, "f", "", "program file to run")
	flag.BoolVar(&strict, "strict", false, "Stop on the first instruction error")
	flag.IntVar(&steps, "n", 0, "Maximum instructions to execute (0 is unbounded)")
	flag.BoolVar(&dump, "dump", false, "Print machine state after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(program) == 0 {
		flag.Usage()
		atexit.Exit(2)
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict
	emu.StepLimit = steps

	err := emu.LoadFile(afero.NewOsFs(), program)
	if err != nil {
		atexit.Fatalf("%v", err)
	}

	if dump {
		atexit.Register(func() {
			fmt.Println(emu.Machine.Table())
		})
	}

	err = emu.Reset()
	if err != nil {
		atexit.Fatalf("%v: %v", program, err)
	}

	err = emu.Run()
	if err != nil {
		logrus.WithField("ip", emu.Ip()).Error(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
