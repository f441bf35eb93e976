package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/arcsim/arc/cpu"
	"github.com/arcsim/arc/emulator"
	"github.com/arcsim/arc/io"
	"github.com/arcsim/arc/mem"
)

// parseMemSize converts a size argument with a KB or MB suffix to
// bytes. A bare number is bytes.
func parseMemSize(text string) (size uint32, err error) {
	text = strings.TrimSpace(text)
	upper := strings.ToUpper(text)

	multiplier := uint64(1)
	digits := upper
	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		digits = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		digits = upper[:len(upper)-2]
	}

	value, err := strconv.ParseUint(strings.TrimSpace(digits), 10, 32)
	if err != nil {
		err = fmt.Errorf("invalid memory size %q", text)
		return
	}

	total := value * multiplier
	if total < uint64(mem.SIZE_MIN) || total > uint64(mem.SIZE_MAX) {
		err = fmt.Errorf("memory size %q out of range (64KB to 8MB)", text)
		return
	}

	size = uint32(total)
	return
}

func main() {
	var memSize string
	var listing bool
	var verbose bool

	flag.StringVar(&memSize, "m", "64KB", "Memory size (64KB to 8MB)")
	flag.BoolVar(&listing, "l", false, "Print the disassembly listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one program path, got: %v", os.Args[0], flag.Args())
	}
	path := flag.Arg(0)

	size, err := parseMemSize(memSize)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	emu, err := emulator.NewEmulator(size)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Verbose = verbose
	emu.Attach(
		&io.Stream{Input: os.Stdin, Output: os.Stdout},
		&io.Stream{Input: os.Stdin, Output: os.Stdout},
	)

	image, err := emu.Assemble(string(src))
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if listing {
		fmt.Print(image.String())
		return
	}

	err = emu.Load(image)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	state, err := emu.Run(nil)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if verbose || state != cpu.STATE_HALTED {
		fmt.Print(emu.String())
	}
}
