// Command sf2pack relocates a SID Factory II driver's 6502 code to a
// new load address and zero-page base, then wraps the result as a
// PSID v2 file.
//
// Usage:
//
//	sf2pack input.sf2 output.sid [--address ADDR] [--zp ZP]
//	        [--title T] [--author A] [--copyright C] [-v|--verbose]
//
// ADDR defaults to $1000, ZP defaults to $02. The driver's own layout
// (code starting at $0D7E, 0x800 bytes, built against zero page base
// $02, init at offset 0, play at offset 3) is fixed: it describes the
// SID Factory II driver, not a configurable option.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sidtools/sidm2conv/internal/mem"
	"github.com/sidtools/sidm2conv/internal/psidio"
	"github.com/sidtools/sidm2conv/internal/relocate"
)

// Fixed layout of the SID Factory II driver within its own image.
const (
	driverTop     = 0x0D7E
	driverSize    = 0x0800
	currentZPBase = 0x02
	initOffset    = 0
	playOffset    = 3
)

const (
	exitOK    = 0
	exitError = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sf2pack", flag.ContinueOnError)
	address := fs.String("address", "$1000", "target load address")
	zp := fs.String("zp", "$02", "target zero page base")
	title := fs.String("title", "", "song title")
	author := fs.String("author", "", "song author")
	copyright := fs.String("copyright", "", "song copyright/released")
	verbose := fs.Bool("v", false, "verbose output")
	fs.BoolVar(verbose, "verbose", false, "verbose output")
	fs.SetOutput(os.Stderr)

	// Options may come before, between or after the two file names: parse
	// flags, take the next positional argument, and parse again.
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return exitError
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sf2pack input.sf2 output.sid [--address ADDR] [--zp ZP] [--title T] [--author A] [--copyright C] [-v]")
		return exitError
	}

	targetAddr, err := parseHex16(*address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sf2pack: bad --address %q: %v\n", *address, err)
		return exitError
	}
	targetZP, err := parseHex16(*zp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sf2pack: bad --zp %q: %v\n", *zp, err)
		return exitError
	}

	raw, err := os.ReadFile(rest[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "sf2pack:", err)
		return exitError
	}

	var m mem.Memory
	if err := m.LoadPRG(raw); err != nil {
		fmt.Fprintln(os.Stderr, "sf2pack:", err)
		return exitError
	}

	cfg := relocate.Config{
		DriverTop:      driverTop,
		DriverSize:     driverSize,
		CurrentZPBase:  currentZPBase,
		TargetZPBase:   byte(targetZP),
		TargetLoadAddr: targetAddr,
	}

	out, stats, err := relocate.Relocate(&m, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sf2pack:", err)
		return exitError
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "sf2pack: relocated %d absolute and %d zero-page operands\n",
			stats.RelocatedAbsolute, stats.RelocatedZeroPage)
	}

	payload := out[2:]
	h := psidio.NewHeader()
	h.SetInitPlay(targetAddr+initOffset, targetAddr+playOffset)
	h.SetSongs(1, 1)
	if title != nil && *title != "" {
		h.SetTitle(*title)
	}
	if author != nil && *author != "" {
		h.SetAuthor(*author)
	}
	if copyright != nil && *copyright != "" {
		h.SetReleased(*copyright)
	}

	of, err := os.Create(rest[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "sf2pack:", err)
		return exitError
	}
	defer of.Close()

	if _, err := psidio.Write(of, h, out[:2], payload); err != nil {
		fmt.Fprintln(os.Stderr, "sf2pack:", err)
		return exitError
	}

	fmt.Fprintf(os.Stdout, "%s: relocated to $%04X, zp $%02X\n", rest[1], targetAddr, byte(targetZP))
	return exitOK
}

func parseHex16(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
