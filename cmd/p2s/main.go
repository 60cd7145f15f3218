// Command p2s converts a raw C64 PRG music program into a PSID/RSID
// file by fingerprinting its player against a closed catalogue of
// known signatures, applying whatever binary patch that identity
// needs, and writing a 124-byte header ahead of the (possibly
// relocated) payload.
//
// Usage mirrors the original tool's positional argument order. Only
// the filename is required; everything after it is optional and,
// like the original, silently ignored rather than rejected when it
// doesn't parse or falls out of range:
//
//	p2s file.prg [load_addr] [6|8] [P|N] [title] [author] [release] [songs] [startsong]
//	p2s -batch dir
//
// load_addr accepts $hex, 0xhex or decimal; it only takes effect when
// it falls strictly inside the file's own (load, load+size) window, in
// which case the payload is trimmed so load_addr becomes the new
// effective load address. 6/8 selects the SID model (6581/8580); P/N
// selects PAL/NTSC timing. title/author/release are each truncated to
// 32 bytes. songs/startsong, when given and in 1..255, override the
// default of 1/1.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/sidtools/sidm2conv/internal/batch"
	"github.com/sidtools/sidm2conv/internal/prg"
	"github.com/sidtools/sidm2conv/internal/psidio"
	"github.com/sidtools/sidm2conv/internal/scanner"
)

// Exit codes mirror the original tool's: 0 success, 1 usage error,
// 2 input already a PSID/RSID file or input read failure, 4 output I/O
// failure. Exit code 3 (the original's allocation failure) is not used.
const (
	exitOK            = 0
	exitUsage         = 1
	exitAlreadyPSID   = 2
	exitInputFailure  = 2
	exitOutputFailure = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) >= 1 && args[0] == "-batch" {
		if len(args) != 2 {
			usage()
			return exitUsage
		}
		return runBatch(args[1])
	}

	if len(args) < 1 {
		usage()
		return exitUsage
	}

	opts := parseArgs(args)

	out, code := convertFile(opts)
	if code != exitOK {
		return code
	}
	fmt.Fprintln(os.Stdout, out)
	return exitOK
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: p2s file.prg [load_addr] [6|8] [P|N] [title] [author] [release] [songs] [startsong]")
	fmt.Fprintln(os.Stderr, "       p2s -batch dir")
}

type options struct {
	path      string
	loadAddr  int // -1 = not supplied/unparseable; range-checked against the file in convertFile
	sidModel  byte // 0x00 = 6581, 0x20 = 8580
	ntsc      bool
	title     string
	author    string
	released  string
	songs     byte
	startSong byte
}

// parseArgs mirrors the original main()'s argc>N tolerance: every
// parameter past the filename is optional, and an out-of-range or
// unparseable value is silently ignored rather than rejected, exactly
// like p2s.c's own argument handling.
func parseArgs(args []string) options {
	o := options{loadAddr: -1, songs: 1, startSong: 1}
	o.path = args[0]

	if len(args) > 1 && len(args[1]) > 2 {
		if addr, ok := parseAddr(args[1]); ok {
			o.loadAddr = int(addr)
		}
	}

	if len(args) > 2 && len(args[2]) > 0 {
		if args[2][0] == '8' {
			o.sidModel = 0x20
		}
	}

	if len(args) > 3 && len(args[3]) > 0 {
		if strings.ToUpper(args[3])[0] == 'N' {
			o.ntsc = true
		}
	}

	if len(args) > 4 && len(args[4]) > 0 {
		o.title = truncate32(args[4])
	}
	if len(args) > 5 && len(args[5]) > 0 {
		o.author = truncate32(args[5])
	}
	if len(args) > 6 && len(args[6]) > 0 {
		o.released = truncate32(args[6])
	}
	if len(args) > 7 && len(args[7]) > 0 {
		if n, err := strconv.Atoi(args[7]); err == nil && n > 0 && n < 256 {
			o.songs = byte(n)
		}
	}
	if len(args) > 8 && len(args[8]) > 0 {
		if n, err := strconv.Atoi(args[8]); err == nil && n > 0 && n < 256 {
			o.startSong = byte(n)
		}
	}
	return o
}

// parseAddr accepts $hex, 0xhex or decimal, reporting ok=false on any
// parse failure so the caller can silently discard it.
func parseAddr(s string) (uint16, bool) {
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s = s[1:]
		base = 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
		base = 16
	}
	n, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

func truncate32(s string) string {
	if len(s) > 32 {
		return s[:32]
	}
	return s
}

// convertFile performs one file's full conversion and returns a
// one-line summary plus an exit code.
func convertFile(o options) (string, int) {
	raw, err := os.ReadFile(o.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2s:", err)
		return "", exitInputFailure
	}
	if psidio.IsPSID(raw) {
		fmt.Fprintln(os.Stderr, "p2s:", psidio.ErrAlreadyPSID)
		return "", exitAlreadyPSID
	}
	im, err := prg.Parse(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2s:", err)
		return "", exitInputFailure
	}

	// A CLI load_addr only takes effect strictly inside (load, load+size);
	// out of that window it is the AddressOutOfRange case and is ignored,
	// exactly like p2s.c's own argc>2 branch.
	if o.loadAddr >= 0 {
		lo := int(im.Load)
		hi := lo + im.Len() - 2
		if o.loadAddr > lo && o.loadAddr < hi {
			trim := o.loadAddr - lo
			im.Payload = im.Payload[trim:]
			im.Load = uint16(o.loadAddr)
		}
	}

	ctx := scanner.Scan(im.Payload, im.Load)

	h := psidio.NewHeader()
	h.SetInitPlay(ctx.InitAddr, ctx.PlayAddr)
	if o.title != "" {
		h.SetTitle(o.title)
	}
	if o.author != "" {
		h.SetAuthor(o.author)
	}
	if o.released != "" {
		h.SetReleased(o.released)
	}
	h.SetSongs(o.songs, o.startSong)

	model := o.sidModel | ctx.SIDModel
	if o.ntsc {
		model |= 0x08
	}
	h.SetSIDModel(model)
	if ctx.RSID {
		h.SetRSID()
	}
	if ctx.CIATiming {
		h.SetCIATiming()
	}
	if ctx.FreePageLength != 0 {
		h.SetFreePage(ctx.FreeStartPage, ctx.FreePageLength)
	}
	if ctx.StereoAddress != 0 {
		h.SetStereoAddress(ctx.StereoAddress)
	}

	outPath := outputPath(o.path)
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2s:", err)
		return "", exitOutputFailure
	}
	defer f.Close()

	lead := leadBytes(ctx)
	truncated, err := psidio.Write(f, h, lead, ctx.Payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2s:", err)
		return "", exitOutputFailure
	}
	if truncated {
		fmt.Fprintf(os.Stderr, "p2s: warning: %s truncated to fit 64KiB\n", outPath)
	}

	summary := fmt.Sprintf("%s: ID=%s Init=$%04X Play=$%04X", outPath, ctx.Identity, ctx.InitAddr, ctx.PlayAddr)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		summary = colorize(summary)
	}
	return summary, exitOK
}

// leadBytes assembles the bytes that precede ctx.Payload in the
// written file: a matched check's own Prepend (if any), followed by
// the PRG's own embedded load-address bytes (ctx.HeaderLo/HeaderHi)
// unless that check already consumed them (ChkMssiah, which re-homed
// Payload itself past the original header). With no Prepend at all,
// the embedded load address is all that ever precedes the payload.
func leadBytes(ctx *scanner.ScanContext) []byte {
	if ctx.Prepend == nil {
		return []byte{ctx.HeaderLo, ctx.HeaderHi}
	}
	if ctx.HeaderConsumed {
		return ctx.Prepend
	}
	return append(append([]byte{}, ctx.Prepend...), ctx.HeaderLo, ctx.HeaderHi)
}

func colorize(s string) string {
	const green = "\x1b[32m"
	const reset = "\x1b[0m"
	return green + s + reset
}

// outputPath strips whatever extension in follows its last path
// separator (any extension, not just .prg) and appends .sid, matching
// the original's newfile construction.
func outputPath(in string) string {
	dir := strings.LastIndexAny(in, `/\`)
	base := in[dir+1:]
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		in = in[:dir+1+dot]
	}
	return in + ".sid"
}

func runBatch(dir string) int {
	results, err := batch.Run(dir, "*.prg", func(path string) (string, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if psidio.IsPSID(raw) {
			return "", psidio.ErrAlreadyPSID
		}
		im, err := prg.Parse(raw)
		if err != nil {
			return "", err
		}
		ctx := scanner.Scan(im.Payload, im.Load)

		h := psidio.NewHeader()
		h.SetInitPlay(ctx.InitAddr, ctx.PlayAddr)
		h.SetSongs(1, 1)
		h.SetSIDModel(ctx.SIDModel)
		if ctx.RSID {
			h.SetRSID()
		}
		if ctx.CIATiming {
			h.SetCIATiming()
		}
		if ctx.FreePageLength != 0 {
			h.SetFreePage(ctx.FreeStartPage, ctx.FreePageLength)
		}
		if ctx.StereoAddress != 0 {
			h.SetStereoAddress(ctx.StereoAddress)
		}

		out, err := os.Create(outputPath(path))
		if err != nil {
			return "", err
		}
		defer out.Close()
		if _, err := psidio.Write(out, h, leadBytes(ctx), ctx.Payload); err != nil {
			return "", err
		}
		return fmt.Sprintf("ID=%s Init=$%04X Play=$%04X", ctx.Identity, ctx.InitAddr, ctx.PlayAddr), nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2s:", err)
		return exitInputFailure
	}
	if failures := batch.PrintSummary(results); failures > 0 {
		return exitOutputFailure
	}
	return exitOK
}
