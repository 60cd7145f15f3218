// Package scanner fingerprints a loaded PRG image against a closed
// catalogue of known C64 music-player signatures and derives the
// init/play addresses and any patch a particular identity needs.
//
// The catalogue and its check order are grounded on the ScanFunc[]
// dispatch table in original_source/tools/prg2sid/p2s.c: identities
// are tried in the same priority order the original used, first match
// wins, and every check function reads from and writes into a single
// mutable context instead of the original's file-scope globals
// (i, j, k, fsiz, initaddr, playaddr, loadaddr, extra).
package scanner

// ScanContext carries everything a check function needs to read and
// the results it produces. It replaces the original's global variables
// i, j, k (scratch scan cursors), fsiz (payload size), initaddr,
// playaddr, loadaddr and extra (the discovered prepend/extra bytes).
type ScanContext struct {
	// Payload is the PRG body, load address already stripped.
	Payload []byte
	// LoadAddr is the PRG's own load address. A handful of checks
	// (Chk_Mssiah) re-home this mid-check the same way the original
	// re-homes its p/fsiz/loadaddr triple.
	LoadAddr uint16

	// Identity is the matched catalogue name; "Generic" when nothing
	// more specific matched.
	Identity string

	// InitAddr and PlayAddr are the derived entry points. Per the
	// catalogue's shared default, both are pre-seeded before any check
	// runs: InitAddr = LoadAddr, PlayAddr = InitAddr + 3. A handful of
	// checks (see ChkGoatMultispeed) rely on this pre-seeding and
	// only ever overwrite PlayAddr.
	InitAddr uint16
	PlayAddr uint16

	// Prepend holds a stub/trampoline blob to write ahead of the
	// payload (the original's extrabytes[]/extra), or nil.
	Prepend []byte

	// RSID is true when the matched identity needs real interrupt
	// setup rather than a JSR-callable init/play pair (psidh[P_MARKER]
	// flipped to 'R' in the original).
	RSID bool

	// CIATiming is true when the identity needs CIA-timer based
	// playback rather than the default raster/VIC timing
	// (psidh[P_TIMING]=1 in the original).
	CIATiming bool

	// SIDModel carries identity-forced model/region bits (0 = no
	// override), OR'd into the header's flags byte by the caller
	// (psidh[P_SIDMODEL] in the original).
	SIDModel byte

	// FreeStartPage and FreePageLength describe free-relocation
	// scratch space a player declares for the host, when nonzero
	// (psidh[P_FREEPAGE]/psidh[P_FREEPMAX] in the original).
	FreeStartPage  byte
	FreePageLength byte

	// StereoAddress is a nonzero second-SID address byte when the
	// identity is a known stereo player (psidh[P_STEREOAD]).
	StereoAddress byte

	// HeaderLo and HeaderHi are the PRG's own embedded 2-byte load
	// address (raw[0], raw[1]) — excluded from Payload, but still part
	// of the data a handful of checks with a non-rebasing Prepend
	// (ChkMusAss's DoubleTracker branch, Chk4JMPS's DMC4x branch,
	// ChkFC3x's "fixed" branch) poke in place, since the original
	// continues writing p[0..fsiz) — header bytes included — right
	// after its extrabytes prepend. Default-seeded from loadAddr, since
	// that is tautologically what those two bytes always hold.
	HeaderLo byte
	HeaderHi byte

	// HeaderConsumed is true when a check (ChkMssiah) has already
	// re-homed Payload past the original header, so HeaderLo/HeaderHi
	// no longer need to be written ahead of it.
	HeaderConsumed bool
}

// NewContext builds a context with the shared defaults pre-seeded
// exactly as the original's main() does before invoking Scanners().
func NewContext(payload []byte, loadAddr uint16) *ScanContext {
	c := &ScanContext{
		Payload:  payload,
		LoadAddr: loadAddr,
		Identity: "Generic",
		HeaderLo: byte(loadAddr),
		HeaderHi: byte(loadAddr >> 8),
	}
	c.InitAddr = loadAddr
	c.PlayAddr = loadAddr + 3
	return c
}

// AdjustJ is a direct, literal port of the original's same-named
// helper: it converts an absolute 6510 address x (typically a 16-bit
// word read straight out of the payload, e.g. p[3]|p[4]<<8) into the
// same j the original computes — an index into its raw file buffer p,
// whose first two bytes are the load address. It returns x+2-loadAddr
// unchanged; since ctx.Payload already has those leading two bytes
// stripped, callers index ctx.Payload[j-2] wherever the original
// indexes p[j] (Payload[n] == p[n+2]).
func AdjustJ(x int, loadAddr uint16) int {
	return x + 2 - int(loadAddr)
}

// CheckJ is a direct, literal port of the original's same-named helper:
// it reports whether j falls OUTSIDE the file's bounds (true means
// out-of-range), matching the original's inverted "if(!CheckJ(j,fsiz))"
// call convention exactly — callers guard payload access with
// "if !CheckJ(j, fsiz) { ... }", never the other way round. fsiz is the
// whole-file size including the 2-byte header, i.e. len(ctx.Payload)+2.
func CheckJ(j, fsiz int) bool {
	return j < 0 || j > fsiz-1
}

// u32le reads a masked little-endian 32-bit word starting at offset,
// returning 0, false when out of range. This mirrors the dominant
// predicate style in the original's Chk_* family:
// *(unsigned int*)(p+offset) compared against a literal, sometimes
// with a mask applied first.
func u32le(buf []byte, offset int) (uint32, bool) {
	if offset < 0 || offset+4 > len(buf) {
		return 0, false
	}
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 | uint32(buf[offset+3])<<24, true
}

// u16le reads a little-endian 16-bit word, returning 0, false when out
// of range.
func u16le(buf []byte, offset int) (uint16, bool) {
	if offset < 0 || offset+2 > len(buf) {
		return 0, false
	}
	return uint16(buf[offset]) | uint16(buf[offset+1])<<8, true
}

// b reads a single byte, returning 0, false when out of range.
func b(buf []byte, offset int) (byte, bool) {
	if offset < 0 || offset >= len(buf) {
		return 0, false
	}
	return buf[offset], true
}

// CheckFunc inspects ctx.Payload and, on a match, mutates ctx to
// record the identity and its derived addresses/patch, returning true.
// A false return must leave ctx unmodified so later checks in the
// registry see a clean context.
type CheckFunc func(ctx *ScanContext) bool

// Checks is the ordered registry of identity checks, tried first match
// wins, in the same priority order as the original's ScanFunc[] table.
var Checks = []CheckFunc{
	ChkFC,
	ChkFCAlt,
	ChkMusAss,
	ChkMusMix,
	ChkGMC,
	ChkBappalander,
	ChkTrkPl3,
	ChkGroovy,
	ChkParsec,
	ChkSosperec,
	ChkSoedeSoft,
	ChkProsonix1,
	Chk4JMPS,
	ChkHeathcliff,
	Chk3JMPs1,
	ChkArneAFL,
	ChkArneSndMk,
	ChkDigitalizer,
	ChkSoundmon,
	ChkAMP2,
	ChkFC3x,
	ChkMoNJTS,
	ChkMssiah,
	ChkGoatMultispeed,
	ChkFlexSid,
	ChkStarBars,
}

// Scan runs the registry in order and returns the first match,
// falling back to the Generic default (pre-seeded InitAddr/PlayAddr,
// no prepend, no mutation) when nothing matches.
func Scan(payload []byte, loadAddr uint16) *ScanContext {
	ctx := NewContext(payload, loadAddr)
	for _, check := range Checks {
		if check(ctx) {
			return ctx
		}
	}
	return ctx
}

// Identities lists the player names the checks in Checks can report, in
// the original's priority order; several are reported with a suffix
// appended (a sub-version, "(fixed)", a patch address or a speed ratio).
// Catalogue names that no check recognizes are not listed; input of
// those families falls through to Generic.
var Identities = []string{
	"FutureComposer",
	"FutureComposer (altered)",
	"MusicAssembler",
	"DoubleTracker",
	"MusicMixer",
	"GMC/Superiors",
	"Bappalander",
	"Bappalander/SpaceLab",
	"TrackPlayer",
	"GroovyBits v1",
	"GroovyBits v2",
	"Parsec/LoS",
	"Sosperec",
	"Soedesoft v1",
	"Soedesoft v2",
	"Soedesoft v3",
	"Prosonix v1",
	"Prosonix v2",    // shares the 4JMPS dispatcher
	"TFMX/Huelsbeck", // shares the 4JMPS dispatcher
	"Heathcliff v1",  // shares the 4JMPS dispatcher
	"DMC 4.x",        // shares the 4JMPS dispatcher
	"Heathcliff v3",
	"Prosonix v3",    // shares the 3JMPs1 dispatcher
	"Heathcliff v2",  // shares the 3JMPs1 dispatcher
	"Frank Hammer",   // shares the 3JMPs1 dispatcher
	"Arne/AFL",
	"SoundMaker v4/Arne",
	"Digitalizer 2.x",
	"SoundMonitor",
	"DUSAT/RockMon2",
	"DUSAT/RockMon3",
	"DUSAT/RockMon3h",
	"DUSAT/RockMon4",
	"DUSAT/RockMon5",
	"MusicMaster 1.3/BB",
	"BeatBox/KarlXII",
	"Digitronix",
	"AMP 2.x",
	"FutureComposer 3.x",
	"MoN/JTS",
	"Mssiah",
	"GoatTracker+MultiSpeed",
	"FlexSid",
	"FlexSid-Bare",
	"StarBars v1.1",
	"StarBars v1.2",
	"StarBars v1.3beta",
	"StarBars v1.3",
	"Unrecognized / Generic", // not a real catalogue entry, the fallback
}
