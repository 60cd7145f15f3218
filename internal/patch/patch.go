// Package patch holds the fixed byte blobs that per-player check
// functions splice into a scanned image, and the small set of
// application primitives (poke, fill, replace) those checks use. Every
// blob below is copied byte-for-byte from the matching aPatch* array in
// original_source/tools/prg2sid/p2s.c; only the blobs actually spliced
// by a ported check function in internal/scanner are carried — the
// original declares several more (aPatchPolly1/2, aPatchElcSnd,
// aPatchUbiksM, aPatchMastCm, aPatchPolyAn) for player identities this
// port's scanner registry does not implement, and they are not carried
// here since nothing would ever call them (see DESIGN.md).
package patch

// Blob is an immutable byte sequence spliced into an image at a fixed
// or discovered offset.
type Blob []byte

// Bytes returns a defensive copy of b so callers can freely mutate the
// result (e.g. splicing it into an extrabytes/prepend buffer and poking
// a byte or two afterward) without corrupting the package-level blob.
func (b Blob) Bytes() []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// The aPatch* arrays, verbatim from original_source/tools/prg2sid/p2s.c
// lines 42-53.
var (
	// Sndmon is aPatchSndmon: spliced into SoundMonitor at $C000 to
	// force the song into auto-init mode and fall straight into an RTS
	// instead of arming its own raster IRQ.
	Sndmon = Blob{0xa9, 0x01, 0x8d, 0x0f, 0xc0, 0xa9, 0x00, 0x8d, 0xc6, 0x02, 0x60}

	// Rckmon is aPatchRckmon: the Rockmon-family equivalent, jumping
	// into the driver's own $C012 entry instead of returning.
	Rckmon = Blob{0xa9, 0x01, 0x8d, 0x0f, 0xc0, 0x4c, 0x12, 0xc0}

	// ArneDD is aPatchArneDD: neutralizes Arne/AFL's raster-flag poll
	// at $005b so the "fixed" variant never busy-waits on a vector the
	// PSID host never arms.
	ArneDD = Blob{0xa9, 0x00, 0xea, 0xc9, 0x01, 0xf0, 0x05}

	// DMC4f9 is aPatchDMC4f9: the DMC 4.x vector-table patch applied at
	// the identity-discovered $xxf9 offset.
	DMC4f9 = Blob{0xC8, 0xB1, 0xF8, 0x9D, 0x26, 0x17, 0x60}

	// DblTrk is aPatchDblTrk: Double Tracker's CIA-timer reprogram plus
	// track-pointer fixup, prepended ahead of the relocated $0fd8 entry
	// point.
	DblTrk = Blob{
		0xA9, 0x63, 0x8D, 0x04, 0xDC, 0xA9, 0x26, 0x8D, 0x05, 0xDC,
		0xA9, 0x00, 0x8D, 0xEB, 0x0F, 0x4C, 0x48, 0x10, 0xA9, 0x00,
		0x29, 0x01, 0xAA, 0xEE, 0xEB, 0x0F, 0xBD, 0xFB, 0x0F, 0x8D,
		0xF9, 0x0F, 0x4C, 0x21, 0x10, 0x21, 0x00, 0x00, 0x00, 0x00,
	}

	// Mssiah is aPatchMssiah: the full CIA/raster re-init trampoline the
	// Mssiah driver needs once its song data is relocated under a PSID
	// host instead of its own cartridge boot code.
	Mssiah = Blob{
		0x78, 0xA9, 0x35, 0x85, 0x01, 0x20, 0x1C, 0x5F, 0x20, 0xF3,
		0x5E, 0xA9, 0x00, 0x8D, 0x0E, 0xDC, 0x8D, 0x0F, 0xDC, 0x8D,
		0x19, 0xD0, 0x8D, 0x1A, 0xD0, 0xA9, 0x7F, 0x8D, 0x0D, 0xDC,
		0xA9, 0x81, 0x8D, 0x0D, 0xDC, 0xA9, 0x94, 0x8D, 0xFE, 0xFF,
		0xA9, 0x5F, 0x8D, 0xFF, 0xFF, 0xA9, 0xA4, 0x8D, 0xFA, 0xFF,
		0xA9, 0x5F, 0x8D, 0xFB, 0xFF, 0xA9, 0xF6, 0x2C, 0x5A, 0x71,
		0x30, 0x02, 0xA9, 0xAC, 0x8D, 0x04, 0xDC, 0xA9, 0x07, 0x8D,
		0x05, 0xDC, 0xA9, 0x11, 0x8D, 0x0E, 0xDC, 0xA9, 0x1B, 0x8D,
		0x11, 0xD0, 0x58, 0x20, 0x95, 0x5E, 0x60, 0, 0, 0, 0,
	}
)

// Poke describes a single-byte overwrite at a check-discovered offset.
type Poke struct {
	Offset int
	Value  byte
}

const (
	// OpRTS stubs a subroutine out entirely.
	OpRTS = 0x60
	// OpNOP disarms a single instruction in place.
	OpNOP = 0xEA
)

// Apply writes p's offset/value pairs into buf, bounds-checked so a
// check function's assumptions about image layout can never panic the
// scanner on a truncated or unusual file.
func Apply(buf []byte, pokes ...Poke) {
	for _, p := range pokes {
		if p.Offset >= 0 && p.Offset < len(buf) {
			buf[p.Offset] = p.Value
		}
	}
}

// Replace copies blob into buf starting at offset, clamped to fit if
// buf is shorter than offset+len(blob) — defensive, mirrors Apply's
// bounds discipline; the original's unchecked memmove(p+j,...) can
// never run off either end of a Go slice this way.
func Replace(buf []byte, offset int, blob Blob) {
	if offset < 0 || offset >= len(buf) {
		return
	}
	copy(buf[offset:], blob)
}

// Fill overwrites buf[offset:offset+length] with value, clamped to
// buf's bounds. This is the bounds-checked equivalent of the original's
// memset(p+k, value, length) calls (e.g. Chk_StarBars' large-range
// NOP/RTS/zero fills).
func Fill(buf []byte, offset, length int, value byte) {
	if offset < 0 || length <= 0 {
		return
	}
	end := offset + length
	if offset >= len(buf) {
		return
	}
	if end > len(buf) {
		end = len(buf)
	}
	for i := offset; i < end; i++ {
		buf[i] = value
	}
}
