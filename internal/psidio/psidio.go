// Package psidio builds and writes the 124-byte PSID/RSID header and the
// file body that follows it (optional prepend bytes, then the PRG
// payload). Field layout and defaults follow spec.md §3, grounded on
// original_source/tools/sf2pack/psidfile.cpp and the psidh[] default
// buffer in original_source/tools/prg2sid/p2s.c.
package psidio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the fixed PSID/RSID header length.
const HeaderSize = 124

// Field offsets within the header, named after p2s.c's P_* constants.
const (
	offMagic     = 0x00
	offVersion   = 0x04
	offDataOff   = 0x06
	offLoadAddr  = 0x08
	offInitAddr  = 0x0A
	offPlayAddr  = 0x0C
	offSongCount = 0x0E
	offStartSong = 0x10
	offSpeed     = 0x12
	offTitle     = 0x16
	offAuthor    = 0x36
	offReleased  = 0x56
	offFlags     = 0x76
	offStartPage = 0x78
	offPageLen   = 0x79
	offSecondSID = 0x7A
	offThirdSID  = 0x7B
)

// ErrAlreadyPSID is returned when the input already carries a PSID/RSID
// magic: converting it again would double-wrap the file.
var ErrAlreadyPSID = errors.New("psidio: input is already a PSID/RSID file")

// Header is the 124-byte PSID/RSID header, held as a byte buffer so
// multi-byte fields can be written big-endian in place exactly as
// spec.md §3 describes, rather than via a padded/aligned Go struct.
type Header [HeaderSize]byte

// NewHeader returns a header pre-populated with the spec's defaults:
// "PSID" magic, version 2, data offset 0x7C, 1 song starting at 1,
// title/author/released placeholders, and flags 0x0014 (6581 + PAL).
func NewHeader() *Header {
	h := &Header{}
	copy(h[offMagic:], "PSID")
	binary.BigEndian.PutUint16(h[offVersion:], 0x0002)
	binary.BigEndian.PutUint16(h[offDataOff:], 0x007C)
	binary.BigEndian.PutUint16(h[offSongCount:], 1)
	binary.BigEndian.PutUint16(h[offStartSong:], 1)
	binary.BigEndian.PutUint16(h[offFlags:], 0x0014)
	copy(h[offTitle:], padString("<?>", 32))
	copy(h[offAuthor:], padString("<?>", 32))
	copy(h[offReleased:], padString("19?? <?>", 32))
	return h
}

func padString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// SetRSID flips the magic from PSID to RSID, as several check functions
// do when a player needs real interrupt setup rather than a JSR-callable
// init/play pair.
func (h *Header) SetRSID() { h[offMagic] = 'R' }

// SetInitPlay writes the init and play addresses, big-endian, at their
// fixed offsets.
func (h *Header) SetInitPlay(initAddr, playAddr uint16) {
	binary.BigEndian.PutUint16(h[offInitAddr:], initAddr)
	binary.BigEndian.PutUint16(h[offPlayAddr:], playAddr)
}

// SetCIATiming sets the low bit of SpeedFlags, signalling CIA-timer
// (rather than raster/VIC) timing to the player host.
func (h *Header) SetCIATiming() { h[offSpeed+3] |= 0x01 }

// SetSIDModel sets the model/region byte (the low byte of Flags): 0x00
// keeps the default (6581 + PAL), callers OR in 0x20 for 8580 and/or
// 0x08 for NTSC, matching p2s.c's P_SIDMODEL bit layout. A nibble left
// at zero keeps its default (0x10 for the model, 0x04 for the region).
func (h *Header) SetSIDModel(flags byte) {
	if flags&0xF0 == 0 {
		flags |= 0x10
	}
	if flags&0x0F == 0 {
		flags |= 0x04
	}
	h[offFlags+1] = flags
}

// SIDModel returns the current model/region byte.
func (h *Header) SIDModel() byte { return h[offFlags+1] }

// SetFreePage records the free-relocation start page and page count a
// player declares as scratch space for the host.
func (h *Header) SetFreePage(startPage, pageLength byte) {
	h[offStartPage] = startPage
	h[offPageLen] = pageLength
}

// SetStereoAddress sets the second-SID address byte (e.g. 0x50 for $D500).
func (h *Header) SetStereoAddress(addr byte) { h[offSecondSID] = addr }

// SetSongs sets the subtune count and default starting song.
func (h *Header) SetSongs(count, start byte) {
	binary.BigEndian.PutUint16(h[offSongCount:], uint16(count))
	binary.BigEndian.PutUint16(h[offStartSong:], uint16(start))
}

// SetTitle, SetAuthor and SetReleased copy a string into the fixed
// 32-byte metadata field, truncating or NUL-padding as needed.
func (h *Header) SetTitle(s string)    { copy(h[offTitle:offTitle+32], padString(s, 32)) }
func (h *Header) SetAuthor(s string)   { copy(h[offAuthor:offAuthor+32], padString(s, 32)) }
func (h *Header) SetReleased(s string) { copy(h[offReleased:offReleased+32], padString(s, 32)) }

// IsPSID reports whether raw begins with a PSID or RSID magic.
func IsPSID(raw []byte) bool {
	if len(raw) < 4 {
		return false
	}
	return (raw[0] == 'P' || raw[0] == 'R') && raw[1] == 'S' && raw[2] == 'I' && raw[3] == 'D'
}

// Write assembles header ∥ prepend ∥ payload and writes it to w.
// prepend's own first two bytes are the effective load address the
// data section starts at (spec.md §4.3) — callers always supply at
// least those two bytes, whether they come from a check's relocation
// stub or are simply the PRG's own embedded load address
// (ScanContext.HeaderLo/HeaderHi) when no check rewrote it. The C64's
// address space ends at 0x10000: when loadAddr plus the combined
// prepend+payload length would run past it, the payload is silently
// truncated to fit, matching original_source/p2s.c's main(). The
// check runs unconditionally — truncation is possible regardless of
// which check (if any) matched, since even an unrelocated Generic
// image can overrun $10000 at a high enough load address.
func Write(w io.Writer, h *Header, prepend, payload []byte) (truncated bool, err error) {
	if len(prepend) < 2 {
		return false, fmt.Errorf("psidio: prepend must carry at least the 2-byte load address, got %d bytes", len(prepend))
	}
	loadAddr := uint16(prepend[0]) | uint16(prepend[1])<<8

	outPayload := payload
	total := int(loadAddr) + len(prepend) + len(payload) - 2
	if total > 0x10000 {
		overflow := total - 0x10000
		if overflow > len(payload) {
			overflow = len(payload)
		}
		outPayload = payload[:len(payload)-overflow]
		truncated = true
	}

	if _, err := w.Write(h[:]); err != nil {
		return truncated, err
	}
	if _, err := w.Write(prepend); err != nil {
		return truncated, err
	}
	if _, err := w.Write(outPayload); err != nil {
		return truncated, err
	}
	return truncated, nil
}
