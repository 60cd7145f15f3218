// Package relocate implements the Core B instruction walker: a linear
// disassembly pass over a driver's code region that rewrites absolute
// operands by an address delta and zero-page operands by a zero-page
// delta, in place, in the driver's own memory image.
//
// This is deliberately a linear walk, not a disassembler that follows
// branches — it cannot distinguish code from embedded data. Correctness
// relies on the driver image satisfying "code-only in code region" over
// [DriverTop, DriverTop+DriverSize). See original_source/tools/sf2pack/packer_simple.cpp.
package relocate

import (
	"fmt"

	"github.com/sidtools/sidm2conv/internal/mem"
	"github.com/sidtools/sidm2conv/internal/opcode"
)

// ROM/IO region that must never be relocated (SID, VIC, CIA, kernal
// vectors live here on a stock C64 memory map).
const (
	romLo = 0xD000
	romHi = 0xDFFF
)

// DataScanLimit bounds the post-driver data-tail scan; original_source
// scans "up to 0x3000 for safety".
const DataScanLimit = 0x3000

// Config is the Core B driver relocation configuration.
type Config struct {
	DriverTop      uint16
	DriverSize     uint16
	CurrentZPBase  byte
	TargetZPBase   byte
	TargetLoadAddr uint16
}

// ErrMalformedInstruction is returned when the opcode matrix's declared
// size disagrees with what a relocatable addressing mode requires, or
// when an instruction's bytes would run past the end of the walked
// region. This should never trigger on a valid 6510 stream; it exists as
// a defensive check per spec.md §4.5.
var ErrMalformedInstruction = fmt.Errorf("relocate: opcode size mismatch for addressing mode")

// Stats reports how many operands of each kind were rewritten.
type Stats struct {
	RelocatedAbsolute int
	RelocatedZeroPage int
}

// AddressDelta is the amount every non-ROM absolute operand is shifted by.
func (c Config) AddressDelta() uint16 {
	return c.TargetLoadAddr - c.DriverTop
}

// Walk performs the linear instruction walk over m's
// [DriverTop, DriverTop+DriverSize) region, relocating every absolute
// operand outside $D000-$DFFF by AddressDelta() and rebasing every
// zero-page operand from CurrentZPBase to TargetZPBase. An instruction
// that would extend past the end of the region stops the walk with
// ErrMalformedInstruction, so the walk ends exactly at the region's end.
// It does not move any bytes; call Relocate for the full pack-and-move
// pipeline.
func Walk(m *mem.Memory, cfg Config) (Stats, error) {
	var stats Stats
	bottom := cfg.DriverTop + cfg.DriverSize
	delta := cfg.AddressDelta()

	addr := cfg.DriverTop
	for addr < bottom {
		op := m.Byte(addr)
		size := opcode.Size(op)
		mode := opcode.AddressingMode(op)

		if uint32(addr)+uint32(size) > uint32(bottom) {
			return stats, fmt.Errorf("%w: opcode 0x%02X at $%04X runs past the end of the region", ErrMalformedInstruction, op, addr)
		}

		if opcode.RequiresRelocation(mode) {
			if size != 3 {
				return stats, fmt.Errorf("%w: opcode 0x%02X at $%04X", ErrMalformedInstruction, op, addr)
			}
			vector := m.Word(addr + 1)
			relocated := vector
			if vector < romLo || vector > romHi {
				relocated = vector + delta
			}
			if relocated != vector {
				m.SetWord(addr+1, relocated)
				stats.RelocatedAbsolute++
			}
		}

		if opcode.RequiresZeroPageAdjustment(mode) {
			if size != 2 {
				return stats, fmt.Errorf("%w: opcode 0x%02X at $%04X", ErrMalformedInstruction, op, addr)
			}
			z := m.Byte(addr + 1)
			rebased := cfg.TargetZPBase + (z - cfg.CurrentZPBase)
			m.SetByte(addr+1, rebased)
			stats.RelocatedZeroPage++
		}

		addr += uint16(size)
	}

	return stats, nil
}

// usedSize scans forward from the end of the declared driver region to
// the last nonzero byte below DataScanLimit, capturing data tables the
// driver emits immediately after its code.
func usedSize(m *mem.Memory, cfg Config) uint16 {
	dataEnd := cfg.DriverTop + cfg.DriverSize
	for addr := uint32(dataEnd); addr < DataScanLimit; addr++ {
		if m.Byte(uint16(addr)) != 0 {
			dataEnd = uint16(addr + 1)
		}
	}
	return dataEnd - cfg.DriverTop
}

// Relocate runs Walk and then moves the relocated driver (code plus any
// trailing data tables) to cfg.TargetLoadAddr, zeroing the old location
// when the destination differs from the source; where the two ranges
// overlap, the overlapping bytes hold the moved data afterwards. It
// returns the PRG bytes for the relocated image, ready for PSID wrapping.
func Relocate(m *mem.Memory, cfg Config) ([]byte, Stats, error) {
	stats, err := Walk(m, cfg)
	if err != nil {
		return nil, stats, err
	}

	size := usedSize(m, cfg)

	if cfg.TargetLoadAddr != cfg.DriverTop {
		moved := make([]byte, size)
		for i := range moved {
			moved[i] = m.Byte(cfg.DriverTop + uint16(i))
		}
		for addr := cfg.DriverTop; addr < cfg.DriverTop+size; addr++ {
			m.SetByte(addr, 0)
		}
		for i, v := range moved {
			m.SetByte(cfg.TargetLoadAddr+uint16(i), v)
		}
	}

	out, err := m.ExportPRG(cfg.TargetLoadAddr, cfg.TargetLoadAddr+size)
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}
