package relocate

import (
	"errors"
	"testing"

	"github.com/sidtools/sidm2conv/internal/mem"
)

func buildDriver(t *testing.T, top uint16, code []byte) *mem.Memory {
	t.Helper()
	raw := make([]byte, 2+len(code))
	raw[0] = byte(top)
	raw[1] = byte(top >> 8)
	copy(raw[2:], code)
	var m mem.Memory
	if err := m.LoadPRG(raw); err != nil {
		t.Fatalf("LoadPRG: %v", err)
	}
	return &m
}

func TestWalkRelocatesAbsoluteOperand(t *testing.T) {
	top := uint16(0x0D7E)
	code := []byte{0x4C, 0x80, 0x0D} // JMP $0D80 (inside the driver region)
	m := buildDriver(t, top, code)

	cfg := Config{DriverTop: top, DriverSize: uint16(len(code)), TargetLoadAddr: 0x1000}
	stats, err := Walk(m, cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if stats.RelocatedAbsolute != 1 {
		t.Fatalf("RelocatedAbsolute = %d, want 1", stats.RelocatedAbsolute)
	}
	want := uint16(0x0D80) + cfg.AddressDelta()
	if got := m.Word(top + 1); got != want {
		t.Errorf("operand = $%04X, want $%04X", got, want)
	}
}

func TestWalkPreservesROMHole(t *testing.T) {
	top := uint16(0x0D7E)
	code := []byte{0x4C, 0x00, 0xD4} // JMP $D400, inside the ROM/IO hole
	m := buildDriver(t, top, code)

	cfg := Config{DriverTop: top, DriverSize: uint16(len(code)), TargetLoadAddr: 0x1000}
	stats, err := Walk(m, cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if stats.RelocatedAbsolute != 0 {
		t.Fatalf("RelocatedAbsolute = %d, want 0 (ROM hole operand must not move)", stats.RelocatedAbsolute)
	}
	if got := m.Word(top + 1); got != 0xD400 {
		t.Errorf("operand = $%04X, want unchanged $D400", got)
	}
}

func TestWalkRebasesZeroPage(t *testing.T) {
	top := uint16(0x0D7E)
	code := []byte{0xA5, 0x05} // LDA $05
	m := buildDriver(t, top, code)

	cfg := Config{
		DriverTop: top, DriverSize: uint16(len(code)),
		CurrentZPBase: 0x02, TargetZPBase: 0x40,
		TargetLoadAddr: top,
	}
	stats, err := Walk(m, cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if stats.RelocatedZeroPage != 1 {
		t.Fatalf("RelocatedZeroPage = %d, want 1", stats.RelocatedZeroPage)
	}
	if got := m.Byte(top + 1); got != 0x43 {
		t.Errorf("zp operand = $%02X, want $43 (0x40 + (0x05-0x02))", got)
	}
}

func TestWalkMalformedInstruction(t *testing.T) {
	top := uint16(0x0D7E)
	// A single JMP-absolute opcode byte with no operand bytes in the
	// declared region: the walk must not read past DriverSize.
	code := []byte{0x4C}
	m := buildDriver(t, top, code)

	cfg := Config{DriverTop: top, DriverSize: 1, TargetLoadAddr: 0x1000}
	_, err := Walk(m, cfg)
	if err == nil {
		t.Fatalf("Walk: expected an error, got nil")
	}
	if !errors.Is(err, ErrMalformedInstruction) {
		t.Errorf("err = %v, want ErrMalformedInstruction", err)
	}
}

func TestRelocateMovesDriverToNewLoadAddress(t *testing.T) {
	top := uint16(0x0D7E)
	code := []byte{0xEA, 0xEA, 0x60} // NOP NOP RTS
	m := buildDriver(t, top, code)

	cfg := Config{DriverTop: top, DriverSize: uint16(len(code)), TargetLoadAddr: 0x1000}
	out, _, err := Relocate(m, cfg)
	if err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	gotLoad := uint16(out[0]) | uint16(out[1])<<8
	if gotLoad != 0x1000 {
		t.Errorf("relocated load addr = $%04X, want $1000", gotLoad)
	}
	if len(out) < 5 || out[2] != 0xEA || out[3] != 0xEA || out[4] != 0x60 {
		t.Errorf("relocated payload = %v, want [EA EA 60]", out[2:])
	}
	if m.Byte(top) != 0 {
		t.Errorf("source driver bytes were not zeroed after move")
	}
}
