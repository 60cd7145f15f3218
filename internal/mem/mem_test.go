package mem

import (
	"bytes"
	"errors"
	"testing"
)

func TestLoadAndExportPRG(t *testing.T) {
	var m Memory
	raw := []byte{0x00, 0x10, 1, 2, 3, 4}
	if err := m.LoadPRG(raw); err != nil {
		t.Fatalf("LoadPRG: %v", err)
	}
	if got := m.Byte(0x1000); got != 1 {
		t.Errorf("Byte($1000) = %d, want 1", got)
	}
	out, err := m.ExportPRG(0x1000, 0x1004)
	if err != nil {
		t.Fatalf("ExportPRG: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("ExportPRG = %v, want %v", out, raw)
	}
}

func TestLoadPRGOverflow(t *testing.T) {
	var m Memory
	raw := make([]byte, 6)
	raw[0], raw[1] = 0xFF, 0xFF // load $FFFF
	if err := m.LoadPRG(raw); !errors.Is(err, ErrOverflow64K) {
		t.Fatalf("err = %v, want ErrOverflow64K", err)
	}
}

func TestWordRoundTrip(t *testing.T) {
	var m Memory
	m.SetWord(0x2000, 0xBEEF)
	if got := m.Word(0x2000); got != 0xBEEF {
		t.Errorf("Word($2000) = $%04X, want $BEEF", got)
	}
	if lo, hi := m.Byte(0x2000), m.Byte(0x2001); lo != 0xEF || hi != 0xBE {
		t.Errorf("bytes = %02X %02X, want EF BE", lo, hi)
	}
}

func TestClear(t *testing.T) {
	var m Memory
	m.SetByte(0x5000, 0xFF)
	m.Clear()
	if got := m.Byte(0x5000); got != 0 {
		t.Errorf("Byte($5000) after Clear = %d, want 0", got)
	}
}
