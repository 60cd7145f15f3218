package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sidtools/sidm2conv/internal/mem"
	"github.com/sidtools/sidm2conv/internal/psidio"
)

// genericPRG builds a PRG file (2-byte load address + payload) that is
// too generic to match any catalogued identity, so Scan falls back to
// Generic and convertFile takes its plainest path.
func genericPRG(load uint16, size int) []byte {
	raw := make([]byte, 2+size)
	raw[0] = byte(load)
	raw[1] = byte(load >> 8)
	return raw
}

func TestRunConvertsPRGToPSID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tune.prg")
	if err := os.WriteFile(path, genericPRG(0x1000, 0x40), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{path}); code != exitOK {
		t.Fatalf("run() = %d, want %d", code, exitOK)
	}

	outPath := filepath.Join(dir, "tune.sid")
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading converted output: %v", err)
	}
	if !psidio.IsPSID(out) {
		t.Error("converted output does not carry a PSID/RSID magic")
	}
}

// TestRunRejectsAlreadyPSID covers invariant 9: feeding an already
// converted PSID file back through run() must be rejected with exit
// code 2, never double-wrapped.
func TestRunRejectsAlreadyPSID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tune.prg")
	if err := os.WriteFile(path, genericPRG(0x1000, 0x40), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := run([]string{path}); code != exitOK {
		t.Fatalf("initial conversion: run() = %d, want %d", code, exitOK)
	}

	sidPath := filepath.Join(dir, "tune.sid")
	if code := run([]string{sidPath}); code != exitAlreadyPSID {
		t.Fatalf("run(already-PSID) = %d, want %d", code, exitAlreadyPSID)
	}
}

// TestPRGRoundTripsThroughMem covers invariant 10: loading a PRG image
// into the flat 64KiB address space and exporting the same range back
// out reproduces the original file exactly.
func TestPRGRoundTripsThroughMem(t *testing.T) {
	raw := genericPRG(0x1000, 0x40)
	for i := range raw[2:] {
		raw[2+i] = byte(i)
	}

	var m mem.Memory
	if err := m.LoadPRG(raw); err != nil {
		t.Fatalf("LoadPRG: %v", err)
	}
	load := uint16(raw[0]) | uint16(raw[1])<<8
	out, err := m.ExportPRG(load, load+uint16(len(raw)-2))
	if err != nil {
		t.Fatalf("ExportPRG: %v", err)
	}
	if len(out) != len(raw) {
		t.Fatalf("round-tripped length = %d, want %d", len(out), len(raw))
	}
	for i := range raw {
		if out[i] != raw[i] {
			t.Fatalf("round-tripped byte %d = %#x, want %#x", i, out[i], raw[i])
		}
	}
}
