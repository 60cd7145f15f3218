package opcode

import "testing"

func TestKnownOpcodes(t *testing.T) {
	cases := []struct {
		op   byte
		size byte
		mode Mode
	}{
		{0xEA, 1, IMP}, // NOP
		{0x60, 1, IMP}, // RTS
		{0xA9, 2, IMM}, // LDA #imm
		{0xA5, 2, ZP},  // LDA zp
		{0xB5, 2, ZPX}, // LDA zp,X
		{0xB6, 2, ZPY}, // LDX zp,Y
		{0xA1, 2, IZX}, // LDA (zp,X)
		{0xB1, 2, IZY}, // LDA (zp),Y
		{0xAD, 3, ABS}, // LDA abs
		{0xBD, 3, ABX}, // LDA abs,X
		{0xB9, 3, ABY}, // LDA abs,Y
		{0x6C, 3, IND}, // JMP (ind)
		{0xF0, 2, REL}, // BEQ
		{0x4C, 3, ABS}, // JMP abs
		{0x20, 3, ABS}, // JSR abs
	}
	for _, c := range cases {
		if got := Size(c.op); got != c.size {
			t.Errorf("Size(0x%02X) = %d, want %d", c.op, got, c.size)
		}
		if got := AddressingMode(c.op); got != c.mode {
			t.Errorf("AddressingMode(0x%02X) = %v, want %v", c.op, got, c.mode)
		}
	}
}

func TestRequiresRelocation(t *testing.T) {
	for _, m := range []Mode{ABS, ABX, ABY, IND} {
		if !RequiresRelocation(m) {
			t.Errorf("RequiresRelocation(%v) = false, want true", m)
		}
	}
	for _, m := range []Mode{IMP, IMM, ZP, ZPX, ZPY, REL} {
		if RequiresRelocation(m) {
			t.Errorf("RequiresRelocation(%v) = true, want false", m)
		}
	}
}

func TestRequiresZeroPageAdjustment(t *testing.T) {
	for _, m := range []Mode{ZP, ZPX, ZPY, IZX, IZY} {
		if !RequiresZeroPageAdjustment(m) {
			t.Errorf("RequiresZeroPageAdjustment(%v) = false, want true", m)
		}
	}
	for _, m := range []Mode{IMP, IMM, ABS, ABX, ABY, IND, REL} {
		if RequiresZeroPageAdjustment(m) {
			t.Errorf("RequiresZeroPageAdjustment(%v) = true, want false", m)
		}
	}
}

func TestTableCovers256Opcodes(t *testing.T) {
	if len(Table) != 256 {
		t.Fatalf("len(Table) = %d, want 256", len(Table))
	}
	for op, e := range Table {
		if e.Size < 1 || e.Size > 3 {
			t.Errorf("opcode 0x%02X: size %d out of range", op, e.Size)
		}
	}
}
