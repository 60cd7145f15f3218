package scanner

import "testing"

func putU32LE(buf []byte, offset int, v uint32) {
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	buf[offset+2] = byte(v >> 16)
	buf[offset+3] = byte(v >> 24)
}

func TestGenericFallback(t *testing.T) {
	payload := make([]byte, 16)
	ctx := Scan(payload, 0x1000)
	if ctx.Identity != "Generic" {
		t.Errorf("Identity = %q, want Generic", ctx.Identity)
	}
	if ctx.InitAddr != 0x1000 {
		t.Errorf("InitAddr = $%04X, want $1000", ctx.InitAddr)
	}
	if ctx.PlayAddr != 0x1003 {
		t.Errorf("PlayAddr = $%04X, want $1003", ctx.PlayAddr)
	}
	if ctx.Prepend != nil {
		t.Errorf("Prepend = %v, want nil", ctx.Prepend)
	}
}

func TestChkFCMatch(t *testing.T) {
	payload := make([]byte, 0x200)
	payload[0] = 0x4c
	payload[6] = 0xad
	payload[0xd] = 0xc9
	putU32LE(payload, 9, 0x07f000c9)
	ctx := Scan(payload, 0x1000)
	if ctx.Identity != "FutureComposer" {
		t.Fatalf("Identity = %q, want FutureComposer", ctx.Identity)
	}
	if ctx.PlayAddr != 0x1006 {
		t.Errorf("PlayAddr = $%04X, want $1006", ctx.PlayAddr)
	}
}

func TestChkTrkPl3DerivesAddressesFromJumpTable(t *testing.T) {
	payload := make([]byte, 0x500)
	putU32LE(payload, 0x140, 0x00A900A2)
	putU32LE(payload, 0x146, 0x20E0E8D4)
	putU32LE(payload, 0x287, 0xCA2000A2)
	putU32LE(payload, 0x48f, 0x0a0a0a0a)
	ctx := Scan(payload, 0x1000)
	if ctx.Identity != "TrackPlayer" {
		t.Fatalf("Identity = %q, want TrackPlayer", ctx.Identity)
	}
	if ctx.InitAddr != 0x1000+0x140 {
		t.Errorf("InitAddr = $%04X, want $%04X", ctx.InitAddr, 0x1000+0x140)
	}
	if ctx.PlayAddr != 0x1000+0x287 {
		t.Errorf("PlayAddr = $%04X, want $%04X", ctx.PlayAddr, 0x1000+0x287)
	}
}

func TestChkGoatMultispeedOnlySetsPlayAddr(t *testing.T) {
	payload := make([]byte, 0x500)
	payload[0] = 0xa2
	payload[0xd] = 0x4c
	putU32LE(payload, 2, 0xA2DC048E)
	putU32LE(payload, 7, 0x4CDC058E)
	ctx := Scan(payload, 0x3000)
	if ctx.Identity == "" || ctx.Identity == "Generic" {
		t.Fatalf("Identity = %q, want a GoatTracker+MultiSpeed match", ctx.Identity)
	}
	// InitAddr must come from the pre-seeded default, NOT from this
	// check (which never assigns it) — this is the literal quirk the
	// port preserves rather than repairs.
	if ctx.InitAddr != 0x3000 {
		t.Errorf("InitAddr = $%04X, want pre-seeded $3000", ctx.InitAddr)
	}
	if ctx.PlayAddr != 0x3000+0xd {
		t.Errorf("PlayAddr = $%04X, want $%04X", ctx.PlayAddr, 0x3000+0xd)
	}
}

func TestChkSoundmonPlainVariant(t *testing.T) {
	const loadAddr = 0x9000
	payload := make([]byte, 0x3c00-2)
	putU32LE(payload, off(loadAddr, 0xc000), 0x4cc0124c)
	putU32LE(payload, off(loadAddr, 0xc020), 0xC58D01A5)
	ctx := Scan(payload, loadAddr)
	if ctx.Identity != "SoundMonitor" {
		t.Fatalf("Identity = %q, want SoundMonitor", ctx.Identity)
	}
	if !ctx.CIATiming {
		t.Error("CIATiming = false, want true for SoundMonitor")
	}
	if ctx.InitAddr != 0xc000 || ctx.PlayAddr != 0xc020 {
		t.Errorf("Init/Play = $%04X/$%04X, want $c000/$c020", ctx.InitAddr, ctx.PlayAddr)
	}
}

func TestScanIsDeterministicAndFirstMatchWins(t *testing.T) {
	// The payload carries both the FutureComposer signature (ChkFC, first
	// in Checks) and the TrackPlayer signature (ChkTrkPl3, later).
	payload := make([]byte, 0x500)
	payload[0] = 0x4c
	payload[6] = 0xad
	payload[0xd] = 0xc9
	putU32LE(payload, 9, 0x07f000c9)
	putU32LE(payload, 0x140, 0x00A900A2)
	putU32LE(payload, 0x146, 0x20E0E8D4)
	putU32LE(payload, 0x287, 0xCA2000A2)
	putU32LE(payload, 0x48f, 0x0a0a0a0a)
	if !ChkTrkPl3(NewContext(payload, 0x1000)) {
		t.Fatal("ChkTrkPl3 does not match the payload on its own")
	}
	var last string
	for i := 0; i < 5; i++ {
		ctx := Scan(payload, 0x1000)
		if ctx.Identity != "FutureComposer" {
			t.Fatalf("Identity = %q, want FutureComposer (the earlier check)", ctx.Identity)
		}
		if i > 0 && ctx.Identity != last {
			t.Fatalf("Scan produced %q, previously %q — not deterministic", ctx.Identity, last)
		}
		last = ctx.Identity
	}
}

func TestIdentitiesCatalogueNonEmpty(t *testing.T) {
	if len(Identities) < 40 {
		t.Errorf("len(Identities) = %d, want at least 40 catalogued names", len(Identities))
	}
}

func TestAdjustJAndCheckJ(t *testing.T) {
	// AdjustJ(x, loadAddr) = x + 2 - loadAddr; callers index
	// Payload[j-2] for what the original indexes p[j].
	if got := AdjustJ(0x1010, 0x1000); got != 0x12 {
		t.Errorf("AdjustJ(0x1010, 0x1000) = %#x, want 0x12", got)
	}
	if CheckJ(0x12, 0x20) {
		t.Error("CheckJ should be false for an in-range j")
	}
	if !CheckJ(-1, 0x20) {
		t.Error("CheckJ should be true (out of range) for a negative j")
	}
	if !CheckJ(0x20, 0x20) {
		t.Error("CheckJ should be true (out of range) for j == fsiz")
	}
}

func TestOffHelper(t *testing.T) {
	if got := off(0x1000, 0x1010); got != 0x10 {
		t.Errorf("off(0x1000, 0x1010) = %#x, want 0x10", got)
	}
}
