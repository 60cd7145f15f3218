package psidio

import (
	"bytes"
	"testing"
)

func TestNewHeaderDefaults(t *testing.T) {
	h := NewHeader()
	if string(h[offMagic:offMagic+4]) != "PSID" {
		t.Errorf("magic = %q, want PSID", h[offMagic:offMagic+4])
	}
	if h[offVersion] != 0 || h[offVersion+1] != 2 {
		t.Errorf("version = %v, want [0 2]", h[offVersion:offVersion+2])
	}
	if h[offDataOff] != 0 || h[offDataOff+1] != 0x7C {
		t.Errorf("data offset = %v, want [0 0x7C]", h[offDataOff:offDataOff+2])
	}
}

func TestSetRSID(t *testing.T) {
	h := NewHeader()
	h.SetRSID()
	if h[offMagic] != 'R' {
		t.Errorf("magic[0] = %q, want R", h[offMagic])
	}
}

func TestSetInitPlay(t *testing.T) {
	h := NewHeader()
	h.SetInitPlay(0x1000, 0x1003)
	if h[offInitAddr] != 0x10 || h[offInitAddr+1] != 0x00 {
		t.Errorf("init = %v, want [0x10 0x00]", h[offInitAddr:offInitAddr+2])
	}
	if h[offPlayAddr] != 0x10 || h[offPlayAddr+1] != 0x03 {
		t.Errorf("play = %v, want [0x10 0x03]", h[offPlayAddr:offPlayAddr+2])
	}
}

func TestIsPSID(t *testing.T) {
	if !IsPSID([]byte("PSID\x00\x02")) {
		t.Error("IsPSID(PSID...) = false, want true")
	}
	if !IsPSID([]byte("RSID\x00\x02")) {
		t.Error("IsPSID(RSID...) = false, want true")
	}
	if IsPSID([]byte{0x00, 0x10, 0xAA}) {
		t.Error("IsPSID(raw PRG) = true, want false")
	}
	if IsPSID([]byte{0x01}) {
		t.Error("IsPSID(short) = true, want false")
	}
}

func TestWriteMinimalPrepend(t *testing.T) {
	h := NewHeader()
	var buf bytes.Buffer
	lead := []byte{0x00, 0x10} // the PRG's own embedded load address, $1000
	truncated, err := Write(&buf, h, lead, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if truncated {
		t.Error("truncated = true, want false")
	}
	if buf.Len() != HeaderSize+2+3 {
		t.Errorf("len = %d, want %d", buf.Len(), HeaderSize+2+3)
	}
	if !bytes.Equal(buf.Bytes()[HeaderSize+2:], []byte{1, 2, 3}) {
		t.Errorf("payload tail = %v", buf.Bytes()[HeaderSize+2:])
	}
}

func TestWriteRejectsShortPrepend(t *testing.T) {
	h := NewHeader()
	var buf bytes.Buffer
	if _, err := Write(&buf, h, []byte{0x00}, []byte{1}); err == nil {
		t.Error("Write with a 1-byte prepend: err = nil, want an error")
	}
	if _, err := Write(&buf, h, nil, []byte{1}); err == nil {
		t.Error("Write with a nil prepend: err = nil, want an error")
	}
}

func TestWriteWithPrepend(t *testing.T) {
	h := NewHeader()
	prepend := []byte{0x00, 0x10, 0xA9, 0x00}
	var buf bytes.Buffer
	_, err := Write(&buf, h, prepend, []byte{0xAA})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != HeaderSize+len(prepend)+1 {
		t.Errorf("len = %d, want %d", buf.Len(), HeaderSize+len(prepend)+1)
	}
}

func TestWriteTruncatesOn64KOverflow(t *testing.T) {
	h := NewHeader()
	prepend := []byte{0x00, 0xF0} // load address $F000
	payload := make([]byte, 0x2000)
	var buf bytes.Buffer
	truncated, err := Write(&buf, h, prepend, payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true for an image overflowing 64KiB")
	}
}
