package prg

import (
	"bytes"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	raw := []byte{0x00, 0x10, 0xAA, 0xBB, 0xCC}
	im, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if im.Load != 0x1000 {
		t.Errorf("Load = $%04X, want $1000", im.Load)
	}
	if !bytes.Equal(im.Payload, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("Payload = %v", im.Payload)
	}
}

func TestParseTooSmall(t *testing.T) {
	_, err := Parse([]byte{0x01})
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("err = %v, want ErrTooSmall", err)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x20, 1, 2, 3, 4}
	im, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(im.Bytes(), raw) {
		t.Errorf("Bytes() = %v, want %v", im.Bytes(), raw)
	}
	if im.Len() != len(raw) {
		t.Errorf("Len() = %d, want %d", im.Len(), len(raw))
	}
}
