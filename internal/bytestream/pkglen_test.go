package bytestream

import "testing"

func TestDecodePkgLengthSingleByte(t *testing.T) {
	// Lead byte 0x06: followOn=0, raw = 0x06, bodyLen = raw-1 = 5.
	s := New([]byte{0x06, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE})
	n, err := DecodePkgLength(s, "Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("bodyLen = %d, want 5", n)
	}
	if s.Offset() != 1 {
		t.Fatalf("Offset() = %d, want 1 (only the lead byte consumed)", s.Offset())
	}
}

func TestDecodePkgLengthFollowOn(t *testing.T) {
	// Lead byte top bits = 01 (one follow-on byte): 0x41 -> followOn=1, low
	// nibble 0x1. Follow-on byte 0x02 contributes bits 4-11: raw = 0x1 |
	// (0x02 << 4) = 0x21 = 33. bodyLen = raw - (followOn+1) = 33-2 = 31.
	s := New([]byte{0x41, 0x02})
	n, err := DecodePkgLength(s, "Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 31 {
		t.Fatalf("bodyLen = %d, want 31", n)
	}
}

func TestDecodePkgLengthTruncated(t *testing.T) {
	// Lead byte claims one follow-on byte but the stream ends there.
	s := New([]byte{0x41})
	if _, err := DecodePkgLength(s, "Test"); err == nil {
		t.Fatalf("expected UnexpectedEndOfStream, got nil")
	}
}

func TestDecodePkgLengthRawNoSubtraction(t *testing.T) {
	s := New([]byte{0x06})
	value, raw, err := DecodePkgLengthRaw(s, "Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 6 {
		t.Fatalf("value = %d, want 6 (no header subtraction)", value)
	}
	if len(raw) != 1 || raw[0] != 0x06 {
		t.Fatalf("raw = %v, want [0x06]", raw)
	}
}

func TestDecodePkgLengthAsSubStream(t *testing.T) {
	s := New([]byte{0x06, 1, 2, 3, 4, 5, 99})
	sub, err := DecodePkgLengthAsSubStream(s, "Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Remaining() != 5 {
		t.Fatalf("sub.Remaining() = %d, want 5", sub.Remaining())
	}
	if s.Remaining() != 1 {
		t.Fatalf("outer stream should have one byte left, got %d", s.Remaining())
	}
	b, _ := s.Peek()
	if b != 99 {
		t.Fatalf("outer stream's next byte = 0x%x, want 0x63", b)
	}
}
