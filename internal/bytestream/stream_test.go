package bytestream

import "testing"

func TestStreamPeekNext(t *testing.T) {
	s := New([]byte{0x10, 0x20})
	b, ok := s.Peek()
	if !ok || b != 0x10 {
		t.Fatalf("Peek() = 0x%x, %v", b, ok)
	}
	if s.Offset() != 0 {
		t.Fatalf("Peek must not advance the cursor")
	}
	b, ok = s.Next()
	if !ok || b != 0x10 {
		t.Fatalf("Next() = 0x%x, %v", b, ok)
	}
	if s.Offset() != 1 {
		t.Fatalf("Offset() after one Next() = %d, want 1", s.Offset())
	}
	if _, ok := s.Peek(); !ok {
		t.Fatalf("expected one more byte")
	}
	s.Next()
	if _, ok := s.Next(); ok {
		t.Fatalf("expected end of stream")
	}
}

func TestStreamStepBack(t *testing.T) {
	s := New([]byte{0x01, 0x02})
	s.Next()
	s.StepBack()
	if s.Offset() != 0 {
		t.Fatalf("Offset() after StepBack = %d, want 0", s.Offset())
	}
	b, _ := s.Next()
	if b != 0x01 {
		t.Fatalf("re-reading after StepBack gave 0x%x, want 0x01", b)
	}
}

func TestStreamTakeShortRead(t *testing.T) {
	s := New([]byte{0x01, 0x02})
	if _, err := s.Take(5, "Test"); err == nil {
		t.Fatalf("expected UnexpectedEndOfStream")
	}
}

func TestStreamTakeAsStreamOffsets(t *testing.T) {
	outer := New([]byte{0xAA, 0xBB, 1, 2, 3, 4})
	outer.Take(2, "skip")
	sub, err := outer.TakeAsStream(4, "body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Offset() != 2 {
		t.Fatalf("sub.Offset() = %d, want 2 (absolute, inherited from outer cursor)", sub.Offset())
	}
	b, _ := sub.Next()
	if b != 1 {
		t.Fatalf("sub's first byte = %d, want 1", b)
	}
	if sub.Offset() != 3 {
		t.Fatalf("sub.Offset() after one Next() = %d, want 3", sub.Offset())
	}
}

func TestStreamSlice(t *testing.T) {
	s := New([]byte{10, 20, 30, 40, 50})
	s.Take(2, "skip")
	start := s.Offset()
	s.Take(2, "body")
	end := s.Offset()
	got := s.Slice(start, end)
	want := []byte{30, 40}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Slice(%d,%d) = %v, want %v", start, end, got, want)
	}
}
