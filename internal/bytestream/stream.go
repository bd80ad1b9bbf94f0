// Package bytestream implements the bounded cursor over a definition block's
// bytes (C1) and the variable-length package-length codec that precedes
// every variably sized construct in the grammar (C2).
//
// This is a hosted-Go reimplementation of the teacher's amlStreamReader: the
// original overlays a []byte directly on a raw virtual address via
// unsafe.Pointer + reflect.SliceHeader, because it runs before a table has
// been copied anywhere else in kernel memory. Locating and mapping firmware
// tables is explicitly the table-discovery layer's job here, so Stream
// receives an already-materialized []byte and only tracks a cursor and a
// base offset for absolute-offset diagnostics.
package bytestream

import "firmwarebc/internal/amlerr"

// Stream is a bounded cursor over a definition block (or a sub-slice of
// one). Offset() always reports the absolute position within the original
// definition block, even when Stream wraps a carved-out sub-stream.
type Stream struct {
	data       []byte
	cursor     int
	baseOffset int
}

// New wraps data as a top-level stream starting at absolute offset 0.
func New(data []byte) *Stream {
	return &Stream{data: data}
}

// Peek yields the current byte without advancing the cursor. ok is false at
// end of stream.
func (s *Stream) Peek() (b byte, ok bool) {
	if s.cursor >= len(s.data) {
		return 0, false
	}
	return s.data[s.cursor], true
}

// Next consumes and returns the current byte. ok is false at end of stream.
func (s *Stream) Next() (b byte, ok bool) {
	b, ok = s.Peek()
	if ok {
		s.cursor++
	}
	return b, ok
}

// StepBack decrements the cursor. Precondition: the cursor is > 0; callers
// only ever step back over a byte they just consumed.
func (s *Stream) StepBack() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Offset returns cursor + base offset, the absolute position used for
// diagnostics across carved sub-streams.
func (s *Stream) Offset() int {
	return s.cursor + s.baseOffset
}

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() int {
	return len(s.data) - s.cursor
}

// Take consumes and returns the next n bytes as a sub-slice, or fails with
// UnexpectedEndOfStream if fewer than n bytes remain.
func (s *Stream) Take(n int, production string) ([]byte, error) {
	if n < 0 || s.Remaining() < n {
		return nil, &amlerr.ParseError{
			Kind:       amlerr.UnexpectedEndOfStream,
			Offset:     s.Offset(),
			Production: production,
		}
	}
	sub := s.data[s.cursor : s.cursor+n]
	s.cursor += n
	return sub, nil
}

// TakeAsStream consumes the next n bytes and returns a new Stream over them
// whose base offset is the absolute offset at which the sub-slice begins.
// Package bodies carry their own length and must not over-read: once the
// parent has advanced past the sub-slice, parsing of the body proceeds
// entirely within the returned sub-stream, which raises
// UnexpectedEndOfStream itself if an inner parse overruns it.
func (s *Stream) TakeAsStream(n int, production string) (*Stream, error) {
	absStart := s.Offset()
	sub, err := s.Take(n, production)
	if err != nil {
		return nil, err
	}
	return &Stream{data: sub, baseOffset: absStart}, nil
}

// Slice returns the bytes between two absolute offsets previously observed
// via Offset() on this same stream, for callers (the field-list parser)
// that need to retain the exact bytes spanned by a production they have
// already fully parsed.
func (s *Stream) Slice(fromAbs, toAbs int) []byte {
	return s.data[fromAbs-s.baseOffset : toAbs-s.baseOffset]
}

// Bytes returns the raw []byte backing the stream's currently unread
// region. Used by callers (the buffer and method parsers) that must retain
// the raw remainder of a carved body for the execution engine rather than
// re-derive it.
func (s *Stream) Bytes() []byte {
	return s.data[s.cursor:]
}
