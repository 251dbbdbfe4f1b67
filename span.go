// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// Span is a half-open byte range [Start, End) into a tokenizer's input.
// A Span never owns or copies bytes; it is only meaningful relative to
// the input slice it was produced from.
type Span struct {
	Start int
	End   int
}

// spanAt builds a zero-length span at offset pos.
func spanAt(pos int) Span {
	return Span{Start: pos, End: pos}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers zero bytes. Unqualified
// names use an empty Span for their (absent) Prefix.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Range returns the span's bounds as a plain (start, end) pair.
func (s Span) Range() (int, int) {
	return s.Start, s.End
}

// Slice borrows the bytes of input covered by the span. The returned
// slice aliases input's storage; it must not outlive input.
func (s Span) Slice(input []byte) []byte {
	return input[s.Start:s.End]
}

// AsStr returns a copy of the span's substring of input. Go strings
// over a []byte still copy when converted with string(b); callers on
// the hot path should prefer Slice and avoid the conversion, or accept
// the one conversion at the point text actually needs to leave as a
// string.
func (s Span) AsStr(input []byte) string {
	return string(s.Slice(input))
}

// contains reports whether s2 falls entirely within s.
func (s Span) contains(s2 Span) bool {
	return s.Start <= s2.Start && s2.End <= s.End
}
