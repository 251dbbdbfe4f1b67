// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

import (
	"bytes"
	"unicode/utf8"

	"lithium.im/xmltok/internal/charclass"
)

// Stream is a positioned, bounded cursor over a byte slice. It never
// copies the input and never grows any backing storage; advancing the
// cursor is the only state mutation it performs.
type Stream struct {
	input []byte
	pos   int
}

// newStream constructs a Stream positioned at the start of input.
func newStream(input []byte) Stream {
	return Stream{input: input}
}

// AtEnd reports whether the cursor has reached the end of input.
func (s *Stream) AtEnd() bool {
	return s.pos >= len(s.input)
}

// Pos returns the cursor's current byte offset.
func (s *Stream) Pos() int {
	return s.pos
}

// Input returns the full input slice the Stream was built over.
func (s *Stream) Input() []byte {
	return s.input
}

// CurrByte returns the byte at the cursor, or UnexpectedEndOfStream if
// the cursor is at the end of input.
func (s *Stream) CurrByte() (byte, error) {
	if s.pos >= len(s.input) {
		return 0, errAt(ErrUnexpectedEndOfStream, s.TextPos())
	}
	return s.input[s.pos], nil
}

// NextByte peeks at the byte one past the cursor without advancing.
func (s *Stream) NextByte() (byte, error) {
	if s.pos+1 >= len(s.input) {
		return 0, errAt(ErrUnexpectedEndOfStream, s.TextPosFrom(s.pos+1))
	}
	return s.input[s.pos+1], nil
}

// Advance moves the cursor forward by n bytes, saturating at len(input)
// so the cursor can never be pushed past the end of the buffer.
func (s *Stream) Advance(n int) {
	s.pos += n
	if s.pos > len(s.input) {
		s.pos = len(s.input)
	}
}

// SkipSpaces advances over ASCII whitespace bytes only.
func (s *Stream) SkipSpaces() {
	for s.pos < len(s.input) && charclass.IsAsciiSpace(s.input[s.pos]) {
		s.pos++
	}
}

// StartsWith reports whether lit matches the bytes at the cursor.
func (s *Stream) StartsWith(lit []byte) bool {
	return bytes.HasPrefix(s.input[s.pos:], lit)
}

// ConsumeByte advances past b if it is the current byte, or fails with
// InvalidChar.
func (s *Stream) ConsumeByte(b byte) error {
	cur, err := s.CurrByte()
	if err != nil {
		return err
	}
	if cur != b {
		return errInvalidChar(s.TextPos(), b, cur)
	}
	s.Advance(1)
	return nil
}

// ConsumeBytes advances past lit if it matches at the cursor, or fails
// with InvalidString.
func (s *Stream) ConsumeBytes(lit []byte) error {
	if !s.StartsWith(lit) {
		return errAt(ErrInvalidString, s.TextPos())
	}
	s.Advance(len(lit))
	return nil
}

// decodeRune decodes one UTF-8 codepoint at the cursor, returning
// InvalidUtf8 if the bytes there are not valid UTF-8.
func (s *Stream) decodeRune() (rune, int, error) {
	if s.pos >= len(s.input) {
		return 0, 0, errAt(ErrUnexpectedEndOfStream, s.TextPos())
	}
	r, size := utf8.DecodeRune(s.input[s.pos:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, errAt(ErrInvalidUtf8, s.TextPos())
	}
	return r, size, nil
}

// ConsumeName reads one XML Name: a NameStartChar followed by zero or
// more NameChars. Note that ':' is itself a legal NameChar (and
// NameStartChar), so a qualified name like "a:b" is read here as one
// Name; ConsumeQName is what splits it into prefix and local parts.
func (s *Stream) ConsumeName() (Span, error) {
	start := s.pos
	r, size, err := s.decodeRune()
	if err != nil {
		return Span{}, err
	}
	if !charclass.IsNameStartChar(r) {
		return Span{}, errAt(ErrInvalidName, s.TextPos())
	}
	s.Advance(size)
	for {
		r, size, err := s.decodeRune()
		if err != nil {
			break
		}
		if !charclass.IsNameChar(r) {
			break
		}
		s.Advance(size)
	}
	return Span{Start: start, End: s.pos}, nil
}

// ConsumeQName reads a Name and splits it on ':' into a prefix and a
// local part. prefix is a zero-length Span when the name is
// unqualified. A Name containing more than one ':', or whose local
// part is empty or doesn't start with a NameStartChar, is InvalidName.
func (s *Stream) ConsumeQName() (prefix, local Span, err error) {
	full, err := s.ConsumeName()
	if err != nil {
		return Span{}, Span{}, err
	}
	raw := full.Slice(s.input)
	idx := bytes.IndexByte(raw, ':')
	if idx == -1 {
		return Span{}, full, nil
	}
	if bytes.IndexByte(raw[idx+1:], ':') != -1 {
		return Span{}, Span{}, errAt(ErrInvalidName, s.TextPosFrom(full.Start))
	}
	prefix = Span{Start: full.Start, End: full.Start + idx}
	local = Span{Start: full.Start + idx + 1, End: full.End}
	if local.IsEmpty() {
		return Span{}, Span{}, errAt(ErrInvalidName, s.TextPosFrom(local.Start))
	}
	r, _ := utf8.DecodeRune(s.input[local.Start:local.End])
	if !charclass.IsNameStartChar(r) {
		return Span{}, Span{}, errAt(ErrInvalidName, s.TextPosFrom(local.Start))
	}
	return prefix, local, nil
}

// ConsumeEq reads an (optional-space, '=', optional-space) sequence.
func (s *Stream) ConsumeEq() error {
	s.SkipSpaces()
	if err := s.ConsumeByte('='); err != nil {
		return err
	}
	s.SkipSpaces()
	return nil
}

// ConsumeQuotedString reads a ' or " delimited literal and returns the
// delimiter used and the span of the inner text (excluding quotes). A
// literal '<' inside the value is InvalidChar; reaching end of input
// before the matching quote is UnexpectedEndOfStream.
func (s *Stream) ConsumeQuotedString() (quote byte, value Span, err error) {
	b, err := s.CurrByte()
	if err != nil {
		return 0, Span{}, err
	}
	if b != '\'' && b != '"' {
		return 0, Span{}, errInvalidQuote(s.TextPos(), b)
	}
	quote = b
	s.Advance(1)
	start := s.pos
	for {
		cb, err := s.CurrByte()
		if err != nil {
			return 0, Span{}, err
		}
		if cb == '<' {
			return 0, Span{}, errInvalidChar(s.TextPos(), quote, cb)
		}
		if cb == quote {
			value = Span{Start: start, End: s.pos}
			s.Advance(1)
			return quote, value, nil
		}
		s.Advance(1)
	}
}

// SkipChars advances the cursor while the UTF-8-decoded codepoint at
// it satisfies pred, stopping at the first codepoint that doesn't (or
// at end of input).
func (s *Stream) SkipChars(pred func(rune) bool) {
	for {
		r, size, err := s.decodeRune()
		if err != nil || !pred(r) {
			return
		}
		s.Advance(size)
	}
}

// ConsumeReference reads a '&' reference: a predefined or user-defined
// entity (&name;) or a numeric character reference (&#DDDD; or
// &#xHHHH;). Named references, including the five predefined ones, are
// always returned as RefEntity — the core never expands them.
func (s *Stream) ConsumeReference() (Reference, error) {
	if err := s.ConsumeByte('&'); err != nil {
		return Reference{}, err
	}
	b, err := s.CurrByte()
	if err != nil {
		return Reference{}, err
	}
	if b != '#' {
		name, err := s.ConsumeName()
		if err != nil {
			return Reference{}, err
		}
		if err := s.ConsumeByte(';'); err != nil {
			return Reference{}, err
		}
		return Reference{Kind: RefEntity, Name: name}, nil
	}

	refStart := s.pos
	s.Advance(1) // '#'
	hex := false
	if hb, err := s.CurrByte(); err == nil && (hb == 'x' || hb == 'X') {
		hex = true
		s.Advance(1)
	}
	base := rune(10)
	if hex {
		base = 16
	}
	digitsStart := s.pos
	var val int64
	for {
		cb, err := s.CurrByte()
		if err != nil {
			return Reference{}, err
		}
		if cb == ';' {
			break
		}
		dv, ok := hexOrDecDigit(cb, hex)
		if !ok {
			return Reference{}, errAt(ErrInvalidReference, s.TextPos())
		}
		val = val*int64(base) + int64(dv)
		if val > 0x10FFFF {
			return Reference{}, errAt(ErrInvalidReference, s.TextPosFrom(refStart))
		}
		s.Advance(1)
	}
	if s.pos == digitsStart {
		return Reference{}, errAt(ErrInvalidReference, s.TextPosFrom(refStart))
	}
	s.Advance(1) // ';'
	r := rune(val)
	if !charclass.IsXMLChar(r) {
		return Reference{}, errNonXMLChar(s.TextPosFrom(refStart), r)
	}
	return Reference{Kind: RefChar, Char: r}, nil
}

func hexOrDecDigit(b byte, hex bool) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case hex && b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case hex && b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// TextPos computes the 1-based (row, col) of the cursor's current
// position.
func (s *Stream) TextPos() TextPos {
	return textPosAt(s.input, s.pos)
}

// TextPosFrom computes the 1-based (row, col) of an arbitrary byte
// offset into the same input this Stream was built over.
func (s *Stream) TextPosFrom(offset int) TextPos {
	return textPosAt(s.input, offset)
}

// validateChars decodes every codepoint in span and fails with
// NonXmlChar at the first one that is not a legal XML 1.0 character,
// or InvalidUtf8 if the bytes aren't valid UTF-8. Used to check text,
// attribute value, CDATA, comment, and PI content (spec §4.1).
func (s *Stream) validateChars(span Span) error {
	b := span.Slice(s.input)
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return errAt(ErrInvalidUtf8, s.TextPosFrom(span.Start+i))
		}
		if !charclass.IsXMLChar(r) {
			return errNonXMLChar(s.TextPosFrom(span.Start+i), r)
		}
		i += size
	}
	return nil
}
