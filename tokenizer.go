// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

import (
	"io"

	"lithium.im/xmltok/internal/bomsniff"
	"lithium.im/xmltok/internal/charclass"
)

// State is the tokenizer's top-level mode, following spec.md §4.2's
// named states.
type State int

const (
	StateStart State = iota
	StateAfterDeclaration
	StateAfterDTD
	StateAfterRoot
	StateElements
	StateFragment
	StateFinished
	StateError
)

// Tokenizer drives a Stream through the XML productions described in
// spec.md and emits one Token per call to Next. It holds no pointers
// into growable containers: the whole struct is a handful of offsets
// and flags, so copying a Tokenizer (see Snapshot) is a plain value
// copy.
type Tokenizer struct {
	stream Stream
	state  State

	depth uint

	seenDeclaration bool
	seenDoctype     bool
	seenRoot        bool

	// inTag is true from the moment an ElementStart or Attribute is
	// emitted until the tag's terminator ('>' or '/>') is emitted.
	inTag bool
	// inDtdSubset is true between a DtdStart and its DtdEnd.
	inDtdSubset bool

	// fragmentName is the caller-supplied name of the virtual enclosing
	// element in fragment mode; unused outside FragmentName.
	fragmentName []byte

	fatalErr *Error
	// pendingErr holds a construction-time error (an unsupported BOM)
	// until the first call to Next, which must return it directly
	// rather than silently reporting End-of-stream.
	pendingErr *Error
}

// From constructs a Tokenizer for a complete document. A leading
// UTF-8 BOM is recognized and skipped exactly once; per spec.md
// §4.2.1, the BOM's bytes still count toward position tracking.
func From(input []byte) *Tokenizer {
	t := &Tokenizer{stream: newStream(input), state: StateStart}
	applyBOM(t)
	return t
}

// applyBOM skips a leading UTF-8 BOM and rejects any other recognized
// BOM as unsupported, since this tokenizer only ever reads UTF-8.
func applyBOM(t *Tokenizer) {
	kind, n := bomsniff.Detect(t.stream.Input())
	switch kind {
	case bomsniff.UTF8:
		t.stream.Advance(n)
	case bomsniff.Other:
		e := errAt(ErrInvalidUtf8, t.stream.TextPos())
		t.state = StateError
		t.fatalErr = e
		t.pendingErr = e
	}
}

// FromFragment constructs a Tokenizer for an element's content: the
// prolog and DTD productions are disabled, and the tokenizer behaves
// as though it were already positioned inside an element one level
// deep, without ever emitting that element's ElementStart. fragmentName
// is metadata describing the virtual enclosing element; it is not
// read from input and is never validated against a matching close tag
// (structural validation is out of scope, per spec.md §1).
func FromFragment(input []byte, fragmentName []byte) *Tokenizer {
	t := &Tokenizer{
		stream:   newStream(input),
		state:    StateFragment,
		depth:    1,
		seenRoot: true,
	}
	applyBOM(t)
	t.fragmentName = append([]byte(nil), fragmentName...)
	return t
}

// FragmentName returns the name passed to FromFragment, or nil for a
// Tokenizer constructed with From.
func (t *Tokenizer) FragmentName() []byte {
	return t.fragmentName
}

// Stream exposes the tokenizer's current cursor, read-only in the
// sense that callers are expected only to inspect position and
// content, never to mutate it directly.
func (t *Tokenizer) Stream() *Stream {
	return &t.stream
}

// State reports the tokenizer's current top-level state.
func (t *Tokenizer) State() State {
	return t.state
}

// Depth reports the current element-nesting counter. It is maintained
// purely for emission bookkeeping (spec.md §3): it is never used to
// validate that end tags match their start tags.
func (t *Tokenizer) Depth() uint {
	return t.depth
}

// Err returns the fatal error that ended tokenization, or nil if the
// tokenizer reached a clean end of input (or hasn't stopped yet).
func (t *Tokenizer) Err() error {
	if t.fatalErr == nil {
		return nil
	}
	return t.fatalErr
}

// Next pulls the next token. It returns io.EOF both when the document
// is exhausted and, on every call after the first, once a fatal error
// has occurred — callers that need to distinguish the two check Err.
// The first call that encounters a fatal error returns that error
// directly; Err also remembers it afterward.
func (t *Tokenizer) Next() (Token, error) {
	if t.state == StateError {
		if t.pendingErr != nil {
			err := t.pendingErr
			t.pendingErr = nil
			return Token{}, err
		}
		return Token{}, io.EOF
	}
	if t.state == StateFinished {
		return Token{}, io.EOF
	}
	tok, err := t.next()
	if err == io.EOF {
		return Token{}, io.EOF
	}
	if err != nil {
		t.state = StateError
		if e, ok := err.(*Error); ok {
			t.fatalErr = e
		} else {
			t.fatalErr = errAt(ErrUnknownToken, t.stream.TextPos())
		}
		return Token{}, err
	}
	return tok, nil
}

func (t *Tokenizer) next() (Token, error) {
	switch t.state {
	case StateStart:
		return t.parseStart()
	case StateAfterDeclaration, StateAfterDTD:
		if t.inDtdSubset {
			return t.parseDtdSubsetItem()
		}
		return t.parseProlog()
	case StateAfterRoot:
		return t.parseAfterRoot()
	case StateElements, StateFragment:
		if t.inTag {
			return t.parseTagTail()
		}
		return t.parseElementsContent()
	default:
		return Token{}, io.EOF
	}
}

func (t *Tokenizer) parseStart() (Token, error) {
	if t.stream.StartsWith([]byte("<?xml")) {
		pos := t.stream.Pos() + len("<?xml")
		if pos < len(t.stream.Input()) && charclass.IsAsciiSpace(t.stream.Input()[pos]) {
			tok, err := t.parseDeclaration()
			if err != nil {
				return Token{}, err
			}
			t.seenDeclaration = true
			t.state = StateAfterDeclaration
			return tok, nil
		}
	}
	t.state = StateAfterDeclaration
	return t.parseProlog()
}

// parseDeclaration reads <?xml version="1.0" encoding="..."?
// standalone="yes|no"?>. It is only called once, at offset 0.
func (t *Tokenizer) parseDeclaration() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<?xml")); err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()

	if err := t.stream.ConsumeBytes([]byte("version")); err != nil {
		return Token{}, err
	}
	if err := t.stream.ConsumeEq(); err != nil {
		return Token{}, err
	}
	_, version, err := t.stream.ConsumeQuotedString()
	if err != nil {
		return Token{}, err
	}
	if string(version.Slice(t.stream.Input())) != "1.0" {
		return Token{}, errAt(ErrUnknownXmlDeclVersion, t.stream.TextPosFrom(version.Start))
	}

	tok := Token{Kind: Declaration, Version: version}

	savedPos := t.stream.Pos()
	t.stream.SkipSpaces()
	if t.stream.StartsWith([]byte("encoding")) {
		t.stream.Advance(len("encoding"))
		if err := t.stream.ConsumeEq(); err != nil {
			return Token{}, err
		}
		_, enc, err := t.stream.ConsumeQuotedString()
		if err != nil {
			return Token{}, err
		}
		tok.HasEncoding = true
		tok.Encoding = enc
	} else {
		t.stream.pos = savedPos
	}

	savedPos = t.stream.Pos()
	t.stream.SkipSpaces()
	if t.stream.StartsWith([]byte("standalone")) {
		t.stream.Advance(len("standalone"))
		if err := t.stream.ConsumeEq(); err != nil {
			return Token{}, err
		}
		_, sa, err := t.stream.ConsumeQuotedString()
		if err != nil {
			return Token{}, err
		}
		saVal := sa.Slice(t.stream.Input())
		switch string(saVal) {
		case "yes":
			tok.HasStandalone = true
			tok.Standalone = true
		case "no":
			tok.HasStandalone = true
			tok.Standalone = false
		default:
			return Token{}, errAt(ErrInvalidString, t.stream.TextPosFrom(sa.Start))
		}
	} else {
		t.stream.pos = savedPos
	}

	t.stream.SkipSpaces()
	if err := t.stream.ConsumeBytes([]byte("?>")); err != nil {
		return Token{}, err
	}
	tok.Span = Span{Start: start, End: t.stream.Pos()}
	return tok, nil
}

// parseProlog handles the productions allowed between the declaration
// and the root element: comments, PIs, and at most one DTD.
func (t *Tokenizer) parseProlog() (Token, error) {
	t.stream.SkipSpaces()
	if t.stream.AtEnd() {
		t.state = StateFinished
		return Token{}, io.EOF
	}
	switch {
	case t.stream.StartsWith([]byte("<!--")):
		return t.parseComment()
	case t.stream.StartsWith([]byte("<!DOCTYPE")):
		return t.parseDoctypeStart()
	case t.stream.StartsWith([]byte("<?")):
		return t.parsePI()
	case t.stream.StartsWith([]byte("<")):
		return t.parseElementStart()
	default:
		return Token{}, errAt(ErrUnknownToken, t.stream.TextPos())
	}
}

// parseAfterRoot handles the region after the root element has fully
// closed: only comments, PIs, and whitespace are permitted.
func (t *Tokenizer) parseAfterRoot() (Token, error) {
	t.stream.SkipSpaces()
	if t.stream.AtEnd() {
		t.state = StateFinished
		return Token{}, io.EOF
	}
	switch {
	case t.stream.StartsWith([]byte("<!--")):
		return t.parseComment()
	case t.stream.StartsWith([]byte("<?")):
		return t.parsePI()
	case t.stream.StartsWith([]byte("<")):
		// Always an error: by the time we're in StateAfterRoot the
		// root has already opened and fully closed once.
		return t.parseElementStart()
	default:
		return Token{}, errAt(ErrUnknownToken, t.stream.TextPos())
	}
}
