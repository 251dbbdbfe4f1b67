// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// parseDoctypeStart reads <!DOCTYPE Name ExternalID? ('['  |  '>').
// A second DOCTYPE anywhere in the prolog is DoctypeExists.
func (t *Tokenizer) parseDoctypeStart() (Token, error) {
	if t.seenDoctype {
		return Token{}, errAt(ErrDoctypeExists, t.stream.TextPos())
	}
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<!DOCTYPE")); err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	name, err := t.stream.ConsumeName()
	if err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	extID, hasExtID, err := t.parseExternalID()
	if err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	b, err := t.stream.CurrByte()
	if err != nil {
		return Token{}, err
	}
	t.seenDoctype = true

	if b == '[' {
		t.stream.Advance(1)
		t.inDtdSubset = true
		span := Span{Start: start, End: t.stream.Pos()}
		return Token{Kind: DtdStart, Span: span, Name: name, HasExternalID: hasExtID, ExternalID: extID}, nil
	}

	if err := t.stream.ConsumeByte('>'); err != nil {
		return Token{}, err
	}
	t.state = StateAfterDTD
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: EmptyDtd, Span: span, Name: name, HasExternalID: hasExtID, ExternalID: extID}, nil
}

// parseExternalID reads an optional ExternalID: SYSTEM SystemLiteral,
// or PUBLIC PubidLiteral SystemLiteral. The returned Span covers both
// literals and everything between them; it is zero and hasID is false
// when neither keyword is present.
func (t *Tokenizer) parseExternalID() (id Span, hasID bool, err error) {
	start := t.stream.Pos()
	switch {
	case t.stream.StartsWith([]byte("SYSTEM")):
		t.stream.Advance(len("SYSTEM"))
		t.stream.SkipSpaces()
		if _, _, err := t.stream.ConsumeQuotedString(); err != nil {
			return Span{}, false, err
		}
		return Span{Start: start, End: t.stream.Pos()}, true, nil
	case t.stream.StartsWith([]byte("PUBLIC")):
		t.stream.Advance(len("PUBLIC"))
		t.stream.SkipSpaces()
		if _, _, err := t.stream.ConsumeQuotedString(); err != nil {
			return Span{}, false, err
		}
		t.stream.SkipSpaces()
		if _, _, err := t.stream.ConsumeQuotedString(); err != nil {
			return Span{}, false, err
		}
		return Span{Start: start, End: t.stream.Pos()}, true, nil
	default:
		return Span{}, false, nil
	}
}

// parseDtdSubsetItem reads items inside the internal subset ('[...]').
// Only <!ENTITY name "definition"> is surfaced as a Token; any other
// markup declaration or parameter-entity reference is consumed and
// silently dropped, in a loop rather than by recursion, until either a
// reportable item or the subset's closing ']' is found.
func (t *Tokenizer) parseDtdSubsetItem() (Token, error) {
	for {
		t.stream.SkipSpaces()
		if t.stream.AtEnd() {
			return Token{}, errAt(ErrUnexpectedEndOfStream, t.stream.TextPos())
		}
		b, _ := t.stream.CurrByte()
		switch {
		case b == ']':
			start := t.stream.Pos()
			t.stream.Advance(1)
			t.stream.SkipSpaces()
			if err := t.stream.ConsumeByte('>'); err != nil {
				return Token{}, err
			}
			t.inDtdSubset = false
			t.state = StateAfterDTD
			return Token{Kind: DtdEnd, Span: Span{Start: start, End: t.stream.Pos()}}, nil
		case b == '%':
			if err := t.skipUntilByte(';'); err != nil {
				return Token{}, err
			}
		case t.stream.StartsWith([]byte("<!ENTITY")):
			save := t.stream.Pos()
			t.stream.Advance(len("<!ENTITY"))
			t.stream.SkipSpaces()
			simple := !t.stream.StartsWith([]byte("%"))
			if simple {
				if _, err := t.stream.ConsumeName(); err == nil {
					t.stream.SkipSpaces()
					simple = !t.stream.StartsWith([]byte("SYSTEM")) && !t.stream.StartsWith([]byte("PUBLIC"))
				}
			}
			t.stream.pos = save
			if simple {
				return t.parseEntityDeclaration()
			}
			if err := t.skipUntilByte('>'); err != nil {
				return Token{}, err
			}
		case b == '<':
			if err := t.skipUntilByte('>'); err != nil {
				return Token{}, err
			}
		default:
			return Token{}, errAt(ErrUnknownToken, t.stream.TextPos())
		}
	}
}

// parseEntityDeclaration reads <!ENTITY Name "definition">. General,
// parameter, and external entity forms beyond this simple shape are
// out of scope (see spec.md's Non-goals); they fall through to
// skipUntilByte in parseDtdSubsetItem instead.
func (t *Tokenizer) parseEntityDeclaration() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<!ENTITY")); err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	name, err := t.stream.ConsumeName()
	if err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	_, def, err := t.stream.ConsumeQuotedString()
	if err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	if err := t.stream.ConsumeByte('>'); err != nil {
		return Token{}, err
	}
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: EntityDeclaration, Span: span, Name: name, Definition: def}, nil
}

// skipUntilByte advances the cursor past the next unquoted occurrence
// of delim, consuming quoted strings whole so a delimiter byte inside
// one doesn't end the scan early.
func (t *Tokenizer) skipUntilByte(delim byte) error {
	for {
		b, err := t.stream.CurrByte()
		if err != nil {
			return err
		}
		if b == '\'' || b == '"' {
			if _, _, err := t.stream.ConsumeQuotedString(); err != nil {
				return err
			}
			continue
		}
		t.stream.Advance(1)
		if b == delim {
			return nil
		}
	}
}
