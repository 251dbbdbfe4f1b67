// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

import (
	"bytes"
	"io"

	"lithium.im/xmltok/internal/charclass"
)

// parseElementStart reads '<' QName, emitting ElementStart. The first
// time this runs from the prolog it opens the root; a later call from
// StateAfterRoot always fails with UnknownToken, since by definition
// the root has already opened and fully closed by then.
func (t *Tokenizer) parseElementStart() (Token, error) {
	if t.state == StateAfterRoot {
		return Token{}, errAt(ErrUnknownToken, t.stream.TextPos())
	}

	start := t.stream.Pos()
	if err := t.stream.ConsumeByte('<'); err != nil {
		return Token{}, err
	}
	prefix, local, err := t.stream.ConsumeQName()
	if err != nil {
		return Token{}, err
	}
	span := Span{Start: start, End: t.stream.Pos()}

	switch t.state {
	case StateStart, StateAfterDeclaration, StateAfterDTD:
		t.seenRoot = true
		t.state = StateElements
	}
	t.inTag = true
	return Token{Kind: ElementStart, Span: span, Prefix: prefix, Local: local}, nil
}

// parseTagTail is called between an ElementStart or Attribute and the
// tag's terminator. It enforces the rule (fixed upstream in 0.12.0)
// that consecutive attributes must be separated by whitespace.
func (t *Tokenizer) parseTagTail() (Token, error) {
	b, err := t.stream.CurrByte()
	if err != nil {
		return Token{}, err
	}
	if charclass.IsAsciiSpace(b) {
		t.stream.SkipSpaces()
		b, err = t.stream.CurrByte()
		if err != nil {
			return Token{}, err
		}
		if b == '/' || b == '>' {
			return t.parseTagTerminator()
		}
		return t.parseAttribute()
	}
	if b == '/' || b == '>' {
		return t.parseTagTerminator()
	}
	return Token{}, errAt(ErrInvalidSpace, t.stream.TextPos())
}

func (t *Tokenizer) parseTagTerminator() (Token, error) {
	start := t.stream.Pos()
	b, _ := t.stream.CurrByte()
	if b == '/' {
		t.stream.Advance(1)
		if err := t.stream.ConsumeByte('>'); err != nil {
			return Token{}, err
		}
		t.inTag = false
		span := Span{Start: start, End: t.stream.Pos()}
		return t.finishElementEnd(Token{Kind: ElementEnd, Span: span, End: Empty})
	}
	t.stream.Advance(1) // '>'
	t.inTag = false
	t.depth++
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: ElementEnd, Span: span, End: Open}, nil
}

// finishElementEnd transitions to StateAfterRoot when a terminator
// brings the nesting depth back to zero outside fragment mode.
func (t *Tokenizer) finishElementEnd(tok Token) (Token, error) {
	if t.state == StateElements && t.depth == 0 {
		t.state = StateAfterRoot
	}
	return tok, nil
}

// parseAttribute reads QName Eq QuotedString. References inside the
// value are left unexpanded: the raw span, entities and all, is what
// gets stored, matching spec.md's decision to leave reference
// expansion to a caller.
func (t *Tokenizer) parseAttribute() (Token, error) {
	start := t.stream.Pos()
	prefix, local, err := t.stream.ConsumeQName()
	if err != nil {
		return Token{}, err
	}
	if err := t.stream.ConsumeEq(); err != nil {
		return Token{}, err
	}
	_, value, err := t.stream.ConsumeQuotedString()
	if err != nil {
		return Token{}, err
	}
	if err := t.stream.validateChars(value); err != nil {
		return Token{}, err
	}
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: Attribute, Span: span, Prefix: prefix, Local: local, Value: value}, nil
}

// parseElementsContent is the dispatcher for everything that can
// appear between tags: text, markup, and nested or closing tags.
func (t *Tokenizer) parseElementsContent() (Token, error) {
	if t.stream.AtEnd() {
		if t.state == StateFragment {
			t.state = StateFinished
			return Token{}, io.EOF
		}
		return Token{}, errAt(ErrUnexpectedEndOfStream, t.stream.TextPos())
	}
	b, _ := t.stream.CurrByte()
	if b != '<' {
		return t.parseText()
	}
	switch {
	case t.stream.StartsWith([]byte("</")):
		return t.parseEndTag()
	case t.stream.StartsWith([]byte("<!--")):
		return t.parseComment()
	case t.stream.StartsWith([]byte("<![CDATA[")):
		return t.parseCdata()
	case t.stream.StartsWith([]byte("<?")):
		return t.parsePI()
	default:
		return t.parseElementStart()
	}
}

func (t *Tokenizer) parseEndTag() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("</")); err != nil {
		return Token{}, err
	}
	prefix, local, err := t.stream.ConsumeQName()
	if err != nil {
		return Token{}, err
	}
	t.stream.SkipSpaces()
	if err := t.stream.ConsumeByte('>'); err != nil {
		return Token{}, err
	}
	if t.depth > 0 {
		t.depth--
	}
	span := Span{Start: start, End: t.stream.Pos()}
	return t.finishElementEnd(Token{Kind: ElementEnd, Span: span, End: Close, Prefix: prefix, Local: local})
}

// parseText scans character data up to the next '<'. The literal
// sequence "]]>" is forbidden outside CDATA (a lone "]>" is legal);
// this is the behavior fixed upstream, not the letter-of-the-grammar
// reading that would forbid any "]]" at all.
func (t *Tokenizer) parseText() (Token, error) {
	start := t.stream.Pos()
	for !t.stream.AtEnd() {
		b, _ := t.stream.CurrByte()
		if b == '<' {
			break
		}
		t.stream.Advance(1)
	}
	span := Span{Start: start, End: t.stream.Pos()}
	if err := t.stream.validateChars(span); err != nil {
		return Token{}, err
	}
	if idx := bytes.Index(span.Slice(t.stream.Input()), []byte("]]>")); idx >= 0 {
		return Token{}, errAt(ErrInvalidCharacterData, t.stream.TextPosFrom(span.Start+idx))
	}
	return Token{Kind: Text, Span: span, Text: span}, nil
}

// parseComment reads <!-- ... -->. The first occurrence of "--" must
// be immediately followed by '>'; this single rule both forbids a bare
// "--" anywhere in the body and forbids a body ending in "-" (which
// would otherwise produce the illegal "--->").
func (t *Tokenizer) parseComment() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<!--")); err != nil {
		return Token{}, err
	}
	textStart := t.stream.Pos()
	for {
		if t.stream.AtEnd() {
			return Token{}, errAt(ErrUnexpectedEndOfStream, t.stream.TextPos())
		}
		if t.stream.StartsWith([]byte("--")) {
			break
		}
		t.stream.Advance(1)
	}
	textEnd := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("--")); err != nil {
		return Token{}, err
	}
	if err := t.stream.ConsumeByte('>'); err != nil {
		return Token{}, err
	}
	textSpan := Span{Start: textStart, End: textEnd}
	if err := t.stream.validateChars(textSpan); err != nil {
		return Token{}, err
	}
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: Comment, Span: span, Text: textSpan}, nil
}

// parseCdata reads <![CDATA[ ... ]]>. Unlike text, "]]>" is the only
// thing forbidden in the content and nothing else needs escaping.
func (t *Tokenizer) parseCdata() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<![CDATA[")); err != nil {
		return Token{}, err
	}
	textStart := t.stream.Pos()
	for {
		if t.stream.AtEnd() {
			return Token{}, errAt(ErrUnexpectedEndOfStream, t.stream.TextPos())
		}
		if t.stream.StartsWith([]byte("]]>")) {
			break
		}
		t.stream.Advance(1)
	}
	textSpan := Span{Start: textStart, End: t.stream.Pos()}
	if err := t.stream.validateChars(textSpan); err != nil {
		return Token{}, err
	}
	t.stream.Advance(3)
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: Cdata, Span: span, Text: textSpan}, nil
}

// parsePI reads <?target content?>. A target of "xml", compared
// case-insensitively, is reserved for the declaration and is always
// XmlDeclExists here, whether this is a second declaration-looking PI
// in the prolog or one appearing anywhere in element content.
func (t *Tokenizer) parsePI() (Token, error) {
	start := t.stream.Pos()
	if err := t.stream.ConsumeBytes([]byte("<?")); err != nil {
		return Token{}, err
	}
	target, err := t.stream.ConsumeName()
	if err != nil {
		return Token{}, err
	}
	if isXMLTargetFold(target.Slice(t.stream.Input())) {
		return Token{}, errAt(ErrXmlDeclExists, t.stream.TextPosFrom(target.Start))
	}

	var content Span
	hasContent := false
	b, err := t.stream.CurrByte()
	if err != nil {
		return Token{}, err
	}
	if charclass.IsAsciiSpace(b) {
		t.stream.SkipSpaces()
		contentStart := t.stream.Pos()
		for {
			if t.stream.AtEnd() {
				return Token{}, errAt(ErrUnexpectedEndOfStream, t.stream.TextPos())
			}
			if t.stream.StartsWith([]byte("?>")) {
				break
			}
			t.stream.Advance(1)
		}
		content = Span{Start: contentStart, End: t.stream.Pos()}
		if err := t.stream.validateChars(content); err != nil {
			return Token{}, err
		}
		hasContent = true
	}
	if err := t.stream.ConsumeBytes([]byte("?>")); err != nil {
		return Token{}, err
	}
	span := Span{Start: start, End: t.stream.Pos()}
	return Token{Kind: ProcessingInstruction, Span: span, Target: target, HasContent: hasContent, Content: content}, nil
}

func isXMLTargetFold(b []byte) bool {
	if len(b) != 3 {
		return false
	}
	return (b[0]|0x20) == 'x' && (b[1]|0x20) == 'm' && (b[2]|0x20) == 'l'
}
