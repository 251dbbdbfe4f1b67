// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

import (
	"io"
	"strconv"
	"testing"
	"testing/quick"
)

// collect drains a Tokenizer, returning every Token it produced and the
// terminal error (io.EOF on a clean end).
func collect(t *Tokenizer) ([]Token, error) {
	var toks []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

// S1: a minimal well-formed document with a declaration and an empty
// root parses as Declaration, ElementStart, ElementEnd{Empty}.
func TestS1MinimalDocument(t *testing.T) {
	input := []byte(`<?xml version="1.0"?><root/>`)
	tok := From(input)
	toks, err := collect(tok)
	if err != io.EOF {
		t.Fatalf("collect: %v", err)
	}
	wantKinds := []TokenKind{Declaration, ElementStart, ElementEnd}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantKinds))
	}
	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Errorf("token %d: Kind = %v, want %v", i, toks[i].Kind, want)
		}
	}
	if toks[2].End != Empty {
		t.Errorf("ElementEnd.End = %v, want Empty", toks[2].End)
	}
	if toks[0].Span != (Span{Start: 0, End: len(`<?xml version="1.0"?>`)}) {
		t.Errorf("Declaration.Span = %v, want the whole declaration", toks[0].Span)
	}
}

// S2: a document with DOCTYPE, comments and PIs in the prolog and
// epilogue.
func TestS2ProlgAndEpilogue(t *testing.T) {
	input := []byte(`<?xml version="1.0"?><!--c1--><!DOCTYPE r><?pi data?><r/><!--c2-->`)
	tok := From(input)
	toks, err := collect(tok)
	if err != io.EOF {
		t.Fatalf("collect: %v", err)
	}
	wantKinds := []TokenKind{Declaration, Comment, EmptyDtd, ProcessingInstruction, ElementStart, ElementEnd, Comment}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens (%v), want %d", len(toks), kindsOf(toks), len(wantKinds))
	}
	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Errorf("token %d: Kind = %v, want %v", i, toks[i].Kind, want)
		}
	}
}

func kindsOf(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

// S4: nested elements with text and attributes.
func TestS4NestedElements(t *testing.T) {
	input := []byte(`<a x="1"><b>text</b></a>`)
	tok := From(input)
	toks, err := collect(tok)
	if err != io.EOF {
		t.Fatalf("collect: %v", err)
	}
	wantKinds := []TokenKind{ElementStart, Attribute, ElementEnd, ElementStart, ElementEnd, Text, ElementEnd, ElementEnd}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens (%v), want %d", len(toks), kindsOf(toks), len(wantKinds))
	}
	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Errorf("token %d: Kind = %v, want %v", i, toks[i].Kind, want)
		}
	}
	if text := toks[5].Text.AsStr(input); text != "text" {
		t.Errorf("Text = %q, want %q", text, "text")
	}
}

// S5/S6: a lone "]>" is legal character data, but "]]>" is not.
func TestS5S6CharacterDataBracketRules(t *testing.T) {
	good := From([]byte(`<a>x]>y</a>`))
	if _, err := good.Next(); err != nil {
		t.Fatalf("ElementStart: %v", err)
	}
	if _, err := good.Next(); err != nil {
		t.Fatalf("ElementEnd: %v", err)
	}
	if _, err := good.Next(); err != nil {
		t.Fatalf("Text with lone ']>': %v", err)
	}

	bad := From([]byte(`<a>x]]>y</a>`))
	if _, err := bad.Next(); err != nil {
		t.Fatalf("ElementStart: %v", err)
	}
	if _, err := bad.Next(); err != nil {
		t.Fatalf("ElementEnd: %v", err)
	}
	_, err := bad.Next()
	if err == nil {
		t.Fatal("want ErrInvalidCharacterData for \"]]>\", got none")
	}
}

// S7: attributes must be separated by whitespace (fixed upstream in
// 0.12.0).
func TestS7AttributeSeparation(t *testing.T) {
	tok := From([]byte(`<a x="1"y="2"/>`))
	if _, err := tok.Next(); err != nil {
		t.Fatalf("ElementStart: %v", err)
	}
	if _, err := tok.Next(); err != nil {
		t.Fatalf("first attribute: %v", err)
	}
	_, err := tok.Next()
	if err == nil {
		t.Fatal("want ErrInvalidSpace, got none")
	}
	xerr, ok := err.(*Error)
	if !ok || xerr.Kind != ErrInvalidSpace {
		t.Errorf("err = %v, want ErrInvalidSpace", err)
	}
}

// Property: a self-closing root transitions straight to StateAfterRoot,
// same as a normal open/close root, since depth returning to zero is
// the only trigger, not which terminator caused it.
func TestDepthReturnsToZeroTriggersAfterRootUniformly(t *testing.T) {
	for i, input := range []string{`<r/>`, `<r></r>`} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			tok := From([]byte(input))
			for {
				got, err := tok.Next()
				if err != nil {
					t.Fatalf("Next: %v", err)
				}
				if got.Kind == ElementEnd && got.End != Open {
					break
				}
			}
			if tok.State() != StateAfterRoot {
				t.Errorf("State() = %v, want StateAfterRoot", tok.State())
			}
			if tok.Depth() != 0 {
				t.Errorf("Depth() = %d, want 0", tok.Depth())
			}
			if _, err := collect(tok); err != io.EOF {
				t.Fatalf("collect: %v", err)
			}
		})
	}
}

// Property: depth is monotonic across matched Open/Close pairs: it
// never goes negative, and a document with N nested elements returns
// to exactly the same depth it started at.
func TestDepthMonotonicity(t *testing.T) {
	input := []byte(`<a><b><c/></b></a>`)
	tok := From(input)
	var maxDepth uint
	for {
		_, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Depth() > maxDepth {
			maxDepth = tok.Depth()
		}
	}
	if maxDepth != 2 {
		t.Errorf("maxDepth = %d, want 2", maxDepth)
	}
	if tok.Depth() != 0 {
		t.Errorf("final Depth() = %d, want 0", tok.Depth())
	}
}

// Property: fragment mode never triggers StateAfterRoot, so multiple
// top-level siblings are legal, unlike full-document mode.
func TestFragmentModeAllowsMultipleSiblings(t *testing.T) {
	tok := FromFragment([]byte(`<a/><b/>text`), []byte("root"))
	toks, err := collect(tok)
	if err != io.EOF {
		t.Fatalf("collect: %v", err)
	}
	wantKinds := []TokenKind{ElementStart, ElementEnd, ElementStart, ElementEnd, Text}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens (%v), want %d", len(toks), kindsOf(toks), len(wantKinds))
	}
	if tok.State() != StateFinished {
		t.Errorf("State() = %v, want StateFinished", tok.State())
	}
}

func TestFragmentNameRoundTrip(t *testing.T) {
	tok := FromFragment([]byte(`text`), []byte("envelope"))
	if got := string(tok.FragmentName()); got != "envelope" {
		t.Errorf("FragmentName() = %q, want %q", got, "envelope")
	}
	if From([]byte(`<r/>`)).FragmentName() != nil {
		t.Error("FragmentName() on a From tokenizer should be nil")
	}
}

// Property: an ill-formed document in full-document mode (e.g. an
// unclosed element) is UnexpectedEndOfStream, not a silent clean end.
func TestUnclosedElementIsFatal(t *testing.T) {
	tok := From([]byte(`<a><b></a>`))
	_, err := collect(tok)
	if err == io.EOF {
		t.Fatal("want a fatal error, got a clean io.EOF")
	}
}

// Property: positions are deterministic — running Next over the same
// input twice produces identical spans and positions every time.
func TestPositionDeterminism(t *testing.T) {
	input := []byte(`<?xml version="1.0"?><a x="1"><b>text</b></a>`)
	first, err := collect(From(input))
	if err != io.EOF {
		t.Fatalf("first run: %v", err)
	}
	second, err := collect(From(input))
	if err != io.EOF {
		t.Fatalf("second run: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("token count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// Property: a UTF-8 BOM is stripped but still counted toward position
// tracking (spec.md's resolved Open Question).
func TestBOMCountsTowardPosition(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`<r/>`)...)
	tok := From(input)
	got, err := tok.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Span.Start != 3 {
		t.Errorf("ElementStart.Span.Start = %d, want 3 (after the BOM)", got.Span.Start)
	}
}

// Property: any non-UTF-8 BOM is a one-shot fatal construction-time
// error, surfaced on the very first Next call.
func TestNonUTF8BOMIsFatal(t *testing.T) {
	input := append([]byte{0xFF, 0xFE}, []byte(`<r/>`)...)
	tok := From(input)
	_, err := tok.Next()
	if err == nil {
		t.Fatal("want ErrInvalidUtf8 for a UTF-16LE BOM, got none")
	}
	xerr, ok := err.(*Error)
	if !ok || xerr.Kind != ErrInvalidUtf8 {
		t.Fatalf("err = %v, want ErrInvalidUtf8", err)
	}
	// Every subsequent call reports a clean io.EOF, with Err still
	// remembering the fatal error.
	if _, err := tok.Next(); err != io.EOF {
		t.Errorf("second Next() = %v, want io.EOF", err)
	}
	if tok.Err() == nil {
		t.Error("Err() = nil, want the remembered fatal error")
	}
}

// Property: predefined entity references are never expanded by the
// core tokenizer; &amp; inside an attribute value is preserved as raw
// bytes in the Value span, not decoded to "&".
func TestPredefinedEntityNotExpandedInAttributeValue(t *testing.T) {
	tok := From([]byte(`<a b="x&amp;y"/>`))
	if _, err := tok.Next(); err != nil {
		t.Fatalf("ElementStart: %v", err)
	}
	attr, err := tok.Next()
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if got := attr.Value.AsStr(tok.Stream().Input()); got != "x&amp;y" {
		t.Errorf("Value = %q, want %q (raw, unexpanded)", got, "x&amp;y")
	}
}

// Property: a second "<?xml ...?>"-shaped processing instruction
// anywhere is XmlDeclExists, whether or not it looks like a real
// declaration.
func TestSecondXmlDeclarationIsFatal(t *testing.T) {
	tok := From([]byte(`<?xml version="1.0"?><r><?xml foo?></r>`))
	if _, err := tok.Next(); err != nil { // Declaration
		t.Fatalf("Declaration: %v", err)
	}
	if _, err := tok.Next(); err != nil { // ElementStart
		t.Fatalf("ElementStart: %v", err)
	}
	if _, err := tok.Next(); err != nil { // '>'
		t.Fatalf("ElementEnd: %v", err)
	}
	_, err := tok.Next()
	if err == nil {
		t.Fatal("want ErrXmlDeclExists, got none")
	}
	xerr, ok := err.(*Error)
	if !ok || xerr.Kind != ErrXmlDeclExists {
		t.Errorf("err = %v, want ErrXmlDeclExists", err)
	}
}

// Property: no-panics — an arbitrary byte slice, valid UTF-8 or not,
// never causes Next to panic; it always either produces tokens, a
// fatal *Error, or io.EOF.
func TestNoPanicsOnArbitraryInput(t *testing.T) {
	f := func(b []byte) bool {
		defer func() {
			if r := recover(); r != nil {
				panic(r) // re-panic so quick.Check reports the failing input
			}
		}()
		tok := From(b)
		for i := 0; i < 10000; i++ {
			_, err := tok.Next()
			if err != nil {
				return true
			}
		}
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

// Property: the tokenizer never recurses per nesting level, so it
// handles very deep nesting without a stack overflow.
func TestDeepNestingDoesNotOverflowStack(t *testing.T) {
	const depth = 100000
	input := make([]byte, 0, depth*7)
	for i := 0; i < depth; i++ {
		input = append(input, []byte("<a>")...)
	}
	for i := 0; i < depth; i++ {
		input = append(input, []byte("</a>")...)
	}
	tok := From(input)
	var maxDepth uint
	for {
		_, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Depth() > maxDepth {
			maxDepth = tok.Depth()
		}
	}
	if maxDepth != depth {
		t.Errorf("maxDepth = %d, want %d", maxDepth, depth)
	}
	if tok.State() != StateFinished {
		t.Errorf("State() = %v, want StateFinished", tok.State())
	}
}

// Property, mirrored at the tokenizer level from TestColumnIsUnicodeAware
// in textpos_test.go: an invalid byte inside a malformed tag reports a
// column counted in codepoints, not bytes.
func TestTokenizerLevelUnicodeColumn(t *testing.T) {
	// The first Cyrillic letter is a valid NameStartChar, so "<тег"
	// parses as an in-progress QName; feeding it a stray invalid byte
	// (an unescaped '&' mid-tag with no following name) produces an
	// error whose column must count "тег" as 3 codepoints, not 6 bytes.
	input := []byte("<тег&/>")
	tok := From(input)
	if _, err := tok.Next(); err != nil { // ElementStart: "тег" is a legal QName
		t.Fatalf("ElementStart: %v", err)
	}
	_, err := tok.Next()
	if err == nil {
		t.Fatal("want an error for the stray '&' after the name, got none")
	}
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v (%T), want *Error", err, err)
	}
	if xerr.Pos.Col != 5 {
		t.Errorf("Pos.Col = %d, want 5 (1 for '<' + 3 for \"тег\" + 1)", xerr.Pos.Col)
	}
}
