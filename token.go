// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// TokenKind discriminates the tagged-variant fields of a Token. Only
// the fields documented for a given Kind are meaningful; the rest are
// left at their zero value.
type TokenKind int

const (
	Declaration TokenKind = iota
	ProcessingInstruction
	Comment
	DtdStart
	EmptyDtd
	EntityDeclaration
	DtdEnd
	ElementStart
	Attribute
	ElementEnd
	Text
	Cdata
)

// ElementEndKind distinguishes the three ways an element tag can
// close, carried by Token.End when Kind == ElementEnd.
type ElementEndKind int

const (
	// Open is a plain '>' ending a start tag: <a>.
	Open ElementEndKind = iota
	// Close is an end tag: </a>, or </p:a> with Prefix set.
	Close
	// Empty is a self-closing tag: <a/>.
	Empty
)

// Token is a tagged-variant XML token. Every Span field borrows from
// the Tokenizer's input and is only valid while that input is alive.
// Span covers the entire token, from its opening delimiter to its
// closing delimiter; the per-field spans (Name, Value, ...) are
// sub-spans of Span. Optional fields carry a Has* boolean alongside
// them rather than relying on a zero Span as a sentinel, since a
// legitimately empty value and an absent one are both zero Spans.
type Token struct {
	Kind TokenKind
	Span Span

	// Declaration
	Version       Span
	HasEncoding   bool
	Encoding      Span
	HasStandalone bool
	Standalone    bool // parsed value of "yes"/"no"

	// ProcessingInstruction
	Target     Span
	HasContent bool
	Content    Span

	// Comment, Text, Cdata
	Text Span

	// DtdStart, EmptyDtd, EntityDeclaration
	Name          Span
	HasExternalID bool
	ExternalID    Span
	Definition    Span // EntityDeclaration only

	// ElementStart, Attribute, ElementEnd{Close}
	Prefix Span // zero-length Span when the name is unqualified
	Local  Span

	// Attribute
	Value Span

	// ElementEnd
	End ElementEndKind
}

// HasPrefix reports whether a qualified name field (ElementStart,
// Attribute, or ElementEnd{Close}) carries a non-empty prefix.
func (t Token) HasPrefix() bool {
	return !t.Prefix.IsEmpty()
}
