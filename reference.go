// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// ReferenceKind distinguishes a decoded character reference from a
// named entity reference.
type ReferenceKind int

const (
	// RefChar is a numeric character reference, &#68; or &#x44;,
	// already decoded into its Unicode scalar value.
	RefChar ReferenceKind = iota
	// RefEntity is a named reference, &name;, including the five
	// predefined entities (amp, lt, gt, apos, quot). As of the
	// behavior fixed upstream in 0.13.5, predefined entities are
	// reported as RefEntity, never silently decoded to RefChar.
	RefEntity
)

// Reference is the result of Stream.ConsumeReference: either a decoded
// character or the span of an entity name, never both.
type Reference struct {
	Kind ReferenceKind
	// Char holds the decoded scalar value when Kind == RefChar.
	Char rune
	// Name holds the entity name's span (without & or ;) when
	// Kind == RefEntity.
	Name Span
}
