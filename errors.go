// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// Kind identifies the category of a tokenizer Error, following the
// lexical/structural/one-shot taxonomy in spec.md §7.
type Kind int

// The error taxonomy. Every Kind is fatal: once Next returns an error,
// the Tokenizer enters the Error state and every subsequent call
// returns (Token{}, io.EOF).
const (
	// Lexical errors.
	ErrUnexpectedEndOfStream Kind = iota
	ErrInvalidChar
	ErrInvalidCharMultiple
	ErrInvalidQuote
	ErrInvalidSpace
	ErrInvalidString
	ErrNonXmlChar
	ErrInvalidUtf8

	// Structural errors.
	ErrInvalidName
	ErrInvalidReference
	ErrInvalidExternalID
	ErrInvalidCharacterData
	ErrUnknownToken

	// One-shot constraint violations.
	ErrXmlDeclExists
	ErrUnknownXmlDeclVersion
	ErrDoctypeExists
	ErrNodesLimitReached
)

var kindNames = [...]string{
	ErrUnexpectedEndOfStream: "unexpected end of stream",
	ErrInvalidChar:           "invalid character",
	ErrInvalidCharMultiple:   "invalid character",
	ErrInvalidQuote:          "invalid quote",
	ErrInvalidSpace:          "invalid or missing whitespace",
	ErrInvalidString:         "invalid string literal",
	ErrNonXmlChar:            "character not allowed in XML 1.0",
	ErrInvalidUtf8:           "invalid UTF-8",
	ErrInvalidName:           "invalid name",
	ErrInvalidReference:      "invalid reference",
	ErrInvalidExternalID:     "invalid external ID",
	ErrInvalidCharacterData:  "invalid character data",
	ErrUnknownToken:          "unknown token",
	ErrXmlDeclExists:         "XML declaration already present",
	ErrUnknownXmlDeclVersion: "unknown XML declaration version",
	ErrDoctypeExists:         "DOCTYPE already present",
	ErrNodesLimitReached:     "node limit reached",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown error kind"
}
