// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package bomsniff detects a leading byte-order mark so the tokenizer
// can skip a UTF-8 one (spec.md §4.2.1) and reject anything else with
// a clear error instead of silently misreading it as UTF-8 garbage.
package bomsniff

import "golang.org/x/net/html/charset"

// Kind identifies which byte-order mark, if any, begins an input.
type Kind int

const (
	// None means no recognized BOM was found at the start of input.
	None Kind = iota
	// UTF8 is the three-byte EF BB BF mark this tokenizer supports.
	UTF8
	// Other is some other BOM-prefixed encoding (UTF-16 or UTF-32) that
	// this UTF-8-only tokenizer cannot read.
	Other
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect inspects the first few bytes of input and reports which kind
// of BOM, if any, is present and how many bytes it occupies.
func Detect(input []byte) (kind Kind, length int) {
	if hasPrefix(input, utf8BOM) {
		return UTF8, len(utf8BOM)
	}
	switch {
	case hasPrefix(input, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return Other, 4
	case hasPrefix(input, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return Other, 4
	case hasPrefix(input, []byte{0xFE, 0xFF}):
		return Other, 2
	case hasPrefix(input, []byte{0xFF, 0xFE}):
		return Other, 2
	}
	return None, 0
}

// DescribeOther returns a human-readable guess at the encoding of an
// input that Detect reported as Other, for use in diagnostics (see
// cmd/xmltokdump). It never affects tokenization itself.
func DescribeOther(input []byte) string {
	_, name, _ := charset.DetermineEncoding(input, "")
	if name == "" {
		return "unknown"
	}
	return name
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
