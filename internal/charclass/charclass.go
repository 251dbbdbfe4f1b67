// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package charclass implements the character classification predicates
// from W3C XML 1.0 §2.2 and §2.3 (Char, NameStartChar, NameChar).
// Every predicate takes a decoded rune, never a byte range, so callers
// decode once (in Stream) and classify many times.
package charclass

// IsXMLChar reports whether r is a valid XML 1.0 character:
//
//	#x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
//
// This is checked on every character of text, attribute, CDATA, comment and
// PI content, so the common case (ASCII printable) is tested first.
func IsXMLChar(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

// IsNameStartChar reports whether r may start an XML Name.
func IsNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6:
		return true
	case r >= 0xD8 && r <= 0xF6:
		return true
	case r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D:
		return true
	case r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D:
		return true
	case r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF:
		return true
	case r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF:
		return true
	case r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	default:
		return false
	}
}

// IsNameChar reports whether r may appear after the first character of
// an XML Name.
func IsNameChar(r rune) bool {
	if IsNameStartChar(r) {
		return true
	}
	switch {
	case r == '-' || r == '.':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == 0xB7:
		return true
	case r >= 0x0300 && r <= 0x036F:
		return true
	case r >= 0x203F && r <= 0x2040:
		return true
	default:
		return false
	}
}

// IsAsciiSpace reports whether b is one of the four XML whitespace
// bytes: space, tab, LF, CR. Non-ASCII whitespace (e.g. NBSP) is
// intentionally not included — spec prose for Stream.skip_spaces is
// explicit that only these four bytes are skipped.
func IsAsciiSpace(b byte) bool {
	switch b {
	case 0x20, 0x09, 0x0A, 0x0D:
		return true
	default:
		return false
	}
}
