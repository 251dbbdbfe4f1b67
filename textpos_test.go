// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

import (
	"strconv"
	"testing"
)

func TestTextPosAt(t *testing.T) {
	for i, test := range []struct {
		input string
		pos   int
		want  TextPos
	}{
		{"", 0, TextPos{Row: 1, Col: 1}},
		{"abc", 0, TextPos{Row: 1, Col: 1}},
		{"abc", 3, TextPos{Row: 1, Col: 4}},
		{"a\nb", 2, TextPos{Row: 2, Col: 1}},
		{"a\nbc", 4, TextPos{Row: 2, Col: 3}},
		{"a\nb\nc", 5, TextPos{Row: 3, Col: 2}},
		// Unicode-aware column: а, б, в are two-byte UTF-8 codepoints.
		{"абв", 2, TextPos{Row: 1, Col: 2}},
		{"абв", 6, TextPos{Row: 1, Col: 4}},
		// Column stays correct even past end of input.
		{"abc", 100, TextPos{Row: 1, Col: 4}},
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			got := textPosAt([]byte(test.input), test.pos)
			if got != test.want {
				t.Errorf("textPosAt(%q, %d) = %+v, want %+v", test.input, test.pos, got, test.want)
			}
		})
	}
}

// TestColumnIsUnicodeAware reproduces spec.md §8 property 5: for input
// "<тег/>" an InvalidChar at byte offset 6 must report column 4, not 7.
func TestColumnIsUnicodeAware(t *testing.T) {
	input := "<тег/>"
	pos := textPosAt([]byte(input), 6)
	if pos.Col != 4 {
		t.Errorf("Col = %d, want 4", pos.Col)
	}
}

func TestTextPosString(t *testing.T) {
	p := TextPos{Row: 3, Col: 7}
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
