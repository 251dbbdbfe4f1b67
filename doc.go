// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmltok is a low-level, pull-based, zero-allocation tokenizer
// for XML 1.0.
//
// A Tokenizer consumes a complete in-memory document and produces a
// finite, lazy sequence of Tokens; every Token carries byte Spans into
// the original input, so callers get precise error locations and raw
// substrings without the tokenizer ever copying or owning a string.
//
// The tokenizer does not build a DOM, does not check that end tags
// match their start tags, does not deduplicate attributes, does not
// resolve namespace prefixes, and does not expand entity or character
// references beyond decoding the numeric ones — all of that belongs to
// a layer built on top. What it guarantees is that tokens come out in
// document order with non-overlapping Spans (whitespace between prolog
// items, inside tags and after the root is skipped without a token), that
// positions are stable row/column pairs independent of how the input
// is later re-encoded, and that it never panics on arbitrary input,
// well-formed or not.
//
// See FromFragment for tokenizing a content fragment, one that doesn't
// have a single enclosing root element, and Snapshot for saving and
// restoring a cursor position cheaply.
package xmltok // import "lithium.im/xmltok"
