// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Command xmltokdump is a worked example of driving xmltok.Tokenizer:
// it reads a document and prints one line per token, including the
// byte span and the 1-based (row, col) position of its start.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/text/language"

	"lithium.im/xmltok"
	"lithium.im/xmltok/internal/bomsniff"
)

func main() {
	logger := log.New(os.Stderr, "xmltokdump: ", 0)

	fragment := flag.Bool("fragment", false, "tokenize input as a fragment, not a full document")
	fragmentName := flag.String("fragment-name", "fragment", "virtual enclosing element name in -fragment mode")
	quiet := flag.Bool("q", false, "suppress per-token output; print only a final count or error")
	flag.Parse()

	var input []byte
	var err error
	if args := flag.Args(); len(args) > 0 {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(bufio.NewReader(os.Stdin))
	}
	if err != nil {
		logger.Fatalf("reading input: %v", err)
	}

	if kind, _ := bomsniff.Detect(input); kind == bomsniff.Other {
		logger.Fatalf("unsupported encoding (detected %s); xmltok only reads UTF-8", bomsniff.DescribeOther(input))
	}

	var t *xmltok.Tokenizer
	if *fragment {
		t = xmltok.FromFragment(input, []byte(*fragmentName))
	} else {
		t = xmltok.From(input)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	var count int
	var lastLang language.Tag
	for {
		tok, err := t.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			logger.Fatalf("at %s: %v", t.Stream().TextPos(), err)
		}
		count++
		if *quiet {
			continue
		}

		if tok.Kind == xmltok.Attribute && tok.Local.AsStr(input) == "lang" && tok.Prefix.AsStr(input) == "xml" {
			if tag, err := language.Parse(tok.Value.AsStr(input)); err == nil {
				lastLang = tag
			}
		}

		fmt.Fprintf(w, "%-22s span=%-12s %s\n", describe(tok, input, lastLang), spanStr(tok.Span), t.Stream().TextPosFrom(tok.Span.Start))
	}

	w.Flush()
	fmt.Fprintf(os.Stderr, "%d tokens\n", count)
}

func spanStr(s xmltok.Span) string {
	start, end := s.Range()
	return fmt.Sprintf("[%d:%d)", start, end)
}

func describe(tok xmltok.Token, input []byte, lang language.Tag) string {
	switch tok.Kind {
	case xmltok.Declaration:
		return "Declaration"
	case xmltok.ProcessingInstruction:
		if !lang.IsRoot() {
			return fmt.Sprintf("PI(%s)[%s]", tok.Target.AsStr(input), lang)
		}
		return fmt.Sprintf("PI(%s)", tok.Target.AsStr(input))
	case xmltok.Comment:
		if !lang.IsRoot() {
			return fmt.Sprintf("Comment[%s]", lang)
		}
		return "Comment"
	case xmltok.DtdStart:
		return "DtdStart"
	case xmltok.EmptyDtd:
		return "EmptyDtd"
	case xmltok.EntityDeclaration:
		return fmt.Sprintf("Entity(%s)", tok.Name.AsStr(input))
	case xmltok.DtdEnd:
		return "DtdEnd"
	case xmltok.ElementStart:
		return fmt.Sprintf("Start(%s)", qnameStr(tok, input))
	case xmltok.Attribute:
		return fmt.Sprintf("Attr(%s)", qnameStr(tok, input))
	case xmltok.ElementEnd:
		switch tok.End {
		case xmltok.Open:
			return "Open"
		case xmltok.Empty:
			return "Empty"
		default:
			return fmt.Sprintf("Close(%s)", qnameStr(tok, input))
		}
	case xmltok.Text:
		return "Text"
	case xmltok.Cdata:
		return "Cdata"
	default:
		return "?"
	}
}

func qnameStr(tok xmltok.Token, input []byte) string {
	if tok.HasPrefix() {
		return tok.Prefix.AsStr(input) + ":" + tok.Local.AsStr(input)
	}
	return tok.Local.AsStr(input)
}
