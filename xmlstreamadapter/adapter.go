// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmlstreamadapter adapts an xmltok.Tokenizer into an
// encoding/xml.TokenReader, so callers already building pipelines on
// mellium.im/xmlstream (xmlstream.Copy, xmlstream.Token, and friends)
// can consume xmltok's zero-allocation scan without retooling their
// downstream code.
//
// The adapter necessarily allocates: encoding/xml.Token is an
// interface over owned strings, so every token it returns copies out
// of xmltok's borrowed Spans. That's the cost of leaving the core's
// zero-allocation guarantee for an ecosystem-compatible shape.
package xmlstreamadapter

import (
	"encoding/xml"
	"fmt"
	"io"

	"mellium.im/xmlstream"

	"lithium.im/xmltok"
	"lithium.im/xmltok/internal/ns"
)

// Reader adapts a *xmltok.Tokenizer to xml.TokenReader. The zero value
// is not usable; construct one with New.
type Reader struct {
	t *xmltok.Tokenizer

	// pendingAttrs accumulates Attribute tokens between an ElementStart
	// and its terminator, since encoding/xml reports a start element
	// and all of its attributes as a single xml.StartElement.
	pendingStart *xml.StartElement
	pendingAttrs []xml.Attr

	// pendingEnd holds the synthetic end element owed after a
	// self-closing tag's StartElement is returned: encoding/xml always
	// represents <a/> as a StartElement immediately followed by an
	// EndElement, never as one token.
	pendingEnd *xml.EndElement
}

// New returns a Reader that pulls tokens from t.
func New(t *xmltok.Tokenizer) *Reader {
	return &Reader{t: t}
}

// Token implements xml.TokenReader.
func (r *Reader) Token() (xml.Token, error) {
	if r.pendingEnd != nil {
		end := *r.pendingEnd
		r.pendingEnd = nil
		return end, nil
	}
	for {
		tok, err := r.t.Next()
		if err != nil {
			if r.pendingStart != nil && err == io.EOF {
				// A start tag's attributes were pending when the
				// underlying tokenizer ended; that can only happen on
				// malformed input, so surface it rather than silently
				// dropping the open element.
				return nil, fmt.Errorf("xmlstreamadapter: tokenizer ended mid-tag: %w", r.t.Err())
			}
			return nil, err
		}

		input := r.t.Stream().Input()
		switch tok.Kind {
		case xmltok.Declaration:
			return xml.ProcInst{Target: "xml", Inst: append([]byte(nil), tok.Span.Slice(input)...)}, nil
		case xmltok.ProcessingInstruction:
			return xml.ProcInst{Target: tok.Target.AsStr(input), Inst: append([]byte(nil), tok.Content.Slice(input)...)}, nil
		case xmltok.Comment:
			return xml.Comment(append([]byte(nil), tok.Text.Slice(input)...)), nil
		case xmltok.Text:
			return xml.CharData(append([]byte(nil), tok.Text.Slice(input)...)), nil
		case xmltok.Cdata:
			return xml.CharData(append([]byte(nil), tok.Text.Slice(input)...)), nil

		case xmltok.ElementStart:
			name := qname(tok.Prefix, tok.Local, input)
			r.pendingStart = &xml.StartElement{Name: name}
			r.pendingAttrs = r.pendingAttrs[:0]
			continue

		case xmltok.Attribute:
			name := qname(tok.Prefix, tok.Local, input)
			r.pendingAttrs = append(r.pendingAttrs, xml.Attr{
				Name:  name,
				Value: string(tok.Value.Slice(input)),
			})
			continue

		case xmltok.ElementEnd:
			switch tok.End {
			case xmltok.Open, xmltok.Empty:
				start := *r.pendingStart
				start.Attr = append([]xml.Attr(nil), r.pendingAttrs...)
				r.pendingStart = nil
				r.pendingAttrs = nil
				if tok.End == xmltok.Empty {
					end := xml.EndElement{Name: start.Name}
					r.pendingEnd = &end
				}
				return start, nil
			default: // Close
				name := qname(tok.Prefix, tok.Local, input)
				return xml.EndElement{Name: name}, nil
			}

		default:
			// DtdStart, EmptyDtd, EntityDeclaration, DtdEnd: none of
			// these have an encoding/xml.Token shape, so they are
			// silently absorbed here, matching the standard library's
			// own xml.Decoder behavior with a Directive token being
			// the closest analog we choose not to fabricate.
			continue
		}
	}
}

// CopyTo drains every token from t into w using xmlstream.Copy,
// the usual way an xmlstream pipeline terminates in a sink (an
// xml.Encoder, another xmlstream.TokenWriter, or a test fixture).
func CopyTo(w xmlstream.TokenWriter, t *xmltok.Tokenizer) (int, error) {
	return xmlstream.Copy(w, New(t))
}

func qname(prefix, local xmltok.Span, input []byte) xml.Name {
	if prefix.IsEmpty() {
		return xml.Name{Local: local.AsStr(input)}
	}
	space := prefix.AsStr(input)
	if space == "xml" {
		space = ns.XML
	}
	return xml.Name{Space: space, Local: local.AsStr(input)}
}
