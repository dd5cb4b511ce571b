package edinet

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// IXNamespace is the well-known inline XBRL namespace URI, used when a
// document never declares the ix prefix itself.
const IXNamespace = "http://www.xbrl.org/2013/inlineXBRL"

// inlineFact is one ix:nonFraction or ix:nonNumeric element found in an
// inline XBRL document.
type inlineFact struct {
	numeric    bool   // nonFraction vs nonNumeric
	name       string // name attribute, "prefix:ElementName"
	contextRef string
	scale      string
	sign       string
	format     string
	text       string // text of the whole subtree
}

// localNameOf strips the taxonomy prefix from a qualified name attribute.
func localNameOf(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func (f inlineFact) fact() candidateFact {
	return candidateFact{
		localName:  localNameOf(f.name),
		namespace:  f.name, // qname prefix carries the taxonomy hint
		contextRef: f.contextRef,
		text:       f.text,
		scale:      f.scale,
		sign:       f.sign,
	}
}

// collectInlineFacts walks an XHTML-flavored document and returns every
// inline XBRL fact element, together with the ix namespace URI that was
// used for matching.
//
// The ix prefix is not guaranteed to be declared on the root element, so
// declarations are collected from descendants as the walk proceeds; when the
// document never declares the prefix the well-known URI is assumed. The
// chosen URI is returned so diagnostics can surface it.
func collectInlineFacts(data []byte) ([]inlineFact, string, error) {
	dec := newXMLDecoder(data)

	type capture struct {
		fact  inlineFact
		depth int
		buf   strings.Builder
	}

	var (
		facts      []inlineFact
		open       []*capture
		discovered string
		depth      int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, discovered, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if discovered == "" {
				for _, attr := range t.Attr {
					if attr.Name.Space == "xmlns" && attr.Name.Local == "ix" {
						discovered = attr.Value
					}
				}
			}
			uri := discovered
			if uri == "" {
				uri = IXNamespace
			}
			// Documents that never declare the prefix at all leave the
			// decoder with the literal "ix" as the namespace; accept
			// those under the well-known-URI fallback.
			if t.Name.Space != uri && !(discovered == "" && t.Name.Space == "ix") {
				continue
			}
			if t.Name.Local != "nonFraction" && t.Name.Local != "nonNumeric" {
				continue
			}
			open = append(open, &capture{
				fact: inlineFact{
					numeric:    t.Name.Local == "nonFraction",
					name:       getAttr(t.Attr, "name"),
					contextRef: getAttr(t.Attr, "contextRef"),
					scale:      getAttr(t.Attr, "scale"),
					sign:       getAttr(t.Attr, "sign"),
					format:     getAttr(t.Attr, "format"),
				},
				depth: depth,
			})
		case xml.CharData:
			// Fact values may be split across child markup; every open
			// fact accumulates the text of its whole subtree.
			for _, c := range open {
				c.buf.Write(t)
			}
		case xml.EndElement:
			for len(open) > 0 && open[len(open)-1].depth == depth {
				c := open[len(open)-1]
				open = open[:len(open)-1]
				c.fact.text = strings.TrimSpace(c.buf.String())
				facts = append(facts, c.fact)
			}
			depth--
		}
	}

	if discovered == "" {
		discovered = IXNamespace
	}
	return facts, discovered, nil
}

// ExtractHoldingFromInlineXBRL extracts holding data from one inline XBRL
// (.htm/.xhtml) document using a namespace-aware XML walk. An error means
// the bytes did not parse as XML and the caller should fall back to the
// regex extractor; the record is then all-empty.
func ExtractHoldingFromInlineXBRL(data []byte) (HoldingFact, error) {
	facts, _, err := collectInlineFacts(data)
	if err != nil {
		return HoldingFact{}, err
	}

	b := newHoldingBuilder()
	for _, f := range facts {
		if f.name == "" || f.text == "" {
			continue
		}
		if f.numeric {
			b.consumeNumeric(f.fact())
		} else {
			b.consumeText(f.fact())
		}
	}
	return b.build(), nil
}

// DetectFormat classifies raw member bytes as inline XBRL, traditional
// XBRL, or unknown.
func DetectFormat(data []byte) FileFormat {
	content := string(data)

	if strings.Contains(content, "xmlns:ix=") ||
		strings.Contains(content, "<ix:") ||
		strings.Contains(content, "inlineXBRL") {
		return FormatInlineXBRL
	}

	if strings.Contains(content, "<xbrl") ||
		strings.Contains(content, "xmlns:xbrli=") {
		return FormatTraditionalXBRL
	}

	return ""
}

// LooksLikePDF reports whether the bytes appear to be a PDF rather than an
// archive or document. Some upstream servers prepend whitespace or BOM
// bytes, so the signature may appear anywhere in the first KiB.
func LooksLikePDF(content []byte) bool {
	limit := len(content)
	if limit > 1024 {
		limit = 1024
	}
	return bytes.Contains(content[:limit], []byte("%PDF"))
}
