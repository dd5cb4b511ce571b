package edinet

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// instanceElement is one element observed while walking a traditional XBRL
// instance document: local tag name, resolved namespace URI, contextRef and
// direct character data.
type instanceElement struct {
	local      string
	namespace  string
	contextRef string
	text       string
}

// newXMLDecoder builds a decoder that tolerates the charset labels seen in
// EDINET documents (Shift_JIS, UTF-8, occasionally mislabeled).
func newXMLDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// walkInstance flattens an XML document into its elements. Each element
// carries only its direct character data, so container elements stay empty
// and fact leaves keep their values. Returns an error only when the bytes do
// not parse as XML at all.
func walkInstance(data []byte) ([]instanceElement, error) {
	dec := newXMLDecoder(data)

	type frame struct {
		el  instanceElement
		buf strings.Builder
	}
	var stack []*frame
	var elems []instanceElement

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, &frame{el: instanceElement{
				local:      t.Name.Local,
				namespace:  t.Name.Space,
				contextRef: getAttr(t.Attr, "contextRef"),
			}})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].buf.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.el.text = strings.TrimSpace(top.buf.String())
			elems = append(elems, top.el)
		}
	}

	return elems, nil
}

// getAttr gets an attribute value by local name.
func getAttr(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func (el instanceElement) fact() candidateFact {
	return candidateFact{
		localName:  el.local,
		namespace:  el.namespace,
		contextRef: el.contextRef,
		text:       el.text,
	}
}

// firstTextMatch scans patterns in priority order and returns the first
// non-empty text value from a matching element.
func firstTextMatch(elems []instanceElement, pats patternSet) (string, bool) {
	for _, pat := range pats.patterns {
		for _, el := range elems {
			if strings.Contains(el.local, pat) && !pats.excluded(el.local) && el.text != "" {
				return el.text, true
			}
		}
	}
	return "", false
}

// ExtractHoldingFromXBRL extracts holding data from one traditional XBRL
// instance document (.xbrl). Malformed input yields an all-empty record,
// never an error.
func ExtractHoldingFromXBRL(data []byte) HoldingFact {
	elems, err := walkInstance(data)
	if err != nil {
		return HoldingFact{}
	}

	b := newHoldingBuilder()

	// Holding ratio: scan patterns most-specific first. The same element
	// list holds both the current and the previous ratio, so the scan
	// continues until both are filled or patterns run out.
	for _, pat := range ratioPatterns.patterns {
		for _, el := range elems {
			if !strings.Contains(el.local, pat) || ratioPatterns.excluded(el.local) {
				continue
			}
			b.consumeNumeric(el.fact())
		}
		if b.hasBothRatios() {
			break
		}
	}

	// Last resort: broader scan, only when nothing matched at all.
	if b.rec.HoldingRatio == nil {
		for _, el := range elems {
			if ratioFallbackPatterns.match(el.local) {
				b.consumeNumeric(el.fact())
			}
		}
	}

	if v, ok := firstTextMatch(elems, holderPatterns); ok {
		b.setHolderName(v)
	} else {
		// jplvh_cor fallback: a bare Name element in the jplvh namespace.
		for _, el := range elems {
			if matchesHolderName(el.local, el.namespace) && el.text != "" {
				b.setHolderName(el.text)
				break
			}
		}
	}

	if v, ok := firstTextMatch(elems, targetPatterns); ok {
		b.setTargetCompanyName(v)
	}
	if v, ok := firstTextMatch(elems, secCodePatterns); ok {
		b.setTargetSecCode(v)
	}
	if v, ok := firstTextMatch(elems, purposePatterns); ok {
		b.setPurposeOfHolding(v)
	}
	if v, ok := firstTextMatch(elems, fundSourcePatterns); ok {
		b.setFundSource(v)
	}

	// Total shares held: first non-historical match in pattern order.
	for _, pat := range sharesPatterns.patterns {
		for _, el := range elems {
			if !strings.Contains(el.local, pat) || sharesPatterns.excluded(el.local) {
				continue
			}
			b.consumeNumeric(el.fact())
		}
		if b.rec.SharesHeld != nil {
			break
		}
	}

	// Joint holders: names and ratios come from independently scanned
	// element groups, paired positionally at build time.
	for _, el := range elems {
		if el.text == "" {
			continue
		}
		if matchesJointHolderName(el.local) {
			b.consumeText(el.fact())
		} else if matchesJointHolderRatio(el.local) {
			b.consumeNumeric(el.fact())
		}
	}

	// Secondary non-indexed scan when the contains-scan found no names.
	if len(b.jointNames) == 0 {
		for _, el := range elems {
			if (el.local == "NameOfJointHolder" || el.local == "JointHolderName") && el.text != "" {
				b.addJointName(el.text)
			}
		}
	}

	return b.build()
}
