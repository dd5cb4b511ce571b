package edinet

import "regexp"

// Tag-shaped fallback for inline XBRL documents that fail XML parsing.
// Attribute order is not guaranteed, so each element type gets a pattern for
// both orderings. The payload may contain child markup, which is stripped
// before the value reaches the shared classification stage — the regex path
// is an alternate input method, not a different extraction policy.
var (
	nonFractionNameFirst = regexp.MustCompile(
		`(?is)<[^>]*?:nonFraction[^>]*?` +
			`name=["']([^"']+)["'][^>]*?` +
			`contextRef=["']([^"']+)["']` +
			`[^>]*?>(.*?)</[^>]*?:nonFraction>`)

	nonFractionContextFirst = regexp.MustCompile(
		`(?is)<[^>]*?:nonFraction[^>]*?` +
			`contextRef=["']([^"']+)["'][^>]*?` +
			`name=["']([^"']+)["']` +
			`[^>]*?>(.*?)</[^>]*?:nonFraction>`)

	nonNumericPattern = regexp.MustCompile(
		`(?is)<[^>]*?:nonNumeric[^>]*?` +
			`name=["']([^"']+)["']` +
			`[^>]*?>(.*?)</[^>]*?:nonNumeric>`)
)

// ExtractHoldingFromInlineXBRLRegex extracts holding data from raw inline
// XBRL bytes without parsing them as XML. Used when the XML walk fails, or
// as a second pass to fill gaps it left. Scale and sign attributes are not
// recovered on this path; values are taken as written.
func ExtractHoldingFromInlineXBRLRegex(data []byte) HoldingFact {
	text := string(data)
	b := newHoldingBuilder()

	for _, m := range nonFractionNameFirst.FindAllStringSubmatch(text, -1) {
		b.consumeNumeric(regexFact(m[1], m[2], m[3]))
	}
	for _, m := range nonFractionContextFirst.FindAllStringSubmatch(text, -1) {
		b.consumeNumeric(regexFact(m[2], m[1], m[3]))
	}
	for _, m := range nonNumericPattern.FindAllStringSubmatch(text, -1) {
		f := regexFact(m[1], "", m[2])
		if f.text == "" {
			continue
		}
		b.consumeText(f)
	}

	return b.build()
}

func regexFact(qname, contextRef, payload string) candidateFact {
	return candidateFact{
		localName:  localNameOf(qname),
		namespace:  qname,
		contextRef: contextRef,
		text:       stripTags(payload),
	}
}
