package edinet

import "strings"

// EDINET filers conform to one of two taxonomy families (jplvh_cor and
// jpcrp_cor) that name equivalent concepts differently, and some filings omit
// expected namespace declarations entirely. Matching is therefore
// namespace-agnostic: an element is a candidate when its local tag name
// contains one of an ordered list of known fragment names, most specific
// first. All three extraction strategies consume these tables through the
// same interpreter so they cannot drift apart.

// patternSet is an ordered list of local-name fragments with exclusions.
type patternSet struct {
	patterns []string
	exclude  []string
}

// excluded reports whether the local name carries one of the exclusion
// markers (abstract headers, per-holder breakdown entries, etc.).
func (p patternSet) excluded(local string) bool {
	for _, skip := range p.exclude {
		if strings.Contains(local, skip) {
			return true
		}
	}
	return false
}

// match reports whether the local name contains any pattern and none of the
// exclusions.
func (p patternSet) match(local string) bool {
	if p.excluded(local) {
		return false
	}
	for _, pat := range p.patterns {
		if strings.Contains(local, pat) {
			return true
		}
	}
	return false
}

var (
	// Holding ratio (保有割合), most specific first. Abstract elements and
	// per-individual-shareholder entries carry the same fragments but the
	// wrong cardinality, so they are excluded everywhere.
	ratioPatterns = patternSet{
		patterns: []string{
			"HoldingRatioOfShareCertificatesEtc",              // jplvh_cor
			"TotalShareholdingRatioOfShareCertificatesEtc",    // jpcrp_cor
			"TotalShareholdingRatio",                          // jpcrp_cor
			"RatioOfShareholdingToTotalIssuedShares",          // jpcrp_cor
			"RatioOfShareCertificatesEtcAtTimeOfPreviousReport", // jplvh_cor, previous ratio
		},
		exclude: []string{"Abstract", "EachLargeShareholder", "JointHolder"},
	}

	// Last-resort ratio scan, only consulted when the specific patterns
	// matched nothing at all.
	ratioFallbackPatterns = patternSet{
		patterns: []string{"HoldingRatio", "ShareholdingRatio", "RatioOfShareCertificatesEtc"},
		exclude:  []string{"Abstract", "EachLargeShareholder", "JointHolder"},
	}

	sharesPatterns = patternSet{
		patterns: []string{
			"TotalNumberOfShareCertificatesEtcHeld",
			"TotalNumberOfSharesHeld",
			"NumberOfShareCertificatesEtc",
			"NumberOfStocksEtc", // jplvh_cor TotalNumberOfStocksEtcHeld
		},
		exclude: []string{"Abstract"},
	}

	holderPatterns = patternSet{
		patterns: []string{
			"NameOfLargeShareholdingReporter",
			"NameOfFiler",
			"ReporterName",
			"LargeShareholderName",
		},
	}

	targetPatterns = patternSet{
		patterns: []string{
			"IssuerNameLargeShareholding",
			"IssuerName",
			"NameOfIssuer",
			"TargetCompanyName",
		},
	}

	secCodePatterns = patternSet{
		patterns: []string{
			"SecurityCodeOfIssuer",
			"IssuerSecuritiesCode",
			"SecurityCode",
		},
	}

	purposePatterns = patternSet{
		patterns: []string{
			"PurposeOfHolding",
			"PurposeOfHoldingOfShareCertificatesEtc",
		},
	}

	fundSourcePatterns = patternSet{
		patterns: []string{
			"DescriptionOfFundsForAcquisition",
			"FundsForAcquisition",
			"SourceOfFunds",
			"BreakdownOfAcquisitionFunds",
			"AcquisitionFund",
		},
	}
)

// isPreviousRatio decides "current" vs "previous" for any ratio-bearing
// fact. Large shareholding XBRL records both ratios under the same
// FilingDateInstant context and distinguishes them by element name; the
// contextRef check remains as a fallback for filings that use Prior/Previous
// contexts instead. Every extraction strategy routes through this one
// predicate.
func isPreviousRatio(localName, contextRef string) bool {
	return strings.Contains(localName, "PerLastReport") ||
		strings.Contains(localName, "Previous") ||
		strings.Contains(contextRef, "Prior") ||
		strings.Contains(contextRef, "Previous")
}

// isHistoricalContext reports whether a contextRef marks a prior-period
// value. Share counts and fundamentals skip these.
func isHistoricalContext(contextRef string) bool {
	return strings.Contains(contextRef, "Prior") || strings.Contains(contextRef, "Previous")
}

func matchesJointHolderName(local string) bool {
	return strings.Contains(local, "JointHolder") &&
		strings.Contains(local, "Name") &&
		!strings.Contains(local, "Abstract")
}

func matchesJointHolderRatio(local string) bool {
	return strings.Contains(local, "JointHolder") &&
		strings.Contains(local, "Ratio") &&
		!strings.Contains(local, "Abstract")
}

// matchesHolderName also accepts the bare jplvh_cor `Name` element, which
// some filings use instead of a reporter-specific element. The namespace
// hint is the qualified name prefix or the resolved namespace URI, whichever
// the strategy has.
func matchesHolderName(local, namespaceHint string) bool {
	if holderPatterns.match(local) {
		return true
	}
	return local == "Name" &&
		(strings.Contains(namespaceHint, "jplvh") || strings.Contains(namespaceHint, "lvh"))
}

// candidateFact is the strategy-independent shape each extractor reduces its
// input to: the structured walks and the regex fallback all emit these, and
// one classification stage below applies the business rules so the input
// method cannot change the extraction policy.
type candidateFact struct {
	localName  string
	namespace  string // prefix or resolved URI, used only for the jplvh Name fallback
	contextRef string
	text       string // decoded text, markup already stripped
	scale      string // inline XBRL only
	sign       string // inline XBRL only
}

// consumeNumeric classifies one numeric candidate and fills the matching
// field. Unparsable values are skipped, never fatal.
func (b *holdingBuilder) consumeNumeric(f candidateFact) {
	if ratioPatterns.match(f.localName) || ratioFallbackPatterns.match(f.localName) {
		val, ok := parseScaledNumber(f.text, f.scale, f.sign)
		if !ok {
			return
		}
		// A value the filer already wrote as "N%" must not be rescaled
		// again; only bare decimal fractions get the ×100 treatment.
		if !containsPercentSign(f.text) {
			val = normalizeRatio(val)
		}
		if isPreviousRatio(f.localName, f.contextRef) {
			b.setPreviousHoldingRatio(val)
		} else {
			b.setHoldingRatio(val)
		}
		return
	}

	if sharesPatterns.match(f.localName) {
		if isHistoricalContext(f.contextRef) {
			return
		}
		if val, ok := parseScaledNumber(f.text, f.scale, f.sign); ok {
			b.setSharesHeld(int64(val))
		}
		return
	}

	if matchesJointHolderRatio(f.localName) {
		val, ok := parseScaledNumber(f.text, f.scale, f.sign)
		if !ok {
			return
		}
		if !containsPercentSign(f.text) {
			val = normalizeRatio(val)
		}
		b.addJointRatio(val)
	}
}

// consumeText classifies one non-numeric candidate and fills the matching
// text field, first match wins.
func (b *holdingBuilder) consumeText(f candidateFact) {
	text := strings.TrimSpace(f.text)
	if text == "" {
		return
	}

	switch {
	case matchesHolderName(f.localName, f.namespace):
		b.setHolderName(text)
	case targetPatterns.match(f.localName):
		b.setTargetCompanyName(text)
	case secCodePatterns.match(f.localName):
		b.setTargetSecCode(text)
	case purposePatterns.match(f.localName):
		b.setPurposeOfHolding(text)
	case fundSourcePatterns.match(f.localName):
		b.setFundSource(text)
	case matchesJointHolderName(f.localName):
		b.addJointName(text)
	}
}
