package edinet

import (
	"archive/zip"
	"bytes"
	"strings"

	"go.uber.org/zap"
)

// Pattern tables for annual (有価証券報告書) and quarterly (四半期報告書)
// filings. Same interpreter as the holding pipeline, different taxonomy
// fragments.
var (
	sharesOutstandingPatterns = patternSet{
		patterns: []string{
			"NumberOfIssuedSharesTotalNumberOfSharesEtcRegularShares",
			"TotalNumberOfIssuedShares",
			"NumberOfIssuedShares",
			"IssuedSharesTotalNumber",
		},
	}

	netAssetsPatterns = patternSet{
		patterns: []string{
			"NetAssets",
			"EquityAttributableToOwnersOfParent",
			"TotalEquity",
			"ShareholdersEquity",
		},
	}

	companyNamePatterns = patternSet{
		patterns: []string{
			"CompanyName",
			"FilerName",
		},
	}
)

// ExtractFundamentals extracts company fundamentals from a periodic-report
// archive. Like the holding pipeline it never errors: corrupt or
// unrecognizable input yields an all-empty record.
func (e *Extractor) ExtractFundamentals(archive []byte) CompanyFundamentals {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		e.log.Warn("invalid periodic-report archive", zap.Error(err))
		return CompanyFundamentals{}
	}

	xbrlCands, _ := SelectCandidates(memberNames(zr))
	if len(xbrlCands) == 0 {
		return CompanyFundamentals{}
	}

	data, err := readMember(zr, xbrlCands[0].Path)
	if err != nil {
		return CompanyFundamentals{}
	}

	rec := ExtractFundamentalsFromXBRL(data)
	e.log.Debug("extracted company fundamentals", zap.String("file", xbrlCands[0].Path))
	return rec
}

// ExtractFundamentalsFromXBRL extracts fundamentals from one traditional
// XBRL instance document.
//
// Shares outstanding takes the largest value among non-historical contexts:
// consolidated and standalone figures may both appear and the largest is
// authoritative. Net assets and company name are first-match-wins like the
// holding pipeline's text fields.
func ExtractFundamentalsFromXBRL(data []byte) CompanyFundamentals {
	elems, err := walkInstance(data)
	if err != nil {
		return CompanyFundamentals{}
	}

	var rec CompanyFundamentals

	for _, pat := range sharesOutstandingPatterns.patterns {
		for _, el := range elems {
			if !strings.Contains(el.local, pat) {
				continue
			}
			if isHistoricalContext(el.contextRef) {
				continue
			}
			val, ok := parseIntegerText(el.text)
			if !ok {
				continue
			}
			if rec.SharesOutstanding == nil || val > *rec.SharesOutstanding {
				rec.SharesOutstanding = intPtr(val)
			}
		}
		if rec.SharesOutstanding != nil {
			break
		}
	}

	for _, pat := range netAssetsPatterns.patterns {
		for _, el := range elems {
			if !strings.Contains(el.local, pat) || isHistoricalContext(el.contextRef) {
				continue
			}
			if val, ok := parseIntegerText(el.text); ok {
				rec.NetAssets = intPtr(val)
				break
			}
		}
		if rec.NetAssets != nil {
			break
		}
	}

	if v, ok := firstTextMatch(elems, companyNamePatterns); ok {
		rec.CompanyName = strPtr(v)
	}

	return rec
}
