package edinet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdingInlineXBRL = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>変更報告書</title></head>
<body>
<div xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"
     xmlns:jplvh_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jplvh/2023-12-01/jplvh_cor">
  <p>株券等保有割合
    <ix:nonFraction name="jplvh_cor:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant">7.45</ix:nonFraction>%
  </p>
  <p>前回報告書に係る株券等保有割合
    <ix:nonFraction name="jplvh_cor:HoldingRatioOfShareCertificatesEtcPerLastReport" contextRef="FilingDateInstant">6.20</ix:nonFraction>%
  </p>
  <p><ix:nonNumeric name="jplvh_cor:NameOfLargeShareholdingReporter" contextRef="FilingDateInstant">鈴木キャピタル合同会社</ix:nonNumeric></p>
  <p><ix:nonNumeric name="jplvh_cor:IssuerNameLargeShareholding" contextRef="FilingDateInstant">テスト工業株式会社</ix:nonNumeric></p>
  <p><ix:nonFraction name="jplvh_cor:TotalNumberOfShareCertificatesEtcHeld" contextRef="FilingDateInstant" scale="3">2,500</ix:nonFraction>千株</p>
</div>
</body>
</html>`

// The ix prefix is declared on a descendant div, not the root, so this also
// exercises the namespace discovery scan.
func TestExtractHoldingFromInlineXBRL(t *testing.T) {
	rec, err := ExtractHoldingFromInlineXBRL([]byte(holdingInlineXBRL))
	require.NoError(t, err)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 7.45, *rec.HoldingRatio)
	require.NotNil(t, rec.PreviousHoldingRatio)
	assert.Equal(t, 6.2, *rec.PreviousHoldingRatio)

	require.NotNil(t, rec.HolderName)
	assert.Equal(t, "鈴木キャピタル合同会社", *rec.HolderName)
	require.NotNil(t, rec.TargetCompanyName)
	assert.Equal(t, "テスト工業株式会社", *rec.TargetCompanyName)

	// scale="3" multiplies the cleansed value by 10^3.
	require.NotNil(t, rec.SharesHeld)
	assert.Equal(t, int64(2500000), *rec.SharesHeld)
}

func TestExtractHoldingFromInlineXBRL_PercentLiteralNotRescaled(t *testing.T) {
	// The filer already formatted the value as a percentage; the decimal
	// fraction rescale must not run a second time.
	doc := `<html xmlns="http://www.w3.org/1999/xhtml">
<body xmlns:ix="http://www.xbrl.org/2013/inlineXBRL" xmlns:lvh="http://example.com/jplvh_cor">
  <ix:nonFraction name="lvh:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant">0.5%</ix:nonFraction>
</body>
</html>`
	rec, err := ExtractHoldingFromInlineXBRL([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 0.5, *rec.HoldingRatio)
}

func TestExtractHoldingFromInlineXBRL_FullWidthPercent(t *testing.T) {
	doc := `<html xmlns="http://www.w3.org/1999/xhtml">
<body xmlns:ix="http://www.xbrl.org/2013/inlineXBRL" xmlns:lvh="http://example.com/jplvh_cor">
  <ix:nonFraction name="lvh:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant">０.８２％</ix:nonFraction>
</body>
</html>`
	rec, err := ExtractHoldingFromInlineXBRL([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 0.82, *rec.HoldingRatio)
}

func TestExtractHoldingFromInlineXBRL_ValueSplitAcrossMarkup(t *testing.T) {
	doc := `<html xmlns="http://www.w3.org/1999/xhtml">
<body xmlns:ix="http://www.xbrl.org/2013/inlineXBRL" xmlns:lvh="http://example.com/jplvh_cor">
  <ix:nonFraction name="lvh:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant"><span>0.0</span><span>745</span></ix:nonFraction>
</body>
</html>`
	rec, err := ExtractHoldingFromInlineXBRL([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 7.45, *rec.HoldingRatio)
}

func TestExtractHoldingFromInlineXBRL_JointHolders(t *testing.T) {
	doc := `<html xmlns="http://www.w3.org/1999/xhtml">
<body xmlns:ix="http://www.xbrl.org/2013/inlineXBRL" xmlns:lvh="http://example.com/jplvh_cor">
  <ix:nonNumeric name="lvh:JointHolderName" contextRef="FilingDateInstant">共同保有者X</ix:nonNumeric>
  <ix:nonNumeric name="lvh:JointHolderName" contextRef="FilingDateInstant2">共同保有者Y</ix:nonNumeric>
  <ix:nonFraction name="lvh:JointHolderHoldingRatio" contextRef="FilingDateInstant">1.10</ix:nonFraction>
</body>
</html>`
	rec, err := ExtractHoldingFromInlineXBRL([]byte(doc))
	require.NoError(t, err)

	require.Len(t, rec.JointHolders, 2)
	assert.Equal(t, "共同保有者X", rec.JointHolders[0].Name)
	require.NotNil(t, rec.JointHolders[0].Ratio)
	assert.Equal(t, 1.1, *rec.JointHolders[0].Ratio)
	assert.Nil(t, rec.JointHolders[1].Ratio)
}

func TestExtractHoldingFromInlineXBRL_ParseFailure(t *testing.T) {
	_, err := ExtractHoldingFromInlineXBRL([]byte("<html><ix:nonFraction broken"))
	assert.Error(t, err)
}

func TestCollectInlineFacts_NamespaceFallback(t *testing.T) {
	// No xmlns:ix declaration anywhere; the well-known URI is assumed and
	// the raw ix-prefixed tags are still matched.
	doc := `<html>
<body>
  <ix:nonFraction name="lvh:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant">3.3</ix:nonFraction>
</body>
</html>`
	facts, uri, err := collectInlineFacts([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, IXNamespace, uri)
	require.Len(t, facts, 1)
	assert.Equal(t, "lvh:HoldingRatioOfShareCertificatesEtc", facts[0].name)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatInlineXBRL, DetectFormat([]byte(holdingInlineXBRL)))
	assert.Equal(t, FormatTraditionalXBRL, DetectFormat([]byte(holdingXBRL)))
	assert.Equal(t, FileFormat(""), DetectFormat([]byte("<html><body>plain</body></html>")))
}

func TestLooksLikePDF(t *testing.T) {
	assert.True(t, LooksLikePDF([]byte("%PDF-1.7 ...")))
	assert.True(t, LooksLikePDF([]byte("\xef\xbb\xbf  \n%PDF-1.4")))
	assert.False(t, LooksLikePDF([]byte("PK\x03\x04 zip bytes")))
}
