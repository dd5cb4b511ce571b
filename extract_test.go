package edinet

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveMember struct {
	name string
	body string
}

// buildArchive writes members into an in-memory ZIP in the given order.
// Member order matters for the merge tests below.
func buildArchive(t *testing.T, members []archiveMember) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractHolding_TraditionalArchive(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0000000_header.xbrl", holdingXBRL},
	})

	rec := ExtractHolding(archive)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 5.23, *rec.HoldingRatio)
	require.NotNil(t, rec.HolderName)
	assert.Equal(t, "山田投資株式会社", *rec.HolderName)
}

func TestExtractHolding_InlineArchive(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0101010_honbun.htm", holdingInlineXBRL},
	})

	rec := ExtractHolding(archive)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 7.45, *rec.HoldingRatio)
	require.NotNil(t, rec.TargetCompanyName)
	assert.Equal(t, "テスト工業株式会社", *rec.TargetCompanyName)
}

// A traditional XBRL member with a current ratio wins outright; the inline
// members are never consulted.
func TestExtractHolding_TraditionalTakesPrecedence(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0000000_header.xbrl", holdingXBRL},
		{"XBRL/PublicDoc/0101010_honbun.htm", holdingInlineXBRL},
	})

	rec := ExtractHolding(archive)

	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 5.23, *rec.HoldingRatio)
	require.NotNil(t, rec.HolderName)
	assert.Equal(t, "山田投資株式会社", *rec.HolderName)
}

const partialTraditionalXBRL = `<?xml version="1.0"?>
<xbrl xmlns:jplvh_cor="http://example.com/jplvh_cor">
  <jplvh_cor:NameOfLargeShareholdingReporter contextRef="FilingDateInstant">合同会社アルファ</jplvh_cor:NameOfLargeShareholdingReporter>
</xbrl>`

const partialInlinePrevious = `<html xmlns="http://www.w3.org/1999/xhtml"
	xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<body>
  <ix:nonFraction name="jplvh:HoldingRatioOfShareCertificatesEtcPerLastReport" contextRef="FilingDateInstant">3.3</ix:nonFraction>
  <ix:nonNumeric name="jplvh:IssuerNameLargeShareholding" contextRef="FilingDateInstant">ベータ株式会社</ix:nonNumeric>
</body>
</html>`

const partialInlineTarget = `<html xmlns="http://www.w3.org/1999/xhtml"
	xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<body>
  <ix:nonNumeric name="jplvh:IssuerNameLargeShareholding" contextRef="FilingDateInstant">ガンマ株式会社</ix:nonNumeric>
  <ix:nonNumeric name="jplvh:PurposeOfHolding" contextRef="FilingDateInstant">純投資</ix:nonNumeric>
</body>
</html>`

// No member carries a current ratio, so the partials merge field-wise: the
// traditional record seeds the merge, then inline members in archive order.
// The issuer name from the earlier inline member wins over the later one.
func TestExtractHolding_MergesPartials(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0000000_header.xbrl", partialTraditionalXBRL},
		{"XBRL/PublicDoc/0101010_honbun.htm", partialInlinePrevious},
		{"XBRL/PublicDoc/0102010_honbun.htm", partialInlineTarget},
	})

	rec := ExtractHolding(archive)

	assert.Nil(t, rec.HoldingRatio)
	require.NotNil(t, rec.PreviousHoldingRatio)
	assert.Equal(t, 3.3, *rec.PreviousHoldingRatio)
	require.NotNil(t, rec.HolderName)
	assert.Equal(t, "合同会社アルファ", *rec.HolderName)
	require.NotNil(t, rec.TargetCompanyName)
	assert.Equal(t, "ベータ株式会社", *rec.TargetCompanyName)
	require.NotNil(t, rec.PurposeOfHolding)
	assert.Equal(t, "純投資", *rec.PurposeOfHolding)
}

func TestExtractHolding_CorruptArchive(t *testing.T) {
	for _, archive := range [][]byte{nil, {}, []byte("not a zip at all")} {
		rec := ExtractHolding(archive)
		assert.True(t, rec.IsEmpty())
	}
}

func TestExtractHolding_NoRecognizableMembers(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"readme.txt", "nothing to see"},
		{"XBRL/AuditDoc/audit.xbrl", holdingXBRL},
	})

	rec := ExtractHolding(archive)
	assert.True(t, rec.IsEmpty())
}

func TestExtractHolding_UnparsableInlineFallsBackToRegex(t *testing.T) {
	// Unclosed <br> breaks the XML walk but not the regex scan.
	broken := `<html><body><br>
<ix:nonFraction name="jplvh:HoldingRatioOfShareCertificatesEtc" contextRef="FilingDateInstant">0.0612</ix:nonFraction>
</body></html>`
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0101010_honbun.htm", broken},
	})

	rec := ExtractHolding(archive)
	require.NotNil(t, rec.HoldingRatio)
	assert.Equal(t, 6.12, *rec.HoldingRatio)
}

func TestDiagnose(t *testing.T) {
	archive := buildArchive(t, []archiveMember{
		{"XBRL/PublicDoc/0000000_header.xbrl", holdingXBRL},
		{"XBRL/PublicDoc/0101010_honbun.htm", holdingInlineXBRL},
	})

	diag := Diagnose(archive)

	assert.True(t, diag.ArchiveValid)
	assert.Len(t, diag.Members, 2)
	require.Len(t, diag.XBRLCandidates, 1)
	require.Len(t, diag.InlineCandidates, 1)
	assert.Equal(t, IXNamespace, diag.IXNamespaceURI)
	assert.NotEmpty(t, diag.XBRLElements)
	assert.NotEmpty(t, diag.InlineElements)

	// The diagnostic result must be exactly what the production path returns.
	if diff := cmp.Diff(ExtractHolding(archive), diag.Result); diff != "" {
		t.Errorf("diagnostic result diverges from extraction (-want +got):\n%s", diff)
	}
}

func TestDiagnose_CorruptArchive(t *testing.T) {
	diag := Diagnose([]byte("garbage"))

	assert.False(t, diag.ArchiveValid)
	assert.Empty(t, diag.Members)
	assert.True(t, diag.Result.IsEmpty())
}
