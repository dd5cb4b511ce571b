package edinet

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Extractor runs the extraction pipeline against archive bytes. It is
// stateless apart from its logger and safe for concurrent use.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor returns an Extractor that logs diagnostics through the given
// logger. A nil logger disables logging.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{log: logger}
}

var defaultExtractor = NewExtractor(nil)

// ExtractHolding parses a filing archive with the default (non-logging)
// extractor.
func ExtractHolding(archive []byte) HoldingFact {
	return defaultExtractor.ExtractHolding(archive)
}

// ExtractFundamentals parses a periodic-report archive with the default
// extractor.
func ExtractFundamentals(archive []byte) CompanyFundamentals {
	return defaultExtractor.ExtractFundamentals(archive)
}

// Diagnose inspects a filing archive with the default extractor.
func Diagnose(archive []byte) *Diagnostics {
	return defaultExtractor.Diagnose(archive)
}

func memberNames(zr *zip.Reader) []string {
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func readMember(zr *zip.Reader, path string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("member %s not found", path)
}

// ExtractHolding extracts shareholding data from a filing archive (ZIP).
// It never panics or returns an error: a corrupt archive or unrecognizable
// content degrades to an all-empty record.
//
// Strategy order: the best traditional XBRL candidate first, then each
// inline XBRL candidate through the XML walk with regex fallback. The first
// file yielding a current holding ratio wins outright; otherwise partial
// records from all candidates are merged field-wise, first non-empty value
// per field, in candidate order.
func (e *Extractor) ExtractHolding(archive []byte) HoldingFact {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		e.log.Warn("invalid filing archive", zap.Error(err))
		return HoldingFact{}
	}

	members := memberNames(zr)
	xbrlCands, inlineCands := SelectCandidates(members)
	if len(xbrlCands) == 0 && len(inlineCands) == 0 {
		e.log.Warn("no XBRL or inline XBRL members in archive",
			zap.Int("members", len(members)))
		return HoldingFact{}
	}

	// Traditional XBRL: a partial without a current ratio still seeds the
	// merge below, ahead of the inline partials.
	var seed HoldingFact
	if len(xbrlCands) > 0 {
		if data, err := readMember(zr, xbrlCands[0].Path); err == nil {
			rec := ExtractHoldingFromXBRL(data)
			if rec.HoldingRatio != nil {
				e.log.Debug("extracted from traditional XBRL",
					zap.String("file", xbrlCands[0].Path))
				return rec
			}
			seed = rec
		}
	}

	partials := []HoldingFact{seed}
	for _, cand := range inlineCands {
		data, err := readMember(zr, cand.Path)
		if err != nil {
			continue
		}
		rec := e.extractInlineFile(data)
		if rec.HoldingRatio != nil {
			e.log.Debug("extracted from inline XBRL", zap.String("file", cand.Path))
			return rec
		}
		partials = append(partials, rec)
	}

	merged := mergeHoldingFacts(partials...)
	if !merged.IsEmpty() {
		e.log.Debug("merged partial results from inline XBRL candidates",
			zap.Int("files", len(inlineCands)))
		return merged
	}

	e.log.Debug("no holding data recognized", zap.Int("members", len(members)))
	return HoldingFact{}
}

// extractInlineFile runs one inline XBRL candidate through the XML walk,
// then the regex fallback to fill whatever the walk missed.
func (e *Extractor) extractInlineFile(data []byte) HoldingFact {
	rec, err := ExtractHoldingFromInlineXBRL(data)
	if err == nil && rec.HoldingRatio != nil {
		return rec
	}
	if err != nil {
		e.log.Debug("inline XBRL walk failed, falling back to regex", zap.Error(err))
		rec = HoldingFact{}
	}
	rec.fillFrom(ExtractHoldingFromInlineXBRLRegex(data))
	return rec
}

// ElementSample is one candidate element observed during diagnosis.
type ElementSample struct {
	Tag        string `json:"tag"`
	Name       string `json:"name,omitempty"`
	Text       string `json:"text"`
	ContextRef string `json:"context_ref,omitempty"`
	Format     string `json:"format,omitempty"`
	Scale      string `json:"scale,omitempty"`
}

// Diagnostics is the operator-facing view of one extraction: what was in
// the archive, which members were candidates, what the extractors saw, and
// the record the production path produced.
type Diagnostics struct {
	ArchiveValid     bool            `json:"archive_valid"`
	Members          []string        `json:"members"`
	XBRLCandidates   []CandidateFile `json:"xbrl_candidates"`
	InlineCandidates []CandidateFile `json:"inline_candidates"`
	IXNamespaceURI   string          `json:"ix_namespace_uri,omitempty"`
	XBRLElements     []ElementSample `json:"xbrl_elements,omitempty"`
	InlineElements   []ElementSample `json:"inline_elements,omitempty"`
	Result           HoldingFact     `json:"result"`
}

// Local-name fragments worth surfacing when sampling elements for an
// operator.
var diagnosticKeywords = []string{
	"Shareholding", "Ratio", "Issuer", "Holder",
	"Filer", "Security", "Share", "Purpose",
}

func matchesDiagnosticKeyword(local string) bool {
	for _, kw := range diagnosticKeywords {
		if strings.Contains(local, kw) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Diagnose inspects a filing archive and reports what each extraction stage
// sees. It runs the exact same selector and extractor code paths as
// ExtractHolding so the diagnostic view cannot drift from production
// behavior.
func (e *Extractor) Diagnose(archive []byte) *Diagnostics {
	diag := &Diagnostics{}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return diag
	}
	diag.ArchiveValid = true
	diag.Members = memberNames(zr)
	diag.XBRLCandidates, diag.InlineCandidates = SelectCandidates(diag.Members)

	if len(diag.XBRLCandidates) > 0 {
		if data, err := readMember(zr, diag.XBRLCandidates[0].Path); err == nil {
			diag.XBRLElements = sampleInstanceElements(data, 50)
		}
	}

	if len(diag.InlineCandidates) > 0 {
		if data, err := readMember(zr, diag.InlineCandidates[0].Path); err == nil {
			diag.InlineElements, diag.IXNamespaceURI = sampleInlineElements(data, 80)
		}
	}

	diag.Result = e.ExtractHolding(archive)
	return diag
}

func sampleInstanceElements(data []byte, limit int) []ElementSample {
	elems, err := walkInstance(data)
	if err != nil {
		return nil
	}
	var samples []ElementSample
	for _, el := range elems {
		if !matchesDiagnosticKeyword(el.local) {
			continue
		}
		samples = append(samples, ElementSample{
			Tag:        el.local,
			Text:       truncateRunes(el.text, 100),
			ContextRef: el.contextRef,
		})
		if len(samples) >= limit {
			break
		}
	}
	return samples
}

func sampleInlineElements(data []byte, limit int) ([]ElementSample, string) {
	facts, uri, err := collectInlineFacts(data)
	if err != nil {
		// Unparsable member: show what the regex fallback sees instead.
		return sampleInlineRegex(data, limit), ""
	}

	var samples []ElementSample
	for _, f := range facts {
		tag := "nonNumeric"
		if f.numeric {
			tag = "nonFraction"
		}
		samples = append(samples, ElementSample{
			Tag:        tag,
			Name:       f.name,
			Text:       truncateRunes(f.text, 200),
			ContextRef: f.contextRef,
			Format:     f.format,
			Scale:      f.scale,
		})
		if len(samples) >= limit {
			break
		}
	}
	return samples, uri
}

func sampleInlineRegex(data []byte, limit int) []ElementSample {
	text := string(data)
	var samples []ElementSample

	for _, m := range nonFractionNameFirst.FindAllStringSubmatch(text, -1) {
		samples = append(samples, ElementSample{
			Tag:        "nonFraction(regex)",
			Name:       m[1],
			Text:       truncateRunes(stripTags(m[3]), 200),
			ContextRef: m[2],
		})
		if len(samples) >= limit {
			return samples
		}
	}
	for _, m := range nonNumericPattern.FindAllStringSubmatch(text, -1) {
		samples = append(samples, ElementSample{
			Tag:  "nonNumeric(regex)",
			Name: m[1],
			Text: truncateRunes(stripTags(m[2]), 200),
		})
		if len(samples) >= limit {
			return samples
		}
	}
	return samples
}
