package edinet

import "strings"

// CandidateRole marks whether a candidate came from the preferred public
// document area or from the unfiltered fallback set.
type CandidateRole string

const (
	RolePrimary  CandidateRole = "primary"
	RoleFallback CandidateRole = "fallback"
)

// FileFormat is the encoding family of a candidate member.
type FileFormat string

const (
	FormatTraditionalXBRL FileFormat = "traditional_xbrl"
	FormatInlineXBRL      FileFormat = "inline_xbrl"
)

// CandidateFile is one archive member worth parsing.
type CandidateFile struct {
	Path   string        `json:"path"`
	Role   CandidateRole `json:"role"`
	Format FileFormat    `json:"format"`
}

const (
	publicDocMarker = "PublicDoc"
	auditDocMarker  = "AuditDoc"
	macosxMarker    = "__MACOSX"
)

func isTraditionalXBRLPath(path string) bool {
	return strings.HasSuffix(path, ".xbrl")
}

func isInlineXBRLPath(path string) bool {
	return strings.HasSuffix(path, ".htm") || strings.HasSuffix(path, ".xhtml")
}

func isExcludedPath(path string) bool {
	return strings.Contains(path, auditDocMarker) || strings.Contains(path, macosxMarker)
}

// selectByFormat ranks members of one format: PublicDoc members win; when
// none exist, any member of the format is accepted as fallback. Audit
// documents and macOS resource-fork folders are always excluded.
func selectByFormat(members []string, matches func(string) bool, format FileFormat) []CandidateFile {
	var primary, fallback []CandidateFile
	for _, m := range members {
		if !matches(m) || isExcludedPath(m) {
			continue
		}
		if strings.Contains(m, publicDocMarker) {
			primary = append(primary, CandidateFile{Path: m, Role: RolePrimary, Format: format})
		} else {
			fallback = append(fallback, CandidateFile{Path: m, Role: RoleFallback, Format: format})
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

// SelectCandidates classifies archive member paths into ordered candidate
// lists for traditional XBRL (.xbrl) and inline XBRL (.htm/.xhtml) parsing.
// The caller supplies the member-name list; no file access happens here.
func SelectCandidates(members []string) (xbrl, inline []CandidateFile) {
	xbrl = selectByFormat(members, isTraditionalXBRLPath, FormatTraditionalXBRL)
	inline = selectByFormat(members, isInlineXBRLPath, FormatInlineXBRL)
	return xbrl, inline
}
