package edinet

// HoldingFact is the normalized output of parsing one large shareholding
// report (大量保有報告書). Every field is independently optional: a report
// whose taxonomy we do not recognize yields an all-empty record, which is a
// legitimate result rather than an error.
type HoldingFact struct {
	HoldingRatio         *float64      `json:"holding_ratio,omitempty"`
	PreviousHoldingRatio *float64      `json:"previous_holding_ratio,omitempty"`
	HolderName           *string       `json:"holder_name,omitempty"`
	TargetCompanyName    *string       `json:"target_company_name,omitempty"`
	TargetSecCode        *string       `json:"target_sec_code,omitempty"`
	SharesHeld           *int64        `json:"shares_held,omitempty"`
	PurposeOfHolding     *string       `json:"purpose_of_holding,omitempty"`
	JointHolders         []JointHolder `json:"joint_holders,omitempty"`
	FundSource           *string       `json:"fund_source,omitempty"`
}

// JointHolder is one co-holder (共同保有者) named in a large shareholding
// report. Names and ratios come from separate element groups and are paired
// positionally, so Ratio may be unknown even when the name is known.
type JointHolder struct {
	Name  string   `json:"name"`
	Ratio *float64 `json:"ratio,omitempty"`
}

// CompanyFundamentals holds company data extracted from annual (有価証券報告書)
// or quarterly (四半期報告書) filings.
type CompanyFundamentals struct {
	SharesOutstanding *int64  `json:"shares_outstanding,omitempty"`
	NetAssets         *int64  `json:"net_assets,omitempty"`
	CompanyName       *string `json:"company_name,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (h HoldingFact) IsEmpty() bool {
	return h.HoldingRatio == nil &&
		h.PreviousHoldingRatio == nil &&
		h.HolderName == nil &&
		h.TargetCompanyName == nil &&
		h.TargetSecCode == nil &&
		h.SharesHeld == nil &&
		h.PurposeOfHolding == nil &&
		h.JointHolders == nil &&
		h.FundSource == nil
}

// fillFrom copies every field that is still empty in h from other.
// Merging partial records from multiple candidate files is first-non-empty
// wins, scanned in file-list order, so earlier sources take precedence.
func (h *HoldingFact) fillFrom(other HoldingFact) {
	if h.HoldingRatio == nil {
		h.HoldingRatio = other.HoldingRatio
	}
	if h.PreviousHoldingRatio == nil {
		h.PreviousHoldingRatio = other.PreviousHoldingRatio
	}
	if h.HolderName == nil {
		h.HolderName = other.HolderName
	}
	if h.TargetCompanyName == nil {
		h.TargetCompanyName = other.TargetCompanyName
	}
	if h.TargetSecCode == nil {
		h.TargetSecCode = other.TargetSecCode
	}
	if h.SharesHeld == nil {
		h.SharesHeld = other.SharesHeld
	}
	if h.PurposeOfHolding == nil {
		h.PurposeOfHolding = other.PurposeOfHolding
	}
	if h.JointHolders == nil {
		h.JointHolders = other.JointHolders
	}
	if h.FundSource == nil {
		h.FundSource = other.FundSource
	}
}

// mergeHoldingFacts merges partial records field-wise, first non-empty value
// per field wins, scanned in argument order.
func mergeHoldingFacts(records ...HoldingFact) HoldingFact {
	var merged HoldingFact
	for _, rec := range records {
		merged.fillFrom(rec)
	}
	return merged
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }
func strPtr(s string) *string     { return &s }

// holdingBuilder accumulates fields during a single extraction pass.
// Setters fill a field only while it is still empty, which makes the scan
// order of patterns and elements the tie-break for conflicting values.
type holdingBuilder struct {
	rec HoldingFact

	// Joint holder names and ratios accumulate into parallel lists and are
	// paired by position when the builder is finalized.
	jointNames  []string
	jointRatios []float64
}

func newHoldingBuilder() *holdingBuilder {
	return &holdingBuilder{}
}

func (b *holdingBuilder) setHoldingRatio(v float64) {
	if b.rec.HoldingRatio == nil {
		b.rec.HoldingRatio = floatPtr(v)
	}
}

func (b *holdingBuilder) setPreviousHoldingRatio(v float64) {
	if b.rec.PreviousHoldingRatio == nil {
		b.rec.PreviousHoldingRatio = floatPtr(v)
	}
}

func (b *holdingBuilder) setSharesHeld(v int64) {
	if b.rec.SharesHeld == nil {
		b.rec.SharesHeld = intPtr(v)
	}
}

func (b *holdingBuilder) setHolderName(s string) {
	if b.rec.HolderName == nil && s != "" {
		b.rec.HolderName = strPtr(s)
	}
}

func (b *holdingBuilder) setTargetCompanyName(s string) {
	if b.rec.TargetCompanyName == nil && s != "" {
		b.rec.TargetCompanyName = strPtr(s)
	}
}

func (b *holdingBuilder) setTargetSecCode(s string) {
	if b.rec.TargetSecCode == nil && s != "" {
		b.rec.TargetSecCode = strPtr(s)
	}
}

func (b *holdingBuilder) setPurposeOfHolding(s string) {
	if b.rec.PurposeOfHolding == nil && s != "" {
		b.rec.PurposeOfHolding = strPtr(s)
	}
}

func (b *holdingBuilder) setFundSource(s string) {
	if b.rec.FundSource == nil && s != "" {
		b.rec.FundSource = strPtr(s)
	}
}

func (b *holdingBuilder) addJointName(name string) {
	if name != "" {
		b.jointNames = append(b.jointNames, name)
	}
}

func (b *holdingBuilder) addJointRatio(v float64) {
	b.jointRatios = append(b.jointRatios, v)
}

// hasBothRatios reports whether both the current and previous holding ratios
// have been found, which ends the priority scan early.
func (b *holdingBuilder) hasBothRatios() bool {
	return b.rec.HoldingRatio != nil && b.rec.PreviousHoldingRatio != nil
}

// build pairs joint holder names with ratios by position and returns the
// finished record.
func (b *holdingBuilder) build() HoldingFact {
	rec := b.rec
	for i, name := range b.jointNames {
		jh := JointHolder{Name: name}
		if i < len(b.jointRatios) {
			jh.Ratio = floatPtr(b.jointRatios[i])
		}
		rec.JointHolders = append(rec.JointHolders, jh)
	}
	return rec
}
