package core

import "time"

// Section identifies one appraisal report section.
type Section string

const (
	SectionAvailability Section = "availability"
	SectionPricing      Section = "pricing"
	SectionCommunity    Section = "community"
)

// ParseSection validates a section name from user input.
func ParseSection(value string) (Section, bool) {
	switch Section(value) {
	case SectionAvailability, SectionPricing, SectionCommunity:
		return Section(value), true
	}
	return "", false
}

// Outcome represents the finding of one section lookup.
type Outcome int

const (
	OutcomeUnknown     Outcome = 0
	OutcomeAvailable   Outcome = 1
	OutcomeTaken       Outcome = 2
	OutcomeError       Outcome = 3
	OutcomeUnsupported Outcome = 4
)

// String renders an outcome for display and serialization.
func (o Outcome) String() string {
	switch o {
	case OutcomeAvailable:
		return "available"
	case OutcomeTaken:
		return "taken"
	case OutcomeError:
		return "error"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Provenance captures metadata about how a section lookup was resolved.
type Provenance struct {
	LookupID       string     `json:"lookup_id"`
	RequestedAt    time.Time  `json:"requested_at"`
	ResolvedAt     time.Time  `json:"resolved_at"`
	Source         string     `json:"source"`
	Server         string     `json:"server,omitempty"`
	FromCache      bool       `json:"from_cache"`
	CacheExpiresAt *time.Time `json:"cache_expires_at,omitempty"`
	ToolVersion    string     `json:"tool_version"`
}

// SectionResult reports one section's finding and supporting context.
type SectionResult struct {
	Name       string         `json:"name"`
	Section    Section        `json:"section"`
	TLD        string         `json:"tld,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	StatusCode int            `json:"status_code,omitempty"`
	Message    string         `json:"message,omitempty"`
	ExtraData  map[string]any `json:"extra_data,omitempty"`
	Provenance Provenance     `json:"provenance"`
}

// PricingRow is one TLD price entry, merged from the bundled table and
// live registrar quotes.
type PricingRow struct {
	TLD         string  `json:"tld"`
	Registrar   string  `json:"registrar,omitempty"`
	RegisterUSD float64 `json:"register_usd"`
	RenewUSD    float64 `json:"renew_usd"`
	Premium     bool    `json:"premium,omitempty"`
	Source      string  `json:"source"`
}

// Appraisal holds the scoring verdict for one name.
type Appraisal struct {
	Score   int      `json:"score"`
	Grade   string   `json:"grade"`
	Signals []string `json:"signals,omitempty"`

	// Generic is set when the appraisal narrative would be boilerplate
	// with no name-specific signal; such reports are flagged rather than
	// padded with filler.
	Generic        bool     `json:"generic"`
	GenericReasons []string `json:"generic_reasons,omitempty"`
}

// Report is a complete appraisal for one candidate name.
type Report struct {
	Name        string           `json:"name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Results     []*SectionResult `json:"results"`
	Pricing     []PricingRow     `json:"pricing,omitempty"`
	Appraisal   Appraisal        `json:"appraisal"`
	Narrative   []string         `json:"narrative,omitempty"`
	ToolVersion string           `json:"tool_version,omitempty"`
}

// Profile names the TLDs and sections one report run covers.
type Profile struct {
	TLDs     []string  `json:"tlds"`
	Sections []Section `json:"sections"`
}

// Wants reports whether the profile includes a section. An empty
// section list means all sections.
func (p Profile) Wants(section Section) bool {
	if len(p.Sections) == 0 {
		return true
	}
	for _, s := range p.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// DefaultProfile covers the common registration TLDs and all sections.
func DefaultProfile() Profile {
	return Profile{
		TLDs:     []string{"com", "net", "org", "io", "dev"},
		Sections: []Section{SectionAvailability, SectionPricing, SectionCommunity},
	}
}
