package safety

import "time"

// Profile is the synthesized safety picture for one drug.
//
// Cached and DataFreshness are derived at read time by whoever serves
// the profile; they are never persisted. Everything else is immutable
// once the synthesizer produces it.
type Profile struct {
	// DrugName is the canonical display name.
	DrugName string `json:"drug_name"`

	// SafetyScore is the deterministic 0-100 score, higher is safer.
	SafetyScore int `json:"safety_score"`

	// Summary is the natural-language safety summary.
	Summary string `json:"summary"`

	// TopConcern is the single highest-priority caution for this drug.
	TopConcern string `json:"top_concern"`

	// AdverseEventsCount is the provider's total event count.
	AdverseEventsCount int `json:"adverse_events_count"`

	// TopSideEffects lists the most reported reactions, at most five,
	// most frequent first.
	TopSideEffects []string `json:"top_side_effects"`

	// HighRiskDemographics lists age groups over-represented in
	// reports, dominant group first.
	HighRiskDemographics []string `json:"high_risk_demographics"`

	// ActiveRecalls is the number of ongoing recalls.
	ActiveRecalls int `json:"active_recalls"`

	// DataFreshness is the age of the underlying data, zero when the
	// profile was just fetched.
	DataFreshness time.Duration `json:"-"`

	// Cached reports whether this profile was served from the store.
	Cached bool `json:"cached"`
}
