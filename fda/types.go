package fda

// ReactionCount is a tally of one reported reaction.
type ReactionCount struct {
	Reaction string
	Count    int
}

// AgeBuckets counts sampled reports by patient age group.
type AgeBuckets struct {
	// Elderly counts patients aged 65 and over.
	Elderly int
	// MiddleAged counts patients aged 40 to 64.
	MiddleAged int
}

// Recall is one ongoing enforcement report, as returned by the provider.
type Recall struct {
	RecallInitiationDate string `json:"recall_initiation_date"`
	Classification       string `json:"classification"`
	Reason               string `json:"reason_for_recall"`
	Status               string `json:"status"`
}

// RawSafetyData is the merged result of one logical retrieval. Tallies
// are deterministic: ReactionCounts preserves first-seen order and the
// sample is capped to the first maxSampledEvents reports.
type RawSafetyData struct {
	// DrugName is the name the provider was queried with.
	DrugName string

	// TotalEvents is the provider's total adverse-event count, which
	// may exceed the sampled reports.
	TotalEvents int

	// ReactionCounts tallies reactions across sampled reports in
	// first-seen order.
	ReactionCounts []ReactionCount

	// SeriousCount is the number of sampled reports marked serious.
	SeriousCount int

	// SampledEvents is the number of reports the tallies were built from.
	SampledEvents int

	// AgeBuckets groups sampled reports by patient age.
	AgeBuckets AgeBuckets

	// Recalls holds ongoing enforcement reports, up to the query limit.
	Recalls []Recall

	// TotalRecalls is the provider's total ongoing recall count.
	TotalRecalls int
}
