package safety

import (
	"math"
	"sort"

	"github.com/jonwraymond/drugsafety/fda"
)

// Scoring weights. The score starts at 100 and loses points for event
// volume, ongoing recalls and the serious share of sampled reports.
const (
	eventsPerPoint     = 1000.0
	maxEventPenalty    = 40.0
	recallPenalty      = 8.0
	maxRecallPenalty   = 24.0
	maxSeverityPenalty = 20.0

	maxTopEffects = 5
)

// Demographic labels attached to over-represented age buckets.
const (
	demographicElderly    = "Elderly (65+)"
	demographicMiddleAged = "Middle-aged (40-65)"
)

// Score computes the deterministic 0-100 safety score for raw. Same
// input, same score.
func Score(raw *fda.RawSafetyData) int {
	eventPen := math.Min(float64(raw.TotalEvents)/eventsPerPoint, maxEventPenalty)
	recallPen := math.Min(float64(raw.TotalRecalls)*recallPenalty, maxRecallPenalty)

	var severityPen float64
	if raw.SampledEvents > 0 {
		share := float64(raw.SeriousCount) / float64(raw.SampledEvents)
		severityPen = math.Min(share*maxSeverityPenalty, maxSeverityPenalty)
	}

	score := 100 - eventPen - recallPen - severityPen
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// TopEffects returns the most reported reactions, at most five, ordered
// by descending tally with ties broken by first-seen order.
func TopEffects(raw *fda.RawSafetyData) []string {
	if len(raw.ReactionCounts) == 0 {
		return nil
	}

	ordered := make([]fda.ReactionCount, len(raw.ReactionCounts))
	copy(ordered, raw.ReactionCounts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})

	n := len(ordered)
	if n > maxTopEffects {
		n = maxTopEffects
	}
	effects := make([]string, 0, n)
	for _, rc := range ordered[:n] {
		effects = append(effects, rc.Reaction)
	}
	return effects
}

// Demographics returns the age groups present in the sampled reports,
// dominant group first; the elderly bucket wins ties.
func Demographics(raw *fda.RawSafetyData) []string {
	buckets := raw.AgeBuckets
	if buckets.Elderly == 0 && buckets.MiddleAged == 0 {
		return nil
	}

	var groups []string
	if buckets.Elderly >= buckets.MiddleAged {
		groups = append(groups, demographicElderly)
		if buckets.MiddleAged > 0 {
			groups = append(groups, demographicMiddleAged)
		}
	} else {
		groups = append(groups, demographicMiddleAged)
		if buckets.Elderly > 0 {
			groups = append(groups, demographicElderly)
		}
	}
	return groups
}
