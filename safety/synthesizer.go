package safety

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/drugsafety/fda"
)

// SummaryRequest carries the numeric facts a generator may draw on.
type SummaryRequest struct {
	DrugName      string
	TotalEvents   int
	TopEffects    []string
	Demographics  []string
	ActiveRecalls int
	SeriousCount  int
	SampledEvents int
}

// SummaryResult is a generated summary and its highest-priority concern.
type SummaryResult struct {
	Summary    string
	TopConcern string
}

// TextGenerator produces natural-language text for a profile.
//
// Contract:
//   - GenerateSummary honors ctx cancellation and deadlines.
//   - An empty Summary counts as a failure; the caller falls back to
//     its template.
//   - Implementations must be safe for concurrent use.
type TextGenerator interface {
	GenerateSummary(ctx context.Context, req SummaryRequest) (SummaryResult, error)
}

// SynthesizerConfig configures profile synthesis.
type SynthesizerConfig struct {
	// Generator produces the summary text. Nil disables generation and
	// every profile uses the templated summary.
	Generator TextGenerator

	// Timeout bounds one generation call.
	// Default: 8 seconds
	Timeout time.Duration
}

// Synthesizer builds safety profiles from raw upstream data.
type Synthesizer struct {
	generator TextGenerator
	timeout   time.Duration
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(config SynthesizerConfig) *Synthesizer {
	if config.Timeout <= 0 {
		config.Timeout = 8 * time.Second
	}

	return &Synthesizer{
		generator: config.Generator,
		timeout:   config.Timeout,
	}
}

// Synthesize produces a profile from raw. It fails only on invalid
// input; generation trouble degrades to the templated summary so the
// numeric fields always survive.
func (s *Synthesizer) Synthesize(ctx context.Context, raw *fda.RawSafetyData) (*Profile, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil input", ErrSynthesis)
	}
	if raw.TotalEvents < 0 || raw.TotalRecalls < 0 || raw.SeriousCount < 0 || raw.SampledEvents < 0 {
		return nil, fmt.Errorf("%w: negative counts for %q", ErrSynthesis, raw.DrugName)
	}

	effects := TopEffects(raw)
	demographics := Demographics(raw)

	profile := &Profile{
		DrugName:             raw.DrugName,
		SafetyScore:          Score(raw),
		AdverseEventsCount:   raw.TotalEvents,
		TopSideEffects:       effects,
		HighRiskDemographics: demographics,
		ActiveRecalls:        raw.TotalRecalls,
	}

	profile.Summary, profile.TopConcern = s.generate(ctx, raw, effects, demographics)
	return profile, nil
}

func (s *Synthesizer) generate(ctx context.Context, raw *fda.RawSafetyData, effects, demographics []string) (summary, concern string) {
	if s.generator == nil {
		return templateSummary(raw), deriveConcern(effects, demographics)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.generator.GenerateSummary(genCtx, SummaryRequest{
		DrugName:      raw.DrugName,
		TotalEvents:   raw.TotalEvents,
		TopEffects:    effects,
		Demographics:  demographics,
		ActiveRecalls: raw.TotalRecalls,
		SeriousCount:  raw.SeriousCount,
		SampledEvents: raw.SampledEvents,
	})
	if err != nil || strings.TrimSpace(result.Summary) == "" {
		return templateSummary(raw), deriveConcern(effects, demographics)
	}

	concern = strings.TrimSpace(result.TopConcern)
	if concern == "" {
		concern = deriveConcern(effects, demographics)
	}
	return result.Summary, concern
}

// templateSummary is the deterministic fallback summary.
func templateSummary(raw *fda.RawSafetyData) string {
	return fmt.Sprintf("%s has %d reported adverse events. Consult healthcare provider for personalized advice.",
		raw.DrugName, raw.TotalEvents)
}

// deriveConcern picks the fallback concern: a high-risk demographic
// outranks the top side effect, which outranks the generic caution.
func deriveConcern(effects, demographics []string) string {
	if len(demographics) > 0 {
		return "Risky for " + demographics[0]
	}
	if len(effects) > 0 {
		return "Watch for " + effects[0]
	}
	return "Monitor for side effects"
}
